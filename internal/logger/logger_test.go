package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if buf.String() == "" {
		t.Error("expected output when verbose is enabled")
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")

	if buf.String() != "" {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWarn_AlwaysPrints(t *testing.T) {
	defer SetOutput(os.Stderr)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("backend down: %s", "ollama")

	if !strings.Contains(buf.String(), "backend down: ollama") {
		t.Errorf("expected warning output, got %q", buf.String())
	}
}

func TestWarnOnce(t *testing.T) {
	defer SetOutput(os.Stderr)

	var buf bytes.Buffer
	SetOutput(&buf)

	WarnOnce("degraded", "falling back to lexical")
	WarnOnce("degraded", "falling back to lexical")
	WarnOnce("other", "different condition")

	out := buf.String()
	if got := strings.Count(out, "falling back to lexical"); got != 1 {
		t.Errorf("expected 1 degradation warning, got %d", got)
	}
	if !strings.Contains(out, "different condition") {
		t.Error("expected second key to print")
	}
}
