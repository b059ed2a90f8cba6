package services

import (
	"regexp"
	"strings"
	"unicode"
)

// clozePattern matches Anki cloze deletions: {{c1::text}} or
// {{c1::text::hint}}. The deletion is replaced by its answer text so a
// cloze card and its plain rendering compare as equal.
var clozePattern = regexp.MustCompile(`\{\{c\d+::([^:}]*)(?:::[^}]*)?\}\}`)

// htmlTagPattern matches residual markup that survives extraction,
// such as <b> or <br> inside generated card fields.
var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// NormalizeText canonicalises text into the comparable form both
// signature backends consume: cloze markers unwrapped, markup stripped,
// lowercased, punctuation dropped, whitespace collapsed.
//
// The function is pure and locale-independent: the same input yields
// the same output across runs and machines. Empty or whitespace-only
// input yields the empty string.
func NormalizeText(text string) string {
	text = clozePattern.ReplaceAllString(text, "$1")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits text into the deterministic token stream used by the
// lexical backend. Tokens are the whitespace-separated units of the
// normalised text.
func Tokenize(text string) []string {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
