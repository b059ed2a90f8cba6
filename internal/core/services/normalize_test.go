package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_Basic(t *testing.T) {
	got := NormalizeText("  What is the   Capital of France? ")
	assert.Equal(t, "what is the capital of france", got)
}

func TestNormalizeText_Deterministic(t *testing.T) {
	input := "The mitochondria is the Powerhouse of the cell!"
	first := NormalizeText(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NormalizeText(input))
	}
}

func TestNormalizeText_UnwrapsCloze(t *testing.T) {
	got := NormalizeText("{{c1::Paris}} is the capital of {{c2::France::country}}.")
	assert.Equal(t, "paris is the capital of france", got)
}

func TestNormalizeText_StripsMarkup(t *testing.T) {
	got := NormalizeText("The <b>answer</b> is<br>42")
	assert.Equal(t, "the answer is 42", got)
}

func TestNormalizeText_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "", NormalizeText("   \t\n  "))
	assert.Equal(t, "", NormalizeText("?!;,"))
}

func TestNormalizeText_ClozeRenderingEquality(t *testing.T) {
	// A cloze card and its plain rendering must compare equal.
	cloze := NormalizeText("{{c1::Photosynthesis}} converts light into {{c2::chemical energy}}.")
	plain := NormalizeText("Photosynthesis converts light into chemical energy.")
	assert.Equal(t, plain, cloze)
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("France's capital, city!")
	assert.Equal(t, []string{"france", "s", "capital", "city"}, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Nil(t, Tokenize("   "))
}
