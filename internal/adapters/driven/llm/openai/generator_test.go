package openai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

func TestParseCards_SectionedOutput(t *testing.T) {
	output := `CLOZE
{{c1::Photosynthesis}} converts light into {{c2::chemical energy}} ; ;
{{c1::Chlorophyll}} absorbs red and blue light ; ;
BASIC
What pigment drives photosynthesis? ; Chlorophyll ;
Where does the Calvin cycle run? ; In the stroma ;`

	cards := parseCards(output, "article-1")
	require.Len(t, cards, 4)

	assert.Equal(t, domain.CardKindCloze, cards[0].Kind)
	assert.Equal(t, "{{c1::Photosynthesis}} converts light into {{c2::chemical energy}}", cards[0].Field("Text"))

	assert.Equal(t, domain.CardKindBasic, cards[2].Kind)
	assert.Equal(t, "What pigment drives photosynthesis?", cards[2].Field("Front"))
	assert.Equal(t, "Chlorophyll", cards[2].Field("Back"))

	for _, card := range cards {
		assert.NoError(t, card.Validate())
		assert.Equal(t, "article-1", card.ArticleIdentity)
		assert.NotEmpty(t, card.ID)
	}
}

func TestParseCards_DropsJunk(t *testing.T) {
	output := `Here are your cards:
CLOZE
 ; ;
BASIC
Question with no answer ;
Sure, let me know if you need more!`

	// Preamble is outside any section, the cloze line is empty, the
	// basic line has no answer half, and the sign-off parses as a
	// one-part basic line. Nothing survives.
	assert.Empty(t, parseCards(output, "article-1"))
}

func TestParseCards_CaseInsensitiveHeaders(t *testing.T) {
	output := "Cloze cards:\n{{c1::Go}} was released in 2009 ; ;\nBasic cards:\nWho created Go? ; Google ;"

	cards := parseCards(output, "a")
	require.Len(t, cards, 2)
	assert.Equal(t, domain.CardKindCloze, cards[0].Kind)
	assert.Equal(t, domain.CardKindBasic, cards[1].Kind)
}

func TestSplitBasicLine(t *testing.T) {
	front, back, ok := splitBasicLine("What is 2+2? ; 4 ;")
	require.True(t, ok)
	assert.Equal(t, "What is 2+2?", front)
	assert.Equal(t, "4", back)

	_, _, ok = splitBasicLine("No separator here")
	assert.False(t, ok)

	_, _, ok = splitBasicLine(" ; answer only ;")
	assert.False(t, ok)
}

func TestBuildPrompt(t *testing.T) {
	plain := buildPrompt("article body", "")
	assert.True(t, strings.HasSuffix(plain, "Article Content:\narticle body"))
	assert.NotContains(t, plain, "additional instructions")

	custom := buildPrompt("article body", "Focus on dates.")
	assert.Contains(t, custom, "The user provided these additional instructions:\nFocus on dates.")
	assert.True(t, strings.HasSuffix(custom, "Article Content:\narticle body"))
}
