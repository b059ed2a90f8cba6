package domain

import (
	"strings"
	"time"
)

// CardKind identifies the flashcard variant.
type CardKind string

// Available card kinds.
const (
	// CardKindCloze is a cloze-deletion card ({{c1::term}} markers).
	CardKindCloze CardKind = "cloze"

	// CardKindBasic is a front/back question-answer card.
	CardKindBasic CardKind = "basic"
)

// IsValid returns true if the card kind is recognised.
func (k CardKind) IsValid() bool {
	return k == CardKindCloze || k == CardKindBasic
}

// String returns the string representation.
func (k CardKind) String() string {
	return string(k)
}

// CardField is a single named text field of a card.
type CardField struct {
	// Name is the field name (e.g. "Front", "Back", "Text").
	Name string

	// Value is the field content.
	Value string
}

// Card is a generated flashcard awaiting acceptance.
// Cards are immutable once created by the generator.
type Card struct {
	// ID is the unique identifier for the card.
	ID string

	// Kind is the card variant.
	Kind CardKind

	// Fields are the named text fields in order.
	Fields []CardField

	// ArticleIdentity links back to the owning Article.
	ArticleIdentity string

	// CreatedAt is when the generator produced this card.
	CreatedAt time.Time
}

// Field returns the value of the named field, or "" if absent.
func (c *Card) Field(name string) string {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Text returns the card's field contents joined into a single string.
// This is the text unit that signatures are derived from.
func (c *Card) Text() string {
	parts := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Value != "" {
			parts = append(parts, f.Value)
		}
	}
	return strings.Join(parts, " ")
}

// Validate checks the card has a recognised kind and non-empty content.
func (c *Card) Validate() error {
	if !c.Kind.IsValid() {
		return ErrInvalidInput
	}
	if strings.TrimSpace(c.Text()) == "" {
		return ErrInvalidInput
	}
	return nil
}
