package core

import (
	"fmt"
	"strings"
)

// Variant selects which field is asked and how many cards a note yields.
type Variant int

const (
	BothWays Variant = iota
	LeftToRight
	RightToLeft
)

// Field names one side of a note.
type Field int

const (
	FieldLeft Field = iota
	FieldRight
)

func (f Field) String() string {
	if f == FieldRight {
		return "right"
	}
	return "left"
}

// Template is one card layout: the prompt side and the answer side.
type Template struct {
	Name   string
	Prompt Field
	Answer Field
}

// Model is the fixed note type configuration attached to a variant.
type Model struct {
	ID        int64
	Name      string
	Templates []Template
}

const baseModelID int64 = 1760709464

var (
	leftToRight = Template{Name: "Left to Right", Prompt: FieldLeft, Answer: FieldRight}
	rightToLeft = Template{Name: "Right to Left", Prompt: FieldRight, Answer: FieldLeft}
)

var models = [...]Model{
	BothWays:    {ID: baseModelID, Name: "Question and Answer", Templates: []Template{leftToRight, rightToLeft}},
	LeftToRight: {ID: baseModelID + 1, Name: "Question and Answer", Templates: []Template{leftToRight}},
	RightToLeft: {ID: baseModelID + 2, Name: "Question and Answer", Templates: []Template{rightToLeft}},
}

var variantNames = [...]string{
	BothWays:    "both-ways",
	LeftToRight: "left-to-right",
	RightToLeft: "right-to-left",
}

// Variants lists every supported variant in declaration order.
func Variants() []Variant {
	return []Variant{BothWays, LeftToRight, RightToLeft}
}

// ParseVariant maps a direction name to a Variant. The empty string selects BothWays.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return BothWays, nil
	}
	for v, n := range variantNames {
		if n == name {
			return Variant(v), nil
		}
	}
	return BothWays, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

func (v Variant) valid() bool {
	return v >= BothWays && v <= RightToLeft
}

func (v Variant) String() string {
	if !v.valid() {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Model returns the static model for the variant. Unknown values fall back to BothWays.
func (v Variant) Model() Model {
	if !v.valid() {
		return models[BothWays]
	}
	return models[v]
}

// CardsPerNote reports how many cards each note yields under this variant.
func (v Variant) CardsPerNote() int {
	return len(v.Model().Templates)
}
