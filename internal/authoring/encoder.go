package authoring

import (
	"slices"
	"strings"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"gorm.io/datatypes"
)

const (
	defaultCategory1 = "Category 1"
	defaultCategory2 = "Category 2"
)

// Encode converts editable state into a canonical assessment.
//
// Input is expected to have passed IsValid. Encode never fails; an unknown
// type yields no options.
func Encode(state EditableState) models.Assessment {
	a := models.Assessment{
		Type:        state.Type,
		Text:        state.QuestionText,
		Explanation: state.Explanation,
		Options:     datatypes.JSONSlice[models.Option](EncodeOptions(state)),
		ViewID:      state.ViewID,
		SlideName:   state.AssessmentName,
		ButtonLabel: models.ButtonLabel,
	}

	switch state.Type {
	case models.Numerical:
		extras := models.NumericalExtras{Operator: models.OperatorEq}
		if state.Extras != nil {
			extras = *state.Extras
			if extras.Operator == "" {
				extras.Operator = models.OperatorEq
			}
		}
		a.Extras = &extras
	case models.OpenEnded:
		if len(state.Rubric) > 0 {
			a.Rubric = state.Clone().Rubric
		}
	}

	return a
}

// EncodeOptions returns only the canonical option list for state.
func EncodeOptions(state EditableState) []models.Option {
	v, err := lookup(state.Type)
	if err != nil {
		return []models.Option{}
	}
	return v.encode(state)
}

func encodeChoices(in EditableState) []models.Option {
	out := make([]models.Option, len(in.Options))
	for i, text := range in.Options {
		out[i] = models.Option{
			Text:      text,
			IsCorrect: slices.Contains(in.CorrectAnswers, i),
		}
	}
	return out
}

func encodeTrueOrFalse(in EditableState) []models.Option {
	return []models.Option{
		{Text: "True", IsCorrect: slices.Contains(in.CorrectAnswers, 0)},
		{Text: "False", IsCorrect: slices.Contains(in.CorrectAnswers, 1)},
	}
}

// encodeMatchTheWords reads options as consecutive (word, match) pairs and
// drops a trailing unpaired entry.
func encodeMatchTheWords(in EditableState) []models.Option {
	pairs := len(in.Options) / 2
	out := make([]models.Option, pairs)
	for i := 0; i < pairs; i++ {
		out[i] = models.Option{
			Text:         in.Options[2*i],
			IsCorrect:    true,
			CorrectOrder: i,
			Match:        in.Options[2*i+1],
		}
	}
	return out
}

func encodeOrderList(in EditableState) []models.Option {
	out := make([]models.Option, len(in.Options))
	for i, text := range in.Options {
		out[i] = models.Option{Text: text, IsCorrect: true, CorrectOrder: i}
	}
	return out
}

func encodeNumerical(in EditableState) []models.Option {
	value := "0"
	if len(in.Options) > 0 {
		value = in.Options[0]
	}
	return []models.Option{{Text: value, IsCorrect: true}}
}

// encodeFillInBlank keeps every option as a distractor; the real answers are
// the [bracketed] spans of the question text.
func encodeFillInBlank(in EditableState) []models.Option {
	out := make([]models.Option, len(in.Options))
	for i, text := range in.Options {
		out[i] = models.Option{Text: text}
	}
	return out
}

// encodeDragAndDrop treats options[0] and options[1] as category names and
// splits the remaining entries by parity: even offsets go to the first
// category, odd offsets to the second. Blank items are dropped and
// CorrectOrder runs across both categories, first category first.
func encodeDragAndDrop(in EditableState) []models.Option {
	cat1, cat2 := categoryNames(in.Options)
	first, second := categoryItems(in.Options)

	out := make([]models.Option, 0, len(first)+len(second))
	for _, item := range first {
		out = append(out, models.Option{Text: item, IsCorrect: true, CorrectOrder: len(out), Match: cat1})
	}
	for _, item := range second {
		out = append(out, models.Option{Text: item, IsCorrect: true, CorrectOrder: len(out), Match: cat2})
	}
	return out
}

func categoryNames(options []string) (string, string) {
	cat1, cat2 := defaultCategory1, defaultCategory2
	if len(options) > 0 && options[0] != "" {
		cat1 = options[0]
	}
	if len(options) > 1 && options[1] != "" {
		cat2 = options[1]
	}
	return cat1, cat2
}

func categoryItems(options []string) (first, second []string) {
	for i := 2; i < len(options); i++ {
		if isBlank(options[i]) {
			continue
		}
		if (i-2)%2 == 0 {
			first = append(first, options[i])
		} else {
			second = append(second, options[i])
		}
	}
	return first, second
}

// encodeOpenEnded keeps the optional model answer.
func encodeOpenEnded(in EditableState) []models.Option {
	if len(in.Options) == 0 || in.Options[0] == "" {
		return []models.Option{}
	}
	return []models.Option{{Text: in.Options[0], IsCorrect: true}}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
