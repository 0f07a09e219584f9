package authoring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

var ErrUnknownType = errors.New("unknown assessment type")

// variant bundles everything the engine knows about one assessment type.
// The table below is the only place a new type has to be registered.
type variant struct {
	kind           models.AssessmentType
	label          string
	defaultOptions []string
	defaultCorrect []int
	fixedOptions   bool
	pairedOptions  bool

	encode   func(in EditableState) []models.Option
	check    func(in EditableState) validator.ValidationErrors
	describe func(a models.Assessment, p *Preview)
	decode   func(a models.Assessment, out *EditableState)
}

var variants = map[models.AssessmentType]*variant{
	models.SingleChoice: {
		kind:           models.SingleChoice,
		label:          "Single choice",
		defaultOptions: []string{"", ""},
		defaultCorrect: []int{0},
		encode:         encodeChoices,
		check:          checkChoices,
		describe:       describeChoices,
		decode:         decodeChoices,
	},
	models.MultipleChoice: {
		kind:           models.MultipleChoice,
		label:          "Multiple choice",
		defaultOptions: []string{"", ""},
		defaultCorrect: []int{0},
		encode:         encodeChoices,
		check:          checkChoices,
		describe:       describeChoices,
		decode:         decodeChoices,
	},
	models.TrueOrFalse: {
		kind:           models.TrueOrFalse,
		label:          "True or false",
		defaultOptions: []string{"True", "False"},
		defaultCorrect: []int{0},
		fixedOptions:   true,
		encode:         encodeTrueOrFalse,
		check:          checkNothing,
		describe:       describeChoices,
		decode:         decodeTrueOrFalse,
	},
	models.MatchTheWords: {
		kind:           models.MatchTheWords,
		label:          "Match the words",
		defaultOptions: []string{"", "", "", ""},
		defaultCorrect: []int{},
		pairedOptions:  true,
		encode:         encodeMatchTheWords,
		check:          checkMatchTheWords,
		describe:       describeMatchTheWords,
		decode:         decodeMatchTheWords,
	},
	models.OrderList: {
		kind:           models.OrderList,
		label:          "Order list",
		defaultOptions: []string{"", ""},
		defaultCorrect: []int{},
		encode:         encodeOrderList,
		check:          checkOrderList,
		describe:       describeOrderList,
		decode:         decodeOrderList,
	},
	models.Numerical: {
		kind:           models.Numerical,
		label:          "Numerical",
		defaultOptions: []string{""},
		defaultCorrect: []int{0},
		encode:         encodeNumerical,
		check:          checkNumerical,
		describe:       describeNumerical,
		decode:         decodeNumerical,
	},
	models.FillInBlank: {
		kind:           models.FillInBlank,
		label:          "Fill in the blank",
		defaultOptions: []string{},
		defaultCorrect: []int{},
		encode:         encodeFillInBlank,
		check:          checkFillInBlank,
		describe:       describeFillInBlank,
		decode:         decodeFillInBlank,
	},
	models.DragAndDrop: {
		kind:           models.DragAndDrop,
		label:          "Drag and drop",
		defaultOptions: []string{defaultCategory1, defaultCategory2},
		defaultCorrect: []int{},
		encode:         encodeDragAndDrop,
		check:          checkDragAndDrop,
		describe:       describeDragAndDrop,
		decode:         decodeDragAndDrop,
	},
	models.OpenEnded: {
		kind:           models.OpenEnded,
		label:          "Open ended",
		defaultOptions: []string{""},
		defaultCorrect: []int{},
		encode:         encodeOpenEnded,
		check:          checkNothing,
		describe:       describeOpenEnded,
		decode:         decodeOpenEnded,
	},
}

func lookup(t models.AssessmentType) (*variant, error) {
	v, ok := variants[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return v, nil
}

// VariantInfo describes a registered type and its default editable state.
type VariantInfo struct {
	Type           models.AssessmentType `json:"type"`
	Label          string                `json:"label"`
	DefaultOptions []string              `json:"defaultOptions"`
	DefaultCorrect []int                 `json:"defaultCorrectAnswers"`
	FixedOptions   bool                  `json:"fixedOptions"`
	PairedOptions  bool                  `json:"pairedOptions"`
}

// Variants returns every registered type in a stable order.
func Variants() []VariantInfo {
	out := make([]VariantInfo, 0, len(models.AssessmentTypes))
	for _, t := range models.AssessmentTypes {
		v := variants[t]
		opts, correct := v.defaults()
		out = append(out, VariantInfo{
			Type:           v.kind,
			Label:          v.label,
			DefaultOptions: opts,
			DefaultCorrect: correct,
			FixedOptions:   v.fixedOptions,
			PairedOptions:  v.pairedOptions,
		})
	}
	return out
}

// Defaults returns fresh copies of the default options and correct-answer
// indices for t.
func Defaults(t models.AssessmentType) ([]string, []int, error) {
	v, err := lookup(t)
	if err != nil {
		return nil, nil, err
	}
	opts, correct := v.defaults()
	return opts, correct, nil
}

func (v *variant) defaults() ([]string, []int) {
	return slices.Clone(v.defaultOptions), slices.Clone(v.defaultCorrect)
}

// defaultExtras is the side-channel state a freshly selected type starts with.
func defaultExtras(t models.AssessmentType) *models.NumericalExtras {
	if t == models.Numerical {
		return &models.NumericalExtras{Operator: models.OperatorEq}
	}
	return nil
}
