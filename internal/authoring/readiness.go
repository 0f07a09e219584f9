package authoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

// blankPattern matches one [answer] span of a FillInBlank question.
var blankPattern = regexp.MustCompile(`\[[^\]]+\]`)

// IsValid reports whether state can be saved.
func IsValid(state EditableState) bool {
	return len(Problems(state)) == 0
}

// Problems lists every rule state currently fails, common fields first.
func Problems(state EditableState) validator.ValidationErrors {
	var problems validator.ValidationErrors

	if isBlank(state.AssessmentName) {
		problems = append(problems, required("assessmentName"))
	}
	if state.Type != models.FillInBlank && isBlank(state.QuestionText) {
		problems = append(problems, required("questionText"))
	}
	if isBlank(state.ViewID) {
		problems = append(problems, required("view_id"))
	}

	v, err := lookup(state.Type)
	if err != nil {
		return append(problems, validator.ValidationError{
			Field:   "type",
			Message: "unsupported assessment type",
			Value:   state.Type,
			Rule:    "assessment_type",
		})
	}

	return append(problems, v.check(state)...)
}

func required(field string) validator.ValidationError {
	return validator.ValidationError{Field: field, Message: "is required", Rule: "required"}
}

func checkNothing(EditableState) validator.ValidationErrors {
	return nil
}

func countFilled(options []string) int {
	n := 0
	for _, o := range options {
		if !isBlank(o) {
			n++
		}
	}
	return n
}

func checkChoices(in EditableState) validator.ValidationErrors {
	var problems validator.ValidationErrors
	if filled := countFilled(in.Options); filled < 2 {
		problems = append(problems, validator.ValidationError{
			Field:   "options",
			Message: "needs at least 2 non-blank options",
			Value:   filled,
			Rule:    "min_options",
		})
	}
	if len(in.CorrectAnswers) == 0 {
		problems = append(problems, validator.ValidationError{
			Field:   "correctAnswers",
			Message: "needs at least one correct answer",
			Rule:    "min_correct",
		})
	}
	return problems
}

// checkMatchTheWords only inspects the first pair, however many pairs exist.
func checkMatchTheWords(in EditableState) validator.ValidationErrors {
	if len(in.Options) < 2 || isBlank(in.Options[0]) || isBlank(in.Options[1]) {
		return validator.ValidationErrors{{
			Field:   "options[0:2]",
			Message: "first pair must have both a word and a match",
			Rule:    "first_pair",
		}}
	}
	return nil
}

func checkOrderList(in EditableState) validator.ValidationErrors {
	if filled := countFilled(in.Options); filled < 2 {
		return validator.ValidationErrors{{
			Field:   "options",
			Message: "needs at least 2 non-blank items",
			Value:   filled,
			Rule:    "min_options",
		}}
	}
	return nil
}

func checkDragAndDrop(in EditableState) validator.ValidationErrors {
	first, second := categoryItems(in.Options)
	var problems validator.ValidationErrors
	cat1, cat2 := categoryNames(in.Options)
	if len(first) == 0 {
		problems = append(problems, validator.ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("category %q needs at least one item", cat1),
			Rule:    "category_items",
		})
	}
	if len(second) == 0 {
		problems = append(problems, validator.ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("category %q needs at least one item", cat2),
			Rule:    "category_items",
		})
	}
	return problems
}

func checkNumerical(in EditableState) validator.ValidationErrors {
	if len(in.Options) == 0 || isBlank(in.Options[0]) {
		return validator.ValidationErrors{required("options[0]")}
	}
	if _, ok := parseFinite(in.Options[0]); !ok {
		return validator.ValidationErrors{{
			Field:   "options[0]",
			Message: "must be a finite number",
			Value:   in.Options[0],
			Rule:    "numeric",
		}}
	}
	return nil
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// checkFillInBlank requires at least one [answer] span. The question text is
// not otherwise required to be non-blank.
func checkFillInBlank(in EditableState) validator.ValidationErrors {
	if !blankPattern.MatchString(in.QuestionText) {
		return validator.ValidationErrors{{
			Field:   "questionText",
			Message: "needs at least one [answer] blank",
			Rule:    "blank_span",
		}}
	}
	return nil
}
