package authoring

import (
	"reflect"
	"strings"
	"testing"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"gorm.io/datatypes"
)

func TestNumericalPhrase(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		extras *models.NumericalExtras
		want   string
	}{
		{
			name:   "gte with prefix and suffix",
			value:  "42",
			extras: &models.NumericalExtras{Operator: models.OperatorGte, Text: "At least ", Text2: " units"},
			want:   "At least 42 units (greater than or equal to)",
		},
		{name: "eq omits phrase", value: "7", extras: &models.NumericalExtras{Operator: models.OperatorEq}, want: "7"},
		{name: "nil extras", value: "7", want: "7"},
		{name: "empty operator", value: "7", extras: &models.NumericalExtras{Text2: "%"}, want: "7%"},
		{name: "lt", value: "0", extras: &models.NumericalExtras{Operator: models.OperatorLt}, want: "0 (less than)"},
		{name: "neq", value: "1", extras: &models.NumericalExtras{Operator: models.OperatorNeq}, want: "1 (not equal to)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumericalPhrase(tt.value, tt.extras); got != tt.want {
				t.Fatalf("NumericalPhrase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeNumerical(t *testing.T) {
	a := models.Assessment{
		Type:    models.Numerical,
		Text:    "How many?",
		Options: datatypes.JSONSlice[models.Option]{{Text: "42", IsCorrect: true}},
		Extras:  &models.NumericalExtras{Operator: models.OperatorGte, Text: "At least ", Text2: " units"},
	}

	p := Describe(a)

	if p.Answer != "At least 42 units (greater than or equal to)" {
		t.Fatalf("Answer = %q", p.Answer)
	}
	if got := p.String(); got != "How many?\nAnswer: At least 42 units (greater than or equal to)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestDescribeDragAndDropGroupsByCategory(t *testing.T) {
	a := Encode(EditableState{
		Type:         models.DragAndDrop,
		QuestionText: "Sort them",
		Options:      []string{"Fruits", "Vegetables", "Apple", "Carrot", "Banana", ""},
	})

	p := Describe(a)

	want := []GroupPreview{
		{Category: "Fruits", Items: []string{"Apple", "Banana"}},
		{Category: "Vegetables", Items: []string{"Carrot"}},
	}
	if !reflect.DeepEqual(p.Groups, want) {
		t.Fatalf("Groups = %+v, want %+v", p.Groups, want)
	}
	if lines := p.Lines(); lines[1] != "Fruits: Apple, Banana" {
		t.Fatalf("Lines()[1] = %q", lines[1])
	}
}

func TestDescribeOrderListSortsByCorrectOrder(t *testing.T) {
	a := models.Assessment{
		Type: models.OrderList,
		Options: datatypes.JSONSlice[models.Option]{
			{Text: "third", IsCorrect: true, CorrectOrder: 2},
			{Text: "first", IsCorrect: true, CorrectOrder: 0},
			{Text: "second", IsCorrect: true, CorrectOrder: 1},
		},
	}

	p := Describe(a)

	want := []SequenceStep{{1, "first"}, {2, "second"}, {3, "third"}}
	if !reflect.DeepEqual(p.Sequence, want) {
		t.Fatalf("Sequence = %+v, want %+v", p.Sequence, want)
	}
	if a.Options[0].Text != "third" {
		t.Fatal("Describe() reordered the assessment's options")
	}
}

func TestDescribeFillInBlank(t *testing.T) {
	a := Encode(EditableState{
		Type:         models.FillInBlank,
		QuestionText: "The [capital] of France is [Paris].",
		Options:      []string{"river", "town"},
	})

	p := Describe(a)

	want := []Segment{
		{Text: "The "},
		{Text: "capital", Blank: true},
		{Text: " of France is "},
		{Text: "Paris", Blank: true},
		{Text: "."},
	}
	if !reflect.DeepEqual(p.Segments, want) {
		t.Fatalf("Segments = %+v, want %+v", p.Segments, want)
	}
	lines := p.Lines()
	if lines[0] != "The __capital__ of France is __Paris__." {
		t.Fatalf("Lines()[0] = %q", lines[0])
	}
	if lines[1] != "Distractors: river, town" {
		t.Fatalf("Lines()[1] = %q", lines[1])
	}
}

func TestDescribeChoicesAndPairs(t *testing.T) {
	choice := Describe(Encode(EditableState{
		Type:           models.SingleChoice,
		QuestionText:   "Capital of France?",
		Options:        []string{"Paris", "London"},
		CorrectAnswers: []int{0},
		Explanation:    "Paris is the capital",
	}))
	wantChoice := "Capital of France?\n[x] Paris\n[ ] London\nExplanation: Paris is the capital"
	if got := choice.String(); got != wantChoice {
		t.Fatalf("String() = %q, want %q", got, wantChoice)
	}

	pairs := Describe(Encode(EditableState{
		Type:         models.MatchTheWords,
		QuestionText: "Match",
		Options:      []string{"Dog", "Animal", "Rose", "Flower"},
	}))
	if got := pairs.String(); got != "Match\nDog → Animal\nRose → Flower" {
		t.Fatalf("String() = %q", got)
	}
}

func TestDescribeOpenEndedRubric(t *testing.T) {
	a := Encode(EditableState{
		Type:         models.OpenEnded,
		QuestionText: "Explain photosynthesis",
		Options:      []string{"Plants turn light into sugar"},
		Rubric: []models.RubricCriterion{{
			Criterion: "Accuracy",
			Levels: []models.RubricLevel{
				{Name: "Excellent", Value: 3, Description: "Complete"},
				{Name: "Partial", Value: 1.5, Description: "Some gaps"},
			},
		}},
	})

	got := Describe(a).String()

	for _, want := range []string{
		"Sample answer: Plants turn light into sugar",
		"Criterion: Accuracy",
		"  Excellent (3 pts): Complete",
		"  Partial (1.5 pts): Some gaps",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q in:\n%s", want, got)
		}
	}
}

func TestDescribeUnknownTypeFallsBackToChoices(t *testing.T) {
	a := models.Assessment{
		Type:    "Essay",
		Text:    "q",
		Options: datatypes.JSONSlice[models.Option]{{Text: "a", IsCorrect: true}},
	}

	p := Describe(a)

	if len(p.Choices) != 1 || !p.Choices[0].IsCorrect {
		t.Fatalf("Choices = %+v", p.Choices)
	}
}

func TestOperatorPhraseUnknown(t *testing.T) {
	if got := OperatorPhrase("approx"); got != "equals" {
		t.Fatalf("OperatorPhrase() = %q, want equals", got)
	}
}
