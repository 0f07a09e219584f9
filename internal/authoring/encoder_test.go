package authoring

import (
	"reflect"
	"testing"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

func TestEncodeOptions(t *testing.T) {
	tests := []struct {
		name  string
		state EditableState
		want  []models.Option
	}{
		{
			name: "single choice",
			state: EditableState{
				Type:           models.SingleChoice,
				QuestionText:   "Capital of France?",
				Options:        []string{"Paris", "London"},
				CorrectAnswers: []int{0},
			},
			want: []models.Option{
				{Text: "Paris", IsCorrect: true},
				{Text: "London"},
			},
		},
		{
			name: "multiple choice",
			state: EditableState{
				Type:           models.MultipleChoice,
				Options:        []string{"2", "3", "4", "5"},
				CorrectAnswers: []int{0, 1, 3},
			},
			want: []models.Option{
				{Text: "2", IsCorrect: true},
				{Text: "3", IsCorrect: true},
				{Text: "4"},
				{Text: "5", IsCorrect: true},
			},
		},
		{
			name: "true or false ignores edited texts",
			state: EditableState{
				Type:           models.TrueOrFalse,
				Options:        []string{"Yes", "No"},
				CorrectAnswers: []int{1},
			},
			want: []models.Option{
				{Text: "True"},
				{Text: "False", IsCorrect: true},
			},
		},
		{
			name: "match the words pairs",
			state: EditableState{
				Type:    models.MatchTheWords,
				Options: []string{"Dog", "Animal", "Rose", "Flower"},
			},
			want: []models.Option{
				{Text: "Dog", IsCorrect: true, CorrectOrder: 0, Match: "Animal"},
				{Text: "Rose", IsCorrect: true, CorrectOrder: 1, Match: "Flower"},
			},
		},
		{
			name: "match the words drops trailing entry",
			state: EditableState{
				Type:    models.MatchTheWords,
				Options: []string{"Dog", "Animal", "Rose"},
			},
			want: []models.Option{
				{Text: "Dog", IsCorrect: true, CorrectOrder: 0, Match: "Animal"},
			},
		},
		{
			name: "order list",
			state: EditableState{
				Type:    models.OrderList,
				Options: []string{"first", "second", "third"},
			},
			want: []models.Option{
				{Text: "first", IsCorrect: true, CorrectOrder: 0},
				{Text: "second", IsCorrect: true, CorrectOrder: 1},
				{Text: "third", IsCorrect: true, CorrectOrder: 2},
			},
		},
		{
			name:  "numerical",
			state: EditableState{Type: models.Numerical, Options: []string{"42"}, CorrectAnswers: []int{0}},
			want:  []models.Option{{Text: "42", IsCorrect: true}},
		},
		{
			name:  "numerical without options",
			state: EditableState{Type: models.Numerical},
			want:  []models.Option{{Text: "0", IsCorrect: true}},
		},
		{
			name:  "numerical keeps an empty first option",
			state: EditableState{Type: models.Numerical, Options: []string{""}},
			want:  []models.Option{{Text: "", IsCorrect: true}},
		},
		{
			name: "fill in blank keeps distractors",
			state: EditableState{
				Type:         models.FillInBlank,
				QuestionText: "The [capital] of France is Paris",
				Options:      []string{"city", "river"},
			},
			want: []models.Option{{Text: "city"}, {Text: "river"}},
		},
		{
			name: "drag and drop category split",
			state: EditableState{
				Type:    models.DragAndDrop,
				Options: []string{"Fruits", "Vegetables", "Apple", "Carrot", "Banana", ""},
			},
			want: []models.Option{
				{Text: "Apple", IsCorrect: true, CorrectOrder: 0, Match: "Fruits"},
				{Text: "Banana", IsCorrect: true, CorrectOrder: 1, Match: "Fruits"},
				{Text: "Carrot", IsCorrect: true, CorrectOrder: 2, Match: "Vegetables"},
			},
		},
		{
			name: "drag and drop default category names",
			state: EditableState{
				Type:    models.DragAndDrop,
				Options: []string{"", "", "a", "b"},
			},
			want: []models.Option{
				{Text: "a", IsCorrect: true, CorrectOrder: 0, Match: "Category 1"},
				{Text: "b", IsCorrect: true, CorrectOrder: 1, Match: "Category 2"},
			},
		},
		{
			name:  "open ended with model answer",
			state: EditableState{Type: models.OpenEnded, Options: []string{"Photosynthesis converts light"}},
			want:  []models.Option{{Text: "Photosynthesis converts light", IsCorrect: true}},
		},
		{
			name:  "open ended without model answer",
			state: EditableState{Type: models.OpenEnded, Options: []string{""}},
			want:  []models.Option{},
		},
		{
			name:  "unknown type",
			state: EditableState{Type: "Essay", Options: []string{"a"}},
			want:  []models.Option{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeOptions(tt.state)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("EncodeOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeIsIdempotent(t *testing.T) {
	states := []EditableState{
		{Type: models.SingleChoice, QuestionText: "q", Options: []string{"a", "b"}, CorrectAnswers: []int{1}},
		{Type: models.MatchTheWords, QuestionText: "q", Options: []string{"a", "b", "c", "d"}},
		{Type: models.DragAndDrop, QuestionText: "q", Options: []string{"x", "y", "1", "2", "", "3"}},
		{Type: models.Numerical, QuestionText: "q", Options: []string{"3.14"}, Extras: &models.NumericalExtras{Operator: models.OperatorLt}},
		{Type: models.FillInBlank, QuestionText: "A [b] c", Options: []string{"d"}},
	}
	for _, state := range states {
		t.Run(string(state.Type), func(t *testing.T) {
			first := Encode(state)
			second := Encode(state)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("Encode() not idempotent: %+v vs %+v", first, second)
			}
		})
	}
}

func TestEncodeFields(t *testing.T) {
	state := EditableState{
		AssessmentName: "Slide 3",
		ViewID:         "view-1",
		Type:           models.Numerical,
		QuestionText:   "How many?",
		Options:        []string{"7"},
		CorrectAnswers: []int{0},
		Explanation:    "Count them",
	}

	got := Encode(state)

	if got.SlideName != "Slide 3" || got.ViewID != "view-1" || got.Text != "How many?" || got.Explanation != "Count them" {
		t.Fatalf("Encode() copied fields wrong: %+v", got)
	}
	if got.ButtonLabel != models.ButtonLabel {
		t.Fatalf("ButtonLabel = %q, want %q", got.ButtonLabel, models.ButtonLabel)
	}
	if got.Extras == nil || got.Extras.Operator != models.OperatorEq {
		t.Fatalf("Extras = %+v, want default eq operator", got.Extras)
	}
	if got.Rubric != nil {
		t.Fatalf("Rubric = %+v, want nil for Numerical", got.Rubric)
	}
}

func TestEncodeOpenEndedRubric(t *testing.T) {
	rubric := []models.RubricCriterion{{
		Criterion: "Accuracy",
		Levels:    []models.RubricLevel{{Name: "Good", Value: 2, Description: "Mostly right"}},
	}}
	state := EditableState{Type: models.OpenEnded, Options: []string{""}, Rubric: rubric}

	got := Encode(state)

	if !reflect.DeepEqual(got.Rubric, rubric) {
		t.Fatalf("Rubric = %+v, want %+v", got.Rubric, rubric)
	}
	got.Rubric[0].Levels[0].Name = "changed"
	if rubric[0].Levels[0].Name != "Good" {
		t.Fatal("Encode() shares rubric storage with the editable state")
	}
	if got.Extras != nil {
		t.Fatalf("Extras = %+v, want nil for OpenEnded", got.Extras)
	}
}
