package authoring

import (
	"testing"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

func ready(t models.AssessmentType, question string, options []string, correct []int) EditableState {
	return EditableState{
		AssessmentName: "Slide",
		ViewID:         "view-1",
		Type:           t,
		QuestionText:   question,
		Options:        options,
		CorrectAnswers: correct,
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state EditableState
		want  bool
	}{
		{"single choice ok", ready(models.SingleChoice, "q", []string{"a", "b"}, []int{0}), true},
		{"single choice one filled option", ready(models.SingleChoice, "q", []string{"a", " "}, []int{0}), false},
		{"multiple choice no correct", ready(models.MultipleChoice, "q", []string{"a", "b"}, []int{}), false},
		{"true or false defaults", ready(models.TrueOrFalse, "q", []string{"True", "False"}, []int{0}), true},
		{"match the words ok", ready(models.MatchTheWords, "q", []string{"Dog", "Animal"}, nil), true},
		{"match the words half pair", ready(models.MatchTheWords, "q", []string{"Dog", ""}, nil), false},
		{"order list ok", ready(models.OrderList, "q", []string{"a", "b"}, nil), true},
		{"order list one item", ready(models.OrderList, "q", []string{"a", ""}, nil), false},
		{"numerical ok", ready(models.Numerical, "q", []string{" -12.5 "}, []int{0}), true},
		{"numerical blank", ready(models.Numerical, "q", []string{""}, []int{0}), false},
		{"numerical not a number", ready(models.Numerical, "q", []string{"abc"}, []int{0}), false},
		{"numerical infinite", ready(models.Numerical, "q", []string{"Inf"}, []int{0}), false},
		{"fill in blank with span", ready(models.FillInBlank, "The [capital] of France is Paris", nil, nil), true},
		{"fill in blank without span", ready(models.FillInBlank, "No blanks here", nil, nil), false},
		{"fill in blank empty brackets", ready(models.FillInBlank, "Empty [] here", nil, nil), false},
		{"drag and drop ok", ready(models.DragAndDrop, "q", []string{"A", "B", "x", "y"}, nil), true},
		{"drag and drop second category empty", ready(models.DragAndDrop, "q", []string{"A", "B", "x", ""}, nil), false},
		{"open ended without model answer", ready(models.OpenEnded, "q", []string{""}, nil), true},
		{"missing name", EditableState{ViewID: "v", Type: models.OpenEnded, QuestionText: "q"}, false},
		{"missing view", EditableState{AssessmentName: "n", Type: models.OpenEnded, QuestionText: "q"}, false},
		{"blank question", ready(models.OpenEnded, "  ", nil, nil), false},
		{"unknown type", ready("Essay", "q", nil, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.state); got != tt.want {
				t.Fatalf("IsValid() = %v, want %v (problems: %v)", got, tt.want, Problems(tt.state))
			}
		})
	}
}

// Only the first pair is inspected; complete later pairs do not help.
func TestMatchTheWordsChecksFirstPairOnly(t *testing.T) {
	invalid := ready(models.MatchTheWords, "q", []string{"", "", "Rose", "Flower", "Oak", "Tree"}, nil)
	if IsValid(invalid) {
		t.Fatal("IsValid() = true with a blank first pair")
	}
	problems := Problems(invalid)
	if len(problems) != 1 || problems[0].Rule != "first_pair" {
		t.Fatalf("Problems() = %v, want a single first_pair problem", problems)
	}

	valid := ready(models.MatchTheWords, "q", []string{"Dog", "Animal", "", "", "", ""}, nil)
	if !IsValid(valid) {
		t.Fatalf("IsValid() = false with a complete first pair: %v", Problems(valid))
	}
}

func TestProblemsFields(t *testing.T) {
	problems := Problems(EditableState{Type: models.SingleChoice, Options: []string{"", ""}})

	fields := problems.Fields()
	for _, want := range []string{"assessmentName", "questionText", "view_id", "options", "correctAnswers"} {
		found := false
		for _, f := range fields {
			if f == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Problems() missing field %q in %v", want, fields)
		}
	}
}
