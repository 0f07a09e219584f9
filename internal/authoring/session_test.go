package authoring

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingCreator struct {
	calls  []models.Assessment
	failAt map[int]error
}

func (r *recordingCreator) CreateAssessment(_ context.Context, a *models.Assessment) (*models.Assessment, error) {
	n := len(r.calls)
	r.calls = append(r.calls, *a)
	if err, ok := r.failAt[n]; ok {
		return nil, err
	}
	created := *a
	created.ID = uint(n + 1)
	return &created, nil
}

func TestSessionTypeSwitchResetsState(t *testing.T) {
	s := NewSession(testLogger())
	if err := s.SelectType(models.SingleChoice); err != nil {
		t.Fatalf("SelectType() error = %v", err)
	}
	_ = s.SetOption(0, "Paris")
	_ = s.SetOption(1, "London")
	_ = s.ToggleCorrect(1)

	if err := s.SelectType(models.OrderList); err != nil {
		t.Fatalf("SelectType() error = %v", err)
	}

	form := s.Form()
	if !reflect.DeepEqual(form.Options, []string{"", ""}) {
		t.Fatalf("Options = %q, want two blanks", form.Options)
	}
	if !reflect.DeepEqual(form.CorrectAnswers, []int{}) {
		t.Fatalf("CorrectAnswers = %v, want empty", form.CorrectAnswers)
	}
	if s.State() != StateEditing {
		t.Fatalf("State() = %s, want editing", s.State())
	}
}

func TestSessionSelectTypeDefaults(t *testing.T) {
	tests := []struct {
		kind    models.AssessmentType
		options []string
		correct []int
	}{
		{models.SingleChoice, []string{"", ""}, []int{0}},
		{models.MultipleChoice, []string{"", ""}, []int{0}},
		{models.TrueOrFalse, []string{"True", "False"}, []int{0}},
		{models.MatchTheWords, []string{"", "", "", ""}, []int{}},
		{models.OrderList, []string{"", ""}, []int{}},
		{models.Numerical, []string{""}, []int{0}},
		{models.FillInBlank, []string{}, []int{}},
		{models.DragAndDrop, []string{"Category 1", "Category 2"}, []int{}},
		{models.OpenEnded, []string{""}, []int{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s := NewSession(testLogger())
			if err := s.SelectType(tt.kind); err != nil {
				t.Fatalf("SelectType() error = %v", err)
			}
			form := s.Form()
			if !reflect.DeepEqual(form.Options, tt.options) || !reflect.DeepEqual(form.CorrectAnswers, tt.correct) {
				t.Fatalf("defaults = %q %v, want %q %v", form.Options, form.CorrectAnswers, tt.options, tt.correct)
			}
			if (form.Extras != nil) != (tt.kind == models.Numerical) {
				t.Fatalf("Extras = %+v", form.Extras)
			}
		})
	}
}

func TestSessionSelectUnknownType(t *testing.T) {
	s := NewSession(testLogger())
	if err := s.SelectType("Essay"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("SelectType() error = %v, want ErrUnknownType", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", s.State())
	}
}

func TestSessionEditsBeforeTypeStayIdle(t *testing.T) {
	s := NewSession(testLogger())
	s.SetAssessmentName("Slide")
	if s.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", s.State())
	}
	if err := s.AddOption(); !errors.Is(err, ErrNoTypeSelected) {
		t.Fatalf("AddOption() error = %v, want ErrNoTypeSelected", err)
	}
}

func TestSessionToggleCorrect(t *testing.T) {
	s := NewSession(testLogger())
	_ = s.SelectType(models.MultipleChoice)
	_ = s.AddOption()

	_ = s.ToggleCorrect(2)
	_ = s.ToggleCorrect(1)
	if got := s.Form().CorrectAnswers; !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("CorrectAnswers = %v, want [0 1 2]", got)
	}
	_ = s.ToggleCorrect(0)
	if got := s.Form().CorrectAnswers; !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("CorrectAnswers = %v, want [1 2]", got)
	}

	_ = s.SelectType(models.SingleChoice)
	_ = s.ToggleCorrect(1)
	if got := s.Form().CorrectAnswers; !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("CorrectAnswers = %v, want [1]", got)
	}

	_ = s.SelectType(models.OrderList)
	if err := s.ToggleCorrect(0); !errors.Is(err, ErrNotSelectable) {
		t.Fatalf("ToggleCorrect() error = %v, want ErrNotSelectable", err)
	}
	if err := s.ToggleCorrect(5); !errors.Is(err, ErrOptionIndex) {
		t.Fatalf("ToggleCorrect() error = %v, want ErrOptionIndex", err)
	}
}

func TestSessionOptionEditing(t *testing.T) {
	s := NewSession(testLogger())
	_ = s.SelectType(models.TrueOrFalse)
	if err := s.SetOption(0, "Yes"); !errors.Is(err, ErrFixedOptions) {
		t.Fatalf("SetOption() error = %v, want ErrFixedOptions", err)
	}

	_ = s.SelectType(models.MatchTheWords)
	if err := s.AddOption(); err != nil {
		t.Fatalf("AddOption() error = %v", err)
	}
	if got := len(s.Form().Options); got != 6 {
		t.Fatalf("len(Options) = %d, want 6 after adding a pair", got)
	}
	_ = s.SetOption(2, "Rose")
	_ = s.SetOption(3, "Flower")
	if err := s.RemoveOption(1); err != nil {
		t.Fatalf("RemoveOption() error = %v", err)
	}
	if got := s.Form().Options; !reflect.DeepEqual(got, []string{"Rose", "Flower", "", ""}) {
		t.Fatalf("Options = %q", got)
	}

	_ = s.SelectType(models.MultipleChoice)
	_ = s.AddOption()
	_ = s.ToggleCorrect(2)
	if err := s.RemoveOption(1); err != nil {
		t.Fatalf("RemoveOption() error = %v", err)
	}
	if got := s.Form().CorrectAnswers; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("CorrectAnswers = %v, want [0 1]", got)
	}
	if err := s.RemoveOption(9); !errors.Is(err, ErrOptionIndex) {
		t.Fatalf("RemoveOption() error = %v, want ErrOptionIndex", err)
	}
}

func TestSessionExtrasAndRubric(t *testing.T) {
	s := NewSession(testLogger())
	_ = s.SelectType(models.SingleChoice)
	if err := s.SetExtras(models.NumericalExtras{Operator: models.OperatorGt}); !errors.Is(err, ErrExtrasNotAllowed) {
		t.Fatalf("SetExtras() error = %v, want ErrExtrasNotAllowed", err)
	}
	if err := s.SetRubric([]models.RubricCriterion{{Criterion: "x"}}); err == nil {
		t.Fatal("SetRubric() error = nil for SingleChoice")
	}

	_ = s.SelectType(models.Numerical)
	if err := s.SetExtras(models.NumericalExtras{Text: "$"}); err != nil {
		t.Fatalf("SetExtras() error = %v", err)
	}
	if got := s.Form().Extras; got.Operator != models.OperatorEq || got.Text != "$" {
		t.Fatalf("Extras = %+v", got)
	}
}

func TestSessionLoad(t *testing.T) {
	s := NewSession(testLogger())
	err := s.Load(EditableState{
		AssessmentName: "Slide",
		ViewID:         "view-1",
		Type:           models.TrueOrFalse,
		QuestionText:   "q",
		Options:        []string{"Yes", "No"},
		CorrectAnswers: []int{1},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	form := s.Form()
	if !reflect.DeepEqual(form.Options, []string{"True", "False"}) || !reflect.DeepEqual(form.CorrectAnswers, []int{1}) {
		t.Fatalf("form = %+v", form)
	}

	err = s.Load(EditableState{Type: models.OrderList, QuestionText: "other", Extras: &models.NumericalExtras{}})
	if !errors.Is(err, ErrExtrasNotAllowed) {
		t.Fatalf("Load() error = %v, want ErrExtrasNotAllowed", err)
	}
	if after := s.Form(); !reflect.DeepEqual(after, form) {
		t.Fatalf("rejected Load changed the form: %+v", after)
	}
}

func TestSessionLoadKeepsMissingAnswersEmpty(t *testing.T) {
	tests := []struct {
		name    string
		state   EditableState
		options []string
	}{
		{
			name:    "single choice without correct answers",
			state:   EditableState{AssessmentName: "Slide", ViewID: "view-1", Type: models.SingleChoice, QuestionText: "q", Options: []string{"Paris", "London"}},
			options: []string{"Paris", "London"},
		},
		{
			name:    "numerical without options",
			state:   EditableState{AssessmentName: "Slide", ViewID: "view-1", Type: models.Numerical, QuestionText: "q"},
			options: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testLogger())
			if err := s.Load(tt.state); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			form := s.Form()
			if len(form.CorrectAnswers) != 0 || !reflect.DeepEqual(form.Options, tt.options) {
				t.Fatalf("form = %+v", form)
			}
			if s.IsValid() != IsValid(tt.state) {
				t.Fatalf("session IsValid() = %v, IsValid(state) = %v", s.IsValid(), IsValid(tt.state))
			}
			if s.IsValid() {
				t.Fatal("form without answers should not be ready")
			}
		})
	}
}

func TestSessionSaveNotReady(t *testing.T) {
	s := NewSession(testLogger())
	creator := &recordingCreator{}
	if _, err := s.Save(context.Background(), creator); !errors.Is(err, ErrNoTypeSelected) {
		t.Fatalf("Save() error = %v, want ErrNoTypeSelected", err)
	}

	_ = s.SelectType(models.SingleChoice)
	_, err := s.Save(context.Background(), creator)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("Save() error = %v, want ErrNotReady", err)
	}
	var problems validator.ValidationErrors
	if !errors.As(err, &problems) || len(problems) == 0 {
		t.Fatalf("Save() error does not carry problems: %v", err)
	}
	if len(creator.calls) != 0 {
		t.Fatalf("creator called %d times, want 0", len(creator.calls))
	}
	if s.State() != StateEditing {
		t.Fatalf("State() = %s, want editing", s.State())
	}
}

func TestSessionSaveSuccess(t *testing.T) {
	s := NewSession(testLogger())
	_ = s.Load(ready(models.SingleChoice, "Capital of France?", []string{"Paris", "London"}, []int{0}))
	creator := &recordingCreator{}

	created, err := s.Save(context.Background(), creator)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(creator.calls) != 1 {
		t.Fatalf("creator called %d times, want 1", len(creator.calls))
	}
	if created.ID == 0 || s.Saved() != created {
		t.Fatalf("created = %+v, Saved() = %+v", created, s.Saved())
	}
	if creator.calls[0].SlideName != "Slide" || creator.calls[0].ButtonLabel != "Submit" {
		t.Fatalf("encoded = %+v", creator.calls[0])
	}
	if s.State() != StateSaved || s.Loading() {
		t.Fatalf("State() = %s, Loading() = %v", s.State(), s.Loading())
	}
	if form := s.Form(); form.Type != "" || form.ViewID != "view-1" {
		t.Fatalf("form after save = %+v, want reset keeping view", form)
	}
}

func TestSessionSaveFailureKeepsForm(t *testing.T) {
	s := NewSession(testLogger())
	state := ready(models.Numerical, "g?", []string{"9.8"}, []int{0})
	_ = s.Load(state)
	boom := errors.New("connection refused")
	creator := &recordingCreator{failAt: map[int]error{0: boom}}

	_, err := s.Save(context.Background(), creator)

	if !errors.Is(err, boom) {
		t.Fatalf("Save() error = %v, want wrapped %v", err, boom)
	}
	if s.State() != StateError || s.Loading() || !errors.Is(s.Err(), boom) {
		t.Fatalf("State() = %s, Loading() = %v, Err() = %v", s.State(), s.Loading(), s.Err())
	}
	if form := s.Form(); !reflect.DeepEqual(form.Options, state.Options) || form.QuestionText != "g?" {
		t.Fatalf("form not preserved: %+v", form)
	}
	if len(creator.calls) != 1 {
		t.Fatalf("creator called %d times, want 1", len(creator.calls))
	}

	// a manual retry goes through
	creator.failAt = nil
	if _, err := s.Save(context.Background(), creator); err != nil {
		t.Fatalf("retry Save() error = %v", err)
	}
}

func TestSessionSaveNilResult(t *testing.T) {
	s := NewSession(testLogger())
	_ = s.Load(ready(models.SingleChoice, "Capital of France?", []string{"Paris", "London"}, []int{0}))
	creator := CreatorFunc(func(context.Context, *models.Assessment) (*models.Assessment, error) {
		return nil, nil
	})

	created, err := s.Save(context.Background(), creator)

	if !errors.Is(err, ErrNothingCreated) || created != nil {
		t.Fatalf("Save() = %v, %v, want ErrNothingCreated", created, err)
	}
	if s.State() != StateError || s.Form().QuestionText != "Capital of France?" {
		t.Fatalf("State() = %s, form = %+v", s.State(), s.Form())
	}
}
