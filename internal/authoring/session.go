package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSaving     State = "saving"
	StateSaved      State = "saved"
	StateError      State = "error"
)

var (
	ErrNotReady         = errors.New("assessment is not ready to save")
	ErrNoTypeSelected   = errors.New("no assessment type selected")
	ErrFixedOptions     = errors.New("options of this type cannot be edited")
	ErrOptionIndex      = errors.New("option index out of range")
	ErrNotSelectable    = errors.New("this type has no selectable correct answers")
	ErrSaveInProgress   = errors.New("save already in progress")
	ErrExtrasNotAllowed = errors.New("extras are only supported for Numerical")
	ErrNothingCreated   = errors.New("creator returned no assessment")
)

// Creator is the persistence collaborator: it stores one canonical
// assessment and returns it with its ID assigned.
type Creator interface {
	CreateAssessment(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error)

func (f CreatorFunc) CreateAssessment(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	return f(ctx, assessment)
}

// Session is one authoring form or dialog instance. It owns its editable
// state exclusively and is not safe for concurrent use.
type Session struct {
	state   State
	form    EditableState
	loading bool
	saved   *models.Assessment
	lastErr error
	logger  *slog.Logger
}

func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{state: StateIdle, logger: logger}
}

func (s *Session) State() State        { return s.state }
func (s *Session) Loading() bool       { return s.loading }
func (s *Session) Err() error          { return s.lastErr }
func (s *Session) Form() EditableState { return s.form.Clone() }

// Saved returns the last assessment persisted by this session, if any.
func (s *Session) Saved() *models.Assessment { return s.saved }

// SelectType switches the variant and resets options, correct answers and
// extras to the variant defaults. Selecting the current type resets too.
func (s *Session) SelectType(t models.AssessmentType) error {
	opts, correct, err := Defaults(t)
	if err != nil {
		return err
	}

	s.form.Type = t
	s.form.Options = opts
	s.form.CorrectAnswers = correct
	s.form.Extras = defaultExtras(t)
	s.form.Rubric = nil
	s.enterEditing()

	return nil
}

// Load replaces the whole form with state. Options and correct answers are
// taken as given (nil becomes empty) except for types with fixed options.
// A rejected state leaves the form untouched.
func (s *Session) Load(state EditableState) error {
	v, err := lookup(state.Type)
	if err != nil {
		return err
	}
	if state.Extras != nil && state.Type != models.Numerical {
		return ErrExtrasNotAllowed
	}

	if err := s.SelectType(state.Type); err != nil {
		return err
	}

	in := state.Clone()
	s.form.AssessmentName = in.AssessmentName
	s.form.ViewID = in.ViewID
	s.form.QuestionText = in.QuestionText
	s.form.Explanation = in.Explanation
	s.form.Options = in.Options
	if s.form.Options == nil {
		s.form.Options = []string{}
	}
	s.form.CorrectAnswers = in.CorrectAnswers
	if s.form.CorrectAnswers == nil {
		s.form.CorrectAnswers = []int{}
	}
	if v.fixedOptions {
		s.form.Options, _ = v.defaults()
	}
	if in.Extras != nil {
		s.form.Extras = in.Extras
	}
	if state.Type == models.OpenEnded {
		s.form.Rubric = in.Rubric
	}

	return nil
}

func (s *Session) SetAssessmentName(name string) {
	s.form.AssessmentName = name
	s.touch()
}

func (s *Session) SetViewID(viewID string) {
	s.form.ViewID = viewID
	s.touch()
}

func (s *Session) SetQuestionText(text string) {
	s.form.QuestionText = text
	s.touch()
}

func (s *Session) SetExplanation(text string) {
	s.form.Explanation = text
	s.touch()
}

// SetOption replaces the text at index i.
func (s *Session) SetOption(i int, text string) error {
	v, err := s.current()
	if err != nil {
		return err
	}
	if v.fixedOptions {
		return ErrFixedOptions
	}
	if i < 0 || i >= len(s.form.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, i)
	}
	s.form.Options[i] = text
	s.enterEditing()
	return nil
}

// AddOption appends an empty entry, or an empty pair for paired types.
func (s *Session) AddOption() error {
	v, err := s.current()
	if err != nil {
		return err
	}
	if v.fixedOptions {
		return ErrFixedOptions
	}
	s.form.Options = append(s.form.Options, "")
	if v.pairedOptions {
		s.form.Options = append(s.form.Options, "")
	}
	s.enterEditing()
	return nil
}

// RemoveOption deletes the entry at i (the whole pair for paired types) and
// shifts correct-answer indices so they keep pointing at the same options.
func (s *Session) RemoveOption(i int) error {
	v, err := s.current()
	if err != nil {
		return err
	}
	if v.fixedOptions {
		return ErrFixedOptions
	}
	if i < 0 || i >= len(s.form.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, i)
	}

	start, end := i, i+1
	if v.pairedOptions {
		start = i - i%2
		end = min(start+2, len(s.form.Options))
	}
	s.form.Options = slices.Delete(s.form.Options, start, end)

	width := end - start
	correct := s.form.CorrectAnswers[:0]
	for _, idx := range s.form.CorrectAnswers {
		switch {
		case idx >= start && idx < end:
			continue
		case idx >= end:
			correct = append(correct, idx-width)
		default:
			correct = append(correct, idx)
		}
	}
	s.form.CorrectAnswers = correct
	s.enterEditing()
	return nil
}

// ToggleCorrect marks option i as correct. Single-answer types replace the
// selection; MultipleChoice toggles membership.
func (s *Session) ToggleCorrect(i int) error {
	if _, err := s.current(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.form.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, i)
	}

	switch s.form.Type {
	case models.SingleChoice, models.TrueOrFalse:
		s.form.CorrectAnswers = []int{i}
	case models.MultipleChoice:
		if pos := slices.Index(s.form.CorrectAnswers, i); pos >= 0 {
			s.form.CorrectAnswers = slices.Delete(s.form.CorrectAnswers, pos, pos+1)
		} else {
			s.form.CorrectAnswers = append(s.form.CorrectAnswers, i)
			slices.Sort(s.form.CorrectAnswers)
		}
	default:
		return ErrNotSelectable
	}
	s.enterEditing()
	return nil
}

// SetExtras sets the Numerical comparison configuration.
func (s *Session) SetExtras(extras models.NumericalExtras) error {
	if _, err := s.current(); err != nil {
		return err
	}
	if s.form.Type != models.Numerical {
		return ErrExtrasNotAllowed
	}
	if extras.Operator == "" {
		extras.Operator = models.OperatorEq
	}
	s.form.Extras = &extras
	s.enterEditing()
	return nil
}

// SetRubric attaches a grading rubric; only OpenEnded keeps it.
func (s *Session) SetRubric(rubric []models.RubricCriterion) error {
	if _, err := s.current(); err != nil {
		return err
	}
	if s.form.Type != models.OpenEnded {
		return fmt.Errorf("rubric is not supported for %s", s.form.Type)
	}
	s.form.Rubric = EditableState{Rubric: rubric}.Clone().Rubric
	s.enterEditing()
	return nil
}

func (s *Session) IsValid() bool {
	return IsValid(s.form)
}

// Encode returns the canonical assessment for the current form.
func (s *Session) Encode() models.Assessment {
	return Encode(s.form)
}

// Save validates, encodes and persists the form through creator with a
// single create call. Validation failure leaves the session editing and
// returns ErrNotReady wrapping the problems. A creator failure moves the
// session to StateError with the form intact; there is no retry. On success
// the form is reset and the persisted assessment is returned.
func (s *Session) Save(ctx context.Context, creator Creator) (*models.Assessment, error) {
	if s.state == StateSaving {
		return nil, ErrSaveInProgress
	}
	if s.form.Type == "" {
		return nil, ErrNoTypeSelected
	}

	s.state = StateValidating
	if problems := Problems(s.form); len(problems) > 0 {
		s.state = StateEditing
		return nil, fmt.Errorf("%w: %w", ErrNotReady, problems)
	}

	s.state = StateSaving
	s.loading = true
	assessment := Encode(s.form)

	created, err := creator.CreateAssessment(ctx, &assessment)
	s.loading = false
	if err == nil && created == nil {
		err = ErrNothingCreated
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.logger.Error("Failed to save assessment", "error", err, "type", assessment.Type, "view_id", assessment.ViewID)
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	s.saved = created
	s.lastErr = nil
	s.reset()
	s.state = StateSaved
	s.logger.Info("Assessment saved", "assessment_id", created.ID, "type", created.Type)

	return created, nil
}

// reset clears the form but keeps the view it belongs to.
func (s *Session) reset() {
	s.form = EditableState{ViewID: s.form.ViewID}
}

func (s *Session) current() (*variant, error) {
	if s.form.Type == "" {
		return nil, ErrNoTypeSelected
	}
	return lookup(s.form.Type)
}

func (s *Session) enterEditing() {
	s.state = StateEditing
}

// touch moves an already started session back to editing; field edits on an
// idle session do not start editing until a type is chosen.
func (s *Session) touch() {
	if s.form.Type != "" {
		s.enterEditing()
	}
}
