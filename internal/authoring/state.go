// Package authoring turns editable authoring state into canonical assessments,
// decides save-readiness and renders correctness previews. Every authoring
// surface (inline form, modal dialog, generation editor) goes through it.
package authoring

import (
	"slices"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

// EditableState is the transient form state of one authoring session.
//
// Options and CorrectAnswers are interpreted per Type; see the registry
// defaults for the shape each variant expects.
type EditableState struct {
	AssessmentName string                   `json:"assessmentName"`
	ViewID         string                   `json:"view_id"`
	Type           models.AssessmentType    `json:"type"`
	QuestionText   string                   `json:"questionText"`
	Options        []string                 `json:"options"`
	CorrectAnswers []int                    `json:"correctAnswers"`
	Explanation    string                   `json:"explanation,omitempty"`
	Extras         *models.NumericalExtras  `json:"extras,omitempty"`
	Rubric         []models.RubricCriterion `json:"rubric,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate session internals.
func (s EditableState) Clone() EditableState {
	out := s
	out.Options = slices.Clone(s.Options)
	out.CorrectAnswers = slices.Clone(s.CorrectAnswers)
	if s.Extras != nil {
		extras := *s.Extras
		out.Extras = &extras
	}
	if s.Rubric != nil {
		out.Rubric = make([]models.RubricCriterion, len(s.Rubric))
		for i, c := range s.Rubric {
			out.Rubric[i] = models.RubricCriterion{Criterion: c.Criterion, Levels: slices.Clone(c.Levels)}
		}
	}
	return out
}
