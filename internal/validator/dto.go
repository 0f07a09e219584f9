package validator

import (
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

// EditableStateRequest is the wire shape of an authoring form before encoding.
// Tags only guard structure; save-readiness is decided by the authoring engine.
type EditableStateRequest struct {
	AssessmentName string                   `json:"assessmentName" validate:"max=255"`
	ViewID         string                   `json:"view_id" validate:"max=255"`
	Type           models.AssessmentType    `json:"type" validate:"required,assessment_type"`
	QuestionText   string                   `json:"questionText" validate:"max=5000"`
	Options        []string                 `json:"options" validate:"max=50,dive,max=2000"`
	CorrectAnswers []int                    `json:"correctAnswers" validate:"max=50,dive,min=0"`
	Explanation    string                   `json:"explanation" validate:"max=5000"`
	Extras         *NumericalExtrasRequest  `json:"extras"`
	Rubric         []models.RubricCriterion `json:"rubric" validate:"max=20"`
}

type NumericalExtrasRequest struct {
	Operator models.NumericOperator `json:"operator" validate:"omitempty,numerical_operator"`
	Text     string                 `json:"text" validate:"max=255"`
	Text2    string                 `json:"text2" validate:"max=255"`
}

// BulkSaveRequest carries already-canonical assessments for one view.
type BulkSaveRequest struct {
	Assessments []models.Assessment `json:"assessments" validate:"required,min=1,max=100"`
}

// GenerateRequest asks the generation collaborator for new assessments
type GenerateRequest struct {
	ViewID  string                  `json:"view_id" validate:"required,not_blank"`
	Topic   string                  `json:"topic" validate:"required,not_blank,max=2000"`
	Context string                  `json:"context" validate:"max=20000"`
	Count   int                     `json:"count" validate:"required,min=1,max=20"`
	Types   []models.AssessmentType `json:"types" validate:"max=9,dive,assessment_type"`
}

// ImproveRequest asks the generation collaborator to rework one assessment
type ImproveRequest struct {
	Assessment   models.Assessment `json:"assessment"`
	Instructions string            `json:"instructions" validate:"max=2000"`
}
