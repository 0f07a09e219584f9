package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles request validation rules
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEditableState validates the structure of an editable authoring state
func (bv *BusinessValidator) ValidateEditableState(req *EditableStateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Extras only make sense for Numerical; anything else is a stale shape
	if req.Extras != nil && req.Type != models.Numerical {
		errors = append(errors, ValidationError{
			Field:   "extras",
			Message: fmt.Sprintf("not supported for %s", req.Type),
			Rule:    "business_logic",
		})
	}

	for i, idx := range req.CorrectAnswers {
		if idx >= len(req.Options) && req.Type != models.TrueOrFalse {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("correctAnswers[%d]", i),
				Message: "references a missing option",
				Value:   idx,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateBulkSave validates a batch of canonical assessments
func (bv *BusinessValidator) ValidateBulkSave(req *BulkSaveRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	for i, a := range req.Assessments {
		if !a.Type.IsValid() {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("assessments[%d].type", i),
				Message: "unsupported assessment type",
				Value:   a.Type,
				Rule:    "assessment_type",
			})
		}
	}

	return errors
}

// ValidateGenerate validates a generation request
func (bv *BusinessValidator) ValidateGenerate(req *GenerateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateImprove validates an improvement request
func (bv *BusinessValidator) ValidateImprove(req *ImproveRequest) ValidationErrors {
	errors := bv.Validate(req)
	if !req.Assessment.Type.IsValid() {
		errors = append(errors, ValidationError{
			Field:   "assessment.type",
			Message: "unsupported assessment type",
			Value:   req.Assessment.Type,
			Rule:    "assessment_type",
		})
	}
	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("assessment_type", func(fl validator.FieldLevel) bool {
		return models.AssessmentType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("numerical_operator", func(fl validator.FieldLevel) bool {
		op := models.NumericOperator(fl.Field().String())
		for _, known := range models.NumericOperators {
			if op == known {
				return true
			}
		}
		return false
	})

	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
