package services

import (
	"errors"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
)

// Service errors
var (
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrGenerationUnavailable = errors.New("assessment generation is not available")
	ErrEmptyView             = errors.New("view has no assessments")
	ErrServiceNotInitialized = errors.New("service manager not initialized")

	// ErrNotReady is returned when an editable state fails save-readiness;
	// the error also carries the validator.ValidationErrors.
	ErrNotReady = authoring.ErrNotReady
)
