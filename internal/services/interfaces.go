package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type EditableStateRequest = validator.EditableStateRequest
type BulkSaveRequest = validator.BulkSaveRequest
type GenerateRequest = validator.GenerateRequest
type ImproveRequest = validator.ImproveRequest

// ValidationResponse reports save-readiness of an editable state
type ValidationResponse struct {
	Valid    bool                       `json:"valid"`
	Problems validator.ValidationErrors `json:"problems,omitempty"`
}

// EncodeResponse is the canonical form of an editable state, not persisted
type EncodeResponse struct {
	Assessment models.Assessment `json:"assessment"`
	Preview    authoring.Preview `json:"preview"`
	Summary    string            `json:"summary"`
	Valid      bool              `json:"valid"`
}

type AssessmentResponse struct {
	*models.Assessment
	Preview *authoring.Preview `json:"preview,omitempty"`
}

type AssessmentListResponse struct {
	Assessments []*models.Assessment            `json:"assessments"`
	Total       int64                           `json:"total"`
	Page        int                             `json:"page"`
	Size        int                             `json:"size"`
	ByType      map[models.AssessmentType]int64 `json:"by_type,omitempty"`
}

// BulkSaveResponse describes a bulk save. FailedIndex is set when the save
// stopped early; Saved lists what was persisted either way.
type BulkSaveResponse struct {
	ViewID      string               `json:"view_id"`
	Requested   int                  `json:"requested"`
	Saved       []*models.Assessment `json:"saved"`
	FailedIndex *int                 `json:"failed_index,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// GenerateResponse carries generated assessments together with their
// editable form so they can go back through the authoring loop.
type GenerateResponse struct {
	Assessments []models.Assessment       `json:"assessments"`
	Editable    []authoring.EditableState `json:"editable"`
}

type ImproveResponse struct {
	ImprovedAssessment models.Assessment       `json:"improved_assessment"`
	Editable           authoring.EditableState `json:"editable"`
}

// ProgressFunc receives generation progress in percent
type ProgressFunc func(percent int)

// ===== SERVICE INTERFACES =====

type AssessmentService interface {
	// Registry
	Variants() []authoring.VariantInfo

	// Authoring operations without persistence
	Validate(ctx context.Context, req *EditableStateRequest) (*ValidationResponse, error)
	Encode(ctx context.Context, req *EditableStateRequest) (*EncodeResponse, error)

	// Persistence
	Create(ctx context.Context, req *EditableStateRequest) (*AssessmentResponse, error)
	CreateAssessment(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error)
	BulkSave(ctx context.Context, viewID string, req *BulkSaveRequest) (*BulkSaveResponse, error)
	Delete(ctx context.Context, id uint) error

	// Get operations
	GetByID(ctx context.Context, id uint) (*AssessmentResponse, error)
	Preview(ctx context.Context, id uint) (*authoring.Preview, error)
	ListByView(ctx context.Context, viewID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error)
}

type GenerationService interface {
	Available() bool
	Generate(ctx context.Context, req *GenerateRequest, progress ProgressFunc) (*GenerateResponse, error)
	Improve(ctx context.Context, req *ImproveRequest, progress ProgressFunc) (*ImproveResponse, error)
}

type ExportService interface {
	// ExportView writes every assessment of a view as an xlsx workbook and
	// returns how many rows were written.
	ExportView(ctx context.Context, viewID string, w io.Writer) (int, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Assessment() AssessmentService
	Generation() GenerationService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
