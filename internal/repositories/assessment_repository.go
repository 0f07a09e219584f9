package repositories

import (
	"context"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"gorm.io/gorm"
)

// AssessmentRepository persists canonical assessments. A nil tx runs on the
// repository's own connection.
type AssessmentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error


	// Query operations
	ListByView(ctx context.Context, tx *gorm.DB, viewID string, filters AssessmentFilters) ([]*models.Assessment, int64, error)

	// Statistics
	CountByType(ctx context.Context, tx *gorm.DB, viewID string) (map[models.AssessmentType]int64, error)
}
