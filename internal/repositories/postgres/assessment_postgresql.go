package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/assessment-authoring/internal/cache"
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewAssessmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (a *AssessmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create stores a new assessment and invalidates the listings of its view
func (a *AssessmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	if err := a.getDB(tx).WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	cache.InvalidateViewCache(ctx, a.cacheManager, assessment.ViewID)

	return nil
}

// GetByID retrieves an assessment by ID with caching
func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	var assessment models.Assessment

	err := a.cacheManager.Assessment.CacheOrExecute(ctx, cache.AssessmentKey(id), &assessment, cache.AssessmentCacheConfig.TTL, func() (interface{}, error) {
		var dbAssessment models.Assessment
		if err := a.getDB(tx).WithContext(ctx).First(&dbAssessment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("assessment %d: %w", id, repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get assessment: %w", err)
		}
		return &dbAssessment, nil
	})
	if err != nil {
		return nil, err
	}

	return &assessment, nil
}

// Delete hard deletes an assessment
func (a *AssessmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := a.getDB(tx)

	var assessment models.Assessment
	if err := db.WithContext(ctx).Select("id, view_id").First(&assessment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assessment %d: %w", id, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to get assessment before delete: %w", err)
	}

	if err := db.WithContext(ctx).Delete(&models.Assessment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	cache.InvalidateAssessmentCache(ctx, a.cacheManager, id, assessment.ViewID)

	return nil
}

type cachedPage struct {
	Items []*models.Assessment `json:"items"`
	Total int64                `json:"total"`
}

// ListByView retrieves the assessments of one view with filters and pagination
func (a *AssessmentPostgreSQL) ListByView(ctx context.Context, tx *gorm.DB, viewID string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	var page cachedPage

	err := a.cacheManager.List.CacheOrExecute(ctx, cache.ViewListKey(viewID, filters.CacheKey()), &page, cache.ListCacheConfig.TTL, func() (interface{}, error) {
		query := a.getDB(tx).WithContext(ctx).Model(&models.Assessment{}).Where("view_id = ?", viewID)
		query = a.helpers.ApplyAssessmentFilters(query, filters)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count assessments: %w", err)
		}

		query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

		var assessments []*models.Assessment
		if err := query.Find(&assessments).Error; err != nil {
			return nil, fmt.Errorf("failed to list assessments: %w", err)
		}

		return cachedPage{Items: assessments, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	if page.Items == nil {
		page.Items = []*models.Assessment{}
	}
	return page.Items, page.Total, nil
}

// CountByType counts the assessments of a view per variant
func (a *AssessmentPostgreSQL) CountByType(ctx context.Context, tx *gorm.DB, viewID string) (map[models.AssessmentType]int64, error) {
	var rows []struct {
		Type  models.AssessmentType
		Count int64
	}

	err := a.getDB(tx).WithContext(ctx).
		Model(&models.Assessment{}).
		Select("type, COUNT(*) AS count").
		Where("view_id = ?", viewID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count assessments by type: %w", err)
	}

	counts := make(map[models.AssessmentType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
