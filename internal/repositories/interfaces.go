package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	Type      *models.AssessmentType `json:"type"`
	DateFrom  *time.Time             `json:"date_from"`
	DateTo    *time.Time             `json:"date_to"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	SortBy    string                 `json:"sort_by"`    // "created_at", "type", "id"
	SortOrder string                 `json:"sort_order"` // "asc", "desc"
}

// CacheKey identifies one filtered page for list caching.
func (f AssessmentFilters) CacheKey() string {
	key := fmt.Sprintf("l%d:o%d:%s:%s", f.Limit, f.Offset, f.SortBy, f.SortOrder)
	if f.Type != nil {
		key += ":t" + string(*f.Type)
	}
	if f.DateFrom != nil {
		key += ":f" + f.DateFrom.UTC().Format(time.RFC3339)
	}
	if f.DateTo != nil {
		key += ":u" + f.DateTo.UTC().Format(time.RFC3339)
	}
	return key
}

// ===== ERRORS =====

var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the requested record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
