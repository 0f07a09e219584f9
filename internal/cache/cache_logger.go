package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

func AssessmentKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}

func PreviewKey(id uint) string {
	return fmt.Sprintf("id:%d", id)
}

// ViewListKey keys one page of a view's listing.
func ViewListKey(viewID string, variant string) string {
	return fmt.Sprintf("view:%s:%s", viewID, variant)
}

// InvalidateAssessmentCache drops the cached record and preview of one
// assessment and every listing of its view.
func InvalidateAssessmentCache(ctx context.Context, cm *CacheManager, assessmentID uint, viewID string) {
	SafeDelete(ctx, cm.Assessment, AssessmentKey(assessmentID))
	SafeDelete(ctx, cm.Preview, PreviewKey(assessmentID))
	InvalidateViewCache(ctx, cm, viewID)
}

// InvalidateViewCache drops every cached listing of a view.
func InvalidateViewCache(ctx context.Context, cm *CacheManager, viewID string) {
	SafeInvalidatePattern(ctx, cm.List, fmt.Sprintf("view:%s:*", viewID))
}
