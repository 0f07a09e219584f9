package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// MockRepository keeps assessments in memory
type MockRepository struct {
	assessments *memoryAssessments
}

func NewMockRepository() *MockRepository {
	return &MockRepository{assessments: &memoryAssessments{rows: map[uint]*models.Assessment{}, failAt: map[int]error{}}}
}

func (m *MockRepository) Assessment() repositories.AssessmentRepository { return m.assessments }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

type memoryAssessments struct {
	mu      sync.Mutex
	rows    map[uint]*models.Assessment
	nextID  uint
	creates int
	// failAt makes the n-th create call (0-based) fail
	failAt map[int]error
}

func (r *memoryAssessments) create(a *models.Assessment) error {
	n := r.creates
	r.creates++
	if err, ok := r.failAt[n]; ok {
		return err
	}
	r.nextID++
	a.ID = r.nextID
	stored := *a
	r.rows[a.ID] = &stored
	return nil
}

func (r *memoryAssessments) Create(ctx context.Context, tx *gorm.DB, assessment *models.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(assessment)
}

func (r *memoryAssessments) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("assessment %d: %w", id, repositories.ErrNotFound)
	}
	out := *a
	return &out, nil
}

func (r *memoryAssessments) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryAssessments) ListByView(ctx context.Context, tx *gorm.DB, viewID string, filters repositories.AssessmentFilters) ([]*models.Assessment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Assessment
	for _, a := range r.rows {
		if a.ViewID != viewID {
			continue
		}
		if filters.Type != nil && a.Type != *filters.Type {
			continue
		}
		out := *a
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filters.Offset >= len(matched) {
		return []*models.Assessment{}, total, nil
	}
	matched = matched[filters.Offset:]
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}
	return matched, total, nil
}

func (r *memoryAssessments) CountByType(ctx context.Context, tx *gorm.DB, viewID string) (map[models.AssessmentType]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.AssessmentType]int64{}
	for _, a := range r.rows {
		if a.ViewID == viewID {
			counts[a.Type]++
		}
	}
	return counts, nil
}
