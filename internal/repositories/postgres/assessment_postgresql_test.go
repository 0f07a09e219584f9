package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Assessment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM assessments WHERE view_id LIKE 'test-%'")
	})
	return db
}

func TestSortClause(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder, want string
	}{
		{"", "", "created_at ASC"},
		{"type", "desc", "type DESC"},
		{"id; DROP TABLE assessments", "asc", "created_at ASC"},
		{"slide_name", "DESC", "slide_name DESC"},
	}
	for _, tt := range tests {
		if got := SortClause(tt.sortBy, tt.sortOrder); got != tt.want {
			t.Errorf("SortClause(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
		}
	}
}

func TestAssessmentRepository(t *testing.T) {
	db := testDB(t)
	repo := NewAssessmentPostgreSQL(db, nil)
	ctx := context.Background()

	a := &models.Assessment{
		Type:        models.Numerical,
		Text:        "g?",
		Options:     datatypes.JSONSlice[models.Option]{{Text: "9.8", IsCorrect: true}},
		Extras:      &models.NumericalExtras{Operator: models.OperatorGte, Text2: " m/s²"},
		ViewID:      "test-view-1",
		SlideName:   "Gravity",
		ButtonLabel: models.ButtonLabel,
	}
	if err := repo.Create(ctx, nil, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	got, err := repo.GetByID(ctx, nil, a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Extras == nil || got.Extras.Operator != models.OperatorGte || len(got.Options) != 1 {
		t.Fatalf("GetByID() = %+v", got)
	}

	if _, err := repo.GetByID(ctx, nil, a.ID+100000); !repositories.IsNotFoundError(err) {
		t.Fatalf("GetByID() error = %v, want not found", err)
	}

	batch := []*models.Assessment{
		{Type: models.OrderList, Text: "order", Options: datatypes.JSONSlice[models.Option]{{Text: "a", IsCorrect: true}}},
		{Type: models.OpenEnded, Text: "why", Options: datatypes.JSONSlice[models.Option]{}},
	}
	for _, item := range batch {
		item.ViewID = "test-view-1"
		if err := repo.Create(ctx, nil, item); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	items, total, err := repo.ListByView(ctx, nil, "test-view-1", repositories.AssessmentFilters{})
	if err != nil {
		t.Fatalf("ListByView() error = %v", err)
	}
	if total != 3 || len(items) != 3 || items[0].ID != a.ID {
		t.Fatalf("ListByView() = %d items, total %d", len(items), total)
	}

	counts, err := repo.CountByType(ctx, nil, "test-view-1")
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	if counts[models.Numerical] != 1 || counts[models.OrderList] != 1 {
		t.Fatalf("CountByType() = %v", counts)
	}

	if err := repo.Delete(ctx, nil, a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}
