package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

const DefaultRevealDelay = 500 * time.Millisecond

var (
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrPendingIndex         = errors.New("pending assessment index out of range")
	ErrNothingPending       = errors.New("no pending assessments to save")
)

type GenerateRequest struct {
	ViewID  string                  `json:"view_id"`
	Topic   string                  `json:"topic"`
	Context string                  `json:"context,omitempty"`
	Count   int                     `json:"count,omitempty"`
	Types   []models.AssessmentType `json:"types,omitempty"`
}

type GenerateResponse struct {
	Assessments []models.Assessment `json:"assessments"`
}

type ImproveRequest struct {
	Assessment   models.Assessment `json:"assessment"`
	Instructions string            `json:"instructions,omitempty"`
}

type ImproveResponse struct {
	ImprovedAssessment models.Assessment `json:"improved_assessment"`
}

// Generator produces canonical assessments from a prompt. Implementations
// may be slow; callers pass a context to bound them.
type Generator interface {
	GenerateAssessments(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	ImproveAssessment(ctx context.Context, req ImproveRequest) (ImproveResponse, error)
}

// BulkSaveError reports a bulk save that stopped part way. Items before
// Index were persisted and are not rolled back.
type BulkSaveError struct {
	Index     int
	Saved     []*models.Assessment
	Remaining []models.Assessment
	Err       error
}

func (e *BulkSaveError) Error() string {
	return fmt.Sprintf("bulk save stopped at item %d after saving %d: %v", e.Index, len(e.Saved), e.Err)
}

func (e *BulkSaveError) Unwrap() error {
	return e.Err
}

// SaveSequential persists items one by one through creator, stamping each with
// viewID when it is non-empty. It stops at the first failure.
func SaveSequential(ctx context.Context, creator Creator, viewID string, items []models.Assessment) ([]*models.Assessment, error) {
	saved := make([]*models.Assessment, 0, len(items))
	for i := range items {
		item := items[i]
		if viewID != "" {
			item.ViewID = viewID
		}
		created, err := creator.CreateAssessment(ctx, &item)
		if err == nil && created == nil {
			err = ErrNothingCreated
		}
		if err != nil {
			return saved, &BulkSaveError{
				Index:     i,
				Saved:     saved,
				Remaining: slices.Clone(items[i:]),
				Err:       err,
			}
		}
		saved = append(saved, created)
	}
	return saved, nil
}

type GenerationOption func(*GenerationFlow)

func WithRevealDelay(d time.Duration) GenerationOption {
	return func(f *GenerationFlow) {
		if d >= 0 {
			f.revealDelay = d
		}
	}
}

// WithProgressOptions configures the progress timer owned by the flow.
func WithProgressOptions(opts ...ProgressOption) GenerationOption {
	return func(f *GenerationFlow) {
		f.progressOpts = append(f.progressOpts, opts...)
	}
}

// GenerationFlow drives the generate, review and bulk-save sub-flow of an
// authoring dialog. Generated items are held as pending until saved.
type GenerationFlow struct {
	generator    Generator
	logger       *slog.Logger
	revealDelay  time.Duration
	progressOpts []ProgressOption
	progress     *ProgressTimer

	mu      sync.Mutex
	running bool
	pending []models.Assessment
	lastErr error
}

func NewGenerationFlow(generator Generator, logger *slog.Logger, opts ...GenerationOption) *GenerationFlow {
	if logger == nil {
		logger = slog.Default()
	}
	f := &GenerationFlow{
		generator:   generator,
		logger:      logger,
		revealDelay: DefaultRevealDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.progress = NewProgressTimer(f.progressOpts...)
	return f
}

// Generate calls the generator while the progress timer runs. On success the
// items become pending after the reveal delay and are returned.
func (f *GenerationFlow) Generate(ctx context.Context, req GenerateRequest) ([]models.Assessment, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	f.progress.Start()
	resp, err := f.generator.GenerateAssessments(ctx, req)
	if err != nil {
		f.fail(err)
		f.logger.Error("Failed to generate assessments", "error", err, "view_id", req.ViewID, "topic", req.Topic)
		return nil, fmt.Errorf("failed to generate assessments: %w", err)
	}
	f.progress.Complete()

	if err := f.reveal(ctx); err != nil {
		return nil, err
	}

	items := make([]models.Assessment, len(resp.Assessments))
	for i, a := range resp.Assessments {
		if a.ViewID == "" {
			a.ViewID = req.ViewID
		}
		items[i] = a
	}

	f.mu.Lock()
	f.pending = items
	f.lastErr = nil
	f.mu.Unlock()

	f.logger.Info("Generated assessments", "count", len(items), "view_id", req.ViewID)
	return slices.Clone(items), nil
}

// Improve asks the generator for a revised version of one assessment. The
// result is not added to pending.
func (f *GenerationFlow) Improve(ctx context.Context, req ImproveRequest) (models.Assessment, error) {
	if err := f.begin(); err != nil {
		return models.Assessment{}, err
	}
	defer f.end()

	f.progress.Start()
	resp, err := f.generator.ImproveAssessment(ctx, req)
	if err != nil {
		f.fail(err)
		f.logger.Error("Failed to improve assessment", "error", err, "type", req.Assessment.Type)
		return models.Assessment{}, fmt.Errorf("failed to improve assessment: %w", err)
	}
	f.progress.Complete()

	if err := f.reveal(ctx); err != nil {
		return models.Assessment{}, err
	}

	improved := resp.ImprovedAssessment
	if improved.ViewID == "" {
		improved.ViewID = req.Assessment.ViewID
	}
	return improved, nil
}

// Pending returns a copy of the generated items awaiting save.
func (f *GenerationFlow) Pending() []models.Assessment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.pending)
}

// Update replaces pending item i, typically after editing it through
// DecodeEditable and Encode.
func (f *GenerationFlow) Update(i int, a models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.pending) {
		return fmt.Errorf("%w: %d", ErrPendingIndex, i)
	}
	f.pending[i] = a
	return nil
}

func (f *GenerationFlow) Remove(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.pending) {
		return fmt.Errorf("%w: %d", ErrPendingIndex, i)
	}
	f.pending = slices.Delete(f.pending, i, i+1)
	return nil
}

// SaveAll persists every pending item in order under viewID. On failure the
// unsaved remainder stays pending and a *BulkSaveError is returned.
func (f *GenerationFlow) SaveAll(ctx context.Context, viewID string, creator Creator) ([]*models.Assessment, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	defer f.end()

	items := f.Pending()
	if len(items) == 0 {
		return nil, ErrNothingPending
	}

	saved, err := SaveSequential(ctx, creator, viewID, items)
	if err != nil {
		var bulkErr *BulkSaveError
		if errors.As(err, &bulkErr) {
			f.mu.Lock()
			f.pending = bulkErr.Remaining
			f.lastErr = err
			f.mu.Unlock()
			f.logger.Error("Bulk save stopped", "error", bulkErr.Err, "index", bulkErr.Index, "saved", len(saved), "view_id", viewID)
		}
		return saved, err
	}

	f.mu.Lock()
	f.pending = nil
	f.lastErr = nil
	f.mu.Unlock()

	f.logger.Info("Bulk saved assessments", "count", len(saved), "view_id", viewID)
	return saved, nil
}

func (f *GenerationFlow) Progress() int {
	return f.progress.Value()
}

func (f *GenerationFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Busy reports whether a generate, improve or save call is outstanding.
func (f *GenerationFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Close stops the progress timer. The flow must not be used afterwards.
func (f *GenerationFlow) Close() {
	f.progress.Close()
}

func (f *GenerationFlow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return ErrGenerationInProgress
	}
	f.running = true
	return nil
}

func (f *GenerationFlow) end() {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
}

func (f *GenerationFlow) fail(err error) {
	f.progress.Fail()
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}

func (f *GenerationFlow) reveal(ctx context.Context) error {
	if f.revealDelay <= 0 {
		return nil
	}
	t := time.NewTimer(f.revealDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
