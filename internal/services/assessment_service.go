package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/cache"
	"github.com/SAP-F-2025/assessment-authoring/internal/events"
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

type assessmentService struct {
	repo         repositories.Repository
	publisher    events.EventPublisher
	cacheManager *cache.CacheManager
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewAssessmentService(repo repositories.Repository, publisher events.EventPublisher, cacheManager *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) AssessmentService {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &assessmentService{
		repo:         repo,
		publisher:    publisher,
		cacheManager: cacheManager,
		logger:       logger,
		validator:    validator,
	}
}

func (s *assessmentService) Variants() []authoring.VariantInfo {
	return authoring.Variants()
}

// ===== AUTHORING OPERATIONS =====

func (s *assessmentService) Validate(ctx context.Context, req *EditableStateRequest) (*ValidationResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEditableState(req); len(errs) > 0 {
		return nil, errs
	}

	state, err := loadForm(req, s.logger)
	if err != nil {
		return nil, err
	}

	problems := authoring.Problems(state)
	return &ValidationResponse{
		Valid:    len(problems) == 0,
		Problems: problems,
	}, nil
}

func (s *assessmentService) Encode(ctx context.Context, req *EditableStateRequest) (*EncodeResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateEditableState(req); len(errs) > 0 {
		return nil, errs
	}

	state, err := loadForm(req, s.logger)
	if err != nil {
		return nil, err
	}

	assessment := authoring.Encode(state)
	preview := authoring.Describe(assessment)

	return &EncodeResponse{
		Assessment: assessment,
		Preview:    preview,
		Summary:    preview.String(),
		Valid:      authoring.IsValid(state),
	}, nil
}

// ===== CORE CRUD OPERATIONS =====

// Create runs one authoring session over the request: load, validate,
// encode and a single create call.
func (s *assessmentService) Create(ctx context.Context, req *EditableStateRequest) (*AssessmentResponse, error) {
	s.logger.Info("Creating assessment", "type", req.Type, "view_id", req.ViewID)

	if errs := s.validator.GetBusinessValidator().ValidateEditableState(req); len(errs) > 0 {
		return nil, errs
	}

	session := authoring.NewSession(s.logger)
	if err := session.Load(toEditableState(req)); err != nil {
		return nil, err
	}

	created, err := session.Save(ctx, s)
	if err != nil {
		return nil, err
	}

	preview := authoring.Describe(*created)
	return &AssessmentResponse{Assessment: created, Preview: &preview}, nil
}

// CreateAssessment persists one canonical assessment. It is the persistence
// collaborator handed to authoring sessions.
func (s *assessmentService) CreateAssessment(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	if _, err := s.persist(ctx, assessment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventAssessmentCreated, events.AssessmentCreatedData{
		AssessmentID: assessment.ID,
		ViewID:       assessment.ViewID,
		Type:         string(assessment.Type),
	}))

	s.logger.Info("Assessment created successfully", "assessment_id", assessment.ID, "type", assessment.Type)
	return assessment, nil
}

// BulkSave stores already canonical assessments into one view in order,
// stopping at the first failure. Stored items are not rolled back; the
// returned error is an *authoring.BulkSaveError and the response still lists
// what was saved.
func (s *assessmentService) BulkSave(ctx context.Context, viewID string, req *BulkSaveRequest) (*BulkSaveResponse, error) {
	s.logger.Info("Bulk saving assessments", "view_id", viewID, "count", len(req.Assessments))

	if errs := s.validator.GetBusinessValidator().ValidateBulkSave(req); len(errs) > 0 {
		return nil, errs
	}

	items := make([]models.Assessment, len(req.Assessments))
	for i, item := range req.Assessments {
		item.ID = 0
		items[i] = item
	}

	saved, err := authoring.SaveSequential(ctx, authoring.CreatorFunc(s.persist), viewID, items)

	resp := &BulkSaveResponse{
		ViewID:    viewID,
		Requested: len(items),
		Saved:     saved,
	}
	data := events.BulkSavedData{
		ViewID:        viewID,
		AssessmentIDs: assessmentIDs(saved),
		Requested:     len(items),
	}

	var bulkErr *authoring.BulkSaveError
	if errors.As(err, &bulkErr) {
		index := bulkErr.Index
		resp.FailedIndex = &index
		resp.Error = bulkErr.Err.Error()
		data.FailedIndex = &index
		s.logger.Error("Bulk save stopped", "view_id", viewID, "failed_index", index, "saved", len(saved), "error", bulkErr.Err)
	}

	if len(saved) > 0 || err != nil {
		s.publish(ctx, events.NewEvent(events.EventAssessmentsBulkSaved, data))
	}

	if err != nil {
		return resp, err
	}

	s.logger.Info("Bulk save completed", "view_id", viewID, "saved", len(saved))
	return resp, nil
}

func (s *assessmentService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting assessment", "assessment_id", id)

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Assessment().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	cache.InvalidateAssessmentCache(ctx, s.cacheManager, id, assessment.ViewID)
	return nil
}

// ===== GET OPERATIONS =====

func (s *assessmentService) GetByID(ctx context.Context, id uint) (*AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	preview := authoring.Describe(*assessment)
	return &AssessmentResponse{Assessment: assessment, Preview: &preview}, nil
}

// Preview renders the correctness preview of a stored assessment, cached
// by assessment ID.
func (s *assessmentService) Preview(ctx context.Context, id uint) (*authoring.Preview, error) {
	var preview authoring.Preview

	err := s.cacheManager.Preview.CacheOrExecute(ctx, cache.PreviewKey(id), &preview, cache.PreviewCacheConfig.TTL, func() (interface{}, error) {
		assessment, err := s.getAssessment(ctx, id)
		if err != nil {
			return nil, err
		}
		return authoring.Describe(*assessment), nil
	})
	if err != nil {
		return nil, err
	}

	return &preview, nil
}

// ListByView lists one page of a view. Pages are cached by the repository.
func (s *assessmentService) ListByView(ctx context.Context, viewID string, filters repositories.AssessmentFilters) (*AssessmentListResponse, error) {
	assessments, total, err := s.repo.Assessment().ListByView(ctx, nil, viewID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	byType, err := s.repo.Assessment().CountByType(ctx, nil, viewID)
	if err != nil {
		s.logger.Warn("Failed to count assessments by type", "view_id", viewID, "error", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &AssessmentListResponse{
		Assessments: assessments,
		Total:       total,
		Page:        page,
		Size:        filters.Limit,
		ByType:      byType,
	}, nil
}

// ===== HELPERS =====

func (s *assessmentService) getAssessment(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

// persist stores one canonical assessment without publishing anything.
func (s *assessmentService) persist(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	if assessment.ButtonLabel == "" {
		assessment.ButtonLabel = models.ButtonLabel
	}
	if err := s.repo.Assessment().Create(ctx, nil, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return assessment, nil
}

// publish never fails the caller; the assessment is already persisted.
func (s *assessmentService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "event_id", event.ID, "error", err)
	}
}

// loadForm runs the request through a session load so validate, encode and
// create all judge the same form.
func loadForm(req *EditableStateRequest, logger *slog.Logger) (authoring.EditableState, error) {
	session := authoring.NewSession(logger)
	if err := session.Load(toEditableState(req)); err != nil {
		return authoring.EditableState{}, err
	}
	return session.Form(), nil
}

func toEditableState(req *EditableStateRequest) authoring.EditableState {
	state := authoring.EditableState{
		AssessmentName: req.AssessmentName,
		ViewID:         req.ViewID,
		Type:           req.Type,
		QuestionText:   req.QuestionText,
		Options:        req.Options,
		CorrectAnswers: req.CorrectAnswers,
		Explanation:    req.Explanation,
		Rubric:         req.Rubric,
	}
	if req.Extras != nil {
		state.Extras = &models.NumericalExtras{
			Operator: req.Extras.Operator,
			Text:     req.Extras.Text,
			Text2:    req.Extras.Text2,
		}
	}
	return state.Clone()
}

func assessmentIDs(items []*models.Assessment) []uint {
	ids := make([]uint, len(items))
	for i, a := range items {
		ids[i] = a.ID
	}
	return ids
}

// IsBulkSaveError extracts the partial result of a failed bulk save
func IsBulkSaveError(err error) (*authoring.BulkSaveError, bool) {
	var bulkErr *authoring.BulkSaveError
	if errors.As(err, &bulkErr) {
		return bulkErr, true
	}
	return nil, false
}
