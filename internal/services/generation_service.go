package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/events"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

// GenerationConfig tunes the progress reporting of one generation call
type GenerationConfig struct {
	Tick        time.Duration
	RevealDelay time.Duration
}

type generationService struct {
	generator authoring.Generator
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	config    GenerationConfig
}

func NewGenerationService(generator authoring.Generator, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config GenerationConfig) GenerationService {
	return &generationService{
		generator: generator,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Available reports whether a generator is wired and configured.
func (s *generationService) Available() bool {
	if s.generator == nil {
		return false
	}
	if a, ok := s.generator.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

func (s *generationService) Generate(ctx context.Context, req *GenerateRequest, progress ProgressFunc) (*GenerateResponse, error) {
	s.logger.Info("Generating assessments", "view_id", req.ViewID, "count", req.Count, "types", req.Types)

	if errs := s.validator.GetBusinessValidator().ValidateGenerate(req); len(errs) > 0 {
		return nil, errs
	}
	if !s.Available() {
		return nil, ErrGenerationUnavailable
	}

	flow := s.newFlow(progress)
	defer flow.Close()

	assessments, err := flow.Generate(ctx, authoring.GenerateRequest{
		ViewID:  req.ViewID,
		Topic:   req.Topic,
		Context: req.Context,
		Count:   req.Count,
		Types:   req.Types,
	})
	if err != nil {
		return nil, err
	}

	editable := make([]authoring.EditableState, len(assessments))
	for i, a := range assessments {
		editable[i] = authoring.DecodeEditable(a)
	}

	if s.publisher != nil {
		event := events.NewEvent(events.EventAssessmentsGenerated, events.AssessmentsGeneratedData{
			ViewID: req.ViewID,
			Topic:  req.Topic,
			Count:  len(assessments),
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
		}
	}

	return &GenerateResponse{Assessments: assessments, Editable: editable}, nil
}

func (s *generationService) Improve(ctx context.Context, req *ImproveRequest, progress ProgressFunc) (*ImproveResponse, error) {
	s.logger.Info("Improving assessment", "type", req.Assessment.Type, "assessment_id", req.Assessment.ID)

	if errs := s.validator.GetBusinessValidator().ValidateImprove(req); len(errs) > 0 {
		return nil, errs
	}
	if !s.Available() {
		return nil, ErrGenerationUnavailable
	}

	flow := s.newFlow(progress)
	defer flow.Close()

	improved, err := flow.Improve(ctx, authoring.ImproveRequest{
		Assessment:   req.Assessment,
		Instructions: req.Instructions,
	})
	if err != nil {
		return nil, err
	}

	return &ImproveResponse{
		ImprovedAssessment: improved,
		Editable:           authoring.DecodeEditable(improved),
	}, nil
}

// newFlow builds a flow scoped to one request; its progress ticker is torn
// down when the caller closes it.
func (s *generationService) newFlow(progress ProgressFunc) *authoring.GenerationFlow {
	progressOpts := []authoring.ProgressOption{authoring.WithProgressInterval(s.config.Tick)}
	if progress != nil {
		progressOpts = append(progressOpts, authoring.WithProgressListener(progress))
	}

	return authoring.NewGenerationFlow(s.generator, s.logger,
		authoring.WithRevealDelay(s.config.RevealDelay),
		authoring.WithProgressOptions(progressOpts...),
	)
}
