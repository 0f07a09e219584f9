package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/config"
	"github.com/SAP-F-2025/assessment-authoring/internal/models"
)

const (
	DefaultModel = "gemini-1.5-flash"
	maxAttempts  = 3
	defaultCount = 5
)

var ErrUnavailable = errors.New("generation is not configured")

// Engine is a Gemini-backed authoring.Generator.
type Engine struct {
	APIKey string
	Model  string
	logger *slog.Logger
}

func NewEngine(cfg config.GeminiConfig, logger *slog.Logger) *Engine {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Engine{
		APIKey: strings.TrimSpace(cfg.APIKey),
		Model:  model,
		logger: logger,
	}
}

func (e *Engine) Name() string { return "gemini" }

// Available reports whether an API key is configured.
func (e *Engine) Available() bool { return e.APIKey != "" }

// GenerateAssessments asks the model for new questions on a topic.
func (e *Engine) GenerateAssessments(ctx context.Context, req authoring.GenerateRequest) (authoring.GenerateResponse, error) {
	if !e.Available() {
		return authoring.GenerateResponse{}, ErrUnavailable
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	types := req.Types
	if len(types) == 0 {
		types = models.AssessmentTypes
	}
	input := map[string]any{
		"task":    fmt.Sprintf("Write %d assessments about the topic. Use only the allowed types.", count),
		"topic":   req.Topic,
		"context": req.Context,
		"count":   count,
		"types":   types,
	}

	var out authoring.GenerateResponse
	if err := e.complete(ctx, "generate", generateInstruction, input, &out); err != nil {
		return authoring.GenerateResponse{}, err
	}

	out.Assessments = Normalize(out.Assessments, types)
	if len(out.Assessments) > count {
		out.Assessments = out.Assessments[:count]
	}
	e.logger.Info("Assessments generated",
		"model", e.Model,
		"requested", count,
		"returned", len(out.Assessments))
	return out, nil
}

// ImproveAssessment asks the model to rework one assessment, keeping its type.
func (e *Engine) ImproveAssessment(ctx context.Context, req authoring.ImproveRequest) (authoring.ImproveResponse, error) {
	if !e.Available() {
		return authoring.ImproveResponse{}, ErrUnavailable
	}

	input := map[string]any{
		"task":         "Improve the assessment. Keep its type. Fix wording, distractors and the explanation.",
		"instructions": req.Instructions,
		"assessment":   req.Assessment,
	}

	var out authoring.ImproveResponse
	if err := e.complete(ctx, "improve", improveInstruction, input, &out); err != nil {
		return authoring.ImproveResponse{}, err
	}

	improved := Normalize([]models.Assessment{out.ImprovedAssessment}, []models.AssessmentType{req.Assessment.Type})
	if len(improved) == 0 {
		return authoring.ImproveResponse{}, fmt.Errorf("gemini improve: model changed type to %q", out.ImprovedAssessment.Type)
	}
	improved[0].ID = req.Assessment.ID
	out.ImprovedAssessment = improved[0]
	return out, nil
}

func (e *Engine) complete(ctx context.Context, op, sys string, input any, out any) error {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.4),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(sys),
			genai.Text("assessment.schema.json:\n" + assessmentSchema),
		},
	}

	userJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("gemini %s: marshal input: %w", op, err)
	}
	parts := []genai.Part{
		genai.Text("INPUT_JSON:\n" + string(userJSON)),
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			e.logger.Warn("Gemini call failed",
				"op", op,
				"attempt", attempt,
				"error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
			continue
		}
		return decode(op, firstText(resp), out)
	}
	return fmt.Errorf("gemini %s: %w", op, lastErr)
}

func decode(op, txt string, out any) error {
	if strings.TrimSpace(txt) == "" {
		return fmt.Errorf("gemini %s: empty response", op)
	}
	txt = StripCodeFences(txt)
	if err := json.Unmarshal([]byte(txt), out); err != nil {
		return fmt.Errorf("gemini %s: bad JSON: %w", op, err)
	}
	return nil
}

// Normalize drops items whose type is unknown or not in allowed and fills the
// fields the model tends to omit.
func Normalize(items []models.Assessment, allowed []models.AssessmentType) []models.Assessment {
	out := make([]models.Assessment, 0, len(items))
	for _, a := range items {
		if !a.Type.IsValid() || !typeAllowed(a.Type, allowed) {
			continue
		}
		a.ID = 0
		a.Text = strings.TrimSpace(a.Text)
		if a.ButtonLabel == "" {
			a.ButtonLabel = models.ButtonLabel
		}
		if a.Options == nil {
			a.Options = []models.Option{}
		}
		switch a.Type {
		case models.Numerical:
			if a.Extras == nil {
				a.Extras = &models.NumericalExtras{}
			}
			if a.Extras.Operator == "" {
				a.Extras.Operator = models.OperatorEq
			}
		default:
			a.Extras = nil
		}
		if a.Type != models.OpenEnded {
			a.Rubric = nil
		}
		out = append(out, a)
	}
	return out
}

func typeAllowed(t models.AssessmentType, allowed []models.AssessmentType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// StripCodeFences removes a surrounding markdown code fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
