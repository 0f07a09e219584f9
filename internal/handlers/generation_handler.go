package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assessment-authoring/internal/services"
	"github.com/SAP-F-2025/assessment-authoring/internal/utils"
)

type GenerationHandler struct {
	BaseHandler
	generationService services.GenerationService
}

func NewGenerationHandler(generationService services.GenerationService, logger utils.Logger) *GenerationHandler {
	return &GenerationHandler{
		BaseHandler:       NewBaseHandler(logger),
		generationService: generationService,
	}
}

type generationResult struct {
	data interface{}
	err  error
}

// GenerateAssessments asks the generator for new assessments on a topic.
// With ?stream=true or Accept: text/event-stream the response is a server-sent
// event stream of "progress" events followed by one "result" or "error".
// @Summary Generate assessments
// @Tags generation
// @Accept json
// @Produce json
// @Param request body services.GenerateRequest true "Generation request"
// @Success 200 {object} services.GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Generation not configured"
// @Router /assessments/generate [post]
func (h *GenerationHandler) GenerateAssessments(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Generating assessments", "view_id", req.ViewID, "count", req.Count)

	h.run(c, func(progress services.ProgressFunc) (interface{}, error) {
		return h.generationService.Generate(c.Request.Context(), &req, progress)
	})
}

// ImproveAssessment asks the generator to rework one assessment
// @Summary Improve assessment
// @Tags generation
// @Accept json
// @Produce json
// @Param request body services.ImproveRequest true "Improve request"
// @Success 200 {object} services.ImproveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Generation not configured"
// @Router /assessments/improve [post]
func (h *GenerationHandler) ImproveAssessment(c *gin.Context) {
	var req services.ImproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Improving assessment", "type", req.Assessment.Type)

	h.run(c, func(progress services.ProgressFunc) (interface{}, error) {
		return h.generationService.Improve(c.Request.Context(), &req, progress)
	})
}

func (h *GenerationHandler) run(c *gin.Context, call func(services.ProgressFunc) (interface{}, error)) {
	if !wantsStream(c) {
		data, err := call(nil)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}

	progressCh := make(chan int, 16)
	doneCh := make(chan generationResult, 1)

	go func() {
		data, err := call(func(percent int) {
			select {
			case progressCh <- percent:
			default:
			}
		})
		doneCh <- generationResult{data: data, err: err}
	}()

	last := -1
	emit := func(percent int) {
		last = percent
		c.SSEvent("progress", gin.H{"percent": percent})
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case percent := <-progressCh:
			emit(percent)
			return true
		case res := <-doneCh:
			// progress sent before completion goes out ahead of the outcome
			for drained := false; !drained; {
				select {
				case percent := <-progressCh:
					emit(percent)
				default:
					drained = true
				}
			}
			if res.err != nil {
				h.LogError(c, res.err, "Generation failed")
				c.SSEvent("error", ErrorResponse{Message: res.err.Error()})
				return false
			}
			if last != 100 {
				emit(100)
			}
			c.SSEvent("result", res.data)
			return false
		}
	})
}

func wantsStream(c *gin.Context) bool {
	if c.Query("stream") == "true" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}
