package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assessment-authoring/internal/models"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"github.com/SAP-F-2025/assessment-authoring/internal/services"
	"github.com/SAP-F-2025/assessment-authoring/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
	exportService     services.ExportService
}

func NewAssessmentHandler(
	assessmentService services.AssessmentService,
	exportService services.ExportService,
	logger utils.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
		exportService:     exportService,
	}
}

// ListVariants returns every assessment type with its default editable state
// @Summary List assessment types
// @Tags variants
// @Produce json
// @Success 200 {array} authoring.VariantInfo
// @Router /variants [get]
func (h *AssessmentHandler) ListVariants(c *gin.Context) {
	c.JSON(http.StatusOK, h.assessmentService.Variants())
}

// ValidateAssessment reports save-readiness of an editable state
// @Summary Validate editable state
// @Tags assessments
// @Accept json
// @Produce json
// @Param state body services.EditableStateRequest true "Editable state"
// @Success 200 {object} services.ValidationResponse
// @Failure 400 {object} ErrorResponse
// @Router /assessments/validate [post]
func (h *AssessmentHandler) ValidateAssessment(c *gin.Context) {
	var req services.EditableStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	resp, err := h.assessmentService.Validate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// EncodeAssessment returns the canonical assessment and its preview without
// persisting anything
// @Summary Encode editable state
// @Tags assessments
// @Accept json
// @Produce json
// @Param state body services.EditableStateRequest true "Editable state"
// @Success 200 {object} services.EncodeResponse
// @Failure 400 {object} ErrorResponse
// @Router /assessments/encode [post]
func (h *AssessmentHandler) EncodeAssessment(c *gin.Context) {
	var req services.EditableStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	resp, err := h.assessmentService.Encode(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateAssessment validates, encodes and stores one assessment
// @Summary Create assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Param state body services.EditableStateRequest true "Editable state"
// @Success 201 {object} services.AssessmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Not ready to save"
// @Failure 500 {object} ErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req services.EditableStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating assessment", "type", req.Type, "view_id", req.ViewID)

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment retrieves an assessment by ID
// @Summary Get assessment
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Success 200 {object} services.AssessmentResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting assessment", "assessment_id", id)

	assessment, err := h.assessmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GetAssessmentPreview renders the correctness preview of a stored assessment
// @Summary Get assessment preview
// @Tags assessments
// @Produce json
// @Param id path uint true "Assessment ID"
// @Param format query string false "json (default) or text"
// @Success 200 {object} authoring.Preview
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id}/preview [get]
func (h *AssessmentHandler) GetAssessmentPreview(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	preview, err := h.assessmentService.Preview(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, preview.String())
		return
	}
	c.JSON(http.StatusOK, preview)
}

// DeleteAssessment removes an assessment
// @Summary Delete assessment
// @Tags assessments
// @Param id path uint true "Assessment ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting assessment", "assessment_id", id)

	if err := h.assessmentService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Assessment deleted successfully",
	})
}

// BulkSaveAssessments stores canonical assessments into a view in order. A
// save that stops part way answers 207 with what was saved.
// @Summary Bulk save assessments
// @Tags views
// @Accept json
// @Produce json
// @Param view_id path string true "View ID"
// @Param request body services.BulkSaveRequest true "Assessments"
// @Success 201 {object} services.BulkSaveResponse
// @Success 207 {object} services.BulkSaveResponse "Stopped at failed_index"
// @Failure 400 {object} ErrorResponse
// @Router /views/{view_id}/assessments/bulk [post]
func (h *AssessmentHandler) BulkSaveAssessments(c *gin.Context) {
	viewID := h.parseStringIDParam(c, "view_id")
	if viewID == "" {
		return
	}

	var req services.BulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Bulk saving assessments", "view_id", viewID, "count", len(req.Assessments))

	resp, err := h.assessmentService.BulkSave(c.Request.Context(), viewID, &req)
	if err != nil {
		if bulkErr, ok := services.IsBulkSaveError(err); ok && resp != nil {
			h.LogError(c, bulkErr, "Bulk save stopped")
			c.JSON(http.StatusMultiStatus, resp)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListViewAssessments lists the assessments of a view
// @Summary List assessments of a view
// @Tags views
// @Produce json
// @Param view_id path string true "View ID"
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Param type query string false "Assessment type"
// @Param sort_by query string false "created_at, updated_at, id, type, slide_name"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} services.AssessmentListResponse
// @Router /views/{view_id}/assessments [get]
func (h *AssessmentHandler) ListViewAssessments(c *gin.Context) {
	viewID := h.parseStringIDParam(c, "view_id")
	if viewID == "" {
		return
	}

	filters, ok := h.parseAssessmentFilters(c)
	if !ok {
		return
	}

	resp, err := h.assessmentService.ListByView(c.Request.Context(), viewID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportView downloads the assessments of a view as an xlsx workbook
// @Summary Export view
// @Tags views
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param view_id path string true "View ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /views/{view_id}/assessments/export [get]
func (h *AssessmentHandler) ExportView(c *gin.Context) {
	viewID := h.parseStringIDParam(c, "view_id")
	if viewID == "" {
		return
	}

	h.LogRequest(c, "Exporting view", "view_id", viewID)

	var buf bytes.Buffer
	if _, err := h.exportService.ExportView(c.Request.Context(), viewID, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, viewID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AssessmentHandler) parseAssessmentFilters(c *gin.Context) (repositories.AssessmentFilters, bool) {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	filters := repositories.AssessmentFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if t := c.Query("type"); t != "" {
		assessmentType := models.AssessmentType(t)
		if !assessmentType.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid type",
				Details: t,
			})
			return filters, false
		}
		filters.Type = &assessmentType
	}

	return filters, true
}
