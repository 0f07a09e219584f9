package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/services"
	"github.com/SAP-F-2025/assessment-authoring/internal/utils"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logging and error helpers shared by all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming operation with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.GetLogger(c, h.logger).Error(msg, "error", err, "path", c.Request.URL.Path)
}

// RespondWithError writes an ErrorResponse; err may be nil
func (h *BaseHandler) RespondWithError(c *gin.Context, status int, msg string, err error) {
	resp := ErrorResponse{Message: msg}
	if err != nil {
		resp.Details = err.Error()
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			resp.Details = verrs
		}
	}
	c.JSON(status, resp)
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrAssessmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Assessment not found",
		})
	case errors.Is(err, services.ErrNotReady):
		// readiness problems are carried next to the sentinel
		resp := ErrorResponse{Message: "Assessment is not ready to save"}
		if errors.As(err, &verrs) {
			resp.Details = verrs
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
	case errors.Is(err, authoring.ErrUnknownType), errors.Is(err, authoring.ErrExtrasNotAllowed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Bad request",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrGenerationUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Assessment generation is not available",
		})
	case errors.Is(err, authoring.ErrGenerationInProgress), errors.Is(err, authoring.ErrSaveInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Operation already in progress",
		})
	case errors.Is(err, services.ErrEmptyView):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "View has no assessments",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: err.Error(),
		})
	}
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
