package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assessment-authoring/internal/services"
	"github.com/SAP-F-2025/assessment-authoring/internal/utils"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	generationHandler *GenerationHandler
	serviceManager    services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), serviceManager.Export(), logger),
		generationHandler: NewGenerationHandler(serviceManager.Generation(), logger),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/variants", hm.assessmentHandler.ListVariants)

		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			// Authoring without persistence
			assessments.POST("/validate", hm.assessmentHandler.ValidateAssessment)
			assessments.POST("/encode", hm.assessmentHandler.EncodeAssessment)

			// Generation
			assessments.POST("/generate", hm.generationHandler.GenerateAssessments)
			assessments.POST("/improve", hm.generationHandler.ImproveAssessment)

			assessments.POST("", hm.assessmentHandler.CreateAssessment)
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.GET("/:id/preview", hm.assessmentHandler.GetAssessmentPreview)
			assessments.DELETE("/:id", hm.assessmentHandler.DeleteAssessment)
		}

		// View routes
		views := v1.Group("/views/:view_id")
		{
			views.GET("/assessments", hm.assessmentHandler.ListViewAssessments)
			views.POST("/assessments/bulk", hm.assessmentHandler.BulkSaveAssessments)
			views.GET("/assessments/export", hm.assessmentHandler.ExportView)
		}
	}
}

// HealthCheck endpoint
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "assessment-authoring",
		"generation": hm.serviceManager.Generation().Available(),
	})
}
