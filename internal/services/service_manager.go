package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/assessment-authoring/internal/authoring"
	"github.com/SAP-F-2025/assessment-authoring/internal/cache"
	"github.com/SAP-F-2025/assessment-authoring/internal/events"
	"github.com/SAP-F-2025/assessment-authoring/internal/repositories"
	"github.com/SAP-F-2025/assessment-authoring/internal/validator"
)

// ServiceManagerConfig holds the collaborators shared by all services
type ServiceManagerConfig struct {
	Repository   repositories.Repository
	Publisher    events.EventPublisher
	CacheManager *cache.CacheManager
	Generator    authoring.Generator
	Generation   GenerationConfig
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	publisher events.EventPublisher
	cache     *cache.CacheManager
	generator authoring.Generator
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	assessmentService AssessmentService
	generationService GenerationService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	cacheManager := config.CacheManager
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &serviceManager{
		repo:      config.Repository,
		publisher: config.Publisher,
		cache:     cacheManager,
		generator: config.Generator,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.repo == nil {
		return fmt.Errorf("failed to initialize services: repository is required")
	}

	sm.assessmentService = NewAssessmentService(sm.repo, sm.publisher, sm.cache, sm.logger, sm.validator)
	sm.logger.Info("Assessment service initialized")

	sm.generationService = NewGenerationService(sm.generator, sm.publisher, sm.logger, sm.validator, sm.config.Generation)
	sm.logger.Info("Generation service initialized", "available", sm.generationService.Available())

	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.logger.Info("Export service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Assessment() AssessmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.assessmentService
}

func (sm *serviceManager) Generation() GenerationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.generationService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return ErrServiceNotInitialized
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	// Redis is optional; a configured but unreachable cache is degraded, not down
	if err := sm.cache.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		sm.logger.Warn("Cache health check failed", "error", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
