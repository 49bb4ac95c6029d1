package handlers

import (
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/services"
)

// ServiceName is reported by the health endpoints
const ServiceName = "hydroeval"

// Handler contains all HTTP handlers
type Handler struct {
	logger  *logging.Logger
	version string
	// Services
	analysisService  *services.AnalysisService
	transformService *services.TransformService
	batchService     *services.BatchService
	historyService   *services.HistoryService
}

// New creates a new handler instance
func New(deps services.Dependencies, version string) *Handler {
	return &Handler{
		logger:           deps.Logger,
		version:          version,
		analysisService:  services.NewAnalysisService(deps),
		transformService: services.NewTransformService(deps),
		batchService:     services.NewBatchService(deps),
		historyService:   services.NewHistoryService(deps),
	}
}

// AnalysisService returns the analysis service for use by background jobs
func (h *Handler) AnalysisService() *services.AnalysisService {
	return h.analysisService
}

// HistoryService returns the history service for use by background jobs
func (h *Handler) HistoryService() *services.HistoryService {
	return h.historyService
}
