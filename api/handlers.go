// Package api exposes the query facade over HTTP. The routes map exactly
// onto the facade's operations: search, record info, record listing,
// corpus statistics, and reindex jobs.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinsearch/clinsearch/internal/engine"
	"github.com/clinsearch/clinsearch/internal/jobs"
)

// maxRequestBodySize limits search request bodies.
const maxRequestBodySize = 1 << 20 // 1 MiB

// API holds dependencies for API handlers: the query facade and the job
// manager driving async reindexing.
type API struct {
	engine *engine.Engine
	jobs   *jobs.Manager
	logger *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(eng *engine.Engine, jobManager *jobs.Manager, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{engine: eng, jobs: jobManager, logger: logger}
}

// SetupRoutes defines all the API routes for the search service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, jobManager *jobs.Manager, logger *zap.Logger) {
	apiHandler := NewAPI(eng, jobManager, logger)

	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware(logger))
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)

	apiRoutes := router.Group("/api")
	{
		apiRoutes.POST("/search", apiHandler.SearchHandler)
		apiRoutes.GET("/records", apiHandler.ListRecordsHandler)
		apiRoutes.GET("/records/:recordId", apiHandler.GetRecordHandler)
		apiRoutes.GET("/stats", apiHandler.StatsHandler)
		apiRoutes.GET("/analytics", apiHandler.AnalyticsHandler)
		apiRoutes.GET("/categories", apiHandler.ListCategoriesHandler)
		apiRoutes.POST("/reindex", apiHandler.ReindexHandler)
		apiRoutes.GET("/jobs/:jobId", apiHandler.GetJobHandler)
	}
}

// HealthCheckHandler reports service liveness and basic corpus counts.
func (api *API) HealthCheckHandler(c *gin.Context) {
	stats := api.engine.CorpusStats()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"total_records": stats.TotalRecords,
	})
}

// ListCategoriesHandler returns the lexicon's category names.
func (api *API) ListCategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": api.engine.Categories()})
}
