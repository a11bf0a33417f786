// controller/phishing_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phishnheat/backend/config"
	apperrors "github.com/phishnheat/backend/errors"
	"github.com/phishnheat/backend/model"
	"github.com/phishnheat/backend/service"
	"github.com/phishnheat/backend/util"
	helper_util "github.com/phishnheat/backend/util/helper"
)

type PhishingController struct {
	phishingService service.IPhishingService
	maxPageSize     int
}

func NewPhishingController(phishingService service.IPhishingService) *PhishingController {
	return &PhishingController{
		phishingService: phishingService,
		maxPageSize:     config.GetInt("api.maxIncidentsPerRequest"),
	}
}

// RegisterRoutes registers the API routes
func (pc *PhishingController) RegisterRoutes(r *gin.RouterGroup) {
	phishing := r.Group("/phishing")
	{
		phishing.GET("", pc.GetIncidents)
		phishing.GET("/heatmap", pc.GetHeatmap)
		phishing.GET("/filtered", pc.GetFilteredIncidents)
		phishing.GET("/stats", pc.GetStatistics)
		phishing.GET("/cache-info", pc.GetCacheInfo)
		phishing.POST("/refresh", pc.RefreshData)
	}
}

// GetIncidents endpoint
func (pc *PhishingController) GetIncidents(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c, pc.maxPageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}

	incidents, err := pc.phishingService.GetIncidents(c, limit, offset, c.Query("threat_level"))
	if err != nil {
		pc.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, incidents)
}

// GetHeatmap endpoint
func (pc *PhishingController) GetHeatmap(c *gin.Context) {
	heatmap, err := pc.phishingService.GetHeatmapData(c)
	if err != nil {
		pc.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, heatmap)
}

// GetFilteredIncidents endpoint
func (pc *PhishingController) GetFilteredIncidents(c *gin.Context) {
	var filter model.IncidentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid filter parameters", err)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c, pc.maxPageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	incidents, err := pc.phishingService.GetFilteredIncidents(c, filter)
	if err != nil {
		pc.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, incidents)
}

// GetStatistics endpoint
func (pc *PhishingController) GetStatistics(c *gin.Context) {
	stats, err := pc.phishingService.GetThreatStatistics(c)
	if err != nil {
		pc.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCacheInfo endpoint
func (pc *PhishingController) GetCacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache":            pc.phishingService.CacheInfo(),
		"budget_remaining": pc.phishingService.BudgetRemaining(),
	})
}

// RefreshData endpoint
func (pc *PhishingController) RefreshData(c *gin.Context) {
	result, err := pc.phishingService.RefreshIncidents(c)
	if err != nil {
		pc.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (pc *PhishingController) respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoDataAvailable):
		util.RespondWithError(c, http.StatusServiceUnavailable, "No phishing data available", err)
	case errors.Is(err, apperrors.ErrUpstreamQuotaExceeded):
		util.RespondWithError(c, http.StatusTooManyRequests, "Upstream call budget exhausted", err)
	case errors.Is(err, apperrors.ErrDatabaseOperation):
		util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve phishing data", apperrors.ErrInternalServer)
	}
}
