// controller/analytics_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/phishnheat/backend/errors"
	"github.com/phishnheat/backend/service"
	"github.com/phishnheat/backend/util"
	helper_util "github.com/phishnheat/backend/util/helper"
)

type AnalyticsController struct {
	analyticsService service.IAnalyticsService
}

func NewAnalyticsController(analyticsService service.IAnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AnalyticsController) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/overview", ac.GetOverview)
		analytics.GET("/threat-distribution", ac.GetThreatDistribution)
		analytics.GET("/top-regions", ac.GetTopRegions)
		analytics.GET("/top-companies", ac.GetTopCompanies)
		analytics.GET("/isp-rankings", ac.GetISPRankings)
		analytics.GET("/threat-hotspots", ac.GetThreatHotspots)
		analytics.GET("/health", ac.Health)
	}
}

// GetOverview endpoint
func (ac *AnalyticsController) GetOverview(c *gin.Context) {
	overview, err := ac.analyticsService.GetOverview(c)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetThreatDistribution endpoint
func (ac *AnalyticsController) GetThreatDistribution(c *gin.Context) {
	dist, err := ac.analyticsService.GetThreatDistribution(c)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threat_distribution": dist})
}

// GetTopRegions endpoint
func (ac *AnalyticsController) GetTopRegions(c *gin.Context) {
	limit, err := helper_util.GetLimitParam(c, 10, 100)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter", apperrors.ErrInvalidPagination)
		return
	}

	regions, err := ac.analyticsService.GetTopRegions(c, limit)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_regions": regions})
}

// GetTopCompanies endpoint
func (ac *AnalyticsController) GetTopCompanies(c *gin.Context) {
	limit, err := helper_util.GetLimitParam(c, 10, 100)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter", apperrors.ErrInvalidPagination)
		return
	}

	companies, err := ac.analyticsService.GetTopCompanies(c, limit)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_companies": companies})
}

// GetISPRankings endpoint
func (ac *AnalyticsController) GetISPRankings(c *gin.Context) {
	limit, err := helper_util.GetLimitParam(c, 10, 100)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter", apperrors.ErrInvalidPagination)
		return
	}

	isps, err := ac.analyticsService.GetTopISPs(c, limit)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isp_rankings": isps})
}

// GetThreatHotspots endpoint
func (ac *AnalyticsController) GetThreatHotspots(c *gin.Context) {
	limit, err := helper_util.GetLimitParam(c, 10, 100)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter", apperrors.ErrInvalidPagination)
		return
	}

	hotspots, err := ac.analyticsService.GetThreatHotspots(c, limit)
	if err != nil {
		ac.respondFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threat_hotspots": hotspots})
}

// Health endpoint
func (ac *AnalyticsController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "analytics"})
}

func (ac *AnalyticsController) respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoDataAvailable):
		util.RespondWithError(c, http.StatusServiceUnavailable, "No phishing data available", err)
	case errors.Is(err, apperrors.ErrUpstreamQuotaExceeded):
		util.RespondWithError(c, http.StatusTooManyRequests, "Upstream call budget exhausted", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute analytics", apperrors.ErrInternalServer)
	}
}
