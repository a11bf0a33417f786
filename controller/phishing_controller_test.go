// controller/phishing_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phishnheat/backend/config"
	"github.com/phishnheat/backend/controller"
	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
	"github.com/phishnheat/backend/test/mock"
)

func TestMain(m *testing.M) {
	if err := config.InitConfig(); err != nil {
		panic(err)
	}
	dir, _ := os.MkdirTemp("", "controller-test-logs")
	logger.InitLogger(dir)
	gin.SetMode(gin.TestMode)
	code := m.Run()
	logger.Sync()
	os.RemoveAll(dir)
	os.Exit(code)
}

func setupPhishingRouter(svc *mock.MockPhishingService) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	controller.NewPhishingController(svc).RegisterRoutes(api)
	return r
}

func TestGetIncidents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetIncidents", tmock.Anything, 100, 0, "").
			Return([]model.PhishingIncident{{URL: "http://a.example", ThreatLevel: "high"}}, nil)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var incidents []model.PhishingIncident
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &incidents))
		require.Len(t, incidents, 1)
		assert.Equal(t, "http://a.example", incidents[0].URL)
		svc.AssertExpectations(t)
	})

	t.Run("WithThreatLevelAndPagination", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetIncidents", tmock.Anything, 25, 50, "critical").
			Return([]model.PhishingIncident{}, nil)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing?limit=25&offset=50&threat_level=critical", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing?limit=9999", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NegativeOffset", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing?offset=-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NoDataAvailable", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetIncidents", tmock.Anything, 100, 0, "").
			Return(nil, apperrors.ErrNoDataAvailable)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetFilteredIncidents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetFilteredIncidents", tmock.Anything, model.IncidentFilter{
			ThreatLevel: "high",
			Country:     "US",
			Limit:       100,
			Offset:      0,
		}).Return([]model.PhishingIncident{}, nil)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing/filtered?threat_level=high&country=US", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("QuotaExceeded", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetFilteredIncidents", tmock.Anything, tmock.Anything).
			Return(nil, apperrors.ErrUpstreamQuotaExceeded)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing/filtered", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestGetHeatmap(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetHeatmapData", tmock.Anything).
			Return(&model.HeatmapData{
				Coordinates:   [][]float64{{12.5, 42.1}},
				IncidentCount: 1,
			}, nil)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing/heatmap", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var heatmap model.HeatmapData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &heatmap))
		assert.Equal(t, 1, heatmap.IncidentCount)
	})

	t.Run("NoData", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("GetHeatmapData", tmock.Anything).
			Return(nil, apperrors.ErrNoDataAvailable)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/phishing/heatmap", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetStatistics(t *testing.T) {
	svc := new(mock.MockPhishingService)
	svc.On("GetThreatStatistics", tmock.Anything).
		Return(&model.ThreatStatistics{TotalIncidents: 42, HighCount: 10}, nil)
	router := setupPhishingRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/phishing/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats model.ThreatStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 42, stats.TotalIncidents)
}

func TestRefreshData(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("RefreshIncidents", tmock.Anything).
			Return(&model.RefreshResult{Status: "success", IncidentCount: 120}, nil)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/phishing/refresh", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var result model.RefreshResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "success", result.Status)
	})

	t.Run("NoData", func(t *testing.T) {
		svc := new(mock.MockPhishingService)
		svc.On("RefreshIncidents", tmock.Anything).
			Return(nil, apperrors.ErrNoDataAvailable)
		router := setupPhishingRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/phishing/refresh", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
