// test/mock/services.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/model"
)

// MockPhishingService is a mock implementation of service.IPhishingService
type MockPhishingService struct {
	mock.Mock
}

func (m *MockPhishingService) GetIncidents(ctx context.Context, limit, offset int, threatLevel string) ([]model.PhishingIncident, error) {
	args := m.Called(ctx, limit, offset, threatLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhishingIncident), args.Error(1)
}

func (m *MockPhishingService) GetFilteredIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.PhishingIncident, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhishingIncident), args.Error(1)
}

func (m *MockPhishingService) GetIncidentSnapshot(ctx context.Context) ([]model.PhishingIncident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhishingIncident), args.Error(1)
}

func (m *MockPhishingService) GetHeatmapData(ctx context.Context) (*model.HeatmapData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HeatmapData), args.Error(1)
}

func (m *MockPhishingService) GetThreatStatistics(ctx context.Context) (*model.ThreatStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThreatStatistics), args.Error(1)
}

func (m *MockPhishingService) RefreshIncidents(ctx context.Context) (*model.RefreshResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshResult), args.Error(1)
}

func (m *MockPhishingService) CacheInfo() map[string]cache.KeyInfo {
	args := m.Called()
	return args.Get(0).(map[string]cache.KeyInfo)
}

func (m *MockPhishingService) BudgetRemaining() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockPhishingService) StartRetention(ctx context.Context, days int, interval time.Duration) {
	m.Called(ctx, days, interval)
}

// MockAnalyticsService is a mock implementation of service.IAnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetThreatDistribution(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAnalyticsService) GetTopRegions(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RankedEntry), args.Error(1)
}

func (m *MockAnalyticsService) GetTopCompanies(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RankedEntry), args.Error(1)
}

func (m *MockAnalyticsService) GetTopISPs(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RankedEntry), args.Error(1)
}

func (m *MockAnalyticsService) GetThreatHotspots(ctx context.Context, limit int) ([]model.ThreatHotspot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ThreatHotspot), args.Error(1)
}

func (m *MockAnalyticsService) GetOverview(ctx context.Context) (*model.ThreatOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThreatOverview), args.Error(1)
}
