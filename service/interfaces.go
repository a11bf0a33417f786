// service/interfaces.go
package service

import (
	"context"
	"time"

	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/model"
)

// IPhishingService serves phishing incident data backed by the upstream feed.
type IPhishingService interface {
	GetIncidents(ctx context.Context, limit, offset int, threatLevel string) ([]model.PhishingIncident, error)
	GetFilteredIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.PhishingIncident, error)
	GetIncidentSnapshot(ctx context.Context) ([]model.PhishingIncident, error)
	GetHeatmapData(ctx context.Context) (*model.HeatmapData, error)
	GetThreatStatistics(ctx context.Context) (*model.ThreatStatistics, error)
	RefreshIncidents(ctx context.Context) (*model.RefreshResult, error)
	CacheInfo() map[string]cache.KeyInfo
	BudgetRemaining() int
	StartRetention(ctx context.Context, days int, interval time.Duration)
}

// IAnalyticsService computes aggregations over the current incident snapshot.
type IAnalyticsService interface {
	GetThreatDistribution(ctx context.Context) (map[string]int, error)
	GetTopRegions(ctx context.Context, limit int) ([]model.RankedEntry, error)
	GetTopCompanies(ctx context.Context, limit int) ([]model.RankedEntry, error)
	GetTopISPs(ctx context.Context, limit int) ([]model.RankedEntry, error)
	GetThreatHotspots(ctx context.Context, limit int) ([]model.ThreatHotspot, error)
	GetOverview(ctx context.Context) (*model.ThreatOverview, error)
}
