// service/phishing_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phishnheat/backend/audit"
	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/dao"
	"github.com/phishnheat/backend/fetch"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
	"github.com/phishnheat/backend/util"
)

// PhishingSourceKey is the cache key for the PhishStats feed.
const PhishingSourceKey = "phishing_incidents"

// PhishingService handles business logic for incident queries. All reads go
// through the fetch coordinator, which decides between cached and upstream
// data; the service layers filtering, aggregation, persistence and events on
// top of the returned snapshot.
type PhishingService struct {
	coordinator     *fetch.Coordinator
	cache           *cache.FreshnessCache
	budget          *fetch.Budget
	incidentDAO     *dao.IncidentDAO
	auditService    audit.Service
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus

	mu           sync.Mutex
	lastSnapshot time.Time
}

// NewPhishingService creates a new instance of PhishingService
func NewPhishingService(
	coordinator *fetch.Coordinator,
	freshCache *cache.FreshnessCache,
	budget *fetch.Budget,
	incidentDAO *dao.IncidentDAO,
	auditService audit.Service,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *PhishingService {
	service := &PhishingService{
		coordinator:     coordinator,
		cache:           freshCache,
		budget:          budget,
		incidentDAO:     incidentDAO,
		auditService:    auditService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe(util.EventIncidentsRefreshed, service.handleIncidentsRefreshed)
	eventBus.Subscribe(util.EventIncidentsRefreshFailed, service.handleRefreshFailed)

	service.restoreFromDatabase(context.Background())

	return service
}

// restoreFromDatabase seeds the cache with the last persisted snapshot so a
// restart can serve data before the first upstream call, and keep serving it
// if that call fails. The entry keeps its original fetch time, so it is
// stale and the next read still tries the upstream.
func (s *PhishingService) restoreFromDatabase(ctx context.Context) {
	meta, err := s.incidentDAO.GetCacheMetadata(ctx, PhishingSourceKey)
	if err != nil || meta == nil {
		return
	}
	incidents, err := s.incidentDAO.GetIncidents(ctx, model.IncidentFilter{})
	if err != nil || len(incidents) == 0 {
		return
	}
	s.cache.Put(PhishingSourceKey, incidents, meta.LastFetch)
	s.mu.Lock()
	s.lastSnapshot = meta.LastFetch
	s.mu.Unlock()
	logger.Info("Restored incident snapshot from database",
		zap.Int("count", len(incidents)),
		zap.Time("lastFetch", meta.LastFetch))
}

// refreshedEvent and refreshFailedEvent are the payloads of the refresh
// events on the bus.
type refreshedEvent struct {
	incidents []model.PhishingIncident
	forced    bool
}

type refreshFailedEvent struct {
	cause  error
	forced bool
}

func (s *PhishingService) handleIncidentsRefreshed(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(refreshedEvent)
	if !ok {
		return errors.New("unexpected payload for incidents refreshed event")
	}
	logger.Info("Incidents refreshed event received", zap.Int("count", len(payload.incidents)))

	if err := s.incidentDAO.SaveIncidents(ctx, PhishingSourceKey, payload.incidents); err != nil {
		logger.Error("Failed to persist refreshed incidents", zap.Error(err))
	}

	if err := s.auditService.LogRefresh(ctx, audit.RefreshLog{
		Source:        PhishingSourceKey,
		Action:        audit.ActionRefresh,
		Outcome:       "success",
		IncidentCount: len(payload.incidents),
		Forced:        payload.forced,
	}); err != nil {
		logger.Warn("Failed to record refresh in audit trail", zap.Error(err))
	}

	return s.notificationSvc.NotifyRefreshSucceeded(ctx, PhishingSourceKey, len(payload.incidents))
}

func (s *PhishingService) handleRefreshFailed(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(refreshFailedEvent)
	if !ok {
		return errors.New("unexpected payload for refresh failed event")
	}

	action := audit.ActionFallback
	if _, cached := s.cache.Get(PhishingSourceKey); !cached {
		action = audit.ActionMiss
	}
	if err := s.auditService.LogRefresh(ctx, audit.RefreshLog{
		Source:  PhishingSourceKey,
		Action:  action,
		Outcome: "failure",
		Forced:  payload.forced,
		Error:   payload.cause.Error(),
	}); err != nil {
		logger.Warn("Failed to record refresh failure in audit trail", zap.Error(err))
	}

	return s.notificationSvc.NotifyRefreshFailed(ctx, PhishingSourceKey, payload.cause)
}

// fetchSnapshot runs one coordinated fetch and publishes a refreshed event
// when the snapshot actually advanced. Joined and cache-served reads see the
// same timestamp and stay silent, so one refresh produces one event.
func (s *PhishingService) fetchSnapshot(ctx context.Context, force bool) ([]model.PhishingIncident, error) {
	// Event handlers run after the request may have completed, so they get a
	// context detached from the request's cancellation.
	evctx := context.WithoutCancel(ctx)

	incidents, err := s.coordinator.Fetch(ctx, PhishingSourceKey, force)
	if err != nil {
		s.eventBus.Publish(evctx, util.EventIncidentsRefreshFailed, refreshFailedEvent{cause: err, forced: force})
		return nil, err
	}

	if ent, ok := s.cache.Get(PhishingSourceKey); ok {
		s.mu.Lock()
		advanced := ent.FetchedAt.After(s.lastSnapshot)
		if advanced {
			s.lastSnapshot = ent.FetchedAt
		}
		s.mu.Unlock()
		if advanced {
			s.eventBus.Publish(evctx, util.EventIncidentsRefreshed, refreshedEvent{incidents: incidents, forced: force})
		} else if force {
			// A forced refresh that did not advance the snapshot fell back
			// to stale data.
			s.eventBus.Publish(evctx, util.EventIncidentsRefreshFailed, refreshFailedEvent{
				cause:  errors.New("forced refresh served stale data"),
				forced: true,
			})
		}
	}

	return incidents, nil
}

// GetIncidents returns a page of the current snapshot, optionally filtered by
// threat level.
func (s *PhishingService) GetIncidents(ctx context.Context, limit, offset int, threatLevel string) ([]model.PhishingIncident, error) {
	incidents, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	if threatLevel != "" {
		incidents = filterIncidents(incidents, model.IncidentFilter{ThreatLevel: strings.ToLower(threatLevel)})
	}
	return paginate(incidents, limit, offset), nil
}

// GetFilteredIncidents applies the full filter set to the current snapshot.
func (s *PhishingService) GetFilteredIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.PhishingIncident, error) {
	incidents, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}
	return paginate(filterIncidents(incidents, filter), filter.Limit, filter.Offset), nil
}

// GetIncidentSnapshot returns the whole current snapshot. Analytics builds
// its aggregations from this.
func (s *PhishingService) GetIncidentSnapshot(ctx context.Context) ([]model.PhishingIncident, error) {
	return s.fetchSnapshot(ctx, false)
}

// GetHeatmapData projects the snapshot onto map coordinates.
func (s *PhishingService) GetHeatmapData(ctx context.Context) (*model.HeatmapData, error) {
	incidents, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	coords := make([][]float64, 0, len(incidents))
	for _, inc := range incidents {
		if inc.Latitude == 0 && inc.Longitude == 0 {
			continue
		}
		coords = append(coords, []float64{inc.Latitude, inc.Longitude})
	}

	return &model.HeatmapData{
		Coordinates:   coords,
		IncidentCount: len(incidents),
		LastUpdated:   s.snapshotTime(),
	}, nil
}

// GetThreatStatistics aggregates per-level counts and top targets.
func (s *PhishingService) GetThreatStatistics(ctx context.Context) (*model.ThreatStatistics, error) {
	incidents, err := s.fetchSnapshot(ctx, false)
	if err != nil {
		return nil, err
	}

	stats := &model.ThreatStatistics{
		TotalIncidents: len(incidents),
		LastUpdated:    s.snapshotTime(),
	}
	for _, inc := range incidents {
		switch inc.ThreatLevel {
		case model.ThreatCritical:
			stats.CriticalCount++
		case model.ThreatHigh:
			stats.HighCount++
		case model.ThreatMedium:
			stats.MediumCount++
		case model.ThreatLow:
			stats.LowCount++
		}
	}

	for _, entry := range topCounts(incidents, func(i model.PhishingIncident) string { return i.Company }, 5) {
		stats.TopTargetedCompanies = append(stats.TopTargetedCompanies, entry.Name)
	}
	for _, entry := range topCounts(incidents, func(i model.PhishingIncident) string { return i.Country }, 5) {
		stats.MostActiveCountries = append(stats.MostActiveCountries, entry.Name)
	}

	return stats, nil
}

// RefreshIncidents forces an upstream refresh, bypassing the freshness check.
func (s *PhishingService) RefreshIncidents(ctx context.Context) (*model.RefreshResult, error) {
	before := s.snapshotTime()
	incidents, err := s.fetchSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}

	result := &model.RefreshResult{
		Status:        "success",
		Message:       "Data refreshed successfully",
		IncidentCount: len(incidents),
	}
	if !s.snapshotTime().After(before) {
		result.Status = "stale"
		result.Message = "Upstream unavailable, serving last known data"
	}
	return result, nil
}

// CacheInfo exposes per-key cache ages for the info endpoint.
func (s *PhishingService) CacheInfo() map[string]cache.KeyInfo {
	return s.cache.Info()
}

// BudgetRemaining reports how many upstream calls remain in the current
// window.
func (s *PhishingService) BudgetRemaining() int {
	return s.budget.Remaining()
}

// StartRetention periodically deletes incidents older than the retention
// horizon from the database. Runs until ctx is cancelled.
func (s *PhishingService) StartRetention(ctx context.Context, days int, interval time.Duration) {
	if days <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.incidentDAO.DeleteOlderThan(ctx, days); err != nil {
					logger.Error("Retention cleanup failed", zap.Error(err))
					continue
				}
				remaining, err := s.incidentDAO.CountIncidents(ctx, model.IncidentFilter{})
				if err == nil {
					logger.Info("Retention cleanup completed", zap.Int64("storedIncidents", remaining))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *PhishingService) snapshotTime() time.Time {
	if ent, ok := s.cache.Get(PhishingSourceKey); ok {
		return ent.FetchedAt
	}
	return time.Time{}
}

func filterIncidents(incidents []model.PhishingIncident, filter model.IncidentFilter) []model.PhishingIncident {
	out := make([]model.PhishingIncident, 0, len(incidents))
	for _, inc := range incidents {
		if filter.ThreatLevel != "" && !strings.EqualFold(inc.ThreatLevel, filter.ThreatLevel) {
			continue
		}
		if filter.Company != "" && !strings.Contains(strings.ToLower(inc.Company), strings.ToLower(filter.Company)) {
			continue
		}
		if filter.Country != "" && !strings.EqualFold(inc.Country, filter.Country) {
			continue
		}
		if filter.ISP != "" && !strings.Contains(strings.ToLower(inc.ISP), strings.ToLower(filter.ISP)) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func paginate(incidents []model.PhishingIncident, limit, offset int) []model.PhishingIncident {
	if offset >= len(incidents) {
		return []model.PhishingIncident{}
	}
	incidents = incidents[offset:]
	if limit > 0 && limit < len(incidents) {
		incidents = incidents[:limit]
	}
	return incidents
}

// topCounts ranks incidents by a grouping key, skipping empty values. Ties
// break alphabetically so rankings are stable across calls.
func topCounts(incidents []model.PhishingIncident, keyOf func(model.PhishingIncident) string, limit int) []model.RankedEntry {
	counts := make(map[string]int)
	for _, inc := range incidents {
		if key := keyOf(inc); key != "" {
			counts[key]++
		}
	}

	entries := make([]model.RankedEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, model.RankedEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
