// service/analytics_service.go
package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/phishnheat/backend/model"
)

// AnalyticsService computes dashboard aggregations from the incident
// snapshot. It owns no data; every method starts from whatever the phishing
// service currently serves.
type AnalyticsService struct {
	phishingService IPhishingService
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(phishingService IPhishingService) *AnalyticsService {
	return &AnalyticsService{phishingService: phishingService}
}

// GetThreatDistribution counts incidents per threat level.
func (s *AnalyticsService) GetThreatDistribution(ctx context.Context) (map[string]int, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	dist := map[string]int{
		model.ThreatLow:      0,
		model.ThreatMedium:   0,
		model.ThreatHigh:     0,
		model.ThreatCritical: 0,
		model.ThreatUnknown:  0,
	}
	for _, inc := range incidents {
		dist[inc.ThreatLevel]++
	}
	return dist, nil
}

// GetTopRegions ranks countries by incident count.
func (s *AnalyticsService) GetTopRegions(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return topCounts(incidents, func(i model.PhishingIncident) string { return i.Country }, limit), nil
}

// GetTopCompanies ranks targeted companies by incident count.
func (s *AnalyticsService) GetTopCompanies(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return topCounts(incidents, func(i model.PhishingIncident) string { return i.Company }, limit), nil
}

// GetTopISPs ranks hosting ISPs by incident count.
func (s *AnalyticsService) GetTopISPs(ctx context.Context, limit int) ([]model.RankedEntry, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return topCounts(incidents, func(i model.PhishingIncident) string { return i.ISP }, limit), nil
}

// GetThreatHotspots breaks down incident counts per country and threat
// level.
func (s *AnalyticsService) GetThreatHotspots(ctx context.Context, limit int) ([]model.ThreatHotspot, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	byCountry := make(map[string]*model.ThreatHotspot)
	for _, inc := range incidents {
		if inc.Country == "" {
			continue
		}
		spot, ok := byCountry[inc.Country]
		if !ok {
			spot = &model.ThreatHotspot{Country: inc.Country}
			byCountry[inc.Country] = spot
		}
		spot.TotalIncidents++
		switch inc.ThreatLevel {
		case model.ThreatCritical:
			spot.Critical++
		case model.ThreatHigh:
			spot.High++
		case model.ThreatMedium:
			spot.Medium++
		case model.ThreatLow:
			spot.Low++
		}
	}

	hotspots := make([]model.ThreatHotspot, 0, len(byCountry))
	for _, spot := range byCountry {
		hotspots = append(hotspots, *spot)
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].TotalIncidents != hotspots[j].TotalIncidents {
			return hotspots[i].TotalIncidents > hotspots[j].TotalIncidents
		}
		return hotspots[i].Country < hotspots[j].Country
	})

	if limit > 0 && limit < len(hotspots) {
		hotspots = hotspots[:limit]
	}
	return hotspots, nil
}

// GetOverview assembles the combined dashboard payload. The aggregations run
// concurrently; the snapshot fetch is collapsed by the coordinator so the
// fan-out costs no extra upstream calls.
func (s *AnalyticsService) GetOverview(ctx context.Context) (*model.ThreatOverview, error) {
	incidents, err := s.phishingService.GetIncidentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	overview := &model.ThreatOverview{
		TotalIncidents: len(incidents),
	}
	if info, ok := s.phishingService.CacheInfo()[PhishingSourceKey]; ok {
		overview.LastUpdated = info.FetchedAt
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dist, err := s.GetThreatDistribution(gctx)
		if err == nil {
			overview.ThreatDistribution = dist
		}
		return err
	})
	g.Go(func() error {
		regions, err := s.GetTopRegions(gctx, 10)
		if err == nil {
			overview.TopRegions = regions
		}
		return err
	})
	g.Go(func() error {
		companies, err := s.GetTopCompanies(gctx, 10)
		if err == nil {
			overview.TopCompanies = companies
		}
		return err
	})
	g.Go(func() error {
		isps, err := s.GetTopISPs(gctx, 10)
		if err == nil {
			overview.TopISPs = isps
		}
		return err
	})
	g.Go(func() error {
		hotspots, err := s.GetThreatHotspots(gctx, 10)
		if err == nil {
			overview.Hotspots = hotspots
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return overview, nil
}
