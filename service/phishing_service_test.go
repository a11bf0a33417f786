// service/phishing_service_test.go
package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/phishnheat/backend/audit"
	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/dao"
	apperrors "github.com/phishnheat/backend/errors"
	"github.com/phishnheat/backend/fetch"
	"github.com/phishnheat/backend/model"
	"github.com/phishnheat/backend/service"
	"github.com/phishnheat/backend/util"
)

// stubSource scripts upstream responses for end-to-end service tests.
type stubSource struct {
	mu      sync.Mutex
	calls   int
	respond func(call int) ([]model.PhishingIncident, error)
}

func (s *stubSource) Call(ctx context.Context) ([]model.PhishingIncident, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	return s.respond(call)
}

type serviceFixture struct {
	phishing service.IPhishingService
	dao      *dao.IncidentDAO
	cache    *cache.FreshnessCache
}

func newServiceFixture(t *testing.T, src *stubSource, ttl time.Duration) *serviceFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.PhishingIncident{}, &model.CacheMetadata{}))

	freshCache := cache.NewFreshnessCache()
	budget := fetch.NewBudget(20, time.Minute)
	coordinator := fetch.NewCoordinator(src, util.NewValidationUtil(), freshCache, budget, fetch.Options{
		TTL:          ttl,
		RetryCount:   1,
		RetryBackoff: time.Millisecond,
	})

	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eventBus.Start(ctx)

	services, err := service.InitializeServices(
		gdb,
		coordinator,
		freshCache,
		budget,
		audit.NewNopService(),
		util.NewNotificationService(),
		eventBus,
	)
	require.NoError(t, err)

	return &serviceFixture{
		phishing: services.Phishing,
		dao:      dao.NewIncidentDAO(gdb),
		cache:    freshCache,
	}
}

func upstreamPayload() []model.PhishingIncident {
	return []model.PhishingIncident{
		{URL: "http://a.example", ThreatLevel: "high", Country: "US", Company: "Acme Bank"},
		{URL: "http://b.example", ThreatLevel: "LOW", Country: "BR"},
	}
}

func TestGetIncidentsFetchesAndPersists(t *testing.T) {
	src := &stubSource{respond: func(int) ([]model.PhishingIncident, error) {
		return upstreamPayload(), nil
	}}
	f := newServiceFixture(t, src, time.Minute)

	got, err := f.phishing.GetIncidents(context.Background(), 100, 0, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ThreatLow, got[1].ThreatLevel, "feed levels are normalized")

	// Persistence runs via the event bus, so it lands shortly after.
	assert.Eventually(t, func() bool {
		count, err := f.dao.CountIncidents(context.Background(), model.IncidentFilter{})
		return err == nil && count == 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestGetIncidentsFiltersByThreatLevel(t *testing.T) {
	src := &stubSource{respond: func(int) ([]model.PhishingIncident, error) {
		return upstreamPayload(), nil
	}}
	f := newServiceFixture(t, src, time.Minute)

	got, err := f.phishing.GetIncidents(context.Background(), 100, 0, "HIGH")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "http://a.example", got[0].URL)
}

func TestRefreshIncidentsReportsStaleOnUpstreamFailure(t *testing.T) {
	src := &stubSource{respond: func(call int) ([]model.PhishingIncident, error) {
		if call == 0 {
			return upstreamPayload(), nil
		}
		return nil, apperrors.ErrUpstreamUnavailable
	}}
	f := newServiceFixture(t, src, time.Minute)

	// Seed the cache with one good fetch.
	_, err := f.phishing.GetIncidents(context.Background(), 100, 0, "")
	require.NoError(t, err)

	result, err := f.phishing.RefreshIncidents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stale", result.Status)
	assert.Equal(t, 2, result.IncidentCount)
}

func TestRefreshIncidentsSucceedsAndReportsCount(t *testing.T) {
	src := &stubSource{respond: func(int) ([]model.PhishingIncident, error) {
		return upstreamPayload(), nil
	}}
	f := newServiceFixture(t, src, time.Minute)

	result, err := f.phishing.RefreshIncidents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 2, result.IncidentCount)
}

func TestGetIncidentsNoDataAvailable(t *testing.T) {
	src := &stubSource{respond: func(int) ([]model.PhishingIncident, error) {
		return nil, apperrors.ErrUpstreamUnavailable
	}}
	f := newServiceFixture(t, src, time.Minute)

	_, err := f.phishing.GetIncidents(context.Background(), 100, 0, "")
	assert.ErrorIs(t, err, apperrors.ErrNoDataAvailable)
}

func TestServiceRestoresSnapshotFromDatabase(t *testing.T) {
	src := &stubSource{respond: func(int) ([]model.PhishingIncident, error) {
		return nil, apperrors.ErrUpstreamUnavailable
	}}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.PhishingIncident{}, &model.CacheMetadata{}))

	// Simulate a previous run's persisted snapshot.
	incidentDAO := dao.NewIncidentDAO(gdb)
	require.NoError(t, incidentDAO.SaveIncidents(context.Background(), service.PhishingSourceKey, upstreamPayload()))

	freshCache := cache.NewFreshnessCache()
	budget := fetch.NewBudget(20, time.Minute)
	coordinator := fetch.NewCoordinator(src, util.NewValidationUtil(), freshCache, budget, fetch.Options{
		TTL:          time.Nanosecond, // force the cache stale immediately
		RetryCount:   1,
		RetryBackoff: time.Millisecond,
	})
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eventBus.Start(ctx)

	services, err := service.InitializeServices(
		gdb, coordinator, freshCache, budget,
		audit.NewNopService(), util.NewNotificationService(), eventBus,
	)
	require.NoError(t, err)

	// Upstream is down, but the restored snapshot backs the stale fallback.
	got, err := services.Phishing.GetIncidents(context.Background(), 100, 0, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
