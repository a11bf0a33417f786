// cache/freshness_cache_test.go
package cache_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishnheat/backend/cache"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "cache-test-logs")
	logger.InitLogger(dir)
	code := m.Run()
	logger.Sync()
	os.RemoveAll(dir)
	os.Exit(code)
}

func payload(urls ...string) []model.PhishingIncident {
	out := make([]model.PhishingIncident, len(urls))
	for i, u := range urls {
		out[i] = model.PhishingIncident{URL: u}
	}
	return out
}

func TestGetReturnsMissForUnknownKey(t *testing.T) {
	c := cache.NewFreshnessCache()

	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestPutThenGetRoundTrip(t *testing.T) {
	c := cache.NewFreshnessCache()
	fetchedAt := time.Now()

	c.Put("incidents", payload("http://a.example"), fetchedAt)

	ent, ok := c.Get("incidents")
	require.True(t, ok)
	assert.Equal(t, "http://a.example", ent.Payload[0].URL)
	assert.Equal(t, fetchedAt, ent.FetchedAt)
}

func TestIsFreshRespectsTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewFreshnessCache()
	c.SetNowFunc(func() time.Time { return now })

	c.Put("incidents", payload("http://a.example"), now.Add(-4*time.Minute))
	assert.True(t, c.IsFresh("incidents", 5*time.Minute))

	c.Put("incidents", payload("http://a.example"), now.Add(-6*time.Minute))
	assert.False(t, c.IsFresh("incidents", 5*time.Minute))

	assert.False(t, c.IsFresh("missing", 5*time.Minute))
}

func TestStaleEntryRemainsReadable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewFreshnessCache()
	c.SetNowFunc(func() time.Time { return now })

	c.Put("incidents", payload("http://old.example"), now.Add(-24*time.Hour))

	require.False(t, c.IsFresh("incidents", 5*time.Minute))
	ent, ok := c.Get("incidents")
	require.True(t, ok)
	assert.Equal(t, "http://old.example", ent.Payload[0].URL)
}

func TestClearSingleKeyAndAll(t *testing.T) {
	c := cache.NewFreshnessCache()
	c.Put("a", payload("http://a.example"), time.Now())
	c.Put("b", payload("http://b.example"), time.Now())

	c.Clear("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Clear("")
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestInfoReportsAgeAndItemCount(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := cache.NewFreshnessCache()
	c.SetNowFunc(func() time.Time { return now })

	c.Put("incidents", payload("http://a.example", "http://b.example"), now.Add(-2*time.Minute))

	info := c.Info()
	require.Contains(t, info, "incidents")
	assert.Equal(t, 2, info["incidents"].Items)
	assert.Equal(t, 2*time.Minute, info["incidents"].Age)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := cache.NewFreshnessCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put("incidents", payload("http://w.example"), time.Now())
		}()
		go func() {
			defer wg.Done()
			c.Get("incidents")
			c.IsFresh("incidents", time.Minute)
		}()
	}
	wg.Wait()

	_, ok := c.Get("incidents")
	assert.True(t, ok)
}
