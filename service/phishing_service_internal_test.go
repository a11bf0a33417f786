// service/phishing_service_internal_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishnheat/backend/model"
)

func testIncidents() []model.PhishingIncident {
	return []model.PhishingIncident{
		{URL: "http://a.example", ThreatLevel: "high", Country: "US", Company: "Acme Bank", ISP: "EvilHost"},
		{URL: "http://b.example", ThreatLevel: "low", Country: "BR", Company: "Globex Corp", ISP: "ShadyNet"},
		{URL: "http://c.example", ThreatLevel: "high", Country: "US", Company: "Initech", ISP: "EvilHost"},
	}
}

func TestFilterIncidents(t *testing.T) {
	t.Run("ByThreatLevel", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{ThreatLevel: "high"})
		assert.Len(t, got, 2)
	})

	t.Run("ByCountryCaseInsensitive", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{Country: "us"})
		assert.Len(t, got, 2)
	})

	t.Run("ByCompanySubstring", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{Company: "globex"})
		require.Len(t, got, 1)
		assert.Equal(t, "http://b.example", got[0].URL)
	})

	t.Run("ByISPSubstring", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{ISP: "evil"})
		assert.Len(t, got, 2)
	})

	t.Run("CombinedFilters", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{ThreatLevel: "high", Company: "acme"})
		require.Len(t, got, 1)
		assert.Equal(t, "http://a.example", got[0].URL)
	})

	t.Run("NoMatch", func(t *testing.T) {
		got := filterIncidents(testIncidents(), model.IncidentFilter{Country: "JP"})
		assert.Empty(t, got)
	})
}

func TestPaginate(t *testing.T) {
	incidents := testIncidents()

	t.Run("LimitOnly", func(t *testing.T) {
		got := paginate(incidents, 2, 0)
		require.Len(t, got, 2)
		assert.Equal(t, "http://a.example", got[0].URL)
	})

	t.Run("Offset", func(t *testing.T) {
		got := paginate(incidents, 10, 1)
		require.Len(t, got, 2)
		assert.Equal(t, "http://b.example", got[0].URL)
	})

	t.Run("OffsetPastEnd", func(t *testing.T) {
		got := paginate(incidents, 10, 99)
		assert.Empty(t, got)
	})

	t.Run("ZeroLimitMeansNoLimit", func(t *testing.T) {
		got := paginate(incidents, 0, 0)
		assert.Len(t, got, 3)
	})
}

func TestTopCounts(t *testing.T) {
	incidents := []model.PhishingIncident{
		{Country: "US"}, {Country: "US"}, {Country: "US"},
		{Country: "BR"}, {Country: "BR"},
		{Country: "DE"}, {Country: "AT"},
		{Country: ""},
	}

	got := topCounts(incidents, func(i model.PhishingIncident) string { return i.Country }, 3)
	require.Len(t, got, 3)
	assert.Equal(t, model.RankedEntry{Name: "US", Count: 3}, got[0])
	assert.Equal(t, model.RankedEntry{Name: "BR", Count: 2}, got[1])
	// Equal counts break ties alphabetically.
	assert.Equal(t, model.RankedEntry{Name: "AT", Count: 1}, got[2])
}
