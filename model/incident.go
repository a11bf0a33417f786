// model/incident.go
package model

import (
	"time"
)

// Threat levels recognized by the PhishStats feed. Anything else is
// normalized to ThreatUnknown during validation.
const (
	ThreatLow      = "low"
	ThreatMedium   = "medium"
	ThreatHigh     = "high"
	ThreatCritical = "critical"
	ThreatUnknown  = "unknown"
)

// PhishingIncident is a single phishing incident from the PhishStats API.
type PhishingIncident struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	URL         string     `json:"url" validate:"required,min=1" gorm:"not null"`
	Latitude    float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64    `json:"longitude" validate:"gte=-180,lte=180"`
	ThreatLevel string     `json:"threat_level" validate:"oneof=low medium high critical unknown" gorm:"default:unknown"`
	Company     string     `json:"company,omitempty"`
	Country     string     `json:"country,omitempty"`
	ISP         string     `json:"isp,omitempty"`
	DetectedAt  *time.Time `json:"detected_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// TableName maps the incident model to the historical table.
func (PhishingIncident) TableName() string {
	return "phishing_incidents"
}

// IncidentFilter carries the query parameters of the filtered endpoints.
type IncidentFilter struct {
	ThreatLevel string `json:"threat_level,omitempty" form:"threat_level"`
	Company     string `json:"company,omitempty" form:"company"`
	Country     string `json:"country,omitempty" form:"country"`
	ISP         string `json:"isp,omitempty" form:"isp"`
	Limit       int    `json:"limit" form:"limit"`
	Offset      int    `json:"offset" form:"offset"`
}

// HeatmapData is the response shape of the heatmap endpoint. Coordinates are
// [lat, lon] pairs the frontend feeds straight into the map layer.
type HeatmapData struct {
	Coordinates   [][]float64 `json:"coordinates"`
	IncidentCount int         `json:"incident_count"`
	LastUpdated   time.Time   `json:"last_updated"`
}

// ThreatStatistics aggregates counts for the stats endpoint.
type ThreatStatistics struct {
	TotalIncidents       int       `json:"total_incidents"`
	CriticalCount        int       `json:"critical_count"`
	HighCount            int       `json:"high_count"`
	MediumCount          int       `json:"medium_count"`
	LowCount             int       `json:"low_count"`
	TopTargetedCompanies []string  `json:"top_targeted_companies"`
	MostActiveCountries  []string  `json:"most_active_countries"`
	LastUpdated          time.Time `json:"last_updated"`
}

// ThreatHotspot is one region with its per-level incident breakdown.
type ThreatHotspot struct {
	Country        string `json:"country"`
	TotalIncidents int    `json:"total_incidents"`
	Critical       int    `json:"critical"`
	High           int    `json:"high"`
	Medium         int    `json:"medium"`
	Low            int    `json:"low"`
}

// RankedEntry is a [name, count] pair used by the ranking endpoints.
type RankedEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ThreatOverview is the combined analytics dashboard payload.
type ThreatOverview struct {
	TotalIncidents     int             `json:"total_incidents"`
	ThreatDistribution map[string]int  `json:"threat_distribution"`
	TopRegions         []RankedEntry   `json:"top_regions"`
	TopCompanies       []RankedEntry   `json:"top_companies"`
	TopISPs            []RankedEntry   `json:"top_isps"`
	Hotspots           []ThreatHotspot `json:"hotspots"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// RefreshResult reports the outcome of a forced refresh.
type RefreshResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	IncidentCount int    `json:"incident_count"`
}

// CacheMetadata tracks API call patterns per upstream source.
type CacheMetadata struct {
	APISource     string    `json:"api_source" gorm:"primaryKey"`
	LastFetch     time.Time `json:"last_fetch"`
	IncidentCount int       `json:"incident_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName maps the metadata model to its table.
func (CacheMetadata) TableName() string {
	return "cache_metadata"
}
