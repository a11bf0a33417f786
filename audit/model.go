// audit/model.go
package audit

import "time"

// Actions recorded in the refresh trail.
const (
	ActionRefresh  = "refresh"
	ActionFallback = "fallback"
	ActionMiss     = "miss"
)

// RefreshLog records one upstream refresh attempt and its outcome.
type RefreshLog struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
	Action        string    `json:"action"`
	Outcome       string    `json:"outcome"`
	IncidentCount int       `json:"incident_count"`
	Forced        bool      `json:"forced"`
	Error         string    `json:"error,omitempty"`
}
