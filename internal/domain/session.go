package domain

import "time"

// Device classes produced by the environment sniffer.
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// Sentinel values for failed network lookups.
const (
	UnknownIP      = "unknown"
	UnknownCountry = "Unknown"
)

// EnvSnapshot is the environment captured alongside analytics writes.
type EnvSnapshot struct {
	IP      string `json:"ip_address"`
	Country string `json:"country"`
	Device  string `json:"device"`
}

// SessionAggregate is the single running-counter record for a session.
// At most one row exists per session id; the environment snapshot and
// source are captured at first write and left untouched afterwards.
type SessionAggregate struct {
	SessionID       string      `json:"session_id"`
	Env             EnvSnapshot `json:"env"`
	Source          string      `json:"source,omitempty"`
	PageViews       int         `json:"page_views"`
	Clicks          int         `json:"clicks"`
	UniqueClicks    int         `json:"unique_clicks"`
	RelatedSearches int         `json:"related_searches"`
	ResultClicks    int         `json:"result_clicks"`
	TimeSpentSec    int         `json:"time_spent"`
	StartedAt       time.Time   `json:"started_at"`
}

// AnalyticsSummary aggregates counters across all sessions for the admin
// dashboard.
type AnalyticsSummary struct {
	Sessions        int `json:"sessions"`
	PageViews       int `json:"page_views"`
	Clicks          int `json:"clicks"`
	UniqueClicks    int `json:"unique_clicks"`
	RelatedSearches int `json:"related_searches"`
	ResultClicks    int `json:"result_clicks"`
}
