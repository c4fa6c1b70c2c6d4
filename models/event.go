// api/models/event.go
package models

import "time"

// ViewEvent is one normalized page-view fact row from the analytics dataset.
// Rows are created fresh per request by the dataset loader and never mutated
// after filtering.
type ViewEvent struct {
	Date           string  `json:"date"` // ISO calendar day, "" when unparsable
	PageURL        string  `json:"page_url"`
	EmergencyName  string  `json:"emergency_name"`
	Country        string  `json:"country"` // resolved display name
	CountryISO     string  `json:"country_iso"`
	ViewerCity     string  `json:"viewer_city"`
	Views          int     `json:"views"`
	Downloads      int     `json:"downloads"`
	EngagementSecs float64 `json:"engagement_seconds"`
	IsActive       bool    `json:"is_active"`
	SessionSource  string  `json:"session_source"`
	Device         string  `json:"device"`
	Browser        string  `json:"browser"`
	OS             string  `json:"os"`
	NewOrReturning string  `json:"new_or_returning"`
	EmergencyID    int     `json:"emergency_id"` // 0 = no associated emergency
}

// Country is one reference-store country record.
type Country struct {
	Name     string
	ISO2     string
	ISO3     string
	RegionID int
}

// EventRelations carries the structured region/country links of one
// emergency, bulk-fetched from the reference store.
type EventRelations struct {
	ID           int
	Name         string
	IsActive     bool
	CreatedAt    time.Time
	RegionIDs    []int
	CountryISO2s []string
}
