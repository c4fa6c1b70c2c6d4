// api/models/report.go
package models

// AccessScope is the visibility tier a principal's capability set resolves
// to. Global subsumes everything; otherwise a non-empty Regions list
// restricts to those regions; otherwise Live restricts to currently-active
// emergencies only; otherwise nothing is visible.
type AccessScope struct {
	Global  bool     `json:"global"`
	Live    bool     `json:"live"`
	Regions []string `json:"regions"`
}

// RoleProfile is derived deterministically from an AccessScope and gates
// which report modules are visible.
type RoleProfile struct {
	Role            string `json:"role"` // global_im, regional_im, country_im, ops_im
	RealtimeEnabled bool   `json:"realtime_enabled"`
	HistoricalDepth string `json:"historical_depth"` // 30_days or multi_year
}

// ReportFilters echoes the caller-supplied request filters after
// normalization (malformed dates dropped, reversed date ranges swapped).
type ReportFilters struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	CmpMode   string `json:"cmp_mode,omitempty"`
	CmpLeft   string `json:"cmp_left,omitempty"`
	CmpRight  string `json:"cmp_right,omitempty"`
	CmpAStart string `json:"cmp_a_start,omitempty"`
	CmpAEnd   string `json:"cmp_a_end,omitempty"`
	CmpBStart string `json:"cmp_b_start,omitempty"`
	CmpBEnd   string `json:"cmp_b_end,omitempty"`
}

// Summary is the always-present roll-up attached to every report.
type Summary struct {
	TotalVisits  int        `json:"total_visits"`
	TopPages     []KeyViews `json:"top_pages"`
	TopCountries []KeyViews `json:"top_countries"`
}

// Report is the response envelope of GET /api/analytics.
type Report struct {
	ContractVersion  int            `json:"contract_version"`
	RequestID        string         `json:"request_id,omitempty"`
	RoleProfile      RoleProfile    `json:"role_profile"`
	Scope            AccessScope    `json:"scope"`
	FiltersApplied   ReportFilters  `json:"filters_applied"`
	AvailableModules []string       `json:"available_modules"`
	ModuleData       map[string]any `json:"module_data"`
	Summary          Summary        `json:"summary"`
}

// KeyViews is one grouped view count (page, country, device, ...).
type KeyViews struct {
	Key   string `json:"key"`
	Views int    `json:"views"`
}

// DateBucket is one point of a views-by-date series.
type DateBucket struct {
	Label string `json:"label"` // "2024-03-15" (day) or "2024-03" (month)
	Views int    `json:"views"`
}

// Overview is the headline roll-up module payload.
type Overview struct {
	TotalViews        int     `json:"total_views"`
	TotalDownloads    int     `json:"total_downloads"`
	AvgEngagementSecs float64 `json:"avg_engagement_seconds"`
	DistinctPages     int     `json:"distinct_pages"`
	DistinctCountries int     `json:"distinct_countries"`
	ActiveEmergencies int     `json:"active_emergencies"`
}

// CountryHeat is one map-heatmap cell.
type CountryHeat struct {
	ISO2  string `json:"iso2"`
	Name  string `json:"name"`
	Views int    `json:"views"`
}

// EventEngagement is one engagement-performance row, sorted by total views.
type EventEngagement struct {
	EmergencyID       int     `json:"emergency_id"`
	Name              string  `json:"name"`
	Views             int     `json:"views"`
	Downloads         int     `json:"downloads"`
	AvgEngagementSecs float64 `json:"avg_engagement_seconds"`
	ViewsLast30Days   int     `json:"views_last_30_days"`
}

// AudienceInsights breaks filtered views down by client attributes.
type AudienceInsights struct {
	Devices          []KeyViews `json:"devices"`
	Browsers         []KeyViews `json:"browsers"`
	OperatingSystems []KeyViews `json:"operating_systems"`
	Sources          []KeyViews `json:"sources"`
}

// LiveEmergency is one live-monitoring row for a currently-active emergency.
type LiveEmergency struct {
	EmergencyID int    `json:"emergency_id"`
	Name        string `json:"name"`
	LatestDate  string `json:"latest_date"`
	LatestViews int    `json:"latest_views"`
	TotalViews  int    `json:"total_views"`
	TopSource   string `json:"top_source"`
}

// Spike is one flagged anomaly in an emergency's daily view series.
type Spike struct {
	EmergencyID int     `json:"emergency_id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Views       int     `json:"views"`
	Baseline    float64 `json:"baseline"`
	ZScore      float64 `json:"z_score"`
}

// AdoptionMonth is one calendar month of platform-adoption counters.
type AdoptionMonth struct {
	Month               string `json:"month"` // "2024-03"
	ActiveUsers         int    `json:"active_users"`
	NewUsers            int    `json:"new_users"`
	ReturningUsers      int    `json:"returning_users"`
	PublishingCountries int    `json:"publishing_countries"`
	NewEmergencies      int    `json:"new_emergencies"`
}

// ComparisonCell is one entity x month-range cell of the engagement
// comparison matrix.
type ComparisonCell struct {
	Entity            string  `json:"entity"`
	PeriodStart       string  `json:"period_start"` // "2024-01"
	PeriodEnd         string  `json:"period_end"`
	Views             int     `json:"views"`
	AvgEngagementSecs float64 `json:"avg_engagement_seconds"`
}

// EngagementComparison holds the four cells of a two-entity, two-period
// comparison.
type EngagementComparison struct {
	Mode  string           `json:"mode"` // country or region
	Cells []ComparisonCell `json:"cells"`
}

// EventMetadata is one metadata-lookup row, sorted by total views.
type EventMetadata struct {
	EmergencyID       int     `json:"emergency_id"`
	Name              string  `json:"name"`
	LatestDate        string  `json:"latest_date"`
	LatestViews       int     `json:"latest_views"`
	LatestDownloads   int     `json:"latest_downloads"`
	AvgEngagementSecs float64 `json:"avg_engagement_seconds"`
	TopSource         string  `json:"top_source"`
	TopSourceShare    float64 `json:"top_source_share"`
	TotalViews        int     `json:"total_views"`
}
