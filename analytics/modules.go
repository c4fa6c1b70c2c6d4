// api/analytics/modules.go
package analytics

import "goplatform/api/models"

// Module keys of the static registry.
const (
	ModuleOverview              = "overview"
	ModuleViewsByDate           = "views_by_date"
	ModuleTopPages              = "top_pages"
	ModuleTopCountries          = "top_countries"
	ModuleLiveMonitoring        = "live_monitoring"
	ModuleMapHeatmap            = "map_heatmap"
	ModuleEngagementPerformance = "engagement_performance"
	ModuleAudienceInsights      = "audience_insights"
	ModuleLiveSpikes            = "live_spikes"
	ModulePlatformAdoption      = "platform_adoption"
	ModuleEngagementComparison  = "engagement_comparison"
	ModuleMetadataLookup        = "metadata_lookup"
)

// Module is one registry entry; the registry is fixed at process start.
type Module struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	AllowedRoles []string `json:"-"`
}

var allRoles = []string{RoleRegional, RoleOps, RoleGlobal, RoleCountry}
var nonOpsRoles = []string{RoleRegional, RoleGlobal, RoleCountry}

var moduleRegistry = []Module{
	{Key: ModuleOverview, Label: "Overview", AllowedRoles: allRoles},
	{Key: ModuleViewsByDate, Label: "Views by date", AllowedRoles: allRoles},
	{Key: ModuleMapHeatmap, Label: "Map", AllowedRoles: allRoles},
	{Key: ModuleEngagementPerformance, Label: "Engagement performance", AllowedRoles: allRoles},
	{Key: ModuleAudienceInsights, Label: "Audience insights", AllowedRoles: nonOpsRoles},
	{Key: ModuleLiveMonitoring, Label: "Live monitoring", AllowedRoles: []string{RoleOps}},
	{Key: ModuleLiveSpikes, Label: "Live spikes", AllowedRoles: allRoles},
	{Key: ModulePlatformAdoption, Label: "Platform adoption", AllowedRoles: nonOpsRoles},
	{Key: ModuleEngagementComparison, Label: "Engagement comparison", AllowedRoles: nonOpsRoles},
	{Key: ModuleMetadataLookup, Label: "Metadata lookup", AllowedRoles: allRoles},
	{Key: ModuleTopPages, Label: "Top pages", AllowedRoles: allRoles},
	{Key: ModuleTopCountries, Label: "Top countries", AllowedRoles: allRoles},
}

// GetAvailableModules returns the registry keys a role may see, in registry
// order.
func GetAvailableModules(role string) []string {
	keys := []string{}
	for _, m := range moduleRegistry {
		if roleAllowed(role, m.AllowedRoles) {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// ModulesForRole returns the visible registry entries (key + label) so
// clients can render tabs without parsing module payloads.
func ModulesForRole(role string) []Module {
	mods := []Module{}
	for _, m := range moduleRegistry {
		if roleAllowed(role, m.AllowedRoles) {
			mods = append(mods, Module{Key: m.Key, Label: m.Label})
		}
	}
	return mods
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// buildEnv carries the request-local context every builder may need besides
// the filtered rows.
type buildEnv struct {
	lookups *Lookups
	scopes  *scopeIndex
	params  ReportParams
	role    string
}

type builderFunc func(rows []models.ViewEvent, env *buildEnv) any

// builders is the module dispatch table; only entries for permitted modules
// run during a request.
var builders = map[string]builderFunc{
	ModuleOverview:              buildOverview,
	ModuleViewsByDate:           buildViewsByDate,
	ModuleTopPages:              buildTopPages,
	ModuleTopCountries:          buildTopCountries,
	ModuleMapHeatmap:            buildMapHeatmap,
	ModuleEngagementPerformance: buildEngagementPerformance,
	ModuleAudienceInsights:      buildAudienceInsights,
	ModuleLiveMonitoring:        buildLiveMonitoring,
	ModuleLiveSpikes:            buildLiveSpikes,
	ModulePlatformAdoption:      buildPlatformAdoption,
	ModuleEngagementComparison:  buildEngagementComparison,
	ModuleMetadataLookup:        buildMetadataLookup,
}
