// api/analytics/access.go
package analytics

import (
	"sort"
	"strings"

	"goplatform/api/models"
)

// Capability names checked against the principal's capability set.
const (
	CapabilityGlobal       = "analytics_view_global"
	CapabilityLive         = "analytics_view_live"
	CapabilityRegionPrefix = "analytics_view_region_"
)

// Role names derived from an AccessScope.
const (
	RoleGlobal   = "global_im"
	RoleRegional = "regional_im"
	RoleCountry  = "country_im"
	RoleOps      = "ops_im"
)

const (
	DepthThirtyDays = "30_days"
	DepthMultiYear  = "multi_year"
)

// ResolveScope turns a principal's capability set into an AccessScope.
// Region codes are the sorted distinct suffixes of held region capabilities.
func ResolveScope(capabilities []string) models.AccessScope {
	scope := models.AccessScope{Regions: []string{}}
	seen := map[string]struct{}{}

	for _, name := range capabilities {
		name = strings.TrimSpace(name)
		switch {
		case name == CapabilityGlobal:
			scope.Global = true
		case name == CapabilityLive:
			scope.Live = true
		case strings.HasPrefix(name, CapabilityRegionPrefix):
			code := strings.TrimPrefix(name, CapabilityRegionPrefix)
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			scope.Regions = append(scope.Regions, code)
		}
	}

	sort.Strings(scope.Regions)
	return scope
}

// InferRoleProfile derives the role from a scope by fixed priority:
// global > live > region codes > country fallback.
func InferRoleProfile(scope models.AccessScope) models.RoleProfile {
	if scope.Global {
		return models.RoleProfile{Role: RoleGlobal, RealtimeEnabled: false, HistoricalDepth: DepthMultiYear}
	}
	if scope.Live {
		return models.RoleProfile{Role: RoleOps, RealtimeEnabled: true, HistoricalDepth: DepthThirtyDays}
	}
	if len(scope.Regions) > 0 {
		return models.RoleProfile{Role: RoleRegional, RealtimeEnabled: false, HistoricalDepth: DepthMultiYear}
	}
	return models.RoleProfile{Role: RoleCountry, RealtimeEnabled: false, HistoricalDepth: DepthMultiYear}
}
