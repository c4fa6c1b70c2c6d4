package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goplatform/api/models"
)

func TestResolveScope_RegionSuffixes(t *testing.T) {
	scope := ResolveScope([]string{
		"analytics_view_region_europe",
		"analytics_view_region_africa",
		"analytics_view_region_africa", // duplicate
		"some_unrelated_permission",
	})

	assert.False(t, scope.Global)
	assert.False(t, scope.Live)
	assert.Equal(t, []string{"africa", "europe"}, scope.Regions)
}

func TestResolveScope_GlobalAndLive(t *testing.T) {
	scope := ResolveScope([]string{CapabilityGlobal, CapabilityLive})

	assert.True(t, scope.Global)
	assert.True(t, scope.Live)
	assert.Empty(t, scope.Regions)
}

func TestResolveScope_EmptyCapabilities(t *testing.T) {
	scope := ResolveScope(nil)

	assert.False(t, scope.Global)
	assert.False(t, scope.Live)
	assert.Empty(t, scope.Regions)
}

func TestInferRoleProfile_Priority(t *testing.T) {
	cases := []struct {
		name      string
		scope     models.AccessScope
		role      string
		realtime  bool
		histDepth string
	}{
		{"global wins over everything", models.AccessScope{Global: true, Live: true, Regions: []string{"africa"}}, RoleGlobal, false, DepthMultiYear},
		{"live wins over regions", models.AccessScope{Live: true, Regions: []string{"africa"}}, RoleOps, true, DepthThirtyDays},
		{"regions", models.AccessScope{Regions: []string{"africa"}}, RoleRegional, false, DepthMultiYear},
		{"country fallback", models.AccessScope{}, RoleCountry, false, DepthMultiYear},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := InferRoleProfile(tc.scope)
			assert.Equal(t, tc.role, profile.Role)
			assert.Equal(t, tc.realtime, profile.RealtimeEnabled)
			assert.Equal(t, tc.histDepth, profile.HistoricalDepth)
		})
	}
}
