// api/analytics/eventscope.go
package analytics

import (
	"regexp"
	"strings"

	"goplatform/api/models"
)

// EventScope is the set of regions/countries that own an emergency, derived
// from structured relations when present and otherwise inferred from the
// emergency's free-text name.
type EventScope struct {
	Regions   map[string]struct{}
	Countries map[string]struct{}
}

func newEventScope() EventScope {
	return EventScope{
		Regions:   map[string]struct{}{},
		Countries: map[string]struct{}{},
	}
}

// scopeIndex resolves event scopes for one request. Name inference runs at
// most once per event id; the cache is request-local and discarded with the
// request.
type scopeIndex struct {
	lookups   *Lookups
	relations map[int]models.EventRelations
	cache     map[int]EventScope
}

func newScopeIndex(lk *Lookups, relations map[int]models.EventRelations) *scopeIndex {
	if relations == nil {
		relations = map[int]models.EventRelations{}
	}
	return &scopeIndex{
		lookups:   lk,
		relations: relations,
		cache:     map[int]EventScope{},
	}
}

// scopeFor resolves the scope of one event, preferring structured region
// relations and falling back to name inference. The fallback name comes from
// the fact row when the reference store has no record for the id.
func (ix *scopeIndex) scopeFor(eventID int, name string) EventScope {
	if cached, ok := ix.cache[eventID]; ok && eventID != 0 {
		return cached
	}

	var scope EventScope
	rel, ok := ix.relations[eventID]
	if ok && (len(rel.RegionIDs) > 0 || len(rel.CountryISO2s) > 0) {
		scope = newEventScope()
		for _, id := range rel.RegionIDs {
			if code := regionIDToCode(id); code != "" {
				scope.Regions[code] = struct{}{}
			}
		}
		for _, iso2 := range rel.CountryISO2s {
			iso2 = strings.ToUpper(strings.TrimSpace(iso2))
			if iso2 == "" {
				continue
			}
			scope.Countries[iso2] = struct{}{}
			if code, found := ix.lookups.ISO2ToRegion[iso2]; found {
				scope.Regions[code] = struct{}{}
			}
		}
	} else {
		if ok && rel.Name != "" {
			name = rel.Name
		}
		scope = InferScopeFromName(name, ix.lookups)
	}

	if eventID != 0 {
		ix.cache[eventID] = scope
	}
	return scope
}

// eventName returns the reference store's name for an event when known,
// else the given fallback.
func (ix *scopeIndex) eventName(eventID int, fallback string) string {
	if rel, ok := ix.relations[eventID]; ok && rel.Name != "" {
		return rel.Name
	}
	return fallback
}

var iso3Prefix = regexp.MustCompile(`^([A-Za-z]{3}):`)

// Region name markers scanned in order; multi-word MENA markers come before
// the bare "africa" marker so MENA names do not also pick up africa.
var regionMarkers = []struct {
	marker string
	code   string
}{
	{"middle east", RegionMENA},
	{"north africa", RegionMENA},
	{"mena", RegionMENA},
	{"asia", RegionAsiaPacific},
	{"pacific", RegionAsiaPacific},
	{"americas", RegionAmericas},
	{"europe", RegionEurope},
	{"africa", RegionAfrica},
}

// InferScopeFromName infers the owning regions/countries of an emergency
// from its free-text name: an ISO3 "XYZ:" prefix, region markers, and
// word-boundary matches of country names of at least 4 characters. An empty
// result means rows for the event are visible only under global scope.
func InferScopeFromName(name string, lk *Lookups) EventScope {
	scope := newEventScope()
	name = strings.TrimSpace(name)
	if name == "" || lk == nil {
		return scope
	}
	lower := strings.ToLower(name)

	if m := iso3Prefix.FindStringSubmatch(lower); m != nil {
		iso3 := strings.ToUpper(m[1])
		if code, ok := lk.ISO3ToRegion[iso3]; ok {
			scope.Regions[code] = struct{}{}
		}
		for iso2, other := range lk.ISO2ToISO3 {
			if other == iso3 {
				scope.Countries[iso2] = struct{}{}
				break
			}
		}
	}

	remaining := lower
	for _, rm := range regionMarkers {
		if containsWord(remaining, rm.marker) {
			scope.Regions[rm.code] = struct{}{}
			remaining = strings.ReplaceAll(remaining, rm.marker, " ")
		}
	}

	for countryLower, region := range lk.NameToRegion {
		if len(countryLower) < 4 {
			continue
		}
		if containsWord(lower, countryLower) {
			scope.Regions[region] = struct{}{}
			if iso2, ok := lk.NameToISO2[countryLower]; ok {
				scope.Countries[iso2] = struct{}{}
			}
		}
	}

	return scope
}

// containsWord reports whether needle occurs in haystack on word
// boundaries (neighbouring runes are not letters or digits).
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		before := i == 0 || !isWordByte(haystack[i-1])
		afterIdx := i + len(needle)
		after := afterIdx >= len(haystack) || !isWordByte(haystack[afterIdx])
		if before && after {
			return true
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
