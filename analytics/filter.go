// api/analytics/filter.go
package analytics

import "goplatform/api/models"

// FilterRows applies an enforced access scope to normalized rows, keeping
// input order. The live requirement is a single predicate: any non-global
// live scope only ever sees active rows, including on the region path.
func FilterRows(rows []models.ViewEvent, scope models.AccessScope, scopes *scopeIndex) []models.ViewEvent {
	kept := []models.ViewEvent{}
	for _, row := range rows {
		if rowVisible(row, scope, scopes) {
			kept = append(kept, row)
		}
	}
	return kept
}

func rowVisible(row models.ViewEvent, scope models.AccessScope, scopes *scopeIndex) bool {
	if scope.Global {
		return true
	}
	if scope.Live && !row.IsActive {
		return false
	}
	if len(scope.Regions) > 0 {
		es := scopes.scopeFor(row.EmergencyID, row.EmergencyName)
		return regionsIntersect(es.Regions, scope.Regions)
	}
	return scope.Live
}

func regionsIntersect(owned map[string]struct{}, allowed []string) bool {
	for _, code := range allowed {
		if _, ok := owned[code]; ok {
			return true
		}
	}
	return false
}
