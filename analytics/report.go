// api/analytics/report.go
package analytics

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"goplatform/api/models"
)

// ReportParams are the caller-supplied request filters, raw from the query
// string; the assembler normalizes them before any builder runs.
type ReportParams struct {
	StartDate string // YYYY-MM-DD
	EndDate   string
	CmpMode   string // country or region
	CmpLeft   string
	CmpRight  string
	CmpAStart string // YYYY-MM
	CmpAEnd   string
	CmpBStart string
	CmpBEnd   string
}

// Service assembles role-scoped analytics reports. All working data is
// request-local; the only shared state is the read-only module registry and
// the external reference store.
type Service struct {
	refs ReferenceSource
}

func NewService(refs ReferenceSource) *Service {
	return &Service{refs: refs}
}

// BuildReport runs the full pipeline for one request: resolve scope, infer
// role, apply the ops live-only override, load and normalize rows, resolve
// event scopes, filter, then run exactly the modules the role permits.
func (s *Service) BuildReport(ctx context.Context, capabilities []string, params ReportParams) (*models.Report, error) {
	scope := ResolveScope(capabilities)
	profile := InferRoleProfile(scope)

	// Live-operations principals are forced onto the live-only tier
	// regardless of declared scope.
	if profile.Role == RoleOps {
		scope = models.AccessScope{Global: false, Live: true, Regions: []string{}}
	}

	countries, err := s.refs.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference countries: %w", err)
	}
	lookups := BuildLookups(countries)

	path, err := FindDatasetPath()
	if err != nil {
		return nil, err
	}
	rows, err := LoadRows(path, lookups)
	if err != nil {
		return nil, err
	}

	relations, err := s.refs.EventRelations(ctx, referencedEventIDs(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to load event relations: %w", err)
	}
	scopes := newScopeIndex(lookups, relations)

	filtered := FilterRows(rows, scope, scopes)
	params = normalizeParams(params)

	available := GetAvailableModules(profile.Role)
	env := &buildEnv{lookups: lookups, scopes: scopes, params: params, role: profile.Role}

	moduleData := map[string]any{}
	for _, key := range available {
		build, ok := builders[key]
		if !ok {
			log.Printf("No builder registered for module %q, skipping", key)
			continue
		}
		moduleData[key] = build(filtered, env)
	}

	return &models.Report{
		ContractVersion:  1,
		RoleProfile:      profile,
		Scope:            scope,
		FiltersApplied:   filtersApplied(params),
		AvailableModules: available,
		ModuleData:       moduleData,
		Summary:          buildSummary(filtered),
	}, nil
}

func buildSummary(rows []models.ViewEvent) models.Summary {
	total := 0
	for _, r := range rows {
		total += r.Views
	}
	return models.Summary{
		TotalVisits: total,
		TopPages: topN(sumViewsBy(rows, func(r models.ViewEvent) string {
			return r.PageURL
		}), 10),
		TopCountries: topN(sumViewsBy(rows, func(r models.ViewEvent) string {
			if r.Country == "" {
				return "unknown"
			}
			return r.Country
		}), 10),
	}
}

func referencedEventIDs(rows []models.ViewEvent) []int {
	seen := map[int]struct{}{}
	ids := []int{}
	for _, r := range rows {
		if r.EmergencyID == 0 {
			continue
		}
		if _, ok := seen[r.EmergencyID]; ok {
			continue
		}
		seen[r.EmergencyID] = struct{}{}
		ids = append(ids, r.EmergencyID)
	}
	return ids
}

var isoDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeParams drops malformed dates, swaps a reversed date range, and
// lower-cases the comparison mode. Comparison months are clamped later
// against the months actually present in the filtered rows.
func normalizeParams(p ReportParams) ReportParams {
	if !isoDay.MatchString(p.StartDate) {
		p.StartDate = ""
	}
	if !isoDay.MatchString(p.EndDate) {
		p.EndDate = ""
	}
	if p.StartDate != "" && p.EndDate != "" && p.StartDate > p.EndDate {
		p.StartDate, p.EndDate = p.EndDate, p.StartDate
	}
	p.CmpMode = strings.ToLower(strings.TrimSpace(p.CmpMode))
	if p.CmpMode != "region" && p.CmpMode != "country" {
		p.CmpMode = ""
	}
	return p
}

func filtersApplied(p ReportParams) models.ReportFilters {
	return models.ReportFilters{
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CmpMode:   p.CmpMode,
		CmpLeft:   p.CmpLeft,
		CmpRight:  p.CmpRight,
		CmpAStart: p.CmpAStart,
		CmpAEnd:   p.CmpAEnd,
		CmpBStart: p.CmpBStart,
		CmpBEnd:   p.CmpBEnd,
	}
}
