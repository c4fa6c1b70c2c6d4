// api/analytics/dataset.go
package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goplatform/api/models"
)

// ErrDatasetNotFound aborts the whole request with a not-found-class error;
// there is no partial response.
var ErrDatasetNotFound = errors.New("analytics dataset not found")

const datasetFileName = "go_ga_data_sample_30_v2.csv"

// FindDatasetPath locates the fact dataset: the ANALYTICS_DATASET env
// override first, then the working directory and its parent.
func FindDatasetPath() (string, error) {
	candidates := []string{}
	if p := os.Getenv("ANALYTICS_DATASET"); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates,
		datasetFileName,
		filepath.Join("..", datasetFileName),
	)

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetFileName)
}

// Column synonyms accepted in the dataset header, first match wins.
var columnSynonyms = map[string][]string{
	"page_path":      {"page_path", "fullpageurl", "page_url"},
	"date":           {"date"},
	"emergency_name": {"emergency_name", "emergency"},
	"country":        {"viewer_country", "country"},
	"city":           {"viewer_city", "city"},
	"views":          {"views"},
	"downloads":      {"downloads"},
	"engagement":     {"avg_engagement_time_sec", "engagement_seconds", "avg_engagement_time"},
	"is_active":      {"is_active", "active"},
	"source":         {"session_source", "source"},
	"device":         {"device"},
	"browser":        {"browser"},
	"os":             {"os"},
	"new_returning":  {"new_vs_returning_user", "new_or_returning", "new_vs_returning"},
	"emergency_id":   {"emergency_id"},
}

// LoadRows reads the fact sheet and normalizes each row into a ViewEvent.
// The first row is the header; a row with an empty page-path is skipped
// entirely. Field-level parse failures degrade to safe defaults; structural
// read errors propagate and fail the request.
func LoadRows(path string, lk *Lookups) ([]models.ViewEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols := indexColumns(header)

	rows := []models.ViewEvent{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		pagePath := cellAt(record, cols, "page_path")
		if strings.TrimSpace(pagePath) == "" {
			continue // row-validity gate
		}

		row := models.ViewEvent{
			Date:           normalizeDay(cellAt(record, cols, "date")),
			PageURL:        strings.TrimSpace(pagePath),
			EmergencyName:  strings.TrimSpace(cellAt(record, cols, "emergency_name")),
			ViewerCity:     strings.TrimSpace(cellAt(record, cols, "city")),
			Views:          parseViews(record, cols),
			Downloads:      parseCount(cellAt(record, cols, "downloads")),
			EngagementSecs: parseSeconds(cellAt(record, cols, "engagement")),
			IsActive:       parseActive(cellAt(record, cols, "is_active")),
			SessionSource:  strings.TrimSpace(cellAt(record, cols, "source")),
			Device:         strings.TrimSpace(cellAt(record, cols, "device")),
			Browser:        strings.TrimSpace(cellAt(record, cols, "browser")),
			OS:             strings.TrimSpace(cellAt(record, cols, "os")),
			NewOrReturning: strings.TrimSpace(cellAt(record, cols, "new_returning")),
			EmergencyID:    parseCount(cellAt(record, cols, "emergency_id")),
		}
		row.Country, row.CountryISO = resolveCountry(cellAt(record, cols, "country"), lk)

		rows = append(rows, row)
	}

	return rows, nil
}

// indexColumns maps canonical column names to header positions through the
// synonym table. Missing columns are simply absent from the map.
func indexColumns(header []string) map[string]int {
	positions := map[string]int{}
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := map[string]int{}
	for canonical, synonyms := range columnSynonyms {
		for _, syn := range synonyms {
			if idx, ok := positions[syn]; ok {
				cols[canonical] = idx
				break
			}
		}
	}
	return cols
}

func cellAt(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseViews applies the uniform views policy: column absent from the
// header or empty cell counts as one observed view; an explicit value that
// is non-numeric or negative counts as zero.
func parseViews(record []string, cols map[string]int) int {
	idx, ok := cols["views"]
	if !ok || idx >= len(record) {
		return 1
	}
	raw := strings.TrimSpace(record[idx])
	if raw == "" {
		return 1
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			v = int(f)
		} else {
			return 0
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

// parseCount is the lenient non-negative integer parse for counts that
// default to zero.
func parseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			v = int(f)
		} else {
			return 0
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

func parseSeconds(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseActive(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "y":
		return true
	default:
		return false
	}
}

var dayLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"20060102",
}

// normalizeDay coerces a raw date cell to an ISO calendar-day string, or ""
// when unparsable.
func normalizeDay(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// monthLabel truncates an ISO day to its "YYYY-MM" month bucket.
func monthLabel(day string) string {
	if len(day) < 7 {
		return ""
	}
	return day[:7]
}

// resolveCountry enriches a free-text viewer country with the canonical
// display name and ISO2 code. Unknown countries keep the trimmed raw text
// and an empty ISO.
func resolveCountry(raw string, lk *Lookups) (string, string) {
	name := strings.TrimSpace(raw)
	if name == "" || lk == nil {
		return name, ""
	}
	lower := strings.ToLower(name)
	if canonical, ok := lk.NameToCanonical[lower]; ok {
		return canonical, lk.NameToISO2[lower]
	}
	if len(name) == 2 {
		iso2 := strings.ToUpper(name)
		if canonical, ok := lk.ISO2ToName[iso2]; ok {
			return canonical, iso2
		}
	}
	return name, ""
}
