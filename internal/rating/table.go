package rating

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	_ "embed"

	dErrors "covira/pkg/domain-errors"
)

//go:embed tables.json
var embeddedTables []byte

// Table resolves ZIP codes to rating areas and (area, coverage) pairs to
// base monthly rates. Immutable after Load.
type Table struct {
	defaultArea AreaID
	zipToArea   map[string]AreaID
	rates       map[AreaID]map[CoverageType]Money
}

// tableFile is the on-disk/embedded JSON shape. Map keys are strings because
// JSON object keys always are.
type tableFile struct {
	DefaultArea int                         `json:"default_area"`
	Areas       map[string][]string         `json:"areas"`
	Rates       map[string]map[string]int64 `json:"rates"`
}

// Load builds a Table from the file at path, or from the embedded reference
// tables when path is empty.
func Load(path string) (*Table, error) {
	raw := embeddedTables
	if path != "" {
		fileBytes, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rating table %s: %w", path, err)
		}
		raw = fileBytes
	}
	return parse(raw)
}

func parse(raw []byte) (*Table, error) {
	var file tableFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rating table: %w", err)
	}
	if file.DefaultArea <= 0 {
		return nil, fmt.Errorf("rating table: default_area must be positive")
	}

	table := &Table{
		defaultArea: AreaID(file.DefaultArea),
		zipToArea:   make(map[string]AreaID),
		rates:       make(map[AreaID]map[CoverageType]Money),
	}

	for areaKey, zips := range file.Areas {
		area, err := parseAreaKey(areaKey)
		if err != nil {
			return nil, err
		}
		for _, zip := range zips {
			if existing, ok := table.zipToArea[zip]; ok && existing != area {
				return nil, fmt.Errorf("rating table: ZIP %s mapped to areas %d and %d", zip, existing, area)
			}
			table.zipToArea[zip] = area
		}
	}

	for areaKey, byType := range file.Rates {
		area, err := parseAreaKey(areaKey)
		if err != nil {
			return nil, err
		}
		areaRates := make(map[CoverageType]Money, len(byType))
		for typeKey, cents := range byType {
			coverage, err := ParseCoverageType(typeKey)
			if err != nil {
				return nil, fmt.Errorf("rating table area %d: %w", area, err)
			}
			if cents <= 0 {
				return nil, fmt.Errorf("rating table area %d %s: rate must be positive", area, coverage)
			}
			areaRates[coverage] = Money(cents)
		}
		table.rates[area] = areaRates
	}

	return table, nil
}

func parseAreaKey(key string) (AreaID, error) {
	n, err := strconv.Atoi(key)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("rating table: invalid area key %q", key)
	}
	return AreaID(n), nil
}

// AreaForZIP resolves a ZIP code to its rating area. Unknown ZIPs resolve to
// the configured default area; this is documented fallback behavior, never
// an error.
func (t *Table) AreaForZIP(zip string) AreaID {
	if area, ok := t.zipToArea[zip]; ok {
		return area
	}
	return t.defaultArea
}

// DefaultArea returns the fallback rating area.
func (t *Table) DefaultArea() AreaID {
	return t.defaultArea
}

// BaseRate returns the base monthly rate for an (area, coverage) pair.
// A missing pair is a configuration gap and fails with rate_not_configured:
// "no data" must never price as "free".
func (t *Table) BaseRate(area AreaID, coverage CoverageType) (Money, error) {
	if byType, ok := t.rates[area]; ok {
		if rate, ok := byType[coverage]; ok {
			return rate, nil
		}
	}
	return 0, dErrors.New(dErrors.CodeRateNotConfigured,
		fmt.Sprintf("no base rate for area %d coverage %s", area, coverage))
}
