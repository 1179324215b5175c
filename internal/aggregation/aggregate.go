package aggregation

import (
	"sort"
	"strings"
	"time"

	emissiondomain "github.com/smallbiznis/airnex/internal/emission/domain"
)

// UncategorizedLabel groups records without an activity type.
const UncategorizedLabel = "Autre"

// Record is the slice of an emission record the engine reads.
type Record struct {
	CO2e         float64
	Scope        string
	ActivityType string
	Period       string
	ActivityDate time.Time
}

type ScopeTotals struct {
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
}

// Sum adds the three buckets.
func (s ScopeTotals) Sum() float64 {
	return s.Scope1 + s.Scope2 + s.Scope3
}

type CategoryTotal struct {
	Category  string  `json:"category"`
	Emissions float64 `json:"emissions"`
}

type MonthlyPoint struct {
	Month     string  `json:"month"`
	Emissions float64 `json:"emissions"`
	Scope1    float64 `json:"scope1"`
	Scope2    float64 `json:"scope2"`
	Scope3    float64 `json:"scope3"`
}

// Result is computed on demand and never persisted.
type Result struct {
	Total      float64         `json:"total"`
	ByScope    ScopeTotals     `json:"byScope"`
	ByCategory []CategoryTotal `json:"byCategory"`
	Monthly    []MonthlyPoint  `json:"monthly"`
}

// Aggregate folds records into totals. Records whose scope is not one of the
// three persisted scopes count toward Total and Monthly emissions but not
// toward any scope bucket. The input slice is only read.
func Aggregate(records []Record) Result {
	result := Result{
		ByCategory: []CategoryTotal{},
		Monthly:    []MonthlyPoint{},
	}

	categoryIndex := make(map[string]int)
	monthIndex := make(map[string]int)

	for _, r := range records {
		result.Total += r.CO2e
		addScope(&result.ByScope, r.Scope, r.CO2e)

		label := strings.TrimSpace(r.ActivityType)
		if label == "" {
			label = UncategorizedLabel
		}
		idx, ok := categoryIndex[label]
		if !ok {
			idx = len(result.ByCategory)
			categoryIndex[label] = idx
			result.ByCategory = append(result.ByCategory, CategoryTotal{Category: label})
		}
		result.ByCategory[idx].Emissions += r.CO2e

		month := monthKey(r)
		midx, ok := monthIndex[month]
		if !ok {
			midx = len(result.Monthly)
			monthIndex[month] = midx
			result.Monthly = append(result.Monthly, MonthlyPoint{Month: month})
		}
		point := &result.Monthly[midx]
		point.Emissions += r.CO2e
		switch scopeOf(r.Scope) {
		case emissiondomain.Scope1:
			point.Scope1 += r.CO2e
		case emissiondomain.Scope2:
			point.Scope2 += r.CO2e
		case emissiondomain.Scope3:
			point.Scope3 += r.CO2e
		}
	}

	// ties keep first-seen order
	sort.SliceStable(result.ByCategory, func(i, j int) bool {
		return result.ByCategory[i].Emissions > result.ByCategory[j].Emissions
	})
	sort.Slice(result.Monthly, func(i, j int) bool {
		return result.Monthly[i].Month < result.Monthly[j].Month
	})

	return result
}

func addScope(totals *ScopeTotals, scope string, value float64) {
	switch scopeOf(scope) {
	case emissiondomain.Scope1:
		totals.Scope1 += value
	case emissiondomain.Scope2:
		totals.Scope2 += value
	case emissiondomain.Scope3:
		totals.Scope3 += value
	}
}

// scopeOf only recognises the canonical persisted values.
func scopeOf(raw string) emissiondomain.Scope {
	s := emissiondomain.Scope(raw)
	if s.Valid() {
		return s
	}
	return ""
}

func monthKey(r Record) string {
	if p := strings.TrimSpace(r.Period); p != "" {
		return p
	}
	return r.ActivityDate.UTC().Format(emissiondomain.PeriodLayout)
}

// FromEmissions projects stored records into engine input.
func FromEmissions(records []*emissiondomain.EmissionRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, Record{
			CO2e:         r.CO2e,
			Scope:        string(r.Scope),
			ActivityType: r.ActivityType,
			Period:       r.Period,
			ActivityDate: r.ActivityDate,
		})
	}
	return out
}
