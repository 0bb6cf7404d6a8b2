// Package aggregate builds the dashboard series: per-category counts for
// categorical BI fields and grouped sum/average for numeric ones. Value
// coercion is shared with the filter engine so "R$ 5.400,00" means the same
// number everywhere.
package aggregate

import (
	"math"
	"sort"

	"github.com/acervohq/acervo/internal/filter"
	"github.com/acervohq/acervo/internal/types"
)

// missingCategory is the bucket for records without a value for the
// grouping field.
const missingCategory = "N/A"

// fallbackGroup is the single bucket used when a numeric BI field has no
// categorical BI companion to group by.
const fallbackGroup = "Total"

// Build produces one series per BI-flagged field in the bank, keyed by
// field id.
func Build(records []types.Record, s types.Schema) map[string]types.Series {
	out := make(map[string]types.Series)
	for _, def := range s.FieldBank {
		if !def.IsBI {
			continue
		}
		if def.Type.IsNumeric() {
			out[def.ID] = numericSeries(records, s, def)
		} else {
			out[def.ID] = categoricalSeries(records, def)
		}
	}
	return out
}

// categoricalSeries counts records per raw value of the field. Missing
// values land in the "N/A" bucket; percentages are rounded to one decimal.
func categoricalSeries(records []types.Record, def types.FieldDefinition) types.Series {
	counts := make(map[string]int)
	for _, r := range records {
		counts[categoryOf(r, def.ID)]++
	}

	total := len(records)
	categories := make([]types.CategoryCount, 0, len(counts))
	for name, n := range counts {
		percent := 0.0
		if total > 0 {
			percent = round1(float64(n) / float64(total) * 100)
		}
		categories = append(categories, types.CategoryCount{Name: name, Value: n, Percent: percent})
	}
	// Largest slice first; name breaks ties so output is deterministic.
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Value != categories[j].Value {
			return categories[i].Value > categories[j].Value
		}
		return categories[i].Name < categories[j].Name
	})

	return types.Series{
		FieldID:    def.ID,
		Label:      def.Label,
		Kind:       "categorical",
		Categories: categories,
	}
}

// numericSeries sums and averages the coerced values of the field, grouped
// by the first other categorical BI field, or a single Total bucket when
// none exists. The grand average excludes zero and unparseable values from
// its denominator.
func numericSeries(records []types.Record, s types.Schema, def types.FieldDefinition) types.Series {
	groupField := secondaryDimension(s, def.ID)

	type bucket struct {
		sum   float64
		count int // non-zero values only
		total int
	}
	buckets := make(map[string]*bucket)
	var grandSum float64
	var grandCount int

	for _, r := range records {
		name := fallbackGroup
		if groupField != "" {
			name = categoryOf(r, groupField)
		}
		b := buckets[name]
		if b == nil {
			b = &bucket{}
			buckets[name] = b
		}
		v := filter.Coerce(r.Data[def.ID])
		b.sum += v
		b.total++
		if v != 0 {
			b.count++
			grandCount++
		}
		grandSum += v
	}

	groups := make([]types.NumericGroup, 0, len(buckets))
	for name, b := range buckets {
		avg := 0.0
		if b.count > 0 {
			avg = b.sum / float64(b.count)
		}
		groups = append(groups, types.NumericGroup{
			Name:    name,
			Sum:     b.sum,
			Average: avg,
			Count:   b.total,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Sum != groups[j].Sum {
			return groups[i].Sum > groups[j].Sum
		}
		return groups[i].Name < groups[j].Name
	})

	grandAvg := 0.0
	if grandCount > 0 {
		grandAvg = grandSum / float64(grandCount)
	}

	return types.Series{
		FieldID:      def.ID,
		Label:        def.Label,
		Kind:         "numeric",
		GroupedBy:    groupField,
		Groups:       groups,
		GrandTotal:   grandSum,
		GrandAverage: grandAvg,
	}
}

// secondaryDimension picks the grouping field for a numeric series: the
// first BI field of categorical type other than the series field itself.
func secondaryDimension(s types.Schema, selfID string) string {
	for _, f := range s.FieldBank {
		if f.ID == selfID || !f.IsBI || f.Type.IsNumeric() {
			continue
		}
		return f.ID
	}
	return ""
}

func categoryOf(r types.Record, fieldID string) string {
	v := r.Data[fieldID]
	if filter.IsEmpty(v) {
		return missingCategory
	}
	return filter.Stringify(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
