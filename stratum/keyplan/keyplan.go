// Package keyplan implements the Key/Column-Family Planner (§4.5): it
// derives byte-level scan ranges, an optional row regex, and a column-family
// plan from a space-time predicate. The true geohash/time-bucket expansion
// grammar is an external collaborator (§1 out-of-scope, §6 schema string
// grammar); this package owns the shape of the KeyPlanningFilter and the
// contract its GetKeyPlan/GetColumnFamiliesToFetch fulfil, grounded on the
// teacher's KeyEncoder interface.
package keyplan

import (
	"github.com/stratumdb/stratum/stratum/geom"
	"github.com/stratumdb/stratum/stratum/plan"
)

// Kind tags which KeyPlanningFilter variant is populated (§4.5 table).
type Kind uint8

const (
	AcceptEverything Kind = iota
	DateFilter
	DateRangeFilter
	SpatialFilter
	SpatialDateFilter
	SpatialDateRangeFilter
)

// KeyPlanningFilter is built from an optional polygon and optional interval
// (§4.5). Instant vs range is determined by Start == End.
type KeyPlanningFilter struct {
	Kind     Kind
	Polygon  *geom.Polygon
	Interval *geom.Interval
}

// NewKeyPlanningFilter classifies (polygon, interval) into one of the six
// §4.5 variants.
func NewKeyPlanningFilter(polygon *geom.Polygon, interval *geom.Interval) KeyPlanningFilter {
	hasPoly := polygon != nil
	instant := interval != nil && interval.Instant()
	hasRange := interval != nil && !instant

	switch {
	case hasPoly && hasRange:
		return KeyPlanningFilter{Kind: SpatialDateRangeFilter, Polygon: polygon, Interval: interval}
	case hasPoly && instant:
		return KeyPlanningFilter{Kind: SpatialDateFilter, Polygon: polygon, Interval: interval}
	case hasPoly:
		return KeyPlanningFilter{Kind: SpatialFilter, Polygon: polygon}
	case hasRange:
		return KeyPlanningFilter{Kind: DateRangeFilter, Interval: interval}
	case instant:
		return KeyPlanningFilter{Kind: DateFilter, Interval: interval}
	default:
		return KeyPlanningFilter{Kind: AcceptEverything}
	}
}

// KeyEncoder is the external schema grammar collaborator that expands a
// KeyPlanningFilter into byte-level ranges and column families — the
// on-disk geohash/time-bucket encoding is out of scope for this package
// (§1), mirroring the teacher's KeyEncoder interface.
type KeyEncoder interface {
	// EncodeRanges expands the filter into scan ranges enumerating the
	// geohash cells x time buckets that intersect the predicate.
	EncodeRanges(f KeyPlanningFilter) ([]plan.ByteRange, error)
	// EncodeRegex derives a sound row-regex over-approximation of the
	// ranges, when one is representable as a single expression.
	EncodeRegex(f KeyPlanningFilter) (plan.Regex, error)
	// ColumnFamilies returns the column families the filter constrains, or
	// a CFAll plan when the predicate doesn't narrow the family space.
	ColumnFamilies(f KeyPlanningFilter) (plan.ColumnFamilyPlan, error)
}

// GetKeyPlan implements the §4.5 contract: AcceptEverything maps directly
// to KeyAcceptAll; every other variant is delegated to the schema grammar.
func GetKeyPlan(enc KeyEncoder, f KeyPlanningFilter) (plan.KeyPlan, error) {
	if f.Kind == AcceptEverything {
		return plan.AcceptAllKeyPlan(), nil
	}
	ranges, err := enc.EncodeRanges(f)
	if err != nil {
		return plan.KeyPlan{}, err
	}
	return plan.RangesKeyPlan(ranges), nil
}

// GetColumnFamiliesToFetch implements the §4.5 contract for column-family
// selection.
func GetColumnFamiliesToFetch(enc KeyEncoder, f KeyPlanningFilter) (plan.ColumnFamilyPlan, error) {
	if f.Kind == AcceptEverything {
		return plan.AllColumnFamilies(), nil
	}
	return enc.ColumnFamilies(f)
}

// RowRegexStage builds the band-0 row-regex iterator stage from a derived
// regex, when one is present (§4.5 regex prefilter). The regex comes from
// the schema grammar via KeyEncoder.EncodeRegex and must be a sound
// over-approximation of the ranges.
func RowRegexStage(regex plan.Regex) (plan.IteratorStage, bool) {
	if !regex.Present {
		return plan.IteratorStage{}, false
	}
	return plan.IteratorStage{
		Priority:  plan.PriorityRowRegex,
		Name:      "row-regex",
		ClassName: "RowRegexFilter",
		Options:   map[string]string{"regex": regex.Pattern},
	}, true
}
