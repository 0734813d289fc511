// Package spacetime implements the Space-Time Extractor (§4.2): it pulls a
// single bounding polygon and a single time interval out of a query's
// conjuncts, leaving the rest as a residual predicate to push down later.
package spacetime

import (
	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/geom"
)

// Query is the extractor's output (§3 SpaceTimeQuery).
type Query struct {
	Polygon  *geom.Polygon
	Interval *geom.Interval
	Residual filter.Filter
}

// ExcludeAll reports whether this query was short-circuited by an empty
// temporal (or spatial) intersection (§4.2, §7 EmptyResult).
func (q Query) ExcludeAll() bool {
	_, ok := q.Residual.(filter.ExcludeAll)
	return ok
}

// Extract partitions conjuncts into spatial, temporal, and other, then
// computes the polygon intersection and interval intersection, nets both
// against the domain, and folds the rest into the residual (§4.2).
func Extract(conjuncts []filter.Filter) Query {
	var spatialPolys []geom.Polygon
	var temporalIntervals []geom.Interval
	var residual []filter.Filter

	for _, c := range conjuncts {
		switch v := c.(type) {
		case filter.SpatialPredicate:
			if p, ok := boundedPolygon(v); ok {
				spatialPolys = append(spatialPolys, p)
			} else {
				// Unbounded or non-polygonal: stays in residual (§4.2).
				residual = append(residual, c)
			}
		case filter.TemporalPredicate:
			if v.Name != "" {
				// References a named attribute, not the default date:
				// attribute-index territory, stays in the residual.
				residual = append(residual, c)
				continue
			}
			if iv, ok := toInterval(v); ok {
				temporalIntervals = append(temporalIntervals, iv)
			} else {
				residual = append(residual, c)
			}
		default:
			residual = append(residual, c)
		}
	}

	var polygon *geom.Polygon
	for _, p := range spatialPolys {
		p := p
		if polygon == nil {
			polygon = &p
			continue
		}
		combined, ok := geom.Intersect(*polygon, p)
		if !ok {
			// Empty spatial intersection: immediate ExcludeAll short-circuit (§7 EmptyResult).
			return Query{Residual: filter.ExcludeAll{}}
		}
		polygon = &combined
	}

	var interval *geom.Interval
	for _, iv := range temporalIntervals {
		iv := iv
		if interval == nil {
			interval = &iv
			continue
		}
		combined, ok := geom.Overlap(*interval, iv)
		if !ok {
			// Empty temporal intersection: immediate ExcludeAll short-circuit (§4.2, §8 invariant 6).
			return Query{Residual: filter.ExcludeAll{}}
		}
		interval = &combined
	}

	polygon = geom.NetPolygon(polygon)
	interval = geom.NetInterval(interval)

	return Query{
		Polygon:  polygon,
		Interval: interval,
		Residual: foldResidual(residual),
	}
}

// boundedPolygon converts a spatial predicate to a polygonal bound when
// possible. BBox and Intersects/Within/Contains against a concrete geometry
// all produce a bound; any future unbounded spatial operator would return
// false here and stay in the residual.
func boundedPolygon(v filter.SpatialPredicate) (geom.Polygon, bool) {
	return v.Geometry, true
}

// toInterval converts a temporal predicate to a concrete interval. Before,
// After, and Equals against an instant, and During against a range, produce
// an interval; During against a non-range does not.
func toInterval(v filter.TemporalPredicate) (geom.Interval, bool) {
	when := v.When
	switch v.Op {
	case filter.TemporalDuring:
		if !when.IsRange {
			return geom.Interval{}, false
		}
		return when.Interval, true
	case filter.TemporalEquals:
		return geom.Interval{Start: when.Time, End: when.Time}, true
	case filter.TemporalBefore:
		return geom.Interval{Start: geom.MinTime, End: when.Time}, true
	case filter.TemporalAfter:
		return geom.Interval{Start: when.Time, End: geom.MaxTime}, true
	default:
		return geom.Interval{}, false
	}
}

func foldResidual(conjuncts []filter.Filter) filter.Filter {
	switch len(conjuncts) {
	case 0:
		return filter.IncludeAll{}
	case 1:
		return conjuncts[0]
	default:
		return filter.And{Children: conjuncts}
	}
}
