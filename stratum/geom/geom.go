// Package geom provides the geometric and temporal domain values the
// planner reasons about: polygons (backed by github.com/paulmach/orb),
// intervals, and the "netting" rules that clamp both to the index's
// representable domain (§4.2).
package geom

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// Polygon wraps an orb.Polygon so the planner never has to reach into the
// geometry library directly; all combination here happens at bounding-box
// granularity, which is all the coarse space-time index needs — fine-grained
// polygon intersection is left to the pushed-down ECQL residual filter.
type Polygon struct {
	orb.Polygon
}

// NewPolygon wraps a raw orb.Polygon.
func NewPolygon(p orb.Polygon) Polygon {
	return Polygon{Polygon: p}
}

// FromBound builds a rectangular polygon covering the given bound.
func FromBound(b orb.Bound) Polygon {
	min, max := b.Min, b.Max
	ring := orb.Ring{
		{min[0], min[1]},
		{max[0], min[1]},
		{max[0], max[1]},
		{min[0], max[1]},
		{min[0], min[1]},
	}
	return Polygon{Polygon: orb.Polygon{ring}}
}

// Bound returns the bounding box of the polygon.
func (p Polygon) Bound() orb.Bound {
	return p.Polygon.Bound()
}

// WKB encodes the polygon as well-known binary, for the ST_FILTER iterator option.
func (p Polygon) WKB() ([]byte, error) {
	return wkb.Marshal(p.Polygon)
}

// Everywhere is the domain polygon covering the entire representable space:
// the whole of WGS84 longitude/latitude.
var Everywhere = FromBound(orb.Bound{
	Min: orb.Point{-180, -90},
	Max: orb.Point{180, 90},
})

// Covers reports whether p fully contains other, evaluated at bounding-box
// granularity (sufficient for netting against Everywhere, which is itself a
// bounding rectangle).
func (p Polygon) Covers(other Polygon) bool {
	pb, ob := p.Bound(), other.Bound()
	return pb.Min[0] <= ob.Min[0] && pb.Min[1] <= ob.Min[1] &&
		pb.Max[0] >= ob.Max[0] && pb.Max[1] >= ob.Max[1]
}

// Intersect returns the bounding-box intersection of two polygons, and
// whether that intersection is non-empty.
func Intersect(a, b Polygon) (Polygon, bool) {
	ab, bb := a.Bound(), b.Bound()
	minX := maxF(ab.Min[0], bb.Min[0])
	minY := maxF(ab.Min[1], bb.Min[1])
	maxX := minF(ab.Max[0], bb.Max[0])
	maxY := minF(ab.Max[1], bb.Max[1])
	if minX > maxX || minY > maxY {
		return Polygon{}, false
	}
	return FromBound(orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}), true
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// NetPolygon clamps p to Everywhere (§4.2 netPolygon):
//   - if p covers Everywhere, return Everywhere
//   - if Everywhere covers p, return p
//   - otherwise return p ∩ Everywhere
//
// A nil input returns nil (no spatial predicate).
func NetPolygon(p *Polygon) *Polygon {
	if p == nil {
		return nil
	}
	if p.Covers(Everywhere) {
		return &Everywhere
	}
	if Everywhere.Covers(*p) {
		return p
	}
	clamped, ok := Intersect(*p, Everywhere)
	if !ok {
		empty := Polygon{}
		return &empty
	}
	return &clamped
}

// Interval is a closed time range [Start, End]. A point-in-time predicate is
// represented with Start == End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Instant reports whether the interval represents a single point in time.
func (i Interval) Instant() bool {
	return i.Start.Equal(i.End)
}

// MinTime and MaxTime bound the domain's representable instants.
var (
	MinTime = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
)

// Everywhen is the domain interval covering every representable instant.
var Everywhen = Interval{Start: MinTime, End: MaxTime}

// Overlap returns the intersection of two intervals, and whether it is
// non-empty.
func Overlap(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if start.After(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// NetInterval clamps i to Everywhen (§4.2 netInterval): return
// Everywhen.Overlap(i). A nil input returns nil (no temporal predicate).
func NetInterval(i *Interval) *Interval {
	if i == nil {
		return nil
	}
	clamped, ok := Overlap(Everywhen, *i)
	if !ok {
		empty := Interval{}
		return &empty
	}
	return &clamped
}
