// Package filter defines the logical filter tree a query is built from
// (§3 LogicalFilter) and the normalization rules the planner applies to it
// before strategy decision (§4.1).
package filter

import (
	"fmt"
	"time"

	"github.com/stratumdb/stratum/stratum/geom"
)

// CompareOp is a comparison operator: <, <=, >, >=.
type CompareOp string

const (
	OpLT  CompareOp = "<"
	OpLTE CompareOp = "<="
	OpGT  CompareOp = ">"
	OpGTE CompareOp = ">="
)

// Flip returns the operator with its operands swapped — the reflection rule
// required by the "11 > attr2" open question (§9): when a comparison's
// operands were flipped during normalization, the operator must flip too.
func (op CompareOp) Flip() CompareOp {
	switch op {
	case OpLT:
		return OpGT
	case OpLTE:
		return OpGTE
	case OpGT:
		return OpLT
	case OpGTE:
		return OpLTE
	default:
		return op
	}
}

// SpatialOp is a spatial predicate operator.
type SpatialOp string

const (
	SpatialIntersects SpatialOp = "Intersects"
	SpatialWithin     SpatialOp = "Within"
	SpatialContains   SpatialOp = "Contains"
	SpatialBBox       SpatialOp = "BBox"
)

// TemporalOp is a temporal predicate operator.
type TemporalOp string

const (
	TemporalBefore TemporalOp = "Before"
	TemporalAfter  TemporalOp = "After"
	TemporalDuring TemporalOp = "During"
	TemporalEquals TemporalOp = "Equals"
)

// Filter is the tagged sum over logical filter variants (§3 LogicalFilter).
// Like the teacher's query.Clause/query.Pattern, it's a closed interface: the
// unexported marker method means only this package can add variants.
type Filter interface {
	fmt.Stringer
	filterNode()
}

// And is a conjunction of child filters.
type And struct{ Children []Filter }

// Or is a disjunction of child filters.
type Or struct{ Children []Filter }

// Not negates a single child filter.
type Not struct{ Child Filter }

// PropertyEq is an equality predicate on a named property.
type PropertyEq struct {
	Name    string
	Literal interface{}
}

// PropertyCompare is a comparison predicate: name <op> literal, with Flipped
// recording whether the literal originally appeared on the left (§3
// PropertyLiteral, §9 open question).
type PropertyCompare struct {
	Op      CompareOp
	Name    string
	Literal interface{}
	Flipped bool
}

// PropertyBetween is a closed-range predicate: lo <= name <= hi.
type PropertyBetween struct {
	Name   string
	Lo, Hi interface{}
}

// PropertyLike is a LIKE/ILIKE predicate.
type PropertyLike struct {
	Name            string
	Pattern         string
	CaseInsensitive bool
}

// IdIn is a predicate over a set of feature identifiers.
type IdIn struct{ IDs []string }

// SpatialPredicate is a spatial predicate against the default geometry; it
// carries no attribute name.
type SpatialPredicate struct {
	Op       SpatialOp
	Geometry geom.Polygon
}

// Instant wraps either a single time.Time or a geom.Interval for temporal
// predicates; at most one of the two fields is meaningful, selected by
// whether the predicate is a point-in-time or range predicate.
type Instant struct {
	Time     time.Time
	Interval geom.Interval
	IsRange  bool
}

// TemporalPredicate is a temporal predicate. An empty Name references the
// schema's default date attribute; a non-empty Name targets that attribute
// directly (e.g. "attr2 DURING 2012-01-01/2014-01-01").
type TemporalPredicate struct {
	Op   TemporalOp
	Name string
	When Instant
}

// IncludeAll matches every feature.
type IncludeAll struct{}

// ExcludeAll matches no features.
type ExcludeAll struct{}

func (And) filterNode()               {}
func (Or) filterNode()                {}
func (Not) filterNode()               {}
func (PropertyEq) filterNode()        {}
func (PropertyCompare) filterNode()   {}
func (PropertyBetween) filterNode()   {}
func (PropertyLike) filterNode()      {}
func (IdIn) filterNode()              {}
func (SpatialPredicate) filterNode()  {}
func (TemporalPredicate) filterNode() {}
func (IncludeAll) filterNode()        {}
func (ExcludeAll) filterNode()        {}

func (f And) String() string { return fmt.Sprintf("And(%v)", f.Children) }
func (f Or) String() string  { return fmt.Sprintf("Or(%v)", f.Children) }
func (f Not) String() string { return fmt.Sprintf("Not(%v)", f.Child) }
func (f PropertyEq) String() string {
	return fmt.Sprintf("%s = %v", f.Name, f.Literal)
}
func (f PropertyCompare) String() string {
	return fmt.Sprintf("%s %s %v", f.Name, f.Op, f.Literal)
}
func (f PropertyBetween) String() string {
	return fmt.Sprintf("%s BETWEEN %v AND %v", f.Name, f.Lo, f.Hi)
}
func (f PropertyLike) String() string {
	return fmt.Sprintf("%s LIKE %q", f.Name, f.Pattern)
}
func (f IdIn) String() string { return fmt.Sprintf("IN %v", f.IDs) }
func (f SpatialPredicate) String() string {
	return fmt.Sprintf("%s(geom, %v)", f.Op, f.Geometry.Bound())
}
func (f TemporalPredicate) String() string {
	if f.Name != "" {
		return fmt.Sprintf("%s(%s, %v)", f.Op, f.Name, f.When)
	}
	return fmt.Sprintf("%s(dtg, %v)", f.Op, f.When)
}
func (IncludeAll) String() string { return "INCLUDE" }
func (ExcludeAll) String() string { return "EXCLUDE" }

// PropertyLiteral is produced when pairing a property with a literal inside
// a comparison expression (§3). Flipped records whether the literal appeared
// on the left of the operator.
type PropertyLiteral struct {
	Name      string
	Literal   interface{}
	Secondary interface{} // for BETWEEN-shaped predicates
	Flipped   bool
}
