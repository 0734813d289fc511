// Package plan defines the compiled output of strategy compilation: scan
// ranges, column families, and an ordered iterator stack (§3 KeyPlan,
// ColumnFamilyPlan, IteratorStage, QueryPlan, StrategyTag).
package plan

import "fmt"

// ByteRange is a half-open scan range [Start, End) over the sorted key space.
type ByteRange struct {
	Start []byte
	End   []byte // nil means unbounded
}

// KeyPlanKind tags which KeyPlan variant is populated.
type KeyPlanKind uint8

const (
	KeyAcceptAll KeyPlanKind = iota
	KeyRanges
	KeyList
)

// KeyPlan is the sum type over {KeyRanges, KeyList, KeyAcceptAll} (§3).
type KeyPlan struct {
	Kind   KeyPlanKind
	Ranges []ByteRange // populated when Kind == KeyRanges
	Keys   [][]byte    // populated when Kind == KeyList
}

// AcceptAllKeyPlan returns a KeyPlan that scans the entire table.
func AcceptAllKeyPlan() KeyPlan { return KeyPlan{Kind: KeyAcceptAll} }

// RangesKeyPlan returns a KeyPlan over explicit byte ranges.
func RangesKeyPlan(ranges []ByteRange) KeyPlan {
	return KeyPlan{Kind: KeyRanges, Ranges: ranges}
}

// ListKeyPlan returns a KeyPlan over an explicit set of single-row keys.
func ListKeyPlan(keys [][]byte) KeyPlan {
	return KeyPlan{Kind: KeyList, Keys: keys}
}

// Empty reports whether this plan selects zero rows (§7 EmptyResult).
func (kp KeyPlan) Empty() bool {
	switch kp.Kind {
	case KeyRanges:
		return len(kp.Ranges) == 0
	case KeyList:
		return len(kp.Keys) == 0
	default:
		return false
	}
}

// Regex is the output of KeyPlan.ToRegex: either a sound row-regex
// over-approximation or NoRegex.
type Regex struct {
	Pattern string
	Present bool
}

// NoRegex is the absence of a row regex.
var NoRegex = Regex{}

// ToRegex always returns NoRegex: a KeyPlan carries no regex of its own.
// The row-regex prefilter is derived by the schema grammar
// (keyplan.KeyEncoder.EncodeRegex) alongside the ranges instead.
func (kp KeyPlan) ToRegex() Regex {
	return NoRegex
}

// ColumnFamilyPlanKind tags which ColumnFamilyPlan variant is populated.
type ColumnFamilyPlanKind uint8

const (
	CFAll ColumnFamilyPlanKind = iota
	CFList
)

// ColumnFamilyPlan is the sum type over {CFList, CFAll} (§3).
type ColumnFamilyPlan struct {
	Kind     ColumnFamilyPlanKind
	Families [][]byte // populated when Kind == CFList
}

// AllColumnFamilies returns a ColumnFamilyPlan that fetches every family.
func AllColumnFamilies() ColumnFamilyPlan { return ColumnFamilyPlan{Kind: CFAll} }

// ListColumnFamilies returns a ColumnFamilyPlan restricted to the given families.
func ListColumnFamilies(families [][]byte) ColumnFamilyPlan {
	return ColumnFamilyPlan{Kind: CFList, Families: families}
}

// Priority bands for the iterator stack (§3). Smaller runs first.
const (
	PriorityRowRegex            uint16 = 0
	PriorityColumnFamilyRegex   uint16 = 100
	PrioritySpatioTemporal      uint16 = 200
	PrioritySimpleFeatureFilter uint16 = 300
	PriorityAggregation         uint16 = 400
)

// IteratorStage configures one server-side iterator in the stack (§3).
type IteratorStage struct {
	Priority  uint16
	Name      string
	ClassName string
	Options   map[string]string
}

// StrategyTag names exactly one of the five physical access strategies (§3).
type StrategyTag uint8

const (
	StIdx StrategyTag = iota
	AttrEq
	AttrRange
	AttrLike
	RecordID
)

func (t StrategyTag) String() string {
	switch t {
	case StIdx:
		return "StIdx"
	case AttrEq:
		return "AttrEq"
	case AttrRange:
		return "AttrRange"
	case AttrLike:
		return "AttrLike"
	case RecordID:
		return "RecordId"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// QueryPlan is the compiled output of a Strategy Compiler (§3): ranges,
// column families, and the ordered iterator stack, tagged with the
// strategy that produced it. Immutable once produced; consumed exactly
// once by the Plan Executor Adapter (§3 Lifecycle).
type QueryPlan struct {
	Ranges         []ByteRange
	ColumnFamilies ColumnFamilyPlan
	Iterators      []IteratorStage
	Strategy       StrategyTag

	// Metadata carries optimizer/compiler provenance that doesn't affect
	// execution semantics, e.g. which tables a two-phase strategy used
	// (§4.9). Teacher idiom: planner.Phase.Metadata.
	Metadata map[string]interface{}
}

// Empty reports whether this plan selects zero rows — the §7 EmptyResult
// short-circuit: ranges=[] and no iterators.
func (qp QueryPlan) Empty() bool {
	return len(qp.Ranges) == 0 && len(qp.Iterators) == 0
}

// EmptyPlan returns the canonical zero-result plan for a given strategy.
func EmptyPlan(strategy StrategyTag) QueryPlan {
	return QueryPlan{Strategy: strategy, ColumnFamilies: AllColumnFamilies()}
}

// AddIterator appends a stage and keeps the stack sorted by priority, so
// the executor can install them in ascending order without re-sorting.
func (qp *QueryPlan) AddIterator(stage IteratorStage) {
	i := len(qp.Iterators)
	for i > 0 && qp.Iterators[i-1].Priority > stage.Priority {
		i--
	}
	qp.Iterators = append(qp.Iterators, IteratorStage{})
	copy(qp.Iterators[i+1:], qp.Iterators[i:])
	qp.Iterators[i] = stage
}
