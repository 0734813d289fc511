package compile

import (
	"bytes"
	"fmt"

	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/schema"
)

// AttrRangeCompiler implements §4.6.3: phase 1 scans a byte range over the
// attribute index table; phase 2 is identical to AttrEq. BETWEEN and DURING
// both expand to a closed range; AFTER/BEFORE to half-open ranges.
type AttrRangeCompiler struct{}

func (AttrRangeCompiler) Compile(req Request) (*plan.QueryPlan, error) {
	rng, name, residual, err := deriveRange(req.Filter, defaultDateName(req.Schema))
	if err != nil {
		return nil, err
	}
	if rng.End != nil && bytes.Compare(rng.Start, rng.End) >= 0 {
		// Empty range: §7 EmptyResult short-circuit.
		empty := plan.EmptyPlan(plan.AttrRange)
		return &empty, nil
	}

	qp := &plan.QueryPlan{
		Strategy:       plan.AttrRange,
		Ranges:         []plan.ByteRange{rng},
		ColumnFamilies: plan.AllColumnFamilies(),
		Metadata: map[string]interface{}{
			"phase1Table": req.Tables.AttributeIndex,
			"phase2Table": req.Tables.Record,
			"attrName":    name,
			"twoPhase":    true,
		},
	}
	qp.AddIterator(fineFilterStage(req, residual))
	return qp, nil
}

// defaultDateName resolves the attribute a nameless temporal predicate
// refers to.
func defaultDateName(desc *schema.Descriptor) string {
	if desc != nil {
		if attr, ok := desc.DefaultDateAttr(); ok {
			return attr.Name
		}
	}
	return "dtg"
}

// deriveRange finds the attribute-range-shaped conjunct(s) — a
// PropertyBetween, a TemporalPredicate, or a matched pair of
// PropertyCompare — and builds the phase-1 byte range, with inclusivity
// following the original operator (§4.6.3).
func deriveRange(f filter.Filter, dateAttr string) (plan.ByteRange, string, filter.Filter, error) {
	conjuncts := filter.Conjuncts(f)
	var residual []filter.Filter

	for i, c := range conjuncts {
		switch v := c.(type) {
		case filter.PropertyBetween:
			residual = append(residual, rest(conjuncts, i)...)
			lo := attrIndexKey(v.Name, fmt.Sprintf("%v", v.Lo))
			hiPrefix := attrIndexKey(v.Name, fmt.Sprintf("%v", v.Hi))
			return plan.ByteRange{Start: lo, End: append(append([]byte{}, hiPrefix...), 0x00)}, v.Name, foldResidual(residual), nil
		case filter.PropertyCompare:
			lo, hi, name, consumed := matchComparePair(conjuncts, i)
			if consumed == nil {
				continue
			}
			residual = append(residual, subtract(conjuncts, consumed)...)
			return compareRange(name, lo, hi), name, foldResidual(residual), nil
		case filter.TemporalPredicate:
			name := v.Name
			if name == "" {
				name = dateAttr
			}
			rng, ok := temporalRange(v, name)
			if !ok {
				continue
			}
			residual = append(residual, rest(conjuncts, i)...)
			return rng, name, foldResidual(residual), nil
		}
	}
	return plan.ByteRange{}, "", nil, fmt.Errorf("%w: AttrRange compiler requires a range-shaped conjunct", ErrConfiguration)
}

func rest(conjuncts []filter.Filter, skip int) []filter.Filter {
	var out []filter.Filter
	for i, c := range conjuncts {
		if i != skip {
			out = append(out, c)
		}
	}
	return out
}

func subtract(conjuncts []filter.Filter, consumed []int) []filter.Filter {
	skip := make(map[int]bool, len(consumed))
	for _, i := range consumed {
		skip[i] = true
	}
	var out []filter.Filter
	for i, c := range conjuncts {
		if !skip[i] {
			out = append(out, c)
		}
	}
	return out
}

// matchComparePair finds, starting at index i, a PropertyCompare and (if
// present) a second PropertyCompare against the same attribute name
// forming a closed-open range (e.g. "attr2 >= 11 AND attr2 < 20").
func matchComparePair(conjuncts []filter.Filter, i int) (lo, hi *filter.PropertyCompare, name string, consumed []int) {
	first := conjuncts[i].(filter.PropertyCompare)
	name = first.Name
	consumed = []int{i}
	assign := func(pc filter.PropertyCompare) {
		switch pc.Op {
		case filter.OpGT, filter.OpGTE:
			lo = &pc
		case filter.OpLT, filter.OpLTE:
			hi = &pc
		}
	}
	assign(first)
	for j := i + 1; j < len(conjuncts); j++ {
		other, ok := conjuncts[j].(filter.PropertyCompare)
		if !ok || other.Name != name {
			continue
		}
		assign(other)
		consumed = append(consumed, j)
	}
	return lo, hi, name, consumed
}

func compareRange(name string, lo, hi *filter.PropertyCompare) plan.ByteRange {
	var start, end []byte
	if lo != nil {
		start = attrIndexKey(name, fmt.Sprintf("%v", lo.Literal))
		if lo.Op == filter.OpGT {
			start = append(start, 0x00)
		}
	} else {
		start = attrIndexKey(name, "")
	}
	if hi != nil {
		end = attrIndexKey(name, fmt.Sprintf("%v", hi.Literal))
		if hi.Op == filter.OpLTE {
			end = append(end, 0x00)
		}
	}
	return plan.ByteRange{Start: start, End: end}
}

func temporalRange(v filter.TemporalPredicate, name string) (plan.ByteRange, bool) {
	switch v.Op {
	case filter.TemporalDuring:
		if !v.When.IsRange {
			return plan.ByteRange{}, false
		}
		lo := attrIndexKey(name, v.When.Interval.Start.Format(timeLayout))
		hi := attrIndexKey(name, v.When.Interval.End.Format(timeLayout))
		return plan.ByteRange{Start: lo, End: append(append([]byte{}, hi...), 0x00)}, true
	case filter.TemporalAfter:
		return plan.ByteRange{Start: attrIndexKey(name, v.When.Time.Format(timeLayout))}, true
	case filter.TemporalBefore:
		return plan.ByteRange{Start: attrIndexKey(name, ""), End: attrIndexKey(name, v.When.Time.Format(timeLayout))}, true
	default:
		return plan.ByteRange{}, false
	}
}

const timeLayout = "20060102T150405.000Z"
