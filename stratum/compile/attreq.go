package compile

import (
	"fmt"

	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/plan"
)

// AttrEqCompiler implements §4.6.2: a two-phase scan over the attribute
// index table followed by the record table. The plan carries only the
// phase-1 range; Metadata names the two tables and the attribute, and the
// Plan Executor Adapter materializes the phase-1 ids at bind time to drive
// phase 2.
type AttrEqCompiler struct{}

func (AttrEqCompiler) Compile(req Request) (*plan.QueryPlan, error) {
	eq, residual, ok := findPropertyEq(req.Filter)
	if !ok {
		return nil, fmt.Errorf("%w: AttrEq compiler requires a PropertyEq conjunct", ErrConfiguration)
	}

	literal := fmt.Sprintf("%v", eq.Literal)
	phase1Start := attrIndexKey(eq.Name, literal)
	phase1End := append(append([]byte{}, phase1Start...), 0x00)

	qp := &plan.QueryPlan{
		Strategy:       plan.AttrEq,
		Ranges:         []plan.ByteRange{{Start: phase1Start, End: phase1End}},
		ColumnFamilies: plan.AllColumnFamilies(),
		Metadata: map[string]interface{}{
			"phase1Table": req.Tables.AttributeIndex,
			"phase2Table": req.Tables.Record,
			"attrName":    eq.Name,
			"attrLiteral": literal,
			"twoPhase":    true,
		},
	}
	qp.AddIterator(fineFilterStage(req, residual))
	return qp, nil
}

// attrIndexKey builds the phase-1 row-key prefix "name\x00literal" (§4.6.2).
func attrIndexKey(name, literal string) []byte {
	return append([]byte(name+"\x00"), []byte(literal)...)
}

// findPropertyEq locates the top-level PropertyEq conjunct this compiler was
// chosen for, and folds the remaining conjuncts into a residual filter.
func findPropertyEq(f filter.Filter) (filter.PropertyEq, filter.Filter, bool) {
	conjuncts := filter.Conjuncts(f)
	var found filter.PropertyEq
	var residual []filter.Filter
	matched := false
	for _, c := range conjuncts {
		if eq, ok := c.(filter.PropertyEq); ok && !matched {
			found = eq
			matched = true
			continue
		}
		residual = append(residual, c)
	}
	if !matched {
		return filter.PropertyEq{}, nil, false
	}
	return found, foldResidual(residual), true
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
