package compile

import (
	"fmt"
	"strings"

	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/plan"
)

// AttrLikeCompiler implements §4.6.4: the Decider only ever routes here with
// a pattern already validated as "literal%" (one or more trailing '%', no
// other wildcard) — any other pattern falls back to StIdx at the Decider
// layer, so this compiler never has to re-validate the shape (§4.8).
type AttrLikeCompiler struct{}

func (AttrLikeCompiler) Compile(req Request) (*plan.QueryPlan, error) {
	like, residual, ok := findPropertyLike(req.Filter)
	if !ok {
		return nil, fmt.Errorf("%w: AttrLike compiler requires a PropertyLike conjunct", ErrConfiguration)
	}

	prefix := strings.TrimRight(like.Pattern, "%")
	floor := attrIndexKey(like.Name, prefix)
	ceiling := incrementBytes(floor)

	qp := &plan.QueryPlan{
		Strategy:       plan.AttrLike,
		Ranges:         []plan.ByteRange{{Start: floor, End: ceiling}},
		ColumnFamilies: plan.AllColumnFamilies(),
		Metadata: map[string]interface{}{
			"phase1Table": req.Tables.AttributeIndex,
			"phase2Table": req.Tables.Record,
			"attrName":    like.Name,
			"twoPhase":    true,
		},
	}
	qp.AddIterator(fineFilterStage(req, residual))
	return qp, nil
}

// incrementBytes increments the last byte of a prefix to form the ceiling of
// a prefix scan; an unbounded upper is returned (nil) when the last byte is
// already 0xFF (§4.6.4).
func incrementBytes(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	if prefix[len(prefix)-1] == 0xFF {
		return nil
	}
	out := append([]byte{}, prefix...)
	out[len(out)-1]++
	return out
}

func findPropertyLike(f filter.Filter) (filter.PropertyLike, filter.Filter, bool) {
	conjuncts := filter.Conjuncts(f)
	var found filter.PropertyLike
	var residual []filter.Filter
	matched := false
	for _, c := range conjuncts {
		if like, ok := c.(filter.PropertyLike); ok && !matched {
			found = like
			matched = true
			continue
		}
		residual = append(residual, c)
	}
	if !matched {
		return filter.PropertyLike{}, nil, false
	}
	return found, foldResidual(residual), true
}
