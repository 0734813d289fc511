package compile

import (
	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/plan"
)

// RecordIDCompiler implements §4.6.5: id dominance. Extracts the id set
// from every top-level IdIn conjunct (union across multiple IdIns in the
// same AND), scans the record table as a KeyList, and pushes every other
// conjunct down as a band-300 fine filter.
type RecordIDCompiler struct{}

func (RecordIDCompiler) Compile(req Request) (*plan.QueryPlan, error) {
	conjuncts := filter.Conjuncts(req.Filter)

	seen := make(map[string]bool)
	var ids []string
	var residual []filter.Filter
	for _, c := range conjuncts {
		if idIn, ok := c.(filter.IdIn); ok {
			for _, id := range idIn.IDs {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
			continue
		}
		residual = append(residual, c)
	}

	ranges := make([]plan.ByteRange, len(ids))
	for i, id := range ids {
		key := []byte(id)
		ranges[i] = plan.ByteRange{Start: key, End: append(append([]byte{}, key...), 0x00)}
	}

	qp := &plan.QueryPlan{
		Strategy:       plan.RecordID,
		Ranges:         ranges,
		ColumnFamilies: plan.AllColumnFamilies(),
		Metadata: map[string]interface{}{
			"recordTable": req.Tables.Record,
			"ids":         ids,
		},
	}
	qp.AddIterator(fineFilterStage(req, foldResidual(residual)))
	return qp, nil
}
