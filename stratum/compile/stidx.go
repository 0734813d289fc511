package compile

import (
	"strconv"

	"github.com/stratumdb/stratum/stratum/keyplan"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/spacetime"
)

// StIdxCompiler implements §4.6.1: the spatio-temporal index strategy.
type StIdxCompiler struct{}

func (StIdxCompiler) Compile(req Request) (*plan.QueryPlan, error) {
	stq := extractSpaceTime(req)
	if stq.ExcludeAll() {
		empty := plan.EmptyPlan(plan.StIdx)
		return &empty, nil
	}

	kpf := keyplan.NewKeyPlanningFilter(stq.Polygon, stq.Interval)
	keyPlan, err := keyplan.GetKeyPlan(req.Encoder, kpf)
	if err != nil {
		return nil, err
	}
	cfPlan, err := keyplan.GetColumnFamiliesToFetch(req.Encoder, kpf)
	if err != nil {
		return nil, err
	}

	qp := &plan.QueryPlan{
		Strategy:       plan.StIdx,
		Ranges:         rangesOf(keyPlan),
		ColumnFamilies: cfPlan,
	}
	if keyPlan.Empty() {
		return qp, nil
	}

	regex, err := req.Encoder.EncodeRegex(kpf)
	if err != nil {
		return nil, err
	}
	if stage, ok := keyplan.RowRegexStage(regex); ok {
		qp.AddIterator(stage)
	}

	coarseOpts, err := coarseOptions(req, stq)
	if err != nil {
		return nil, err
	}
	qp.AddIterator(plan.IteratorStage{
		Priority:  plan.PrioritySpatioTemporal,
		Name:      "spatio-temporal-intersect",
		ClassName: "SpatioTemporalIntersect",
		Options:   coarseOpts,
	})
	qp.AddIterator(fineFilterStage(req, stq.Residual))

	if req.Options.Density || req.Options.TemporalDensity {
		stage, err := densityStage(req)
		if err != nil {
			return nil, err
		}
		qp.AddIterator(stage)
	}

	return qp, nil
}

// coarseOptions builds the §4.6.1 step-2 SpatioTemporalIntersect option map:
// SFT (encoded schema), ST_FILTER (polygon WKB) when a polygon is present,
// and INTERVAL (epoch millis "start,end") when an interval is present. No
// key schema string is included.
func coarseOptions(req Request, stq spacetime.Query) (map[string]string, error) {
	opts := map[string]string{
		"SFT": req.Options.EncodedSchema,
	}
	if stq.Polygon != nil {
		wkb, err := stq.Polygon.WKB()
		if err != nil {
			return nil, err
		}
		opts["ST_FILTER"] = string(wkb)
	}
	if stq.Interval != nil {
		opts["INTERVAL"] = strconv.FormatInt(stq.Interval.Start.UnixMilli(), 10) + "," +
			strconv.FormatInt(stq.Interval.End.UnixMilli(), 10)
	}
	return opts, nil
}

func rangesOf(kp plan.KeyPlan) []plan.ByteRange {
	switch kp.Kind {
	case plan.KeyRanges:
		return kp.Ranges
	case plan.KeyList:
		ranges := make([]plan.ByteRange, len(kp.Keys))
		for i, k := range kp.Keys {
			ranges[i] = plan.ByteRange{Start: k, End: append(append([]byte{}, k...), 0x00)}
		}
		return ranges
	case plan.KeyAcceptAll:
		// A single range with nil bounds scans the whole table.
		return []plan.ByteRange{{}}
	default:
		return nil
	}
}
