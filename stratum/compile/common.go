// Package compile implements the five Strategy Compilers (§4.6): each
// translates a filter + schema + query hints into a QueryPlan. Grounded on
// the teacher's planner.Phase/PatternPlan compilation pattern — one
// compiler type per strategy, dispatched by the tag the Decider returns.
package compile

import (
	"fmt"

	"github.com/stratumdb/stratum/stratum/decide"
	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/keyplan"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/schema"
	"github.com/stratumdb/stratum/stratum/spacetime"
)

// Tables names the three physical tables a compiled plan may reference
// (§6: attribute index table, record table, spatio-temporal index table).
type Tables struct {
	AttributeIndex string
	Record         string
	SpatioTemporal string
}

// Options carries the iterator-configuration values a compiler emits into
// option maps (§6 server-side iterator contract): these are already-encoded
// strings (WKT, ECQL, encoded schema) that the core neither interprets nor
// re-encodes.
type Options struct {
	FeatureEncoding string
	EncodedSchema   string
	SFTName         string
	Transforms      []string
	TransformSchema string
	Density         bool
	TemporalDensity bool
	DensityWidth    string
	DensityHeight   string
	DensityBuckets  string
}

// Request bundles everything a Strategy Compiler needs (§4.6): the schema,
// the normalized filter, decision hints, and the tables/options to
// configure iterator stages with.
type Request struct {
	Schema  *schema.Descriptor
	Filter  filter.Filter
	Hints   decide.Hints
	Tables  Tables
	Options Options
	Encoder keyplan.KeyEncoder
}

// Compiler is the single capability every strategy shares (§9 design note:
// "Polymorphic strategies" — a single compile(...) capability, dispatched
// by tag, not a virtual hierarchy).
type Compiler interface {
	Compile(req Request) (*plan.QueryPlan, error)
}

// Compile dispatches to the compiler matching tag. This is the only place
// in the package that switches on StrategyTag; each compiler type otherwise
// knows only its own strategy.
func Compile(tag plan.StrategyTag, req Request) (*plan.QueryPlan, error) {
	var c Compiler
	switch tag {
	case plan.StIdx:
		c = StIdxCompiler{}
	case plan.AttrEq:
		c = AttrEqCompiler{}
	case plan.AttrRange:
		c = AttrRangeCompiler{}
	case plan.AttrLike:
		c = AttrLikeCompiler{}
	case plan.RecordID:
		c = RecordIDCompiler{}
	default:
		return nil, fmt.Errorf("%w: unrecognized strategy tag %v", ErrConfiguration, tag)
	}
	return c.Compile(req)
}

// residualECQL renders a residual filter's placeholder ECQL text. The real
// filter-to-ECQL serializer is an external collaborator (§1); this package
// only needs a stable, non-empty string to carry in the ECQL_FILTER option
// when a residual is present.
func residualECQL(f filter.Filter) (string, bool) {
	switch f.(type) {
	case nil:
		return "", false
	case filter.IncludeAll:
		return "", false
	default:
		return f.String(), true
	}
}

// fineFilterStage builds the band-300 SimpleFeatureFilter iterator (§4.6.1
// step 3), optionally dropping its projection when density is requested
// (§9 open question: density overrides projection).
func fineFilterStage(req Request, residual filter.Filter) plan.IteratorStage {
	opts := map[string]string{
		"FEATURE_ENCODING": req.Options.FeatureEncoding,
		"SFT":              req.Options.EncodedSchema,
		"SFT_NAME":         req.Options.SFTName,
		"DEFAULT_SCHEMA":   req.Options.EncodedSchema,
	}
	if ecql, ok := residualECQL(residual); ok {
		opts["ECQL_FILTER"] = ecql
	}
	if !req.Options.Density && !req.Options.TemporalDensity {
		if len(req.Options.Transforms) > 0 {
			opts["TRANSFORMS"] = joinTransforms(req.Options.Transforms)
			opts["TRANSFORM_SCHEMA"] = req.Options.TransformSchema
		}
	}
	return plan.IteratorStage{
		Priority:  plan.PrioritySimpleFeatureFilter,
		Name:      "simple-feature-filter",
		ClassName: "SimpleFeatureFilter",
		Options:   opts,
	}
}

// densityStage builds the band-400 Aggregation iterator when density output
// is requested (§4.6.1 step 4).
func densityStage(req Request) (plan.IteratorStage, error) {
	if req.Options.DensityWidth == "" || req.Options.DensityHeight == "" {
		return plan.IteratorStage{}, fmt.Errorf("%w: density plan requires width and height", ErrConfiguration)
	}
	return plan.IteratorStage{
		Priority:  plan.PriorityAggregation,
		Name:      "density",
		ClassName: "Aggregation",
		Options: map[string]string{
			"WIDTH":   req.Options.DensityWidth,
			"HEIGHT":  req.Options.DensityHeight,
			"BUCKETS": req.Options.DensityBuckets,
		},
	}, nil
}

func joinTransforms(ts []string) string {
	out := ""
	for i, t := range ts {
		if i > 0 {
			out += ";"
		}
		out += t
	}
	return out
}

// extractSpaceTime runs the Space-Time Extractor over the request's
// conjuncts, a convenience shared by StIdx and any other compiler that needs
// residual/polygon/interval decomposition.
func extractSpaceTime(req Request) spacetime.Query {
	return spacetime.Extract(filter.Conjuncts(req.Filter))
}
