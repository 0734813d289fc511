// Package decide implements the Strategy Decider (§4.4): it inspects a
// normalized filter tree against a schema and cardinality hints and picks
// exactly one physical access strategy.
package decide

import (
	"regexp"
	"sort"

	"github.com/stratumdb/stratum/stratum/cardinality"
	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/schema"
	"github.com/stratumdb/stratum/stratum/spacetime"
)

// likePrefixPattern matches a LIKE pattern that is a literal prefix followed
// by one or more '%' with no other wildcard characters (§4.4 rule 4).
var likePrefixPattern = regexp.MustCompile(`^[^%_]*%+$`)

// Hints carries query-time options passed alongside a filter, e.g. a
// request for density output. Choose accepts them but none of its rules
// read them; the compilers take density settings from compile.Options.
type Hints struct {
	Density         bool
	TemporalDensity bool
}

// Choose applies the §4.4 decision table in order; the first rule that
// matches wins. Filter is expected to already be normalized by
// filter.Normalize; Choose re-derives conjuncts itself so callers can pass
// either form.
func Choose(desc *schema.Descriptor, f filter.Filter, hints Hints, version int) plan.StrategyTag {
	// Rule 1: legacy version bypass.
	if version <= 0 {
		return plan.StIdx
	}

	conjuncts := filter.Conjuncts(f)

	// Rule 2: id predicate dominance, at any depth the flattener raises to
	// top level.
	if len(filter.RaiseTopLevelIds(f)) > 0 {
		return plan.RecordID
	}

	// Rule 3: high-cardinality attribute equality. Canonicalize by
	// attribute name before matching so the result is stable across
	// reorderings of the conjunct list (§8 invariant 1, invariant 3).
	eqConjuncts := sortedPropertyEqs(conjuncts)
	for _, eq := range eqConjuncts {
		attr, ok := desc.ByName(eq.Name)
		if ok && attr.Indexed && cardinality.Of(attr) == schema.High {
			return plan.AttrEq
		}
	}

	// Rule 4: pure attribute query (no space/time).
	stq := spacetime.Extract(conjuncts)
	if stq.Polygon == nil && stq.Interval == nil {
		if tag, ok := pureAttributeStrategy(desc, conjuncts); ok {
			return tag
		}
	}

	// Rule 5: low-cardinality attribute with spatial predicate present.
	if hasLowCardinalityIndexedOnly(desc, conjuncts) && hasSpatial(conjuncts) {
		return plan.StIdx
	}

	// Rule 6: default.
	return plan.StIdx
}

// sortedPropertyEqs extracts top-level PropertyEq conjuncts, sorted by
// attribute name, so tie-breaking among multiple HIGH-cardinality equality
// conjuncts is independent of input order.
func sortedPropertyEqs(conjuncts []filter.Filter) []filter.PropertyEq {
	var eqs []filter.PropertyEq
	for _, c := range conjuncts {
		if eq, ok := c.(filter.PropertyEq); ok {
			eqs = append(eqs, eq)
		}
	}
	sort.Slice(eqs, func(i, j int) bool { return eqs[i].Name < eqs[j].Name })
	return eqs
}

// pureAttributeStrategy implements §4.4 rule 4's sub-cases.
func pureAttributeStrategy(desc *schema.Descriptor, conjuncts []filter.Filter) (plan.StrategyTag, bool) {
	for _, c := range conjuncts {
		switch v := c.(type) {
		case filter.PropertyEq:
			if attr, ok := desc.ByName(v.Name); ok && attr.Indexed {
				return plan.AttrEq, true
			}
		case filter.PropertyLike:
			if attr, ok := desc.ByName(v.Name); ok && attr.Indexed && attr.Type == schema.TypeString &&
				likePrefixPattern.MatchString(v.Pattern) {
				return plan.AttrLike, true
			}
		case filter.PropertyBetween:
			if attr, ok := desc.ByName(v.Name); ok && attr.Indexed {
				return plan.AttrRange, true
			}
		case filter.PropertyCompare:
			if attr, ok := desc.ByName(v.Name); ok && attr.Indexed {
				return plan.AttrRange, true
			}
		case filter.TemporalPredicate:
			// DURING/AFTER/BEFORE on an indexed attribute; an empty Name
			// references the default date attribute.
			var attr *schema.AttributeDescriptor
			var ok bool
			if v.Name == "" {
				attr, ok = desc.DefaultDateAttr()
			} else {
				attr, ok = desc.ByName(v.Name)
			}
			if ok && attr.Indexed {
				return plan.AttrRange, true
			}
		}
	}
	return plan.StIdx, false
}

func hasLowCardinalityIndexedOnly(desc *schema.Descriptor, conjuncts []filter.Filter) bool {
	found := false
	for _, c := range conjuncts {
		eq, ok := c.(filter.PropertyEq)
		if !ok {
			continue
		}
		attr, ok := desc.ByName(eq.Name)
		if !ok || !attr.Indexed {
			continue
		}
		if cardinality.Of(attr) != schema.Low {
			return false
		}
		found = true
	}
	return found
}

func hasSpatial(conjuncts []filter.Filter) bool {
	for _, c := range conjuncts {
		if _, ok := c.(filter.SpatialPredicate); ok {
			return true
		}
	}
	return false
}
