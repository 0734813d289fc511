package filter

// Normalize canonicalizes a filter tree (§4.1):
//   - And(And(a,b),c) ≡ And(a,b,c); same for Or. Children are normalized
//     recursively, so nested Ands (and Ors) flatten at every depth that is
//     not beneath a Not.
//   - Not(Not(x)) ≡ x.
//   - Not(And(a,b)) is NOT rewritten — only top-level And is simplified;
//     deeper negations pass through unchanged.
func Normalize(f Filter) Filter {
	switch v := f.(type) {
	case And:
		return And{Children: flattenAnd(v.Children)}
	case Or:
		return Or{Children: flattenOr(v.Children)}
	case Not:
		if inner, ok := v.Child.(Not); ok {
			return Normalize(inner.Child)
		}
		return Not{Child: v.Child}
	default:
		return f
	}
}

func flattenAnd(children []Filter) []Filter {
	var out []Filter
	for _, c := range children {
		normalized := Normalize(c)
		if nested, ok := normalized.(And); ok {
			out = append(out, nested.Children...)
		} else {
			out = append(out, normalized)
		}
	}
	return out
}

func flattenOr(children []Filter) []Filter {
	var out []Filter
	for _, c := range children {
		normalized := Normalize(c)
		if nested, ok := normalized.(Or); ok {
			out = append(out, nested.Children...)
		} else {
			out = append(out, normalized)
		}
	}
	return out
}

// Conjuncts returns [f] unless f is a top-level And, in which case it
// returns its flattened children (§4.1).
func Conjuncts(f Filter) []Filter {
	normalized := Normalize(f)
	if and, ok := normalized.(And); ok {
		return and.Children
	}
	return []Filter{normalized}
}

// RaiseTopLevelIds flattens any IdIn conjunct found at the top level of a
// filter tree — including one nested only inside top-level Ands, which
// Conjuncts already flattens. This is what lets the Decider observe an
// IdIn predicate "at any depth that the flattener raises to top level"
// (§8 invariant 2).
func RaiseTopLevelIds(f Filter) []IdIn {
	var ids []IdIn
	for _, c := range Conjuncts(f) {
		if id, ok := c.(IdIn); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
