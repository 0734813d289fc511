package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_FlattensNestedAnd(t *testing.T) {
	f := And{Children: []Filter{
		And{Children: []Filter{
			PropertyEq{Name: "a", Literal: 1},
			PropertyEq{Name: "b", Literal: 2},
		}},
		PropertyEq{Name: "c", Literal: 3},
	}}

	out := Normalize(f)
	and, ok := out.(And)
	require.True(t, ok)
	require.Len(t, and.Children, 3)
	require.Equal(t, PropertyEq{Name: "a", Literal: 1}, and.Children[0])
	require.Equal(t, PropertyEq{Name: "c", Literal: 3}, and.Children[2])
}

func TestNormalize_FlattensNestedOr(t *testing.T) {
	f := Or{Children: []Filter{
		Or{Children: []Filter{
			PropertyEq{Name: "a", Literal: 1},
			PropertyEq{Name: "b", Literal: 2},
		}},
		PropertyEq{Name: "c", Literal: 3},
	}}

	out := Normalize(f)
	or, ok := out.(Or)
	require.True(t, ok)
	require.Len(t, or.Children, 3)
}

func TestNormalize_DoubleNegation(t *testing.T) {
	inner := PropertyEq{Name: "a", Literal: 1}
	out := Normalize(Not{Child: Not{Child: inner}})
	require.Equal(t, inner, out)
}

func TestNormalize_NotAndPassesThrough(t *testing.T) {
	f := Not{Child: And{Children: []Filter{
		PropertyEq{Name: "a", Literal: 1},
		PropertyEq{Name: "b", Literal: 2},
	}}}

	out := Normalize(f)
	not, ok := out.(Not)
	require.True(t, ok)
	_, ok = not.Child.(And)
	require.True(t, ok)
}

func TestConjuncts_NonAndReturnsSingleton(t *testing.T) {
	f := PropertyEq{Name: "a", Literal: 1}
	require.Equal(t, []Filter{f}, Conjuncts(f))
}

func TestConjuncts_TopLevelAndReturnsFlattenedChildren(t *testing.T) {
	f := And{Children: []Filter{
		PropertyEq{Name: "a", Literal: 1},
		And{Children: []Filter{
			PropertyEq{Name: "b", Literal: 2},
			PropertyEq{Name: "c", Literal: 3},
		}},
	}}
	require.Len(t, Conjuncts(f), 3)
}

func TestRaiseTopLevelIds_NestedInsideTopLevelAnd(t *testing.T) {
	f := And{Children: []Filter{
		And{Children: []Filter{
			IdIn{IDs: []string{"id1"}},
		}},
		PropertyEq{Name: "a", Literal: 1},
	}}

	ids := RaiseTopLevelIds(f)
	require.Len(t, ids, 1)
	require.Equal(t, []string{"id1"}, ids[0].IDs)
}

func TestRaiseTopLevelIds_IgnoresDisjunctiveIds(t *testing.T) {
	f := Or{Children: []Filter{
		IdIn{IDs: []string{"id1"}},
		PropertyEq{Name: "a", Literal: 1},
	}}
	require.Empty(t, RaiseTopLevelIds(f))
}
