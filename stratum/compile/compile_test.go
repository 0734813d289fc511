package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/keyplan"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/schema"
)

type fakeEncoder struct{}

func (fakeEncoder) EncodeRanges(keyplan.KeyPlanningFilter) ([]plan.ByteRange, error) {
	return []plan.ByteRange{{Start: []byte("cell0"), End: []byte("cell1")}}, nil
}
func (fakeEncoder) EncodeRegex(keyplan.KeyPlanningFilter) (plan.Regex, error) {
	return plan.NoRegex, nil
}
func (fakeEncoder) ColumnFamilies(keyplan.KeyPlanningFilter) (plan.ColumnFamilyPlan, error) {
	return plan.AllColumnFamilies(), nil
}

func baseRequest(f filter.Filter) Request {
	return Request{
		Schema:  &schema.Descriptor{TypeName: "test"},
		Filter:  f,
		Tables:  Tables{AttributeIndex: "attr_idx", Record: "records", SpatioTemporal: "st_idx"},
		Encoder: fakeEncoder{},
	}
}

// Scenario 1: attr2 = 'val56' -> AttrEq, phase-1 range attr2\x00val56.
func TestAttrEqCompiler_Scenario1(t *testing.T) {
	qp, err := Compile(plan.AttrEq, baseRequest(filter.PropertyEq{Name: "attr2", Literal: "val56"}))
	require.NoError(t, err)
	require.Equal(t, plan.AttrEq, qp.Strategy)
	require.Len(t, qp.Ranges, 1)
	require.Equal(t, []byte("attr2\x00val56"), qp.Ranges[0].Start)
}

// Scenario 5: attr2 BETWEEN 10 AND 20 -> AttrRange, closed range.
func TestAttrRangeCompiler_Between_Scenario5(t *testing.T) {
	qp, err := Compile(plan.AttrRange, baseRequest(filter.PropertyBetween{Name: "attr2", Lo: 10, Hi: 20}))
	require.NoError(t, err)
	require.Equal(t, plan.AttrRange, qp.Strategy)
	require.Len(t, qp.Ranges, 1)
	require.Equal(t, []byte("attr2\x0010"), qp.Ranges[0].Start)
}

// Scenario 6: attr2 >= 11 AND attr2 < 20 -> AttrRange closed-open.
func TestAttrRangeCompiler_ComparePair_Scenario6(t *testing.T) {
	f := filter.And{Children: []filter.Filter{
		filter.PropertyCompare{Op: filter.OpGTE, Name: "attr2", Literal: 11},
		filter.PropertyCompare{Op: filter.OpLT, Name: "attr2", Literal: 20},
	}}
	qp, err := Compile(plan.AttrRange, baseRequest(f))
	require.NoError(t, err)
	require.Len(t, qp.Ranges, 1)
	require.Equal(t, []byte("attr2\x0011"), qp.Ranges[0].Start)
	require.Equal(t, []byte("attr2\x0020"), qp.Ranges[0].End)
}

// Scenario 10: attr2 DURING 2012-01-01/2014-01-01 -> AttrRange over the
// attribute's own index prefix.
func TestAttrRangeCompiler_TemporalRange_Scenario10(t *testing.T) {
	pred := during(2012, 1, 1, 2014, 1, 1)
	pred.Name = "attr2"
	qp, err := Compile(plan.AttrRange, baseRequest(pred))
	require.NoError(t, err)
	require.Equal(t, plan.AttrRange, qp.Strategy)
	require.Len(t, qp.Ranges, 1)
	require.True(t, len(qp.Ranges[0].Start) > len("attr2\x00"))
	require.Equal(t, "attr2\x00", string(qp.Ranges[0].Start[:len("attr2\x00")]))
	require.Equal(t, "attr_idx", qp.Metadata["phase1Table"])
}

// Scenario 3: attr2 ILIKE '2nd1%' -> AttrLike, range [attr2\x002nd1, attr2\x002nd2).
func TestAttrLikeCompiler_Scenario3(t *testing.T) {
	f := filter.PropertyLike{Name: "attr2", Pattern: "2nd1%", CaseInsensitive: true}
	qp, err := Compile(plan.AttrLike, baseRequest(f))
	require.NoError(t, err)
	require.Equal(t, []byte("attr2\x002nd1"), qp.Ranges[0].Start)
	require.Equal(t, []byte("attr2\x002nd2"), qp.Ranges[0].End)
}

// Scenario 7: IN ('val56') AND INTERSECTS(...) -> RecordId, id dominance.
func TestRecordIDCompiler_Scenario7(t *testing.T) {
	p := sampleBBox()
	f := filter.And{Children: []filter.Filter{
		filter.IdIn{IDs: []string{"val56"}},
		filter.SpatialPredicate{Op: filter.SpatialIntersects, Geometry: p},
	}}
	qp, err := Compile(plan.RecordID, baseRequest(f))
	require.NoError(t, err)
	require.Equal(t, plan.RecordID, qp.Strategy)
	require.Len(t, qp.Ranges, 1)
	require.Equal(t, []byte("val56"), qp.Ranges[0].Start)
}

// Scenario 9/StIdx default: BBOX(geom,...) AND low='y' -> StIdx with coarse
// intersect and fine filter stages installed.
func TestStIdxCompiler_SpatialQuery(t *testing.T) {
	f := filter.And{Children: []filter.Filter{
		filter.SpatialPredicate{Op: filter.SpatialBBox, Geometry: sampleBBox()},
		filter.PropertyEq{Name: "low", Literal: "y"},
	}}
	qp, err := Compile(plan.StIdx, baseRequest(f))
	require.NoError(t, err)
	require.Equal(t, plan.StIdx, qp.Strategy)
	require.Len(t, qp.Iterators, 2)
	require.Equal(t, "SpatioTemporalIntersect", qp.Iterators[0].ClassName)
	require.Equal(t, "SimpleFeatureFilter", qp.Iterators[1].ClassName)
}

type regexEncoder struct{ fakeEncoder }

func (regexEncoder) EncodeRegex(keyplan.KeyPlanningFilter) (plan.Regex, error) {
	return plan.Regex{Pattern: "^cell0.*", Present: true}, nil
}

// When the schema grammar derives a row regex, the band-0 prefilter is
// installed ahead of the coarse and fine stages.
func TestStIdxCompiler_RowRegexPrefilter(t *testing.T) {
	req := baseRequest(filter.SpatialPredicate{Op: filter.SpatialBBox, Geometry: sampleBBox()})
	req.Encoder = regexEncoder{}

	qp, err := Compile(plan.StIdx, req)
	require.NoError(t, err)
	require.Len(t, qp.Iterators, 3)
	require.Equal(t, plan.PriorityRowRegex, qp.Iterators[0].Priority)
	require.Equal(t, "^cell0.*", qp.Iterators[0].Options["regex"])
}

func TestStIdxCompiler_EmptyTemporalIntersection(t *testing.T) {
	f := filter.And{Children: []filter.Filter{
		during(2020, 1, 1, 2020, 2, 1),
		during(2020, 3, 1, 2020, 4, 1),
	}}
	qp, err := Compile(plan.StIdx, baseRequest(f))
	require.NoError(t, err)
	require.True(t, qp.Empty())
}

func TestAttrEqCompiler_MissingConjunct(t *testing.T) {
	_, err := Compile(plan.AttrEq, baseRequest(filter.IncludeAll{}))
	require.Error(t, err)
}
