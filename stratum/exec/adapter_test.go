package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/stratum/annotations"
	"github.com/stratumdb/stratum/stratum/compile"
	"github.com/stratumdb/stratum/stratum/plan"
)

type fakeHandle struct {
	table     string
	entries   []fakeEntry
	closed    bool
	ranges    []plan.ByteRange
	iterators []plan.IteratorStage
}

type fakeEntry struct {
	key, val string
}

func (h *fakeHandle) SetRanges(ranges []plan.ByteRange) error {
	h.ranges = ranges
	return nil
}
func (h *fakeHandle) FetchColumnFamily([]byte) error { return nil }
func (h *fakeHandle) AddScanIterator(stage plan.IteratorStage) error {
	h.iterators = append(h.iterators, stage)
	return nil
}
func (h *fakeHandle) Iterator(ctx context.Context) EntryIterator {
	return &fakeIterator{entries: h.entries, pos: -1}
}
func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type fakeIterator struct {
	entries []fakeEntry
	pos     int
}

func (it *fakeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.entries)
}
func (it *fakeIterator) Entry() (Key, Value) {
	e := it.entries[it.pos]
	return Key(e.key), Value(e.val)
}
func (it *fakeIterator) Err() error { return nil }

type fakeStore struct {
	handles map[string]*fakeHandle
}

func (s *fakeStore) CreateBatchScanner(ctx context.Context, table string) (ScannerHandle, error) {
	h, ok := s.handles[table]
	if !ok {
		h = &fakeHandle{table: table}
	}
	return h, nil
}

func testTables() compile.Tables {
	return compile.Tables{AttributeIndex: "attr_idx", Record: "records", SpatioTemporal: "st_idx"}
}

func TestAdapter_Bind_SinglePhase(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{
		"records": {entries: []fakeEntry{{key: "id1", val: "feature1"}}},
	}}
	adapter := &Adapter{Store: store}

	qp := &plan.QueryPlan{
		Strategy: plan.RecordID,
		Ranges:   []plan.ByteRange{{Start: []byte("id1")}},
	}
	seq, err := adapter.Bind(context.Background(), qp, testTables())
	require.NoError(t, err)
	defer seq.Close()

	require.True(t, seq.Next())
	k, v := seq.Entry()
	require.Equal(t, "id1", string(k))
	require.Equal(t, "feature1", string(v))
	require.False(t, seq.Next())
}

func TestAdapter_Bind_TwoPhase(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{
		"attr_idx": {entries: []fakeEntry{{key: "attr2\x00val56", val: "id1"}}},
		"records":  {entries: []fakeEntry{{key: "id1", val: "feature1"}}},
	}}
	adapter := &Adapter{Store: store}

	qp := &plan.QueryPlan{
		Strategy: plan.AttrEq,
		Ranges:   []plan.ByteRange{{Start: []byte("attr2\x00val56")}},
		Metadata: map[string]interface{}{"twoPhase": true},
	}
	seq, err := adapter.Bind(context.Background(), qp, testTables())
	require.NoError(t, err)
	defer seq.Close()

	require.True(t, seq.Next())
	k, _ := seq.Entry()
	require.Equal(t, "id1", string(k))
	require.False(t, seq.Next())

	require.NoError(t, seq.Close())
	// attr_idx scanner is always closed via defer inside bindTwoPhase.
	require.True(t, store.handles["attr_idx"].closed)
	require.True(t, store.handles["records"].closed)
}

func TestAdapter_Bind_EmptyPlanShortCircuits(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{}}
	adapter := &Adapter{Store: store}

	qp := plan.EmptyPlan(plan.StIdx)
	seq, err := adapter.Bind(context.Background(), &qp, testTables())
	require.NoError(t, err)
	require.False(t, seq.Next())
}

func TestAdapter_Bind_AnnotatesLifecycle(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{
		"attr_idx": {entries: []fakeEntry{{key: "attr2\x00val56", val: "id1"}}},
		"records":  {entries: []fakeEntry{{key: "id1", val: "feature1"}}},
	}}
	collector := annotations.NewCollector(func(annotations.Event) {})
	adapter := &Adapter{Store: store, Annotations: collector}

	qp := &plan.QueryPlan{
		Strategy: plan.AttrEq,
		Ranges:   []plan.ByteRange{{Start: []byte("attr2\x00val56")}},
		Metadata: map[string]interface{}{"twoPhase": true},
	}
	seq, err := adapter.Bind(context.Background(), qp, testTables())
	require.NoError(t, err)
	require.NoError(t, seq.Close())

	var names []string
	for _, ev := range collector.Events() {
		names = append(names, ev.Name)
	}
	require.Equal(t, []string{
		annotations.BindBegin,
		annotations.BindPhase1Scan,
		annotations.BindComplete,
		annotations.BindClosed,
	}, names)
}

func TestAdapter_NilCollectorIsSilent(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{
		"st_idx": {entries: nil},
	}}
	adapter := &Adapter{Store: store}
	qp := &plan.QueryPlan{Strategy: plan.StIdx, Ranges: []plan.ByteRange{{Start: []byte("x")}}}
	seq, err := adapter.Bind(context.Background(), qp, testTables())
	require.NoError(t, err)
	require.NoError(t, seq.Close())
}

func TestAdapter_Close_Idempotent(t *testing.T) {
	store := &fakeStore{handles: map[string]*fakeHandle{
		"st_idx": {entries: nil},
	}}
	adapter := &Adapter{Store: store}
	qp := &plan.QueryPlan{Strategy: plan.StIdx, Ranges: []plan.ByteRange{{Start: []byte("x")}}}
	seq, err := adapter.Bind(context.Background(), qp, testTables())
	require.NoError(t, err)
	require.NoError(t, seq.Close())
	require.NoError(t, seq.Close())
}
