package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/stratumdb/stratum/stratum/annotations"
	"github.com/stratumdb/stratum/stratum/compile"
	"github.com/stratumdb/stratum/stratum/plan"
)

// Adapter binds compiled QueryPlans onto a Store (§4.7).
type Adapter struct {
	Store Store

	// Annotations optionally receives bind-lifecycle events. Nil disables
	// instrumentation; disabling it never changes what a bind does (§5
	// shared state: instrumentation lives outside the planner).
	Annotations *annotations.Collector
}

func (a *Adapter) annotate(name string, data map[string]interface{}) {
	if a.Annotations == nil {
		return
	}
	now := time.Now()
	a.Annotations.Add(annotations.Event{Name: name, Start: now, End: now, Data: data})
}

// ResultSequence is the lazy, closeable sequence of (Key,Value) entries a
// bound plan produces. Close is idempotent and releases the scanner the
// sequence reads from (§4.7, §5); the auxiliary phase-1 scanner of a
// two-phase strategy is already closed by Bind once its ids are read.
type ResultSequence struct {
	primary     EntryIterator
	handles     []ScannerHandle
	closed      bool
	annotations *annotations.Collector
}

// Next advances the sequence.
func (r *ResultSequence) Next() bool {
	if r.primary == nil {
		return false
	}
	return r.primary.Next()
}

// Entry returns the current (Key,Value) pair.
func (r *ResultSequence) Entry() (Key, Value) {
	return r.primary.Entry()
}

// Err returns any error surfaced during iteration (§7 StoreError).
func (r *ResultSequence) Err() error {
	if r.primary == nil {
		return nil
	}
	if err := r.primary.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// Close releases every scanner handle the bind opened. Idempotent: a
// second call is a no-op (§5 Cancellation).
func (r *ResultSequence) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	for _, h := range r.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.annotations != nil {
		now := time.Now()
		r.annotations.Add(annotations.Event{Name: annotations.BindClosed, Start: now, End: now})
	}
	return firstErr
}

// isTwoPhase reports whether the plan's strategy materializes a phase-1 id
// scan before binding phase 2 (§4.6.2, §4.6.3, §4.6.4).
func isTwoPhase(qp *plan.QueryPlan) bool {
	twoPhase, _ := qp.Metadata["twoPhase"].(bool)
	return twoPhase
}

// Bind implements §4.7: sets ranges, fetches column families, installs the
// iterator stack in priority order, and returns a lazy closeable sequence.
// Single-phase strategies (StIdx, RecordId) bind directly; two-phase
// strategies (AttrEq, AttrRange, AttrLike) first scan the attribute index
// table to materialize an id list in memory, then bind phase 2 against the
// record table using that id list as a KeyList. The phase-1 scanner is
// closed before Bind returns; the phase-2 scanner is closed by the
// returned sequence's Close.
func (a *Adapter) Bind(ctx context.Context, qp *plan.QueryPlan, tables compile.Tables) (*ResultSequence, error) {
	start := time.Now()
	a.annotate(annotations.BindBegin, map[string]interface{}{"strategy": qp.Strategy.String()})

	var seq *ResultSequence
	var err error
	switch {
	case qp.Empty():
		seq = &ResultSequence{}
	case isTwoPhase(qp):
		seq, err = a.bindTwoPhase(ctx, qp, tables)
	default:
		seq, err = a.bindSinglePhase(ctx, qp, tables)
	}
	if err != nil {
		return nil, err
	}

	seq.annotations = a.Annotations
	if a.Annotations != nil {
		a.Annotations.AddTiming(annotations.BindComplete, start, map[string]interface{}{
			"strategy": qp.Strategy.String(),
			"ranges":   len(qp.Ranges),
		})
	}
	return seq, nil
}

func (a *Adapter) bindSinglePhase(ctx context.Context, qp *plan.QueryPlan, tables compile.Tables) (*ResultSequence, error) {
	table := tables.Record
	if qp.Strategy == plan.StIdx {
		table = tables.SpatioTemporal
	}

	handle, err := a.Store.CreateBatchScanner(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := installPlan(handle, qp); err != nil {
		handle.Close()
		return nil, err
	}
	return &ResultSequence{primary: handle.Iterator(ctx), handles: []ScannerHandle{handle}}, nil
}

func (a *Adapter) bindTwoPhase(ctx context.Context, qp *plan.QueryPlan, tables compile.Tables) (*ResultSequence, error) {
	phase1, err := a.Store.CreateBatchScanner(ctx, tables.AttributeIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer phase1.Close()

	if err := phase1.SetRanges(qp.Ranges); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	var ids []plan.ByteRange
	it := phase1.Iterator(ctx)
	for it.Next() {
		_, v := it.Entry()
		key := append([]byte{}, v...)
		ids = append(ids, plan.ByteRange{Start: key, End: append(append([]byte{}, key...), 0x00)})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	a.annotate(annotations.BindPhase1Scan, map[string]interface{}{"ids": len(ids)})

	phase2, err := a.Store.CreateBatchScanner(ctx, tables.Record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := phase2.SetRanges(ids); err != nil {
		phase2.Close()
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	for _, stage := range qp.Iterators {
		if err := phase2.AddScanIterator(stage); err != nil {
			phase2.Close()
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	return &ResultSequence{primary: phase2.Iterator(ctx), handles: []ScannerHandle{phase2}}, nil
}

func installPlan(handle ScannerHandle, qp *plan.QueryPlan) error {
	if err := handle.SetRanges(qp.Ranges); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if qp.ColumnFamilies.Kind == plan.CFList {
		for _, cf := range qp.ColumnFamilies.Families {
			if err := handle.FetchColumnFamily(cf); err != nil {
				return fmt.Errorf("%w: %v", ErrStore, err)
			}
		}
	}
	for _, stage := range qp.Iterators {
		if err := handle.AddScanIterator(stage); err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
	}
	return nil
}
