// Package exec implements the Plan Executor Adapter (§4.7): it binds a
// QueryPlan onto a batch-scanner handle of the store and returns a lazy,
// closeable sequence of (Key,Value) entries. Grounded on the teacher's
// storage.Store/storage.Iterator contract and its BadgerStore
// implementation, adapted from a Datom scan interface to the sorted
// key-value scan-range contract this planner compiles against.
package exec

import (
	"context"

	"github.com/stratumdb/stratum/stratum/plan"
)

// Key and Value are opaque row/cell identifiers; the feature codec that
// decodes them is an external collaborator (§1).
type Key []byte
type Value []byte

// Store is the external store collaborator (§6): it opens batch scanners
// against a named table.
type Store interface {
	CreateBatchScanner(ctx context.Context, table string) (ScannerHandle, error)
}

// ScannerHandle is a scoped, resource-owning scanner over one table (§6).
// Its Close is idempotent and must run on every exit path (§5).
type ScannerHandle interface {
	SetRanges(ranges []plan.ByteRange) error
	FetchColumnFamily(cf []byte) error
	AddScanIterator(stage plan.IteratorStage) error
	Iterator(ctx context.Context) EntryIterator
	Close() error
}

// EntryIterator is a single-consumer lazy pull sequence (§5).
type EntryIterator interface {
	Next() bool
	Entry() (Key, Value)
	Err() error
}
