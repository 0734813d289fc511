package exec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/stratumdb/stratum/stratum/plan"
)

// BadgerStore is a reference Store implementation over BadgerDB, grounded
// on the teacher's storage.BadgerStore. Tables map to key prefixes within a
// single database rather than separate BadgerDB instances, since Badger has
// no native notion of a table.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a BadgerDB database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening badger at %q: %v", ErrStore, path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// CreateBatchScanner implements Store.
func (s *BadgerStore) CreateBatchScanner(ctx context.Context, table string) (ScannerHandle, error) {
	return &badgerScanner{db: s.db, table: table, ctx: ctx}, nil
}

// badgerScanner implements ScannerHandle against a table-prefixed keyspace
// within a single BadgerDB instance.
type badgerScanner struct {
	db     *badger.DB
	table  string
	ctx    context.Context
	ranges []plan.ByteRange
	cfs    [][]byte
	// iterators are recorded for provenance only: the iterator
	// implementations themselves are an external collaborator (§1); this
	// reference store never executes their logic, only records that they
	// were requested, matching the "configuration only" contract (§6).
	iterators []plan.IteratorStage
	active    *badgerEntryIterator
}

func (s *badgerScanner) SetRanges(ranges []plan.ByteRange) error {
	s.ranges = ranges
	return nil
}

func (s *badgerScanner) FetchColumnFamily(cf []byte) error {
	s.cfs = append(s.cfs, cf)
	return nil
}

func (s *badgerScanner) AddScanIterator(stage plan.IteratorStage) error {
	s.iterators = append(s.iterators, stage)
	return nil
}

func (s *badgerScanner) tableKey(k []byte) []byte {
	return append([]byte(s.table+"\x00"), k...)
}

func (s *badgerScanner) Iterator(ctx context.Context) EntryIterator {
	txn := s.db.NewTransaction(false)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)

	entryIt := &badgerEntryIterator{
		it:      it,
		txn:     txn,
		table:   s.table,
		ranges:  s.ranges,
		rangeAt: 0,
	}
	s.active = entryIt
	return entryIt
}

// Close releases the scanner's active iterator and transaction, if one was
// opened. Idempotent: badgerEntryIterator.close guards against double-close.
func (s *badgerScanner) Close() error {
	if s.active != nil {
		s.active.close()
	}
	return nil
}

// badgerEntryIterator walks each configured range in turn, stripping the
// table prefix back off the returned keys.
type badgerEntryIterator struct {
	it      *badger.Iterator
	txn     *badger.Txn
	table   string
	ranges  []plan.ByteRange
	rangeAt int
	started bool
	err     error
	key     []byte
	val     []byte
	closed  bool
}

func (e *badgerEntryIterator) seekCurrentRange() bool {
	for e.rangeAt < len(e.ranges) {
		r := e.ranges[e.rangeAt]
		prefix := []byte(e.table + "\x00")
		start := append(append([]byte{}, prefix...), r.Start...)
		if !e.started {
			e.it.Seek(start)
			e.started = true
		}
		if e.it.ValidForPrefix(prefix) {
			key := e.it.Item().KeyCopy(nil)
			if r.End != nil {
				end := append(append([]byte{}, prefix...), r.End...)
				if bytes.Compare(key, end) >= 0 {
					e.rangeAt++
					e.started = false
					continue
				}
			}
			return true
		}
		e.rangeAt++
		e.started = false
	}
	return false
}

// close discards the transaction backing this iterator. Idempotent.
func (e *badgerEntryIterator) close() {
	if e.closed {
		return
	}
	e.closed = true
	e.it.Close()
	e.txn.Discard()
}

func (e *badgerEntryIterator) Next() bool {
	if e.closed {
		return false
	}
	for {
		if !e.seekCurrentRange() {
			return false
		}
		item := e.it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		if err != nil {
			e.err = err
			return false
		}
		e.key = bytes.TrimPrefix(key, []byte(e.table+"\x00"))
		e.val = val
		e.it.Next()
		return true
	}
}

func (e *badgerEntryIterator) Entry() (Key, Value) {
	return Key(e.key), Value(e.val)
}

func (e *badgerEntryIterator) Err() error {
	return e.err
}
