package memtable

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Priyanshu23/OrderedKV/record"
	"github.com/Priyanshu23/OrderedKV/runfile"
)

// FlushFunc serializes a sorted run of records to a fresh run file and
// returns its descriptor. It is supplied by the caller so the memtable
// itself never touches a filesystem path directly — matching spec.md's
// component boundary between the memory table (B) and run-file I/O (C).
type FlushFunc func(sorted []record.Record) (runfile.Descriptor, error)

// Table is the ordered, bounded in-memory table described in spec.md
// §4.B: an insert-or-update map over record.Record, bounded by Capacity,
// that flushes itself to a fresh run the moment a *new* key would push it
// past capacity.
type Table struct {
	capacity int
	flush    FlushFunc
	log      *zap.SugaredLogger
	t        *tree
}

// New constructs an empty table bounded at capacity records.
func New(capacity int, flush FlushFunc, log *zap.SugaredLogger) *Table {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Table{capacity: capacity, flush: flush, log: log, t: newTree()}
}

// Len reports the table's current record count.
func (m *Table) Len() int { return m.t.size }

// Put implements the state machine from spec.md §4.B:
//   - updating an existing key never flushes, regardless of current size
//     (including exactly at capacity — this is deliberate, see spec.md §9)
//   - inserting a new key below capacity simply inserts
//   - inserting a new key at capacity flushes the current contents first,
//     replaces the tree with an empty one, then inserts the new record
//
// It returns a non-nil *runfile.Descriptor exactly when a flush occurred.
// On flush failure the table is left completely unmodified and the error
// is returned for the caller to retry.
func (m *Table) Put(r record.Record) (*runfile.Descriptor, error) {
	if _, exists := m.t.search(r.Key); exists {
		m.t.insert(r)
		return nil, nil
	}

	if m.t.size < m.capacity {
		m.t.insert(r)
		return nil, nil
	}

	sorted := m.t.inOrder()
	desc, err := m.flush(sorted)
	if err != nil {
		return nil, fmt.Errorf("memtable flush: %w", err)
	}

	m.t = newTree()
	m.t.insert(r)
	m.log.Debugw("memtable flushed on overflow", "file", desc.Filename, "flushed_records", len(sorted))
	return &desc, nil
}

// Get returns the record matching probe's key, or an empty record if
// absent. Only probe.Key is consulted.
func (m *Table) Get(probe record.Record) record.Record {
	rec, ok := m.t.search(probe.Key)
	if !ok {
		return record.Record{}
	}
	return rec
}

// Scan inserts every record whose key lies in [lo.Key, hi.Key] into out.
func (m *Table) Scan(lo, hi record.Record, out *record.Set) {
	m.t.rangeInto(lo.Key, hi.Key, out)
}

// Drain flushes whatever remains in the table (if non-empty) and reports
// the resulting descriptor. Used by Close to persist a partially filled
// table instead of discarding it. Returns (nil, nil) if the table is
// empty.
func (m *Table) Drain() (*runfile.Descriptor, error) {
	if m.t.size == 0 {
		return nil, nil
	}
	sorted := m.t.inOrder()
	desc, err := m.flush(sorted)
	if err != nil {
		return nil, fmt.Errorf("memtable drain: %w", err)
	}
	m.t = newTree()
	return &desc, nil
}
