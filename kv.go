// Package orderedkv is an embedded, single-process, ordered key-value
// store over a closed set of scalar types: a bounded in-memory table
// (memtable) that flushes to immutable sorted run files, indexed by a
// catalog that supports newest-wins point lookup and ordered range scans
// merging oldest-to-newest (spec.md §1-§2).
package orderedkv

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Priyanshu23/OrderedKV/catalog"
	"github.com/Priyanshu23/OrderedKV/internal/obs"
	"github.com/Priyanshu23/OrderedKV/memtable"
	"github.com/Priyanshu23/OrderedKV/record"
	"github.com/Priyanshu23/OrderedKV/runfile"
)

// DB is the embedding API's handle: exactly the Open/Close/Put/Get/Scan
// surface of spec.md §6, plus Stats() for operators. Not safe for
// concurrent use — spec.md §5 defines no concurrency model, and none is
// added here.
type DB struct {
	dir  string
	opts Options
	log  *zap.SugaredLogger

	mt  *memtable.Table
	wr  *runfile.Writer
	cat *catalog.Catalog

	open bool
}

// Open creates dir if it does not already exist, reloads whatever
// catalog it finds there (an absent Index.sst simply means a fresh
// database), and returns a ready handle. A present-but-unparseable
// catalog is fatal, per spec.md §7.
func Open(dir string, opts Options) (*DB, error) {
	if opts.MemtableCapacity <= 0 {
		return nil, fmt.Errorf("%w: MemtableCapacity must be positive", ErrInvalidArgument)
	}

	log := obs.OrDefault(opts.Logger)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageIOErr("mkdir", dir, err)
	}

	cat := catalog.New(dir, opts.EncryptKey, log)
	if err := cat.ReloadCatalog(); err != nil {
		return nil, err
	}

	wr := runfile.NewWriter(dir, opts.runfileOptions(), log)
	wr.Seed(cat.Len())

	db := &DB{dir: dir, opts: opts, log: log, wr: wr, cat: cat, open: true}
	db.mt = memtable.New(opts.MemtableCapacity, db.flushFunc, log)

	log.Infow("opened database", "dir", dir, "runs", cat.Len())
	return db, nil
}

// flushFunc is the memtable.FlushFunc the memtable calls on overflow: it
// writes a run file, appends the resulting descriptor to the catalog, and
// persists the catalog before returning — so a flush that completes is
// always reflected on disk, per spec.md §4.D's "add_run" + "flush_catalog"
// sequence.
func (db *DB) flushFunc(sorted []record.Record) (runfile.Descriptor, error) {
	desc, err := db.wr.Flush(sorted)
	if err != nil {
		return runfile.Descriptor{}, err
	}
	if err := db.cat.AddRun(desc); err != nil {
		return runfile.Descriptor{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err := db.cat.FlushCatalog(); err != nil {
		return runfile.Descriptor{}, err
	}
	return desc, nil
}

// Close flushes the memory table if non-empty, appends the resulting
// descriptor, writes the catalog, and releases the handle. Per
// SPEC_FULL.md §9 this writes (smallest_key, largest_key) correctly —
// the spec's own "smallest/smallest" copy-paste bug (spec.md §9) is
// deliberately not reproduced.
func (db *DB) Close() error {
	if !db.open {
		return ErrNotOpen
	}

	if _, err := db.mt.Drain(); err != nil {
		return err
	}

	db.open = false
	db.log.Infow("closed database", "dir", db.dir, "runs", db.cat.Len())
	return nil
}

// Put inserts or updates key with value. key and value must each carry a
// supported scalar tag.
func (db *DB) Put(key, value record.Scalar) error {
	if !db.open {
		return ErrNotOpen
	}
	rec, err := record.New(key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	_, err = db.mt.Put(rec)
	return err
}

// Get returns the value stored for key, or an empty Scalar (record.Scalar{})
// if the key is absent. A missing key is never an error — the emptiness
// predicate is the sole "not found" signal, per spec.md §7.
func (db *DB) Get(key record.Scalar) (record.Scalar, error) {
	if !db.open {
		return record.Scalar{}, ErrNotOpen
	}

	probe := record.Record{Key: key}
	if rec := db.mt.Get(probe); !rec.IsEmpty() {
		return rec.Value, nil
	}

	rec, ok, err := db.cat.Search(key)
	if err != nil {
		return record.Scalar{}, err
	}
	if !ok {
		return record.Scalar{}, nil
	}
	return rec.Value, nil
}

// Scan returns every record whose key lies in the closed range [lo, hi],
// ascending by key: the union of the memtable's in-range records and
// every catalog run's in-range records, merged oldest-to-newest so a key
// re-flushed into a later run wins over its earlier copy.
func (db *DB) Scan(lo, hi record.Scalar) ([]record.Record, error) {
	if !db.open {
		return nil, ErrNotOpen
	}
	if record.Compare(lo, hi) == record.Greater {
		return nil, fmt.Errorf("%w: lo > hi", ErrInvalidArgument)
	}

	out := record.NewSet()
	if err := db.cat.Scan(lo, hi, out); err != nil {
		return nil, err
	}
	db.mt.Scan(record.Record{Key: lo}, record.Record{Key: hi}, out)

	return out.Records(), nil
}

// Stats returns an operator-facing, JSON-serializable snapshot of the
// catalog's run list — filenames and key ranges only, never payloads —
// per SPEC_FULL.md §4.D. Diagnostic only; unrelated to query semantics.
func (db *DB) Stats() ([]byte, error) {
	if !db.open {
		return nil, ErrNotOpen
	}
	return db.cat.SnapshotJSON()
}
