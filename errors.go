package orderedkv

import (
	"errors"
	"fmt"

	"github.com/Priyanshu23/OrderedKV/catalog"
	"github.com/Priyanshu23/OrderedKV/record"
	"github.com/Priyanshu23/OrderedKV/runfile"
)

// The error taxonomy from spec.md §7, implemented as sentinel/wrapped
// errors rather than a custom exception hierarchy — the teacher's own
// style throughout is errors.New plus fmt.Errorf("...: %w", err).
// Several sentinels are simply the lower package's own, re-exported here
// so callers never need to import record/runfile/catalog directly to
// errors.Is against them.
var (
	// ErrStorageIO wraps an underlying os-level failure (permissions,
	// missing directory, disk full) not already classified below.
	ErrStorageIO = runfile.ErrStorageIO

	// ErrCorruptRecord marks a record whose checksum failed verification.
	ErrCorruptRecord = record.ErrCorruptRecord

	// ErrTruncatedRun marks a run file that ended before its declared
	// record count, or whose trailer length is inconsistent with its size.
	ErrTruncatedRun = runfile.ErrTruncatedRun

	// ErrCatalogParse marks a present-but-unparseable Index.sst.
	ErrCatalogParse = catalog.ErrCatalogParse

	// ErrNameCollision marks a run filename that already exists on disk
	// at flush time — the monotonically increasing counter should make
	// this unreachable in single-writer use.
	ErrNameCollision = runfile.ErrNameCollision

	// ErrInvalidArgument marks a Put with an invalid Scalar (unsupported
	// tag), a Scan with lo > hi, a flush whose run descriptor the catalog
	// rejects, a non-positive MemtableCapacity at Open, or a malformed
	// config file. Empty keys are not rejected.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotOpen marks an operation attempted on a DB that was never
	// opened or has already been closed.
	ErrNotOpen = errors.New("database not open")
)

func storageIOErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrStorageIO, op, path, err)
}
