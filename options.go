package orderedkv

import (
	"go.uber.org/zap"

	"github.com/Priyanshu23/OrderedKV/runfile"
)

// Options configures a database handle. The zero value is not directly
// usable — call DefaultOptions and override fields from there, the same
// pattern spec.md §6 describes for the embedding API's config.
type Options struct {
	// MemtableCapacity is spec.md's M: the bounded memtable's record
	// capacity before it flushes to a new run.
	MemtableCapacity int

	// FormatVersion selects the run file header shape (the catalog
	// header is never versioned). 0 is the
	// spec.md §6 byte-compatible legacy layout; 1 enables the versioned
	// header plus whichever of Bloom/Compress/EncryptKey below are set.
	FormatVersion uint8

	// Bloom appends a bloom-filter trailer to every flushed run,
	// accelerating negative point lookups. Requires FormatVersion != 0.
	Bloom bool

	// Compress S2-compresses each run's record block. Requires
	// FormatVersion != 0.
	Compress bool

	// EncryptKey, when non-nil, seals each run's record block with
	// ChaCha20-Poly1305 under this 32-byte key. Requires
	// FormatVersion != 0.
	EncryptKey []byte

	// Logger receives structured logs for open, catalog reload, each
	// flush and close. Catalog writes and load errors are not logged;
	// errors are returned to the caller. Defaults to a no-op logger when
	// nil.
	Logger *zap.SugaredLogger
}

// DefaultOptions returns the spec.md baseline: a 1000-record memtable,
// format version 0 (legacy, bit-compatible run files), no domain-stack
// extensions, logging discarded.
func DefaultOptions() Options {
	return Options{
		MemtableCapacity: 1000,
		FormatVersion:    0,
	}
}

func (o Options) runfileOptions() runfile.Options {
	return runfile.Options{
		Version:    o.FormatVersion,
		Bloom:      o.Bloom,
		Compress:   o.Compress,
		EncryptKey: o.EncryptKey,
	}
}
