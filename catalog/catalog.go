// Package catalog implements the run index and query engine described in
// spec.md §4.D: the ordered list of run descriptors that lets a point
// lookup search newest-to-oldest and a range scan merge oldest-to-newest,
// plus the Index.sst persistence that survives a reopen.
package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/Priyanshu23/OrderedKV/record"
	"github.com/Priyanshu23/OrderedKV/runfile"
)

// indexFilename is the catalog's on-disk name, fixed per spec.md §4.D.
const indexFilename = "Index.sst"

// catalogHeaderChecksum is the only header_checksum Index.sst ever carries.
// Unlike run files, the catalog format is never version-gated: spec.md's
// domain-stack extensions (bloom, compression, encryption) apply to run
// files only, so Index.sst stays byte-exact to spec.md §6 regardless of
// which Options a database was opened with.
const catalogHeaderChecksum = 8

// Catalog owns the ordered, append-only list of run descriptors for one
// database directory, and the decrypt key (if any) needed to open runs
// written with encryption enabled.
type Catalog struct {
	dir        string
	decryptKey []byte
	runs       []runfile.Descriptor
	log        *zap.SugaredLogger
}

// New returns an empty catalog rooted at dir. Call ReloadCatalog to
// populate it from a prior Index.sst.
func New(dir string, decryptKey []byte, log *zap.SugaredLogger) *Catalog {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Catalog{dir: dir, decryptKey: decryptKey, log: log}
}

// Len reports how many runs the catalog currently tracks.
func (c *Catalog) Len() int { return len(c.runs) }

// Runs returns the tracked descriptors, oldest first. The slice is owned
// by the catalog; callers must not mutate it.
func (c *Catalog) Runs() []runfile.Descriptor { return c.runs }

// AddRun appends desc as the newest run. It is rejected if desc fails its
// own invariant (spec.md §3: smallest_key <= largest_key).
func (c *Catalog) AddRun(desc runfile.Descriptor) error {
	if !desc.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDescriptor, desc.Filename)
	}
	c.runs = append(c.runs, desc)
	return nil
}

// Search looks up key across every tracked run, newest first, per spec.md
// §4.D: the first run whose range contains key and which actually holds a
// matching record wins. Descriptor.Contains is a free, in-memory prune
// before any file is opened; MaybeContains further prunes via a run's
// bloom trailer when present. Returns an empty Record (ok=false) if no
// run holds key.
func (c *Catalog) Search(key record.Scalar) (record.Record, bool, error) {
	for i := len(c.runs) - 1; i >= 0; i-- {
		desc := c.runs[i]
		if !desc.Contains(key) {
			continue
		}
		run, err := runfile.Load(c.dir, desc.Filename, c.decryptKey)
		if err != nil {
			return record.Record{}, false, fmt.Errorf("search %s: %w", desc.Filename, err)
		}
		if !run.MaybeContains(key) {
			continue
		}
		if rec := run.Get(key); !rec.IsEmpty() {
			return rec, true, nil
		}
	}
	return record.Record{}, false, nil
}

// Scan merges every record whose key lies in [lo, hi] across every
// tracked run into out, oldest run first. record.Set's insert-or-replace
// semantics then give newest-wins for any key re-flushed into a later
// run, matching the memtable's own update semantics.
func (c *Catalog) Scan(lo, hi record.Scalar, out *record.Set) error {
	for _, desc := range c.runs {
		if !desc.Overlaps(lo, hi) {
			continue
		}
		run, err := runfile.Load(c.dir, desc.Filename, c.decryptKey)
		if err != nil {
			return fmt.Errorf("scan %s: %w", desc.Filename, err)
		}
		run.ScanInto(lo, hi, out)
	}
	return nil
}

// FlushCatalog atomically rewrites Index.sst to reflect the current run
// list, via a temp-file-plus-rename publish (spec.md §4.D).
func (c *Catalog) FlushCatalog() error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(c.runs))); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(catalogHeaderChecksum)); err != nil {
		return err
	}
	for _, desc := range c.runs {
		name := []byte(desc.Filename)
		if err := binary.Write(&buf, binary.LittleEndian, uint32(len(name))); err != nil {
			return err
		}
		if _, err := buf.Write(name); err != nil {
			return err
		}
		if err := record.Write(&buf, desc.Smallest, record.ChecksumSize); err != nil {
			return err
		}
		if err := record.Write(&buf, desc.Largest, record.ChecksumSize); err != nil {
			return err
		}
	}

	path := filepath.Join(c.dir, indexFilename)
	if err := atomic.WriteFile(path, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("%w: flush catalog %s: %v", runfile.ErrStorageIO, path, err)
	}
	return nil
}

// ReloadCatalog replaces the in-memory run list with whatever Index.sst
// describes. A missing file is not an error — it means a fresh database —
// and leaves the catalog empty. Any other failure to parse is wrapped in
// ErrCatalogParse, which per spec.md §4.D is fatal to Open.
func (c *Catalog) ReloadCatalog() error {
	path := filepath.Join(c.dir, indexFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.runs = nil
			return nil
		}
		return fmt.Errorf("%w: reload catalog %s: %v", runfile.ErrStorageIO, path, err)
	}
	if len(data) == 0 {
		c.runs = nil
		return nil
	}

	br := bytes.NewReader(data)
	var numRuns, checksum uint32
	if err := binary.Read(br, binary.LittleEndian, &numRuns); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}
	if err := binary.Read(br, binary.LittleEndian, &checksum); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}
	if checksum != catalogHeaderChecksum {
		return fmt.Errorf("%w: header_checksum %d != %d", ErrCatalogParse, checksum, catalogHeaderChecksum)
	}

	runs := make([]runfile.Descriptor, 0, numRuns)
	for i := uint32(0); i < numRuns; i++ {
		var nameLen uint32
		if err := binary.Read(br, binary.LittleEndian, &nameLen); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCatalogParse, i, err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(br, name); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCatalogParse, i, err)
		}
		smallest, _, err := record.Read(br, record.ChecksumSize)
		if err != nil {
			return fmt.Errorf("%w: entry %d smallest key: %v", ErrCatalogParse, i, err)
		}
		largest, _, err := record.Read(br, record.ChecksumSize)
		if err != nil {
			return fmt.Errorf("%w: entry %d largest key: %v", ErrCatalogParse, i, err)
		}
		runs = append(runs, runfile.Descriptor{Filename: string(name), Smallest: smallest, Largest: largest})
	}

	c.runs = runs
	c.log.Debugw("reloaded catalog", "runs", len(runs))
	return nil
}
