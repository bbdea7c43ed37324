package runfile

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/s2"
	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Priyanshu23/OrderedKV/record"
)

// Writer owns the monotonically increasing filename counter for one
// database directory (spec.md §4.C: "a monotonically increasing counter
// owned by the I/O component — not shared with the catalog"). It is not
// safe for concurrent use, consistent with the single-handle model in
// spec.md §5.
type Writer struct {
	dir     string
	opts    Options
	counter int64
	log     *zap.SugaredLogger
}

// NewWriter opens a run-file writer rooted at dir. The counter starts at
// 0, matching a freshly opened database; call Seed after reloading an
// existing catalog so new runs don't collide with old ones.
func NewWriter(dir string, opts Options, log *zap.SugaredLogger) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{dir: dir, opts: opts, log: log}
}

// Seed resets the filename counter, per spec.md §9: re-seed it from the
// catalog's size on reopen rather than scanning the directory.
func (w *Writer) Seed(n int) {
	w.counter = int64(n)
}

// Flush serializes records — assumed already sorted ascending by key — to
// a fresh sst_<n>.sst file and returns its descriptor. On any failure the
// caller's memtable is untouched; the caller may retry.
func (w *Writer) Flush(records []record.Record) (Descriptor, error) {
	name := fmt.Sprintf("sst_%d.sst", w.counter)
	w.counter++
	path := filepath.Join(w.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrNameCollision, name)
		}
		return Descriptor{}, fmt.Errorf("%w: flush %s: %v", ErrStorageIO, path, err)
	}
	defer f.Close()

	if err := w.writeRun(f, records); err != nil {
		return Descriptor{}, fmt.Errorf("%w: flush %s: %v", ErrStorageIO, path, err)
	}

	desc := Descriptor{Filename: name}
	if len(records) > 0 {
		desc.Smallest = records[0]
		desc.Largest = records[len(records)-1]
	}

	w.log.Infow("flushed memtable to run", "file", name, "records", len(records))
	return desc, nil
}

func (w *Writer) writeRun(f *os.File, records []record.Record) error {
	var plain bytes.Buffer
	for _, rec := range records {
		if err := record.Write(&plain, rec, w.opts.checksumMode()); err != nil {
			return err
		}
	}

	if err := writeHeader(f, uint32(len(records)), w.opts); err != nil {
		return err
	}

	if w.opts.Version == 0 {
		_, err := f.Write(plain.Bytes())
		return err
	}

	payload := plain.Bytes()
	var nonce []byte
	if w.opts.Compress {
		payload = s2.Encode(nil, payload)
	}
	if w.opts.EncryptKey != nil {
		nonce = make([]byte, chacha20poly1305.NonceSize)
		if _, err := rand.Read(nonce); err != nil {
			return fmt.Errorf("generate nonce: %w", err)
		}
		aead, err := chacha20poly1305.New(w.opts.EncryptKey)
		if err != nil {
			return fmt.Errorf("init cipher: %w", err)
		}
		payload = aead.Seal(nil, nonce, payload, nil)
	}

	transformed := w.opts.Compress || w.opts.EncryptKey != nil
	if transformed {
		if err := binary.Write(f, binary.LittleEndian, uint32(len(payload))); err != nil {
			return err
		}
		if nonce != nil {
			if _, err := f.Write(nonce); err != nil {
				return err
			}
		}
	}
	if _, err := f.Write(payload); err != nil {
		return err
	}

	var trailer bytes.Buffer
	if w.opts.Bloom {
		filter := buildBloom(records)
		if _, err := writeBloom(&trailer, filter); err != nil {
			return err
		}
	}
	if _, err := io.Copy(f, &trailer); err != nil {
		return err
	}

	return binary.Write(f, binary.LittleEndian, uint32(trailer.Len()))
}
