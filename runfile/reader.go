package runfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/klauspost/compress/s2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Priyanshu23/OrderedKV/record"
)

// ErrInvalidFilename marks a run filename that does not match the
// sst_<n>.sst pattern the I/O component assigns at flush time.
var ErrInvalidFilename = errors.New("invalid run filename")

var runFilenamePattern = regexp.MustCompile(`^sst_(0|[1-9][0-9]*)\.sst$`)

// Run is the transient, in-memory structure a loaded run file produces:
// a sorted slice (the file was already ascending by key, per I1, so a
// binary search suffices — no tree is needed) plus an optional bloom
// trailer. Per spec.md §3 it is single-use: owned by the caller of Load
// and dropped after the query that triggered it.
type Run struct {
	records []record.Record
	bloom   *bloom.BloomFilter
}

// Load opens filename under dir, validates its header, and returns an
// ordered, queryable view of its records. An empty file (byte length 0)
// is tolerated and yields an empty Run, for forward compatibility with
// the abandoned plaintext layout noted in spec.md §9. decryptKey is only
// consulted when the file's header flags indicate encryption.
func Load(dir, filename string, decryptKey []byte) (*Run, error) {
	if !runFilenamePattern.MatchString(filename) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFilename, filename)
	}

	path := filepath.Join(dir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorageIO, path, err)
	}
	if len(data) == 0 {
		return &Run{}, nil
	}

	br := bytes.NewReader(data)
	hdr, err := readHeader(br)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}

	if !hdr.versioned() {
		records, err := readRecords(br, int(hdr.count), record.ChecksumSize, int64(len(data)-br.Len()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filename, err)
		}
		return &Run{records: records}, nil
	}

	run, err := loadVersioned(data, br, hdr, decryptKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return run, nil
}

func loadVersioned(data []byte, br *bytes.Reader, hdr header, decryptKey []byte) (*Run, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: missing trailer length", ErrTruncatedRun)
	}
	trailerLen := binary.LittleEndian.Uint32(data[len(data)-4:])
	trailerStart := len(data) - 4 - int(trailerLen)
	if trailerStart < 0 {
		return nil, fmt.Errorf("%w: trailer length %d exceeds file size", ErrTruncatedRun, trailerLen)
	}

	checksumMode := record.ChecksumSize
	if hdr.flags&flagXXH3Checksum != 0 {
		checksumMode = record.ChecksumXXH3
	}

	var records []record.Record
	var err error

	if hdr.flags&(flagCompressed|flagEncrypted) != 0 {
		records, err = readTransformedRecords(br, hdr, trailerStart, checksumMode, decryptKey)
	} else {
		records, err = readRecords(br, int(hdr.count), checksumMode, int64(len(data)-br.Len()))
	}
	if err != nil {
		return nil, err
	}

	pos := len(data) - br.Len()
	if pos != trailerStart {
		return nil, fmt.Errorf("%w: record region ended at %d, trailer begins at %d", ErrTruncatedRun, pos, trailerStart)
	}

	run := &Run{records: records}
	if hdr.flags&flagBloom != 0 {
		trailer := bytes.NewReader(data[trailerStart : len(data)-4])
		filter, err := readBloom(trailer)
		if err != nil {
			return nil, err
		}
		run.bloom = filter
	}
	return run, nil
}

func readTransformedRecords(br *bytes.Reader, hdr header, trailerStart int, mode record.ChecksumMode, decryptKey []byte) ([]record.Record, error) {
	var blobLen uint32
	if err := binary.Read(br, binary.LittleEndian, &blobLen); err != nil {
		return nil, fmt.Errorf("%w: missing blob length: %v", ErrTruncatedRun, err)
	}

	var nonce []byte
	if hdr.flags&flagEncrypted != 0 {
		nonce = make([]byte, chacha20poly1305.NonceSize)
		if _, err := io.ReadFull(br, nonce); err != nil {
			return nil, fmt.Errorf("%w: missing nonce: %v", ErrTruncatedRun, err)
		}
	}

	blob := make([]byte, blobLen)
	if _, err := io.ReadFull(br, blob); err != nil {
		return nil, fmt.Errorf("%w: blob shorter than declared %d bytes: %v", ErrTruncatedRun, blobLen, err)
	}

	payload := blob
	if hdr.flags&flagEncrypted != 0 {
		if len(decryptKey) == 0 {
			return nil, fmt.Errorf("run is encrypted but no key was supplied")
		}
		aead, err := chacha20poly1305.New(decryptKey)
		if err != nil {
			return nil, fmt.Errorf("init cipher: %w", err)
		}
		payload, err = aead.Open(nil, nonce, payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decrypt run: %w", err)
		}
	}
	if hdr.flags&flagCompressed != 0 {
		decoded, err := s2.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("decompress run: %w", err)
		}
		payload = decoded
	}

	inner := bytes.NewReader(payload)
	return readRecords(inner, int(hdr.count), mode, 0)
}

func readRecords(r io.Reader, count int, mode record.ChecksumMode, baseOffset int64) ([]record.Record, error) {
	records := make([]record.Record, 0, count)
	offset := baseOffset
	for i := 0; i < count; i++ {
		rec, n, err := record.Read(r, mode)
		if err != nil {
			if err == io.EOF {
				return records, fmt.Errorf("%w: expected %d records, got %d", ErrTruncatedRun, count, i)
			}
			return records, fmt.Errorf("%w (at offset %d)", err, offset)
		}
		offset += n
		records = append(records, rec)
	}
	return records, nil
}

// Len reports how many records the run holds.
func (r *Run) Len() int { return len(r.records) }

// MaybeContains reports whether key could be present, consulting the
// bloom trailer when one was written; absent a trailer it always answers
// true (the caller must still search).
func (r *Run) MaybeContains(key record.Scalar) bool {
	if r.bloom == nil {
		return true
	}
	return r.bloom.Test(keyBytes(key))
}

// Get performs a binary-search point lookup — the run's records are
// already sorted ascending by I1, so no tree is needed for a loaded run.
func (r *Run) Get(key record.Scalar) record.Record {
	if !r.MaybeContains(key) {
		return record.Record{}
	}
	lo, hi := 0, len(r.records)
	for lo < hi {
		mid := (lo + hi) / 2
		switch record.Compare(r.records[mid].Key, key) {
		case record.Less:
			lo = mid + 1
		case record.Greater:
			hi = mid
		default:
			return r.records[mid]
		}
	}
	return record.Record{}
}

// ScanInto inserts every record whose key lies in [lo, hi] into out.
func (r *Run) ScanInto(lo, hi record.Scalar, out *record.Set) {
	start := sort.Search(len(r.records), func(i int) bool {
		return record.Compare(r.records[i].Key, lo) != record.Less
	})
	for i := start; i < len(r.records); i++ {
		if record.Compare(r.records[i].Key, hi) == record.Greater {
			break
		}
		out.Insert(r.records[i])
	}
}
