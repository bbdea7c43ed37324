package runfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// header is the parsed, version-agnostic view of a run file's leading
// bytes (the catalog parses its own fixed header): a declared count, a self-describing checksum, and
// — only when the file is versioned — the format version and feature
// flags that follow it.
type header struct {
	count   uint32
	version uint8
	flags   uint8
}

func (h header) versioned() bool { return h.version != 0 }

// writeHeader emits the count field followed by the self-describing
// header_checksum (8 for legacy, 9 for versioned), and — for a versioned
// header — the version and flags bytes.
func writeHeader(w io.Writer, count uint32, opts Options) error {
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}
	if opts.Version == 0 {
		return binary.Write(w, binary.LittleEndian, uint32(legacyHeaderChecksum))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(versionedHeaderChecksum)); err != nil {
		return err
	}
	if _, err := w.Write([]byte{opts.Version, opts.flags()}); err != nil {
		return err
	}
	return nil
}

// readHeader is the inverse of writeHeader, validating header_checksum's
// self-describing value along the way.
func readHeader(r io.Reader) (header, error) {
	var count, checksum uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return header{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &checksum); err != nil {
		return header{}, err
	}

	switch checksum {
	case legacyHeaderChecksum:
		return header{count: count}, nil
	case versionedHeaderChecksum:
		var rest [2]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return header{}, fmt.Errorf("%w: truncated version/flags: %v", ErrInvalidHeader, err)
		}
		if rest[0] == 0 {
			return header{}, fmt.Errorf("%w: versioned header_checksum with version 0", ErrInvalidHeader)
		}
		return header{count: count, version: rest[0], flags: rest[1]}, nil
	default:
		return header{}, fmt.Errorf("%w: header_checksum %d is neither %d nor %d", ErrInvalidHeader, checksum, legacyHeaderChecksum, versionedHeaderChecksum)
	}
}
