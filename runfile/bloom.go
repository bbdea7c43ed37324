package runfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/Priyanshu23/OrderedKV/record"
)

// numericBloomTag marks a widened numeric key in keyBytes. It is not a
// record.Tag value — it only needs to differ from the CHAR/STRING tag
// bytes it shares the hash space with.
const numericBloomTag = 0xff

// keyBytes produces a stable byte representation of a scalar for hashing
// into the bloom filter. It does not need to be order-preserving — only
// collision-resistant enough for a false-positive filter — but it must
// agree with record.Compare's cross-tag equality (spec.md §3 property 10):
// INT/LONG/DOUBLE scalars of equal value widen to the same float64 before
// hashing, so a bloom filter built from one tag still answers Test calls
// made with another.
func keyBytes(s record.Scalar) []byte {
	switch s.Tag() {
	case record.TagInt, record.TagLong, record.TagDouble:
		var v float64
		switch s.Tag() {
		case record.TagInt:
			v = float64(s.Int32())
		case record.TagLong:
			v = float64(s.Int64())
		default:
			v = s.Float64()
		}
		var b [9]byte
		b[0] = numericBloomTag
		binary.LittleEndian.PutUint64(b[1:], math.Float64bits(v))
		return b[:]
	default:
		return append([]byte{byte(s.Tag())}, []byte(s.Text())...)
	}
}

func buildBloom(records []record.Record) *bloom.BloomFilter {
	n := uint(len(records))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, 0.01)
	for _, r := range records {
		filter.Add(keyBytes(r.Key))
	}
	return filter
}

func writeBloom(w io.Writer, filter *bloom.BloomFilter) (int64, error) {
	n, err := filter.WriteTo(w)
	if err != nil {
		return 0, fmt.Errorf("write bloom trailer: %w", err)
	}
	return n, nil
}

func readBloom(r io.Reader) (*bloom.BloomFilter, error) {
	filter := &bloom.BloomFilter{}
	if _, err := filter.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read bloom trailer: %w", err)
	}
	return filter, nil
}
