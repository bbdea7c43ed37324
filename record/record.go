package record

import "fmt"

// Record is an ordered pair (key, value); each side is an independently
// typed Scalar. The pair is atomic — it is never split across the wire
// format or across the memtable/run boundary.
type Record struct {
	Key   Scalar
	Value Scalar
}

// New pairs a key and value scalar into a Record. Both sides must already
// carry a valid, supported Tag — constructing a Scalar only through the
// package constructors (Int, Long, Double, Char, String) guarantees this.
func New(key, value Scalar) (Record, error) {
	if !key.tag.valid() {
		return Record{}, fmt.Errorf("%w: unsupported key tag %v", ErrInvalidTag, key.tag)
	}
	if !value.tag.valid() {
		return Record{}, fmt.Errorf("%w: unsupported value tag %v", ErrInvalidTag, value.tag)
	}
	return Record{Key: key, Value: value}, nil
}

// IsEmpty reports whether r's key equals the zero value of its tag. This
// is the sentinel for "not found" used throughout the store: Get never
// returns an error for a missing key, it returns an empty Record.
func (r Record) IsEmpty() bool {
	return r.Key.IsZero()
}

// CompareKeys orders two records by their key alone, using the scalar
// total order (Compare).
func CompareKeys(a, b Record) Ordering {
	return Compare(a.Key, b.Key)
}

// KeyLessEqual reports whether a.Key <= b.Key under the total order.
func KeyLessEqual(a, b Record) bool {
	o := Compare(a.Key, b.Key)
	return o == Less || o == Equal
}
