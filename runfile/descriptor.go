package runfile

import (
	"fmt"

	"github.com/Priyanshu23/OrderedKV/record"
)

// Descriptor is the catalog's view of one run: its filename and the
// smallest/largest records it contains, keyed by record.Record.Key per
// spec.md §3. The value side of Smallest/Largest is not a placeholder —
// it is literally the record that carried the smallest/largest key at
// flush time. Catalog.ReloadCatalog accepts any valid value tag there.
type Descriptor struct {
	Filename string
	Smallest record.Record
	Largest  record.Record
}

// Valid reports the spec.md §3 invariant: smallest_key <= largest_key.
// A Descriptor failing this must never be appended to a catalog.
func (d Descriptor) Valid() bool {
	if d.Smallest.IsEmpty() || d.Largest.IsEmpty() {
		return false
	}
	return record.KeyLessEqual(d.Smallest, d.Largest)
}

// Overlaps reports whether the closed key range [lo, hi] could intersect
// the descriptor's [Smallest, Largest] range — the pruning test scan
// uses (search uses Contains): lo <= largest && smallest <= hi.
func (d Descriptor) Overlaps(lo, hi record.Scalar) bool {
	return record.Compare(lo, d.Largest.Key) != record.Greater &&
		record.Compare(d.Smallest.Key, hi) != record.Greater
}

// Contains reports whether key could lie within the descriptor's range.
func (d Descriptor) Contains(key record.Scalar) bool {
	return record.Compare(d.Smallest.Key, key) != record.Greater &&
		record.Compare(key, d.Largest.Key) != record.Greater
}

func (d Descriptor) String() string {
	return fmt.Sprintf("Descriptor{%s, [%v, %v]}", d.Filename, d.Smallest.Key, d.Largest.Key)
}
