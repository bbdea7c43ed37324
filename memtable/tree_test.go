package memtable

import (
	"math/rand"
	"testing"

	"github.com/Priyanshu23/OrderedKV/record"
)

func TestTreeInsertSearchInOrder(t *testing.T) {
	tr := newTree()

	keys := []int32{50, 20, 80, 10, 30, 70, 90, 5, 15, 25, 35}
	for _, k := range keys {
		tr.insert(record.Record{Key: record.Int(k), Value: record.Long(int64(k))})
	}
	if tr.size != len(keys) {
		t.Fatalf("size = %d, want %d", tr.size, len(keys))
	}

	for _, k := range keys {
		rec, ok := tr.search(record.Int(k))
		if !ok {
			t.Fatalf("search(%d) not found", k)
		}
		if rec.Value.Int64() != int64(k) {
			t.Fatalf("search(%d).Value = %d, want %d", k, rec.Value.Int64(), k)
		}
	}

	if _, ok := tr.search(record.Int(999)); ok {
		t.Fatal("search for absent key should fail")
	}

	ordered := tr.inOrder()
	if len(ordered) != len(keys) {
		t.Fatalf("inOrder length = %d, want %d", len(ordered), len(keys))
	}
	for i := 1; i < len(ordered); i++ {
		if record.Compare(ordered[i-1].Key, ordered[i].Key) != record.Less {
			t.Fatalf("inOrder not strictly ascending at index %d: %v then %v", i, ordered[i-1].Key, ordered[i].Key)
		}
	}
}

func TestTreeInsertUpdatesExistingKey(t *testing.T) {
	tr := newTree()
	tr.insert(record.Record{Key: record.Int(1), Value: record.String("old")})
	updated := tr.insert(record.Record{Key: record.Int(1), Value: record.String("new")})
	if !updated {
		t.Fatal("re-inserting an existing key should report updated=true")
	}
	if tr.size != 1 {
		t.Fatalf("size = %d, want 1", tr.size)
	}
	rec, _ := tr.search(record.Int(1))
	if rec.Value.Text() != "new" {
		t.Fatalf("Value = %q, want %q", rec.Value.Text(), "new")
	}
}

func TestTreeInsertionOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keys := rng.Perm(500)

	tr := newTree()
	for _, k := range keys {
		tr.insert(record.Record{Key: record.Int(int32(k)), Value: record.Int(int32(k))})
	}

	ordered := tr.inOrder()
	if len(ordered) != 500 {
		t.Fatalf("len = %d, want 500", len(ordered))
	}
	for i, rec := range ordered {
		if rec.Key.Int32() != int32(i) {
			t.Fatalf("ordered[%d].Key = %d, want %d", i, rec.Key.Int32(), i)
		}
	}
}

func TestTreeRangeIntoPrunesCorrectly(t *testing.T) {
	tr := newTree()
	for k := int32(0); k < 100; k++ {
		tr.insert(record.Record{Key: record.Int(k), Value: record.Int(k)})
	}

	out := record.NewSet()
	tr.rangeInto(record.Int(30), record.Int(40), out)

	got := out.Records()
	if len(got) != 11 {
		t.Fatalf("range [30,40] returned %d records, want 11", len(got))
	}
	for i, rec := range got {
		want := int32(30 + i)
		if rec.Key.Int32() != want {
			t.Fatalf("got[%d].Key = %d, want %d", i, rec.Key.Int32(), want)
		}
	}
}
