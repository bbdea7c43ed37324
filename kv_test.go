package orderedkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Priyanshu23/OrderedKV/record"
)

func openTestDB(t *testing.T, capacity int) *DB {
	t.Helper()
	opts := DefaultOptions()
	opts.MemtableCapacity = capacity
	db, err := Open(t.TempDir(), opts)
	require.NoError(t, err)
	return db
}

// S1. Empty get.
func TestEmptyGet(t *testing.T) {
	db := openTestDB(t, 10)
	val, err := db.Get(record.Int(7))
	require.NoError(t, err)
	require.True(t, val.IsZero())
}

// S2. Single put/get, plus a reopen after Close to check the record persisted.
func TestSinglePutGet(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.MemtableCapacity = 10

	db, err := Open(dir, opts)
	require.NoError(t, err)

	require.NoError(t, db.Put(record.Int(1), record.String("one")))
	val, err := db.Get(record.Int(1))
	require.NoError(t, err)
	require.Equal(t, "one", val.Text())

	require.NoError(t, db.Close())

	reopened, err := Open(dir, opts)
	require.NoError(t, err)
	val, err = reopened.Get(record.Int(1))
	require.NoError(t, err)
	require.Equal(t, "one", val.Text())
}

// S3. Capacity boundary.
func TestCapacityBoundary(t *testing.T) {
	db := openTestDB(t, 3)

	puts := []struct {
		k int32
		v string
	}{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}}
	for _, p := range puts {
		require.NoError(t, db.Put(record.Int(p.k), record.String(p.v)))
	}

	require.Equal(t, 1, db.cat.Len())
	desc := db.cat.Runs()[0]
	require.Equal(t, int32(1), desc.Smallest.Key.Int32())
	require.Equal(t, int32(3), desc.Largest.Key.Int32())
	require.Equal(t, 1, db.mt.Len())

	val, err := db.Get(record.Int(2))
	require.NoError(t, err)
	require.Equal(t, "b", val.Text())

	val, err = db.Get(record.Int(4))
	require.NoError(t, err)
	require.Equal(t, "d", val.Text())
}

// S4. Newest-wins across flush.
func TestNewestWinsAcrossFlush(t *testing.T) {
	db := openTestDB(t, 2)

	require.NoError(t, db.Put(record.Int(1), record.String("old")))
	require.NoError(t, db.Put(record.Int(2), record.String("x")))
	require.NoError(t, db.Put(record.Int(1), record.String("new")))

	require.Equal(t, 0, db.cat.Len(), "updating an existing key at capacity must not flush")

	val, err := db.Get(record.Int(1))
	require.NoError(t, err)
	require.Equal(t, "new", val.Text())
}

// S5. Range scan spanning memory and runs.
func TestRangeScanSpansMemoryAndRuns(t *testing.T) {
	db := openTestDB(t, 2)

	for k := int32(1); k <= 5; k++ {
		require.NoError(t, db.Put(record.Int(k), record.Long(int64(k*10))))
	}

	results, err := db.Scan(record.Int(2), record.Int(4))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, want := range []int32{2, 3, 4} {
		require.Equal(t, want, results[i].Key.Int32())
		require.Equal(t, int64(want)*10, results[i].Value.Int64())
	}
}

// S6. Mixed types: numeric keys sort before string keys.
func TestMixedTypeScan(t *testing.T) {
	db := openTestDB(t, 10)

	require.NoError(t, db.Put(record.Int(1), record.String("v1")))
	require.NoError(t, db.Put(record.String("apple"), record.Int(42)))

	results, err := db.Scan(record.Int(0), record.String("zzz"))
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, record.TagInt, results[0].Key.Tag())
	require.Equal(t, record.TagString, results[1].Key.Tag())
}

// Property 10: cross-tag equality.
func TestCrossTagEquality(t *testing.T) {
	db := openTestDB(t, 10)
	require.NoError(t, db.Put(record.Int(100), record.String("a")))

	val, err := db.Get(record.Long(100))
	require.NoError(t, err)
	require.Equal(t, "a", val.Text())
}

func TestOperationsOnClosedHandleFail(t *testing.T) {
	db := openTestDB(t, 10)
	require.NoError(t, db.Close())

	_, err := db.Get(record.Int(1))
	require.ErrorIs(t, err, ErrNotOpen)

	err = db.Put(record.Int(1), record.Int(2))
	require.ErrorIs(t, err, ErrNotOpen)

	_, err = db.Scan(record.Int(0), record.Int(10))
	require.ErrorIs(t, err, ErrNotOpen)

	err = db.Close()
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestScanRejectsInvertedRange(t *testing.T) {
	db := openTestDB(t, 10)
	_, err := db.Scan(record.Int(10), record.Int(0))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStatsSnapshotReflectsRuns(t *testing.T) {
	db := openTestDB(t, 2)
	for k := int32(1); k <= 3; k++ {
		require.NoError(t, db.Put(record.Int(k), record.Int(k)))
	}
	data, err := db.Stats()
	require.NoError(t, err)
	require.Contains(t, string(data), "sst_0.sst")
}

// Scenario S3, repeated with the versioned format (strict checksum +
// bloom trailer): the additive trailer must never change query results.
func TestCapacityBoundaryWithFormatVersion1(t *testing.T) {
	opts := DefaultOptions()
	opts.MemtableCapacity = 3
	opts.FormatVersion = 1
	opts.Bloom = true

	db, err := Open(t.TempDir(), opts)
	require.NoError(t, err)

	for _, p := range []struct {
		k int32
		v string
	}{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}} {
		require.NoError(t, db.Put(record.Int(p.k), record.String(p.v)))
	}

	require.Equal(t, 1, db.cat.Len())
	val, err := db.Get(record.Int(2))
	require.NoError(t, err)
	require.Equal(t, "b", val.Text())
}
