package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Priyanshu23/OrderedKV/record"
	"github.com/Priyanshu23/OrderedKV/runfile"
)

func flushRun(t *testing.T, dir string, opts runfile.Options, keys ...int32) runfile.Descriptor {
	t.Helper()
	w := runfile.NewWriter(dir, opts, nil)
	recs := make([]record.Record, len(keys))
	for i, k := range keys {
		rec, err := record.New(record.Int(k), record.Long(int64(k)))
		require.NoError(t, err)
		recs[i] = rec
	}
	desc, err := w.Flush(recs)
	require.NoError(t, err)
	return desc
}

func TestSearchNewestRunWins(t *testing.T) {
	dir := t.TempDir()
	opts := runfile.DefaultOptions()

	d1 := flushRun(t, dir, opts, 1, 2, 3)
	w1 := runfile.NewWriter(dir, opts, nil)
	w1.Seed(1)
	rec, err := record.New(record.Int(2), record.String("updated"))
	require.NoError(t, err)
	d2desc, err := w1.Flush([]record.Record{rec})
	require.NoError(t, err)

	cat := New(dir, nil, nil)
	require.NoError(t, cat.AddRun(d1))
	require.NoError(t, cat.AddRun(d2desc))

	got, ok, err := cat.Search(record.Int(2))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "updated", got.Value.Text())

	got, ok, err = cat.Search(record.Int(1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), got.Value.Int64())

	_, ok, err = cat.Search(record.Int(999))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScanMergesOldestToNewest(t *testing.T) {
	dir := t.TempDir()
	opts := runfile.DefaultOptions()

	d1 := flushRun(t, dir, opts, 1, 2, 3)
	w := runfile.NewWriter(dir, opts, nil)
	w.Seed(1)
	rec, err := record.New(record.Int(2), record.String("newer"))
	require.NoError(t, err)
	d2, err := w.Flush([]record.Record{rec})
	require.NoError(t, err)

	cat := New(dir, nil, nil)
	require.NoError(t, cat.AddRun(d1))
	require.NoError(t, cat.AddRun(d2))

	out := record.NewSet()
	require.NoError(t, cat.Scan(record.Int(1), record.Int(3), out))

	recs := out.Records()
	require.Len(t, recs, 3)
	for _, r := range recs {
		if r.Key.Int32() == 2 {
			require.Equal(t, "newer", r.Value.Text())
		}
	}
}

func TestAddRunRejectsInvalidDescriptor(t *testing.T) {
	cat := New(t.TempDir(), nil, nil)
	bad := runfile.Descriptor{
		Filename: "sst_0.sst",
		Smallest: record.Record{Key: record.Int(20)},
		Largest:  record.Record{Key: record.Int(10)},
	}
	err := cat.AddRun(bad)
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestFlushReloadCatalogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	opts := runfile.DefaultOptions()
	d1 := flushRun(t, dir, opts, 1, 2, 3)
	w := runfile.NewWriter(dir, opts, nil)
	w.Seed(1)
	r10, err := record.New(record.Int(10), record.Long(10))
	require.NoError(t, err)
	r20, err := record.New(record.Int(20), record.Long(20))
	require.NoError(t, err)
	d2, err := w.Flush([]record.Record{r10, r20})
	require.NoError(t, err)

	cat := New(dir, nil, nil)
	require.NoError(t, cat.AddRun(d1))
	require.NoError(t, cat.AddRun(d2))
	require.NoError(t, cat.FlushCatalog())

	reloaded := New(dir, nil, nil)
	require.NoError(t, reloaded.ReloadCatalog())
	require.Len(t, reloaded.Runs(), 2)
	require.Equal(t, d1.Filename, reloaded.Runs()[0].Filename)
	require.Equal(t, d2.Filename, reloaded.Runs()[1].Filename)
	require.True(t, record.Equal(d1.Smallest.Key, reloaded.Runs()[0].Smallest.Key))
	require.True(t, record.Equal(d1.Largest.Key, reloaded.Runs()[0].Largest.Key))
}

func TestReloadCatalogMissingFileIsNotAnError(t *testing.T) {
	cat := New(t.TempDir(), nil, nil)
	require.NoError(t, cat.ReloadCatalog())
	require.Equal(t, 0, cat.Len())
}

func TestSnapshotJSONOmitsPayloads(t *testing.T) {
	dir := t.TempDir()
	d1 := flushRun(t, dir, runfile.DefaultOptions(), 1, 2)

	cat := New(dir, nil, nil)
	require.NoError(t, cat.AddRun(d1))

	data, err := cat.SnapshotJSON()
	require.NoError(t, err)
	require.Contains(t, string(data), d1.Filename)
	require.NotContains(t, string(data), "value")
}
