package orderedkv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptionsMissingFileYieldsDefaults(t *testing.T) {
	opts, err := LoadOptions(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DefaultOptions().MemtableCapacity, opts.MemtableCapacity)
	require.Equal(t, uint8(0), opts.FormatVersion)
}

func TestLoadOptionsParsesJSONC(t *testing.T) {
	dir := t.TempDir()
	contents := `{
		// tuned for the integration suite
		"memtable_capacity": 250,
		"format_version": 1,
		"bloom": true,
		"compress": true,
		"encrypt_key_hex": "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f",
		"debug": true,
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(contents), 0o644))

	opts, err := LoadOptions(dir)
	require.NoError(t, err)
	require.Equal(t, 250, opts.MemtableCapacity)
	require.Equal(t, uint8(1), opts.FormatVersion)
	require.True(t, opts.Bloom)
	require.True(t, opts.Compress)
	require.Len(t, opts.EncryptKey, 32)
	require.NotNil(t, opts.Logger)
}

func TestLoadOptionsRejectsInvalidHexKey(t *testing.T) {
	dir := t.TempDir()
	contents := `{"encrypt_key_hex": "not-hex"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(contents), 0o644))

	_, err := LoadOptions(dir)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
