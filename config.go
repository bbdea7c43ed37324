package orderedkv

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/Priyanshu23/OrderedKV/internal/obs"
)

// configFileName is the optional JSONC config file SPEC_FULL.md §7 adds
// alongside a database directory. Its absence is not an error — a
// database opened without one simply uses DefaultOptions().
const configFileName = "orderedkv.json"

// fileOptions mirrors Options for JSON(C) decoding. EncryptKey is hex
// encoded on disk since raw key bytes don't survive JSON round-tripping
// cleanly, and Debug substitutes for a *zap.SugaredLogger, which isn't
// itself serializable.
type fileOptions struct {
	MemtableCapacity int    `json:"memtable_capacity"`
	FormatVersion    uint8  `json:"format_version"`
	Bloom            bool   `json:"bloom"`
	Compress         bool   `json:"compress"`
	EncryptKeyHex    string `json:"encrypt_key_hex,omitempty"`
	Debug            bool   `json:"debug"`
}

// LoadOptions reads dir/orderedkv.json (tolerating comments and trailing
// commas per JSONC) and returns the Options it describes, layered over
// DefaultOptions() for any field the file omits. A missing file yields
// DefaultOptions() with a no-op logger, unchanged — this is purely
// additive configuration, following the pattern in the agent-task example
// repo's config.go (hujson.Standardize then encoding/json.Unmarshal).
func LoadOptions(dir string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(configPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			opts.Logger = obs.NoOp()
			return opts, nil
		}
		return Options{}, storageIOErr("read config", configPath(dir), err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Options{}, fmt.Errorf("%w: invalid JSONC in %s: %v", ErrInvalidArgument, configFileName, err)
	}

	var fo fileOptions
	if err := json.Unmarshal(standardized, &fo); err != nil {
		return Options{}, fmt.Errorf("%w: invalid JSON in %s: %v", ErrInvalidArgument, configFileName, err)
	}

	if fo.MemtableCapacity > 0 {
		opts.MemtableCapacity = fo.MemtableCapacity
	}
	opts.FormatVersion = fo.FormatVersion
	opts.Bloom = fo.Bloom
	opts.Compress = fo.Compress
	if fo.EncryptKeyHex != "" {
		key, err := hex.DecodeString(fo.EncryptKeyHex)
		if err != nil {
			return Options{}, fmt.Errorf("%w: encrypt_key_hex: %v", ErrInvalidArgument, err)
		}
		opts.EncryptKey = key
	}

	logger, err := obs.NewLogger(fo.Debug)
	if err != nil {
		return Options{}, fmt.Errorf("build logger: %w", err)
	}
	opts.Logger = logger

	return opts, nil
}

func configPath(dir string) string {
	return filepath.Join(dir, configFileName)
}
