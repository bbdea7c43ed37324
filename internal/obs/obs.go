// Package obs centralizes the structured-logging setup shared by every
// component, following the *zap.SugaredLogger-field convention used
// throughout the ignite example pack repo's internal packages.
package obs

import "go.uber.org/zap"

// NewLogger returns a production zap logger (JSON encoding, info level)
// sugared for the call sites' Infow/Debugw/Warnw idiom. debug lowers the
// level to capture the per-flush/per-reload detail lines described in
// SPEC_FULL.md §7.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NoOp returns a logger that discards everything, used as the default
// when a caller opens a database without supplying one.
func NoOp() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrDefault returns log unchanged if non-nil, otherwise NoOp(). Open
// calls this so a nil Logger in Options never panics; memtable.New,
// runfile.NewWriter and catalog.New apply their own nil check.
func OrDefault(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return NoOp()
	}
	return log
}
