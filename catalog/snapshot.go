package catalog

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// RunSnapshot is the operator-facing view of one tracked run: its
// filename and key range only, never record payloads.
type RunSnapshot struct {
	Filename    string `json:"filename"`
	SmallestKey string `json:"smallest_key"`
	LargestKey  string `json:"largest_key"`
}

// Snapshot returns a JSON-serializable view of every tracked run, oldest
// first, for Stats() operators. It is diagnostic tooling only — it has no
// effect on search/scan semantics.
func (c *Catalog) Snapshot() []RunSnapshot {
	out := make([]RunSnapshot, len(c.runs))
	for i, d := range c.runs {
		out[i] = RunSnapshot{
			Filename:    d.Filename,
			SmallestKey: fmt.Sprintf("%v", d.Smallest.Key),
			LargestKey:  fmt.Sprintf("%v", d.Largest.Key),
		}
	}
	return out
}

// SnapshotJSON marshals Snapshot with github.com/goccy/go-json, per
// SPEC_FULL.md §4.D's debug-introspection addition.
func (c *Catalog) SnapshotJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}
