package catalog

import "errors"

// ErrCatalogParse marks a present-but-unparseable Index.sst. Per spec.md
// §4.D this is fatal to Open and must never be confused with a missing
// catalog file, which simply yields an empty run list.
var ErrCatalogParse = errors.New("catalog parse error")

// ErrInvalidDescriptor marks a run descriptor whose smallest key is
// greater than its largest key, or whose smallest/largest is empty —
// spec.md §3's invariant on Descriptor.
var ErrInvalidDescriptor = errors.New("invalid run descriptor")
