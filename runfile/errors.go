package runfile

import "errors"

// ErrTruncatedRun marks a run file whose header claims more records (or a
// larger trailer) than the file actually contains.
var ErrTruncatedRun = errors.New("truncated run file")

// ErrNameCollision marks a flush whose chosen filename already exists on
// disk — the run-I/O component's monotonic counter and the directory's
// actual contents have diverged.
var ErrNameCollision = errors.New("run filename collision")

// ErrInvalidHeader marks a header whose header_checksum is neither the
// legacy nor the versioned self-describing value.
var ErrInvalidHeader = errors.New("invalid run header")

// ErrStorageIO wraps a host filesystem failure (open, read, write) not
// already classified by one of the sentinels above, per spec.md §7's
// StorageIoError: "carries the path and the host error."
var ErrStorageIO = errors.New("storage io error")
