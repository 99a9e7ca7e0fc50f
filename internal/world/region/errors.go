package region

import (
	"fmt"
	"time"

	"github.com/blockforge/worldstore/pkg/world/gen"
)

// CorruptionError reports unreadable stored data for a single chunk. It is
// scoped to that chunk: sibling slots in the same region file stay readable.
type CorruptionError struct {
	Pos gen.ChunkPos
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("chunk (%s): corrupt stored data: %v", e.Pos, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// LockError reports that the advisory lock on a region file could not be
// acquired within the configured timeout.
type LockError struct {
	Path    string
	Timeout time.Duration
}

func (e *LockError) Error() string {
	return fmt.Sprintf("region %s: lock not acquired within %s", e.Path, e.Timeout)
}

// IntegrityError reports a slot-table invariant violation such as
// overlapping sector allocations. It marks the region file itself as
// inconsistent, which is a format or logic fault rather than an I/O failure,
// and is reported distinctly so operators can tell the two apart.
type IntegrityError struct {
	Path string
	Msg  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("region %s: integrity fault: %s", e.Path, e.Msg)
}
