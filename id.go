package lexid

import (
	"cmp"
	"time"

	"github.com/roach88/lexid/worker"
)

// Size is the length of the binary form.
const Size = 16

// TextLen is the length of the text form.
const TextLen = 36

// ID is a lexically-ordered identifier. It is a comparable value type: two
// IDs are == exactly when all three fields match, so ID works directly as a
// map key.
type ID struct {
	// Timestamp is microseconds since the Unix epoch.
	Timestamp int64

	// Jitter separates identifiers minted within one microsecond.
	Jitter int32

	// WorkerID identifies the minting process.
	WorkerID int32
}

// Nil is the zero ID.
var Nil ID

// FromFields builds an ID from explicit field values. It never consults the
// clock or the worker provider.
func FromFields(timestamp int64, jitter, workerID int32) ID {
	return ID{Timestamp: timestamp, Jitter: jitter, WorkerID: workerID}
}

// Compare returns -1, 0 or 1 ordering by timestamp, then jitter, then
// worker id.
func (id ID) Compare(other ID) int {
	if c := cmp.Compare(id.Timestamp, other.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Jitter, other.Jitter); c != 0 {
		return c
	}
	return cmp.Compare(id.WorkerID, other.WorkerID)
}

// Compare is the function form of ID.Compare, for slices.SortFunc.
func Compare(a, b ID) int {
	return a.Compare(b)
}

// Less reports whether id sorts before other.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// Equal reports whether all three fields match.
func (id ID) Equal(other ID) bool {
	return id == other
}

// IsNil reports whether id is the zero ID.
func (id ID) IsNil() bool {
	return id == Nil
}

// Hash returns the FNV-1a 64-bit hash of the binary form. Equal IDs hash
// equally in every process.
func (id ID) Hash() uint64 {
	b := id.Bytes()
	return worker.Hash64(b[:])
}

// Time returns the timestamp as a time.Time.
func (id ID) Time() time.Time {
	return time.UnixMicro(id.Timestamp)
}
