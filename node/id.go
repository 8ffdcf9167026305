package node

import "sync/atomic"

// ID identifies a node within a graph. Ids below FirstAutoID are reserved
// for explicit assignment by a graph description; ids at or above it are
// handed out by NewID.
type ID uint64

// FirstAutoID is the first value NewID will ever return.
const FirstAutoID ID = 0x10000

var nextID atomic.Uint64

func init() {
	nextID.Store(uint64(FirstAutoID))
}

// NewID returns the next process-wide auto-assigned node id. Graph
// construction is the only caller; nothing on the audio thread allocates
// ids.
func NewID() ID {
	return ID(nextID.Add(1) - 1)
}
