// Package node defines the uniform audio-graph node abstraction shared by
// every generator, sampler, and composite in this module: identity, event
// consumption/propagation, buffer-pull rendering, and child replacement.
package node

// Node is the capability every element of the audio graph implements,
// whether a leaf generator/sampler or a composite that owns children.
//
// Event delivery is always OnEvent = TryConsume; Propagate, run
// unconditionally in that order, so a Node(id)-addressed event can still
// reach a descendant through intermediaries and a Broadcast event always
// reaches leaves regardless of what an ancestor does with it.
type Node interface {
	// ID returns this node's identifier.
	ID() ID
	// SetID assigns this node's identifier.
	SetID(ID)

	// Duplicate returns a structural clone with runtime state reset. Nodes
	// that cannot be safely duplicated (SoundFont, MidiSource) return an
	// error.
	Duplicate() (Node, error)

	// TryConsume delivers msg to this node if it applies, and reports
	// whether it did.
	TryConsume(msg *Message) bool
	// Propagate forwards msg to children without interpreting it. Leaves
	// do nothing.
	Propagate(msg *Message)
	// OnEvent is the entry point for incoming messages.
	OnEvent(msg *Message)

	// FillBuffer accumulates (sums into) buf, an interleaved stereo
	// buffer. It must never overwrite samples a caller has already
	// populated.
	FillBuffer(buf []float32)

	// ReplaceChildren rebuilds this node's child list from fresh
	// duplicates. Leaves reject any non-empty list.
	ReplaceChildren(children []Node) error
}

// OnEvent is the standard implementation of the Node.OnEvent entry point,
// shared by every concrete node type via embedding or direct call: try to
// consume, then always propagate.
func OnEvent(n Node, msg *Message) {
	n.TryConsume(msg)
	n.Propagate(msg)
}

// Base holds the bookkeeping common to every node: its id. Embed it to get
// ID/SetID for free.
type Base struct {
	id ID
}

// NewBase returns a Base with an auto-assigned id.
func NewBase() Base {
	return Base{id: NewID()}
}

func (b *Base) ID() ID      { return b.id }
func (b *Base) SetID(id ID) { b.id = id }
