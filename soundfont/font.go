// Package soundfont implements Font, the range-routing composite that maps
// MIDI key ranges onto child nodes. Grounded in spec.md §4.4, with the
// range-table shape taken from original_source's font/range.rs.
package soundfont

import (
	"github.com/grimace87/midi-graph/node"
)

// Zone pairs a key range with the subtree that plays it.
type Zone struct {
	Range node.NoteRange
	Child node.Node
}

// Font routes NoteOn/NoteOff events to every zone whose range contains the
// key, and broadcasts every other event to all zones. It always reports a
// message as consumed.
type Font struct {
	node.Base

	zones []Zone
}

// NewFont builds a Font over an ordered list of zones. Overlapping ranges
// are permitted; a key inside more than one zone is dispatched to all of
// them.
func NewFont(zones []Zone) *Font {
	return &Font{Base: node.NewBase(), zones: zones}
}

func (*Font) Duplicate() (node.Node, error) {
	return nil, node.ErrNotDuplicable
}

func (f *Font) TryConsume(msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn, node.EventNoteOff:
		key := msg.Data.Note
		for _, z := range f.zones {
			if z.Range.Contains(key) {
				node.OnEvent(z.Child, msg)
			}
		}
	default:
		for _, z := range f.zones {
			node.OnEvent(z.Child, msg)
		}
	}
	return true
}

func (f *Font) Propagate(*node.Message) {}

func (f *Font) OnEvent(msg *node.Message) { node.OnEvent(f, msg) }

func (*Font) ReplaceChildren([]node.Node) error {
	return node.ErrChildrenFixed
}

func (f *Font) FillBuffer(buf []float32) {
	for _, z := range f.zones {
		z.Child.FillBuffer(buf)
	}
}
