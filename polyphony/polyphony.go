// Package polyphony implements Polyphony, the voice-allocating composite
// that fans a single incoming NoteOn/NoteOff stream out across a fixed pool
// of duplicated child voices. Grounded in the teacher's voice-assignment
// loop in pkg/audio/synth.go, generalized from a fixed CLAP voice array to
// a pool of duplicated Node prototypes (spec.md §4.5).
package polyphony

import (
	"github.com/grimace87/midi-graph/node"
)

// Polyphony round-robins NoteOn across maxVoices duplicates of a prototype
// node, remembering which voice is playing which note so NoteOff reaches
// the right one. maxVoices of 0 or 1 degenerates to a single pass-through
// voice.
type Polyphony struct {
	node.Base

	voices  []node.Node
	nextIdx int
	slotFor map[uint8]int
}

// NewPolyphony duplicates prototype maxVoices times (or once, if maxVoices
// is 0 or 1) to build the voice pool.
func NewPolyphony(maxVoices int, prototype node.Node) (*Polyphony, error) {
	count := maxVoices
	if count < 1 {
		count = 1
	}

	voices := make([]node.Node, count)
	for i := 0; i < count; i++ {
		dup, err := prototype.Duplicate()
		if err != nil {
			return nil, err
		}
		voices[i] = dup
	}

	return &Polyphony{
		Base:    node.NewBase(),
		voices:  voices,
		slotFor: make(map[uint8]int),
	}, nil
}

func (p *Polyphony) Duplicate() (node.Node, error) {
	return NewPolyphony(len(p.voices), p.voices[0])
}

func (p *Polyphony) TryConsume(msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn:
		slot := p.nextIdx
		p.nextIdx = (p.nextIdx + 1) % len(p.voices)
		p.slotFor[msg.Data.Note] = slot
		node.OnEvent(p.voices[slot], msg)
		return true
	case node.EventNoteOff:
		if slot, ok := p.slotFor[msg.Data.Note]; ok {
			node.OnEvent(p.voices[slot], msg)
		}
		return true
	default:
		for _, v := range p.voices {
			node.OnEvent(v, msg)
		}
		return true
	}
}

func (p *Polyphony) Propagate(*node.Message) {}

func (p *Polyphony) OnEvent(msg *node.Message) { node.OnEvent(p, msg) }

func (p *Polyphony) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrChildrenFixed
}

func (p *Polyphony) FillBuffer(buf []float32) {
	for _, v := range p.voices {
		v.FillBuffer(buf)
	}
}
