// Package mixer implements the buffer-combining composites: Combiner,
// Mixer, Fader, and the ADSR Envelope. Grounded in the teacher's
// pkg/audio/dsp.go buffer-summing helpers and pkg/util/envelope.go
// (ADSREnvelope) (spec.md §4.6).
package mixer

import "github.com/grimace87/midi-graph/node"

// maxPullSamples is BUFFER_SIZE (2048 frames) times CHANNEL_COUNT (2),
// the largest pull this graph is specified to receive. Scratch buffers are
// pre-sized to it at construction time so FillBuffer never allocates once
// warmed up.
const maxPullSamples = 2048 * 2

// Combiner sums N children into the output buffer. Each child is rendered
// into a private scratch buffer (so a child that overwrites rather than
// accumulates cannot corrupt its siblings) and the result is added into
// the destination.
type Combiner struct {
	node.Base

	children []node.Node
	scratch  []float32
}

// NewCombiner builds a Combiner over children.
func NewCombiner(children []node.Node) *Combiner {
	return &Combiner{
		Base:     node.NewBase(),
		children: children,
		scratch:  make([]float32, maxPullSamples),
	}
}

func (c *Combiner) Duplicate() (node.Node, error) {
	dups := make([]node.Node, len(c.children))
	for i, ch := range c.children {
		d, err := ch.Duplicate()
		if err != nil {
			return nil, err
		}
		dups[i] = d
	}
	return NewCombiner(dups), nil
}

func (c *Combiner) TryConsume(*node.Message) bool { return false }

func (c *Combiner) Propagate(msg *node.Message) {
	for _, ch := range c.children {
		node.OnEvent(ch, msg)
	}
}

func (c *Combiner) OnEvent(msg *node.Message) { node.OnEvent(c, msg) }

func (c *Combiner) ReplaceChildren(children []node.Node) error {
	c.children = children
	return nil
}

func (c *Combiner) ensureScratch(n int) []float32 {
	if len(c.scratch) < n {
		c.scratch = make([]float32, n)
	}
	return c.scratch[:n]
}

func (c *Combiner) FillBuffer(buf []float32) {
	scratch := c.ensureScratch(len(buf))
	for _, ch := range c.children {
		for i := range scratch {
			scratch[i] = 0
		}
		ch.FillBuffer(scratch)
		for i := range buf {
			buf[i] += scratch[i]
		}
	}
}
