package graph

import "github.com/grimace87/midi-graph/node"

// BaseMixer owns the graph root and is the sole entry point the audio
// backend calls. Grounded on spec.md §4.9 and, for the "zero then
// accumulate" buffer contract, the same accumulation discipline used
// throughout mixer/ and generator/.
type BaseMixer struct {
	root node.Node
}

// NewBaseMixer wraps root as the audio backend's single callback target.
func NewBaseMixer(root node.Node) *BaseMixer {
	return &BaseMixer{root: root}
}

// Root returns the underlying graph root, for callers that need to
// address events at it directly (e.g. routing a Node-targeted Message).
func (m *BaseMixer) Root() node.Node {
	return m.root
}

// Fill is the audio backend interface of spec.md §6: buf's length must be
// a positive multiple of 2 (stereo-interleaved). Fill zeroes buf, then
// accumulates the root's render into it.
func (m *BaseMixer) Fill(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
	m.root.FillBuffer(buf)
}
