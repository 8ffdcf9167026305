package polyphony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

func TestPolyphonyRoundRobinScenario(t *testing.T) {
	proto := generator.NewSquareWave(0.5, 0.5, node.Both())
	poly, err := NewPolyphony(3, proto)
	require.NoError(t, err)

	notes := []uint8{60, 61, 62, 63, 64, 65}
	for _, n := range notes {
		poly.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(n, 1.0)})
	}

	assert.Equal(t, 0, poly.slotFor[60])
	assert.Equal(t, 1, poly.slotFor[61])
	assert.Equal(t, 2, poly.slotFor[62])
	assert.Equal(t, 0, poly.slotFor[63])
	assert.Equal(t, 1, poly.slotFor[64])
	assert.Equal(t, 2, poly.slotFor[65])
}

func TestPolyphonyNoteOffRoutesToHoldingVoice(t *testing.T) {
	proto := generator.NewSquareWave(0.5, 0.5, node.Both())
	poly, err := NewPolyphony(2, proto)
	require.NoError(t, err)

	poly.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(60, 1.0)})
	poly.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOffEvent(60, 1.0)})

	sq, ok := poly.voices[0].(*generator.SquareWave)
	require.True(t, ok)
	buf := make([]float32, 4)
	sq.FillBuffer(buf)
	for _, v := range buf {
		assert.Zero(t, v)
	}
}

func TestPolyphonyDegenerateSingleVoice(t *testing.T) {
	proto := generator.NewSquareWave(0.5, 0.5, node.Both())
	poly, err := NewPolyphony(0, proto)
	require.NoError(t, err)
	assert.Len(t, poly.voices, 1)

	poly.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(60, 1.0)})
	poly.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(62, 1.0)})
	assert.Equal(t, 0, poly.slotFor[60])
	assert.Equal(t, 0, poly.slotFor[62])
}
