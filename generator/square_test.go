package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grimace87/midi-graph/node"
)

// 440Hz (note 69) square wave, amplitude 0.5, duty 0.5: period ~109.09
// frames; the first 54 frames should be +0.5 on both channels, the next
// 55 should be -0.5. (spec.md §8, scenario 1.)
func TestSquareWaveToneScenario(t *testing.T) {
	sq := NewSquareWave(0.5, 0.5, node.Both())
	sq.OnEvent(&node.Message{
		Target: node.BroadcastTarget(),
		Data:   node.NoteOnEvent(69, 1.0),
	})

	const frames = 109
	buf := make([]float32, 2*frames)
	sq.FillBuffer(buf)

	for i := 0; i < 54; i++ {
		assert.InDelta(t, 0.5, buf[2*i], 1e-6, "frame %d left", i)
		assert.InDelta(t, 0.5, buf[2*i+1], 1e-6, "frame %d right", i)
	}
	for i := 54; i < frames; i++ {
		assert.InDelta(t, -0.5, buf[2*i], 1e-6, "frame %d left", i)
	}
}

func TestSquareWaveSilentWhenOff(t *testing.T) {
	sq := NewSquareWave(0.5, 0.5, node.Both())
	buf := make([]float32, 2*64)
	sq.FillBuffer(buf)
	for _, s := range buf {
		assert.Zero(t, s)
	}
}

func TestSquareWaveAccumulates(t *testing.T) {
	sq := NewSquareWave(0.5, 0.5, node.Both())
	sq.OnEvent(&node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(69, 1.0)})

	buf := make([]float32, 2*10)
	for i := range buf {
		buf[i] = 0.25
	}
	sq.FillBuffer(buf)
	assert.InDelta(t, 0.75, buf[0], 1e-6)
}

func TestSquareWaveIdempotentNoteOff(t *testing.T) {
	sq := NewSquareWave(0.5, 0.5, node.Both())
	on := &node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(60, 1.0)}
	off := &node.Message{Target: node.BroadcastTarget(), Data: node.NoteOffEvent(60, 1.0)}
	sq.OnEvent(on)
	sq.OnEvent(off)
	assert.False(t, sq.isOn)
	sq.OnEvent(off)
	assert.False(t, sq.isOn)
}
