package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

func twoTrackTimeline() *Timeline {
	return &Timeline{
		Format:          1,
		TicksPerQuarter: 480,
		Tracks: []Track{
			{Events: []TimedEvent{
				{DeltaTicks: 0, Event: Event{Kind: EventNoteOn, Channel: 0, Note: 60, Velocity: 100}},
				{DeltaTicks: 480, Event: Event{Kind: EventNoteOff, Channel: 0, Note: 60, Velocity: 0}},
				{DeltaTicks: 0, Event: Event{Kind: EventEndOfTrack, Channel: 0}},
			}},
			{Events: []TimedEvent{
				{DeltaTicks: 0, Event: Event{Kind: EventNoteOn, Channel: 1, Note: 64, Velocity: 100}},
				{DeltaTicks: 480, Event: Event{Kind: EventNoteOff, Channel: 1, Note: 64, Velocity: 0}},
				{DeltaTicks: 0, Event: Event{Kind: EventEndOfTrack, Channel: 1}},
			}},
		},
	}
}

func TestMidiSourceTwoTrackSumBothAudible(t *testing.T) {
	// Unequal amplitudes, so frames where the two square waves have
	// opposite signs sum to +/-0.25 rather than cancelling to zero.
	ch0 := generator.NewSquareWave(0.5, 0.5, node.Both())
	ch1 := generator.NewSquareWave(0.25, 0.5, node.Both())
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0, 1: ch1})

	buf := make([]float32, 2*100)
	src.FillBuffer(buf)

	for i := 0; i < 100; i++ {
		assert.NotZero(t, buf[2*i], "frame %d should carry both voices' tone", i)
	}
}

func TestMidiTickAlignmentNoteOffBoundary(t *testing.T) {
	// samples_per_tick = (500000/1e6)*48000/480 = 50; NoteOff at tick 480
	// fires at frame 480*50 = 24000.
	ch0 := generator.NewSquareWave(1.0, 1.0, node.Both())
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0, 1: generator.NewNull()})

	buf := make([]float32, 2*24000)
	src.FillBuffer(buf)

	assert.NotZero(t, buf[2*23999], "last frame before the boundary should still be audible")
}

func TestMidiSourceFinishedAfterAllTracksEnd(t *testing.T) {
	ch0 := generator.NewNull()
	ch1 := generator.NewNull()
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0, 1: ch1})

	require.False(t, src.Finished())
	buf := make([]float32, 2*24001)
	src.FillBuffer(buf)
	assert.True(t, src.Finished())
}

func TestMidiSourceSeekWhenIdealRewindsToStart(t *testing.T) {
	ch0 := generator.NewNull()
	ch1 := generator.NewNull()
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0, 1: ch1})

	buf := make([]float32, 2*24001)
	src.FillBuffer(buf)
	require.True(t, src.Finished())

	consumed := src.TryConsume(&node.Message{
		Target: node.NodeTarget(src.ID()),
		Data:   node.SeekWhenIdealEvent(0, false),
	})
	require.True(t, consumed)
	assert.False(t, src.Finished())
	assert.Zero(t, src.cursors[0].nextIndex)
}

func TestMidiSourceSeekWhenIdealToAnchorTick(t *testing.T) {
	ch0 := generator.NewNull()
	ch1 := generator.NewNull()
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0, 1: ch1})

	// Anchor between the two track-0 events (tick 0 NoteOn, tick 480
	// NoteOff): seeking to tick 200 should land the cursor on the NoteOff.
	ok := src.TryConsume(&node.Message{
		Target: node.NodeTarget(src.ID()),
		Data:   node.SeekWhenIdealEvent(200, true),
	})
	require.True(t, ok)
	assert.Equal(t, 1, src.cursors[0].nextIndex)
	assert.InDelta(t, 200, src.cursors[0].eventTicksProgress, 1e-9)
}

func TestMidiSourceDropsUnmappedChannel(t *testing.T) {
	ch0 := generator.NewSquareWave(1.0, 1.0, node.Both())
	src := NewMidiSource(twoTrackTimeline(), map[uint8]node.Node{0: ch0})

	buf := make([]float32, 2*10)
	assert.NotPanics(t, func() { src.FillBuffer(buf) })
}
