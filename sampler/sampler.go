// Package sampler implements the PCM playback leaf nodes: SampleLoopNode
// (forward-looping) and OneShotNode (plays once and falls silent). Both
// share the same resampling and rendering core, grounded in the teacher's
// pkg/audio/voice.go note-tracking state, generalized from oscillator phase
// to a source-data read cursor.
package sampler

import (
	"math"

	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

// Data holds decoded, immutable PCM ready for playback: interleaved float32
// samples at sourceRate, with sourceChannels ∈ {1, 2}. Multiple sampler
// nodes may share one Data by reference (construction-time duplication is
// a shallow copy of the slice header, never a deep copy of the samples).
type Data struct {
	Samples        []float32
	SourceChannels int
	SourceRate     int
	SourceNote     uint8
}

// FrameCount returns the number of sample-frames (not interleaved samples)
// held by d.
func (d *Data) FrameCount() int {
	if d.SourceChannels == 0 {
		return 0
	}
	return len(d.Samples) / d.SourceChannels
}

// core is the playback cursor state shared by SampleLoopNode and
// OneShotNode.
type core struct {
	data            *Data
	currentNote     uint8
	pitchMultiplier float32
	modulatedVolume float32
	noteVelocity    float32
	balance         node.Balance

	isOn bool
}

func newCore(data *Data, balance node.Balance) core {
	return core{
		data:            data,
		pitchMultiplier: 1,
		modulatedVolume: 1,
		balance:         balance,
	}
}

// playbackScale is 48000 / source_rate, correcting for the source file's
// native sample rate.
func (c *core) playbackScale() float64 {
	return float64(generator.SampleRate) / float64(c.data.SourceRate)
}

// framesPerOutputFrame combines the note-pitch ratio with the sample-rate
// correction: 2^((current-source)/12) / playbackScale.
func (c *core) framesPerOutputFrame() float64 {
	semitones := float64(c.currentNote) - float64(c.data.SourceNote)
	pitchRatio := math.Pow(2, semitones/12.0) * float64(c.pitchMultiplier)
	return pitchRatio / c.playbackScale()
}

func (c *core) noteOn(note uint8, vel float32) {
	c.isOn = true
	c.currentNote = note
	c.noteVelocity = vel
}

func (c *core) noteOff(note uint8) {
	if c.isOn && c.currentNote == note {
		c.isOn = false
	}
}

func (c *core) peak() float32 {
	return c.noteVelocity * c.modulatedVolume
}

// readFrame writes the PCM frame at src-frame index srcFrame into buf at
// dst-frame index i, duplicating mono to both channels or passing stereo
// through, scaled by peak and balance.
func (c *core) readFrame(buf []float32, i, srcFrame int, peak float32) {
	left, right := c.balance.Gains()
	base := srcFrame * c.data.SourceChannels
	if c.data.SourceChannels == 1 {
		v := c.data.Samples[base]
		buf[2*i] += v * peak * left
		buf[2*i+1] += v * peak * right
		return
	}
	buf[2*i] += c.data.Samples[base] * peak * left
	buf[2*i+1] += c.data.Samples[base+1] * peak * right
}

func (c *core) tryConsumeCommon(id node.ID, msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn:
		c.noteOn(msg.Data.Note, msg.Data.Velocity)
		return true
	case node.EventNoteOff:
		c.noteOff(msg.Data.Note)
		return true
	case node.EventNotesOff:
		c.isOn = false
		return true
	case node.EventPitchMultiplier:
		if !msg.AddressedTo(id) {
			return false
		}
		c.pitchMultiplier = msg.Data.Multiplier
		return true
	case node.EventSourceBalance:
		if !msg.AddressedTo(id) {
			return false
		}
		c.balance = msg.Data.Balance
		return true
	case node.EventVolume:
		if !msg.AddressedTo(id) {
			return false
		}
		c.modulatedVolume = msg.Data.Volume
		return true
	default:
		return false
	}
}
