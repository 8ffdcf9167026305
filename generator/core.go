// Package generator implements the leaf tone-generating nodes: SquareWave,
// TriangleWave, SawtoothWave, LfsrNoise, and the silent Null placeholder.
// The three oscillators share one phase-tracking core, grounded in the
// teacher's pkg/audio/oscillator.go (AdvancePhase, waveform dispatch) and
// pkg/audio/voice.go (per-voice runtime state).
package generator

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

// SampleRate is the fixed playback sample rate the whole graph runs at.
const SampleRate = 48000

// NoteToFrequency converts a MIDI note number to frequency in Hz, A440
// (note 69) being the reference.
func NoteToFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

// voice is the runtime state shared by every pitched generator.
type voice struct {
	isOn            bool
	currentNote     uint8
	pitchMultiplier float32
	modulatedVolume float32
	noteVelocity    float32
	balance         node.Balance

	// cycleProgress counts samples since the start of the current cycle;
	// it is rescaled whenever the effective frequency changes so phase is
	// preserved across pitch changes.
	cycleProgress float64
	periodSamples float64
}

func newVoice(balance node.Balance) voice {
	return voice{
		pitchMultiplier: 1,
		modulatedVolume: 1,
		balance:         balance,
	}
}

func (v *voice) frequency() float64 {
	return NoteToFrequency(v.currentNote) * float64(v.pitchMultiplier)
}

// retune recomputes periodSamples for the current frequency, rescaling
// cycleProgress by the ratio of new to old period so the waveform does not
// jump.
func (v *voice) retune() {
	freq := v.frequency()
	if freq <= 0 {
		return
	}
	newPeriod := SampleRate / freq
	if v.periodSamples > 0 {
		v.cycleProgress *= newPeriod / v.periodSamples
	}
	v.periodSamples = newPeriod
}

func (v *voice) noteOn(note uint8, vel float32) {
	v.isOn = true
	v.currentNote = note
	v.noteVelocity = vel
	v.cycleProgress = 0
	v.periodSamples = 0
	v.retune()
}

func (v *voice) noteOff(note uint8) {
	if v.isOn && v.currentNote == note {
		v.isOn = false
	}
}

// advance moves cycleProgress forward by one sample, wrapping at the
// period, and returns the progress fraction in [0, 1) for the sample just
// produced.
func (v *voice) advance() float64 {
	if v.periodSamples <= 0 {
		return 0
	}
	d := v.cycleProgress / v.periodSamples
	v.cycleProgress += 1
	if v.cycleProgress >= v.periodSamples {
		v.cycleProgress -= v.periodSamples
	}
	return d
}

// peak returns the instantaneous amplitude scale for this voice.
func (v *voice) peak(amplitude float32) float32 {
	return amplitude * v.noteVelocity * v.modulatedVolume
}

// tryConsumeCommon handles the event kinds every generator reacts to the
// same way: always-delivered note/broadcast control, and addressed
// modulation control. It returns whether the message was consumed.
func (v *voice) tryConsumeCommon(id node.ID, msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn:
		v.noteOn(msg.Data.Note, msg.Data.Velocity)
		return true
	case node.EventNoteOff:
		v.noteOff(msg.Data.Note)
		return true
	case node.EventNotesOff:
		v.isOn = false
		return true
	case node.EventPitchMultiplier:
		if !msg.AddressedTo(id) {
			return false
		}
		v.pitchMultiplier = msg.Data.Multiplier
		v.retune()
		return true
	case node.EventSourceBalance:
		if !msg.AddressedTo(id) {
			return false
		}
		v.balance = msg.Data.Balance
		return true
	case node.EventVolume:
		if !msg.AddressedTo(id) {
			return false
		}
		v.modulatedVolume = msg.Data.Volume
		return true
	default:
		return false
	}
}

// writeFrame accumulates one stereo frame of value*peak into buf at frame
// index i, applying the voice's balance.
func writeFrame(buf []float32, i int, value, peak float32, balance node.Balance) {
	left, right := balance.Gains()
	buf[2*i] += value * peak * left
	buf[2*i+1] += value * peak * right
}

func frameCount(buf []float32) int {
	return len(buf) / 2
}
