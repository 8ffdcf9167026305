package generator

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

// LfsrNoise is a 15-bit linear-feedback shift register noise source,
// approximating NES-style noise. The MIDI note noteFor16Shifts is defined
// to produce 16 register shifts per output sample; other notes scale the
// shift rate geometrically by semitone distance from it.
type LfsrNoise struct {
	node.Base

	isOn            bool
	currentNote     uint8
	pitchMultiplier float32
	modulatedVolume float32
	noteVelocity    float32
	balance         node.Balance

	amplitude       float32
	insideFeedback  bool
	noteFor16Shifts uint8

	register       uint16
	shiftAccum     float64
}

const lfsrInitial uint16 = 1

// NewLfsrNoise builds an LFSR noise source. insideFeedback selects the
// short-period tap set {0,6}; otherwise the long-period set {0,1} is used.
func NewLfsrNoise(amplitude float32, insideFeedback bool, noteFor16Shifts uint8, balance node.Balance) *LfsrNoise {
	return &LfsrNoise{
		Base:            node.NewBase(),
		pitchMultiplier: 1,
		modulatedVolume: 1,
		balance:         balance,
		amplitude:       amplitude,
		insideFeedback:  insideFeedback,
		noteFor16Shifts: noteFor16Shifts,
		register:        lfsrInitial,
	}
}

func (n *LfsrNoise) Duplicate() (node.Node, error) {
	return NewLfsrNoise(n.amplitude, n.insideFeedback, n.noteFor16Shifts, n.balance), nil
}

func (n *LfsrNoise) shiftsPerSample() float64 {
	semitones := float64(n.currentNote) - float64(n.noteFor16Shifts)
	return 16.0 * float64(n.pitchMultiplier) * math.Pow(2, semitones/12.0)
}

func (n *LfsrNoise) shift() {
	var feedback uint16
	if n.insideFeedback {
		feedback = (n.register ^ (n.register >> 6)) & 1
	} else {
		feedback = (n.register ^ (n.register >> 1)) & 1
	}
	n.register = (n.register >> 1) | (feedback << 14)
}

func (n *LfsrNoise) TryConsume(msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn:
		n.isOn = true
		n.currentNote = msg.Data.Note
		n.noteVelocity = msg.Data.Velocity
		n.register = lfsrInitial
		n.shiftAccum = 0
		return true
	case node.EventNoteOff:
		if n.isOn && n.currentNote == msg.Data.Note {
			n.isOn = false
		}
		return true
	case node.EventNotesOff:
		n.isOn = false
		return true
	case node.EventPitchMultiplier:
		if !msg.AddressedTo(n.ID()) {
			return false
		}
		n.pitchMultiplier = msg.Data.Multiplier
		return true
	case node.EventSourceBalance:
		if !msg.AddressedTo(n.ID()) {
			return false
		}
		n.balance = msg.Data.Balance
		return true
	case node.EventVolume:
		if !msg.AddressedTo(n.ID()) {
			return false
		}
		n.modulatedVolume = msg.Data.Volume
		return true
	default:
		return false
	}
}

func (n *LfsrNoise) Propagate(*node.Message)   {}
func (n *LfsrNoise) OnEvent(msg *node.Message) { node.OnEvent(n, msg) }

func (n *LfsrNoise) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

func (n *LfsrNoise) FillBuffer(buf []float32) {
	if !n.isOn {
		return
	}
	peak := n.amplitude * n.noteVelocity * n.modulatedVolume
	rate := n.shiftsPerSample()
	for i := 0; i < frameCount(buf); i++ {
		var value float32 = -1
		if n.register&1 == 1 {
			value = 1
		}
		writeFrame(buf, i, value, peak, n.balance)

		n.shiftAccum += rate
		for n.shiftAccum >= 1 {
			n.shift()
			n.shiftAccum -= 1
		}
	}
}
