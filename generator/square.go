package generator

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

// SquareWave is a pitched generator that emits +amplitude for the first
// dutyCycle fraction of each cycle and -amplitude for the rest.
type SquareWave struct {
	node.Base
	voice

	amplitude float32
	dutyCycle float32
}

// NewSquareWave builds a square wave oscillator.
func NewSquareWave(amplitude, dutyCycle float32, balance node.Balance) *SquareWave {
	return &SquareWave{
		Base:      node.NewBase(),
		voice:     newVoice(balance),
		amplitude: amplitude,
		dutyCycle: dutyCycle,
	}
}

func (s *SquareWave) Duplicate() (node.Node, error) {
	dup := NewSquareWave(s.amplitude, s.dutyCycle, s.balance)
	return dup, nil
}

func (s *SquareWave) TryConsume(msg *node.Message) bool {
	return s.tryConsumeCommon(s.ID(), msg)
}

func (s *SquareWave) Propagate(*node.Message) {}

func (s *SquareWave) OnEvent(msg *node.Message) { node.OnEvent(s, msg) }

func (s *SquareWave) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

// FillBuffer accumulates buffer_len samples of square tone while the voice
// is on, and writes nothing while off.
func (s *SquareWave) FillBuffer(buf []float32) {
	if !s.isOn || s.periodSamples <= 0 {
		return
	}
	peak := s.peak(s.amplitude)
	// Truncated to a whole-sample boundary: the duty cycle divides a
	// period into a whole number of +/- samples, not a fractional one.
	threshold := math.Floor(s.periodSamples * float64(s.dutyCycle))
	for i := 0; i < frameCount(buf); i++ {
		progress := s.cycleProgress
		var value float32 = -1
		if progress < threshold {
			value = 1
		}
		writeFrame(buf, i, value, peak, s.balance)
		s.advance()
	}
}
