package generator

import "github.com/grimace87/midi-graph/node"

// SawtoothWave is a pitched generator emitting a linear ramp per cycle:
// A(2d-1), where d is the fraction of the way through the current cycle.
type SawtoothWave struct {
	node.Base
	voice

	amplitude float32
}

// NewSawtoothWave builds a sawtooth wave oscillator.
func NewSawtoothWave(amplitude float32, balance node.Balance) *SawtoothWave {
	return &SawtoothWave{
		Base:      node.NewBase(),
		voice:     newVoice(balance),
		amplitude: amplitude,
	}
}

func (w *SawtoothWave) Duplicate() (node.Node, error) {
	return NewSawtoothWave(w.amplitude, w.balance), nil
}

func (w *SawtoothWave) TryConsume(msg *node.Message) bool {
	return w.tryConsumeCommon(w.ID(), msg)
}

func (w *SawtoothWave) Propagate(*node.Message)   {}
func (w *SawtoothWave) OnEvent(msg *node.Message) { node.OnEvent(w, msg) }

func (w *SawtoothWave) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

func (w *SawtoothWave) FillBuffer(buf []float32) {
	if !w.isOn || w.periodSamples <= 0 {
		return
	}
	peak := w.peak(w.amplitude)
	for i := 0; i < frameCount(buf); i++ {
		d := w.cycleProgress / w.periodSamples
		value := float32(2*d - 1)
		writeFrame(buf, i, value, peak, w.balance)
		w.advance()
	}
}
