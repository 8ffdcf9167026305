package generator

import "github.com/grimace87/midi-graph/node"

// TriangleWave is a pitched generator emitting a linear triangle shape per
// cycle: A(4d-1) for d<=0.5, A(3-4d) for d>0.5, where d is the fraction of
// the way through the current cycle.
type TriangleWave struct {
	node.Base
	voice

	amplitude float32
}

// NewTriangleWave builds a triangle wave oscillator.
func NewTriangleWave(amplitude float32, balance node.Balance) *TriangleWave {
	return &TriangleWave{
		Base:      node.NewBase(),
		voice:     newVoice(balance),
		amplitude: amplitude,
	}
}

func (t *TriangleWave) Duplicate() (node.Node, error) {
	return NewTriangleWave(t.amplitude, t.balance), nil
}

func (t *TriangleWave) TryConsume(msg *node.Message) bool {
	return t.tryConsumeCommon(t.ID(), msg)
}

func (t *TriangleWave) Propagate(*node.Message)    {}
func (t *TriangleWave) OnEvent(msg *node.Message)  { node.OnEvent(t, msg) }

func (t *TriangleWave) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

func (t *TriangleWave) FillBuffer(buf []float32) {
	if !t.isOn || t.periodSamples <= 0 {
		return
	}
	peak := t.peak(t.amplitude)
	for i := 0; i < frameCount(buf); i++ {
		d := t.cycleProgress / t.periodSamples
		var value float32
		if d <= 0.5 {
			value = float32(4*d - 1)
		} else {
			value = float32(3 - 4*d)
		}
		writeFrame(buf, i, value, peak, t.balance)
		t.advance()
	}
}
