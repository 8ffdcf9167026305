package sampler

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

// OneShotNode is the non-looping counterpart of SampleLoopNode: playback
// stops for good once the data runs out.
type OneShotNode struct {
	node.Base
	core

	position float64
}

// NewOneShotNode builds a one-shot PCM sampler.
func NewOneShotNode(data *Data, balance node.Balance) *OneShotNode {
	return &OneShotNode{
		Base: node.NewBase(),
		core: newCore(data, balance),
	}
}

func (s *OneShotNode) Duplicate() (node.Node, error) {
	return NewOneShotNode(s.data, s.balance), nil
}

func (s *OneShotNode) TryConsume(msg *node.Message) bool {
	consumed := s.tryConsumeCommon(s.ID(), msg)
	if consumed && msg.Data.Kind == node.EventNoteOn {
		s.position = 0
	}
	return consumed
}

func (s *OneShotNode) Propagate(*node.Message)   {}
func (s *OneShotNode) OnEvent(msg *node.Message) { node.OnEvent(s, msg) }

func (s *OneShotNode) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

func (s *OneShotNode) FillBuffer(buf []float32) {
	if !s.isOn {
		return
	}

	ratio := s.framesPerOutputFrame()
	peak := s.peak()
	frames := frameCount(buf)

	for i := 0; i < frames; i++ {
		srcFrame := int(math.Floor(s.position))
		if srcFrame >= s.data.FrameCount() {
			s.isOn = false
			return
		}
		s.readFrame(buf, i, srcFrame, peak)
		s.position += ratio
	}
}
