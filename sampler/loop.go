package sampler

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

// SampleLoopNode plays PCM data with sample-rate-converting nearest-
// neighbor resampling. Whenever the read cursor reaches loop.EndFrame it
// jumps back by the loop length, so playback repeats the span from
// loop.StartFrame to loop.EndFrame for as long as the note is on.
type SampleLoopNode struct {
	node.Base
	core

	loop node.LoopRange

	// position is the fractional read cursor, in source frames.
	position float64
}

// NewSampleLoopNode builds a looping sampler. The caller is responsible for
// having validated loop.Valid(data.FrameCount()) at construction time;
// FillBuffer never performs that check.
func NewSampleLoopNode(data *Data, loop node.LoopRange, balance node.Balance) *SampleLoopNode {
	return &SampleLoopNode{
		Base: node.NewBase(),
		core: newCore(data, balance),
		loop: loop,
	}
}

func (s *SampleLoopNode) Duplicate() (node.Node, error) {
	return NewSampleLoopNode(s.data, s.loop, s.balance), nil
}

func (s *SampleLoopNode) TryConsume(msg *node.Message) bool {
	consumed := s.tryConsumeCommon(s.ID(), msg)
	if consumed && msg.Data.Kind == node.EventNoteOn {
		s.position = 0
	}
	return consumed
}

func (s *SampleLoopNode) Propagate(*node.Message)   {}
func (s *SampleLoopNode) OnEvent(msg *node.Message) { node.OnEvent(s, msg) }

func (s *SampleLoopNode) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}

func (s *SampleLoopNode) FillBuffer(buf []float32) {
	if !s.isOn {
		return
	}

	if s.position >= float64(s.loop.EndFrame) {
		s.position -= float64(s.loop.Len())
	}

	ratio := s.framesPerOutputFrame()
	peak := s.peak()
	frames := frameCount(buf)

	for i := 0; i < frames; i++ {
		if !s.isOn {
			return
		}
		if s.position >= float64(s.loop.EndFrame) {
			s.position -= float64(s.loop.Len())
		}

		srcFrame := int(math.Floor(s.position))
		if srcFrame >= s.data.FrameCount() {
			s.isOn = false
			return
		}

		s.readFrame(buf, i, srcFrame, peak)
		s.position += ratio
		if s.position >= float64(s.loop.EndFrame) {
			s.position -= float64(s.loop.Len())
		}
	}
}

func frameCount(buf []float32) int {
	return len(buf) / 2
}
