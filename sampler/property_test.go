package sampler

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/grimace87/midi-graph/node"
)

// Universal invariant from spec.md §8: whatever the loop range and however
// many output frames are pulled, SampleLoopNode never reads a source
// frame at or past loop.EndFrame, and never stops (isOn never flips
// false) purely because of looping — only running past the data entirely
// would do that, which a valid loop range precludes.
func TestSampleLoopNeverReadsPastLoopEndProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("loop wrap keeps the read cursor below loop.EndFrame", prop.ForAll(
		func(dataLen int, loopStart int, loopLen int, outputFrames int) bool {
			if loopStart+loopLen > dataLen {
				loopLen = dataLen - loopStart
			}
			if loopLen <= 0 {
				return true
			}
			loop := node.LoopRange{StartFrame: loopStart, EndFrame: loopStart + loopLen}
			if !loop.Valid(dataLen) {
				return true
			}

			samples := make([]float32, dataLen*2)
			for i := range samples {
				samples[i] = float32(i)
			}
			data := &Data{Samples: samples, SourceChannels: 2, SourceRate: 48000, SourceNote: 69}

			s := NewSampleLoopNode(data, loop, node.Both())
			node.OnEvent(s, &node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(69, 1.0)})

			buf := make([]float32, 2*outputFrames)
			s.FillBuffer(buf)

			if !s.isOn {
				return false
			}
			return s.position < float64(loop.EndFrame)
		},
		gen.IntRange(10, 200),
		gen.IntRange(0, 50),
		gen.IntRange(1, 100),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
