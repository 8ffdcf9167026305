package mixer

import (
	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

// Fader applies a scalar gain to a single child, either jumping instantly
// (Volume event) or ramping linearly over a span of seconds (Fade event).
type Fader struct {
	node.Base

	child   node.Node
	gain    float32
	ramping bool
	from    float32
	to      float32
	step    float32
	remain  int
	scratch []float32
}

// NewFader builds a Fader holding a constant initialVolume gain.
func NewFader(initialVolume float32, child node.Node) *Fader {
	return &Fader{
		Base:    node.NewBase(),
		child:   child,
		gain:    initialVolume,
		scratch: make([]float32, maxPullSamples),
	}
}

func (f *Fader) Duplicate() (node.Node, error) {
	dup, err := f.child.Duplicate()
	if err != nil {
		return nil, err
	}
	return NewFader(f.gain, dup), nil
}

func (f *Fader) TryConsume(msg *node.Message) bool {
	if !msg.AddressedTo(f.ID()) {
		return false
	}
	switch msg.Data.Kind {
	case node.EventVolume:
		f.gain = msg.Data.Volume
		f.ramping = false
		return true
	case node.EventFade:
		frames := msg.Data.FadeSeconds * sampleRate
		if frames <= 0 {
			f.gain = msg.Data.FadeTo
			f.ramping = false
			return true
		}
		f.from = msg.Data.FadeFrom
		f.to = msg.Data.FadeTo
		f.gain = f.from
		f.remain = int(frames)
		f.step = (f.to - f.from) / float32(f.remain)
		f.ramping = true
		return true
	default:
		return false
	}
}

// sampleRate mirrors generator.SampleRate: the whole graph, not just the
// oscillators, runs at one fixed playback rate.
const sampleRate = generator.SampleRate

func (f *Fader) Propagate(msg *node.Message) { node.OnEvent(f.child, msg) }

func (f *Fader) OnEvent(msg *node.Message) { node.OnEvent(f, msg) }

func (f *Fader) ReplaceChildren(children []node.Node) error {
	if len(children) != 1 {
		return node.ErrChildrenFixed
	}
	f.child = children[0]
	return nil
}

func (f *Fader) ensureScratch(n int) []float32 {
	if len(f.scratch) < n {
		f.scratch = make([]float32, n)
	}
	return f.scratch[:n]
}

func (f *Fader) FillBuffer(buf []float32) {
	scratch := f.ensureScratch(len(buf))
	for i := range scratch {
		scratch[i] = 0
	}
	f.child.FillBuffer(scratch)

	frames := frameCount(buf)
	for i := 0; i < frames; i++ {
		if f.ramping && f.remain > 0 {
			f.gain += f.step
			f.remain--
			if f.remain == 0 {
				f.gain = f.to
				f.ramping = false
			}
		}
		buf[2*i] += scratch[2*i] * f.gain
		buf[2*i+1] += scratch[2*i+1] * f.gain
	}
}

func frameCount(buf []float32) int { return len(buf) / 2 }
