package mixer

import "github.com/grimace87/midi-graph/node"

type envelopeStage int

const (
	stageIdle envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope is an ADSR gain shaper wrapping a single child. It forwards
// NoteOn to the child when transitioning Idle/Release -> Attack, and holds
// back NoteOff until the release tail finishes and the stage returns to
// Idle, so the child keeps producing audio through the release.
type Envelope struct {
	node.Base

	attackSeconds  float32
	decaySeconds   float32
	sustainLevel   float32
	releaseSeconds float32
	child          node.Node

	stage         envelopeStage
	level         float32
	releaseStepAt float32
	pendingNote   uint8
	scratch       []float32
}

// NewEnvelope builds an ADSR envelope.
func NewEnvelope(attack, decay, sustainMultiplier, release float32, child node.Node) *Envelope {
	return &Envelope{
		Base:           node.NewBase(),
		attackSeconds:  attack,
		decaySeconds:   decay,
		sustainLevel:   sustainMultiplier,
		releaseSeconds: release,
		child:          child,
		scratch:        make([]float32, maxPullSamples),
	}
}

func (e *Envelope) Duplicate() (node.Node, error) {
	dup, err := e.child.Duplicate()
	if err != nil {
		return nil, err
	}
	return NewEnvelope(e.attackSeconds, e.decaySeconds, e.sustainLevel, e.releaseSeconds, dup), nil
}

func (e *Envelope) TryConsume(msg *node.Message) bool {
	switch msg.Data.Kind {
	case node.EventNoteOn:
		if e.stage == stageIdle || e.stage == stageRelease {
			e.stage = stageAttack
			e.level = 0
			e.pendingNote = msg.Data.Note
			node.OnEvent(e.child, msg)
		}
		return true
	case node.EventNoteOff:
		e.enterRelease()
		return true
	case node.EventNotesOff:
		e.enterRelease()
		return true
	default:
		node.OnEvent(e.child, msg)
		return true
	}
}

func (e *Envelope) enterRelease() {
	if e.stage == stageIdle || e.stage == stageRelease {
		return
	}
	e.stage = stageRelease
	e.releaseStepAt = releaseStep(e.releaseSeconds, e.level)
}

func (e *Envelope) Propagate(*node.Message) {}

func (e *Envelope) OnEvent(msg *node.Message) { node.OnEvent(e, msg) }

func (e *Envelope) ReplaceChildren(children []node.Node) error {
	if len(children) != 1 {
		return node.ErrChildrenFixed
	}
	e.child = children[0]
	return nil
}

func (e *Envelope) ensureScratch(n int) []float32 {
	if len(e.scratch) < n {
		e.scratch = make([]float32, n)
	}
	return e.scratch[:n]
}

// advance moves the envelope one sample forward and returns the gain to
// apply to that sample. It transitions stages exactly at their natural
// end, and reports (via the NoteOff-on-Idle rule) when Idle is reached by
// returning true as the second value.
func (e *Envelope) advance() (gain float32, enteredIdle bool) {
	switch e.stage {
	case stageIdle:
		return 0, false
	case stageAttack:
		step := attackStep(e.attackSeconds)
		e.level += step
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
		}
		return e.level, false
	case stageDecay:
		step := decayStep(e.decaySeconds, e.sustainLevel)
		e.level -= step
		if e.level <= e.sustainLevel {
			e.level = e.sustainLevel
			e.stage = stageSustain
		}
		return e.level, false
	case stageSustain:
		return e.sustainLevel, false
	case stageRelease:
		e.level -= e.releaseStepAt
		if e.level <= 0 {
			e.level = 0
			e.stage = stageIdle
			return 0, true
		}
		return e.level, false
	default:
		return 0, false
	}
}

func attackStep(seconds float32) float32 {
	if seconds <= 0 {
		return 1
	}
	return 1 / (seconds * sampleRate)
}

func decayStep(seconds float32, sustainLevel float32) float32 {
	if seconds <= 0 {
		return 1
	}
	return (1 - sustainLevel) / (seconds * sampleRate)
}

func releaseStep(seconds float32, fromLevel float32) float32 {
	if seconds <= 0 {
		return fromLevel
	}
	return fromLevel / (seconds * sampleRate)
}

func (e *Envelope) FillBuffer(buf []float32) {
	if e.stage == stageIdle {
		return
	}

	scratch := e.ensureScratch(len(buf))
	for i := range scratch {
		scratch[i] = 0
	}
	e.child.FillBuffer(scratch)

	frames := frameCount(buf)
	for i := 0; i < frames; i++ {
		gain, enteredIdle := e.advance()
		buf[2*i] += scratch[2*i] * gain
		buf[2*i+1] += scratch[2*i+1] * gain
		if enteredIdle {
			node.OnEvent(e.child, &node.Message{
				Target: node.BroadcastTarget(),
				Data:   node.NoteOffEvent(e.pendingNote, 0),
			})
		}
	}
}
