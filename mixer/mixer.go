package mixer

import "github.com/grimace87/midi-graph/node"

// Mixer blends exactly two children by a balance weight: child0 scaled by
// (1-balance), child1 scaled by balance. Responds to a Node-targeted
// MixerBalance event, restored from original_source's
// Source::MixerBalance(f32) (src/source/mod.rs).
type Mixer struct {
	node.Base

	balance float32
	child0  node.Node
	child1  node.Node
	scratch []float32
}

// NewMixer builds a Mixer. balance is clamped to [0, 1].
func NewMixer(balance float32, child0, child1 node.Node) *Mixer {
	if balance < 0 {
		balance = 0
	} else if balance > 1 {
		balance = 1
	}
	return &Mixer{
		Base:    node.NewBase(),
		balance: balance,
		child0:  child0,
		child1:  child1,
		scratch: make([]float32, maxPullSamples),
	}
}

func (m *Mixer) Duplicate() (node.Node, error) {
	d0, err := m.child0.Duplicate()
	if err != nil {
		return nil, err
	}
	d1, err := m.child1.Duplicate()
	if err != nil {
		return nil, err
	}
	return NewMixer(m.balance, d0, d1), nil
}

func (m *Mixer) TryConsume(msg *node.Message) bool {
	if msg.Data.Kind == node.EventMixerBalance && msg.AddressedTo(m.ID()) {
		bal := msg.Data.MixerBalance
		if bal < 0 {
			bal = 0
		} else if bal > 1 {
			bal = 1
		}
		m.balance = bal
		return true
	}
	return false
}

func (m *Mixer) Propagate(msg *node.Message) {
	node.OnEvent(m.child0, msg)
	node.OnEvent(m.child1, msg)
}

func (m *Mixer) OnEvent(msg *node.Message) { node.OnEvent(m, msg) }

func (m *Mixer) ReplaceChildren(children []node.Node) error {
	if len(children) != 2 {
		return node.ErrChildrenFixed
	}
	m.child0, m.child1 = children[0], children[1]
	return nil
}

func (m *Mixer) ensureScratch(n int) []float32 {
	if len(m.scratch) < n {
		m.scratch = make([]float32, n)
	}
	return m.scratch[:n]
}

func (m *Mixer) FillBuffer(buf []float32) {
	scratch := m.ensureScratch(len(buf))

	for i := range scratch {
		scratch[i] = 0
	}
	m.child0.FillBuffer(scratch)
	g0 := 1 - m.balance
	for i := range buf {
		buf[i] += scratch[i] * g0
	}

	for i := range scratch {
		scratch[i] = 0
	}
	m.child1.FillBuffer(scratch)
	for i := range buf {
		buf[i] += scratch[i] * m.balance
	}
}
