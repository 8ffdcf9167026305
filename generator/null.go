package generator

import "github.com/grimace87/midi-graph/node"

// Null is a placeholder leaf that consumes no events and emits silence.
type Null struct {
	node.Base
}

// NewNull builds a Null placeholder node.
func NewNull() *Null {
	return &Null{Base: node.NewBase()}
}

func (*Null) Duplicate() (node.Node, error) { return NewNull(), nil }
func (*Null) TryConsume(*node.Message) bool { return false }
func (*Null) Propagate(*node.Message)       {}
func (n *Null) OnEvent(msg *node.Message)   { node.OnEvent(n, msg) }
func (*Null) FillBuffer([]float32)          {}

func (*Null) ReplaceChildren(children []node.Node) error {
	if len(children) == 0 {
		return nil
	}
	return node.ErrLeafChildren
}
