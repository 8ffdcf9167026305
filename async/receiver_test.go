package async

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

func TestAsyncEventReceiverDrainsBeforeRender(t *testing.T) {
	sq := generator.NewSquareWave(0.5, 0.5, node.Both())
	r := NewAsyncEventReceiver(sq, 16)
	ch := r.Channel()

	ch.Send(node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(69, 1.0)})

	buf := make([]float32, 4)
	r.FillBuffer(buf)
	assert.NotZero(t, buf[0])
}

func TestAsyncEventReceiverDeliversInOrderAcrossProducers(t *testing.T) {
	sq := generator.NewSquareWave(0.5, 0.5, node.Both())
	r := NewAsyncEventReceiver(sq, 16)
	ch := r.Channel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch.Send(node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(60, 1.0)})
	}()
	wg.Wait()

	ch.Send(node.Message{Target: node.BroadcastTarget(), Data: node.NoteOffEvent(60, 1.0)})

	buf := make([]float32, 4)
	r.FillBuffer(buf)
	for _, v := range buf {
		assert.Zero(t, v, "NoteOn then NoteOff in the same pull should leave the voice silent")
	}
}

func TestAsyncEventReceiverRefusesDuplicateAndBadReplace(t *testing.T) {
	sq := generator.NewSquareWave(0.5, 0.5, node.Both())
	r := NewAsyncEventReceiver(sq, 4)

	_, err := r.Duplicate()
	assert.ErrorIs(t, err, node.ErrNotDuplicable)

	require.ErrorIs(t, r.ReplaceChildren(nil), node.ErrChildrenFixed)
	require.NoError(t, r.ReplaceChildren([]node.Node{generator.NewNull()}))
}
