// Package async implements AsyncEventReceiver, the sole cross-thread
// boundary in the graph: a multi-producer queue whose producer side
// (EventChannel) is safe to use from any goroutine, drained on the audio
// thread immediately before each pull. The queue is a buffered channel of
// fixed capacity; a Send made while it is full drops the message instead of
// blocking. Grounded in the
// friendsincode-grimnir_radio media engine's buffered-channel event bridge.
package async

import "github.com/grimace87/midi-graph/node"

// maxDrainPerPull bounds how many queued messages a single pull will
// deliver, so a pathological producer cannot turn a pull into an unbounded
// loop. Messages beyond the cap are left queued for the next pull.
const maxDrainPerPull = 64

// EventChannel is the producer handle: safe to hold and send on from any
// goroutine, including ones other than the audio thread.
type EventChannel struct {
	queue chan node.Message
}

// Send enqueues msg for delivery on the next pull. It never blocks.
func (c EventChannel) Send(msg node.Message) {
	select {
	case c.queue <- msg:
	default:
		// Queue is implemented with ample headroom (see NewAsyncEventReceiver);
		// a full queue means the audio thread has stalled, which is already a
		// system failure outside this component's remit. Drop rather than block.
	}
}

// AsyncEventReceiver wraps a child subtree, draining its queue of async
// messages into the child before every pull.
type AsyncEventReceiver struct {
	node.Base

	child node.Node
	queue chan node.Message
}

// NewAsyncEventReceiver builds a receiver around child with queue capacity
// capacity (1024 when capacity <= 0). A producer handle is obtained via
// Channel.
func NewAsyncEventReceiver(child node.Node, capacity int) *AsyncEventReceiver {
	if capacity <= 0 {
		capacity = 1024
	}
	return &AsyncEventReceiver{
		Base:  node.NewBase(),
		child: child,
		queue: make(chan node.Message, capacity),
	}
}

// Channel returns a producer handle for sending messages into this
// receiver's queue from another goroutine.
func (r *AsyncEventReceiver) Channel() EventChannel {
	return EventChannel{queue: r.queue}
}

func (r *AsyncEventReceiver) Duplicate() (node.Node, error) {
	return nil, node.ErrNotDuplicable
}

func (r *AsyncEventReceiver) TryConsume(*node.Message) bool { return false }

func (r *AsyncEventReceiver) Propagate(msg *node.Message) { node.OnEvent(r.child, msg) }

func (r *AsyncEventReceiver) OnEvent(msg *node.Message) { node.OnEvent(r, msg) }

func (r *AsyncEventReceiver) ReplaceChildren(children []node.Node) error {
	if len(children) != 1 {
		return node.ErrChildrenFixed
	}
	r.child = children[0]
	return nil
}

// drain delivers up to maxDrainPerPull queued messages to the child via
// non-blocking receive. Any message left in the queue beyond the cap is
// deferred to the next pull.
func (r *AsyncEventReceiver) drain() {
	for i := 0; i < maxDrainPerPull; i++ {
		select {
		case msg := <-r.queue:
			node.OnEvent(r.child, &msg)
		default:
			return
		}
	}
}

func (r *AsyncEventReceiver) FillBuffer(buf []float32) {
	r.drain()
	r.child.FillBuffer(buf)
}
