package midi

import (
	"math"

	"github.com/grimace87/midi-graph/node"
)

type trackCursor struct {
	nextIndex          int
	eventTicksProgress float64
	finished           bool
}

// MidiSource schedules a decoded Timeline against a fixed channel -> Node
// map, advancing every track's cursor by one pull's worth of frames and
// dispatching NoteOn/NoteOff/tempo events at their exact sample boundary.
type MidiSource struct {
	node.Base

	timeline *Timeline
	channels map[uint8]node.Node

	cursors          []trackCursor
	microsPerQuarter uint32
	samplesPerTick   float64
}

// NewMidiSource builds a scheduler over timeline, dispatching channel
// events to the subtree channels[ch]. Channels with no entry are dropped
// silently, per spec.md §7.
func NewMidiSource(timeline *Timeline, channels map[uint8]node.Node) *MidiSource {
	s := &MidiSource{
		Base:             node.NewBase(),
		timeline:         timeline,
		channels:         channels,
		cursors:          make([]trackCursor, len(timeline.Tracks)),
		microsPerQuarter: defaultMicrosPerQuarter,
	}
	s.samplesPerTick = samplesPerTick(s.microsPerQuarter, timeline.TicksPerQuarter)
	return s
}

func (s *MidiSource) Duplicate() (node.Node, error) {
	return nil, node.ErrNotDuplicable
}

// TryConsume handles SeekWhenIdeal addressed to this source: the only live
// reconfiguration a MidiSource supports, since its channel map is fixed at
// construction (ReplaceChildren always fails). "Ideal" here means
// immediately: FillBuffer is never reentrant, so there is no mid-pull state
// to disturb.
func (s *MidiSource) TryConsume(msg *node.Message) bool {
	if msg.Data.Kind != node.EventSeekWhenIdeal || !msg.AddressedTo(s.ID()) {
		return false
	}
	s.seekTo(msg.Data.Anchor, msg.Data.HasAnchor)
	return true
}

// seekTo repositions every track's cursor to the tick position anchor, or
// to the start of the timeline if hasAnchor is false. Each track's cursor
// is independent, so the same absolute tick can land at a different event
// index per track.
func (s *MidiSource) seekTo(anchor uint32, hasAnchor bool) {
	for t := range s.cursors {
		cursor := &s.cursors[t]
		if !hasAnchor {
			*cursor = trackCursor{}
			continue
		}
		events := s.timeline.Tracks[t].Events
		var elapsed float64
		idx := 0
		for idx < len(events) {
			next := elapsed + float64(events[idx].DeltaTicks)
			if next > float64(anchor) {
				break
			}
			elapsed = next
			idx++
		}
		cursor.nextIndex = idx
		cursor.eventTicksProgress = float64(anchor) - elapsed
		cursor.finished = idx >= len(events)
	}
}

func (s *MidiSource) Propagate(msg *node.Message) {
	for _, ch := range s.channels {
		node.OnEvent(ch, msg)
	}
}

func (s *MidiSource) OnEvent(msg *node.Message) { node.OnEvent(s, msg) }

func (s *MidiSource) ReplaceChildren(children []node.Node) error {
	return node.ErrChildrenFixed
}

// Finished reports whether every track has reached its end.
func (s *MidiSource) Finished() bool {
	for _, c := range s.cursors {
		if !c.finished {
			return false
		}
	}
	return true
}

func (s *MidiSource) FillBuffer(buf []float32) {
	frames := frameCount(buf)
	for t := range s.timeline.Tracks {
		s.runTrack(t, buf, frames)
	}
}

func frameCount(buf []float32) int { return len(buf) / 2 }

// runTrack implements spec.md §4.8's per-track pull algorithm: walk events
// until the remaining frames in this pull are exhausted, rendering the
// channel subtree's audio for the frames before each event boundary.
func (s *MidiSource) runTrack(trackIdx int, buf []float32, totalFrames int) {
	track := &s.timeline.Tracks[trackIdx]
	cursor := &s.cursors[trackIdx]
	framesRemaining := totalFrames
	framesRendered := 0

	for !cursor.finished && framesRemaining > 0 {
		if cursor.nextIndex >= len(track.Events) {
			cursor.finished = true
			break
		}

		ev := track.Events[cursor.nextIndex]
		ticksUntil := float64(ev.DeltaTicks) - cursor.eventTicksProgress
		var samplesUntil int
		if s.samplesPerTick > 0 {
			samplesUntil = int(math.Floor(ticksUntil * s.samplesPerTick))
		}

		subtree := s.channels[ev.Event.Channel]

		if samplesUntil >= framesRemaining {
			s.renderSpan(subtree, buf, framesRendered, framesRemaining)
			if s.samplesPerTick > 0 {
				cursor.eventTicksProgress += float64(framesRemaining) / s.samplesPerTick
			}
			framesRendered += framesRemaining
			framesRemaining = 0
			return
		}

		if samplesUntil > 0 {
			s.renderSpan(subtree, buf, framesRendered, samplesUntil)
			framesRendered += samplesUntil
			framesRemaining -= samplesUntil
		}
		cursor.eventTicksProgress = 0
		cursor.nextIndex++

		s.dispatchEvent(ev.Event)
		if ev.Event.Kind == EventEndOfTrack {
			cursor.finished = true
		}
	}
}

// renderSpan renders frames [offset, offset+count) of this track's current
// channel subtree. A nil subtree (channel has no mapped Node) renders as
// silence, per spec.md §7's "dropped, not erred" rule.
func (s *MidiSource) renderSpan(subtree node.Node, buf []float32, offsetFrames, countFrames int) {
	if countFrames <= 0 || subtree == nil {
		return
	}
	start := offsetFrames * 2
	end := start + countFrames*2
	subtree.FillBuffer(buf[start:end])
}

func (s *MidiSource) dispatchEvent(ev Event) {
	switch ev.Kind {
	case EventNoteOn:
		subtree, ok := s.channels[ev.Channel]
		if !ok {
			return
		}
		if ev.Velocity == 0 {
			node.OnEvent(subtree, &node.Message{
				Target: node.BroadcastTarget(),
				Data:   node.NoteOffEvent(ev.Note, 0),
			})
			return
		}
		node.OnEvent(subtree, &node.Message{
			Target: node.BroadcastTarget(),
			Data:   node.NoteOnEvent(ev.Note, float32(ev.Velocity)/127.0),
		})
	case EventNoteOff:
		subtree, ok := s.channels[ev.Channel]
		if !ok {
			return
		}
		node.OnEvent(subtree, &node.Message{
			Target: node.BroadcastTarget(),
			Data:   node.NoteOffEvent(ev.Note, float32(ev.Velocity)/127.0),
		})
	case EventSetTempo:
		s.microsPerQuarter = ev.MicrosPerQuarter
		s.samplesPerTick = samplesPerTick(s.microsPerQuarter, s.timeline.TicksPerQuarter)
	case EventEndOfTrack:
		// handled by the caller, which marks the cursor finished.
	}
}
