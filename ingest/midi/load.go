// Package midiingest decodes a Standard MIDI File into the internal
// midi.Timeline structure the scheduler consumes, using gitlab.com/gomidi/
// midi/v2 and its smf reader. Grounded in other_examples' zurustar-son-et
// MIDIBridge/extractTempoMap (smf.ReadFrom, msg.IsMeta/.GetMetaTempo), with
// NoteOn/NoteOff decoding added via the same library's message accessors.
package midiingest

import (
	"bytes"
	"errors"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/grimace87/midi-graph/midi"
	"github.com/grimace87/midi-graph/node"
)

// Load decodes SMF bytes into a Timeline. Format 0 and 1 are supported;
// SMPTE division is rejected as a User error (spec.md §6 does not support
// it).
func Load(r io.Reader) (*midi.Timeline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, node.NewDecodeError("midiingest.Load: read", err)
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, node.NewDecodeError("midiingest.Load: decode smf", err)
	}

	metric, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, node.NewUserError("midiingest.Load", errors.New("SMPTE division is not supported"))
	}

	tl := &midi.Timeline{
		Format:          uint16(s.Format),
		TicksPerQuarter: uint16(metric),
		Tracks:          make([]midi.Track, len(s.Tracks)),
	}

	for i, track := range s.Tracks {
		events := make([]midi.TimedEvent, 0, len(track))
		var pendingDelta uint32
		for _, ev := range track {
			decoded, ok := decodeEvent(ev.Message)
			if !ok {
				pendingDelta += uint32(ev.Delta)
				continue
			}
			events = append(events, midi.TimedEvent{
				DeltaTicks: pendingDelta + uint32(ev.Delta),
				Event:      decoded,
			})
			pendingDelta = 0
		}
		tl.Tracks[i] = midi.Track{Events: events}
	}

	return tl, nil
}

func decodeEvent(msg smf.Message) (midi.Event, bool) {
	var ch, key, vel uint8
	if msg.GetNoteOn(&ch, &key, &vel) {
		return midi.Event{Kind: midi.EventNoteOn, Channel: ch, Note: key, Velocity: vel}, true
	}
	if msg.GetNoteOff(&ch, &key, &vel) {
		return midi.Event{Kind: midi.EventNoteOff, Channel: ch, Note: key, Velocity: vel}, true
	}
	var bpm float64
	if msg.GetMetaTempo(&bpm) && bpm > 0 {
		return midi.Event{Kind: midi.EventSetTempo, MicrosPerQuarter: uint32(60000000 / bpm)}, true
	}
	if msg.GetMetaEndOfTrack() {
		return midi.Event{Kind: midi.EventEndOfTrack}, true
	}
	return midi.Event{}, false
}
