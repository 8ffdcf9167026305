// Package midi implements the tick-to-sample scheduler that drives a graph
// from a decoded Standard MIDI File: Timeline/Track/TimedEvent hold the
// parsed structure, MidiSource walks each track's cursor forward one pull
// at a time. Grounded in other_examples' zurustar-son-et MIDIBridge
// (forwarding decoded MIDI into a synthesis engine) and spec.md §4.8's
// pull algorithm.
package midi

import "github.com/grimace87/midi-graph/generator"

// EventKind tags the payload an Event carries.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventSetTempo
	EventEndOfTrack
)

// Event is one decoded MIDI or meta event, already classified.
type Event struct {
	Kind EventKind

	Channel  uint8
	Note     uint8
	Velocity uint8 // 0..127

	// SetTempo
	MicrosPerQuarter uint32
}

// TimedEvent pairs an Event with the tick delta since the previous event on
// its track (SMF's native delta-time encoding).
type TimedEvent struct {
	DeltaTicks uint32
	Event      Event
}

// Track is one SMF track's flat event list.
type Track struct {
	Events []TimedEvent
}

// Timeline is a fully decoded SMF: format, the division (ticks per
// quarter note), and the per-track event lists.
type Timeline struct {
	Format         uint16
	TicksPerQuarter uint16
	Tracks          []Track
}

const defaultMicrosPerQuarter = 500000

// samplesPerTick converts the current tempo to samples-per-tick at the
// fixed playback rate.
func samplesPerTick(microsPerQuarter uint32, ticksPerQuarter uint16) float64 {
	if ticksPerQuarter == 0 {
		return 0
	}
	return (float64(microsPerQuarter) / 1_000_000) * float64(generator.SampleRate) / float64(ticksPerQuarter)
}
