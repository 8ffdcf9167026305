// Package graph implements Description (the recursive graph configuration
// format), Builder (the construction-time factory that turns a Description
// into a live node.Node tree), and BaseMixer (the root holder that is the
// audio backend's sole entry point). Grounded in
// friendsincode-grimnir_radio's Builder/Graph pattern (zerolog-logged
// construction, fmt.Errorf %w wrapping) and original_source's
// source_from_config tagged-union factory.
package graph

import "github.com/grimace87/midi-graph/node"

// Kind tags which Description variant is populated.
type Kind int

const (
	KindMidi Kind = iota
	KindEventReceiver
	KindFontRanges
	KindFontSf2FilePath
	KindSquareWave
	KindTriangleWave
	KindSawtoothWave
	KindLfsrNoise
	KindSampleFilePath
	KindOneShotFilePath
	KindAdsrEnvelope
	KindCombiner
	KindMixer
	KindPolyphony
	KindFader
	KindNull
)

// Spec.md §6's stated defaults.
const (
	DefaultAmplitude         = 0.5
	DefaultDutyCycle         = 0.5
	DefaultAttack            = 0.125
	DefaultDecay             = 0.25
	DefaultSustainMultiplier = 0.5
	DefaultRelease           = 0.125
	DefaultBalance           = 0.5
)

// FontRangeEntry is one (key range, subtree) pair in a KindFontRanges
// description.
type FontRangeEntry struct {
	Range node.NoteRange
	Child Description
}

// Description is a recursive tagged sum describing one node and (for
// composites) its children. Only the fields relevant to Kind are
// meaningful; construction-time validation happens in Builder, not here.
type Description struct {
	Kind Kind

	// Explicit node id, for user-addressed targeting. NodeID is applied
	// only when HasNodeID is set; otherwise the node keeps its
	// auto-assigned id (spec.md §9: ids below 0x10000 are reserved for user
	// assignment, so an explicit NodeID here must be below that).
	NodeID    node.ID
	HasNodeID bool

	Balance node.Balance

	// SquareWave / TriangleWave / SawtoothWave / LfsrNoise
	Amplitude     float32
	DutyCycle     float32
	InsideFeedback bool
	NoteFor16Shifts uint8

	// Font
	Ranges            []FontRangeEntry
	Sf2Path           string
	InstrumentIndex   int
	PolyphonyVoices   int

	// SampleFilePath / OneShotFilePath
	SamplePath string
	BaseNote   uint8
	Looping    bool

	// AdsrEnvelope
	Attack            float32
	Decay             float32
	SustainMultiplier float32
	Release           float32

	// Combiner
	Sources []Description

	// Mixer
	MixerBalance float32
	Source0      *Description
	Source1      *Description

	// Polyphony / Fader / AdsrEnvelope share a single-child "Source"
	MaxVoices     int
	InitialVolume float32
	Source        *Description

	// Midi
	MidiPath string
	Channels map[uint8]Description
}

// WithDefaults returns a copy of d with the spec's stated default values
// filled in for any field left at its Go zero value, for the Kinds that
// have documented defaults.
func (d Description) WithDefaults() Description {
	switch d.Kind {
	case KindSquareWave:
		if d.Amplitude == 0 {
			d.Amplitude = DefaultAmplitude
		}
		if d.DutyCycle == 0 {
			d.DutyCycle = DefaultDutyCycle
		}
	case KindTriangleWave, KindSawtoothWave:
		if d.Amplitude == 0 {
			d.Amplitude = DefaultAmplitude
		}
	case KindAdsrEnvelope:
		if d.Attack == 0 {
			d.Attack = DefaultAttack
		}
		if d.Decay == 0 {
			d.Decay = DefaultDecay
		}
		if d.SustainMultiplier == 0 {
			d.SustainMultiplier = DefaultSustainMultiplier
		}
		if d.Release == 0 {
			d.Release = DefaultRelease
		}
	case KindMixer:
		if d.MixerBalance == 0 {
			d.MixerBalance = DefaultBalance
		}
	}
	return d
}
