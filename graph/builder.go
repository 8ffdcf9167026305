package graph

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/grimace87/midi-graph/async"
	"github.com/grimace87/midi-graph/generator"
	midiingest "github.com/grimace87/midi-graph/ingest/midi"
	sf2ingest "github.com/grimace87/midi-graph/ingest/sf2"
	wavingest "github.com/grimace87/midi-graph/ingest/wav"
	"github.com/grimace87/midi-graph/midi"
	"github.com/grimace87/midi-graph/mixer"
	"github.com/grimace87/midi-graph/node"
	"github.com/grimace87/midi-graph/polyphony"
	"github.com/grimace87/midi-graph/sampler"
	"github.com/grimace87/midi-graph/soundfont"
)

// Builder turns a Description into a live node.Node tree, failing at
// construction time rather than at render time: every error returned from
// Build is a node.ConstructionError. Grounded on
// friendsincode-grimnir_radio's Builder (zerolog-logged construction,
// fmt.Errorf("...: %w", err) wrapping of per-node build failures).
type Builder struct {
	logger zerolog.Logger

	// channels accumulates the producer handle of every EventReceiver
	// built during the current Build call, per spec.md §2.3: the builder
	// hands back not just the tree but every async entry point into it.
	channels []async.EventChannel
}

// NewBuilder returns a Builder that logs construction at logger's level.
func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build constructs the node.Node tree described by d, along with the
// EventChannel producer handle of every EventReceiver node found anywhere
// in the tree (in construction order), so callers have a way to actually
// reach those nodes from another thread.
func (b *Builder) Build(d Description) (node.Node, []async.EventChannel, error) {
	b.channels = nil
	n, err := b.build(d)
	if err != nil {
		return nil, nil, err
	}
	return n, b.channels, nil
}

// build applies defaults and explicit-id handling uniformly, then
// dispatches to construct. Every recursive descent into a child
// Description goes through build (never construct directly) so a
// NodeID set on a Combiner/Mixer/Font child, not just the root, is
// honored (spec.md §9: NodeId-addressed control reaches deep nodes).
func (b *Builder) build(d Description) (node.Node, error) {
	d = d.WithDefaults()
	n, err := b.construct(d)
	if err != nil {
		return nil, err
	}
	if d.HasNodeID {
		if d.NodeID >= node.FirstAutoID {
			return nil, node.NewUserError("graph.Builder.build", fmt.Errorf("explicit node id %d collides with the auto-assigned range (>= %d)", d.NodeID, node.FirstAutoID))
		}
		n.SetID(d.NodeID)
	}
	return n, nil
}

func (b *Builder) construct(d Description) (node.Node, error) {
	switch d.Kind {
	case KindSquareWave:
		b.logger.Debug().Float32("amplitude", d.Amplitude).Float32("duty_cycle", d.DutyCycle).Msg("building square wave")
		return generator.NewSquareWave(d.Amplitude, d.DutyCycle, d.Balance), nil

	case KindTriangleWave:
		b.logger.Debug().Float32("amplitude", d.Amplitude).Msg("building triangle wave")
		return generator.NewTriangleWave(d.Amplitude, d.Balance), nil

	case KindSawtoothWave:
		b.logger.Debug().Float32("amplitude", d.Amplitude).Msg("building sawtooth wave")
		return generator.NewSawtoothWave(d.Amplitude, d.Balance), nil

	case KindLfsrNoise:
		b.logger.Debug().Bool("inside_feedback", d.InsideFeedback).Msg("building LFSR noise")
		return generator.NewLfsrNoise(d.Amplitude, d.InsideFeedback, d.NoteFor16Shifts, d.Balance), nil

	case KindSampleFilePath:
		return b.buildSampleFile(d, d.Looping)

	case KindOneShotFilePath:
		return b.buildSampleFile(d, false)

	case KindFontRanges:
		return b.buildFontRanges(d)

	case KindFontSf2FilePath:
		return b.buildSf2Font(d)

	case KindAdsrEnvelope:
		child, err := b.buildRequiredChild(d.Source, "adsr_envelope.source")
		if err != nil {
			return nil, err
		}
		b.logger.Debug().Float32("attack", d.Attack).Float32("decay", d.Decay).
			Float32("sustain", d.SustainMultiplier).Float32("release", d.Release).
			Msg("building ADSR envelope")
		return mixer.NewEnvelope(d.Attack, d.Decay, d.SustainMultiplier, d.Release, child), nil

	case KindCombiner:
		children := make([]node.Node, 0, len(d.Sources))
		for i, src := range d.Sources {
			child, err := b.build(src)
			if err != nil {
				return nil, fmt.Errorf("combiner.sources[%d]: %w", i, err)
			}
			children = append(children, child)
		}
		b.logger.Debug().Int("source_count", len(children)).Msg("building combiner")
		return mixer.NewCombiner(children), nil

	case KindMixer:
		c0, err := b.buildRequiredChild(d.Source0, "mixer.source_0")
		if err != nil {
			return nil, err
		}
		c1, err := b.buildRequiredChild(d.Source1, "mixer.source_1")
		if err != nil {
			return nil, err
		}
		b.logger.Debug().Float32("balance", d.MixerBalance).Msg("building mixer")
		return mixer.NewMixer(d.MixerBalance, c0, c1), nil

	case KindPolyphony:
		prototype, err := b.buildRequiredChild(d.Source, "polyphony.source")
		if err != nil {
			return nil, err
		}
		b.logger.Debug().Int("max_voices", d.MaxVoices).Msg("building polyphony")
		p, err := polyphony.NewPolyphony(d.MaxVoices, prototype)
		if err != nil {
			return nil, node.NewUserError("graph.Builder.build polyphony", err)
		}
		return p, nil

	case KindFader:
		child, err := b.buildRequiredChild(d.Source, "fader.source")
		if err != nil {
			return nil, err
		}
		b.logger.Debug().Float32("initial_volume", d.InitialVolume).Msg("building fader")
		return mixer.NewFader(d.InitialVolume, child), nil

	case KindEventReceiver:
		child, err := b.buildRequiredChild(d.Source, "event_receiver.source")
		if err != nil {
			return nil, err
		}
		receiver := async.NewAsyncEventReceiver(child, 0)
		b.channels = append(b.channels, receiver.Channel())
		b.logger.Debug().Msg("building async event receiver")
		return receiver, nil

	case KindMidi:
		return b.buildMidi(d)

	case KindNull:
		return generator.NewNull(), nil

	default:
		return nil, node.NewUserError("graph.Builder.build", fmt.Errorf("unknown description kind %d", d.Kind))
	}
}

func (b *Builder) buildRequiredChild(d *Description, field string) (node.Node, error) {
	if d == nil {
		return nil, node.NewUserError("graph.Builder.build", fmt.Errorf("%s: missing required child", field))
	}
	child, err := b.build(*d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return child, nil
}

func (b *Builder) buildSampleFile(d Description, looping bool) (node.Node, error) {
	f, err := os.Open(d.SamplePath)
	if err != nil {
		return nil, node.NewIOError("graph.Builder.buildSampleFile", err)
	}
	defer f.Close()

	data, err := wavingest.Load(f, d.BaseNote)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().Str("path", d.SamplePath).Bool("looping", looping).Msg("building sample file")

	if !looping {
		return sampler.NewOneShotNode(data, d.Balance), nil
	}
	loop := node.LoopRange{StartFrame: 0, EndFrame: data.FrameCount()}
	return sampler.NewSampleLoopNode(data, loop, d.Balance), nil
}

func (b *Builder) buildFontRanges(d Description) (node.Node, error) {
	zones := make([]soundfont.Zone, 0, len(d.Ranges))
	for i, entry := range d.Ranges {
		child, err := b.build(entry.Child)
		if err != nil {
			return nil, fmt.Errorf("font.ranges[%d]: %w", i, err)
		}
		zones = append(zones, soundfont.Zone{Range: entry.Range, Child: child})
	}
	b.logger.Debug().Int("zone_count", len(zones)).Msg("building font from explicit ranges")
	return soundfont.NewFont(zones), nil
}

func (b *Builder) buildSf2Font(d Description) (node.Node, error) {
	f, err := os.Open(d.Sf2Path)
	if err != nil {
		return nil, node.NewIOError("graph.Builder.buildSf2Font", err)
	}
	defer f.Close()

	decoded, err := sf2ingest.LoadInstrument(f, d.InstrumentIndex)
	if err != nil {
		return nil, err
	}

	zones := sf2ingest.BuildFontZones(decoded, d.Balance)
	if d.PolyphonyVoices > 1 {
		for i, z := range zones {
			p, err := polyphony.NewPolyphony(d.PolyphonyVoices, z.Child)
			if err != nil {
				return nil, node.NewUserError("graph.Builder.buildSf2Font", err)
			}
			zones[i].Child = p
		}
	}

	b.logger.Debug().Str("path", d.Sf2Path).Int("instrument", d.InstrumentIndex).
		Int("zone_count", len(zones)).Msg("building font from SF2 instrument")
	return soundfont.NewFont(zones), nil
}

func (b *Builder) buildMidi(d Description) (node.Node, error) {
	f, err := os.Open(d.MidiPath)
	if err != nil {
		return nil, node.NewIOError("graph.Builder.buildMidi", err)
	}
	defer f.Close()

	timeline, err := midiingest.Load(f)
	if err != nil {
		return nil, err
	}

	channels := make(map[uint8]node.Node, len(d.Channels))
	for ch, sub := range d.Channels {
		child, err := b.build(sub)
		if err != nil {
			return nil, fmt.Errorf("midi.channels[%d]: %w", ch, err)
		}
		channels[ch] = child
	}

	b.logger.Debug().Str("path", d.MidiPath).Int("channel_count", len(channels)).Msg("building MIDI source")
	return midi.NewMidiSource(timeline, channels), nil
}
