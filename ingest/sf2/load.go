// Package sf2ingest decodes an SF2 soundfont's instruments into Font range
// tables, using github.com/sinshu/go-meltysynth. Grounded in
// zurustar-son-et's meltysynth.NewSoundFont usage (the rest of that repo
// forwards MIDI to meltysynth's own synthesizer rather than reading
// instrument zones directly; this package reads the zones instead, per
// spec.md §6's "SF2 input" contract: instruments addressed by zero-based
// index, per-zone KeyRange + sample reference, MonoSample only).
package sf2ingest

import (
	"errors"
	"io"

	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/grimace87/midi-graph/node"
	"github.com/grimace87/midi-graph/sampler"
	"github.com/grimace87/midi-graph/soundfont"
)

// Zone is one decoded instrument zone: a key range, the PCM data it plays,
// and the loop range within that data (invalid/empty if the zone has no
// sustain loop).
type Zone struct {
	Range node.NoteRange
	Data  *sampler.Data
	Loop  node.LoopRange
}

// LoadInstrument decodes the instrument at instrumentIndex (zero-based)
// from r into a list of Zones, ready to become soundfont.Zone entries once
// each zone's Node has been constructed (the PCM-to-Node step is
// BuildFontZones, which wraps each zone in a SampleLoopNode or a
// OneShotNode depending on whether Loop is usable).
func LoadInstrument(r io.Reader, instrumentIndex int) ([]Zone, error) {
	sf, err := meltysynth.NewSoundFont(r)
	if err != nil {
		return nil, node.NewDecodeError("sf2ingest.LoadInstrument: parse soundfont", err)
	}

	if len(sf.Instruments) == 0 {
		return nil, node.NewUserError("sf2ingest.LoadInstrument", errors.New("soundfont has no instruments"))
	}
	if instrumentIndex < 0 || instrumentIndex >= len(sf.Instruments) {
		return nil, node.NewUserError("sf2ingest.LoadInstrument", errors.New("instrument index out of range"))
	}

	instrument := sf.Instruments[instrumentIndex]
	zones := make([]Zone, 0, len(instrument.Regions))

	for _, region := range instrument.Regions {
		sampleHeader := region.GetSample()
		if sampleHeader == nil {
			continue
		}
		if sampleHeader.GetSampleType() != meltysynth.SampleTypeMonoSample {
			return nil, node.NewUserError("sf2ingest.LoadInstrument", errors.New("SampleLink must be MonoSample"))
		}

		start := sampleHeader.GetStart()
		end := sampleHeader.GetEnd()
		loopStart := sampleHeader.GetStartLoop()
		loopEnd := sampleHeader.GetEndLoop()

		rawSamples := sf.WaveData[start:end]
		pcm := make([]float32, len(rawSamples))
		for i, s := range rawSamples {
			pcm[i] = float32(s) / 32768.0
		}

		data := &sampler.Data{
			Samples:        pcm,
			SourceChannels: 1,
			SourceRate:     sampleHeader.GetSampleRate(),
			SourceNote:     uint8(sampleHeader.GetOriginalPitch()),
		}

		loop := node.LoopRange{
			StartFrame: int(loopStart - start),
			EndFrame:   int(loopEnd - start),
		}

		zones = append(zones, Zone{
			Range: node.NoteRange{
				Lo: uint8(region.GetKeyRangeStart()),
				Hi: uint8(region.GetKeyRangeEnd()),
			},
			Data: data,
			Loop: loop,
		})
	}

	return zones, nil
}

// BuildFontZones turns decoded Zones into soundfont.Zone entries, choosing
// SampleLoopNode when the zone's loop range is valid and OneShotNode
// otherwise.
func BuildFontZones(zones []Zone, balance node.Balance) []soundfont.Zone {
	out := make([]soundfont.Zone, len(zones))
	for i, z := range zones {
		var child node.Node
		if z.Loop.Valid(z.Data.FrameCount()) {
			child = sampler.NewSampleLoopNode(z.Data, z.Loop, balance)
		} else {
			child = sampler.NewOneShotNode(z.Data, balance)
		}
		out[i] = soundfont.Zone{Range: z.Range, Child: child}
	}
	return out
}
