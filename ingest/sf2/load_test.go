package sf2ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimace87/midi-graph/node"
	"github.com/grimace87/midi-graph/sampler"
)

func TestLoadInstrumentRejectsGarbage(t *testing.T) {
	_, err := LoadInstrument(bytes.NewReader([]byte("not a soundfont")), 0)
	require.Error(t, err)
	var ce *node.ConstructionError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, node.KindDecode, ce.Kind)
}

func TestBuildFontZonesChoosesLoopOrOneShotByValidity(t *testing.T) {
	looped := Zone{
		Range: node.NoteRange{Lo: 0, Hi: 60},
		Data:  &sampler.Data{Samples: make([]float32, 200), SourceChannels: 1, SourceRate: 44100, SourceNote: 60},
		Loop:  node.LoopRange{StartFrame: 10, EndFrame: 90},
	}
	unlooped := Zone{
		Range: node.NoteRange{Lo: 61, Hi: 127},
		Data:  &sampler.Data{Samples: make([]float32, 200), SourceChannels: 1, SourceRate: 44100, SourceNote: 60},
		Loop:  node.LoopRange{StartFrame: 0, EndFrame: 0},
	}

	zones := BuildFontZones([]Zone{looped, unlooped}, node.Both())
	require.Len(t, zones, 2)

	_, isLoop := zones[0].Child.(*sampler.SampleLoopNode)
	assert.True(t, isLoop)

	_, isOneShot := zones[1].Child.(*sampler.OneShotNode)
	assert.True(t, isOneShot)
}
