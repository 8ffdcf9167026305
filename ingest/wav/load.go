// Package wavingest decodes 32-bit float WAV files into sampler.Data,
// using github.com/go-audio/wav and github.com/go-audio/audio. Grounded in
// the pack's WAV-consuming repos (schollz-221e, tphakala-birdnet-go,
// emer-auditory all decode via wav.NewDecoder + FullPCMBuffer).
package wavingest

import (
	"errors"
	"io"

	"github.com/go-audio/wav"

	"github.com/grimace87/midi-graph/node"
	"github.com/grimace87/midi-graph/sampler"
)

// Load decodes r as a WAV file with 1 or 2 channels and produces a
// sampler.Data carrying its PCM as float32 at the file's native rate.
// sourceNote becomes the Data's SourceNote, the key at which the sample
// plays at its native pitch; the graph builder passes a SampleFilePath
// description's BaseNote here.
func Load(r io.Reader, sourceNote uint8) (*sampler.Data, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, node.NewUserError("wavingest.Load", errors.New("not a valid WAV file"))
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, node.NewDecodeError("wavingest.Load: decode", err)
	}

	// spec.md §6: the sampler ingests 32-bit float WAV only (format tag 3,
	// IEEE float); any other bit depth or encoding is rejected rather than
	// silently reinterpreted.
	const wavFormatIEEEFloat = 3
	if d.WavAudioFormat != wavFormatIEEEFloat || d.BitDepth != 32 {
		return nil, node.NewUserError("wavingest.Load", errors.New("WAV must be 32-bit float (format 3) PCM"))
	}

	channels := buf.Format.NumChannels
	if channels != 1 && channels != 2 {
		return nil, node.NewUserError("wavingest.Load", errors.New("WAV must have 1 or 2 channels"))
	}

	floatBuf := buf.AsFloatBuffer()
	samples := make([]float32, len(floatBuf.Data))
	for i, v := range floatBuf.Data {
		samples[i] = float32(v)
	}

	return &sampler.Data{
		Samples:        samples,
		SourceChannels: channels,
		SourceRate:     buf.Format.SampleRate,
		SourceNote:     sourceNote,
	}, nil
}
