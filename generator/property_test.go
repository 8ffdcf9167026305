package generator_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/grimace87/midi-graph/generator"
	"github.com/grimace87/midi-graph/node"
)

// Universal invariants from spec.md §8: every generator is silent until a
// NoteOn, and FillBuffer always accumulates into a caller-seeded buffer
// rather than overwriting it. Grounded in the gopter-adjacent property
// style of zurustar-son-et's playback_completion_property_test.go,
// expressed with gopter (rather than testing/quick) per this module's
// test-tooling stack.
func TestGeneratorsSilentUntilNoteOnProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("square wave renders silence before any NoteOn", prop.ForAll(
		func(amplitude float32, dutyCycle float32, frames int) bool {
			w := generator.NewSquareWave(amplitude, dutyCycle, node.Both())
			buf := make([]float32, 2*frames)
			w.FillBuffer(buf)
			for _, v := range buf {
				if v != 0 {
					return false
				}
			}
			return true
		},
		gen.Float32Range(0.01, 1.0),
		gen.Float32Range(0.01, 0.99),
		gen.IntRange(1, 64),
	))

	properties.Property("sawtooth wave renders silence before any NoteOn", prop.ForAll(
		func(amplitude float32, frames int) bool {
			w := generator.NewSawtoothWave(amplitude, node.Both())
			buf := make([]float32, 2*frames)
			w.FillBuffer(buf)
			for _, v := range buf {
				if v != 0 {
					return false
				}
			}
			return true
		},
		gen.Float32Range(0.01, 1.0),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}

func TestGeneratorAccumulatesRatherThanOverwritesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("square wave FillBuffer adds to existing buffer contents", prop.ForAll(
		func(seed float32, note uint8, frames int) bool {
			w := generator.NewSquareWave(0.5, 0.5, node.Both())
			node.OnEvent(w, &node.Message{Target: node.BroadcastTarget(), Data: node.NoteOnEvent(note, 1.0)})

			buf := make([]float32, 2*frames)
			for i := range buf {
				buf[i] = seed
			}
			w.FillBuffer(buf)

			for _, v := range buf {
				// Every sample must have moved by +/- amplitude from seed
				// (up to float32 rounding of the sum), never have been
				// overwritten to a bare +/-amplitude.
				diff := float64(v - seed)
				if math.Abs(diff-0.5) > 1e-6 && math.Abs(diff+0.5) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.Float32Range(-1.0, 1.0),
		gen.UInt8Range(21, 108),
		gen.IntRange(1, 32),
	))

	properties.TestingRun(t)
}
