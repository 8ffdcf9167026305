package node

// NoteRange is an inclusive MIDI key range. The full range 0..=255 means
// "any key".
type NoteRange struct {
	Lo, Hi uint8
}

// FullNoteRange matches any key.
func FullNoteRange() NoteRange {
	return NoteRange{Lo: 0, Hi: 255}
}

// Contains reports whether note falls within the range.
func (r NoteRange) Contains(note uint8) bool {
	return note >= r.Lo && note <= r.Hi
}

// LoopRange is an inclusive-start, exclusive-end range of sample frames.
type LoopRange struct {
	StartFrame int
	EndFrame   int
}

// Valid reports whether the range is usable against source data holding
// frameCount frames. spec.md §9 flags the original predicate
// (start <= frames_in_data || end > frames_in_data) as accepting
// nonsensical ranges; this is the corrected check.
func (r LoopRange) Valid(frameCount int) bool {
	return r.StartFrame < r.EndFrame && r.EndFrame <= frameCount
}

// Len returns the number of frames spanned by the loop.
func (r LoopRange) Len() int {
	return r.EndFrame - r.StartFrame
}
