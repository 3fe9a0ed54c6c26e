package model

import "fmt"

type Notes = []int

type Quality int

const (
	MajorQuality Quality = iota
	MinorQuality
	DiminishedQuality
)

func (q Quality) String() string {
	switch q {
	case MinorQuality:
		return "Minor"
	case DiminishedQuality:
		return "Diminished"
	default:
		return "Major"
	}
}

// Suffix is the label suffix used for diatonic chords: "" for major, "m",
// "dim".
func (q Quality) Suffix() string {
	switch q {
	case MinorQuality:
		return "m"
	case DiminishedQuality:
		return "dim"
	default:
		return ""
	}
}

// ChordGuess is a major/minor triad or bare third found among the most
// frequent pitches of a clip.
type ChordGuess struct {
	Root    PitchClass
	Quality Quality

	// Notes are the sorted MIDI numbers the guess was built from and
	// Intervals the semitone gaps between them (one gap for a third).
	Notes     Notes
	Intervals []int
}

func (c ChordGuess) IsTriad() bool {
	return len(c.Notes) == 3
}

func (c ChordGuess) Label() string {
	return fmt.Sprintf("%v %v", c.Root.Sharp(), c.Quality)
}

func (c ChordGuess) Key() Key {
	k := Key{Root: c.Root, Spelled: c.Root.Sharp()}
	if c.Quality == MinorQuality {
		k.Mode = Minor
	}
	return k
}

// Detection is the outcome of a tonal detection. Callers branch on Found:
// a ProbableRoot without Found is the frequency fallback, not a chord.
type Detection struct {
	Found        bool
	Guesses      []ChordGuess
	ProbableRoot *PitchClass
	// K is the candidate set size that produced the result, 0 if none did.
	K int
}
