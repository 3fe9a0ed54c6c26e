// Package scale derives diatonic scales, their triads and relative keys from
// a root pitch class and a mode.
package scale

import (
	"strings"

	"github.com/jsphweid/whatkey/model"
)

var majorIntervals = []int{0, 2, 4, 5, 7, 9, 11}
var minorIntervals = []int{0, 2, 3, 5, 7, 8, 10}

var majorQualities = []model.Quality{
	model.MajorQuality, model.MinorQuality, model.MinorQuality, model.MajorQuality,
	model.MajorQuality, model.MinorQuality, model.DiminishedQuality,
}
var minorQualities = []model.Quality{
	model.MinorQuality, model.DiminishedQuality, model.MajorQuality, model.MinorQuality,
	model.MinorQuality, model.MajorQuality, model.MajorQuality,
}

// keys traditionally written with flats
var flatMajors = map[model.PitchClass]bool{5: true, 10: true, 3: true, 8: true, 1: true, 6: true}
var flatMinors = map[model.PitchClass]bool{2: true, 7: true, 0: true, 5: true, 10: true}

func Intervals(mode model.Mode) []int {
	if mode == model.Minor {
		return minorIntervals
	}
	return majorIntervals
}

func Qualities(mode model.Mode) []model.Quality {
	if mode == model.Minor {
		return minorQualities
	}
	return majorQualities
}

// Generate spells the seven degrees with sharps only. Use FixSpelling to get
// conventional spelling.
func Generate(root model.PitchClass, mode model.Mode) []string {
	var notes []string
	for _, interval := range Intervals(mode) {
		notes = append(notes, root.Transpose(interval).Sharp())
	}
	return notes
}

func respellFlat(notes []string) {
	for i, note := range notes {
		if !strings.Contains(note, "#") {
			continue
		}
		if pc, ok := model.PitchClassNamed(note); ok {
			notes[i] = pc.Flat()
		}
	}
}

// FixSpelling rewrites a sharp-spelled major and minor scale so each uses
// every letter A-G exactly once. The inputs are not modified.
func FixSpelling(major, minor []string) ([]string, []string) {
	fixedMajor := append([]string(nil), major...)
	fixedMinor := append([]string(nil), minor...)

	if root, ok := model.PitchClassNamed(fixedMajor[0]); ok && flatMajors[root] {
		respellFlat(fixedMajor)
	}
	if root, ok := model.PitchClassNamed(fixedMinor[0]); ok && flatMinors[root] {
		respellFlat(fixedMinor)
	}

	// Gb major needs Cb, not B
	if fixedMajor[0] == "G♭" {
		fixedMajor[3] = "C♭"
	}
	// D# minor needs E#, not F
	if fixedMinor[0] == "D#" {
		fixedMinor[1] = "E#"
	}
	return fixedMajor, fixedMinor
}

// Spell returns the conventionally spelled scale for one key.
func Spell(root model.PitchClass, mode model.Mode) []string {
	major, minor := FixSpelling(Generate(root, model.Major), Generate(root, model.Minor))
	if mode == model.Minor {
		return minor
	}
	return major
}

func Chords(notes []string, mode model.Mode) []string {
	qualities := Qualities(mode)
	chords := make([]string, 0, len(notes))
	for i, note := range notes {
		chords = append(chords, note+qualities[i].Suffix())
	}
	return chords
}

// RelativeKey is three semitones below a major root or above a minor one.
func RelativeKey(root model.PitchClass, mode model.Mode) model.Key {
	if mode == model.Minor {
		rel := root.Transpose(3)
		return model.Key{Root: rel, Mode: model.Major, Spelled: rel.Sharp()}
	}
	rel := root.Transpose(-3)
	return model.Key{Root: rel, Mode: model.Minor, Spelled: rel.Sharp()}
}

// Build computes the full scale for a key. It has no side effects.
func Build(root model.PitchClass, mode model.Mode) model.Scale {
	notes := Spell(root, mode)
	return model.Scale{
		Root:     root,
		Mode:     mode,
		Notes:    notes,
		Chords:   Chords(notes, mode),
		Relative: RelativeKey(root, mode),
	}
}
