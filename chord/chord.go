package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/whatkey/model"
)

const (
	majorThird = 4
	minorThird = 3
)

// CreateChordKey joins the notes in ascending order, e.g. "60-64-67". The
// input is left untouched.
func CreateChordKey(notes model.Notes) string {
	sorted := sortedCopy(notes)
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

func sortedCopy(notes model.Notes) model.Notes {
	sorted := append(model.Notes(nil), notes...)
	sort.Ints(sorted)
	return sorted
}

func qualityOfThird(gap int) (model.Quality, bool) {
	switch gap {
	case majorThird:
		return model.MajorQuality, true
	case minorThird:
		return model.MinorQuality, true
	}
	return 0, false
}

// FindChord matches three notes against a root-position major (4,3) or
// minor (3,4) triad, or with thirdsOnly two notes against a bare major or
// minor third. The root is always the lowest note.
func FindChord(notes model.Notes, thirdsOnly bool) (model.ChordGuess, bool) {
	sorted := sortedCopy(notes)

	if thirdsOnly {
		if len(sorted) != 2 {
			return model.ChordGuess{}, false
		}
		gap := sorted[1] - sorted[0]
		quality, ok := qualityOfThird(gap)
		if !ok {
			return model.ChordGuess{}, false
		}
		return model.ChordGuess{
			Root:      model.PitchClassOf(sorted[0]),
			Quality:   quality,
			Notes:     sorted,
			Intervals: []int{gap},
		}, true
	}

	if len(sorted) != 3 {
		return model.ChordGuess{}, false
	}
	g1, g2 := sorted[1]-sorted[0], sorted[2]-sorted[1]
	var quality model.Quality
	switch {
	case g1 == majorThird && g2 == minorThird:
		quality = model.MajorQuality
	case g1 == minorThird && g2 == majorThird:
		quality = model.MinorQuality
	default:
		return model.ChordGuess{}, false
	}
	return model.ChordGuess{
		Root:      model.PitchClassOf(sorted[0]),
		Quality:   quality,
		Notes:     sorted,
		Intervals: []int{g1, g2},
	}, true
}

// Labels returns each guess's "C Major" style label in order.
func Labels(guesses []model.ChordGuess) []string {
	res := make([]string, 0, len(guesses))
	for _, g := range guesses {
		res = append(res, g.Label())
	}
	return res
}
