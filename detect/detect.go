// Package detect infers the most plausible chord or key from the pitches of
// a transcribed clip.
//
// The most frequent pitches are searched for root-position major or minor
// triads, then bare thirds, widening the candidate set from MinCandidates to
// MaxCandidates pitches until something matches. The first size that matches
// wins; every match at that size is returned.
package detect

import (
	"sort"

	"github.com/jsphweid/whatkey/chord"
	"github.com/jsphweid/whatkey/model"
	"github.com/jsphweid/whatkey/util"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/combin"
)

const (
	MinCandidates = 3
	MaxCandidates = 10
)

// RankCommonPitches returns up to k MIDI numbers, most frequent first. Ties
// keep the order in which pitches were first seen.
func RankCommonPitches(notes []int, k int) []int {
	if k <= 0 || len(notes) == 0 {
		return []int{}
	}

	counts := make(map[int]int)
	var order []int
	for _, n := range notes {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order[:util.Min(k, len(order))]
}

func matchAll(candidates []int, size int, thirdsOnly bool) []model.ChordGuess {
	var found []model.ChordGuess
	if len(candidates) < size {
		return found
	}
	for _, idx := range combin.Combinations(len(candidates), size) {
		if guess, ok := chord.FindChord(util.Pick(candidates, idx), thirdsOnly); ok {
			found = append(found, guess)
		}
	}
	return found
}

// Detect searches the k most frequent pitches for triads, then for thirds.
// Without a match it falls back to the most frequent pitch class, or nothing
// at all for empty input.
func Detect(notes []int, k int) model.Detection {
	return detect(notes, k, zerolog.Nop())
}

func detect(notes []int, k int, log zerolog.Logger) model.Detection {
	common := RankCommonPitches(notes, k)
	log.Debug().Int("k", k).Ints("common", common).Msg("most common notes")

	if triads := matchAll(common, 3, false); len(triads) > 0 {
		log.Debug().Strs("chords", chord.Labels(triads)).Msg("triads detected")
		return model.Detection{Found: true, Guesses: triads, K: k}
	}

	if thirds := matchAll(common, 2, true); len(thirds) > 0 {
		log.Debug().Strs("chords", chord.Labels(thirds)).Msg("thirds detected")
		return model.Detection{Found: true, Guesses: thirds, K: k}
	}

	if len(common) == 0 {
		return model.Detection{}
	}
	root := model.PitchClassOf(common[0])
	log.Debug().Stringer("root", root).Msg("no tonality detected, assuming most repeated note is the root")
	return model.Detection{ProbableRoot: &root}
}

type Detector struct {
	MinK int
	MaxK int
	Log  zerolog.Logger
}

func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{MinK: MinCandidates, MaxK: MaxCandidates, Log: log}
}

// Run tries candidate set sizes MinK..MaxK and stops at the first that
// matches. If none does, the result carries the frequency fallback.
func (d *Detector) Run(events []model.NoteEvent) model.Detection {
	return d.RunPitches(model.Pitches(events))
}

func (d *Detector) RunPitches(notes []int) model.Detection {
	var res model.Detection
	for k := d.MinK; k <= d.MaxK; k++ {
		d.Log.Debug().Int("k", k).Msg("trying detection")
		res = detect(notes, k, d.Log)
		if res.Found {
			return res
		}
		// a larger k cannot add candidates once every distinct pitch is in
		if len(RankCommonPitches(notes, k+1)) <= k {
			break
		}
	}
	return res
}

// Run uses the default candidate range without logging.
func Run(events []model.NoteEvent) model.Detection {
	return NewDetector(zerolog.Nop()).Run(events)
}
