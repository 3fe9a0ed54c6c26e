package scale

import (
	"fmt"
	"strings"

	"github.com/jsphweid/whatkey/model"
)

type tableKey struct {
	root model.PitchClass
	mode model.Mode
}

// table is filled once at init and only read afterwards.
var table = buildTable()

func buildTable() map[tableKey]model.Scale {
	t := make(map[tableKey]model.Scale, model.NumPitchClasses*2)
	for root := model.PitchClass(0); root < model.NumPitchClasses; root++ {
		for _, mode := range []model.Mode{model.Major, model.Minor} {
			t[tableKey{root, mode}] = Build(root, mode)
		}
	}
	return t
}

// Lookup returns a copy of the precomputed scale for a key.
func Lookup(k model.Key) (model.Scale, bool) {
	s, ok := table[tableKey{k.Root, k.Mode}]
	if !ok {
		return model.Scale{}, false
	}
	return s.Clone(), true
}

// All lists every scale ordered by root then major before minor.
func All() []model.Scale {
	res := make([]model.Scale, 0, len(table))
	for root := model.PitchClass(0); root < model.NumPitchClasses; root++ {
		for _, mode := range []model.Mode{model.Major, model.Minor} {
			res = append(res, table[tableKey{root, mode}].Clone())
		}
	}
	return res
}

// Letters returns the letter names of a spelled scale, accidentals dropped.
func Letters(notes []string) []string {
	letters := make([]string, 0, len(notes))
	for _, n := range notes {
		if n == "" {
			letters = append(letters, "")
			continue
		}
		letters = append(letters, strings.ToUpper(n[:1]))
	}
	return letters
}

// HasEveryLetterOnce checks the one-letter-per-degree invariant.
func HasEveryLetterOnce(notes []string) bool {
	if len(notes) != model.DegreesPerScale {
		return false
	}
	seen := make(map[string]bool)
	for _, l := range Letters(notes) {
		if l < "A" || l > "G" || seen[l] {
			return false
		}
		seen[l] = true
	}
	return len(seen) == model.DegreesPerScale
}

// Verify reports every table entry breaking the letter invariant.
func Verify() []error {
	var errs []error
	for _, s := range All() {
		if !HasEveryLetterOnce(s.Notes) {
			errs = append(errs, fmt.Errorf("%v %v: letters %v", s.Root, s.Mode, Letters(s.Notes)))
		}
	}
	return errs
}
