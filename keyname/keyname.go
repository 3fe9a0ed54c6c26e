// Package keyname turns loosely formatted key names such as "c-sharp", "Am"
// or "F#m" into keys, and renders keys back into URL and solfège forms.
package keyname

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/whatkey/model"
)

var ErrNotFound = errors.New("key not found")

// canonical maps every accepted lowercase token to its symbolic spelling.
var canonical = buildCanonical()

func buildCanonical() map[string]string {
	m := make(map[string]string)
	for _, letter := range "abcdefg" {
		l := string(letter)
		upper := strings.ToUpper(l)
		m[l] = upper
		m[l+"#"] = upper + "#"
		m[l+"♯"] = upper + "#"
		m[l+"-sharp"] = upper + "#"
		m[l+"b"] = upper + "b"
		m[l+"♭"] = upper + "b"
		m[l+"-flat"] = upper + "b"
	}
	return m
}

// accidentals swaps a spelling for its enharmonic equivalent. Both
// directions are listed explicitly, in symbolic and URL form.
var accidentals = map[string]string{
	"A#": "Bb",
	"B#": "C",
	"C#": "Db",
	"D#": "Eb",
	"E#": "F",
	"F#": "Gb",
	"G#": "Ab",
	"Ab": "G#",
	"Bb": "A#",
	"Cb": "B",
	"Db": "C#",
	"Eb": "D#",
	"Fb": "E",
	"Gb": "F#",

	"a-sharp": "b-flat",
	"b-sharp": "c",
	"c-sharp": "d-flat",
	"d-sharp": "e-flat",
	"e-sharp": "f",
	"f-sharp": "g-flat",
	"g-sharp": "a-flat",
	"a-flat":  "g-sharp",
	"b-flat":  "a-sharp",
	"c-flat":  "b",
	"d-flat":  "c-sharp",
	"e-flat":  "d-sharp",
	"f-flat":  "e",
	"g-flat":  "f-sharp",
}

// FlipAccidentals returns the enharmonic spelling of token, or token itself
// when it has none in the table.
func FlipAccidentals(token string) string {
	if flipped, ok := accidentals[token]; ok {
		return flipped
	}
	return token
}

func accidentalOf(token string) model.Accidental {
	switch {
	case strings.HasSuffix(token, "-sharp"), strings.HasSuffix(token, "#"), strings.HasSuffix(token, "♯"):
		return model.Sharp
	case strings.HasSuffix(token, "-flat"), strings.HasSuffix(token, "♭"):
		return model.Flat
	case len(token) == 2 && token[1] == 'b':
		return model.Flat
	}
	return model.Natural
}

// Normalize resolves raw into a key. The order of the steps matters: the
// minor marker is stripped before the accidental and the canonical lookup.
// ok is false when the name does not resolve to one of the 12 pitch classes.
func Normalize(raw string) (model.Key, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))

	mode := model.Major
	if len(token) > 1 && strings.HasSuffix(token, "m") {
		token = strings.TrimSuffix(token, "m")
		mode = model.Minor
	}

	accidental := accidentalOf(token)

	symbolic, ok := canonical[token]
	if !ok {
		return model.Key{}, false
	}

	name := symbolic
	if _, ok := model.PitchClassNamed(name); !ok {
		name = FlipAccidentals(name)
	}
	root, ok := model.PitchClassNamed(name)
	if !ok {
		return model.Key{}, false
	}

	return model.Key{
		Root:       root,
		Mode:       mode,
		Accidental: accidental,
		Spelled:    symbolic,
	}, true
}

// Parse is Normalize for callers that prefer an error.
func Parse(raw string) (model.Key, error) {
	k, ok := Normalize(raw)
	if !ok {
		return model.Key{}, fmt.Errorf("%w: %q", ErrNotFound, raw)
	}
	return k, nil
}

// ParseLabel reads detection labels such as "C_major", "A minor" or
// "C# Minor". An unknown or missing mode means major.
func ParseLabel(label string) (model.Key, bool) {
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return r == '_' || r == ' '
	})
	if len(parts) == 0 {
		return model.Key{}, false
	}
	k, ok := Normalize(parts[0])
	if !ok {
		return model.Key{}, false
	}
	k.Mode = model.Major
	if len(parts) > 1 {
		if mode, ok := model.ParseMode(parts[1]); ok {
			k.Mode = mode
		}
	}
	return k, true
}
