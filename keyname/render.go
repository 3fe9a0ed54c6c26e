package keyname

import (
	"strings"

	"github.com/jsphweid/whatkey/model"
)

var solfegeNames = map[byte]string{
	'C': "Do",
	'D': "Re",
	'E': "Mi",
	'F': "Fa",
	'G': "Sol",
	'A': "La",
	'B': "Si",
}

// splitName separates "C#m" into "C", "#" and "m".
func splitName(name string) (string, string, string) {
	if name == "" {
		return "", "", ""
	}
	letter, rest := name[:1], name[1:]
	for _, acc := range []string{"#", "♯", "♭", "b"} {
		if strings.HasPrefix(rest, acc) {
			return letter, acc, rest[len(acc):]
		}
	}
	return letter, "", rest
}

// URL is the lowercase hyphenated form used in links: "C#" becomes
// "c-sharp" and "Ab" becomes "a-flat".
func URL(name string) string {
	letter, acc, rest := splitName(name)
	res := strings.ToLower(letter)
	switch acc {
	case "#", "♯":
		res += "-sharp"
	case "b", "♭":
		res += "-flat"
	}
	return res + rest
}

// KeyURL is the link form of a key's root as the user spelled it.
func KeyURL(k model.Key) string {
	if k.Spelled != "" {
		return URL(k.Spelled)
	}
	return URL(k.Root.Sharp())
}

// Enharmonic is the URL form of the other spelling of the key's root.
func Enharmonic(k model.Key) string {
	return FlipAccidentals(KeyURL(k))
}

// Solfege renders a note or chord name with fixed-do syllables: "C#" becomes
// "Do♯" and "Bb" becomes "Si♭".
func Solfege(name string) string {
	letter, acc, rest := splitName(name)
	if letter == "" {
		return name
	}
	syllable, ok := solfegeNames[strings.ToUpper(letter)[0]]
	if !ok {
		return name
	}
	switch acc {
	case "#", "♯":
		syllable += "♯"
	case "b", "♭":
		syllable += "♭"
	}
	return syllable + rest
}

func SolfegeAll(names []string) []string {
	res := make([]string, 0, len(names))
	for _, n := range names {
		res = append(res, Solfege(n))
	}
	return res
}
