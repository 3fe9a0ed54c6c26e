package model

import "strings"

type Mode int

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Minor {
		return Major
	}
	return Minor
}

// ParseMode understands "major"/"minor" in any case. Anything else is Major.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor", "min", "m":
		return Minor, true
	case "major", "maj", "":
		return Major, true
	}
	return Major, false
}

// Accidental records how the user spelled the root. It never changes pitch
// class identity.
type Accidental int

const (
	Natural Accidental = iota
	Sharp
	Flat
)

type Key struct {
	Root       PitchClass
	Mode       Mode
	Accidental Accidental

	// Spelled is the symbolic form as entered, e.g. "Db" for "d-flat".
	Spelled string
}

// Equivalent reports whether both keys name the same tonality regardless of
// spelling.
func (k Key) Equivalent(other Key) bool {
	return k.Root == other.Root && k.Mode == other.Mode
}

func (k Key) IsSharp() bool { return k.Accidental == Sharp }
func (k Key) IsFlat() bool  { return k.Accidental == Flat }

// Name is the canonical sharp-spelled key name, "m" suffixed for minor.
func (k Key) Name() string {
	if k.Mode == Minor {
		return k.Root.Sharp() + "m"
	}
	return k.Root.Sharp()
}

func (k Key) String() string {
	return k.Root.Sharp() + " " + k.Mode.String()
}
