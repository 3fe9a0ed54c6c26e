package model

// PitchClass is one of the 12 octave-equivalent note classes, C=0 ... B=11.
type PitchClass int

const NumPitchClasses = 12

var sharpNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flat spellings use the unicode flat sign, which is how scales are displayed
var flatNames = [NumPitchClasses]string{"C", "D♭", "D", "E♭", "E", "F", "G♭", "G", "A♭", "A", "B♭", "B"}

func PitchClassOf(midiNote int) PitchClass {
	return PitchClass(0).Transpose(midiNote)
}

// Transpose moves the pitch class by semitones, always wrapping mod 12.
func (p PitchClass) Transpose(semitones int) PitchClass {
	idx := (int(p) + semitones) % NumPitchClasses
	if idx < 0 {
		idx += NumPitchClasses
	}
	return PitchClass(idx)
}

func (p PitchClass) Valid() bool {
	return p >= 0 && p < NumPitchClasses
}

func (p PitchClass) Sharp() string {
	return sharpNames[p.Transpose(0)]
}

func (p PitchClass) Flat() string {
	return flatNames[p.Transpose(0)]
}

func (p PitchClass) String() string {
	return p.Sharp()
}

// PitchClassNamed looks up one of the 12 canonical sharp-spelled names.
func PitchClassNamed(name string) (PitchClass, bool) {
	for i, n := range sharpNames {
		if n == name {
			return PitchClass(i), true
		}
	}
	return 0, false
}

// PitchClassOfSpelling accepts either a sharp name or a unicode-flat name.
func PitchClassOfSpelling(name string) (PitchClass, bool) {
	if pc, ok := PitchClassNamed(name); ok {
		return pc, true
	}
	for i, n := range flatNames {
		if n == name {
			return PitchClass(i), true
		}
	}
	return 0, false
}

func SharpNames() []string {
	names := make([]string, NumPitchClasses)
	copy(names, sharpNames[:])
	return names
}
