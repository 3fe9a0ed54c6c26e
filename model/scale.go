package model

const DegreesPerScale = 7

// Scale is derived entirely from (Root, Mode) and is never mutated after
// construction.
type Scale struct {
	Root     PitchClass
	Mode     Mode
	Notes    []string
	Chords   []string
	Relative Key
}

func (s Scale) Key() Key {
	return Key{Root: s.Root, Mode: s.Mode, Spelled: s.Notes[0]}
}

// Clone returns a deep copy so callers cannot alias shared tables.
func (s Scale) Clone() Scale {
	c := s
	c.Notes = append([]string(nil), s.Notes...)
	c.Chords = append([]string(nil), s.Chords...)
	return c
}
