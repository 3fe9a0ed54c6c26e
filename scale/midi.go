package scale

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/whatkey/midi"
	"github.com/jsphweid/whatkey/model"
)

const middleC = 60

// Pitches is the ascending scale from the root in octave 4, octave included.
func Pitches(s model.Scale) []uint8 {
	base := middleC + int(s.Root)
	var res []uint8
	for _, interval := range Intervals(s.Mode) {
		res = append(res, uint8(base+interval))
	}
	return append(res, uint8(base+12))
}

func WriteMIDI(w io.Writer, s model.Scale) error {
	return midi.WriteMelody(w, Pitches(s), 120)
}

func WriteMIDIFile(path string, s model.Scale) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating midi file: %w", err)
	}
	defer f.Close()
	return WriteMIDI(f, s)
}
