package midi

import (
	"fmt"
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarter = 480

// WriteMelody writes the pitches as consecutive quarter notes on channel 0.
func WriteMelody(w io.Writer, pitches []uint8, bpm float64) error {
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))
	for _, p := range pitches {
		track.Add(0, gomidi.NoteOn(0, p, 100))
		track.Add(ticksPerQuarter, gomidi.NoteOff(0, p))
	}
	track.Close(0)
	s.Tracks = append(s.Tracks, track)

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi: %w", err)
	}
	return nil
}
