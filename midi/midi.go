package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jsphweid/whatkey/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

type reducedEvent struct {
	offset    int64
	isNoteOff bool
	channel   uint8
	note      uint8
	velocity  uint8
	// zeroLength marks a note start whose end follows it at the same tick.
	zeroLength bool
}

func ReadMidiFile(path string) ([]model.NoteEvent, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return ReadNoteEvents(bytes.NewReader(dat))
}

// ReadNoteEvents parses a Standard MIDI File and pairs note starts with
// their ends across all tracks. Notes still sounding at the end of the file
// end with the last event.
func ReadNoteEvents(r io.Reader) (events []model.NoteEvent, e error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			events = nil
			e = fmt.Errorf("parsing midi file: %v", rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}
	return noteEvents(s), nil
}

func reduce(s *smf.SMF) []reducedEvent {
	var reduced []reducedEvent
	for _, track := range s.Tracks {
		var absTicks int64
		trackStart := len(reduced)
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{
					offset:   s.TimeAt(absTicks),
					channel:  channel,
					note:     key,
					velocity: velocity,
				})
			case event.Message.GetNoteEnd(&channel, &key):
				offset := s.TimeAt(absTicks)
				if i := startedAt(reduced[trackStart:], offset, channel, key); i >= 0 {
					reduced[trackStart+i].zeroLength = true
					continue
				}
				reduced = append(reduced, reducedEvent{
					offset:    offset,
					isNoteOff: true,
					channel:   channel,
					note:      key,
				})
			}
		}
	}

	// prioritize smaller offset values then note off
	sort.SliceStable(reduced, func(i, j int) bool {
		if reduced[i].offset != reduced[j].offset {
			return reduced[i].offset < reduced[j].offset
		}
		return reduced[i].isNoteOff && !reduced[j].isNoteOff
	})
	return reduced
}

// startedAt finds an unpaired start of the same voice at offset, searching
// back from the end of a track's events. It returns -1 if there is none.
func startedAt(events []reducedEvent, offset int64, channel, note uint8) int {
	for i := len(events) - 1; i >= 0 && events[i].offset == offset; i-- {
		e := events[i]
		if !e.isNoteOff && !e.zeroLength && e.channel == channel && e.note == note {
			return i
		}
	}
	return -1
}

func noteEvents(s *smf.SMF) []model.NoteEvent {
	type voice struct{ channel, note uint8 }

	reduced := reduce(s)
	pressed := make(map[voice][]int)
	var res []model.NoteEvent
	var last int64

	for _, evt := range reduced {
		last = evt.offset
		v := voice{evt.channel, evt.note}
		if !evt.isNoteOff {
			onset := time.Duration(evt.offset) * time.Microsecond
			note := model.NoteEvent{Pitch: evt.note, Velocity: evt.velocity, Onset: onset}
			if evt.zeroLength {
				note.Offset = onset
			} else {
				pressed[v] = append(pressed[v], len(res))
			}
			res = append(res, note)
			continue
		}
		open := pressed[v]
		if len(open) == 0 {
			continue
		}
		res[open[0]].Offset = time.Duration(evt.offset) * time.Microsecond
		pressed[v] = open[1:]
	}

	for _, open := range pressed {
		for _, idx := range open {
			res[idx].Offset = time.Duration(last) * time.Microsecond
		}
	}
	return res
}
