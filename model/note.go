package model

import "time"

// NoteEvent is a single transcribed note. Only Pitch feeds detection.
type NoteEvent struct {
	Pitch    uint8
	Velocity uint8
	Onset    time.Duration
	Offset   time.Duration
}

func Pitches(events []NoteEvent) []int {
	res := make([]int, 0, len(events))
	for _, evt := range events {
		res = append(res, int(evt.Pitch))
	}
	return res
}
