package transcribe

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout  = errors.New("transcription timed out")
	ErrNoOutput = errors.New("transcription produced no midi file")
	ErrBusy     = errors.New("no transcription worker available")
)

// Error is a failed transcription. It is never turned into an empty note
// list, since that would look like silent audio.
type Error struct {
	Tool     string
	Stage    string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed at %s", e.Tool, e.Stage)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
