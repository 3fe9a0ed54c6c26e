// Package transcribe wraps the external audio-to-MIDI model and feeds its
// notes into detection.
package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/whatkey/midi"
	"github.com/jsphweid/whatkey/model"
	"github.com/rs/zerolog"
)

// Transcriber turns an audio file into note events.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]model.NoteEvent, error)
}

// BasicPitch runs the basic-pitch command line tool, which writes
// <name>_basic_pitch.mid into an output directory.
type BasicPitch struct {
	Bin     string
	WorkDir string
	Args    []string
	Log     zerolog.Logger
}

func NewBasicPitch(bin, workDir string, log zerolog.Logger) *BasicPitch {
	return &BasicPitch{Bin: bin, WorkDir: workDir, Log: log}
}

func (b *BasicPitch) Transcribe(ctx context.Context, audioPath string) ([]model.NoteEvent, error) {
	outDir := filepath.Join(b.WorkDir, "whatkey-"+uuid.New().String())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, &Error{Tool: b.Bin, Stage: "setup", Cause: err}
	}
	defer os.RemoveAll(outDir)

	args := append(append([]string{}, b.Args...), outDir, audioPath)
	cmd := exec.CommandContext(ctx, b.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	b.Log.Debug().Str("audio", audioPath).Dur("took", time.Since(start)).Msg("basic-pitch finished")

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return nil, &Error{Tool: b.Bin, Stage: "transcription", Cause: ErrTimeout}
	}
	if err != nil {
		res := &Error{Tool: b.Bin, Stage: "transcription", Stderr: strings.TrimSpace(stderr.String()), Cause: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return nil, res
	}

	midiPath, err := findMidi(outDir)
	if err != nil {
		return nil, &Error{Tool: b.Bin, Stage: "output", Cause: err}
	}
	events, err := midi.ReadMidiFile(midiPath)
	if err != nil {
		return nil, &Error{Tool: b.Bin, Stage: "parse", Cause: err}
	}
	return events, nil
}

func findMidi(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.mid"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoOutput, dir)
	}
	return matches[0], nil
}
