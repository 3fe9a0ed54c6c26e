package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsphweid/whatkey/audio"
	"github.com/jsphweid/whatkey/chord"
	"github.com/jsphweid/whatkey/detect"
	"github.com/jsphweid/whatkey/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakeMP3 = []byte("ID3\x04\x00 not really an mp3")

type fakeTranscriber struct {
	events []model.NoteEvent
	err    error
	calls  int32
	paths  chan string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) ([]model.NoteEvent, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.paths != nil {
		f.paths <- audioPath
	}
	return f.events, f.err
}

// blockingTranscriber holds its worker until release is closed or the
// context ends.
type blockingTranscriber struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingTranscriber) Transcribe(ctx context.Context, audioPath string) ([]model.NoteEvent, error) {
	if b.started != nil {
		close(b.started)
	}
	select {
	case <-b.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func notes(pitches ...uint8) []model.NoteEvent {
	res := make([]model.NoteEvent, 0, len(pitches))
	for _, p := range pitches {
		res = append(res, model.NoteEvent{Pitch: p, Velocity: 100})
	}
	return res
}

func newTestService(t *testing.T, tr Transcriber, workers int, timeout time.Duration) *Service {
	return NewService(tr, detect.NewDetector(zerolog.Nop()), workers, timeout, t.TempDir(), zerolog.Nop())
}

func TestAnalyzeAudio(t *testing.T) {
	tr := &fakeTranscriber{events: notes(60, 60, 64, 67), paths: make(chan string, 1)}
	s := newTestService(t, tr, 2, time.Second)

	res, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.True(res.Detection.Found)
	assert.Equal([]string{"C Major"}, chord.Labels(res.Detection.Guesses))
	assert.Len(res.Events, 4)
	assert.Equal(audio.FormatMP3, res.Audio.Format)

	path := <-tr.paths
	assert.True(strings.HasSuffix(path, ".mp3"))
	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err), "upload should be removed")
}

func TestAnalyzeAudioRejectsEmptyInput(t *testing.T) {
	tr := &fakeTranscriber{}
	s := newTestService(t, tr, 1, time.Second)

	_, err := s.AnalyzeAudio(context.Background(), nil, audio.FormatWAV)
	assert.ErrorIs(t, err, audio.ErrEmptyInput)
	assert.Equal(t, int32(0), atomic.LoadInt32(&tr.calls))
}

func TestAnalyzeAudioPropagatesFailure(t *testing.T) {
	failure := &Error{Tool: "basic-pitch", Stage: "transcription", ExitCode: 1}
	s := newTestService(t, &fakeTranscriber{err: failure}, 1, time.Second)

	res, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
	assert.ErrorIs(t, err, failure)
	assert.False(t, res.Detection.Found)
	assert.Nil(t, res.Detection.ProbableRoot)
}

func TestAnalyzeAudioSilence(t *testing.T) {
	s := newTestService(t, &fakeTranscriber{}, 1, time.Second)

	res, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
	require.NoError(t, err)
	assert.Equal(t, model.Detection{}, res.Detection)
}

func TestAnalyzeAudioTimeout(t *testing.T) {
	s := newTestService(t, &blockingTranscriber{release: make(chan struct{})}, 1, 50*time.Millisecond)

	_, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
	assert.ErrorIs(t, err, ErrTimeout)

	var terr *Error
	assert.ErrorAs(t, err, &terr)
}

func TestAnalyzeAudioBusy(t *testing.T) {
	blocker := &blockingTranscriber{started: make(chan struct{}), release: make(chan struct{})}
	s := newTestService(t, blocker, 1, 5*time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
		done <- err
	}()
	<-blocker.started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.AnalyzeAudio(ctx, fakeMP3, audio.FormatMP3)
	assert.ErrorIs(t, err, ErrBusy)

	close(blocker.release)
	assert.NoError(t, <-done)
}

func TestNonPositiveTimeoutUsesDefault(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		tr := &fakeTranscriber{events: notes(60, 64, 67)}
		s := newTestService(t, tr, 1, timeout)
		assert.Equal(t, DefaultTimeout, s.timeout)

		res, err := s.AnalyzeAudio(context.Background(), fakeMP3, audio.FormatMP3)
		require.NoError(t, err, "timeout %v", timeout)
		assert.True(t, res.Detection.Found)
	}
}

func TestAnalyzeFileMidiSkipsTranscription(t *testing.T) {
	tr := &fakeTranscriber{}
	s := newTestService(t, tr, 1, time.Second)

	res, err := s.AnalyzeFile(context.Background(), melodyFixture(t, 57, 60, 64))
	require.NoError(t, err)
	assert.Equal(t, []string{"A Minor"}, chord.Labels(res.Detection.Guesses))
	assert.Equal(t, int32(0), atomic.LoadInt32(&tr.calls))
}

func TestAnalyzeFileAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.mp3")
	require.NoError(t, os.WriteFile(path, fakeMP3, 0644))

	tr := &fakeTranscriber{events: notes(62, 66, 69), paths: make(chan string, 1)}
	s := newTestService(t, tr, 1, time.Second)

	res, err := s.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"D Major"}, chord.Labels(res.Detection.Guesses))
	assert.Equal(t, path, <-tr.paths)
}

func TestAnalyzeFileMissing(t *testing.T) {
	s := newTestService(t, &fakeTranscriber{}, 1, time.Second)
	_, err := s.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "gone.wav"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestErrorMessage(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("basic-pitch failed at output: boom",
		(&Error{Tool: "basic-pitch", Stage: "output", Cause: errors.New("boom")}).Error())
	assert.Equal("basic-pitch failed at transcription (exit 2): bad input",
		(&Error{Tool: "basic-pitch", Stage: "transcription", ExitCode: 2, Stderr: "bad input"}).Error())
}
