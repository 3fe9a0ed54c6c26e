package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/whatkey/audio"
	"github.com/jsphweid/whatkey/detect"
	"github.com/jsphweid/whatkey/midi"
	"github.com/jsphweid/whatkey/model"
	"github.com/rs/zerolog"
)

// Service runs each transcription on one of a fixed number of workers with
// its own deadline, then hands the notes to the detector.
type Service struct {
	transcriber Transcriber
	detector    *detect.Detector
	workers     chan struct{}
	timeout     time.Duration
	workDir     string
	log         zerolog.Logger
}

type Result struct {
	Detection model.Detection
	Events    []model.NoteEvent
	Audio     audio.Info
}

// DefaultTimeout replaces a non-positive per-job timeout.
const DefaultTimeout = 2 * time.Minute

func NewService(t Transcriber, d *detect.Detector, workers int, timeout time.Duration, workDir string, log zerolog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		log.Warn().Dur("timeout", timeout).Dur("default", DefaultTimeout).Msg("non-positive transcription timeout, using default")
		timeout = DefaultTimeout
	}
	return &Service{
		transcriber: t,
		detector:    d,
		workers:     make(chan struct{}, workers),
		timeout:     timeout,
		workDir:     workDir,
		log:         log,
	}
}

func (s *Service) acquire(ctx context.Context) error {
	select {
	case s.workers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrBusy, ctx.Err())
	}
}

func (s *Service) release() {
	<-s.workers
}

// AnalyzeAudio validates and transcribes an in-memory upload.
func (s *Service) AnalyzeAudio(ctx context.Context, data []byte, format audio.Format) (Result, error) {
	info, err := audio.Probe(data, format)
	if err != nil {
		return Result{Audio: info}, err
	}

	path := filepath.Join(s.workDir, "whatkey-"+uuid.New().String()+info.Format.Ext())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Result{Audio: info}, fmt.Errorf("saving upload: %w", err)
	}
	defer os.Remove(path)

	res, err := s.analyzeAudioFile(ctx, path)
	res.Audio = info
	return res, err
}

// AnalyzeFile handles audio files and, without transcribing, MIDI files.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		events, err := midi.ReadMidiFile(path)
		if err != nil {
			return Result{}, err
		}
		return Result{Detection: s.detector.Run(events), Events: events}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading audio: %w", err)
	}
	info, err := audio.Probe(data, audio.Sniff(data))
	if err != nil {
		return Result{Audio: info}, err
	}
	res, err := s.analyzeAudioFile(ctx, path)
	res.Audio = info
	return res, err
}

func (s *Service) analyzeAudioFile(ctx context.Context, path string) (Result, error) {
	if err := s.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer s.release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	events, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = &Error{Tool: "transcriber", Stage: "transcription", Cause: fmt.Errorf("%w: %v", ErrTimeout, err)}
		}
		s.log.Error().Err(err).Str("audio", path).Msg("transcription failed")
		return Result{}, err
	}
	s.log.Info().Int("notes", len(events)).Dur("took", time.Since(start)).Msg("transcribed")

	return Result{Detection: s.detector.Run(events), Events: events}, nil
}
