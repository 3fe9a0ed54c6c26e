package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorruptedFile     = errors.New("file corrupted or unreadable")
	ErrEmptyInput        = errors.New("empty audio input")
)

type Format string

const (
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatOGG     Format = "ogg"
	FormatFLAC    Format = "flac"
	FormatUnknown Format = "unknown"
)

// accepted upload content types
var mimeTypes = map[string]Format{
	"audio/mpeg": FormatMP3,
	"audio/wav":  FormatWAV,
	"audio/ogg":  FormatOGG,
	"audio/flac": FormatFLAC,
}

var extensions = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".ogg":  FormatOGG,
	".flac": FormatFLAC,
}

func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + string(f)
}

// FormatOfUpload decides the format from the declared content type. Generic
// or missing types fall back to the file extension.
func FormatOfUpload(contentType, filename string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType != "application/octet-stream" {
		if f, ok := mimeTypes[mediaType]; ok {
			return f, nil
		}
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
	if f, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// Sniff looks at magic bytes.
func Sniff(header []byte) Format {
	switch {
	case len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WAVE":
		return FormatWAV
	case len(header) >= 4 && string(header[:4]) == "fLaC":
		return FormatFLAC
	case len(header) >= 4 && string(header[:4]) == "OggS":
		return FormatOGG
	case len(header) >= 3 && string(header[:3]) == "ID3":
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return FormatUnknown
}

type Info struct {
	Format     Format
	Size       int
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Probe validates the payload. WAV headers are decoded fully; other
// containers are only sniffed since transcription decodes them itself.
func Probe(data []byte, declared Format) (Info, error) {
	info := Info{Format: declared, Size: len(data)}
	if len(data) == 0 {
		return info, ErrEmptyInput
	}
	if sniffed := Sniff(data); sniffed != FormatUnknown {
		info.Format = sniffed
	}
	if info.Format != FormatWAV {
		return info, nil
	}

	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return info, fmt.Errorf("%w: invalid wav header", ErrCorruptedFile)
	}
	dur, err := d.Duration()
	if err != nil {
		return info, fmt.Errorf("%w: %v", ErrCorruptedFile, err)
	}
	info.SampleRate = int(d.SampleRate)
	info.Channels = int(d.NumChans)
	info.Duration = dur
	return info, nil
}

func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("audio exceeds %d bytes", limit)
	}
	return data, nil
}
