package midi

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func encode(t *testing.T, track smf.Track) []byte {
	t.Helper()
	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	s.Tracks = append(s.Tracks, track)

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWriteMelodyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMelody(&buf, []uint8{60, 64, 67}, 120))

	events, err := ReadNoteEvents(&buf)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert := assert.New(t)
	for i, pitch := range []uint8{60, 64, 67} {
		assert.Equal(pitch, events[i].Pitch)
		assert.Equal(uint8(100), events[i].Velocity)
		assert.Equal(time.Duration(i)*500*time.Millisecond, events[i].Onset)
		assert.Equal(time.Duration(i+1)*500*time.Millisecond, events[i].Offset)
	}
}

func TestRepeatedNotesPairInOrder(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, gomidi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter, gomidi.NoteOn(0, 60, 80))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 60))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 60))
	track.Close(0)

	events, err := ReadNoteEvents(bytes.NewReader(encode(t, track)))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert := assert.New(t)
	assert.Equal(uint8(90), events[0].Velocity)
	assert.Equal(time.Second, events[0].Offset)
	assert.Equal(uint8(80), events[1].Velocity)
	assert.Equal(1500*time.Millisecond, events[1].Offset)
}

func TestUnterminatedNoteEndsWithLastEvent(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, gomidi.NoteOn(0, 60, 100))
	track.Add(ticksPerQuarter, gomidi.NoteOn(0, 64, 100))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 64))
	track.Close(0)

	events, err := ReadNoteEvents(bytes.NewReader(encode(t, track)))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert := assert.New(t)
	assert.Equal(uint8(60), events[0].Pitch)
	assert.Equal(time.Duration(0), events[0].Onset)
	assert.Equal(time.Second, events[0].Offset)
	assert.Equal(uint8(64), events[1].Pitch)
	assert.Equal(time.Second, events[1].Offset)
}

func TestZeroLengthNoteKeepsItsOwnEnd(t *testing.T) {
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, gomidi.NoteOn(0, 60, 100))
	track.Add(0, gomidi.NoteOff(0, 60))
	track.Add(ticksPerQuarter, gomidi.NoteOn(0, 64, 100))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 64))
	track.Close(0)

	events, err := ReadNoteEvents(bytes.NewReader(encode(t, track)))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert := assert.New(t)
	assert.Equal(uint8(60), events[0].Pitch)
	assert.Equal(time.Duration(0), events[0].Onset)
	assert.Equal(time.Duration(0), events[0].Offset)
	assert.Equal(uint8(64), events[1].Pitch)
	assert.Equal(500*time.Millisecond, events[1].Onset)
	assert.Equal(time.Second, events[1].Offset)
}

func TestRestrikeAtSameTick(t *testing.T) {
	// off then on at the same tick ends one note and starts the next
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, gomidi.NoteOn(0, 60, 100))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 60))
	track.Add(0, gomidi.NoteOn(0, 60, 90))
	track.Add(ticksPerQuarter, gomidi.NoteOff(0, 60))
	track.Close(0)

	events, err := ReadNoteEvents(bytes.NewReader(encode(t, track)))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert := assert.New(t)
	assert.Equal(500*time.Millisecond, events[0].Offset)
	assert.Equal(500*time.Millisecond, events[1].Onset)
	assert.Equal(time.Second, events[1].Offset)
}

func TestMalformedInput(t *testing.T) {
	_, err := ReadNoteEvents(bytes.NewReader([]byte("definitely not a midi file")))
	assert.Error(t, err)

	_, err = ReadNoteEvents(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadMidiFile("does-not-exist.mid")
	assert.ErrorContains(t, err, "reading midi file")
}
