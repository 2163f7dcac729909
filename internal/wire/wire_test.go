package wire

import (
	"bytes"
	"testing"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteByte(7)
	w.WriteInt16(-300)
	w.WriteInt32(123456789)
	w.WriteFloat32(3.5)
	w.WriteString("alice")

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(7), b)

	i16, err := r.ReadInt16()
	require.NoError(t, err)
	require.Equal(t, int16(-300), i16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(123456789), i32)

	f, err := r.ReadFloat32()
	require.NoError(t, err)
	require.Equal(t, float32(3.5), f)

	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "alice", s)

	require.Equal(t, 0, r.Remaining())
}

func TestReadTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.ReadInt32()
	require.ErrorIs(t, err, apperr.ErrTruncated)
}

func TestStringTruncated(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello")
	full := w.Bytes()
	r := NewReader(full[:len(full)-2]) // chop off trailing bytes
	_, err := r.ReadString()
	require.ErrorIs(t, err, apperr.ErrTruncated)
}

func TestFrameRoundTripEmptyBody(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{opThrowDices}
	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameRoundTripFixedBody(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{opWalk, 3} // heading:u8
	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameRoundTripStringBody(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter()
	w.WriteString("alice")
	w.WriteString("hunter2")
	payload := append([]byte{opLogin}, w.Bytes()...)
	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)

	r := NewReader(got[1:])
	username, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "alice", username)
	password, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hunter2", password)
}

func TestFrameUnknownOpcodePassthrough(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(255)
	buf.WriteString("trailing bytes a real handler for this opcode would read itself")

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte{255}, got)
}
