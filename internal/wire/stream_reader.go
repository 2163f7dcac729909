package wire

import (
	"encoding/binary"
	"io"
	"math"
)

// StreamReader decodes fields directly off a live io.Reader instead of a
// pre-sliced buffer. Since spec.md §6 frames carry no outer length, the only
// way to read a packet whose shape isn't known ahead of time (a
// variable-length list, as several server -> client packets have) is to
// pull exactly as many bytes as each field needs, in order, straight off
// the connection — the same "consume until a handler-complete boundary"
// rule ReadFrame applies for the fixed/known client opcodes. Used by test
// harnesses standing in for a real client.
type StreamReader struct {
	r io.Reader
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

func (s *StreamReader) readN(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *StreamReader) ReadByte() (byte, error) {
	b, err := s.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *StreamReader) ReadInt16() (int16, error) {
	b, err := s.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (s *StreamReader) ReadUint16() (uint16, error) {
	b, err := s.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *StreamReader) ReadInt32() (int32, error) {
	b, err := s.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (s *StreamReader) ReadFloat32() (float32, error) {
	b, err := s.readN(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadString reads a 2-byte length prefix followed by that many UTF-8 bytes.
func (s *StreamReader) ReadString() (string, error) {
	n, err := s.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := s.readN(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *StreamReader) ReadBytes(n int) ([]byte, error) {
	return s.readN(n)
}
