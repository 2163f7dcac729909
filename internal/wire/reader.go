package wire

import (
	"encoding/binary"
	"math"

	"github.com/pyao-go/server/internal/apperr"
)

// Reader is a cursor over a decoded packet body (opcode already stripped
// by the caller). Every read returns apperr.ErrTruncated instead of
// panicking or silently returning a zero value: a malicious or buggy
// client must never crash the router.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

func (r *Reader) ReadByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, apperr.ErrTruncated
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *Reader) ReadInt16() (int16, error) {
	if r.Remaining() < 2 {
		return 0, apperr.ErrTruncated
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, apperr.ErrTruncated
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	if r.Remaining() < 4 {
		return 0, apperr.ErrTruncated
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	if r.Remaining() < 4 {
		return 0, apperr.ErrTruncated
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v, nil
}

// ReadString reads a 2-byte length prefix followed by that many UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	if r.Remaining() < int(n) {
		return "", apperr.ErrTruncated
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, apperr.ErrTruncated
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b, nil
}
