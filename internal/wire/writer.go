// Package wire implements the binary frame codec: bytes <-> typed fields.
// All integers are little-endian; strings are UTF-8 prefixed by a 2-byte
// unsigned length. Grounded on the reader/writer cursor shape of a Lineage
// packet codec, adapted from null-terminated Big5 strings to Argentum's
// length-prefixed UTF-8 wire format (see SPEC_FULL.md §4.1).
package wire

import (
	"encoding/binary"
	"math"
)

// Writer builds an outbound packet body. The opcode itself is not written
// here — PacketRouter/MessageSender prepend it once the body is complete.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) WriteByte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteInt16(v int16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteFloat32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteString writes a 2-byte little-endian length followed by the UTF-8
// bytes of s. The length is truncated to fit; callers never pass strings
// longer than 65535 bytes in practice (usernames, chat, console text).
func (w *Writer) WriteString(s string) {
	b := []byte(s)
	var lb [2]byte
	binary.LittleEndian.PutUint16(lb[:], uint16(len(b)))
	w.buf = append(w.buf, lb[:]...)
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Bytes returns the accumulated body.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}
