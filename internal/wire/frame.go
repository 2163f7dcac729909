package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameLen bounds a single frame's body to keep a malicious client from
// forcing an unbounded allocation via a bogus string-length field.
const MaxFrameLen = 65535

// Client opcodes whose body shape ReadFrame needs to know in order to find
// the frame boundary. Duplicated from internal/protocol/opcodes.go rather
// than imported: protocol already imports wire, so the reverse import would
// cycle. These are the spec's client -> server ids (spec.md §6).
const (
	opThrowDices    byte = 1
	opLogin         byte = 2
	opDoubleClick   byte = 3
	opCreateAccount byte = 4
	opTalk          byte = 5
	opWalk          byte = 6
	opCommerceEnd   byte = 17
	opDrop          byte = 15
	opEquipItem     byte = 19
	opBankEnd       byte = 21
	opPing          byte = 22
	opAyuda         byte = 23
	opUptime        byte = 27
	opOnline        byte = 28
	opQuit          byte = 29
	opMeditate      byte = 30
	opPickUp        byte = 32
	opAttack        byte = 34
	opChangeHeading byte = 37
	opCastSpell     byte = 39
	opLeftClick     byte = 26
)

// fieldReader consumes exactly one body field from r and returns its raw
// wire bytes (a length-prefixed string field includes its own 2-byte
// prefix in the returned slice).
type fieldReader func(io.Reader) ([]byte, error)

func fixedField(n int) fieldReader {
	return func(r io.Reader) ([]byte, error) { return readExact(r, n) }
}

// stringField reads a 2-byte little-endian length followed by that many
// bytes, matching Reader.ReadString's own framing for a string field.
func stringField(r io.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read string field length: %w", err)
	}
	n := binary.LittleEndian.Uint16(lenBuf[:])
	if int(n) > MaxFrameLen {
		return nil, fmt.Errorf("string field too large: %d", n)
	}
	payload, err := readExact(r, int(n))
	if err != nil {
		return nil, fmt.Errorf("read string field payload (%d bytes): %w", n, err)
	}
	return append(lenBuf[:], payload...), nil
}

func readExact(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// clientBody names, per opcode, the ordered fields that make up its body.
// These follow each handler's actual r.Read* sequence in internal/handler
// rather than spec.md §6's body-shape table literally: the table is a
// non-exhaustive example (its own wording), and at least DOUBLE_CLICK,
// DROP, LEFT_CLICK and CAST_SPELL read wider fields than its text shows
// (e.g. DROP reads itemID:i16+quantity:i16, not slot:u8+quantity:u16).
var clientBody = map[byte][]fieldReader{
	opThrowDices:    {},
	opLogin:         {stringField, stringField},
	opDoubleClick:   {fixedField(2), fixedField(2)}, // x:i16, y:i16
	opCreateAccount: {stringField, stringField, fixedField(1), fixedField(2), fixedField(1), fixedField(1), fixedField(1), fixedField(2), stringField, fixedField(1)},
	opTalk:          {stringField},
	opWalk:          {fixedField(1)},
	opDrop:          {fixedField(2), fixedField(2)}, // itemID:i16, quantity:i16
	opEquipItem:     {fixedField(1)},
	opCommerceEnd:   {},
	opBankEnd:       {},
	opOnline:        {},
	opUptime:        {},
	opAyuda:         {},
	opMeditate:      {},
	opPickUp:        {},
	opAttack:        {},
	opChangeHeading: {fixedField(1)},
	opCastSpell:     {fixedField(4), fixedField(2), fixedField(2)}, // spellID:i32, targetX:i16, targetY:i16
	opLeftClick:     {fixedField(2), fixedField(2)},                // x:i16, y:i16
	opPing:          {},
	opQuit:          {},
}

// ReadFrame reads one client frame from r: a single opcode byte followed by
// a packet-specific body, with no outer length prefix (spec.md §6 — framing
// is opcode-shape-driven, not client-supplied). An opcode the table above
// doesn't know about is handed back bare so the registry's own "unknown
// packet id" handling can log and keep the connection alive; guessing at a
// body length for it would desync the stream for every frame after it.
func ReadFrame(r io.Reader) ([]byte, error) {
	var opcodeBuf [1]byte
	if _, err := io.ReadFull(r, opcodeBuf[:]); err != nil {
		return nil, fmt.Errorf("read frame opcode: %w", err)
	}
	opcode := opcodeBuf[0]

	fields, ok := clientBody[opcode]
	if !ok {
		return opcodeBuf[:], nil
	}

	frame := make([]byte, 1, 1)
	frame[0] = opcode
	for _, field := range fields {
		b, err := field(r)
		if err != nil {
			return nil, fmt.Errorf("read frame body (opcode %d): %w", opcode, err)
		}
		frame = append(frame, b...)
	}
	return frame, nil
}

// WriteFrame writes one frame to w: the opcode and body bytes already built
// by the caller (see internal/sender), as-is and with no outer length
// prefix — symmetric with ReadFrame, since spec.md §6 frames only ever
// carry packetId+body in either direction.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameLen {
		return fmt.Errorf("frame too large: %d bytes", len(payload))
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
