// Package apperr defines the sentinel error kinds handlers and engines
// classify failures into. Handlers convert these to console/error packets;
// the tick scheduler and packet router count and log them instead of
// unwinding.
package apperr

import "errors"

var (
	// ErrTruncated means a frame had fewer bytes than the field being read.
	ErrTruncated = errors.New("truncated frame")
	// ErrUnknownPacket means no handler is registered for the opcode.
	ErrUnknownPacket = errors.New("unknown packet id")
	// ErrUnauthenticated means the packet requires a logged-in session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidInput means an argument was out of its valid range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound means a referenced user/NPC/item/spell id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientResource means mana/gold/stamina/slot was not enough.
	ErrInsufficientResource = errors.New("insufficient resource")
	// ErrOutOfRange means a target was too far or off-map.
	ErrOutOfRange = errors.New("out of range")
	// ErrStorage means the repository returned a failure.
	ErrStorage = errors.New("storage error")
	// ErrShuttingDown means the server is stopping.
	ErrShuttingDown = errors.New("server shutting down")
)
