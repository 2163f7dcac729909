package protocol

import (
	"fmt"

	"github.com/pyao-go/server/internal/apperr"
	"github.com/pyao-go/server/internal/wire"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded packet body for a session. The session
// type is passed as an opaque interface to avoid an import cycle between
// protocol and session; handlers in internal/handler type-assert it to
// *session.Session.
type HandlerFunc func(sess any, r *wire.Reader) error

// authChecker is satisfied by *session.Session without importing it.
type authChecker interface {
	Authenticated() bool
}

type entry struct {
	requiresAuth bool
	fn           HandlerFunc
}

// Registry maps opcode -> (minimum length already known via MinLengthFor,
// handler). It validates the minimum length before calling the handler,
// gates authentication-required opcodes, and recovers panics so one bad
// packet cannot take the connection loop down (spec.md §4.2, §7).
type Registry struct {
	handlers map[byte]entry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{handlers: make(map[byte]entry), log: log}
}

// Register binds opcode to fn. requiresAuth gates packets that must only
// run once the session has completed LOGIN.
func (reg *Registry) Register(opcode byte, requiresAuth bool, fn HandlerFunc) {
	reg.handlers[opcode] = entry{requiresAuth: requiresAuth, fn: fn}
}

// Dispatch validates the frame's minimum length and authentication state,
// then invokes the handler. It never returns an error that should close
// the connection — callers log and keep reading, per spec.md §4.2.
func (reg *Registry) Dispatch(sess any, frame []byte) error {
	if len(frame) == 0 {
		return apperr.ErrTruncated
	}
	opcode := frame[0]

	e, ok := reg.handlers[opcode]
	if !ok {
		reg.log.Warn("unknown packet id", zap.Uint8("opcode", opcode))
		return apperr.ErrUnknownPacket
	}

	if len(frame) < MinLengthFor(opcode) {
		reg.log.Warn("truncated packet",
			zap.Uint8("opcode", opcode),
			zap.Int("got", len(frame)),
			zap.Int("want", MinLengthFor(opcode)),
		)
		return apperr.ErrTruncated
	}

	if e.requiresAuth {
		if ac, ok := sess.(authChecker); ok && !ac.Authenticated() {
			reg.log.Warn("unauthenticated packet rejected", zap.Uint8("opcode", opcode))
			return apperr.ErrUnauthenticated
		}
	}

	r := wire.NewReader(frame[1:])
	return reg.safeCall(e.fn, sess, r, opcode)
}

// safeCall executes a handler with panic recovery.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *wire.Reader, opcode byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Uint8("opcode", opcode),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for opcode %d: %v", opcode, rec)
		}
	}()
	return fn(sess, r)
}
