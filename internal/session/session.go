// Package session owns per-connection state: a stable id, peer address,
// authenticated user id, outbound queue and close lifecycle (spec.md §3,
// §4.3). Grounded on a Lineage session's goroutine-pair I/O model
// (dedicated reader/writer goroutines around channel queues), adapted to
// drop the wire cipher (Argentum's frames are plaintext) and to add the
// two-queue back-pressure policy: when a slow client's bounded outbox is
// full, the incoming non-critical packet (of any kind, not only FX/sound)
// is discarded rather than blocking the broadcaster; packets already
// queued are never evicted. Critical packets (CHARACTER_REMOVE,
// CHANGE_MAP) go out through a separate priority queue.
package session

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pyao-go/server/internal/wire"
	"go.uber.org/zap"
)

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; the packet-per-connection task and the tick
// scheduler both mutate game state through repos/engines, never through
// the Session directly except to send.
type Session struct {
	ID   uint64
	conn net.Conn

	authenticated atomic.Bool
	userID        atomic.Int64
	username      atomic.Value // string

	normalQueue   chan []byte
	priorityQueue chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

// New builds a Session around an already-accepted connection. outSize
// bounds the non-critical outbound queue; the priority queue is small and
// fixed since it only ever carries a handful of in-flight critical packets.
func New(conn net.Conn, id uint64, outSize int, log *zap.Logger) *Session {
	s := &Session{
		ID:            id,
		conn:          conn,
		normalQueue:   make(chan []byte, outSize),
		priorityQueue: make(chan []byte, 16),
		closeCh:       make(chan struct{}),
		log:           log.With(zap.Uint64("session", id)),
	}
	s.username.Store("")
	return s
}

// Start launches the reader and writer goroutines.
func (s *Session) Start(onFrame func(frame []byte)) {
	go s.readLoop(onFrame)
	go s.writeLoop()
}

func (s *Session) Authenticated() bool { return s.authenticated.Load() }

func (s *Session) SetAuthenticated(userID int64, username string) {
	s.userID.Store(userID)
	s.username.Store(username)
	s.authenticated.Store(true)
}

func (s *Session) UserID() int64 { return s.userID.Load() }

func (s *Session) Username() string {
	v, _ := s.username.Load().(string)
	return v
}

func (s *Session) PeerAddr() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

// Send queues an already-built packet body (opcode included) for sending.
// Non-critical sends drop silently when the normal queue is full rather
// than disconnecting the client or blocking the broadcaster that called
// Send; critical sends always succeed by construction (small, drained
// first) or block briefly — callers must reserve `critical` for packets
// whose loss would desync the client (CHARACTER_REMOVE, CHANGE_MAP).
func (s *Session) Send(body []byte, critical bool) {
	if s.closed.Load() {
		return
	}
	if critical {
		select {
		case s.priorityQueue <- body:
		case <-s.closeCh:
		}
		return
	}
	select {
	case s.normalQueue <- body:
	default:
		s.log.Debug("dropping non-critical packet, outbox full", zap.Int("len", len(body)))
	}
}

// Close shuts the session down idempotently.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool { return s.closed.Load() }

// Done returns a channel closed once the session has shut down, letting a
// caller run per-connection cleanup (spatial index removal, disconnect
// logging) without polling IsClosed.
func (s *Session) Done() <-chan struct{} { return s.closeCh }

func (s *Session) readLoop(onFrame func(frame []byte)) {
	defer s.Close()
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}
		frame, err := wire.ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		onFrame(frame)
	}
}

func (s *Session) writeLoop() {
	defer s.Close()
	for {
		select {
		case body := <-s.priorityQueue:
			if !s.flush(body) {
				return
			}
		default:
			select {
			case body := <-s.priorityQueue:
				if !s.flush(body) {
					return
				}
			case body := <-s.normalQueue:
				if !s.flush(body) {
					return
				}
			case <-s.closeCh:
				return
			}
		}
	}
}

func (s *Session) flush(body []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := wire.WriteFrame(s.conn, body); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
