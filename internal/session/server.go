package session

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP connections and hands each one a fresh Session.
// Grounded on a Lineage net.Server's accept-loop shape.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	outSize  int
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewServer(bindAddr string, outSize int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs until Shutdown is called. onAccept receives each new
// Session not yet started; the callback Start()s it with its own frame
// callback, which differs per connection only in that it closes over the
// session itself.
func (s *Server) AcceptLoop(onAccept func(*Session)) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}
		id := s.nextID.Add(1)
		sess := New(conn, id, s.outSize, s.log)
		s.log.Info("client connected", zap.Uint64("session", id), zap.String("peer", sess.PeerAddr()))
		onAccept(sess)
	}
}

func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
