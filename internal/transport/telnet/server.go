// Server accepts raw TCP connections and frames them through Decoder,
// pushing InboundEvents onto a shared bus and draining a per-session
// outbound queue — the telnet half of spec §4.4/§1's "legacy telnet
// server", grounded on the teacher's WebSocket readPump/writePump
// split in cmd/server/main.go generalized to a raw net.Conn.
package telnet

import (
	"bufio"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/render"
)

// sessionIdSource is satisfied by *ids.SessionCounter (single-node) and
// *ids.Snowflake (multi-gateway); both are safe for the concurrent,
// one-goroutine-per-connection use this server makes of them.
type sessionIdSource interface {
	Next() ids.SessionId
}

// Options configures the telnet listener.
type Options struct {
	ReadBufferBytes       int
	Limits                Limits
	PromptText            string
	InboundAttemptTimeout time.Duration
	InboundMaxAttempts    int
}

type Server struct {
	opts     Options
	inbound  *bus.Inbound
	outbound *bus.Outbound
	ids      sessionIdSource
	log      *zap.Logger

	vitals func(ids.SessionId) (render.Vitals, bool)
	ansi   func(ids.SessionId) bool
	gmcp   func(ids.SessionId) bool
}

func NewServer(opts Options, inbound *bus.Inbound, outbound *bus.Outbound, gen sessionIdSource, log *zap.Logger,
	vitals func(ids.SessionId) (render.Vitals, bool), ansi func(ids.SessionId) bool, gmcp func(ids.SessionId) bool) *Server {
	return &Server{opts: opts, inbound: inbound, outbound: outbound, ids: gen, log: log, vitals: vitals, ansi: ansi, gmcp: gmcp}
}

// Serve accepts connections on ln until stop is closed.
func (s *Server) Serve(ln net.Listener, stop <-chan struct{}) {
	go func() {
		<-stop
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stop:
				return
			default:
				s.log.Warn("telnet accept error", zap.Error(err))
				continue
			}
		}
		go s.handle(conn)
	}
}

func (s *Server) push(ev events.InboundEvent) bool {
	return s.inbound.TryPush(ev, s.opts.InboundAttemptTimeout, s.opts.InboundMaxAttempts)
}

func (s *Server) handle(conn net.Conn) {
	sid := s.ids.Next()
	queue := s.outbound.Register(sid)
	defer s.outbound.Unregister(sid)
	defer conn.Close()

	done := make(chan struct{})
	go s.writeLoop(conn, sid, queue, done)

	if !s.push(events.NewConnected(sid, events.TransportTelnet, s.ansi(sid))) {
		close(done)
		return
	}

	reader := bufio.NewReaderSize(conn, s.opts.ReadBufferBytes)
	decoder := NewDecoder(s.opts.Limits)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			s.push(events.NewDisconnected(sid, events.ReasonEOF))
			break
		}
		closed := false
		for _, ev := range decoder.Feed(b) {
			switch ev.Kind {
			case EventLine:
				if !s.push(events.NewLineReceived(sid, ev.Line)) {
					s.push(events.NewDisconnected(sid, events.ReasonBackpressure))
					closed = true
				}
			case EventSubnegotiation:
				if ev.Option == GmcpOption {
					s.push(events.NewGmcpReceived(sid, "", ev.Payload))
				}
			case EventProtocolViolation:
				s.push(events.NewDisconnected(sid, events.ReasonProtocolViolation))
				closed = true
			}
			if closed {
				break
			}
		}
		if closed {
			break
		}
	}
	close(done)
}

func (s *Server) writeLoop(conn net.Conn, sid ids.SessionId, queue *bus.SessionQueue, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-queue.Frames:
			if !ok {
				return
			}
			v, _ := s.vitals(sid)
			frame := render.Telnet(ev, s.opts.PromptText, v, s.ansi(sid), s.gmcp(sid))
			if frame.IsClose {
				conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
				conn.Write([]byte("\r\n"))
				return
			}
			if len(frame.Bytes) == 0 {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if _, err := conn.Write(frame.Bytes); err != nil {
				return
			}
		}
	}
}
