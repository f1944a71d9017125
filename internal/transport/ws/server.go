// Package ws implements the WebSocket transport of spec §4.5, grounded
// on the teacher's Client/readPump/writePump split in
// cmd/server/main.go (ping/pong keepalive, read/write deadlines,
// NextWriter batching) generalized to push InboundEvents onto the
// shared bus instead of a hand-rolled auth state machine.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/render"
)

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingPeriod    = 54 * time.Second
)

type sessionIdSource interface {
	Next() ids.SessionId
}

// Options configures the WebSocket listener.
type Options struct {
	ReadBufferBytes       int
	WriteBufferBytes      int
	PromptText            string
	InboundAttemptTimeout time.Duration
	InboundMaxAttempts    int
	// CheckOrigin validates the Origin header on upgrade. Defaults to
	// accepting any origin if nil — callers serving cross-origin game
	// clients must supply their own allow-list.
	CheckOrigin func(*http.Request) bool
}

type Server struct {
	opts     Options
	inbound  *bus.Inbound
	outbound *bus.Outbound
	ids      sessionIdSource
	log      *zap.Logger
	upgrader websocket.Upgrader

	vitals func(ids.SessionId) (render.Vitals, bool)
	gmcp   func(ids.SessionId) bool
}

func NewServer(opts Options, inbound *bus.Inbound, outbound *bus.Outbound, gen sessionIdSource, log *zap.Logger,
	vitals func(ids.SessionId) (render.Vitals, bool), gmcp func(ids.SessionId) bool) *Server {
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		opts:     opts,
		inbound:  inbound,
		outbound: outbound,
		ids:      gen,
		log:      log,
		vitals:   vitals,
		gmcp:     gmcp,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferBytes,
			WriteBufferSize: opts.WriteBufferBytes,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Handler returns the http.HandlerFunc to mount at the WebSocket route.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) push(ev events.InboundEvent) bool {
	return s.inbound.TryPush(ev, s.opts.InboundAttemptTimeout, s.opts.InboundMaxAttempts)
}

func (s *Server) handle(conn *websocket.Conn) {
	sid := s.ids.Next()
	queue := s.outbound.Register(sid)
	defer s.outbound.Unregister(sid)
	defer conn.Close()

	done := make(chan struct{})
	go s.writeLoop(conn, sid, queue, done)

	if !s.push(events.NewConnected(sid, events.TransportWebSocket, false)) {
		close(done)
		return
	}

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.push(events.NewDisconnected(sid, classifyReadError(err)))
			break
		}
		if !s.push(events.NewLineReceived(sid, string(message))) {
			s.push(events.NewDisconnected(sid, events.ReasonBackpressure))
			break
		}
	}
	close(done)
}

func classifyReadError(err error) events.DisconnectReason {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		return events.ReasonIO
	}
	return events.ReasonEOF
}

func (s *Server) writeLoop(conn *websocket.Conn, sid ids.SessionId, queue *bus.SessionQueue, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-queue.Frames:
			if !ok {
				return
			}
			v, _ := s.vitals(sid)
			frame := render.WebSocket(ev, s.opts.PromptText, v, false)
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if frame.IsClose {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if len(frame.Bytes) == 0 {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame.Bytes); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
