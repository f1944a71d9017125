package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/render"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *bus.Inbound, *bus.Outbound, *httptest.Server) {
	t.Helper()
	inbound := bus.NewInbound(16)
	outbound := bus.NewOutbound(16, 8, 50*time.Millisecond, nil)
	stop := make(chan struct{})
	go outbound.RunDispatch(stop)
	t.Cleanup(func() { close(stop) })

	opts := Options{
		ReadBufferBytes:       1024,
		WriteBufferBytes:      1024,
		PromptText:            "> ",
		InboundAttemptTimeout: 10 * time.Millisecond,
		InboundMaxAttempts:    3,
	}
	counter := &ids.SessionCounter{}
	srv := NewServer(opts, inbound, outbound, counter, zap.NewNop(),
		func(ids.SessionId) (render.Vitals, bool) { return render.Vitals{Hp: 10, MaxHp: 10}, true },
		func(ids.SessionId) bool { return false },
	)

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return srv, inbound, outbound, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func mustDrainOne(t *testing.T, inbound *bus.Inbound) events.InboundEvent {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		var found *events.InboundEvent
		inbound.Drain(5*time.Millisecond, func(ev events.InboundEvent) {
			if found == nil {
				f := ev
				found = &f
			}
		})
		if found != nil {
			return *found
		}
	}
	t.Fatal("timed out waiting for inbound event")
	return events.InboundEvent{}
}

func TestHandleEmitsConnectedThenLine(t *testing.T) {
	_, inbound, _, ts := newTestServer(t)
	conn := dial(t, ts)
	defer conn.Close()

	ev := mustDrainOne(t, inbound)
	require.Equal(t, events.Connected, ev.Kind)
	require.Equal(t, events.TransportWebSocket, ev.Transport)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("look")))
	ev = mustDrainOne(t, inbound)
	require.Equal(t, events.LineReceived, ev.Kind)
	require.Equal(t, "look", ev.Text)
}

func TestWriteLoopDeliversRenderedFrame(t *testing.T) {
	_, inbound, outbound, ts := newTestServer(t)
	conn := dial(t, ts)
	defer conn.Close()

	connectedEv := mustDrainOne(t, inbound)
	outbound.Enqueue(events.NewSendText(connectedEv.Sid, "hello"))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "hello", string(msg))
}

func TestHandleEmitsDisconnectOnClose(t *testing.T) {
	_, inbound, _, ts := newTestServer(t)
	conn := dial(t, ts)

	mustDrainOne(t, inbound) // connected
	conn.Close()

	ev := mustDrainOne(t, inbound)
	require.Equal(t, events.Disconnected, ev.Kind)
}
