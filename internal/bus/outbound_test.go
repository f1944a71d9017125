package bus

import (
	"testing"
	"time"

	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestOutboundDispatchDeliversToRegisteredSession(t *testing.T) {
	var closed []ids.SessionId
	ob := NewOutbound(8, 4, 20*time.Millisecond, func(sid ids.SessionId, reason events.DisconnectReason) {
		closed = append(closed, sid)
	})
	q := ob.Register(1)
	stop := make(chan struct{})
	go ob.RunDispatch(stop)
	defer close(stop)

	ob.Enqueue(events.NewSendText(1, "hello"))

	select {
	case ev := <-q.Frames:
		require.Equal(t, "hello", ev.Text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
	require.Empty(t, closed)
}

func TestOutboundDispatchDropsUnregisteredSession(t *testing.T) {
	ob := NewOutbound(8, 4, 20*time.Millisecond, nil)
	stop := make(chan struct{})
	go ob.RunDispatch(stop)
	defer close(stop)

	ob.Enqueue(events.NewSendText(99, "nobody home"))
	time.Sleep(30 * time.Millisecond)
}

func TestOutboundBackpressureClosesSession(t *testing.T) {
	closedCh := make(chan ids.SessionId, 1)
	ob := NewOutbound(8, 1, 5*time.Millisecond, func(sid ids.SessionId, reason events.DisconnectReason) {
		require.Equal(t, events.ReasonBackpressure, reason)
		closedCh <- sid
	})
	q := ob.Register(7)
	stop := make(chan struct{})
	go ob.RunDispatch(stop)
	defer close(stop)

	// Fill the session's queue (capacity 1) without draining it, then
	// push more than the router can deliver within the timeout.
	q.Frames <- events.NewSendText(7, "fills the queue")
	ob.Enqueue(events.NewSendText(7, "should overflow"))

	select {
	case sid := <-closedCh:
		require.Equal(t, ids.SessionId(7), sid)
	case <-time.After(time.Second):
		t.Fatal("expected backpressure close")
	}
}

func TestOutboundSessionRedirectNeverForwarded(t *testing.T) {
	ob := NewOutbound(8, 4, 20*time.Millisecond, nil)
	q := ob.Register(3)
	stop := make(chan struct{})
	go ob.RunDispatch(stop)
	defer close(stop)

	ob.Enqueue(events.NewSessionRedirect(3, "engine-b"))
	ob.Enqueue(events.NewSendText(3, "after redirect"))

	select {
	case ev := <-q.Frames:
		require.Equal(t, events.SendText, ev.Kind)
		require.Equal(t, "after redirect", ev.Text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}
