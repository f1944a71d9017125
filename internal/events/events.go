// Package events defines the InboundEvent and OutboundEvent tagged
// unions that cross the inbound/outbound buses (spec §3, §9). Go has
// no native sum types, so each is a small closed set of structs
// implementing a marker interface, switched on by a Kind.
package events

import "github.com/ambonmud/ambonmud/internal/ids"

// InboundKind discriminates InboundEvent variants.
type InboundKind int

const (
	Connected InboundKind = iota
	Disconnected
	LineReceived
	GmcpReceived
)

// DisconnectReason enumerates why a session went away.
type DisconnectReason int

const (
	ReasonEOF DisconnectReason = iota
	ReasonIO
	ReasonBackpressure
	ReasonTimeout
	ReasonProtocolViolation
	ReasonQuit
	ReasonServerShutdown
)

func (r DisconnectReason) String() string {
	switch r {
	case ReasonEOF:
		return "eof"
	case ReasonIO:
		return "io"
	case ReasonBackpressure:
		return "backpressure"
	case ReasonTimeout:
		return "timeout"
	case ReasonProtocolViolation:
		return "protocol_violation"
	case ReasonQuit:
		return "quit"
	case ReasonServerShutdown:
		return "server_shutdown"
	default:
		return "unknown"
	}
}

// TransportKind distinguishes the originating transport, used when
// rendering prompts (telnet gets ANSI by default; GMCP only flows over
// transports that asked for it).
type TransportKind int

const (
	TransportTelnet TransportKind = iota
	TransportWebSocket
)

// InboundEvent is the tagged union of events a transport pushes onto
// the inbound bus for the engine to drain.
type InboundEvent struct {
	Kind InboundKind
	Sid  ids.SessionId

	// Connected
	Transport   TransportKind
	AnsiEnabled bool

	// Disconnected
	Reason DisconnectReason

	// LineReceived
	Text string

	// GmcpReceived
	Package string
	Payload []byte
}

func NewConnected(sid ids.SessionId, transport TransportKind, ansi bool) InboundEvent {
	return InboundEvent{Kind: Connected, Sid: sid, Transport: transport, AnsiEnabled: ansi}
}

func NewDisconnected(sid ids.SessionId, reason DisconnectReason) InboundEvent {
	return InboundEvent{Kind: Disconnected, Sid: sid, Reason: reason}
}

func NewLineReceived(sid ids.SessionId, text string) InboundEvent {
	return InboundEvent{Kind: LineReceived, Sid: sid, Text: text}
}

func NewGmcpReceived(sid ids.SessionId, pkg string, payload []byte) InboundEvent {
	return InboundEvent{Kind: GmcpReceived, Sid: sid, Package: pkg, Payload: payload}
}

// OutboundKind discriminates OutboundEvent variants.
type OutboundKind int

const (
	SendText OutboundKind = iota
	SendInfo
	SendPrompt
	SendGmcp
	Close
	SessionRedirect
)

// OutboundEvent is the tagged union of events the engine enqueues for
// the outbound router to deliver to a specific session.
type OutboundEvent struct {
	Kind OutboundKind
	Sid  ids.SessionId

	// SendText / SendInfo
	Text string

	// SendGmcp
	Package string
	Payload any

	// Close
	Reason DisconnectReason

	// SessionRedirect
	EngineId string
}

func NewSendText(sid ids.SessionId, text string) OutboundEvent {
	return OutboundEvent{Kind: SendText, Sid: sid, Text: text}
}

func NewSendInfo(sid ids.SessionId, text string) OutboundEvent {
	return OutboundEvent{Kind: SendInfo, Sid: sid, Text: text}
}

func NewSendPrompt(sid ids.SessionId) OutboundEvent {
	return OutboundEvent{Kind: SendPrompt, Sid: sid}
}

func NewSendGmcp(sid ids.SessionId, pkg string, payload any) OutboundEvent {
	return OutboundEvent{Kind: SendGmcp, Sid: sid, Package: pkg, Payload: payload}
}

func NewClose(sid ids.SessionId, reason DisconnectReason) OutboundEvent {
	return OutboundEvent{Kind: Close, Sid: sid, Reason: reason}
}

func NewSessionRedirect(sid ids.SessionId, engineId string) OutboundEvent {
	return OutboundEvent{Kind: SessionRedirect, Sid: sid, EngineId: engineId}
}
