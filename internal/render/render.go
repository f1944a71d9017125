// Package render turns an events.OutboundEvent into the actual bytes a
// transport writes to its connection: CRLF-terminated text lines for
// telnet, one plain text frame per line for WebSocket, and the
// `{"gmcp":"<Package>","data":<value>}` envelope for GMCP packets
// (spec §6's wire contracts).
package render

import (
	"encoding/json"
	"fmt"

	"github.com/ambonmud/ambonmud/internal/events"
)

// Vitals supplies the fields interpolated into a rendered prompt.
type Vitals struct {
	Hp, MaxHp     int
	Mana, MaxMana int
}

// Frame is a renderer-produced payload plus whether it should close
// the connection after being written (Close events render to nothing
// but are surfaced to the caller as a sentinel frame with IsClose set).
type Frame struct {
	Bytes   []byte
	IsClose bool
	Reason  events.DisconnectReason
}

type gmcpEnvelope struct {
	Gmcp string `json:"gmcp"`
	Data any    `json:"data"`
}

// Telnet renders ev for a telnet session given the prompt template and
// current vitals. Telnet has no structured sideband for GMCP unless
// the session negotiated option 201; ansiEnabled controls whether the
// prompt is colorized.
func Telnet(ev events.OutboundEvent, promptText string, vitals Vitals, ansiEnabled, gmcpNegotiated bool) Frame {
	switch ev.Kind {
	case events.SendText, events.SendInfo:
		return Frame{Bytes: []byte(ev.Text + "\r\n")}
	case events.SendPrompt:
		return Frame{Bytes: []byte(renderPrompt(promptText, vitals, ansiEnabled))}
	case events.SendGmcp:
		if !gmcpNegotiated {
			return Frame{}
		}
		return Frame{Bytes: gmcpSubnegotiation(ev.Package, ev.Payload)}
	case events.Close:
		return Frame{IsClose: true, Reason: ev.Reason}
	default:
		return Frame{}
	}
}

// WebSocket renders ev as a single text frame payload. Per spec §6,
// one text line or one GMCP packet per outbound frame.
func WebSocket(ev events.OutboundEvent, promptText string, vitals Vitals, ansiEnabled bool) Frame {
	switch ev.Kind {
	case events.SendText, events.SendInfo:
		return Frame{Bytes: []byte(ev.Text)}
	case events.SendPrompt:
		return Frame{Bytes: []byte(renderPrompt(promptText, vitals, ansiEnabled))}
	case events.SendGmcp:
		payload, err := json.Marshal(gmcpEnvelope{Gmcp: ev.Package, Data: ev.Payload})
		if err != nil {
			return Frame{}
		}
		return Frame{Bytes: payload}
	case events.Close:
		return Frame{IsClose: true, Reason: ev.Reason}
	default:
		return Frame{}
	}
}

func renderPrompt(promptText string, v Vitals, ansiEnabled bool) string {
	body := fmt.Sprintf("%s[%d/%dhp %d/%dmp]", promptText, v.Hp, v.MaxHp, v.Mana, v.MaxMana)
	if !ansiEnabled {
		return body
	}
	color := "\x1b[32m" // green
	if v.MaxHp > 0 && v.Hp*100/v.MaxHp < 30 {
		color = "\x1b[31m" // red, low hp
	}
	return color + body + "\x1b[0m"
}

const (
	iac = 255
	sb  = 250
	se  = 240
	// gmcpOption is telnet option 201, per spec §6.
	gmcpOption = 201
)

// gmcpSubnegotiation wraps a GMCP package/payload into a telnet
// IAC SB <opt> ... IAC SE subnegotiation carrying UTF-8 JSON, per
// spec §4.4/§6.
func gmcpSubnegotiation(pkg string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	body := fmt.Sprintf("%s %s", pkg, string(data))
	out := []byte{iac, sb, gmcpOption}
	out = append(out, []byte(body)...)
	out = append(out, iac, se)
	return out
}
