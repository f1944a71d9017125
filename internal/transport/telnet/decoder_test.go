package telnet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(d *Decoder, data []byte) []Event {
	var out []Event
	for _, b := range data {
		out = append(out, d.Feed(b)...)
	}
	return out
}

func TestDecodesSimpleLine(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	events := feedAll(d, []byte("look\r\n"))
	require.Len(t, events, 1)
	require.Equal(t, EventLine, events[0].Kind)
	require.Equal(t, "look", events[0].Line)
}

func TestLiteralIacEscapeRoundTrips(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	// 0xFF 0xFF decodes to one literal 0xFF byte appended to the line.
	events := feedAll(d, []byte{'a', Iac, Iac, 'b', '\n'})
	require.Len(t, events, 1)
	require.Equal(t, "a\xffb", events[0].Line)
}

func TestNegotiationEmitsEvent(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	events := feedAll(d, []byte{Iac, Will, 24})
	require.Len(t, events, 1)
	require.Equal(t, EventNegotiation, events[0].Kind)
	require.Equal(t, Will, events[0].Command)
	require.Equal(t, byte(24), events[0].Option)
}

func TestSubnegotiationCapturesGmcpPayload(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	payload := []byte(`Char.Vitals {"hp":10}`)
	data := append([]byte{Iac, Sb, GmcpOption}, payload...)
	data = append(data, Iac, Se)
	events := feedAll(d, data)
	require.Len(t, events, 1)
	require.Equal(t, EventSubnegotiation, events[0].Kind)
	require.Equal(t, GmcpOption, events[0].Option)
	require.Equal(t, payload, events[0].Payload)
}

func TestSubnegotiationAbandonsOnUnexpectedByteAfterIac(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	data := []byte{Iac, Sb, GmcpOption, 'x', Iac, 'q'}
	events := feedAll(d, data)
	require.Empty(t, events)
	// decoder should be back in DATA state and able to decode a line
	more := feedAll(d, []byte("ok\n"))
	require.Len(t, more, 1)
	require.Equal(t, "ok", more[0].Line)
}

func TestLineTooLongTriggersProtocolViolation(t *testing.T) {
	d := NewDecoder(Limits{MaxLineLen: 4, MaxNonPrintablePerLine: 32, MaxSubnegotiationLen: 4096})
	events := feedAll(d, []byte("abcdef\n"))
	require.NotEmpty(t, events)
	require.Equal(t, EventProtocolViolation, events[len(events)-1].Kind)
}

func TestTooManyNonPrintableTriggersProtocolViolation(t *testing.T) {
	d := NewDecoder(Limits{MaxLineLen: 1024, MaxNonPrintablePerLine: 1, MaxSubnegotiationLen: 4096})
	events := feedAll(d, []byte{0x01, 0x02, 0x03})
	require.NotEmpty(t, events)
	require.Equal(t, EventProtocolViolation, events[len(events)-1].Kind)
}

func TestNeverPanicsOnArbitraryBytes(t *testing.T) {
	d := NewDecoder(DefaultLimits)
	require.NotPanics(t, func() {
		for i := 0; i < 256; i++ {
			d.Feed(byte(i))
		}
	})
}

func TestResetClearsViolationState(t *testing.T) {
	d := NewDecoder(Limits{MaxLineLen: 2, MaxNonPrintablePerLine: 32, MaxSubnegotiationLen: 4096})
	feedAll(d, []byte("abc"))
	d.Reset()
	events := feedAll(d, []byte("ok\n"))
	require.Len(t, events, 1)
	require.Equal(t, "ok", events[0].Line)
}
