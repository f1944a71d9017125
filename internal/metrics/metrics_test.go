package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordingAccumulatesCounters(t *testing.T) {
	r := NewRecording()
	r.IncrCounter("sessions.connected", nil, 1)
	r.IncrCounter("sessions.connected", nil, 2)
	require.Equal(t, int64(3), r.Counter("sessions.connected"))
}

func TestRecordingTracksLastGaugeValue(t *testing.T) {
	r := NewRecording()
	r.ObserveGauge("tick.durationMs", nil, 4.2)
	r.ObserveGauge("tick.durationMs", nil, 6.1)
	require.InDelta(t, 6.1, r.Gauge("tick.durationMs"), 0.0001)
}

func TestNopDiscardsSilently(t *testing.T) {
	var s Sink = Nop{}
	s.IncrCounter("x", nil, 1)
	s.ObserveGauge("y", nil, 1.0)
}
