package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIdZoneLocal(t *testing.T) {
	r := NewRoomId("zone", "plaza")
	assert.True(t, r.Valid())
	assert.Equal(t, "zone", r.Zone())
	assert.Equal(t, "plaza", r.Local())
	assert.Equal(t, RoomId("zone:plaza"), r)
}

func TestRoomIdAlreadyQualified(t *testing.T) {
	r := NewRoomId("zone", "other:room")
	assert.Equal(t, RoomId("other:room"), r)
}

func TestRoomIdInvalid(t *testing.T) {
	assert.False(t, RoomId("noColon").Valid())
	assert.False(t, RoomId(":missingZone").Valid())
	assert.False(t, RoomId("missingLocal:").Valid())
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"north": North, "N": North, "n": North,
		"south": South, "s": South,
		"up": Up, "u": Up,
		"down": Down, "d": Down,
	}
	for in, want := range cases {
		got, ok := ParseDirection(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, Down, Up.Opposite())
}

func TestSessionCounterMonotonic(t *testing.T) {
	var c SessionCounter
	a := c.Next()
	b := c.Next()
	assert.Less(t, a, b)
}

func TestSnowflakeUniquenessWithinSecond(t *testing.T) {
	sec := uint32(1000)
	sf := NewSnowflake(7, func() uint32 { return sec })
	seen := make(map[SessionId]bool)
	for i := 0; i < 1000; i++ {
		id := sf.Next()
		require.False(t, seen[id], "duplicate id at i=%d", i)
		seen[id] = true
		assert.Equal(t, uint16(7), GatewayOf(id))
	}
}

func TestSnowflakeMonotonicFloorOnClockRollback(t *testing.T) {
	sec := uint32(1000)
	sf := NewSnowflake(1, func() uint32 { return sec })
	first := sf.Next()
	sec = 500 // clock rolled back
	second := sf.Next()
	assert.GreaterOrEqual(t, second, first)
}
