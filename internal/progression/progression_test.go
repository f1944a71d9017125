package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForXpMonotonic(t *testing.T) {
	c := DefaultCurve
	require.Equal(t, 1, c.LevelForXp(0))
	prevLevel := 1
	for xp := 0; xp <= 5000; xp += 50 {
		level := c.LevelForXp(xp)
		require.GreaterOrEqual(t, level, prevLevel)
		prevLevel = level
	}
}

func TestApplyXpReportsLevelUp(t *testing.T) {
	c := DefaultCurve
	r := ApplyXp(c, 0, 1, c.xpForLevel(2)+1)
	require.True(t, r.LeveledUp)
	require.Equal(t, 2, r.NewLevel)
}

func TestApplyXpNoLevelUpWhenBelowThreshold(t *testing.T) {
	c := DefaultCurve
	r := ApplyXp(c, 0, 1, 1)
	require.False(t, r.LeveledUp)
	require.Equal(t, 1, r.NewLevel)
}
