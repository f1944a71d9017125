// Package progression implements the XP curve, level thresholds, and
// reward application named in spec §2's component table.
package progression

import "math"

// Curve maps total XP to level. Reaching level L costs
// BaseXp*(L-1)^Exponent XP more than reaching level L-1; the default
// exponent is 1.5. Config may override it (spec §6 "progression curve").
type Curve struct {
	BaseXp   int
	Exponent float64
}

var DefaultCurve = Curve{BaseXp: 100, Exponent: 1.5}

// xpForLevel returns the cumulative XP required to reach level.
func (c Curve) xpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0.0
	for l := 2; l <= level; l++ {
		total += float64(c.BaseXp) * math.Pow(float64(l-1), c.Exponent)
	}
	return int(total)
}

// LevelForXp returns the level corresponding to xpTotal under c.
func (c Curve) LevelForXp(xpTotal int) int {
	level := 1
	for c.xpForLevel(level+1) <= xpTotal {
		level++
	}
	return level
}

// Reward is the result of crediting XP: the new total, new level, and
// whether a level-up occurred (the caller triggers a persistence save
// and ability re-sync on true, per spec §6/§4.9).
type Reward struct {
	NewXpTotal int
	OldLevel   int
	NewLevel   int
	LeveledUp  bool
}

// ApplyXp credits amount XP and reports whether the player leveled up.
func ApplyXp(c Curve, xpTotal, currentLevel, amount int) Reward {
	newTotal := xpTotal + amount
	newLevel := c.LevelForXp(newTotal)
	return Reward{
		NewXpTotal: newTotal,
		OldLevel:   currentLevel,
		NewLevel:   newLevel,
		LeveledUp:  newLevel > currentLevel,
	}
}
