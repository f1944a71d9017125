package combat

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

type zeroSrc struct{}

func (zeroSrc) Intn(n int) int   { return 0 }
func (zeroSrc) Float64() float64 { return 0 }

func TestResolvePlayerAttackRatScenario(t *testing.T) {
	// spec S3: mob hp=5, player dmg=1 (after armor), 5 rounds to kill.
	e := NewEngine(1000, zeroSrc{}, nil)
	player := Combatant{MinDamage: 1, MaxDamage: 1}
	hp := 5
	rounds := 0
	for hp > 0 {
		_, hp = e.ResolvePlayerAttack(player, hp, 0)
		rounds++
	}
	require.Equal(t, 5, rounds)
}

func TestDamageFloorsAtOneRegardlessOfArmor(t *testing.T) {
	e := NewEngine(1000, zeroSrc{}, nil)
	player := Combatant{MinDamage: 1, MaxDamage: 1}
	dmg, _ := e.ResolvePlayerAttack(player, 10, 999)
	require.Equal(t, 1, dmg)
}

func TestEngageAtMostOneTargetPerSession(t *testing.T) {
	e := NewEngine(1000, zeroSrc{}, nil)
	sid := ids.SessionId(1)
	e.Engage(sid, "zone:rat", 0)
	e.Engage(sid, "zone:wolf", 0)

	target, ok := e.Target(sid)
	require.True(t, ok)
	require.Equal(t, ids.MobId("zone:wolf"), target)
}

func TestKillMobRollsDropsAndCreditsKiller(t *testing.T) {
	e := NewEngine(1000, fullBernoulliSrc{}, nil)
	report := e.KillMob("zone:rat", 10, 1, 5, map[ids.ItemId]float64{"zone:tail": 1.0}, 7, true)
	require.Equal(t, 10, report.XpReward)
	require.True(t, report.HasKiller)
	require.Equal(t, ids.SessionId(7), report.Killer)
	require.Len(t, report.Drops, 1)
}

func TestMobAttackRoutesThroughAbsorb(t *testing.T) {
	absorbed := 0
	e := NewEngine(1000, zeroSrc{}, func(sid ids.SessionId, raw int) int {
		absorbed = raw
		return 0
	})
	mob := Combatant{MinDamage: 5, MaxDamage: 5}
	dmg, hp := e.ResolveMobAttack(1, mob, 20, 0)
	require.Equal(t, 0, dmg)
	require.Equal(t, 5, absorbed)
	require.Equal(t, 20, hp)
}

type fullBernoulliSrc struct{}

func (fullBernoulliSrc) Intn(n int) int   { return 0 }
func (fullBernoulliSrc) Float64() float64 { return 0 }
