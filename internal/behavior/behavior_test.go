package behavior

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func testEnv(mob ids.MobId, mem *Memory, inCombat bool, hasPlayer bool) *Env {
	return &Env{
		Mob: mob, Memory: mem,
		IsInCombat: func(ids.MobId) bool { return inCombat },
		HpPercent:  func(ids.MobId) float64 { return 1.0 },
		PlayerInRoom: func(ids.MobId) (ids.SessionId, bool) {
			if hasPlayer {
				return ids.SessionId(1), true
			}
			return 0, false
		},
		Aggro: func(ids.MobId, ids.SessionId) {},
		Wander: func(ids.MobId) {},
	}
}

func TestSelectorReturnsFirstNonFailure(t *testing.T) {
	sel := &Selector{Children: []Node{FailingNode{}, StationaryAction{}}}
	env := testEnv("zone:rat", &Memory{}, false, false)
	require.Equal(t, Success, sel.Tick(env))
}

func TestSequenceStopsOnFirstNonSuccess(t *testing.T) {
	calls := 0
	seq := &Sequence{Children: []Node{countingSuccess(&calls), FailingNode{}, countingSuccess(&calls)}}
	env := testEnv("zone:rat", &Memory{}, false, false)
	require.Equal(t, Failure, seq.Tick(env))
	require.Equal(t, 1, calls)
}

func TestCooldownBlocksWithinInterval(t *testing.T) {
	mem := &Memory{}
	cd := &Cooldown{Key: "bite", Ms: 1000, Child: StationaryAction{}}
	env := testEnv("zone:rat", mem, false, false)
	env.NowMs = 0
	require.Equal(t, Success, cd.Tick(env))
	env.NowMs = 500
	require.Equal(t, Failure, cd.Tick(env))
	env.NowMs = 1000
	require.Equal(t, Success, cd.Tick(env))
}

func TestAggroAggroGuardTemplate(t *testing.T) {
	tpl := Templates()["aggro_guard"]()
	env := testEnv("zone:rat", &Memory{}, false, true)
	require.Equal(t, Success, tpl.Tick(env))
}

func TestDriverRespectsMaxActionsPerTick(t *testing.T) {
	d := NewDriver(0, 0, func() int64 { return 0 })
	d.Register("zone:rat1", "wander", 0)
	d.Register("zone:rat2", "wander", 0)

	ticked := 0
	d.Tick([]ids.MobId{"zone:rat1", "zone:rat2"}, 100, 1,
		func(ids.MobId) bool { return false },
		func(mob ids.MobId, mem *Memory) *Env {
			ticked++
			return testEnv(mob, mem, false, false)
		})
	require.Equal(t, 1, ticked)
}

func TestDespawnClearsState(t *testing.T) {
	d := NewDriver(0, 0, func() int64 { return 0 })
	d.Register("zone:rat", "wander", 0)
	d.Despawn("zone:rat")
	require.NotContains(t, d.trees, ids.MobId("zone:rat"))
}

type FailingNode struct{}

func (FailingNode) Tick(*Env) Status { return Failure }

type countingSuccessNode struct{ counter *int }

func (n countingSuccessNode) Tick(*Env) Status {
	*n.counter++
	return Success
}

func countingSuccess(counter *int) Node { return countingSuccessNode{counter: counter} }
