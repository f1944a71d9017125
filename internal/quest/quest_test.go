package quest

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func fixedLevel(l int) func(ids.SessionId) int { return func(ids.SessionId) int { return l } }
func fixedRoom(r ids.RoomId) func(ids.SessionId) ids.RoomId {
	return func(ids.SessionId) ids.RoomId { return r }
}

func TestAcceptRejectsBelowLevel(t *testing.T) {
	defs := map[string]Definition{"q1": {Id: "q1", RequiredLevel: 5}}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(ids.MobId) (ids.RoomId, bool) { return "", false })
	require.Equal(t, AcceptLevelTooLow, e.Accept(1, "q1", 0))
}

func TestAcceptRequiresGiverInRoom(t *testing.T) {
	defs := map[string]Definition{"q1": {Id: "q1", HasGiver: true, GiverMobId: "zone:guard"}}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(m ids.MobId) (ids.RoomId, bool) { return "zone:2", true })
	require.Equal(t, AcceptGiverNotInRoom, e.Accept(1, "q1", 0))

	e2 := NewEngine(defs, fixedLevel(1), fixedRoom("zone:2"), func(m ids.MobId) (ids.RoomId, bool) { return "zone:2", true })
	require.Equal(t, AcceptOk, e2.Accept(1, "q1", 0))
}

func TestKillCountObjectiveTracksAndTurnsIn(t *testing.T) {
	defs := map[string]Definition{
		"ratslayer": {Id: "ratslayer", Objective: Objective{Kind: ObjectiveKillCount, MobId: "zone:rat", Count: 3}},
	}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(ids.MobId) (ids.RoomId, bool) { return "", false })
	require.Equal(t, AcceptOk, e.Accept(1, "ratslayer", 0))

	_, res := e.TurnIn(1, "ratslayer")
	require.Equal(t, TurnInObjectiveIncomplete, res)

	e.OnMobKilled(1, "zone:rat")
	e.OnMobKilled(1, "zone:rat")
	_, res = e.TurnIn(1, "ratslayer")
	require.Equal(t, TurnInObjectiveIncomplete, res)

	e.OnMobKilled(1, "zone:rat")
	def, res := e.TurnIn(1, "ratslayer")
	require.Equal(t, TurnInOk, res)
	require.Equal(t, "ratslayer", def.Id)
	require.True(t, e.IsCompleted(1, "ratslayer"))
	require.False(t, e.IsActive(1, "ratslayer"))
}

func TestCollectItemObjective(t *testing.T) {
	defs := map[string]Definition{
		"herbs": {Id: "herbs", Objective: Objective{Kind: ObjectiveCollectItem, ItemId: "zone:herb", Count: 2}},
	}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(ids.MobId) (ids.RoomId, bool) { return "", false })
	e.Accept(1, "herbs", 0)
	e.OnItemAcquired(1, "zone:herb")
	_, res := e.TurnIn(1, "herbs")
	require.Equal(t, TurnInObjectiveIncomplete, res)
	e.OnItemAcquired(1, "zone:herb")
	_, res = e.TurnIn(1, "herbs")
	require.Equal(t, TurnInOk, res)
}

func TestTalkToObjective(t *testing.T) {
	defs := map[string]Definition{
		"findsage": {Id: "findsage", Objective: Objective{Kind: ObjectiveTalkTo, MobId: "zone:sage"}},
	}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(ids.MobId) (ids.RoomId, bool) { return "", false })
	e.Accept(1, "findsage", 0)
	_, res := e.TurnIn(1, "findsage")
	require.Equal(t, TurnInObjectiveIncomplete, res)
	e.OnTalkedTo(1, "zone:sage")
	_, res = e.TurnIn(1, "findsage")
	require.Equal(t, TurnInOk, res)
}

func TestAcceptRejectsAlreadyActiveOrCompleted(t *testing.T) {
	defs := map[string]Definition{
		"once": {Id: "once", Objective: Objective{Kind: ObjectiveTalkTo, MobId: "zone:sage"}},
	}
	e := NewEngine(defs, fixedLevel(1), fixedRoom("zone:1"), func(ids.MobId) (ids.RoomId, bool) { return "", false })
	require.Equal(t, AcceptOk, e.Accept(1, "once", 0))
	require.Equal(t, AcceptAlreadyActive, e.Accept(1, "once", 0))
	e.OnTalkedTo(1, "zone:sage")
	e.TurnIn(1, "once")
	require.Equal(t, AcceptAlreadyCompleted, e.Accept(1, "once", 0))
}
