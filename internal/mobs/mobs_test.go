package mobs

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/world"
	"github.com/stretchr/testify/require"
)

func rat() world.MobSpawn {
	return world.MobSpawn{Id: "zone:rat", Name: "a rat", RoomId: ids.NewRoomId("zone", "a1"), MaxHp: 5, MinDamage: 1, MaxDamage: 1, XpReward: 10}
}

func TestSpawnIndexesByIdAndRoom(t *testing.T) {
	r := NewRegistry()
	r.Spawn(rat())

	st, ok := r.Get("zone:rat")
	require.True(t, ok)
	require.Equal(t, 5, st.Hp)

	inRoom := r.InRoom(ids.NewRoomId("zone", "a1"))
	require.Len(t, inRoom, 1)
	require.Equal(t, ids.MobId("zone:rat"), inRoom[0].Id)
}

func TestMoveUpdatesRoomIndex(t *testing.T) {
	r := NewRegistry()
	r.Spawn(rat())
	dst := ids.NewRoomId("zone", "a2")
	r.Move("zone:rat", dst)

	require.Empty(t, r.InRoom(ids.NewRoomId("zone", "a1")))
	require.Len(t, r.InRoom(dst), 1)
}

func TestRemoveDeletesFromBothIndexes(t *testing.T) {
	r := NewRegistry()
	r.Spawn(rat())
	r.Remove("zone:rat")

	_, ok := r.Get("zone:rat")
	require.False(t, ok)
	require.Empty(t, r.InRoom(ids.NewRoomId("zone", "a1")))
}

func TestResetZoneRespawnsFresh(t *testing.T) {
	r := NewRegistry()
	w := &world.World{MobSpawns: []world.MobSpawn{rat()}}
	r.SpawnFromWorld(w)

	st, _ := r.Get("zone:rat")
	st.Hp = 1 // simulate damage taken before reset

	r.ResetZone(w, "zone")
	st, ok := r.Get("zone:rat")
	require.True(t, ok)
	require.Equal(t, 5, st.Hp)
}
