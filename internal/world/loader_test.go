package world

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func twoZoneDocs() []ZoneDocument {
	return []ZoneDocument{
		{
			Zone:      "A",
			StartRoom: "a1",
			Rooms: []RoomDoc{
				{Local: "a1", Title: "Start"},
				{Local: "a2", Title: "Edge", Exits: []ExitDoc{
					{Direction: ids.East, Target: "B:b1"},
				}},
			},
		},
		{
			Zone:      "B",
			StartRoom: "b1",
			Rooms: []RoomDoc{
				{Local: "b1", Title: "Other zone"},
			},
		},
	}
}

func TestLoadMergesRoomsAcrossZones(t *testing.T) {
	w, err := Load(twoZoneDocs(), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, w.Rooms, 3)
	a2 := w.Rooms[ids.NewRoomId("A", "a2")]
	require.Equal(t, ids.NewRoomId("B", "b1"), a2.Exits[ids.East])
}

func TestLoadZoneFilterRecordsRemoteExit(t *testing.T) {
	w, err := Load(twoZoneDocs(), LoadOptions{ZoneFilter: map[string]bool{"A": true}})
	require.NoError(t, err)
	require.Len(t, w.Rooms, 2)
	a2 := w.Rooms[ids.NewRoomId("A", "a2")]
	require.True(t, a2.RemoteExits[ids.East])
	_, stillExits := a2.Exits[ids.East]
	require.False(t, stillExits)
}

func TestLoadIsIdempotent(t *testing.T) {
	w1, err := Load(twoZoneDocs(), LoadOptions{})
	require.NoError(t, err)
	w2, err := Load(twoZoneDocs(), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, w1.Rooms, w2.Rooms)
	require.Equal(t, w1.StartRoom, w2.StartRoom)
}

func TestLoadRejectsDuplicateRoomId(t *testing.T) {
	docs := []ZoneDocument{
		{Zone: "A", StartRoom: "a1", Rooms: []RoomDoc{{Local: "a1"}}},
		{Zone: "A", StartRoom: "a1", Rooms: []RoomDoc{{Local: "a1"}}},
	}
	_, err := Load(docs, LoadOptions{})
	require.Error(t, err)
}

func TestLoadRejectsDanglingExit(t *testing.T) {
	docs := []ZoneDocument{
		{
			Zone:      "A",
			StartRoom: "a1",
			Rooms: []RoomDoc{
				{Local: "a1", Exits: []ExitDoc{{Direction: ids.North, Target: "nowhere"}}},
			},
		},
	}
	_, err := Load(docs, LoadOptions{})
	require.Error(t, err)
}

func TestLoadRejectsOutOfRangeDropChance(t *testing.T) {
	docs := []ZoneDocument{
		{
			Zone:      "A",
			StartRoom: "a1",
			Rooms:     []RoomDoc{{Local: "a1"}},
			Mobs: []MobDoc{
				{Local: "rat", RoomLocal: "a1", Drops: []DropEntry{{ItemId: "A:dagger", Chance: 1.5}}},
			},
		},
	}
	_, err := Load(docs, LoadOptions{})
	require.Error(t, err)
}

func TestLoadRejectsCombinedRoomAndMobPlacement(t *testing.T) {
	docs := []ZoneDocument{
		{
			Zone:      "A",
			StartRoom: "a1",
			Rooms:     []RoomDoc{{Local: "a1"}},
			Items: []ItemDoc{
				{Local: "dagger", RoomLocal: "a1", HasRoom: true, MobLocal: "rat", HasMob: true},
			},
		},
	}
	_, err := Load(docs, LoadOptions{})
	require.Error(t, err)
}

func TestLoadResolvesMobTierByLevel(t *testing.T) {
	docs := []ZoneDocument{
		{
			Zone:      "A",
			StartRoom: "a1",
			Rooms:     []RoomDoc{{Local: "a1"}},
			Mobs: []MobDoc{
				{Local: "rat", RoomLocal: "a1", Tier: "standard", Level: 3},
			},
		},
	}
	w, err := Load(docs, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, w.MobSpawns, 1)
	tier := DefaultTiers["standard"]
	require.Equal(t, tier.BaseMaxHp+2*tier.PerLevelMaxHp, w.MobSpawns[0].MaxHp)
}
