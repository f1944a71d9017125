// Package mobs implements the live mob registry of spec §3/§2: mobs
// indexed by id and by room, with move/remove/upsert operations. Mob
// death removes the entry atomically (invariant: every live MobState
// has hp > 0).
package mobs

import (
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/world"
)

// Memory is per-mob behavior-tree scratch state (spec §4.6), cleared
// on despawn.
type Memory struct {
	PatrolIndex       int
	CooldownTimestamps map[string]int64
	NextActionAtMs    int64
	InCombatWith      ids.SessionId
	HasCombatTarget   bool
}

// State is a live mob. Invariant: 0 < Hp <= MaxHp while present in the
// registry.
type State struct {
	Id           ids.MobId
	Name         string
	RoomId       ids.RoomId
	Hp, MaxHp    int
	MinDamage    int
	MaxDamage    int
	Armor        int
	XpReward     int
	Dialogue     string
	BehaviorTree string
	Drops        []world.DropEntry
	GoldMin, GoldMax int
	RespawnSeconds   int
	HomeRoomId       ids.RoomId
	Memory       Memory
}

// Registry holds live mobs. Not safe for concurrent use; the engine
// worker is its sole caller.
type Registry struct {
	byId   map[ids.MobId]*State
	byRoom map[ids.RoomId]map[ids.MobId]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byId:   make(map[ids.MobId]*State),
		byRoom: make(map[ids.RoomId]map[ids.MobId]bool),
	}
}

// SpawnFromWorld seeds the registry from every mob spawn in w (boot,
// or a zone reset's fresh mob wave).
func (r *Registry) SpawnFromWorld(w *world.World) {
	for _, ms := range w.MobSpawns {
		r.Spawn(ms)
	}
}

func (r *Registry) Spawn(ms world.MobSpawn) *State {
	st := &State{
		Id: ms.Id, Name: ms.Name, RoomId: ms.RoomId, HomeRoomId: ms.RoomId,
		Hp: ms.MaxHp, MaxHp: ms.MaxHp, MinDamage: ms.MinDamage, MaxDamage: ms.MaxDamage,
		Armor: ms.Armor, XpReward: ms.XpReward, Dialogue: ms.Dialogue, BehaviorTree: ms.BehaviorTree,
		Drops: ms.Drops, GoldMin: ms.GoldMin, GoldMax: ms.GoldMax, RespawnSeconds: ms.RespawnSeconds,
		Memory: Memory{CooldownTimestamps: make(map[string]int64)},
	}
	r.upsertIndex(st)
	return st
}

func (r *Registry) upsertIndex(st *State) {
	r.byId[st.Id] = st
	set, ok := r.byRoom[st.RoomId]
	if !ok {
		set = make(map[ids.MobId]bool)
		r.byRoom[st.RoomId] = set
	}
	set[st.Id] = true
}

func (r *Registry) Get(id ids.MobId) (*State, bool) {
	st, ok := r.byId[id]
	return st, ok
}

// InRoom returns every live mob currently in roomId.
func (r *Registry) InRoom(roomId ids.RoomId) []*State {
	set := r.byRoom[roomId]
	out := make([]*State, 0, len(set))
	for id := range set {
		out = append(out, r.byId[id])
	}
	return out
}

// Move relocates a mob's room index entry.
func (r *Registry) Move(id ids.MobId, to ids.RoomId) {
	st, ok := r.byId[id]
	if !ok {
		return
	}
	if set, ok := r.byRoom[st.RoomId]; ok {
		delete(set, id)
	}
	st.RoomId = to
	r.upsertIndex(st)
}

// Remove deletes a mob from both indexes, e.g. on death or zone
// despawn. Callers must clear any cross-subsystem derived state
// (status effects, combat engagement) via their own
// onMobRemoved-equivalent hooks first.
func (r *Registry) Remove(id ids.MobId) {
	st, ok := r.byId[id]
	if !ok {
		return
	}
	if set, ok := r.byRoom[st.RoomId]; ok {
		delete(set, id)
	}
	delete(r.byId, id)
}

// All returns every live mob; used by zone-lifecycle reset.
func (r *Registry) All() []*State {
	out := make([]*State, 0, len(r.byId))
	for _, st := range r.byId {
		out = append(out, st)
	}
	return out
}

// ResetZone removes every mob whose id belongs to zone and respawns
// the zone's spawn list fresh (spec §4.1 zoneLifecycle.tick).
func (r *Registry) ResetZone(w *world.World, zone string) {
	for _, st := range r.All() {
		if st.Id.Zone() == zone {
			r.Remove(st.Id)
		}
	}
	for _, ms := range w.MobSpawns {
		if ms.Id.Zone() == zone {
			r.Spawn(ms)
		}
	}
}
