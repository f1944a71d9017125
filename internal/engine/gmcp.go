package engine

import (
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/ambonmud/ambonmud/internal/world"
)

// gmcpVitals builds the Char.Vitals payload (spec §6), sent after any
// command that changes hp/mana/gold/xp.
func gmcpVitals(st *player.State) any {
	return map[string]any{
		"hp": st.Hp, "maxhp": st.MaxHp,
		"mp": st.Mana, "maxmp": st.MaxMana,
		"gold": st.Gold, "xp": st.XpTotal, "level": st.Level,
	}
}

// gmcpRoomInfo builds the Room.Info payload sent on look/move (spec
// §6), exits keyed by direction name so the client doesn't need to
// know Direction's ordinal encoding.
func gmcpRoomInfo(room world.Room) any {
	exits := make(map[string]string, len(room.Exits))
	for dir, to := range room.Exits {
		exits[dir.String()] = to.String()
	}
	return map[string]any{
		"id":    room.Id.String(),
		"name":  room.Title,
		"exits": exits,
	}
}

// gmcpCharName builds the Char.Name payload sent once on login (spec
// §6/§8 scenario S1).
func gmcpCharName(st *player.State) any {
	return map[string]any{
		"name":  st.Name,
		"class": string(st.Class),
		"race":  string(st.Race),
		"level": st.Level,
	}
}

// gmcpRoomPlayer builds the Room.AddPlayer/Room.RemovePlayer payload
// sent to everyone else in a room when a player moves (spec §6/§8
// scenario S2).
func gmcpRoomPlayer(st *player.State) any {
	return map[string]any{"name": st.Name}
}
