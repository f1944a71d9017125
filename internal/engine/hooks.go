package engine

import (
	"strconv"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/rng"
	"github.com/ambonmud/ambonmud/internal/status"
)

// hpSinkAdapter satisfies status.HpSink by dispatching to whichever of
// the player/mob registries a Target names, so the status package
// never imports either.
type hpSinkAdapter struct{ e *Engine }

func (a hpSinkAdapter) Hp(t status.Target) (current, max int, ok bool) {
	if t.IsPlayer {
		st, found := a.e.players.Get(t.SessionId)
		if !found {
			return 0, 0, false
		}
		return st.Hp, st.MaxHp, true
	}
	st, found := a.e.mobReg.Get(t.MobId)
	if !found {
		return 0, 0, false
	}
	return st.Hp, st.MaxHp, true
}

func (a hpSinkAdapter) SetHp(t status.Target, hp int) {
	if t.IsPlayer {
		if st, ok := a.e.players.Get(t.SessionId); ok {
			st.Hp = hp
		}
		return
	}
	if st, ok := a.e.mobReg.Get(t.MobId); ok {
		st.Hp = hp
	}
}

// questStateAdapter satisfies dialogue.QuestState.
type questStateAdapter struct{ e *Engine }

func (a questStateAdapter) IsActive(sid ids.SessionId, questId string) bool {
	return a.e.quests.IsActive(sid, questId)
}

func (a questStateAdapter) IsCompleted(sid ids.SessionId, questId string) bool {
	return a.e.quests.IsCompleted(sid, questId)
}

func (e *Engine) absorbDamage(sid ids.SessionId, raw int) int {
	return e.statusE.AbsorbPlayerDamage(status.PlayerTarget(sid), raw)
}

func (e *Engine) rollBehaviorDelay() int64 {
	return int64(rng.IntRange(e.rng, 3000, 8000))
}

func (e *Engine) questLevel(sid ids.SessionId) int {
	if st, ok := e.players.Get(sid); ok {
		return st.Level
	}
	return 0
}

func (e *Engine) questRoomOf(sid ids.SessionId) ids.RoomId {
	if st, ok := e.players.Get(sid); ok {
		return st.RoomId
	}
	return ""
}

func (e *Engine) questMobRoom(mobId ids.MobId) (ids.RoomId, bool) {
	st, ok := e.mobReg.Get(mobId)
	if !ok {
		return "", false
	}
	return st.RoomId, true
}

func (e *Engine) shopValueLookup(itemId ids.ItemId) (int, bool) {
	tmpl, ok := e.itemTemplates[itemId]
	if !ok {
		return 0, false
	}
	return tmpl.BasePrice, true
}

func (e *Engine) playerClass(sid ids.SessionId) string {
	if st, ok := e.players.Get(sid); ok {
		return string(st.Class)
	}
	return ""
}

func (e *Engine) onStatusFade(t status.Target, def status.Definition) {
	if t.IsPlayer {
		e.send(t.SessionId, def.DisplayName+" fades.")
	}
}

func (e *Engine) onStatusTick(t status.Target, def status.Definition, amount int) {
	if !t.IsPlayer {
		return
	}
	if def.Type == status.DOT {
		e.send(t.SessionId, def.DisplayName+" burns you for "+strconv.Itoa(amount)+".")
	} else if def.Type == status.HOT {
		e.send(t.SessionId, def.DisplayName+" heals you for "+strconv.Itoa(amount)+".")
	}
}

func (e *Engine) onStatusShatter(t status.Target, def status.Definition) {
	if t.IsPlayer {
		e.send(t.SessionId, def.DisplayName+" shatters.")
	}
}
