// Package combat implements the combat system of spec §4.10: round
// scheduling, damage/armor resolution, mob death (XP, drops), and
// player death/respawn.
package combat

import (
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/rng"
)

// Engagement tracks the single active combat target a session may
// have, and the mob's reciprocal swing timer (spec §4.10 "a session
// may have at most one active combat target; symmetrically, a mob...
// attacks back with a per-mob swing timer").
type Engagement struct {
	PlayerSwingAtMs int64
	MobSwingAtMs    int64
	Mob             ids.MobId
}

// Combatant is the minimal stat surface the combat system needs from
// a player or mob, supplied by the caller so this package does not
// depend on player/mobs.
type Combatant struct {
	MinDamage, MaxDamage, Armor int
	Hp, MaxHp                   int
}

// DeathReport summarizes a mob kill for the caller to apply XP, drops,
// and messages.
type DeathReport struct {
	Mob      ids.MobId
	Killer   ids.SessionId
	HasKiller bool
	XpReward int
	GoldMin, GoldMax int
	Drops    []DropRoll
}

type DropRoll struct {
	ItemId ids.ItemId
}

// Engine owns active engagements. Not safe for concurrent use; the
// engine worker is its sole caller (spec §5).
type Engine struct {
	engagements map[ids.SessionId]*Engagement
	swingIntervalMs int64
	src         rng.Source
	absorb      func(sid ids.SessionId, raw int) int
}

func NewEngine(swingIntervalMs int64, src rng.Source, absorb func(ids.SessionId, int) int) *Engine {
	return &Engine{
		engagements:     make(map[ids.SessionId]*Engagement),
		swingIntervalMs: swingIntervalMs,
		src:             src,
		absorb:          absorb,
	}
}

// Engage starts (or replaces) sid's active combat target.
func (e *Engine) Engage(sid ids.SessionId, mob ids.MobId, nowMs int64) {
	e.engagements[sid] = &Engagement{Mob: mob, PlayerSwingAtMs: nowMs, MobSwingAtMs: nowMs + e.swingIntervalMs}
}

func (e *Engine) Target(sid ids.SessionId) (ids.MobId, bool) {
	eng, ok := e.engagements[sid]
	if !ok {
		return "", false
	}
	return eng.Mob, true
}

func (e *Engine) Disengage(sid ids.SessionId) {
	delete(e.engagements, sid)
}

// rollDamage applies the attacker's [min,max] roll minus the
// defender's armor (floor 1), per spec §4.10.
func (e *Engine) rollDamage(attacker Combatant, defenderArmor int) int {
	dmg := rng.IntRange(e.src, attacker.MinDamage, attacker.MaxDamage)
	dmg -= defenderArmor
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// ResolvePlayerAttack applies one player->mob swing, returning the
// damage dealt and the mob's resulting hp.
func (e *Engine) ResolvePlayerAttack(player Combatant, mobHp, mobArmor int) (damage int, remainingHp int) {
	damage = e.rollDamage(player, mobArmor)
	remainingHp = mobHp - damage
	if remainingHp < 0 {
		remainingHp = 0
	}
	return damage, remainingHp
}

// ResolveMobAttack applies one mob->player swing, routing raw damage
// through the caller-supplied shield absorption hook before reducing
// player hp, and returns the damage left after absorption together
// with the player's resulting hp.
func (e *Engine) ResolveMobAttack(sid ids.SessionId, mob Combatant, playerHp, playerArmor int) (damage int, remainingHp int) {
	raw := e.rollDamage(mob, playerArmor)
	if e.absorb != nil {
		raw = e.absorb(sid, raw)
	}
	remainingHp = playerHp - raw
	if remainingHp < 0 {
		remainingHp = 0
	}
	return raw, remainingHp
}

// Tick advances round timers for every engagement whose swing time has
// arrived, invoking the caller's attack resolution via the two
// callbacks. An engagement whose playerSwing reports the mob dead is
// deleted this tick (the caller removes the mob and reports the death
// separately via KillMob).
func (e *Engine) Tick(nowMs int64, playerSwing func(sid ids.SessionId, mob ids.MobId) (mobDead bool), mobSwing func(sid ids.SessionId, mob ids.MobId)) {
	for sid, eng := range e.engagements {
		if nowMs >= eng.PlayerSwingAtMs {
			dead := playerSwing(sid, eng.Mob)
			eng.PlayerSwingAtMs = nowMs + e.swingIntervalMs
			if dead {
				delete(e.engagements, sid)
				continue
			}
		}
		if nowMs >= eng.MobSwingAtMs {
			mobSwing(sid, eng.Mob)
			eng.MobSwingAtMs = nowMs + e.swingIntervalMs
		}
	}
}

// KillMob builds a DeathReport: rolls each independent drop trial and
// copies the XP reward and the [goldMin, goldMax] range into the report
// (spec §4.10). The caller credits XP and rolls gold from the report.
func (e *Engine) KillMob(mob ids.MobId, xpReward int, goldMin, goldMax int, dropTable map[ids.ItemId]float64, killer ids.SessionId, hasKiller bool) DeathReport {
	report := DeathReport{Mob: mob, Killer: killer, HasKiller: hasKiller, XpReward: xpReward, GoldMin: goldMin, GoldMax: goldMax}
	for itemId, chance := range dropTable {
		if rng.Bernoulli(e.src, chance) {
			report.Drops = append(report.Drops, DropRoll{ItemId: itemId})
		}
	}
	return report
}

// OnPlayerDisconnected clears sid's engagement (spec §9 cleanup
// contract).
func (e *Engine) OnPlayerDisconnected(sid ids.SessionId) {
	delete(e.engagements, sid)
}

// OnMobRemoved clears any engagement pointing at mob (e.g. a mob
// removed by a zone reset mid-fight).
func (e *Engine) OnMobRemoved(mob ids.MobId) {
	for sid, eng := range e.engagements {
		if eng.Mob == mob {
			delete(e.engagements, sid)
		}
	}
}
