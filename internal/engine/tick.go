package engine

import (
	"strconv"

	"github.com/ambonmud/ambonmud/internal/ability"
	"github.com/ambonmud/ambonmud/internal/behavior"
	"github.com/ambonmud/ambonmud/internal/combat"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/mobs"
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/ambonmud/ambonmud/internal/progression"
	"github.com/ambonmud/ambonmud/internal/status"
)

// behaviorMaxActionsPerTick caps how many mobs run their tree per
// engine tick (spec §4.6); unlike the scheduler's own cap this isn't
// config-tunable since it bounds a much smaller, bursty workload.
const behaviorMaxActionsPerTick = 64

// tickBehavior shuffles live mobs into a fresh order each tick (spec
// §4.6 "the system shuffles mobs") and runs their trees.
func (e *Engine) tickBehavior(now int64) {
	live := e.mobReg.All()
	order := make([]ids.MobId, len(live))
	for i, m := range live {
		order[i] = m.Id
	}
	for i := len(order) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	e.behaviorD.Tick(order, now, behaviorMaxActionsPerTick, e.isMobRooted, e.envForMob)
}

func (e *Engine) isMobRooted(mob ids.MobId) bool {
	return e.statusE.HasType(status.MobTarget(mob), status.Root)
}

func (e *Engine) envForMob(mob ids.MobId, mem *behavior.Memory) *behavior.Env {
	return &behavior.Env{
		Mob:    mob,
		NowMs:  e.clock.NowMs(),
		Memory: mem,
		IsInCombat: func(m ids.MobId) bool {
			_, ok := e.combatE.Target(e.combatantSessionFor(m))
			return ok
		},
		HpPercent: func(m ids.MobId) float64 {
			st, ok := e.mobReg.Get(m)
			if !ok || st.MaxHp == 0 {
				return 1
			}
			return float64(st.Hp) / float64(st.MaxHp)
		},
		PlayerInRoom: func(m ids.MobId) (ids.SessionId, bool) {
			st, ok := e.mobReg.Get(m)
			if !ok {
				return 0, false
			}
			inRoom := e.players.InRoom(st.RoomId)
			if len(inRoom) == 0 {
				return 0, false
			}
			return inRoom[0].SessionId, true
		},
		Aggro: func(m ids.MobId, target ids.SessionId) {
			e.combatE.Engage(target, m, e.clock.NowMs())
		},
		Wander: func(m ids.MobId) {
			st, ok := e.mobReg.Get(m)
			if !ok {
				return
			}
			room, ok := e.world.Rooms[st.RoomId]
			if !ok || len(room.Exits) == 0 {
				return
			}
			i, n := 0, e.rng.Intn(len(room.Exits))
			for _, dest := range room.Exits {
				if i == n {
					e.mobReg.Move(m, dest)
					return
				}
				i++
			}
		},
		Patrol: func(m ids.MobId, waypointIndex int) int { return waypointIndex },
		Flee: func(m ids.MobId) {
			st, ok := e.mobReg.Get(m)
			if !ok {
				return
			}
			e.mobReg.Move(m, st.HomeRoomId)
			e.combatE.OnMobRemoved(m)
		},
		Say: func(m ids.MobId, message string) {
			st, ok := e.mobReg.Get(m)
			if !ok {
				return
			}
			e.broadcastRoom(st.RoomId, 0, st.Name+" says, \""+message+"\"")
		},
	}
}

// combatantSessionFor returns a live session currently engaged against
// mob (arbitrary choice among multiple, since the combat engine tracks
// engagements per attacker), or 0 when none is.
func (e *Engine) combatantSessionFor(mob ids.MobId) ids.SessionId {
	for _, st := range e.players.All() {
		if target, ok := e.combatE.Target(st.SessionId); ok && target == mob {
			return st.SessionId
		}
	}
	return 0
}

func (e *Engine) tickCombat(now int64) {
	e.combatE.Tick(now, e.resolvePlayerSwing, e.resolveMobSwing)
}

func (e *Engine) resolvePlayerSwing(sid ids.SessionId, mobId ids.MobId) (mobDead bool) {
	st, ok := e.players.Get(sid)
	if !ok {
		return true
	}
	mob, ok := e.mobReg.Get(mobId)
	if !ok {
		return true
	}
	damage, remaining := e.combatE.ResolvePlayerAttack(e.playerCombatant(st), mob.Hp, mob.Armor)
	mob.Hp = remaining
	e.send(sid, "You hit "+mob.Name+" for "+strconv.Itoa(damage)+".")
	if mob.Hp <= 0 {
		e.killMob(st, mob, true)
		return true
	}
	return false
}

func (e *Engine) resolveMobSwing(sid ids.SessionId, mobId ids.MobId) {
	st, ok := e.players.Get(sid)
	if !ok {
		return
	}
	mob, ok := e.mobReg.Get(mobId)
	if !ok {
		return
	}
	damage, remaining := e.combatE.ResolveMobAttack(sid, e.mobCombatant(mob), st.Hp, e.playerArmor(st))
	st.Hp = remaining
	e.send(sid, mob.Name+" hits you for "+strconv.Itoa(damage)+".")
	e.sendGmcp(sid, "Char.Vitals", gmcpVitals(st))
	if st.Hp <= 0 {
		e.onPlayerDeath(st)
	}
}

// playerCombatant derives a player's attack stats from unarmed damage
// plus whatever's in their hand slot, and armor from every equipped
// item's Armor bonus (spec §4.10/§4.11 equipment interplay).
func (e *Engine) playerCombatant(st *player.State) combat.Combatant {
	minDmg, maxDmg := 1, 4
	if inst, ok := e.itemReg.Equipped(st.SessionId)["HAND"]; ok {
		minDmg += inst.Item.Damage
		maxDmg += inst.Item.Damage
	}
	return combat.Combatant{MinDamage: minDmg, MaxDamage: maxDmg, Armor: e.playerArmor(st), Hp: st.Hp, MaxHp: st.MaxHp}
}

func (e *Engine) playerArmor(st *player.State) int {
	armor := 0
	for _, inst := range e.itemReg.Equipped(st.SessionId) {
		armor += inst.Item.Armor
	}
	return armor
}

func (e *Engine) mobCombatant(mob *mobs.State) combat.Combatant {
	return combat.Combatant{MinDamage: mob.MinDamage, MaxDamage: mob.MaxDamage, Armor: mob.Armor, Hp: mob.Hp, MaxHp: mob.MaxHp}
}

// onPlayerDeath implements the minimal death/respawn cycle: return to
// the zone start room at half health, clear the fight.
func (e *Engine) onPlayerDeath(st *player.State) {
	e.combatE.OnPlayerDisconnected(st.SessionId)
	e.send(st.SessionId, "You have died.")
	e.broadcastRoom(st.RoomId, st.SessionId, st.Name+" has died.")
	e.players.MoveTo(st.SessionId, e.world.StartRoom)
	st.Hp = st.MaxHp / 2
	if st.Hp < 1 {
		st.Hp = 1
	}
	e.cmdLook(st, nil)
	e.sendGmcp(st.SessionId, "Char.Vitals", gmcpVitals(st))
}

// killMob credits XP/gold/drops/quest progress to killer, then removes
// the mob and schedules its respawn if RespawnSeconds > 0 (spec §4.10,
// §4.13 mob placement).
func (e *Engine) killMob(killer *player.State, mob *mobs.State, hasKiller bool) {
	dropTable := make(map[ids.ItemId]float64, len(mob.Drops))
	for _, d := range mob.Drops {
		dropTable[d.ItemId] = d.Chance
	}
	report := e.combatE.KillMob(mob.Id, mob.XpReward, mob.GoldMin, mob.GoldMax, dropTable, killer.SessionId, hasKiller)

	e.broadcastRoom(mob.RoomId, 0, mob.Name+" dies.")
	for _, drop := range report.Drops {
		if inst, ok := e.itemReg.InstantiateFromTemplate(drop.ItemId); ok {
			e.itemReg.AddToRoom(mob.RoomId, inst)
		}
	}
	if hasKiller {
		if report.GoldMax > 0 {
			killer.Gold += rngGold(e, report.GoldMin, report.GoldMax)
		}
		e.grantXp(killer, report.XpReward)
		e.quests.OnMobKilled(killer.SessionId, mob.Id)
	}

	e.itemReg.MobDrop(mob.Id, mob.RoomId)
	e.combatE.OnMobRemoved(mob.Id)
	e.statusE.Purge(status.MobTarget(mob.Id))
	e.behaviorD.Despawn(mob.Id)
	e.mobReg.Remove(mob.Id)

	if tmpl, ok := e.mobTemplates[mob.Id]; ok && tmpl.RespawnSeconds > 0 {
		e.sched.ScheduleIn(int64(tmpl.RespawnSeconds)*1000, func() error {
			e.mobReg.Spawn(tmpl)
			return nil
		})
	}
}

func rngGold(e *Engine, min, max int) int {
	if max <= min {
		return min
	}
	return min + e.rng.Intn(max-min+1)
}

// onMobDiedFromDot handles a kill the status engine's own Tick
// detected (a DOT finishing off a mob between combat swings); credit
// flows to the damage-over-time's source session same as a melee kill.
func (e *Engine) onMobDiedFromDot(kill status.DotKill) {
	mob, ok := e.mobReg.Get(kill.Mob)
	if !ok {
		return
	}
	killer, ok := e.players.Get(kill.SourceSessionId)
	if !ok {
		e.killMob(&player.State{SessionId: kill.SourceSessionId}, mob, false)
		return
	}
	e.killMob(killer, mob, true)
}

// grantXp applies progression.ApplyXp and handles the level-up side
// effects: max hp bump, ability re-sync, and a persistence save (spec
// §6 "save is invoked ... on level-up").
func (e *Engine) grantXp(st *player.State, amount int) {
	if amount <= 0 {
		return
	}
	reward := progression.ApplyXp(e.progCurve, st.XpTotal, st.Level, amount)
	st.XpTotal = reward.NewXpTotal
	e.send(st.SessionId, "You gain "+strconv.Itoa(amount)+" experience.")
	if !reward.LeveledUp {
		return
	}
	st.Level = reward.NewLevel
	st.MaxHp = st.BaseMaxHp + (st.Level-1)*10
	st.Hp = st.MaxHp
	st.MaxMana = 10 + st.Int + st.Wis + (st.Level-1)*2
	st.Mana = st.MaxMana
	e.send(st.SessionId, "You are now level "+strconv.Itoa(st.Level)+"!")
	for _, learned := range e.abilityR.SyncAbilities(st.SessionId, st.Level, string(st.Class)) {
		e.send(st.SessionId, "You learn "+learned.DisplayName+".")
	}
	e.players.Save(st.SessionId)
}

// statusPlayerOrMob resolves a status.Target for an ability effect:
// self-targeted effects land on the caster, enemy-targeted ones on the
// engaged mob.
func statusPlayerOrMob(sid ids.SessionId, mob ids.MobId, target ability.TargetKind) status.Target {
	if target == ability.TargetSelf {
		return status.PlayerTarget(sid)
	}
	return status.MobTarget(mob)
}

func (e *Engine) scheduleZoneReset(zone string, now int64) {
	lifespanMin, ok := e.world.ZoneLifespansMinutes[zone]
	if !ok || lifespanMin <= 0 {
		return
	}
	delayMs := int64(lifespanMin) * 60 * 1000
	e.nextZoneResetAt[zone] = now + delayMs
	e.sched.ScheduleIn(delayMs, func() error {
		e.resetZone(zone)
		e.scheduleZoneReset(zone, e.clock.NowMs())
		return nil
	})
}

func (e *Engine) resetZone(zone string) {
	e.mobReg.ResetZone(e.world, zone)
	e.itemReg.ResetZone(e.world, zone)
	for _, st := range e.players.All() {
		if st.RoomId.Zone() == zone {
			e.send(st.SessionId, "The area resets around you.")
		}
	}
}
