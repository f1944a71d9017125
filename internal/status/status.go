// Package status implements the status-effect engine of spec §4.8:
// DOT/HOT/SHIELD/STAT_BUFF/STAT_DEBUFF/STUN/ROOT lifecycle with
// REFRESH/STACK/NONE stacking policies, ticked once per engine tick.
package status

import (
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/rng"
)

type EffectType int

const (
	DOT EffectType = iota
	HOT
	StatBuff
	StatDebuff
	Stun
	Root
	Shield
)

type StackBehavior int

const (
	Refresh StackBehavior = iota
	Stack
	None
)

// StatMods is the set of core-stat deltas a buff/debuff applies.
type StatMods struct {
	Str, Dex, Con, Int, Wis, Cha int
}

// Definition is the immutable template for an effect kind, authored as
// part of world/config content (spec §6 "status-effect definitions").
type Definition struct {
	Id              ids.StatusEffectId
	DisplayName     string
	Type            EffectType
	DurationMs      int64
	TickIntervalMs  int64
	TickMin, TickMax int
	ShieldAmount    int
	StatMods        StatMods
	StackBehavior   StackBehavior
	MaxStacks       int
}

// Instance is one applied effect on a target.
type Instance struct {
	DefinitionId    ids.StatusEffectId
	AppliedAtMs     int64
	ExpiresAtMs     int64
	LastTickAtMs    int64
	SourceSessionId ids.SessionId
	HasSource       bool
	ShieldRemaining int
}

// Target identifies who an effect is applied to — a player session or
// a mob — without the status package depending on the player/mobs
// packages.
type Target struct {
	IsPlayer  bool
	SessionId ids.SessionId
	MobId     ids.MobId
}

func PlayerTarget(sid ids.SessionId) Target { return Target{IsPlayer: true, SessionId: sid} }
func MobTarget(id ids.MobId) Target         { return Target{IsPlayer: false, MobId: id} }

func (t Target) key() any {
	if t.IsPlayer {
		return t.SessionId
	}
	return t.MobId
}

// HpSink is the minimal interface the engine's player/mob registries
// must satisfy for status ticking to apply damage/healing and read
// current/max hp without the status package depending on them.
type HpSink interface {
	Hp(t Target) (current, max int, ok bool)
	SetHp(t Target, hp int)
}

// Engine owns all active instances, keyed by target then definition.
type Engine struct {
	defs    map[ids.StatusEffectId]Definition
	active  map[any]map[ids.StatusEffectId][]*Instance
	sink    HpSink
	src     rng.Source
	onFade  func(t Target, def Definition)
	onTick  func(t Target, def Definition, amount int)
	onShatter func(t Target, def Definition)
}

func NewEngine(defs map[ids.StatusEffectId]Definition, sink HpSink, src rng.Source) *Engine {
	return &Engine{
		defs:   defs,
		active: make(map[any]map[ids.StatusEffectId][]*Instance),
		sink:   sink,
		src:    src,
	}
}

// OnFade, OnTick, OnShatter register optional observers used to emit
// outbound messages; the engine itself never touches the outbound bus.
func (e *Engine) OnFade(f func(Target, Definition))                 { e.onFade = f }
func (e *Engine) OnTick(f func(Target, Definition, int))            { e.onTick = f }
func (e *Engine) OnShatter(f func(Target, Definition))              { e.onShatter = f }

func (e *Engine) bucket(t Target) map[ids.StatusEffectId][]*Instance {
	k := t.key()
	b, ok := e.active[k]
	if !ok {
		b = make(map[ids.StatusEffectId][]*Instance)
		e.active[k] = b
	}
	return b
}

// Apply applies defId to target per its stacking policy (spec §4.8).
func (e *Engine) Apply(t Target, defId ids.StatusEffectId, nowMs int64, source ids.SessionId, hasSource bool) {
	def, ok := e.defs[defId]
	if !ok {
		return
	}
	b := e.bucket(t)
	instances := b[defId]

	switch def.StackBehavior {
	case Refresh:
		if len(instances) > 0 {
			instances[0].ExpiresAtMs = nowMs + def.DurationMs
			instances[0].LastTickAtMs = nowMs
			return
		}
		b[defId] = []*Instance{e.newInstance(def, nowMs, source, hasSource)}
	case Stack:
		if len(instances) >= def.MaxStacks && def.MaxStacks > 0 {
			oldest := instances[0]
			for _, inst := range instances {
				if inst.AppliedAtMs < oldest.AppliedAtMs {
					oldest = inst
				}
			}
			oldest.ExpiresAtMs = nowMs + def.DurationMs
			return
		}
		b[defId] = append(instances, e.newInstance(def, nowMs, source, hasSource))
	case None:
		if len(instances) > 0 {
			return
		}
		b[defId] = []*Instance{e.newInstance(def, nowMs, source, hasSource)}
	}
}

func (e *Engine) newInstance(def Definition, nowMs int64, source ids.SessionId, hasSource bool) *Instance {
	return &Instance{
		DefinitionId:    def.Id,
		AppliedAtMs:     nowMs,
		ExpiresAtMs:     nowMs + def.DurationMs,
		LastTickAtMs:    nowMs,
		SourceSessionId: source,
		HasSource:       hasSource,
		ShieldRemaining: def.ShieldAmount,
	}
}

// DotKill is one entry of the mobsKilledByDot() list spec §4.8
// requires the combat subsystem to consume.
type DotKill struct {
	Mob             ids.MobId
	SourceSessionId ids.SessionId
}

// Tick runs the per-engine-tick expiry/DOT/HOT/shield pass (spec §4.8)
// and returns the mobs killed by a DOT this tick for the combat
// subsystem to credit.
func (e *Engine) Tick(nowMs int64) []DotKill {
	var kills []DotKill

	for key, byDef := range e.active {
		t := e.targetFromKey(key)
		for defId, instances := range byDef {
			def := e.defs[defId]
			kept := instances[:0]
			for _, inst := range instances {
				if nowMs > inst.ExpiresAtMs {
					if e.onFade != nil {
						e.onFade(t, def)
					}
					continue
				}
				if def.Type == Shield && inst.ShieldRemaining <= 0 {
					if e.onShatter != nil {
						e.onShatter(t, def)
					}
					continue
				}
				if (def.Type == DOT || def.Type == HOT) && def.TickIntervalMs > 0 && nowMs-inst.LastTickAtMs >= def.TickIntervalMs {
					amount := rng.IntRange(e.src, def.TickMin, def.TickMax)
					inst.LastTickAtMs = nowMs
					e.applyHpDelta(t, def, amount)
					if e.onTick != nil {
						e.onTick(t, def, amount)
					}
					if def.Type == DOT && inst.HasSource && !t.IsPlayer {
						if cur, _, ok := e.sink.Hp(t); ok && cur <= 0 {
							kills = append(kills, DotKill{Mob: t.MobId, SourceSessionId: inst.SourceSessionId})
						}
					}
				}
				kept = append(kept, inst)
			}
			if len(kept) == 0 {
				delete(byDef, defId)
			} else {
				byDef[defId] = kept
			}
		}
		if len(byDef) == 0 {
			delete(e.active, key)
		}
	}
	return kills
}

func (e *Engine) applyHpDelta(t Target, def Definition, amount int) {
	cur, max, ok := e.sink.Hp(t)
	if !ok {
		return
	}
	if def.Type == DOT {
		cur -= amount
	} else {
		cur += amount
	}
	if cur < 0 {
		cur = 0
	}
	if cur > max {
		cur = max
	}
	e.sink.SetHp(t, cur)
}

func (e *Engine) targetFromKey(key any) Target {
	switch v := key.(type) {
	case ids.SessionId:
		return PlayerTarget(v)
	case ids.MobId:
		return MobTarget(v)
	}
	return Target{}
}

// AbsorbPlayerDamage iterates active SHIELDs on t and subtracts raw
// from each until exhausted or raw reaches 0, returning the residual
// damage that passes through (spec §4.8).
func (e *Engine) AbsorbPlayerDamage(t Target, raw int) int {
	byDef, ok := e.active[t.key()]
	if !ok {
		return raw
	}
	for defId, instances := range byDef {
		if e.defs[defId].Type != Shield {
			continue
		}
		for _, inst := range instances {
			if raw <= 0 {
				break
			}
			absorbed := raw
			if absorbed > inst.ShieldRemaining {
				absorbed = inst.ShieldRemaining
			}
			inst.ShieldRemaining -= absorbed
			raw -= absorbed
		}
	}
	return raw
}

// StatModifiers sums all active BUFF/DEBUFF StatMods on t.
func (e *Engine) StatModifiers(t Target) StatMods {
	var sum StatMods
	byDef, ok := e.active[t.key()]
	if !ok {
		return sum
	}
	for defId, instances := range byDef {
		def := e.defs[defId]
		if def.Type != StatBuff && def.Type != StatDebuff {
			continue
		}
		for range instances {
			sum.Str += def.StatMods.Str
			sum.Dex += def.StatMods.Dex
			sum.Con += def.StatMods.Con
			sum.Int += def.StatMods.Int
			sum.Wis += def.StatMods.Wis
			sum.Cha += def.StatMods.Cha
		}
	}
	return sum
}

// HasType reports whether t currently has any active instance of kind.
// Used by combat/behavior to check Stun/Root.
func (e *Engine) HasType(t Target, kind EffectType) bool {
	byDef, ok := e.active[t.key()]
	if !ok {
		return false
	}
	for defId, instances := range byDef {
		if e.defs[defId].Type == kind && len(instances) > 0 {
			return true
		}
	}
	return false
}

// Purge removes all active effects on t, used by onPlayerDisconnected,
// mob removal, and session remap (spec §4.8 cleanup contract).
func (e *Engine) Purge(t Target) {
	delete(e.active, t.key())
}

// Remap moves every active instance from one target key to another,
// used on gateway reconnect session handoff.
func (e *Engine) Remap(from, to Target) {
	if b, ok := e.active[from.key()]; ok {
		e.active[to.key()] = b
		delete(e.active, from.key())
	}
}
