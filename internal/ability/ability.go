// Package ability implements the ability system of spec §4.9:
// mana/cooldown/target/effect resolution and level/class-gated
// learning.
package ability

import (
	"strings"

	"github.com/ambonmud/ambonmud/internal/ids"
)

type TargetKind int

const (
	TargetSelf TargetKind = iota
	TargetEnemy
)

type EffectKind int

const (
	EffectDirectDamage EffectKind = iota
	EffectDirectHeal
	EffectApplyStatus
	EffectAreaDamage
	EffectTaunt
)

// Definition is an authored ability template (spec §6 "ability
// definitions").
type Definition struct {
	Id             ids.AbilityId
	DisplayName    string
	LevelRequired  int
	Classes        []string // empty means every class
	ManaCost       int
	CooldownMs     int64
	Target         TargetKind
	Effect         EffectKind
	Amount         int // damage or heal amount
	StatusEffectId ids.StatusEffectId
}

func (d Definition) learnableBy(class string) bool {
	if len(d.Classes) == 0 {
		return true
	}
	for _, c := range d.Classes {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// CastResult is the tagged result of a cast attempt (spec §9 "tagged
// variants" design note).
type CastResult int

const (
	CastOk CastResult = iota
	CastUnknownAbility
	CastNotLearned
	CastInsufficientMana
	CastOnCooldown
	CastNoTarget
	CastNotInCombat
)

// Registry owns per-session learned abilities and cooldowns. Not safe
// for concurrent use; the engine worker is its sole caller.
type Registry struct {
	defs        map[ids.AbilityId]Definition
	learned     map[ids.SessionId]map[ids.AbilityId]bool
	cooldowns   map[ids.SessionId]map[ids.AbilityId]int64 // readyAtMs
}

func NewRegistry(defs map[ids.AbilityId]Definition) *Registry {
	return &Registry{
		defs:      defs,
		learned:   make(map[ids.SessionId]map[ids.AbilityId]bool),
		cooldowns: make(map[ids.SessionId]map[ids.AbilityId]int64),
	}
}

// SyncAbilities computes the set of abilities sid now knows given
// level/class and returns the newly learned ones (spec §4.9).
func (r *Registry) SyncAbilities(sid ids.SessionId, level int, class string) []Definition {
	set, ok := r.learned[sid]
	if !ok {
		set = make(map[ids.AbilityId]bool)
		r.learned[sid] = set
	}
	var newlyLearned []Definition
	for id, def := range r.defs {
		if def.LevelRequired <= level && def.learnableBy(class) && !set[id] {
			set[id] = true
			newlyLearned = append(newlyLearned, def)
		}
	}
	return newlyLearned
}

// Resolve implements spec §4.9's lookup order: exact id, case-insensitive
// displayName, id prefix, displayName substring (if query ≥3 chars).
func (r *Registry) Resolve(query string) (Definition, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Definition{}, false
	}
	if def, ok := r.defs[ids.AbilityId(q)]; ok {
		return def, true
	}
	for _, def := range r.defs {
		if strings.ToLower(def.DisplayName) == q {
			return def, true
		}
	}
	for id, def := range r.defs {
		if strings.HasPrefix(strings.ToLower(string(id)), q) {
			return def, true
		}
	}
	if len(q) >= 3 {
		for _, def := range r.defs {
			if strings.Contains(strings.ToLower(def.DisplayName), q) {
				return def, true
			}
		}
	}
	return Definition{}, false
}

func (r *Registry) isLearned(sid ids.SessionId, id ids.AbilityId) bool {
	set, ok := r.learned[sid]
	return ok && set[id]
}

// CooldownReady reports whether sid's cooldown for id has elapsed.
func (r *Registry) CooldownReady(sid ids.SessionId, id ids.AbilityId, nowMs int64) bool {
	m, ok := r.cooldowns[sid]
	if !ok {
		return true
	}
	readyAt, ok := m[id]
	return !ok || nowMs >= readyAt
}

func (r *Registry) setCooldown(sid ids.SessionId, id ids.AbilityId, nowMs int64, cooldownMs int64) {
	m, ok := r.cooldowns[sid]
	if !ok {
		m = make(map[ids.AbilityId]int64)
		r.cooldowns[sid] = m
	}
	m[id] = nowMs + cooldownMs
}

// CastCheck validates a cast against learned/mana/cooldown/target
// rules, returning whether to proceed and which result to report. It
// does not apply the effect or deduct mana/cooldown itself — the
// caller (engine command handler) does that so it can also route the
// effect to the status/combat subsystems without this package
// depending on them.
func (r *Registry) CastCheck(sid ids.SessionId, query string, mana int, nowMs int64, hasTarget bool) (Definition, CastResult) {
	def, ok := r.Resolve(query)
	if !ok {
		return Definition{}, CastUnknownAbility
	}
	if !r.isLearned(sid, def.Id) {
		return def, CastNotLearned
	}
	if mana < def.ManaCost {
		return def, CastInsufficientMana
	}
	if !r.CooldownReady(sid, def.Id, nowMs) {
		return def, CastOnCooldown
	}
	if def.Target == TargetEnemy && !hasTarget {
		if def.Effect == EffectAreaDamage || def.Effect == EffectTaunt {
			// Spec §9 open question resolution: no valid target means
			// no mana consumption, so report CastNotInCombat instead of
			// deducting anything.
			return def, CastNotInCombat
		}
		return def, CastNoTarget
	}
	return def, CastOk
}

// Commit starts the cooldown after a successful cast; the caller
// deducts the mana cost. Callers invoke this only when CastCheck
// returned CastOk.
func (r *Registry) Commit(sid ids.SessionId, def Definition, nowMs int64) {
	r.setCooldown(sid, def.Id, nowMs, def.CooldownMs)
}

// OnPlayerDisconnected clears learned/cooldown state for sid (spec §9
// per-session derived state cleanup contract).
func (r *Registry) OnPlayerDisconnected(sid ids.SessionId) {
	delete(r.learned, sid)
	delete(r.cooldowns, sid)
}
