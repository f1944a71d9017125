// Package quest implements the quest system of SPEC_FULL.md §4.16:
// objective progress driven by hooks that the engine calls on kills,
// item pickups, and talk commands rather than polling.
package quest

import "github.com/ambonmud/ambonmud/internal/ids"

type ObjectiveKind int

const (
	ObjectiveKillCount ObjectiveKind = iota
	ObjectiveCollectItem
	ObjectiveTalkTo
)

type Objective struct {
	Kind   ObjectiveKind
	MobId  ids.MobId
	ItemId ids.ItemId
	Count  int
}

type Definition struct {
	Id            string
	Title         string
	Description   string
	RequiredLevel int
	GiverMobId    ids.MobId
	HasGiver      bool
	Objective     Objective
	RewardXp      int
	RewardGold    int
	RewardItemIds []ids.ItemId
}

type Progress struct {
	StartedAtMs   int64
	ProgressCount int
}

// AcceptResult / TurnInResult are tagged results (spec §9 design
// note).
type AcceptResult int

const (
	AcceptOk AcceptResult = iota
	AcceptLevelTooLow
	AcceptAlreadyActive
	AcceptAlreadyCompleted
	AcceptGiverNotInRoom
)

type TurnInResult int

const (
	TurnInOk TurnInResult = iota
	TurnInNotActive
	TurnInObjectiveIncomplete
)

// Engine owns per-player quest progress. Not safe for concurrent use;
// the engine worker is its sole caller.
type Engine struct {
	defs      map[string]Definition
	active    map[ids.SessionId]map[string]*Progress
	completed map[ids.SessionId]map[string]bool
	level     func(ids.SessionId) int
	roomOf    func(ids.SessionId) ids.RoomId
	mobRoom   func(ids.MobId) (ids.RoomId, bool)
}

func NewEngine(defs map[string]Definition, level func(ids.SessionId) int, roomOf func(ids.SessionId) ids.RoomId, mobRoom func(ids.MobId) (ids.RoomId, bool)) *Engine {
	return &Engine{
		defs:      defs,
		active:    make(map[ids.SessionId]map[string]*Progress),
		completed: make(map[ids.SessionId]map[string]bool),
		level:     level,
		roomOf:    roomOf,
		mobRoom:   mobRoom,
	}
}

func (e *Engine) IsActive(sid ids.SessionId, questId string) bool {
	m, ok := e.active[sid]
	return ok && m[questId] != nil
}

func (e *Engine) IsCompleted(sid ids.SessionId, questId string) bool {
	m, ok := e.completed[sid]
	return ok && m[questId]
}

// Accept validates and starts a quest (spec §4.16).
func (e *Engine) Accept(sid ids.SessionId, questId string, nowMs int64) AcceptResult {
	def, ok := e.defs[questId]
	if !ok {
		return AcceptLevelTooLow // unknown quest id behaves as not-accessible
	}
	if e.level(sid) < def.RequiredLevel {
		return AcceptLevelTooLow
	}
	if e.IsActive(sid, questId) {
		return AcceptAlreadyActive
	}
	if e.IsCompleted(sid, questId) {
		return AcceptAlreadyCompleted
	}
	if def.HasGiver {
		giverRoom, ok := e.mobRoom(def.GiverMobId)
		if !ok || giverRoom != e.roomOf(sid) {
			return AcceptGiverNotInRoom
		}
	}
	m, ok := e.active[sid]
	if !ok {
		m = make(map[string]*Progress)
		e.active[sid] = m
	}
	m[questId] = &Progress{StartedAtMs: nowMs}
	return AcceptOk
}

func (e *Engine) progressFor(sid ids.SessionId, questId string) (*Progress, Definition, bool) {
	def, ok := e.defs[questId]
	if !ok {
		return nil, Definition{}, false
	}
	m, ok := e.active[sid]
	if !ok {
		return nil, def, false
	}
	p, ok := m[questId]
	return p, def, ok
}

// OnMobKilled is called from the engine's mob-kill path, credited to
// the killer (spec §4.16).
func (e *Engine) OnMobKilled(sid ids.SessionId, mobId ids.MobId) {
	for questId, p := range e.active[sid] {
		def := e.defs[questId]
		if def.Objective.Kind == ObjectiveKillCount && def.Objective.MobId == mobId {
			p.ProgressCount++
		}
	}
}

// OnItemAcquired is called from the engine's get (pickup) command;
// receiving an item through give does not call it.
func (e *Engine) OnItemAcquired(sid ids.SessionId, itemId ids.ItemId) {
	for questId, p := range e.active[sid] {
		def := e.defs[questId]
		if def.Objective.Kind == ObjectiveCollectItem && def.Objective.ItemId == itemId {
			p.ProgressCount++
		}
	}
}

// OnTalkedTo is called from the engine's talk command.
func (e *Engine) OnTalkedTo(sid ids.SessionId, mobId ids.MobId) {
	for questId, p := range e.active[sid] {
		def := e.defs[questId]
		if def.Objective.Kind == ObjectiveTalkTo && def.Objective.MobId == mobId {
			p.ProgressCount = 1
		}
	}
}

func objectiveSatisfied(def Definition, p *Progress) bool {
	switch def.Objective.Kind {
	case ObjectiveKillCount, ObjectiveCollectItem:
		return p.ProgressCount >= def.Objective.Count
	case ObjectiveTalkTo:
		return p.ProgressCount >= 1
	}
	return false
}

// TurnIn validates completion and moves the quest from active to
// completed; the caller applies rewards via progression/item-registry
// primitives using the returned Definition.
func (e *Engine) TurnIn(sid ids.SessionId, questId string) (Definition, TurnInResult) {
	p, def, ok := e.progressFor(sid, questId)
	if !ok {
		return Definition{}, TurnInNotActive
	}
	if !objectiveSatisfied(def, p) {
		return def, TurnInObjectiveIncomplete
	}
	delete(e.active[sid], questId)
	m, ok := e.completed[sid]
	if !ok {
		m = make(map[string]bool)
		e.completed[sid] = m
	}
	m[questId] = true
	return def, TurnInOk
}
