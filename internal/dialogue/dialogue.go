// Package dialogue implements the multi-node conversation system of
// SPEC_FULL.md §4.14: dialogue trees with level/class/quest-gated
// choices, one active conversation per session.
package dialogue

import "github.com/ambonmud/ambonmud/internal/ids"

type NodeId string

type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectStartQuest
	EffectAdvanceQuest
	EffectCompleteQuest
	EffectGrantItem
	EffectEndConversation
)

type Effect struct {
	Kind   EffectKind
	QuestId string
	ItemId  ids.ItemId
}

type QuestGate struct {
	QuestId string
	// Completed requires the quest already be completed; otherwise the
	// gate requires it be currently active.
	Completed bool
}

type Choice struct {
	Text              string
	RequiredLevel     int
	RequiredClasses   []string
	RequiredQuestGate *QuestGate
	NextNode          NodeId // empty ends the conversation
	Effect            *Effect
}

type Node struct {
	Id      NodeId
	Text    string
	Choices []Choice
}

type Tree struct {
	Id        string
	StartNode NodeId
	Nodes     map[NodeId]Node
}

// ActiveConversation is per-session state (spec §9 per-session derived
// state pattern).
type ActiveConversation struct {
	MobId       ids.MobId
	CurrentNode NodeId
	StartedAtMs int64
}

// QuestState is the minimal quest-progress surface dialogue gating
// needs, supplied by the caller so this package doesn't depend on
// quest.
type QuestState interface {
	IsActive(sid ids.SessionId, questId string) bool
	IsCompleted(sid ids.SessionId, questId string) bool
}

// Engine owns active conversations. Not safe for concurrent use; the
// engine worker is its sole caller.
type Engine struct {
	trees  map[ids.MobId]Tree
	active map[ids.SessionId]*ActiveConversation
	quests QuestState
	level  func(ids.SessionId) int
	class  func(ids.SessionId) string
}

func NewEngine(trees map[ids.MobId]Tree, quests QuestState, level func(ids.SessionId) int, class func(ids.SessionId) string) *Engine {
	return &Engine{
		trees:  trees,
		active: make(map[ids.SessionId]*ActiveConversation),
		quests: quests,
		level:  level,
		class:  class,
	}
}

func (e *Engine) gateOk(sid ids.SessionId, c Choice) bool {
	if c.RequiredLevel > 0 && e.level(sid) < c.RequiredLevel {
		return false
	}
	if len(c.RequiredClasses) > 0 {
		ok := false
		cls := e.class(sid)
		for _, want := range c.RequiredClasses {
			if want == cls {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if c.RequiredQuestGate != nil {
		g := c.RequiredQuestGate
		if g.Completed && !e.quests.IsCompleted(sid, g.QuestId) {
			return false
		}
		if !g.Completed && !e.quests.IsActive(sid, g.QuestId) {
			return false
		}
	}
	return true
}

func (e *Engine) visibleChoices(sid ids.SessionId, node Node) []Choice {
	var out []Choice
	for _, c := range node.Choices {
		if e.gateOk(sid, c) {
			out = append(out, c)
		}
	}
	return out
}

// Talk starts a conversation at the mob's start node if none is
// already active for sid (spec §4.14).
func (e *Engine) Talk(sid ids.SessionId, mobId ids.MobId, nowMs int64) (Node, []Choice, bool) {
	if _, active := e.active[sid]; active {
		return Node{}, nil, false
	}
	tree, ok := e.trees[mobId]
	if !ok {
		return Node{}, nil, false
	}
	node, ok := tree.Nodes[tree.StartNode]
	if !ok {
		return Node{}, nil, false
	}
	e.active[sid] = &ActiveConversation{MobId: mobId, CurrentNode: node.Id, StartedAtMs: nowMs}
	return node, e.visibleChoices(sid, node), true
}

// Choose validates and advances the active conversation (spec §4.14).
func (e *Engine) Choose(sid ids.SessionId, choiceIndex int) (Node, []Choice, *Effect, bool) {
	conv, ok := e.active[sid]
	if !ok {
		return Node{}, nil, nil, false
	}
	tree := e.trees[conv.MobId]
	node := tree.Nodes[conv.CurrentNode]
	visible := e.visibleChoices(sid, node)
	if choiceIndex < 0 || choiceIndex >= len(visible) {
		return Node{}, nil, nil, false
	}
	choice := visible[choiceIndex]

	if choice.NextNode == "" {
		delete(e.active, sid)
		return Node{}, nil, choice.Effect, true
	}
	next, ok := tree.Nodes[choice.NextNode]
	if !ok {
		delete(e.active, sid)
		return Node{}, nil, choice.Effect, true
	}
	conv.CurrentNode = next.Id
	return next, e.visibleChoices(sid, next), choice.Effect, true
}

// OnPlayerMoved and OnPlayerDisconnected both end any active
// conversation for sid (spec §4.14 uniform cleanup contract).
func (e *Engine) OnPlayerMoved(sid ids.SessionId)       { delete(e.active, sid) }
func (e *Engine) OnPlayerDisconnected(sid ids.SessionId) { delete(e.active, sid) }

func (e *Engine) HasActiveConversation(sid ids.SessionId) bool {
	_, ok := e.active[sid]
	return ok
}
