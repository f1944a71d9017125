package dialogue

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

type fakeQuests struct{ active, completed map[string]bool }

func (f fakeQuests) IsActive(ids.SessionId, string) bool    { return f.active != nil && f.active["q1"] }
func (f fakeQuests) IsCompleted(ids.SessionId, string) bool { return f.completed != nil && f.completed["q1"] }

func sampleTree() Tree {
	return Tree{
		Id: "guard", StartNode: "intro",
		Nodes: map[NodeId]Node{
			"intro": {Id: "intro", Text: "Halt!", Choices: []Choice{
				{Text: "Leave", NextNode: ""},
				{Text: "Ask about the gate", RequiredLevel: 5, NextNode: "gate"},
			}},
			"gate": {Id: "gate", Text: "The gate is locked."},
		},
	}
}

func TestTalkStartsConversationAtStartNode(t *testing.T) {
	e := NewEngine(map[ids.MobId]Tree{"zone:guard": sampleTree()}, fakeQuests{}, func(ids.SessionId) int { return 1 }, func(ids.SessionId) string { return "WARRIOR" })
	node, choices, ok := e.Talk(1, "zone:guard", 0)
	require.True(t, ok)
	require.Equal(t, NodeId("intro"), node.Id)
	require.Len(t, choices, 1) // level-gated choice filtered out
}

func TestTalkRejectsSecondConcurrentConversation(t *testing.T) {
	e := NewEngine(map[ids.MobId]Tree{"zone:guard": sampleTree()}, fakeQuests{}, func(ids.SessionId) int { return 1 }, func(ids.SessionId) string { return "WARRIOR" })
	e.Talk(1, "zone:guard", 0)
	_, _, ok := e.Talk(1, "zone:guard", 0)
	require.False(t, ok)
}

func TestChooseEmptyNextNodeEndsConversation(t *testing.T) {
	e := NewEngine(map[ids.MobId]Tree{"zone:guard": sampleTree()}, fakeQuests{}, func(ids.SessionId) int { return 1 }, func(ids.SessionId) string { return "WARRIOR" })
	e.Talk(1, "zone:guard", 0)
	_, _, _, ok := e.Choose(1, 0)
	require.True(t, ok)
	require.False(t, e.HasActiveConversation(1))
}

func TestOnPlayerMovedEndsConversation(t *testing.T) {
	e := NewEngine(map[ids.MobId]Tree{"zone:guard": sampleTree()}, fakeQuests{}, func(ids.SessionId) int { return 1 }, func(ids.SessionId) string { return "WARRIOR" })
	e.Talk(1, "zone:guard", 0)
	e.OnPlayerMoved(1)
	require.False(t, e.HasActiveConversation(1))
}

func TestLevelGateHidesChoiceUntilMet(t *testing.T) {
	e := NewEngine(map[ids.MobId]Tree{"zone:guard": sampleTree()}, fakeQuests{}, func(ids.SessionId) int { return 10 }, func(ids.SessionId) string { return "WARRIOR" })
	_, choices, _ := e.Talk(1, "zone:guard", 0)
	require.Len(t, choices, 2)
}
