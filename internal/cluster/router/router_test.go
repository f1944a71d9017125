package router

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func TestNodeForIsStableAcrossCalls(t *testing.T) {
	r := New([]string{"engine-a:9000", "engine-b:9000", "engine-c:9000"})
	sid := ids.SessionId(123456789)
	first := r.NodeFor(sid)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, r.NodeFor(sid))
	}
}

func TestNodeForDistributesAcrossNodes(t *testing.T) {
	r := New([]string{"engine-a:9000", "engine-b:9000", "engine-c:9000"})
	seen := map[string]bool{}
	for i := ids.SessionId(0); i < 300; i++ {
		seen[r.NodeFor(i)] = true
	}
	require.Len(t, seen, 3)
}

func TestAddIncorporatesNewNode(t *testing.T) {
	r := New([]string{"engine-a:9000"})
	require.Equal(t, "engine-a:9000", r.NodeFor(1))
	r.Add("engine-b:9000")
	require.Len(t, r.Nodes(), 2)
}

func TestRemoveRebuildsRing(t *testing.T) {
	r := New([]string{"engine-a:9000", "engine-b:9000"})
	r.Remove("engine-a:9000")
	require.Equal(t, []string{"engine-b:9000"}, r.Nodes())
	require.Equal(t, "engine-b:9000", r.NodeFor(42))
}
