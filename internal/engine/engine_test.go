package engine

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/clock"
	"github.com/ambonmud/ambonmud/internal/config"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/metrics"
	"github.com/ambonmud/ambonmud/internal/persistence/memstore"
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/stretchr/testify/require"
)

// zeroSrc always rolls the minimum; maxSrc always rolls the maximum.
// Both satisfy rng.Source structurally without this package importing
// it just for the type name.
type zeroSrc struct{}

func (zeroSrc) Intn(n int) int   { return 0 }
func (zeroSrc) Float64() float64 { return 0 }

type maxSrc struct{}

func (maxSrc) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
func (maxSrc) Float64() float64 { return 0.999 }

func testConfig() *config.Config {
	return &config.Config{
		ServerName:                 "Test",
		EngineTickMillis:           100,
		InboundBudgetMs:            50,
		SchedulerMaxActionsPerTick: 256,
	}
}

// newTestEngine builds an Engine wired to an in-memory player
// repository and a manually-advanced clock, with the outbound router
// running so per-session frames can be observed.
func newTestEngine(t *testing.T, src interface {
	Intn(int) int
	Float64() float64
}) (*Engine, *clock.Mutable, *bus.Outbound, func()) {
	t.Helper()
	clk := clock.NewMutable(time.Unix(1_700_000_000, 0))
	inbound := bus.NewInbound(64)
	outbound := bus.NewOutbound(64, 16, 20*time.Millisecond, nil)

	e, err := New(testConfig(), zap.NewNop(), memstore.New(), clk, src, metrics.NewRecording(), inbound, outbound)
	require.NoError(t, err)

	stop := make(chan struct{})
	go outbound.RunDispatch(stop)
	return e, clk, outbound, func() { close(stop) }
}

// collectFrames drains q for up to timeout, returning whatever arrived.
func collectFrames(q *bus.SessionQueue, timeout time.Duration) []events.OutboundEvent {
	var out []events.OutboundEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-q.Frames:
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
}

func containsText(frames []events.OutboundEvent, substr string) bool {
	for _, f := range frames {
		if f.Kind == events.SendText && strings.Contains(f.Text, substr) {
			return true
		}
	}
	return false
}

// createWarrior drives a brand new character through the full login
// state machine, registering its outbound queue the way a transport
// would at connect time, and returns the in-game state plus its queue.
func createWarrior(t *testing.T, e *Engine, ob *bus.Outbound, sid ids.SessionId, name string) (*player.State, *bus.SessionQueue) {
	t.Helper()
	q := ob.Register(sid)
	e.onConnected(events.NewConnected(sid, events.TransportTelnet, true))
	e.onLine(sid, name)
	e.onLine(sid, "yes")
	e.onLine(sid, "hunter2")
	e.onLine(sid, "warrior")
	e.onLine(sid, "human")

	st, ok := e.players.Get(sid)
	require.True(t, ok)
	require.Equal(t, player.PhaseInGame, st.LoginPhase)
	return st, q
}

func TestLoginCreatesCharacterAndEntersStartRoom(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Tester")

	require.Equal(t, "Tester", st.Name)
	require.Equal(t, player.ClassWarrior, st.Class)
	require.Equal(t, player.RaceHuman, st.Race)
	require.Equal(t, ids.NewRoomId("town", "square"), st.RoomId)
	require.Equal(t, 1, st.Level)
	require.Equal(t, st.MaxHp, st.Hp)

	frames := collectFrames(q, 80*time.Millisecond)
	require.True(t, containsText(frames, "Welcome, Tester."))
	require.True(t, containsText(frames, "Town Square"))
}

func TestUnknownCommandReportsError(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Tester")
	collectFrames(q, 50*time.Millisecond) // drain the login/enter-game frames

	e.handleCommandLine(st, "frobnicate")

	frames := collectFrames(q, 50*time.Millisecond)
	require.True(t, containsText(frames, "Unknown command."))
}

func TestMoveUpdatesRoomAndBroadcastsToOthers(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	mover, _ := createWarrior(t, e, ob, 1, "Mover")
	witness, witnessQ := createWarrior(t, e, ob, 2, "Witness")
	collectFrames(witnessQ, 50*time.Millisecond)

	e.handleCommandLine(mover, "east")

	require.Equal(t, ids.NewRoomId("town", "forest_edge"), mover.RoomId)
	require.Equal(t, ids.NewRoomId("town", "square"), witness.RoomId)

	frames := collectFrames(witnessQ, 80*time.Millisecond)
	require.True(t, containsText(frames, "Mover leaves east."))
}

func TestCombatKillsMobAndAwardsGoldAndXp(t *testing.T) {
	e, clk, ob, teardown := newTestEngine(t, maxSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Slayer")
	collectFrames(q, 50*time.Millisecond)

	e.handleCommandLine(st, "east") // forest_edge, where the rat lives
	collectFrames(q, 50*time.Millisecond)

	ratId := ids.NewMobId("town", "rat")
	_, ok := e.mobReg.Get(ratId)
	require.True(t, ok)

	startGold := st.Gold
	startXp := st.XpTotal

	e.handleCommandLine(st, "kill rat")

	for i := 0; i < 10; i++ {
		clk.Advance(2 * time.Second)
		e.tickCombat(clk.NowMs())
		if _, alive := e.mobReg.Get(ratId); !alive {
			break
		}
	}

	_, alive := e.mobReg.Get(ratId)
	require.False(t, alive, "rat should have died within the swing budget")
	require.Greater(t, st.XpTotal, startXp)
	require.GreaterOrEqual(t, st.Gold, startGold)

	frames := collectFrames(q, 80*time.Millisecond)
	require.True(t, containsText(frames, "dies."))
}

func TestShopBuyDebitsGoldAndAddsItemToInventory(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Shopper")
	collectFrames(q, 50*time.Millisecond)

	st.Gold = 100
	e.handleCommandLine(st, "north") // square -> store
	collectFrames(q, 50*time.Millisecond)
	require.Equal(t, ids.NewRoomId("town", "store"), st.RoomId)

	e.handleCommandLine(st, "buy healing potion")

	require.Equal(t, 88, st.Gold) // 10 base * 1.25 buy multiplier, floored
	inv := e.itemReg.Inventory(st.SessionId)
	require.Len(t, inv, 1)
	require.Equal(t, "a healing potion", inv[0].Item.DisplayName)
}

func TestShopSellCreditsGoldAndRemovesItem(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Seller")
	collectFrames(q, 50*time.Millisecond)

	inst, ok := e.itemReg.InstantiateFromTemplate(ids.NewItemId("town", "rusty_sword"))
	require.True(t, ok)
	e.itemReg.AddToInventory(st.SessionId, inst)

	e.handleCommandLine(st, "north") // square -> store
	collectFrames(q, 50*time.Millisecond)

	before := st.Gold
	e.handleCommandLine(st, "sell sword")

	require.Equal(t, before+7, st.Gold) // 15 base * 0.5 sell multiplier, floored
	require.Empty(t, e.itemReg.Inventory(st.SessionId))
}

func TestQuestAcceptRequiresGiverInRoom(t *testing.T) {
	e, _, ob, teardown := newTestEngine(t, zeroSrc{})
	defer teardown()

	st, q := createWarrior(t, e, ob, 1, "Questgiver")
	collectFrames(q, 50*time.Millisecond)

	// The shopkeeper giving this quest lives in the store, not the
	// square the player starts in.
	e.handleCommandLine(st, "accept clear_the_rats")
	require.False(t, e.quests.IsActive(st.SessionId, "clear_the_rats"))

	e.handleCommandLine(st, "north")
	collectFrames(q, 50*time.Millisecond)
	e.handleCommandLine(st, "accept clear_the_rats")
	require.True(t, e.quests.IsActive(st.SessionId, "clear_the_rats"))
}

func TestTemplateIdOfRecoversTemplateFromInstanceId(t *testing.T) {
	tmpl := ids.NewItemId("town", "rat_tail")
	inst := ids.ItemId(tmpl.String() + "#42")
	require.Equal(t, tmpl, templateIdOf(inst))
	// an id with no instance suffix is returned unchanged
	require.Equal(t, tmpl, templateIdOf(tmpl))
}
