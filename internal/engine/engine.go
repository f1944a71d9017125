// Package engine is the single serial worker that owns every piece of
// mutable game state (spec §5): it drains the inbound bus, advances
// the login state machine or dispatches in-game commands, runs the
// scheduler, ticks status/behavior/combat, and publishes render events
// onto the outbound bus. Grounded on the teacher's Server.Run event
// loop in cmd/server/main.go, generalized from a registration/shutdown
// select loop into the full fixed-tick simulation step spec §4.1
// describes.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/ability"
	"github.com/ambonmud/ambonmud/internal/behavior"
	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/clock"
	"github.com/ambonmud/ambonmud/internal/combat"
	"github.com/ambonmud/ambonmud/internal/config"
	"github.com/ambonmud/ambonmud/internal/content"
	"github.com/ambonmud/ambonmud/internal/dialogue"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/items"
	"github.com/ambonmud/ambonmud/internal/metrics"
	"github.com/ambonmud/ambonmud/internal/mobs"
	"github.com/ambonmud/ambonmud/internal/persistence"
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/ambonmud/ambonmud/internal/progression"
	"github.com/ambonmud/ambonmud/internal/quest"
	"github.com/ambonmud/ambonmud/internal/render"
	"github.com/ambonmud/ambonmud/internal/rng"
	"github.com/ambonmud/ambonmud/internal/scheduler"
	"github.com/ambonmud/ambonmud/internal/shop"
	"github.com/ambonmud/ambonmud/internal/status"
	"github.com/ambonmud/ambonmud/internal/world"
)

// Engine is not safe for concurrent use; Run is its sole entry point
// and everything it calls executes on that one goroutine (spec §5).
type Engine struct {
	cfg *config.Config
	log *zap.Logger

	world *world.World

	inbound  *bus.Inbound
	outbound *bus.Outbound
	clock    clock.Clock
	rng      rng.Source
	metrics  metrics.Sink

	players   *player.Registry
	mobReg    *mobs.Registry
	itemReg   *items.Registry
	statusE   *status.Engine
	abilityR  *ability.Registry
	combatE   *combat.Engine
	behaviorD *behavior.Driver
	dialog    *dialogue.Engine
	quests    *quest.Engine
	shops     *shop.Registry
	sched     *scheduler.Scheduler
	progCurve progression.Curve

	mobTemplates  map[ids.MobId]world.MobSpawn
	itemTemplates map[ids.ItemId]world.Item

	commands map[string]commandHandler

	gmcpNegotiated map[ids.SessionId]bool
	pendingMfa     map[ids.SessionId]bool

	nextZoneResetAt map[string]int64

	stop chan struct{}
}

// New wires every subsystem from the teacher's PHASE roadmap into one
// cohesive engine instance, seeding the baked-in starter zone content.
func New(cfg *config.Config, log *zap.Logger, repo persistence.PlayerRepository, clk clock.Clock, rngSrc rng.Source, sink metrics.Sink,
	inbound *bus.Inbound, outbound *bus.Outbound) (*Engine, error) {

	w, err := world.Load([]world.ZoneDocument{content.StarterZone()}, world.LoadOptions{})
	if err != nil {
		return nil, err
	}

	itemReg := items.NewRegistry()
	itemReg.LoadFromWorld(w)

	mobReg := mobs.NewRegistry()
	mobReg.SpawnFromWorld(w)

	mobTemplates := make(map[ids.MobId]world.MobSpawn, len(w.MobSpawns))
	for _, ms := range w.MobSpawns {
		mobTemplates[ms.Id] = ms
	}
	itemTemplates := make(map[ids.ItemId]world.Item, len(w.ItemSpawns))
	for _, is := range w.ItemSpawns {
		itemTemplates[is.Instance.Id] = is.Instance.Item
	}

	e := &Engine{
		cfg: cfg, log: log, world: w,
		inbound: inbound, outbound: outbound,
		clock: clk, rng: rngSrc, metrics: sink,
		players:        player.NewRegistry(repo, w.StartRoom),
		mobReg:         mobReg,
		itemReg:        itemReg,
		abilityR:       ability.NewRegistry(content.AbilityDefinitions()),
		sched:          scheduler.New(clk),
		progCurve:      progression.DefaultCurve,
		mobTemplates:   mobTemplates,
		itemTemplates:  itemTemplates,
		gmcpNegotiated: make(map[ids.SessionId]bool),
		pendingMfa:      make(map[ids.SessionId]bool),
		nextZoneResetAt: make(map[string]int64),
	}

	e.statusE = status.NewEngine(content.StatusEffectDefinitions(), hpSinkAdapter{e}, rngSrc)
	e.statusE.OnFade(e.onStatusFade)
	e.statusE.OnTick(e.onStatusTick)
	e.statusE.OnShatter(e.onStatusShatter)

	e.combatE = combat.NewEngine(2000, rngSrc, e.absorbDamage)
	e.behaviorD = behavior.NewDriver(3000, 8000, e.rollBehaviorDelay)
	e.quests = quest.NewEngine(content.QuestDefinitions(), e.questLevel, e.questRoomOf, e.questMobRoom)
	e.shops = shop.NewRegistry(content.ShopDefinitions(), e.shopValueLookup)
	e.dialog = dialogue.NewEngine(content.DialogueTrees(), questStateAdapter{e}, e.questLevel, e.playerClass)

	now := clk.NowMs()
	for _, ms := range w.MobSpawns {
		if ms.BehaviorTree != "" {
			e.behaviorD.Register(ms.Id, ms.BehaviorTree, now)
		}
	}
	for zone := range w.ZoneLifespansMinutes {
		e.scheduleZoneReset(zone, now)
	}

	e.registerCommands()
	e.stop = make(chan struct{})
	return e, nil
}

// Run executes the fixed-tick loop until Stop is called.
func (e *Engine) Run() {
	ticker := time.NewTicker(time.Duration(e.cfg.EngineTickMillis) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

func (e *Engine) tick() {
	budget := time.Duration(e.cfg.InboundBudgetMs) * time.Millisecond
	exceeded := e.inbound.Drain(budget, e.handleInbound)
	if exceeded {
		e.metrics.IncrCounter("engine.inbound_budget_exceeded", nil, 1)
	}

	ran, dropped := e.sched.RunDue(e.cfg.SchedulerMaxActionsPerTick)
	e.metrics.ObserveGauge("engine.scheduler.ran", nil, float64(ran))
	e.metrics.ObserveGauge("engine.scheduler.dropped", nil, float64(dropped))

	now := e.clock.NowMs()

	for _, kill := range e.statusE.Tick(now) {
		e.onMobDiedFromDot(kill)
	}

	e.tickBehavior(now)
	e.tickCombat(now)
}

func (e *Engine) handleInbound(ev events.InboundEvent) {
	switch ev.Kind {
	case events.Connected:
		e.onConnected(ev)
	case events.Disconnected:
		e.onDisconnected(ev)
	case events.LineReceived:
		e.onLine(ev.Sid, ev.Text)
	case events.GmcpReceived:
		// Inbound GMCP is accepted but spec names no client-originated
		// GMCP packages the engine must act on; negotiation alone is
		// enough for outbound rendering to unlock.
		e.gmcpNegotiated[ev.Sid] = true
	}
}

func (e *Engine) onConnected(ev events.InboundEvent) {
	st := e.players.Connect(ev.Sid, ev.AnsiEnabled)
	e.send(ev.Sid, bannerText(e.cfg.ServerName))
	e.promptForPhase(st)
}

func (e *Engine) onDisconnected(ev events.InboundEvent) {
	e.players.Disconnect(ev.Sid)
	e.abilityR.OnPlayerDisconnected(ev.Sid)
	e.combatE.OnPlayerDisconnected(ev.Sid)
	e.statusE.Purge(status.PlayerTarget(ev.Sid))
	e.dialog.OnPlayerDisconnected(ev.Sid)
	e.itemReg.OnSessionDisconnected(ev.Sid)
	delete(e.gmcpNegotiated, ev.Sid)
}

func bannerText(serverName string) string {
	return "Welcome to " + serverName + ".\r\nEnter your name: "
}

// VitalsFor and AnsiEnabled satisfy the render-callback shape the
// telnet/ws transports take at construction (internal/transport/*).
func (e *Engine) VitalsFor(sid ids.SessionId) (render.Vitals, bool) {
	st, ok := e.players.Get(sid)
	if !ok {
		return render.Vitals{}, false
	}
	return render.Vitals{Hp: st.Hp, MaxHp: st.MaxHp, Mana: st.Mana, MaxMana: st.MaxMana}, true
}

func (e *Engine) AnsiEnabled(sid ids.SessionId) bool {
	st, ok := e.players.Get(sid)
	return ok && st.AnsiEnabled
}

func (e *Engine) GmcpNegotiated(sid ids.SessionId) bool {
	return e.gmcpNegotiated[sid]
}
