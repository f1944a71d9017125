// Package behavior implements the per-mob behavior-tree driver of
// spec §4.6: node primitives (selector/sequence/inverter/cooldown),
// condition/action leaves, and per-mob scheduling and memory.
package behavior

import "github.com/ambonmud/ambonmud/internal/ids"

// Status is a node's tick result.
type Status int

const (
	Success Status = iota
	Failure
	Running
)

// Memory is the mutable per-mob scratch state a tree reads/writes
// while ticking; it mirrors mobs.Memory's cooldown/patrol fields
// without this package depending on the mobs package.
type Memory struct {
	PatrolIndex        int
	CooldownTimestamps map[string]int64
}

// Env is everything a node needs to evaluate conditions and perform
// actions, supplied by the engine so this package has no dependency on
// mobs/player/combat.
type Env struct {
	Mob        ids.MobId
	NowMs      int64
	Memory     *Memory
	IsInCombat func(mob ids.MobId) bool
	HpPercent  func(mob ids.MobId) float64
	PlayerInRoom func(mob ids.MobId) (ids.SessionId, bool)
	Aggro      func(mob ids.MobId, target ids.SessionId)
	Wander     func(mob ids.MobId)
	Patrol     func(mob ids.MobId, waypointIndex int) (nextIndex int)
	Flee       func(mob ids.MobId)
	Say        func(mob ids.MobId, message string)
}

// Node is the common interface every behavior-tree node implements.
type Node interface {
	Tick(env *Env) Status
}

// Selector returns the first non-Failure child result.
type Selector struct{ Children []Node }

func (s *Selector) Tick(env *Env) Status {
	for _, c := range s.Children {
		if res := c.Tick(env); res != Failure {
			return res
		}
	}
	return Failure
}

// Sequence returns the first non-Success child result.
type Sequence struct{ Children []Node }

func (s *Sequence) Tick(env *Env) Status {
	for _, c := range s.Children {
		if res := c.Tick(env); res != Success {
			return res
		}
	}
	return Success
}

// Inverter flips Success<->Failure; Running passes through.
type Inverter struct{ Child Node }

func (i *Inverter) Tick(env *Env) Status {
	switch i.Child.Tick(env) {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return Running
	}
}

// Cooldown gates its child behind a per-key interval.
type Cooldown struct {
	Key   string
	Ms    int64
	Child Node
}

func (c *Cooldown) Tick(env *Env) Status {
	if env.Memory.CooldownTimestamps == nil {
		env.Memory.CooldownTimestamps = make(map[string]int64)
	}
	last, ok := env.Memory.CooldownTimestamps[c.Key]
	if ok && env.NowMs-last < c.Ms {
		return Failure
	}
	res := c.Child.Tick(env)
	if res == Success {
		env.Memory.CooldownTimestamps[c.Key] = env.NowMs
	}
	return res
}

// Condition leaves.

type IsInCombat struct{}

func (IsInCombat) Tick(env *Env) Status {
	if env.IsInCombat(env.Mob) {
		return Success
	}
	return Failure
}

type IsHpBelow struct{ Pct float64 }

func (c IsHpBelow) Tick(env *Env) Status {
	if env.HpPercent(env.Mob) < c.Pct {
		return Success
	}
	return Failure
}

type IsPlayerInRoom struct{}

func (IsPlayerInRoom) Tick(env *Env) Status {
	if _, ok := env.PlayerInRoom(env.Mob); ok {
		return Success
	}
	return Failure
}

// Action leaves.

type AggroAction struct{}

func (AggroAction) Tick(env *Env) Status {
	target, ok := env.PlayerInRoom(env.Mob)
	if !ok {
		return Failure
	}
	env.Aggro(env.Mob, target)
	return Success
}

type WanderAction struct{}

func (WanderAction) Tick(env *Env) Status {
	env.Wander(env.Mob)
	return Success
}

type PatrolAction struct{ Route []string }

func (p PatrolAction) Tick(env *Env) Status {
	if len(p.Route) == 0 {
		return Failure
	}
	env.Memory.PatrolIndex = env.Patrol(env.Mob, env.Memory.PatrolIndex)
	return Success
}

type FleeAction struct{}

func (FleeAction) Tick(env *Env) Status {
	env.Flee(env.Mob)
	return Success
}

type SayAction struct{ Message string }

func (s SayAction) Tick(env *Env) Status {
	env.Say(env.Mob, s.Message)
	return Success
}

type StationaryAction struct{}

func (StationaryAction) Tick(env *Env) Status { return Success }

// Templates builds the named tree templates spec §4.6 enumerates.
func Templates() map[string]func() Node {
	return map[string]func() Node{
		"aggro_guard": func() Node {
			return &Selector{Children: []Node{
				&Sequence{Children: []Node{IsPlayerInRoom{}, &Inverter{Child: IsInCombat{}}, AggroAction{}}},
				StationaryAction{},
			}}
		},
		"stationary_aggro": func() Node {
			return &Sequence{Children: []Node{IsPlayerInRoom{}, AggroAction{}}}
		},
		"patrol": func() Node {
			return PatrolAction{Route: []string{}}
		},
		"patrol_aggro": func() Node {
			return &Selector{Children: []Node{
				&Sequence{Children: []Node{IsPlayerInRoom{}, AggroAction{}}},
				PatrolAction{Route: []string{}},
			}}
		},
		"wander": func() Node {
			return WanderAction{}
		},
		"wander_aggro": func() Node {
			return &Selector{Children: []Node{
				&Sequence{Children: []Node{IsPlayerInRoom{}, AggroAction{}}},
				WanderAction{},
			}}
		},
		"coward": func() Node {
			return &Selector{Children: []Node{
				&Sequence{Children: []Node{IsHpBelow{Pct: 0.25}, FleeAction{}}},
				&Sequence{Children: []Node{IsPlayerInRoom{}, AggroAction{}}},
			}}
		},
	}
}

// Driver ticks one mob's tree per its own randomized schedule, capped
// per engine tick (spec §4.6).
type Driver struct {
	trees   map[ids.MobId]Node
	memory  map[ids.MobId]*Memory
	nextAt  map[ids.MobId]int64
	minMs, maxMs int64
	rollDelay func() int64
}

func NewDriver(minMs, maxMs int64, rollDelay func() int64) *Driver {
	return &Driver{
		trees:  make(map[ids.MobId]Node),
		memory: make(map[ids.MobId]*Memory),
		nextAt: make(map[ids.MobId]int64),
		minMs: minMs, maxMs: maxMs, rollDelay: rollDelay,
	}
}

func (d *Driver) Register(mob ids.MobId, templateName string, nowMs int64) {
	tpl, ok := Templates()[templateName]
	if !ok {
		return
	}
	d.trees[mob] = tpl()
	d.memory[mob] = &Memory{CooldownTimestamps: make(map[string]int64)}
	d.nextAt[mob] = nowMs + d.rollDelay()
}

// Despawn clears a mob's tree and memory (spec §4.6 "cleared on
// despawn").
func (d *Driver) Despawn(mob ids.MobId) {
	delete(d.trees, mob)
	delete(d.memory, mob)
	delete(d.nextAt, mob)
}

// Tick advances up to maxActionsPerTick due, non-rooted mobs. order is
// the shuffled iteration order the caller supplies (spec §4.6 "the
// system shuffles mobs"); this package does not own randomness for
// ordering, only for per-mob delay rolls.
func (d *Driver) Tick(order []ids.MobId, nowMs int64, maxActionsPerTick int, isRooted func(ids.MobId) bool, envFor func(ids.MobId, *Memory) *Env) {
	ran := 0
	for _, mob := range order {
		if ran >= maxActionsPerTick {
			return
		}
		tree, ok := d.trees[mob]
		if !ok {
			continue
		}
		if nowMs < d.nextAt[mob] {
			continue
		}
		if isRooted(mob) {
			continue
		}
		env := envFor(mob, d.memory[mob])
		tree.Tick(env)
		d.nextAt[mob] = nowMs + d.rollDelay()
		ran++
	}
}
