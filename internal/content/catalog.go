// Package content supplies the baked-in authored game content this
// server ships with: the starter zone (rooms, mobs, items, a shop, a
// quest, a dialogue tree), the ability and status-effect catalogs, and
// the class/race starting-stats table spec §4.12 requires at character
// creation. Grounded on the teacher's hardcoded room/zone seed data in
// internal/database/rooms.go, re-expressed as world.ZoneDocument
// literals instead of SQL INSERTs since the core now holds an
// immutable in-memory World rather than a row-per-room database.
package content

import (
	"github.com/ambonmud/ambonmud/internal/ability"
	"github.com/ambonmud/ambonmud/internal/dialogue"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/ambonmud/ambonmud/internal/quest"
	"github.com/ambonmud/ambonmud/internal/shop"
	"github.com/ambonmud/ambonmud/internal/status"
	"github.com/ambonmud/ambonmud/internal/world"
)

const zoneName = "town"

// StarterZone is the single authored zone this server boots with.
func StarterZone() world.ZoneDocument {
	return world.ZoneDocument{
		Zone:      zoneName,
		StartRoom: "square",
		Rooms: []world.RoomDoc{
			{
				Local:       "square",
				Title:       "Town Square",
				Description: "Cobblestones radiate out from a mossy fountain at the center of town. A general store and a path into the forest lie to the north and east.",
				Exits: []world.ExitDoc{
					{Direction: ids.North, Target: "store"},
					{Direction: ids.East, Target: "forest_edge"},
				},
			},
			{
				Local:       "store",
				Title:       "General Store",
				Description: "Shelves of rope, lanterns, and dented armor line the walls. A shopkeeper eyes you from behind the counter.",
				Exits: []world.ExitDoc{
					{Direction: ids.South, Target: "square"},
				},
			},
			{
				Local:       "forest_edge",
				Title:       "Forest Edge",
				Description: "The cobblestones give way to packed dirt. Something rustles in the underbrush.",
				Exits: []world.ExitDoc{
					{Direction: ids.West, Target: "square"},
				},
			},
		},
		Mobs: []world.MobDoc{
			{
				Local:          "shopkeeper",
				Name:           "the shopkeeper",
				RoomLocal:      "store",
				Tier:           "standard",
				Level:          1,
				RespawnSeconds: 0,
				Dialogue:       "shopkeeper_greeting",
				BehaviorTree:   "stationary_aggro",
			},
			{
				Local:          "rat",
				Name:           "a mangy rat",
				RoomLocal:      "forest_edge",
				Tier:           "standard",
				Level:          1,
				GoldMin:        1,
				GoldMax:        4,
				RespawnSeconds: 60,
				BehaviorTree:   "wander_aggro",
				Drops: []world.DropEntry{
					{ItemId: ids.NewItemId(zoneName, "rat_tail"), Chance: 0.5},
				},
				QuestIds: []string{"clear_the_rats"},
			},
		},
		Items: []world.ItemDoc{
			{
				Local: "rusty_sword",
				Item: world.Item{
					Keyword: "sword", DisplayName: "a rusty sword", Description: "Its edge has seen better decades.",
					Slot: world.SlotHand, Damage: 3, BasePrice: 15,
				},
				HasRoom: false, // unplaced template; stocked by the general store shop
			},
			{
				Local: "healing_potion",
				Item: world.Item{
					Keyword: "potion", DisplayName: "a healing potion", Description: "Smells faintly of cherries.",
					Consumable: true, Charges: 1, OnUse: &world.OnUseEffect{HealHp: 20}, BasePrice: 10,
				},
				HasRoom: false, // unplaced template; stocked by the general store shop
			},
			{
				Local: "rat_tail",
				Item: world.Item{
					Keyword: "tail", DisplayName: "a rat tail", Description: "Proof of the kill.", MatchByKey: true, BasePrice: 1,
				},
			},
		},
		Shops: []world.ShopDefinition{
			{
				Id: "general_store", Name: "General Store", RoomId: ids.NewRoomId(zoneName, "store"),
				ItemIds:    []ids.ItemId{ids.NewItemId(zoneName, "rusty_sword"), ids.NewItemId(zoneName, "healing_potion")},
				SellMarkup: 1.25, BuyMarkup: 0.5,
			},
		},
		Quests: []world.QuestDefinition{
			{
				Id: "clear_the_rats", Name: "Clear the Rats", Description: "Thin the rats nesting at the forest edge.",
				GiverMobId: ids.NewMobId(zoneName, "shopkeeper"), XpReward: 50, GoldReward: 10,
			},
		},
		LifespanMinutes: 30,
	}
}

// QuestDefinitions returns the quest engine's view of the authored
// quests: world.QuestDefinition carries only the display/reward shape
// zone documents share across loaders, so the objective itself (what
// counts as progress) is attached here instead.
func QuestDefinitions() map[string]quest.Definition {
	ratId := ids.NewMobId(zoneName, "rat")
	shopkeeper := ids.NewMobId(zoneName, "shopkeeper")
	return map[string]quest.Definition{
		"clear_the_rats": {
			Id:            "clear_the_rats",
			Title:         "Clear the Rats",
			Description:   "Thin the rats nesting at the forest edge.",
			RequiredLevel: 1,
			GiverMobId:    shopkeeper,
			HasGiver:      true,
			Objective:     quest.Objective{Kind: quest.ObjectiveKillCount, MobId: ratId, Count: 3},
			RewardXp:      50,
			RewardGold:    10,
		},
	}
}

// ShopDefinitions returns the shop engine's view of the authored shops,
// keyed by the mob who runs the counter.
func ShopDefinitions() map[ids.MobId]shop.Definition {
	shopkeeper := ids.NewMobId(zoneName, "shopkeeper")
	return map[ids.MobId]shop.Definition{
		shopkeeper: {
			MobId:          shopkeeper,
			ItemIds:        []ids.ItemId{ids.NewItemId(zoneName, "rusty_sword"), ids.NewItemId(zoneName, "healing_potion")},
			BuyMultiplier:  1.25,
			SellMultiplier: 0.5,
		},
	}
}

// DialogueTrees returns the conversation trees keyed by mob id.
func DialogueTrees() map[ids.MobId]dialogue.Tree {
	shopkeeper := ids.NewMobId(zoneName, "shopkeeper")
	return map[ids.MobId]dialogue.Tree{
		shopkeeper: {
			Id:        "shopkeeper_greeting",
			StartNode: "greet",
			Nodes: map[dialogue.NodeId]dialogue.Node{
				"greet": {
					Id:   "greet",
					Text: "\"Welcome, traveler. Rats have been getting into the cellar again.\"",
					Choices: []dialogue.Choice{
						{Text: "Accept the rat-clearing job.", NextNode: "", Effect: &dialogue.Effect{Kind: dialogue.EffectStartQuest, QuestId: "clear_the_rats"}},
						{Text: "Browse your wares.", NextNode: ""},
						{Text: "Farewell.", NextNode: ""},
					},
				},
			},
		},
	}
}

// AbilityDefinitions returns the baked-in ability catalog (spec §4.9).
func AbilityDefinitions() map[ids.AbilityId]ability.Definition {
	slash := ids.NewAbilityId(zoneName, "power_strike")
	missile := ids.NewAbilityId(zoneName, "magic_missile")
	heal := ids.NewAbilityId(zoneName, "minor_heal")
	taunt := ids.NewAbilityId(zoneName, "taunt")
	return map[ids.AbilityId]ability.Definition{
		slash: {
			Id: slash, DisplayName: "Power Strike", LevelRequired: 1,
			Classes: []string{string(player.ClassWarrior)}, ManaCost: 0, CooldownMs: 4000,
			Target: ability.TargetEnemy, Effect: ability.EffectDirectDamage, Amount: 8,
		},
		missile: {
			Id: missile, DisplayName: "Magic Missile", LevelRequired: 1,
			Classes: []string{string(player.ClassMage)}, ManaCost: 10, CooldownMs: 1500,
			Target: ability.TargetEnemy, Effect: ability.EffectDirectDamage, Amount: 12,
		},
		heal: {
			Id: heal, DisplayName: "Minor Heal", LevelRequired: 1,
			Classes: []string{string(player.ClassCleric)}, ManaCost: 8, CooldownMs: 3000,
			Target: ability.TargetSelf, Effect: ability.EffectDirectHeal, Amount: 15,
		},
		taunt: {
			Id: taunt, DisplayName: "Taunt", LevelRequired: 2,
			Classes: []string{string(player.ClassWarrior)}, ManaCost: 0, CooldownMs: 8000,
			Target: ability.TargetEnemy, Effect: ability.EffectTaunt,
		},
	}
}

// StatusEffectDefinitions returns the baked-in status catalog (spec §4.8).
func StatusEffectDefinitions() map[ids.StatusEffectId]status.Definition {
	poison := ids.NewStatusEffectId(zoneName, "poison")
	regen := ids.NewStatusEffectId(zoneName, "regen")
	shield := ids.NewStatusEffectId(zoneName, "shield")
	return map[ids.StatusEffectId]status.Definition{
		poison: {
			Id: poison, DisplayName: "Poisoned", Type: status.DOT,
			DurationMs: 10000, TickIntervalMs: 2000, TickMin: 2, TickMax: 4,
			StackBehavior: status.Refresh,
		},
		regen: {
			Id: regen, DisplayName: "Regenerating", Type: status.HOT,
			DurationMs: 10000, TickIntervalMs: 2000, TickMin: 3, TickMax: 5,
			StackBehavior: status.Refresh,
		},
		shield: {
			Id: shield, DisplayName: "Shielded", Type: status.Shield,
			DurationMs: 15000, ShieldAmount: 25, StackBehavior: status.None,
		},
	}
}

// StartingStats implements the player.Registry startingStats callback:
// class sets the primary-stat lean, race applies a small modifier on
// top, per spec §4.12.
func StartingStats(class player.Class, race player.Race) (str, dex, con, intel, wis, cha, baseMaxHp int) {
	str, dex, con, intel, wis, cha = 10, 10, 10, 10, 10, 10
	switch class {
	case player.ClassWarrior:
		str, con = 15, 13
	case player.ClassMage:
		intel, wis = 15, 12
	case player.ClassCleric:
		wis, con = 15, 12
	case player.ClassRogue:
		dex, cha = 15, 12
	}
	switch race {
	case player.RaceHuman:
		cha++
	case player.RaceElf:
		dex++
		con--
	case player.RaceDwarf:
		con++
		dex--
	case player.RaceOrc:
		str++
		intel--
	}
	baseMaxHp = 50 + con*2
	return
}

// ParseClass and ParseRace accept the single-letter shortcuts spec §4.12
// uses at the character-creation prompts.
func ParseClass(s string) (player.Class, bool) {
	switch s {
	case "W", "w", "warrior", "WARRIOR":
		return player.ClassWarrior, true
	case "M", "m", "mage", "MAGE":
		return player.ClassMage, true
	case "C", "c", "cleric", "CLERIC":
		return player.ClassCleric, true
	case "R", "r", "rogue", "ROGUE":
		return player.ClassRogue, true
	}
	return "", false
}

func ParseRace(s string) (player.Race, bool) {
	switch s {
	case "H", "h", "human", "HUMAN":
		return player.RaceHuman, true
	case "E", "e", "elf", "ELF":
		return player.RaceElf, true
	case "D", "d", "dwarf", "DWARF":
		return player.RaceDwarf, true
	case "O", "o", "orc", "ORC":
		return player.RaceOrc, true
	}
	return "", false
}
