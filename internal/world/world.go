// Package world holds the immutable World value object (spec §3) and
// the multi-document loader that merges and validates zone documents
// into it (spec §4.13). Nothing in this package mutates after Load
// returns; World is shared read-only across the engine and any
// gateway workers (spec §9 "shared immutable world").
package world

import "github.com/ambonmud/ambonmud/internal/ids"

// Room is an immutable room record.
type Room struct {
	Id          ids.RoomId
	Title       string
	Description string
	Exits       map[ids.Direction]ids.RoomId
	RemoteExits map[ids.Direction]bool
}

// DropEntry is one independent Bernoulli trial on mob death.
type DropEntry struct {
	ItemId ids.ItemId
	Chance float64
}

// MobSpawn is an authored mob placement, stats resolved from tier at
// load time (spec §4.13 step 5).
type MobSpawn struct {
	Id             ids.MobId
	Name           string
	RoomId         ids.RoomId
	MaxHp          int
	MinDamage      int
	MaxDamage      int
	Armor          int
	XpReward       int
	Drops          []DropEntry
	RespawnSeconds int
	GoldMin        int
	GoldMax        int
	Dialogue       string
	BehaviorTree   string
	QuestIds       []string
}

// Slot names an equipment slot.
type Slot string

const (
	SlotHead Slot = "HEAD"
	SlotBody Slot = "BODY"
	SlotHand Slot = "HAND"
)

// OnUseEffect describes the effect of consuming/using an item.
type OnUseEffect struct {
	HealHp  int
	GrantXp int
}

// Item is the immutable definition shared by every ItemInstance
// stamped from it.
type Item struct {
	Keyword     string
	DisplayName string
	Description string
	Slot        Slot // empty if not equippable
	Damage      int
	Armor       int
	StrBonus    int
	DexBonus    int
	ConBonus    int
	IntBonus    int
	WisBonus    int
	ChaBonus    int
	Consumable  bool
	Charges     int // 0 means infinite
	OnUse       *OnUseEffect
	MatchByKey  bool
	BasePrice   int
}

// ItemInstance is a concrete, individually-identified item.
type ItemInstance struct {
	Id   ids.ItemId
	Item Item
}

// ItemSpawn is an authored item placement; exactly one of RoomId being
// set or unset per spec §4.13 step 6 (mob placement is deprecated and
// rejected when combined with a room placement).
type ItemSpawn struct {
	Instance ItemInstance
	RoomId   ids.RoomId // zero value means unplaced template
	HasRoom  bool
}

// ShopDefinition and QuestDefinition are authored straight through;
// the shop/quest packages interpret them.
type ShopDefinition struct {
	Id         string
	Name       string
	RoomId     ids.RoomId
	ItemIds    []ids.ItemId
	SellMarkup float64
	BuyMarkup  float64
}

type QuestChoice struct {
	Id              string
	Text            string
	MinLevel        int
	RequiredClasses []string
}

type QuestDefinition struct {
	Id          string
	Name        string
	Description string
	GiverMobId  ids.MobId
	XpReward    int
	GoldReward  int
	ItemRewards []ids.ItemId
}

// World is the fully merged, validated, immutable world.
type World struct {
	Rooms                map[ids.RoomId]Room
	StartRoom            ids.RoomId
	MobSpawns            []MobSpawn
	ItemSpawns           []ItemSpawn
	ZoneLifespansMinutes map[string]int
	ShopDefinitions      []ShopDefinition
	QuestDefinitions     []QuestDefinition
}

// RoomsInZone returns the ids of every room whose zone equals zone.
func (w *World) RoomsInZone(zone string) []ids.RoomId {
	var out []ids.RoomId
	for id := range w.Rooms {
		if id.Zone() == zone {
			out = append(out, id)
		}
	}
	return out
}
