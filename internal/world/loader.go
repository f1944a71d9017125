package world

import (
	"fmt"

	"github.com/ambonmud/ambonmud/internal/ids"
)

// ZoneDocument is the authored, pre-validation shape a loader parses
// zone content into before Load merges and qualifies it (spec §4.13).
// Ids here may be bare locals ("a1") or already zone-qualified
// ("zone:a1"); Load normalizes both.
type ZoneDocument struct {
	Zone                string
	StartRoom           string
	LifespanMinutes     int // 0 means "not set for this document"
	Rooms               []RoomDoc
	Mobs                []MobDoc
	Items               []ItemDoc
	Shops               []ShopDefinition
	Quests              []QuestDefinition
}

type ExitDoc struct {
	Direction ids.Direction
	Target    string // bare local or zone-qualified
	// Door spec fields are accepted by the object exit form but the
	// core world model does not yet interpret locked/keyed doors; kept
	// here so a richer loader can be layered on without reshaping the
	// document.
	Locked bool
	KeyId  string
}

type RoomDoc struct {
	Local       string
	Title       string
	Description string
	Exits       []ExitDoc
}

type MobDoc struct {
	Local          string
	Name           string
	RoomLocal      string
	Tier           string // defaults to "standard"
	Level          int
	Drops          []DropEntry
	RespawnSeconds int
	GoldMin        int
	GoldMax        int
	Dialogue       string
	BehaviorTree   string
	QuestIds       []string
}

type ItemDoc struct {
	Local      string
	Item       Item
	RoomLocal  string
	HasRoom    bool
	MobLocal   string // deprecated placement; see step 6
	HasMob     bool
}

// MobTier is a base/perLevel stat progression resolved at the declared
// level: base + (level-1)*perLevel (spec §4.13 step 5).
type MobTier struct {
	BaseMaxHp        int
	PerLevelMaxHp    int
	BaseMinDamage    int
	PerLevelMinDamage int
	BaseMaxDamage    int
	PerLevelMaxDamage int
	BaseArmor        int
	PerLevelArmor    int
	BaseXpReward     int
	PerLevelXpReward int
}

// DefaultTiers is the built-in mob tier table; config may override or
// extend it (spec §6 "mob tier table").
var DefaultTiers = map[string]MobTier{
	"standard": {
		BaseMaxHp: 20, PerLevelMaxHp: 8,
		BaseMinDamage: 1, PerLevelMinDamage: 1,
		BaseMaxDamage: 3, PerLevelMaxDamage: 2,
		BaseArmor: 0, PerLevelArmor: 1,
		BaseXpReward: 10, PerLevelXpReward: 5,
	},
	"elite": {
		BaseMaxHp: 60, PerLevelMaxHp: 15,
		BaseMinDamage: 3, PerLevelMinDamage: 2,
		BaseMaxDamage: 7, PerLevelMaxDamage: 3,
		BaseArmor: 3, PerLevelArmor: 2,
		BaseXpReward: 40, PerLevelXpReward: 12,
	},
	"boss": {
		BaseMaxHp: 200, PerLevelMaxHp: 30,
		BaseMinDamage: 8, PerLevelMinDamage: 3,
		BaseMaxDamage: 15, PerLevelMaxDamage: 5,
		BaseArmor: 8, PerLevelArmor: 3,
		BaseXpReward: 150, PerLevelXpReward: 40,
	},
}

func resolveTier(tier MobTier, level int) (maxHp, minDmg, maxDmg, armor, xp int) {
	if level < 1 {
		level = 1
	}
	steps := level - 1
	return tier.BaseMaxHp + steps*tier.PerLevelMaxHp,
		tier.BaseMinDamage + steps*tier.PerLevelMinDamage,
		tier.BaseMaxDamage + steps*tier.PerLevelMaxDamage,
		tier.BaseArmor + steps*tier.PerLevelArmor,
		tier.BaseXpReward + steps*tier.PerLevelXpReward
}

// LoadError names the offending source document and field, per spec
// §7's "detailed message names the offending source and field" fatal
// world-load error policy.
type LoadError struct {
	Zone    string
	Field   string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("world load error in zone %q, field %q: %s", e.Zone, e.Field, e.Message)
}

func newLoadError(zone, field, format string, args ...any) *LoadError {
	return &LoadError{Zone: zone, Field: field, Message: fmt.Sprintf(format, args...)}
}

// LoadOptions controls optional zone filtering (spec §4.13 step 7) and
// tier table overrides.
type LoadOptions struct {
	// ZoneFilter, if non-nil, restricts the merged world to the named
	// zones; exits pointing at filtered-out zones become remote exits
	// instead of load errors.
	ZoneFilter map[string]bool
	Tiers      map[string]MobTier
}

func qualify(zone, maybeQualified string) string {
	if maybeQualified == "" {
		return ""
	}
	if id, err := ids.ParseRoomIdLoose(maybeQualified); err == nil && id.Valid() {
		return id.String()
	}
	return ids.NewRoomId(zone, maybeQualified).String()
}

// Load merges an ordered list of zone documents into one immutable
// World, following the eight-step algorithm of spec §4.13. Errors are
// fatal and returned as *LoadError.
func Load(docs []ZoneDocument, opts LoadOptions) (*World, error) {
	tiers := opts.Tiers
	if tiers == nil {
		tiers = DefaultTiers
	}

	// Step 1: per-document structural validation.
	for _, d := range docs {
		if d.Zone == "" {
			return nil, newLoadError(d.Zone, "zone", "zone name must not be blank")
		}
		if len(d.Rooms) == 0 {
			return nil, newLoadError(d.Zone, "rooms", "zone must define at least one room")
		}
		if d.StartRoom == "" {
			return nil, newLoadError(d.Zone, "startRoom", "startRoom must not be blank")
		}
	}

	included := func(zone string) bool {
		if opts.ZoneFilter == nil {
			return true
		}
		return opts.ZoneFilter[zone]
	}

	rooms := make(map[ids.RoomId]Room)

	// Steps 2-4: normalize ids, merge rooms, stage exits.
	for _, d := range docs {
		if !included(d.Zone) {
			continue
		}
		for _, rd := range d.Rooms {
			rid := ids.NewRoomId(d.Zone, rd.Local)
			if _, dup := rooms[rid]; dup {
				return nil, newLoadError(d.Zone, "rooms", "duplicate room id %q across zones", rid)
			}
			exits := make(map[ids.Direction]ids.RoomId, len(rd.Exits))
			for _, ex := range rd.Exits {
				target := qualify(d.Zone, ex.Target)
				rtid, err := ids.ParseRoomId(target)
				if err != nil {
					return nil, newLoadError(d.Zone, "exits", "room %q direction %v has invalid target %q", rid, ex.Direction, ex.Target)
				}
				exits[ex.Direction] = rtid
			}
			rooms[rid] = Room{
				Id:          rid,
				Title:       rd.Title,
				Description: rd.Description,
				Exits:       exits,
				RemoteExits: make(map[ids.Direction]bool),
			}
		}
	}

	var mobSpawns []MobSpawn
	var itemSpawns []ItemSpawn
	var shops []ShopDefinition
	var quests []QuestDefinition
	lifespans := make(map[string]int)

	// Step 5: stage mobs with tier resolution.
	for _, d := range docs {
		if !included(d.Zone) {
			continue
		}
		if d.LifespanMinutes > 0 {
			if existing, ok := lifespans[d.Zone]; ok && existing != d.LifespanMinutes {
				return nil, newLoadError(d.Zone, "zoneLifespanMinutes", "inconsistent lifespan across documents for zone %q: %d vs %d", d.Zone, existing, d.LifespanMinutes)
			}
			lifespans[d.Zone] = d.LifespanMinutes
		}

		for _, md := range d.Mobs {
			tierName := md.Tier
			if tierName == "" {
				tierName = "standard"
			}
			tier, ok := tiers[tierName]
			if !ok {
				return nil, newLoadError(d.Zone, "mobs.tier", "unknown mob tier %q for mob %q", tierName, md.Local)
			}
			maxHp, minDmg, maxDmg, armor, xp := resolveTier(tier, md.Level)
			for _, drop := range md.Drops {
				if drop.Chance < 0 || drop.Chance > 1 {
					return nil, newLoadError(d.Zone, "mobs.drops.chance", "mob %q drop chance %v out of [0,1]", md.Local, drop.Chance)
				}
			}
			mobSpawns = append(mobSpawns, MobSpawn{
				Id:             ids.NewMobId(d.Zone, md.Local),
				Name:           md.Name,
				RoomId:         ids.NewRoomId(d.Zone, md.RoomLocal),
				MaxHp:          maxHp,
				MinDamage:      minDmg,
				MaxDamage:      maxDmg,
				Armor:          armor,
				XpReward:       xp,
				Drops:          md.Drops,
				RespawnSeconds: md.RespawnSeconds,
				GoldMin:        md.GoldMin,
				GoldMax:        md.GoldMax,
				Dialogue:       md.Dialogue,
				BehaviorTree:   md.BehaviorTree,
				QuestIds:       md.QuestIds,
			})
		}

		// Step 6: stage items with validation.
		for _, idoc := range d.Items {
			if idoc.HasRoom && idoc.HasMob {
				return nil, newLoadError(d.Zone, "items.placement", "item %q specifies both room and mob placement; mob placement is deprecated and mutually exclusive with room", idoc.Local)
			}
			it := idoc.Item
			if it.Damage < 0 || it.Armor < 0 {
				return nil, newLoadError(d.Zone, "items.damage/armor", "item %q has negative damage or armor", idoc.Local)
			}
			for _, v := range []int{it.StrBonus, it.DexBonus, it.ConBonus, it.IntBonus, it.WisBonus, it.ChaBonus} {
				if v < 0 {
					return nil, newLoadError(d.Zone, "items.statBonus", "item %q has a negative stat bonus", idoc.Local)
				}
			}
			switch it.Slot {
			case "", SlotHead, SlotBody, SlotHand:
			default:
				return nil, newLoadError(d.Zone, "items.slot", "item %q has invalid slot %q", idoc.Local, it.Slot)
			}

			spawn := ItemSpawn{
				Instance: ItemInstance{Id: ids.NewItemId(d.Zone, idoc.Local), Item: it},
			}
			if idoc.HasRoom {
				spawn.RoomId = ids.NewRoomId(d.Zone, idoc.RoomLocal)
				spawn.HasRoom = true
			} else if idoc.HasMob {
				// Deprecated: treated as an unplaced template; the mob
				// registry instantiates drop copies from itemTemplates
				// instead of relying on a placed spawn.
				spawn.HasRoom = false
			}
			itemSpawns = append(itemSpawns, spawn)
		}

		shops = append(shops, d.Shops...)
		quests = append(quests, d.Quests...)
	}

	// Step 7: post-merge exit resolution, recording remote exits for
	// filtered-out zones instead of failing.
	for rid, room := range rooms {
		for dir, target := range room.Exits {
			if _, ok := rooms[target]; ok {
				continue
			}
			if opts.ZoneFilter != nil && !opts.ZoneFilter[target.Zone()] {
				room.RemoteExits[dir] = true
				delete(room.Exits, dir)
				rooms[rid] = room
				continue
			}
			return nil, newLoadError(rid.Zone(), "exits", "room %q exit %v targets nonexistent room %q", rid, dir, target)
		}
	}

	// Step 8: cross-reference validation.
	var worldStart ids.RoomId
	for _, d := range docs {
		if !included(d.Zone) {
			continue
		}
		rid := ids.NewRoomId(d.Zone, d.StartRoom)
		if _, ok := rooms[rid]; !ok {
			return nil, newLoadError(d.Zone, "startRoom", "startRoom %q does not exist in merged rooms", rid)
		}
		if worldStart == "" {
			worldStart = rid
		}
	}
	if worldStart == "" {
		return nil, newLoadError("", "startRoom", "no zone documents contributed a startRoom")
	}

	for _, ms := range mobSpawns {
		if _, ok := rooms[ms.RoomId]; !ok {
			return nil, newLoadError(ms.Id.Zone(), "mobs.roomId", "mob %q roomId %q does not exist", ms.Id, ms.RoomId)
		}
		for _, drop := range ms.Drops {
			if !itemExists(itemSpawns, drop.ItemId) {
				return nil, newLoadError(ms.Id.Zone(), "mobs.drops.itemId", "mob %q drop references unknown item %q", ms.Id, drop.ItemId)
			}
		}
	}
	for _, is := range itemSpawns {
		if is.HasRoom {
			if _, ok := rooms[is.RoomId]; !ok {
				return nil, newLoadError(is.Instance.Id.Zone(), "items.roomId", "item %q roomId %q does not exist", is.Instance.Id, is.RoomId)
			}
		}
	}

	return &World{
		Rooms:                rooms,
		StartRoom:            worldStart,
		MobSpawns:            mobSpawns,
		ItemSpawns:           itemSpawns,
		ZoneLifespansMinutes: lifespans,
		ShopDefinitions:      shops,
		QuestDefinitions:     quests,
	}, nil
}

func itemExists(spawns []ItemSpawn, id ids.ItemId) bool {
	for _, s := range spawns {
		if s.Instance.Id == id {
			return true
		}
	}
	return false
}
