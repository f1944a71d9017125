// Package items implements the item registry of spec §4.11: room,
// inventory, equipment, and mob-carried item collections with keyword
// matching, equip/unequip/use/give, and zone reset.
package items

import (
	"strings"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/world"
)

type EquipResult int

const (
	EquipOk EquipResult = iota
	EquipNotWearable
	EquipSlotOccupied
	EquipNotFound
)

type UseResult int

const (
	UseOk UseResult = iota
	UseNotFound
	UseNoCharges
)

type GiveResult int

const (
	GiveOk GiveResult = iota
	GiveNotFound
)

// Registry holds every live item collection. Not safe for concurrent
// use; the engine worker is its sole caller (spec §5).
type Registry struct {
	roomItems      map[ids.RoomId][]world.ItemInstance
	inventoryItems map[ids.SessionId][]world.ItemInstance
	mobItems       map[ids.MobId][]world.ItemInstance
	unplacedItems  map[ids.ItemId]world.ItemInstance
	equippedItems  map[ids.SessionId]map[world.Slot]world.ItemInstance
	equippedCharges map[ids.SessionId]map[world.Slot]int
	inventoryCharges map[ids.SessionId]map[ids.ItemId]int
	itemTemplates  map[ids.ItemId]world.ItemInstance
	idCounter      uint64
}

func NewRegistry() *Registry {
	return &Registry{
		roomItems:        make(map[ids.RoomId][]world.ItemInstance),
		inventoryItems:   make(map[ids.SessionId][]world.ItemInstance),
		mobItems:         make(map[ids.MobId][]world.ItemInstance),
		unplacedItems:    make(map[ids.ItemId]world.ItemInstance),
		equippedItems:    make(map[ids.SessionId]map[world.Slot]world.ItemInstance),
		equippedCharges:  make(map[ids.SessionId]map[world.Slot]int),
		inventoryCharges: make(map[ids.SessionId]map[ids.ItemId]int),
		itemTemplates:    make(map[ids.ItemId]world.ItemInstance),
	}
}

// LoadFromWorld seeds room placements and the unplaced/template pools
// from the immutable World (spec §4.11, §4.13).
func (r *Registry) LoadFromWorld(w *world.World) {
	for _, spawn := range w.ItemSpawns {
		r.itemTemplates[spawn.Instance.Id] = spawn.Instance
		if spawn.HasRoom {
			r.roomItems[spawn.RoomId] = append(r.roomItems[spawn.RoomId], spawn.Instance)
		} else {
			r.unplacedItems[spawn.Instance.Id] = spawn.Instance
		}
	}
}

func (r *Registry) nextInstanceId(templateId ids.ItemId) ids.ItemId {
	r.idCounter++
	return ids.ItemId(templateId.String() + "#" + itoa(r.idCounter))
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// InstantiateFromTemplate stamps a fresh ItemInstance from a known
// template (drop rolls, shop restock).
func (r *Registry) InstantiateFromTemplate(templateId ids.ItemId) (world.ItemInstance, bool) {
	tmpl, ok := r.itemTemplates[templateId]
	if !ok {
		return world.ItemInstance{}, false
	}
	return world.ItemInstance{Id: r.nextInstanceId(templateId), Item: tmpl.Item}, true
}

func (r *Registry) RoomItems(roomId ids.RoomId) []world.ItemInstance {
	return r.roomItems[roomId]
}

func (r *Registry) Inventory(sid ids.SessionId) []world.ItemInstance {
	return r.inventoryItems[sid]
}

func (r *Registry) Equipped(sid ids.SessionId) map[world.Slot]world.ItemInstance {
	return r.equippedItems[sid]
}

// AddToRoom places inst in roomId, e.g. on mob death drop.
func (r *Registry) AddToRoom(roomId ids.RoomId, inst world.ItemInstance) {
	r.roomItems[roomId] = append(r.roomItems[roomId], inst)
}

// AddToInventory gives inst to sid directly (pickup, reward).
func (r *Registry) AddToInventory(sid ids.SessionId, inst world.ItemInstance) {
	r.inventoryItems[sid] = append(r.inventoryItems[sid], inst)
	r.setCharges(sid, inst)
}

func (r *Registry) setCharges(sid ids.SessionId, inst world.ItemInstance) {
	if inst.Item.Charges <= 0 {
		return
	}
	m, ok := r.inventoryCharges[sid]
	if !ok {
		m = make(map[ids.ItemId]int)
		r.inventoryCharges[sid] = m
	}
	m[inst.Id] = inst.Item.Charges
}

// TakeFromRoom removes and returns the first item in roomId matching
// keyword (spec §4.11 keyword matching rules), or ok=false.
func (r *Registry) TakeFromRoom(roomId ids.RoomId, keyword string) (world.ItemInstance, bool) {
	list := r.roomItems[roomId]
	idx := matchIndex(list, keyword)
	if idx < 0 {
		return world.ItemInstance{}, false
	}
	inst := list[idx]
	r.roomItems[roomId] = append(list[:idx], list[idx+1:]...)
	return inst, true
}

// TakeFromInventory removes and returns the first item in sid's
// inventory matching keyword, the mirror image of TakeFromRoom used by
// drop/sell.
func (r *Registry) TakeFromInventory(sid ids.SessionId, keyword string) (world.ItemInstance, bool) {
	inv := r.inventoryItems[sid]
	idx := matchIndex(inv, keyword)
	if idx < 0 {
		return world.ItemInstance{}, false
	}
	inst := inv[idx]
	r.inventoryItems[sid] = append(inv[:idx], inv[idx+1:]...)
	delete(r.inventoryCharges[sid], inst.Id)
	return inst, true
}

// matchIndex implements spec §4.11's two-pass lookup: exact
// case-insensitive keyword first, then (if the query is at least 3
// chars) a substring match over displayName/description, skipping
// items with MatchByKey set.
func matchIndex(list []world.ItemInstance, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1
	}
	for i, inst := range list {
		if strings.ToLower(inst.Item.Keyword) == q {
			return i
		}
	}
	if len(q) < 3 {
		return -1
	}
	for i, inst := range list {
		if inst.Item.MatchByKey {
			continue
		}
		if strings.Contains(strings.ToLower(inst.Item.DisplayName), q) ||
			strings.Contains(strings.ToLower(inst.Item.Description), q) {
			return i
		}
	}
	return -1
}

// Equip finds the first matching inventory item by keyword and moves
// it into its slot (spec §4.11).
func (r *Registry) Equip(sid ids.SessionId, keyword string) EquipResult {
	inv := r.inventoryItems[sid]
	idx := matchIndex(inv, keyword)
	if idx < 0 {
		return EquipNotFound
	}
	inst := inv[idx]
	if inst.Item.Slot == "" {
		return EquipNotWearable
	}
	eq, ok := r.equippedItems[sid]
	if !ok {
		eq = make(map[world.Slot]world.ItemInstance)
		r.equippedItems[sid] = eq
	}
	if _, occupied := eq[inst.Item.Slot]; occupied {
		return EquipSlotOccupied
	}
	r.inventoryItems[sid] = append(inv[:idx], inv[idx+1:]...)
	eq[inst.Item.Slot] = inst
	return EquipOk
}

// Unequip is the inverse of Equip: moves the item in slot back to
// inventory.
func (r *Registry) Unequip(sid ids.SessionId, slot world.Slot) (world.ItemInstance, bool) {
	eq, ok := r.equippedItems[sid]
	if !ok {
		return world.ItemInstance{}, false
	}
	inst, ok := eq[slot]
	if !ok {
		return world.ItemInstance{}, false
	}
	delete(eq, slot)
	r.inventoryItems[sid] = append(r.inventoryItems[sid], inst)
	return inst, true
}

// Use decrements a finite charge item, consuming it on depletion
// (spec §4.11). The caller applies the OnUse effect itself.
func (r *Registry) Use(sid ids.SessionId, keyword string) (world.ItemInstance, UseResult) {
	inv := r.inventoryItems[sid]
	idx := matchIndex(inv, keyword)
	if idx < 0 {
		return world.ItemInstance{}, UseNotFound
	}
	inst := inv[idx]
	if inst.Item.Charges <= 0 {
		return inst, UseOk
	}
	charges := r.inventoryCharges[sid][inst.Id]
	if charges <= 0 {
		return inst, UseNoCharges
	}
	charges--
	r.inventoryCharges[sid][inst.Id] = charges
	if charges == 0 && inst.Item.Consumable {
		r.inventoryItems[sid] = append(inv[:idx], inv[idx+1:]...)
		delete(r.inventoryCharges[sid], inst.Id)
	}
	return inst, UseOk
}

// Give atomically moves one item matching keyword from fromSid's
// inventory (or equipment) to toSid's inventory.
func (r *Registry) Give(fromSid, toSid ids.SessionId, keyword string) GiveResult {
	inv := r.inventoryItems[fromSid]
	if idx := matchIndex(inv, keyword); idx >= 0 {
		inst := inv[idx]
		r.inventoryItems[fromSid] = append(inv[:idx], inv[idx+1:]...)
		r.AddToInventory(toSid, inst)
		return GiveOk
	}
	for slot, inst := range r.equippedItems[fromSid] {
		if strings.EqualFold(inst.Item.Keyword, keyword) {
			delete(r.equippedItems[fromSid], slot)
			r.AddToInventory(toSid, inst)
			return GiveOk
		}
	}
	return GiveNotFound
}

// MobDrop transfers a mob's carried items to a room, used on death.
func (r *Registry) MobDrop(mobId ids.MobId, roomId ids.RoomId) {
	for _, inst := range r.mobItems[mobId] {
		r.AddToRoom(roomId, inst)
	}
	delete(r.mobItems, mobId)
}

// OnSessionDisconnected purges no item state: it is a no-op kept for
// symmetry with the other registries' onPlayerDisconnected hooks
// documented in spec §9. Inventory and equipment stay keyed to the old
// session id and are not written to the player repository, so a
// reconnecting player starts with none.
func (r *Registry) OnSessionDisconnected(sid ids.SessionId) {}

// ResetZone filters out every room item whose id belongs to zone, then
// re-applies the zone's spawns (spec §4.11). Inventories and equipped
// items are never touched by a reset.
func (r *Registry) ResetZone(w *world.World, zone string) {
	for roomId, list := range r.roomItems {
		if roomId.Zone() != zone {
			continue
		}
		kept := list[:0]
		for _, inst := range list {
			if inst.Id.Zone() != zone {
				kept = append(kept, inst)
			}
		}
		r.roomItems[roomId] = kept
	}
	for _, spawn := range w.ItemSpawns {
		if spawn.Instance.Id.Zone() != zone || !spawn.HasRoom {
			continue
		}
		r.roomItems[spawn.RoomId] = append(r.roomItems[spawn.RoomId], spawn.Instance)
	}
}
