// Package shop implements mob-attached buy/sell per SPEC_FULL.md
// §4.15, reusing the item registry's keyword matching for both sides
// of the counter.
package shop

import "github.com/ambonmud/ambonmud/internal/ids"

type Definition struct {
	MobId          ids.MobId
	ItemIds        []ids.ItemId // stock available to buy, by template id
	BuyMultiplier  float64      // price paid by the player, applied to item base value
	SellMultiplier float64      // price paid to the player for selling, applied to item base value
}

type BuyResult int

const (
	BuyOk BuyResult = iota
	BuyUnknownItem
	BuyInsufficientGold
	BuyNoSuchShop
)

type SellResult int

const (
	SellOk SellResult = iota
	SellNotAccepted
	SellNoSuchShop
)

// ValueLookup resolves an item template's base value; supplied by the
// caller so this package doesn't import items.
type ValueLookup func(itemId ids.ItemId) (value int, ok bool)

type Registry struct {
	shops map[ids.MobId]Definition
	value ValueLookup
}

func NewRegistry(shops map[ids.MobId]Definition, value ValueLookup) *Registry {
	return &Registry{shops: shops, value: value}
}

func (r *Registry) ShopAt(mobId ids.MobId) (Definition, bool) {
	d, ok := r.shops[mobId]
	return d, ok
}

// List returns each stocked item id with its buy price.
func (r *Registry) List(mobId ids.MobId) ([]ids.ItemId, map[ids.ItemId]int, bool) {
	d, ok := r.shops[mobId]
	if !ok {
		return nil, nil, false
	}
	prices := make(map[ids.ItemId]int, len(d.ItemIds))
	for _, itemId := range d.ItemIds {
		if v, ok := r.value(itemId); ok {
			prices[itemId] = int(float64(v) * d.BuyMultiplier)
		}
	}
	return d.ItemIds, prices, true
}

// Buy validates the purchase and returns the price; the caller debits
// gold and instantiates the item via the item registry.
func (r *Registry) Buy(mobId ids.MobId, itemId ids.ItemId, gold int) (price int, result BuyResult) {
	d, ok := r.shops[mobId]
	if !ok {
		return 0, BuyNoSuchShop
	}
	stocked := false
	for _, id := range d.ItemIds {
		if id == itemId {
			stocked = true
			break
		}
	}
	if !stocked {
		return 0, BuyUnknownItem
	}
	v, ok := r.value(itemId)
	if !ok {
		return 0, BuyUnknownItem
	}
	price = int(float64(v) * d.BuyMultiplier)
	if gold < price {
		return price, BuyInsufficientGold
	}
	return price, BuyOk
}

// Sell validates that the shop will accept the item (it stocks that
// template) and returns the credit; the caller removes the item from
// inventory and credits gold.
func (r *Registry) Sell(mobId ids.MobId, itemId ids.ItemId) (credit int, result SellResult) {
	d, ok := r.shops[mobId]
	if !ok {
		return 0, SellNoSuchShop
	}
	accepted := false
	for _, id := range d.ItemIds {
		if id == itemId {
			accepted = true
			break
		}
	}
	if !accepted {
		return 0, SellNotAccepted
	}
	v, ok := r.value(itemId)
	if !ok {
		return 0, SellNotAccepted
	}
	return int(float64(v) * d.SellMultiplier), SellOk
}
