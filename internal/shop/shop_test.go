package shop

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/stretchr/testify/require"
)

func valueTable(m map[ids.ItemId]int) ValueLookup {
	return func(itemId ids.ItemId) (int, bool) {
		v, ok := m[itemId]
		return v, ok
	}
}

func TestListAppliesBuyMultiplier(t *testing.T) {
	shops := map[ids.MobId]Definition{
		"zone:merchant": {MobId: "zone:merchant", ItemIds: []ids.ItemId{"zone:sword"}, BuyMultiplier: 1.5, SellMultiplier: 0.5},
	}
	r := NewRegistry(shops, valueTable(map[ids.ItemId]int{"zone:sword": 100}))
	_, prices, ok := r.List("zone:merchant")
	require.True(t, ok)
	require.Equal(t, 150, prices["zone:sword"])
}

func TestBuyRejectsInsufficientGold(t *testing.T) {
	shops := map[ids.MobId]Definition{
		"zone:merchant": {MobId: "zone:merchant", ItemIds: []ids.ItemId{"zone:sword"}, BuyMultiplier: 1.0, SellMultiplier: 0.5},
	}
	r := NewRegistry(shops, valueTable(map[ids.ItemId]int{"zone:sword": 100}))
	price, res := r.Buy("zone:merchant", "zone:sword", 50)
	require.Equal(t, BuyInsufficientGold, res)
	require.Equal(t, 100, price)

	price, res = r.Buy("zone:merchant", "zone:sword", 100)
	require.Equal(t, BuyOk, res)
	require.Equal(t, 100, price)
}

func TestBuyRejectsUnstockedItem(t *testing.T) {
	shops := map[ids.MobId]Definition{
		"zone:merchant": {MobId: "zone:merchant", ItemIds: []ids.ItemId{"zone:sword"}, BuyMultiplier: 1.0},
	}
	r := NewRegistry(shops, valueTable(map[ids.ItemId]int{"zone:sword": 100}))
	_, res := r.Buy("zone:merchant", "zone:shield", 1000)
	require.Equal(t, BuyUnknownItem, res)
}

func TestSellOnlyAcceptsStockedTemplates(t *testing.T) {
	shops := map[ids.MobId]Definition{
		"zone:merchant": {MobId: "zone:merchant", ItemIds: []ids.ItemId{"zone:sword"}, SellMultiplier: 0.5},
	}
	r := NewRegistry(shops, valueTable(map[ids.ItemId]int{"zone:sword": 100}))
	credit, res := r.Sell("zone:merchant", "zone:sword")
	require.Equal(t, SellOk, res)
	require.Equal(t, 50, credit)

	_, res = r.Sell("zone:merchant", "zone:junk")
	require.Equal(t, SellNotAccepted, res)
}

func TestNoSuchShop(t *testing.T) {
	r := NewRegistry(map[ids.MobId]Definition{}, valueTable(nil))
	_, res := r.Buy("zone:nobody", "zone:sword", 100)
	require.Equal(t, BuyNoSuchShop, res)
	_, res2 := r.Sell("zone:nobody", "zone:sword")
	require.Equal(t, SellNoSuchShop, res2)
}
