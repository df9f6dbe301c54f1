// Market price table. Weapon and armor prices scale with the item's forged
// value; everything else is fixed.
package rules

import "math"

// Price is the base buy/sell pair for a fixed-price item, in gold.
type Price struct {
	Buy  int
	Sell int
}

// MerchantDiscountPerLevel is subtracted from buys and added to sells for
// each merchant skill level above 1. Selling is never worse than base price
// for a leveled merchant.
const MerchantDiscountPerLevel = 0.05

// Economy holds the static price table.
type Economy struct {
	Prices map[Item]Price

	// Value multipliers for quality-graded goods.
	WeaponBuyMult  float64
	WeaponSellMult float64
	ArmorBuyMult   float64
	ArmorSellMult  float64
}

func defaultEconomy() *Economy {
	return &Economy{
		Prices: map[Item]Price{
			ItemFood:       {Buy: 4, Sell: 2},
			ItemOre:        {Buy: 10, Sell: 6},
			ItemGem:        {Buy: 60, Sell: 40},
			ItemTrinket:    {Buy: 25, Sell: 15},
			ItemArt:        {Buy: 30, Sell: 18},
			ItemMedicine:   {Buy: 20, Sell: 12},
			ItemBeerBarrel: {Buy: 15, Sell: 9},
		},
		WeaponBuyMult:  12,
		WeaponSellMult: 7,
		ArmorBuyMult:   10,
		ArmorSellMult:  6,
	}
}

// BuyPrice returns the base buy price for an item. Quality-graded goods take
// their price from the forged value; value is ignored for fixed-price items.
// Returns 0 for items that cannot be bought.
func (e *Economy) BuyPrice(item Item, value float64) int {
	switch item {
	case ItemWeapon:
		return int(math.Floor(value * e.WeaponBuyMult))
	case ItemArmor:
		return int(math.Floor(value * e.ArmorBuyMult))
	}
	return e.Prices[item].Buy
}

// SellPrice returns the base sell price for an item.
func (e *Economy) SellPrice(item Item, value float64) int {
	switch item {
	case ItemWeapon:
		return int(math.Floor(value * e.WeaponSellMult))
	case ItemArmor:
		return int(math.Floor(value * e.ArmorSellMult))
	}
	return e.Prices[item].Sell
}

// MerchantBuyPrice applies the merchant-level discount to a buy.
func (e *Economy) MerchantBuyPrice(item Item, value float64, merchantLevel int) int {
	base := e.BuyPrice(item, value)
	disc := MerchantDiscountPerLevel * float64(levelsAboveOne(merchantLevel))
	price := int(math.Floor(float64(base) * (1 - disc)))
	if price < 1 && base > 0 {
		price = 1
	}
	return price
}

// MerchantSellPrice applies the merchant-level bonus to a sell.
func (e *Economy) MerchantSellPrice(item Item, value float64, merchantLevel int) int {
	base := e.SellPrice(item, value)
	bonus := MerchantDiscountPerLevel * float64(levelsAboveOne(merchantLevel))
	return int(math.Floor(float64(base) * (1 + bonus)))
}

func levelsAboveOne(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level - 1
}
