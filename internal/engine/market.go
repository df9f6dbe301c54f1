package engine

import (
	"fmt"
	"log/slog"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// TradeReport describes one completed buy or sell.
type TradeReport struct {
	Item      rules.Item
	Qty       int
	UnitPrice int
	Total     int
	Gold      int // balance after the trade
}

// Buy purchases qty of an item at the market. It needs an idle merchant unit
// physically at the market; prices take the merchant-level discount. All
// checks run before any mutation, a failed buy changes nothing.
func (e *Engine) Buy(playerID string, item rules.Item, qty int) (*TradeReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		qty = 1
	}
	if err := e.merchantAtMarket(p); err != nil {
		return nil, err
	}
	if item == rules.ItemWeapon || item == rules.ItemArmor {
		return nil, Validationf("%s is forged by smiths, not sold at the market", item)
	}

	level := p.Skill(rules.SkillMerchant).Level
	unit := e.rules.Economy.MerchantBuyPrice(item, 0, level)
	if unit <= 0 {
		return nil, Validationf("%s is not sold at the market", item)
	}
	total := unit * qty
	if p.Gold < total {
		return nil, Validationf("%d %s costs %d gold, you have %d", qty, item, total, p.Gold)
	}

	p.AddGold(-total)

	// Food lives on the player record; one save commits both sides.
	if item == rules.ItemFood {
		p.AddFood(qty)
		if err := e.store.SavePlayer(p); err != nil {
			return nil, fmt.Errorf("save player %s: %w", playerID, err)
		}
		return &TradeReport{Item: item, Qty: qty, UnitPrice: unit, Total: total, Gold: p.Gold}, nil
	}

	// Gold commits before the goods land; a failed delivery refunds it.
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	if err := e.store.AddItem(playerID, item, qty, 0, false); err != nil {
		p.AddGold(total)
		if rerr := e.store.SavePlayer(p); rerr != nil {
			slog.Error("buy refund failed", "player", playerID, "item", item, "error", rerr)
		}
		return nil, fmt.Errorf("add %s: %w", item, err)
	}
	return &TradeReport{Item: item, Qty: qty, UnitPrice: unit, Total: total, Gold: p.Gold}, nil
}

// Sell sells qty of an item from inventory (or the food balance, which trades
// as a pseudo-item). Selling needs no unit at the market; caravans come to
// the kingdom.
func (e *Engine) Sell(playerID string, item rules.Item, qty int) (*TradeReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		qty = 1
	}

	value, err := e.tradeValue(p, item)
	if err != nil {
		return nil, err
	}
	level := p.Skill(rules.SkillMerchant).Level
	unit := e.rules.Economy.MerchantSellPrice(item, value, level)
	if unit <= 0 {
		return nil, Validationf("nobody will pay for %s", item)
	}

	switch item {
	case rules.ItemFood:
		if p.Food < qty {
			return nil, Validationf("you only have %d food", p.Food)
		}
		p.AddFood(-qty)
	default:
		entry, err := e.store.GetItem(playerID, item)
		if err != nil || entry.Qty < qty {
			have := 0
			if entry != nil {
				have = entry.Qty
			}
			return nil, Validationf("you have %d %s to sell", have, item)
		}
		if err := e.store.RemoveItem(playerID, item, qty); err != nil {
			return nil, fmt.Errorf("remove %s: %w", item, err)
		}
	}

	total := unit * qty
	p.AddGold(total)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return &TradeReport{Item: item, Qty: qty, UnitPrice: unit, Total: total, Gold: p.Gold}, nil
}

// tradeValue resolves the value used for price formulas. Weapons and armor
// price off their forged quality; everything else is flat-priced.
func (e *Engine) tradeValue(p *kingdom.Player, item rules.Item) (float64, error) {
	if item != rules.ItemWeapon && item != rules.ItemArmor {
		return 0, nil
	}
	entry, err := e.store.GetItem(p.ID, item)
	if err != nil {
		if isNotFound(err) {
			return 0, Validationf("you have no %s", item)
		}
		return 0, fmt.Errorf("get %s: %w", item, err)
	}
	return entry.Value, nil
}

// merchantAtMarket checks the buy gate: an idle merchant standing at the
// market zone.
func (e *Engine) merchantAtMarket(p *kingdom.Player) error {
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		return fmt.Errorf("list units for %s: %w", p.ID, err)
	}
	for _, u := range units {
		if u.Type == rules.SkillMerchant && u.Idle() && u.Location == rules.ZoneMarket {
			return nil
		}
	}
	return Validationf("buying needs an idle merchant at the market")
}
