package engine

import (
	"fmt"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// Art pays out a mood-scaled sum when shown to the people.
const (
	artBaseGold    = 10
	artGoldPerMood = 5
)

// hotPotatoWinChance is deliberately under half; the house keeps its edge.
const hotPotatoWinChance = 0.45

// UseItem consumes one item from inventory and applies its effect. Ore opens
// a pending confirmation instead of acting immediately; the returned string
// is either the effect report or the confirmation prompt.
func (e *Engine) UseItem(playerID string, item rules.Item) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return "", err
	}
	entry, err := e.store.GetItem(playerID, item)
	if err != nil || entry.Qty < 1 {
		return "", Validationf("you have no %s to use", item)
	}

	switch item {
	case rules.ItemTrinket:
		if p.TrinketActive {
			return "", Validationf("a trinket's charm is already woven")
		}
		if err := e.consume(p, item); err != nil {
			return "", err
		}
		p.TrinketActive = true
		if err := e.store.SavePlayer(p); err != nil {
			return "", fmt.Errorf("save player %s: %w", playerID, err)
		}
		return "The trinket glows faintly. Your next yield may be doubled.", nil

	case rules.ItemBeerBarrel:
		if err := e.consume(p, item); err != nil {
			return "", err
		}
		p.AddMood(1)
		p.BeerActive = true // shields tonight's mood-souring event
		if err := e.store.SavePlayer(p); err != nil {
			return "", fmt.Errorf("save player %s: %w", playerID, err)
		}
		return fmt.Sprintf("The barrel is tapped and spirits rise. Mood is now %d.", p.Mood), nil

	case rules.ItemMedicine:
		return e.useMedicine(p)

	case rules.ItemArt:
		if err := e.consume(p, item); err != nil {
			return "", err
		}
		payout := artBaseGold + artGoldPerMood*p.Mood
		p.AddGold(payout)
		if err := e.store.SavePlayer(p); err != nil {
			return "", fmt.Errorf("save player %s: %w", playerID, err)
		}
		return fmt.Sprintf("The unveiling draws a crowd, patrons pay %d gold.", payout), nil

	case rules.ItemOre:
		return e.useOre(p)
	}

	return "", Validationf("%s cannot be used directly", item)
}

// useMedicine heals the most wounded unit back to its level maximum.
func (e *Engine) useMedicine(p *kingdom.Player) (string, error) {
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		return "", fmt.Errorf("list units for %s: %w", p.ID, err)
	}
	var worst *kingdom.Unit
	var worstGap float64
	for _, u := range units {
		gap := e.maxCombat(p, u) - u.Combat
		if gap > worstGap {
			worst, worstGap = u, gap
		}
	}
	if worst == nil {
		// Nobody is hurt; keep the dose ready against tonight's misfortunes.
		if p.MedicineActive {
			return "", Validationf("no unit needs healing and a dose is already prepared")
		}
		if err := e.consume(p, rules.ItemMedicine); err != nil {
			return "", err
		}
		p.MedicineActive = true
		if err := e.store.SavePlayer(p); err != nil {
			return "", fmt.Errorf("save player %s: %w", p.ID, err)
		}
		return "The medicine is set aside against the night's misfortunes.", nil
	}

	if err := e.consume(p, rules.ItemMedicine); err != nil {
		return "", err
	}
	worst.Combat = e.maxCombat(p, worst)
	if err := e.store.SaveUnit(worst); err != nil {
		return "", fmt.Errorf("save unit %s: %w", worst.ID, err)
	}
	if err := e.store.SavePlayer(p); err != nil {
		return "", fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return fmt.Sprintf("%s is treated and stands at full strength (%.2f).", worst.Name, worst.Combat), nil
}

// useOre opens a confirmation to grind one ore into +1 combat for an idle
// unit below its level ceiling. Timeout counts as declined and consumes
// nothing.
func (e *Engine) useOre(p *kingdom.Player) (string, error) {
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		return "", fmt.Errorf("list units for %s: %w", p.ID, err)
	}
	var target *kingdom.Unit
	for _, u := range units {
		if !u.Idle() || u.Combat >= e.maxCombat(p, u) {
			continue
		}
		if target == nil || u.Combat > target.Combat {
			target = u
		}
	}
	if target == nil {
		return "", Validationf("no idle unit would grow stronger from the ore")
	}

	playerID, unitID, name := p.ID, target.ID, target.Name
	prompt := fmt.Sprintf("Use 1 ore to add +1 combat to %s? (yes/no)", name)
	return e.askPlayer(playerID, prompt, func(accept bool) (string, error) {
		if !accept {
			return "The ore stays in the stockpile.", nil
		}
		// Re-fetch: the world has moved on since the question was asked.
		p, err := e.player(playerID)
		if err != nil {
			return "", err
		}
		u, err := e.store.GetUnit(unitID)
		if err != nil || u.PlayerID != playerID {
			return "", Validationf("%s is no longer with us", name)
		}
		if err := e.consume(p, rules.ItemOre); err != nil {
			return "", err
		}
		u.Combat = kingdom.RoundCombat(u.Combat + 1)
		if limit := e.maxCombat(p, u); u.Combat > limit {
			u.Combat = limit
		}
		if err := e.store.SaveUnit(u); err != nil {
			return "", fmt.Errorf("save unit %s: %w", u.ID, err)
		}
		if err := e.store.SavePlayer(p); err != nil {
			return "", fmt.Errorf("save player %s: %w", playerID, err)
		}
		return fmt.Sprintf("%s is armored in fresh-worked iron (combat %.2f).", u.Name, u.Combat), nil
	}), nil
}

// consume removes one of the item, rejecting as a validation if the stock is
// gone.
func (e *Engine) consume(p *kingdom.Player, item rules.Item) error {
	if err := e.store.RemoveItem(p.ID, item, 1); err != nil {
		if isNotFound(err) {
			return Validationf("you have no %s to use", item)
		}
		return fmt.Errorf("remove %s: %w", item, err)
	}
	return nil
}

// Equip fits a forged weapon or armor to a unit, consuming the inventory
// entry and taking its forged value as the bonus. A new piece replaces the
// old one outright.
func (e *Engine) Equip(playerID, unitRef string, item rules.Item) (*kingdom.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if item != rules.ItemWeapon && item != rules.ItemArmor {
		return nil, Validationf("units equip weapon or armor, not %s", item)
	}
	if _, err := e.player(playerID); err != nil {
		return nil, err
	}
	u, err := e.unitByRef(playerID, unitRef)
	if err != nil {
		return nil, err
	}
	if !u.Idle() {
		return nil, Validationf("%s is %s and cannot be fitted", u.Name, u.State)
	}

	entry, err := e.store.GetItem(playerID, item)
	if err != nil || entry.Qty < 1 {
		return nil, Validationf("you have no %s to equip", item)
	}
	if err := e.store.RemoveItem(playerID, item, 1); err != nil {
		return nil, fmt.Errorf("remove %s: %w", item, err)
	}

	if item == rules.ItemWeapon {
		u.WeaponBonus = entry.Value
	} else {
		u.ArmorBonus = entry.Value
	}
	if err := e.store.SaveUnit(u); err != nil {
		return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
	}
	return u, nil
}

// HotPotato wagers gold on a fuse that burns out 55 times in 100.
func (e *Engine) HotPotato(playerID string, stake int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return "", err
	}
	if stake <= 0 {
		return "", Validationf("stake some gold first")
	}
	if p.Gold < stake {
		return "", Validationf("you cannot stake %d gold, you have %d", stake, p.Gold)
	}

	var msg string
	if e.dice.Chance(hotPotatoWinChance) {
		p.AddGold(stake)
		msg = fmt.Sprintf("The potato cools in your hands! You win %d gold (%d total).", stake, p.Gold)
	} else {
		p.AddGold(-stake)
		msg = fmt.Sprintf("It bursts! You lose %d gold (%d left).", stake, p.Gold)
	}
	if err := e.store.SavePlayer(p); err != nil {
		return "", fmt.Errorf("save player %s: %w", playerID, err)
	}
	return msg, nil
}
