package engine

import (
	"fmt"
	"time"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// Produce resolves a discrete production roll against a level row. roll is in
// [0,100); the bands are scanned in order and the first band whose cumulative
// weight reaches the roll wins. Weights sum to 100, so a roll never falls
// through.
func Produce(row *rules.LevelRow, roll float64) int {
	cum := 0
	for _, band := range row.Chances {
		cum += band.Weight
		if float64(cum) >= roll {
			return band.Amount
		}
	}
	return 0
}

// ProduceResult reports one production attempt.
type ProduceResult struct {
	Unit    *kingdom.Unit
	Skill   rules.Skill
	Item    rules.Item
	Amount  int     // discrete yield (food, gold, ore, ...)
	Gems    int     // miner secondary yield
	Value   float64 // smith forged value
	Success bool    // false on a failed smith gate or zero yield
	Doubled bool    // trinket fired
	XP      int
}

// Action runs one production command: farm, hunt, mine, invent, monk,
// merchant, entertain, medic. Smithing goes through Smith. The acting unit's
// cooldown is stamped even on a zero yield.
func (e *Engine) Action(playerID string, s rules.Skill) (*ProduceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runAction(playerID, s, "")
}

// Smith runs a smithing attempt for the given craft, weapon or armor.
func (e *Engine) Smith(playerID string, craft rules.Item) (*ProduceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if craft != rules.ItemWeapon && craft != rules.ItemArmor {
		return nil, Validationf("smiths forge weapon or armor, not %s", craft)
	}
	return e.runAction(playerID, rules.SkillSmith, craft)
}

// runAction is the shared production path. Caller holds the engine mutex.
func (e *Engine) runAction(playerID string, s rules.Skill, craft rules.Item) (*ProduceResult, error) {
	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	table, ok := e.rules.Skills[s]
	if !ok {
		return nil, Validationf("unknown skill %s", s)
	}

	u, err := e.readyUnit(p, s)
	if err != nil {
		return nil, err
	}

	row := e.rules.SkillRow(s, e.levelOf(p, u))
	res := &ProduceResult{Unit: u, Skill: s, Item: table.Produces}
	if craft != "" {
		res.Item = craft
	}

	if row.SuccessRate > 0 {
		e.rollCrafted(row, res)
	} else {
		e.rollDiscrete(row, res)
	}

	// Trinket doubles the next yield half the time and always burns out.
	if p.TrinketActive {
		p.TrinketActive = false
		if res.Amount > 0 && e.dice.Chance(0.5) {
			res.Amount *= 2
			res.Doubled = true
		}
	}

	if err := e.applyYield(p, res); err != nil {
		return nil, err
	}

	// The action is spent even when nothing came of it.
	u.LastAction = e.now()
	res.XP = rules.XPProduceSuccess
	if !res.Success {
		res.XP = rules.XPProduceFail
	}
	if err := e.store.SaveUnit(u); err != nil {
		return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
	}
	e.awardXP(p, u, s, res.XP)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return res, nil
}

// rollDiscrete resolves band-table skills, plus the miner's independent gem
// draw.
func (e *Engine) rollDiscrete(row *rules.LevelRow, res *ProduceResult) {
	res.Amount = Produce(row, e.dice.Roll100())
	res.Success = res.Amount > 0
	if row.GemChance > 0 && e.dice.Roll100() < float64(row.GemChance) {
		res.Gems = 1
		res.Success = true
	}
}

// rollCrafted resolves the smith's gated continuous roll.
func (e *Engine) rollCrafted(row *rules.LevelRow, res *ProduceResult) {
	if e.dice.Roll100() > float64(row.SuccessRate) {
		return // failed forge, nothing produced
	}
	res.Success = true
	res.Amount = 1
	res.Value = kingdom.RoundValue(e.dice.Between(row.MinValue, row.MaxValue))
}

// applyYield credits the result: food and gold land on the player's balance,
// everything else goes to the inventory ledger.
func (e *Engine) applyYield(p *kingdom.Player, res *ProduceResult) error {
	if res.Amount > 0 {
		switch res.Item {
		case rules.ItemFood:
			p.AddFood(res.Amount)
		case rules.ItemGold:
			p.AddGold(res.Amount)
		default:
			overwrite := res.Item == rules.ItemWeapon || res.Item == rules.ItemArmor
			if err := e.store.AddItem(p.ID, res.Item, res.Amount, res.Value, overwrite); err != nil {
				return fmt.Errorf("add %s: %w", res.Item, err)
			}
		}
	}
	if res.Gems > 0 {
		if err := e.store.AddItem(p.ID, rules.ItemGem, res.Gems, 0, false); err != nil {
			return fmt.Errorf("add gem: %w", err)
		}
	}
	return nil
}

// readyUnit finds an idle, off-cooldown unit of skill s, honoring location
// gates: miners must stand at the mountain, merchants at the market.
func (e *Engine) readyUnit(p *kingdom.Player, s rules.Skill) (*kingdom.Unit, error) {
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		return nil, fmt.Errorf("list units for %s: %w", p.ID, err)
	}

	required := requiredZone(s)
	now := e.now()
	var onCooldown *kingdom.Unit
	for _, u := range units {
		if u.Type != s || !u.Idle() {
			continue
		}
		if required != "" && u.Location != required {
			continue
		}
		if !u.OffCooldown(now, e.cfg.Cooldown) {
			onCooldown = u
			continue
		}
		return u, nil
	}

	if onCooldown != nil {
		wait := onCooldown.AvailableAt(e.cfg.Cooldown).Sub(now).Round(time.Second)
		return nil, Validationf("%s is resting, ready in %s", onCooldown.Name, wait)
	}
	if required != "" {
		return nil, Validationf("you need an idle %s at the %s", s, required)
	}
	return nil, Validationf("you have no idle %s", s)
}

// requiredZone returns the zone a skill must act from, empty for anywhere.
func requiredZone(s rules.Skill) rules.Zone {
	switch s {
	case rules.SkillMiner:
		return rules.ZoneMountain
	case rules.SkillMerchant:
		return rules.ZoneMarket
	}
	return ""
}

// RollAll runs every production the player can perform right now, one attempt
// per skill with a ready unit. Skills with nothing ready are skipped.
func (e *Engine) RollAll(playerID string) ([]*ProduceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}

	var results []*ProduceResult
	for _, s := range rules.AllSkills() {
		if s == rules.SkillRogue {
			continue // rogues act through `rogue`, not production
		}
		if _, err := e.readyUnit(p, s); err != nil {
			continue
		}
		craft := rules.Item("")
		if s == rules.SkillSmith {
			craft = rules.ItemWeapon
		}
		res, err := e.runAction(playerID, s, craft)
		if err != nil {
			if IsValidation(err) {
				continue
			}
			return results, err
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, Validationf("no unit is ready to work")
	}
	return results, nil
}
