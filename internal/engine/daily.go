package engine

import (
	"fmt"
	"log/slog"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// DailyTick runs the once-per-epoch batch: world event, taxation, population
// and food upkeep, and the growth pass. A single kingdom's failure never
// blocks the rest of the batch.
func (e *Engine) DailyTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	players, err := e.store.ListPlayers()
	if err != nil {
		slog.Error("daily tick: list players", "error", err)
		return
	}
	if len(players) == 0 {
		return
	}

	event := e.rules.Events[e.dice.IntN(len(e.rules.Events))]
	slog.Info("daily tick", "event", event.Name, "kingdoms", len(players))

	pool := 0
	for _, p := range players {
		if err := e.dailyPlayer(p, event, &pool); err != nil {
			slog.Error("daily tick: kingdom update", "player", p.ID, "error", err)
		}
	}

	e.redistribute(players, pool)

	// Negative events carry deliberately vague announce text; broadcast as
	// written either way.
	e.broadcast(event.Announce)
}

// dailyPlayer applies the full daily sequence to one kingdom. The player's
// tax contribution is added to pool; redistribution happens afterwards over
// the whole batch.
func (e *Engine) dailyPlayer(p *kingdom.Player, event rules.WorldEvent, pool *int) error {
	e.applyEvent(p, event)

	// Taxation.
	tax := int(float64(p.Gold) * e.cfg.TaxRate)
	p.AddGold(-tax)
	*pool += tax

	e.applyUpkeep(p)

	// Last night's consumable shields are spent either way.
	p.BeerActive = false
	p.MedicineActive = false

	if err := e.store.SavePlayer(p); err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}

	switch e.cfg.DailyPolicy {
	case DailyPolicySpawn:
		return e.dailySpawn(p)
	default:
		return e.dailyProduce(p)
	}
}

// applyEvent applies one world event to a kingdom. Beer shields the mood hit,
// medicine shields the unit damage; each shield burns on use.
func (e *Engine) applyEvent(p *kingdom.Player, event rules.WorldEvent) {
	if event.Mood < 0 && p.BeerActive {
		p.BeerActive = false
	} else {
		p.AddMood(event.Mood)
	}
	p.AddGold(event.Gold)

	if event.Damage <= 0 || event.DamageZone == "" {
		return
	}
	if p.MedicineActive {
		p.MedicineActive = false
		return
	}
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		slog.Error("daily event: list units", "player", p.ID, "error", err)
		return
	}
	var exposed []*kingdom.Unit
	for _, u := range units {
		if u.Location == event.DamageZone {
			exposed = append(exposed, u)
		}
	}
	if len(exposed) == 0 {
		return
	}
	u := exposed[e.dice.IntN(len(exposed))]
	u.Combat = kingdom.RoundCombat(u.Combat - event.Damage)
	if u.Combat <= 0 {
		if err := e.store.DeleteUnit(u.ID); err != nil {
			slog.Error("daily event: delete unit", "unit", u.ID, "error", err)
			return
		}
		e.notifyPlayer(p.ID, fmt.Sprintf("%s perished in the %s.", u.Name, event.Name))
		return
	}
	if err := e.store.SaveUnit(u); err != nil {
		slog.Error("daily event: save unit", "unit", u.ID, "error", err)
		return
	}
	e.notifyPlayer(p.ID, fmt.Sprintf("%s was hurt in the %s (%.2f damage).", u.Name, event.Name, event.Damage))
}

// applyUpkeep recalculates population against mood and food, shifted by the
// race's settlement passive, then charges food upkeep.
func (e *Engine) applyUpkeep(p *kingdom.Player) {
	shift := e.rules.Races[p.Race].Passive.PopShift

	switch {
	case p.Mood == kingdom.MoodMax || p.Food > p.Population-shift:
		p.AddPopulation(1)
	case p.Mood == kingdom.MoodMin || p.Population > p.Food+shift:
		p.AddPopulation(-1)
	}
	p.AddFood(-p.Population)
}

// dailyProduce runs the configured number of free production attempts per
// assigned skill. No unit acts and no cooldown is touched; the kingdom's
// skill level alone drives the rolls.
func (e *Engine) dailyProduce(p *kingdom.Player) error {
	for _, s := range []rules.Skill{p.SkillA, p.SkillB} {
		table, ok := e.rules.Skills[s]
		if !ok || s == rules.SkillRogue {
			continue
		}
		row := e.rules.SkillRow(s, p.Skill(s).Level)
		for i := 0; i < e.cfg.DailyAttempts; i++ {
			res := &ProduceResult{Item: table.Produces}
			if row.SuccessRate > 0 {
				e.rollCrafted(row, res)
				res.Item = rules.ItemWeapon
			} else {
				e.rollDiscrete(row, res)
			}
			if err := e.applyYield(p, res); err != nil {
				return err
			}
		}
	}
	if err := e.store.SavePlayer(p); err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}

// dailySpawn grants one fresh unit per assigned skill, the older growth
// policy.
func (e *Engine) dailySpawn(p *kingdom.Player) error {
	for _, s := range []rules.Skill{p.SkillA, p.SkillB} {
		u := e.newUnit(p, s)
		if err := e.store.CreateUnit(u); err != nil {
			return fmt.Errorf("create unit for %s: %w", p.ID, err)
		}
	}
	return nil
}

// redistribute splits the tax pool: a retained fraction spread into banks,
// the rest handed back evenly as gold.
func (e *Engine) redistribute(players []*kingdom.Player, pool int) {
	if pool <= 0 || len(players) == 0 {
		return
	}
	retained := int(float64(pool) * e.cfg.BankRetention)
	bankShare := retained / len(players)
	goldShare := (pool - retained) / len(players)

	for _, p := range players {
		fresh, err := e.store.GetPlayer(p.ID)
		if err != nil {
			slog.Error("redistribute: load player", "player", p.ID, "error", err)
			continue
		}
		fresh.Bank += bankShare
		fresh.AddGold(goldShare)
		if err := e.store.SavePlayer(fresh); err != nil {
			slog.Error("redistribute: save player", "player", p.ID, "error", err)
		}
	}
}
