package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
	"github.com/madeofmoss/KoD/internal/worldgen"
)

// Starting resources before race bonuses.
const (
	startPopulation   = 10
	startMood         = 3
	startFood         = 25
	startGoldBase     = 80
	startGoldSpread   = 41 // + IntN(41): 0..40 extra
	startGoldPerRival = 10
)

// trainBaseCost and trainCostPerUnit scale unit training with kingdom size.
const (
	trainBaseCost    = 50
	trainCostPerUnit = 25
)

// Setup founds a kingdom for the given chat identity. One kingdom per
// identity; a second setup is rejected. Race and the second skill are rolled,
// zone distances are fixed for the kingdom's lifetime, and the starting pair
// of units is created.
func (e *Engine) Setup(playerID, name string) (*kingdom.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.GetPlayer(playerID); err == nil {
		return nil, Validationf("you already rule a kingdom, `reset` it first")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("check existing player %s: %w", playerID, err)
	}

	existing, err := e.store.CountPlayers()
	if err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}

	races := rules.AllRaces()
	race := races[e.dice.IntN(len(races))]
	traits := e.rules.Races[race]

	skillA := traits.Favored
	skillB := e.rollSecondSkill(skillA)

	dist := worldgen.ZoneDistances(e.cfg.WorldSeed, playerID)

	p := &kingdom.Player{
		ID:           playerID,
		Name:         name,
		Race:         race,
		SkillA:       skillA,
		SkillB:       skillB,
		Gold:         startGoldBase + startGoldPerRival*existing + e.dice.IntN(startGoldSpread),
		Population:   startPopulation,
		Mood:         startMood,
		Food:         startFood,
		DistMarket:   dist.Market,
		DistMountain: dist.Mountain,
		DistForest:   dist.Forest,
		DistCoast:    dist.Coast,
		CreatedAt:    e.now().UTC(),
	}
	for _, s := range rules.AllSkills() {
		p.Skill(s)
	}

	// Race bonuses apply once, at creation.
	p.AddGold(traits.Bonus.Gold)
	p.AddFood(traits.Bonus.Food)
	p.AddMood(traits.Bonus.Mood)
	for s, lv := range traits.Bonus.SkillLevels {
		prog := p.Skill(s)
		prog.Level += lv
		if prog.Level > rules.MaxLevel {
			prog.Level = rules.MaxLevel
		}
	}

	if err := e.store.CreatePlayer(p); err != nil {
		return nil, fmt.Errorf("create player %s: %w", playerID, err)
	}

	for _, s := range []rules.Skill{skillA, skillB} {
		u := e.newUnit(p, s)
		if err := e.store.CreateUnit(u); err != nil {
			return nil, fmt.Errorf("create starting unit: %w", err)
		}
	}

	e.broadcast(fmt.Sprintf("A new kingdom rises: %s, of the %s.", p.Name, race))
	return p, nil
}

// rollSecondSkill picks a uniformly random skill different from first.
func (e *Engine) rollSecondSkill(first rules.Skill) rules.Skill {
	skills := rules.AllSkills()
	for {
		s := skills[e.dice.IntN(len(skills))]
		if s != first {
			return s
		}
	}
}

// newUnit builds a fresh unit of skill s at the player's current skill level.
// The zero LastAction leaves it immediately off cooldown.
func (e *Engine) newUnit(p *kingdom.Player, s rules.Skill) *kingdom.Unit {
	level := p.Skill(s).Level
	row := e.rules.SkillRow(s, level)
	u := &kingdom.Unit{
		ID:         uuid.NewString(),
		PlayerID:   p.ID,
		Name:       e.names.UnitName(s),
		Type:       s,
		Level:      level,
		Combat:     row.C,
		Movement:   row.M + e.rules.Races[p.Race].Passive.MoveBonus,
		Location:   rules.ZoneCapital,
		State:      kingdom.StateIdle,
		Visibility: row.Visibility,
	}
	return u
}

// Train buys a new unit of one of the kingdom's two assigned skills. Cost
// scales with the number of units already owned.
func (e *Engine) Train(playerID string, s rules.Skill) (*kingdom.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	if s != p.SkillA && s != p.SkillB {
		return nil, Validationf("your kingdom trains %s and %s, not %s", p.SkillA, p.SkillB, s)
	}

	units, err := e.store.ListUnits(playerID)
	if err != nil {
		return nil, fmt.Errorf("list units for %s: %w", playerID, err)
	}
	cost := trainBaseCost + trainCostPerUnit*len(units)
	if p.Gold < cost {
		return nil, Validationf("training a %s costs %d gold, you have %d", s, cost, p.Gold)
	}

	u := e.newUnit(p, s)
	if err := e.store.CreateUnit(u); err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	p.AddGold(-cost)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return u, nil
}

// Reset asks for confirmation, then deletes the kingdom with everything it
// owns. Decline or timeout leaves the kingdom untouched.
func (e *Engine) Reset(playerID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Destroy the kingdom of %s and everything in it? This cannot be undone. (yes/no)", p.Name)
	return e.askPlayer(playerID, prompt, func(accept bool) (string, error) {
		if !accept {
			return "Your kingdom stands.", nil
		}
		if err := e.store.DeletePlayer(playerID); err != nil {
			return "", fmt.Errorf("delete player %s: %w", playerID, err)
		}
		return "The kingdom has fallen. Use `setup` to found a new one.", nil
	}), nil
}

// Status returns the player's kingdom record.
func (e *Engine) Status(playerID string) (*kingdom.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player(playerID)
}

// Units returns the player's units, movement states included.
func (e *Engine) Units(playerID string) ([]*kingdom.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.player(playerID); err != nil {
		return nil, err
	}
	units, err := e.store.ListUnits(playerID)
	if err != nil {
		return nil, fmt.Errorf("list units for %s: %w", playerID, err)
	}
	return units, nil
}

// Inventory returns the player's inventory entries sorted by item name.
func (e *Engine) Inventory(playerID string) ([]*kingdom.InventoryEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.player(playerID); err != nil {
		return nil, err
	}
	items, err := e.store.ListInventory(playerID)
	if err != nil {
		return nil, fmt.Errorf("list inventory for %s: %w", playerID, err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Item < items[j].Item })
	return items, nil
}

// SkillLevels lists the kingdom's per-skill progression in table order.
type SkillLevel struct {
	Skill rules.Skill
	Level int
	XP    int
	Next  int // XP required to leave the level, 0 at the cap
}

// Levels returns progression for every skill, assigned skills first.
func (e *Engine) Levels(playerID string) ([]SkillLevel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}

	out := make([]SkillLevel, 0, len(rules.AllSkills()))
	for _, s := range rules.AllSkills() {
		prog := p.Skill(s)
		out = append(out, SkillLevel{
			Skill: s,
			Level: prog.Level,
			XP:    prog.XP,
			Next:  rules.XPToAdvance(prog.Level),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return skillRank(p, out[i].Skill) < skillRank(p, out[j].Skill)
	})
	return out, nil
}

func skillRank(p *kingdom.Player, s rules.Skill) int {
	switch s {
	case p.SkillA:
		return 0
	case p.SkillB:
		return 1
	}
	return 2
}

// unitByRef resolves a unit by ID or by (case-insensitive) name prefix among
// the player's units.
func (e *Engine) unitByRef(playerID, ref string) (*kingdom.Unit, error) {
	if u, err := e.store.GetUnit(ref); err == nil && u.PlayerID == playerID {
		return u, nil
	}
	units, err := e.store.ListUnits(playerID)
	if err != nil {
		return nil, fmt.Errorf("list units for %s: %w", playerID, err)
	}
	ref = strings.ToLower(ref)
	var match *kingdom.Unit
	for _, u := range units {
		if strings.HasPrefix(strings.ToLower(u.Name), ref) || strings.ToLower(string(u.Type)) == ref {
			if match != nil {
				return nil, Validationf("%q matches more than one unit, use its id", ref)
			}
			match = u
		}
	}
	if match == nil {
		return nil, Validationf("no unit matching %q", ref)
	}
	return match, nil
}
