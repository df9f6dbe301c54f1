package engine

import (
	"fmt"
	"log/slog"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// Wander/sail budgets. The caller may pick any span within these bounds.
const (
	defaultExploreSpaces = 20
	maxExploreSpaces     = 100

	monsterCheckpoint = 10 // wandering: monster every N spaces
	foodCheckpoint    = 20 // sailing: food find every N spaces
	gemCheckpoint     = 30 // sailing: gem find every N spaces

	sailFoodChance   = 0.40
	sailGemChance    = 0.20
	piracyThreshold  = 30   // total spaces before pirates appear
	piracyTickChance = 0.15 // per-tick pirate attack chance past the threshold
)

// StartTravel sends an idle unit toward a named zone. Distance comes from the
// kingdom's fixed per-zone rolls; the mountain road is open to miners only.
func (e *Engine) StartTravel(playerID, unitRef string, dest rules.Zone) (*kingdom.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	u, err := e.unitByRef(playerID, unitRef)
	if err != nil {
		return nil, err
	}
	if !validZone(dest) {
		return nil, Validationf("unknown destination %s", dest)
	}
	if !u.Idle() {
		return nil, Validationf("%s is %s and cannot set out", u.Name, u.State)
	}
	if u.Location == dest {
		return nil, Validationf("%s is already at the %s", u.Name, dest)
	}
	if dest == rules.ZoneMountain && u.Type != rules.SkillMiner {
		return nil, Validationf("only miners know the mountain paths")
	}

	distance := p.DistanceTo(dest)
	if dest == rules.ZoneCapital {
		distance = p.DistanceTo(u.Location) // the road home is the road out
	}
	if distance <= 0 {
		return nil, Validationf("there is no road from %s to %s", u.Location, dest)
	}

	u.State = kingdom.StateTraveling
	u.Destination = dest
	u.TotalDistance = distance
	u.DistanceTraveled = 0
	if err := e.store.SaveUnit(u); err != nil {
		return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
	}
	e.awardXP(p, u, u.Type, rules.XPTravelStart)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return u, nil
}

// StartWander sets an idle unit roaming the forest for a chosen span.
func (e *Engine) StartWander(playerID, unitRef string, spaces int) (*kingdom.Unit, error) {
	return e.startExplore(playerID, unitRef, spaces, kingdom.StateWandering, rules.ZoneForest)
}

// StartSail sets an idle unit out to sea from the coast.
func (e *Engine) StartSail(playerID, unitRef string, spaces int) (*kingdom.Unit, error) {
	return e.startExplore(playerID, unitRef, spaces, kingdom.StateSailing, rules.ZoneCoast)
}

func (e *Engine) startExplore(playerID, unitRef string, spaces int, state kingdom.UnitState, from rules.Zone) (*kingdom.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	u, err := e.unitByRef(playerID, unitRef)
	if err != nil {
		return nil, err
	}
	if !u.Idle() {
		return nil, Validationf("%s is %s and cannot set out", u.Name, u.State)
	}
	if u.Location != from {
		return nil, Validationf("%s must be at the %s for that", u.Name, from)
	}
	if spaces <= 0 {
		spaces = defaultExploreSpaces
	}
	if spaces > maxExploreSpaces {
		spaces = maxExploreSpaces
	}

	u.State = state
	u.TotalSpaces = spaces
	u.RemainingSpaces = spaces
	if err := e.store.SaveUnit(u); err != nil {
		return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
	}
	e.awardXP(p, u, u.Type, rules.XPTravelStart)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return u, nil
}

// MovementTick advances every unit in transit by its movement budget. One
// unit's failure never stalls the rest.
func (e *Engine) MovementTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending.sweep(e.now())

	units, err := e.store.ListUnitsInTransit()
	if err != nil {
		slog.Error("movement tick: list transit", "error", err)
		return
	}
	for _, u := range units {
		if err := e.advanceUnit(u); err != nil {
			slog.Error("movement tick: unit advance", "unit", u.ID, "error", err)
		}
	}
}

// advanceUnit applies one tick of movement to a single unit. If an encounter
// destroys the unit, nothing further is persisted for it.
func (e *Engine) advanceUnit(u *kingdom.Unit) error {
	p, err := e.store.GetPlayer(u.PlayerID)
	if err != nil {
		return fmt.Errorf("load owner %s: %w", u.PlayerID, err)
	}

	switch u.State {
	case kingdom.StateTraveling:
		err = e.advanceTravel(p, u)
	case kingdom.StateWandering:
		err = e.advanceWander(p, u)
	case kingdom.StateSailing:
		err = e.advanceSail(p, u)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.store.SavePlayer(p); err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}

func (e *Engine) advanceTravel(p *kingdom.Player, u *kingdom.Unit) error {
	u.DistanceTraveled += u.Movement
	e.awardXP(p, u, u.Type, rules.XPTravelTick)

	if u.DistanceTraveled >= u.TotalDistance {
		dest := u.Destination
		u.Location = dest
		u.ClearMovement()
		e.restoreMovement(p, u)
		if err := e.store.SaveUnit(u); err != nil {
			return fmt.Errorf("save unit %s: %w", u.ID, err)
		}
		e.notifyPlayer(p.ID, fmt.Sprintf("%s has arrived at the %s.", u.Name, dest))
		return nil
	}
	return e.store.SaveUnit(u)
}

func (e *Engine) advanceWander(p *kingdom.Player, u *kingdom.Unit) error {
	before := u.TotalSpaces - u.RemainingSpaces
	u.RemainingSpaces -= u.Movement
	if u.RemainingSpaces < 0 {
		u.RemainingSpaces = 0
	}
	after := u.TotalSpaces - u.RemainingSpaces
	e.awardXP(p, u, u.Type, rules.XPTravelTick)

	// One monster per 10-space checkpoint crossed this tick, CR rising with
	// distance walked.
	for k := before/monsterCheckpoint + 1; k <= after/monsterCheckpoint; k++ {
		survived, err := e.resolveMonster(p, u, k)
		if err != nil {
			return err
		}
		if !survived {
			return nil // unit destroyed, nothing further to persist
		}
	}

	if u.RemainingSpaces == 0 {
		u.ClearMovement()
		e.restoreMovement(p, u)
		e.notifyPlayer(p.ID, fmt.Sprintf("%s returns from the deep forest.", u.Name))
	}
	return e.store.SaveUnit(u)
}

func (e *Engine) advanceSail(p *kingdom.Player, u *kingdom.Unit) error {
	before := u.TotalSpaces - u.RemainingSpaces
	u.RemainingSpaces -= u.Movement
	if u.RemainingSpaces < 0 {
		u.RemainingSpaces = 0
	}
	after := u.TotalSpaces - u.RemainingSpaces
	e.awardXP(p, u, u.Type, rules.XPTravelTick)

	for k := before/foodCheckpoint + 1; k <= after/foodCheckpoint; k++ {
		if e.dice.Chance(sailFoodChance) {
			catch := 2 + e.dice.IntN(4)
			p.AddFood(catch)
			e.notifyPlayer(p.ID, fmt.Sprintf("%s hauls in %d food from rich waters.", u.Name, catch))
		}
	}
	for k := before/gemCheckpoint + 1; k <= after/gemCheckpoint; k++ {
		if e.dice.Chance(sailGemChance) {
			if err := e.store.AddItem(p.ID, rules.ItemGem, 1, 0, false); err != nil {
				return fmt.Errorf("add gem: %w", err)
			}
			e.notifyPlayer(p.ID, fmt.Sprintf("%s dredges up a gem!", u.Name))
		}
	}

	if u.TotalSpaces >= piracyThreshold && e.dice.Chance(piracyTickChance) {
		survived, err := e.resolvePirates(p, u)
		if err != nil {
			return err
		}
		if !survived {
			return nil
		}
	}

	if u.RemainingSpaces == 0 {
		u.ClearMovement()
		e.restoreMovement(p, u)
		e.notifyPlayer(p.ID, fmt.Sprintf("%s sails back into harbor.", u.Name))
	}
	return e.store.SaveUnit(u)
}

// restoreMovement refills movement points to the level base after a completed
// journey.
func (e *Engine) restoreMovement(p *kingdom.Player, u *kingdom.Unit) {
	if row := e.rules.SkillRow(u.Type, e.levelOf(p, u)); row != nil {
		u.Movement = row.M + e.rules.Races[p.Race].Passive.MoveBonus
	}
}

func validZone(z rules.Zone) bool {
	for _, zone := range rules.AllZones() {
		if z == zone {
			return true
		}
	}
	return false
}
