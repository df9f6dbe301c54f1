package engine

import (
	"fmt"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// heistFrac is the share of the target's bank a successful heist carries off.
const heistFrac = 0.20

// RogueReport describes a rogue operation's outcome.
type RogueReport struct {
	Unit      *kingdom.Unit
	Target    string // target kingdom name
	Detected  bool
	Destroyed bool
	Stolen    int
	Scouted   *ScoutReport
}

// ScoutReport is what a successful infiltration learns.
type ScoutReport struct {
	Name       string
	Race       rules.Race
	Gold       int
	Food       int
	Population int
	Mood       int
	Bank       int
	Units      int
}

// Infiltrate sends a rogue to scout a rival kingdom. The stealth threshold
// comes from the rogue's visibility stat; a failed attempt is detected but
// the rogue escapes, at the cost of the kingdom's standing.
func (e *Engine) Infiltrate(playerID, targetPlayerID string) (*RogueReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, u, tp, err := e.rogueOp(playerID, targetPlayerID)
	if err != nil {
		return nil, err
	}

	rep := &RogueReport{Unit: u, Target: tp.Name}
	u.LastAction = e.now()

	if e.dice.Roll100() < float64(u.Visibility) {
		targetUnits, err := e.store.ListUnits(tp.ID)
		if err != nil {
			return nil, fmt.Errorf("list target units: %w", err)
		}
		rep.Scouted = &ScoutReport{
			Name:       tp.Name,
			Race:       tp.Race,
			Gold:       tp.Gold,
			Food:       tp.Food,
			Population: tp.Population,
			Mood:       tp.Mood,
			Bank:       tp.Bank,
			Units:      len(targetUnits),
		}
	} else {
		rep.Detected = true
		p.AddMood(-1) // word of the botched job gets home
		e.notifyPlayer(tp.ID, fmt.Sprintf("A spy from %s was spotted skulking around your kingdom.", p.Name))
	}

	if err := e.store.SaveUnit(u); err != nil {
		return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
	}
	e.awardXP(p, u, rules.SkillRogue, rules.XPProduceSuccess)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return rep, nil
}

// Heist sends a rogue after a rival's bank. Success transfers a share of the
// bank; detection costs the rogue their life.
func (e *Engine) Heist(playerID, targetPlayerID string) (*RogueReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, u, tp, err := e.rogueOp(playerID, targetPlayerID)
	if err != nil {
		return nil, err
	}

	rep := &RogueReport{Unit: u, Target: tp.Name}

	if e.dice.Roll100() < float64(u.Visibility) {
		stolen := int(float64(tp.Bank) * heistFrac)
		tp.Bank -= stolen
		if err := e.store.SavePlayer(tp); err != nil {
			return nil, fmt.Errorf("save target player %s: %w", tp.ID, err)
		}
		p.AddGold(stolen)
		rep.Stolen = stolen
		u.LastAction = e.now()
		if err := e.store.SaveUnit(u); err != nil {
			return nil, fmt.Errorf("save unit %s: %w", u.ID, err)
		}
		e.notifyPlayer(tp.ID, fmt.Sprintf("Thieves made off with %d gold from your treasury!", stolen))
	} else {
		rep.Detected = true
		rep.Destroyed = true
		if err := e.store.DeleteUnit(u.ID); err != nil {
			return nil, fmt.Errorf("delete unit %s: %w", u.ID, err)
		}
		e.notifyPlayer(tp.ID, fmt.Sprintf("Your guards caught and executed a thief from %s.", p.Name))
	}

	e.awardXP(p, u, rules.SkillRogue, rules.XPProduceSuccess)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return rep, nil
}

// rogueOp validates the shared preconditions: a target kingdom and an idle,
// off-cooldown rogue.
func (e *Engine) rogueOp(playerID, targetPlayerID string) (*kingdom.Player, *kingdom.Unit, *kingdom.Player, error) {
	p, err := e.player(playerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if targetPlayerID == playerID {
		return nil, nil, nil, Validationf("you cannot rob yourself")
	}
	tp, err := e.store.GetPlayer(targetPlayerID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, nil, Validationf("no such kingdom")
		}
		return nil, nil, nil, fmt.Errorf("load target player %s: %w", targetPlayerID, err)
	}
	u, err := e.readyUnit(p, rules.SkillRogue)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, u, tp, nil
}
