package engine

import (
	"fmt"
	"math"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// Victory against a monster pays gold per point of its challenge rating, and
// costs the victor about a quarter of that rating in wounds.
const (
	monsterGoldPerCR   = 5
	encounterWoundFrac = 0.25
)

// AttackReport describes a resolved direct attack.
type AttackReport struct {
	Attacker  *kingdom.Unit
	Defender  *kingdom.Unit // nil for kingdom attacks
	Damage    float64
	Destroyed bool
	MoodHit   int // kingdom attacks only
}

// AttackUnit resolves a direct unit-vs-unit attack. The attacker must be
// idle with combat above zero and at least one movement point; the strike
// costs the point.
func (e *Engine) AttackUnit(playerID, unitRef, targetPlayerID, targetUnitID string) (*AttackReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, atk, err := e.readyAttacker(playerID, unitRef)
	if err != nil {
		return nil, err
	}
	if targetPlayerID == playerID {
		return nil, Validationf("your units will not raise arms against their own kingdom")
	}
	tp, err := e.store.GetPlayer(targetPlayerID)
	if err != nil {
		if isNotFound(err) {
			return nil, Validationf("no such kingdom")
		}
		return nil, fmt.Errorf("load target player %s: %w", targetPlayerID, err)
	}
	def, err := e.store.GetUnit(targetUnitID)
	if err != nil || def.PlayerID != targetPlayerID {
		return nil, Validationf("that kingdom has no such unit")
	}

	atkEff := e.effectiveCombat(p, atk, def.Location)
	defEff := e.effectiveCombat(tp, def, def.Location) + def.ArmorBonus
	damage := math.Max(1, atkEff-defEff/2)
	damage = kingdom.RoundCombat(damage)

	atk.Movement--
	if err := e.store.SaveUnit(atk); err != nil {
		return nil, fmt.Errorf("save attacker %s: %w", atk.ID, err)
	}

	rep := &AttackReport{Attacker: atk, Defender: def, Damage: damage}
	def.Combat = kingdom.RoundCombat(def.Combat - damage)
	if def.Combat <= 0 {
		rep.Destroyed = true
		if err := e.store.DeleteUnit(def.ID); err != nil {
			return nil, fmt.Errorf("delete unit %s: %w", def.ID, err)
		}
		e.applyKillPassives(p, def)
		e.notifyPlayer(tp.ID, fmt.Sprintf("%s was slain by %s of %s!", def.Name, atk.Name, p.Name))
	} else {
		if err := e.store.SaveUnit(def); err != nil {
			return nil, fmt.Errorf("save defender %s: %w", def.ID, err)
		}
		e.notifyPlayer(tp.ID, fmt.Sprintf("%s was wounded by %s of %s (%.2f damage).", def.Name, atk.Name, p.Name, damage))
	}

	e.awardXP(p, atk, atk.Type, rules.XPAttack)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return rep, nil
}

// AttackKingdom strikes at a rival kingdom's morale rather than a unit. Mood
// is floored at its minimum; a kingdom is never destroyed this way.
func (e *Engine) AttackKingdom(playerID, unitRef, targetPlayerID string) (*AttackReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, atk, err := e.readyAttacker(playerID, unitRef)
	if err != nil {
		return nil, err
	}
	if targetPlayerID == playerID {
		return nil, Validationf("your units will not raise arms against their own kingdom")
	}
	tp, err := e.store.GetPlayer(targetPlayerID)
	if err != nil {
		if isNotFound(err) {
			return nil, Validationf("no such kingdom")
		}
		return nil, fmt.Errorf("load target player %s: %w", targetPlayerID, err)
	}

	atkEff := e.effectiveCombat(p, atk, atk.Location)
	moodHit := int(math.Max(1, math.Floor(atkEff/5)))

	atk.Movement--
	if err := e.store.SaveUnit(atk); err != nil {
		return nil, fmt.Errorf("save attacker %s: %w", atk.ID, err)
	}

	tp.AddMood(-moodHit)
	if err := e.store.SavePlayer(tp); err != nil {
		return nil, fmt.Errorf("save target player %s: %w", tp.ID, err)
	}
	e.notifyPlayer(tp.ID, fmt.Sprintf("%s of %s raided your lands, the people despair.", atk.Name, p.Name))

	e.awardXP(p, atk, atk.Type, rules.XPAttack)
	if err := e.store.SavePlayer(p); err != nil {
		return nil, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return &AttackReport{Attacker: atk, MoodHit: moodHit}, nil
}

// readyAttacker loads and validates the attacking unit. Caller holds the
// engine mutex.
func (e *Engine) readyAttacker(playerID, unitRef string) (*kingdom.Player, *kingdom.Unit, error) {
	p, err := e.player(playerID)
	if err != nil {
		return nil, nil, err
	}
	u, err := e.unitByRef(playerID, unitRef)
	if err != nil {
		return nil, nil, err
	}
	if !u.Idle() {
		return nil, nil, Validationf("%s is %s and cannot fight", u.Name, u.State)
	}
	if u.Combat <= 0 {
		return nil, nil, Validationf("%s is in no shape to fight", u.Name)
	}
	if u.Movement < 1 {
		return nil, nil, Validationf("%s has no movement left to close the distance", u.Name)
	}
	return p, u, nil
}

// effectiveCombat is base combat plus weapon bonus plus any race passive for
// the terrain the fight happens on.
func (e *Engine) effectiveCombat(p *kingdom.Player, u *kingdom.Unit, terrain rules.Zone) float64 {
	eff := u.Combat + u.WeaponBonus
	passive := e.rules.Races[p.Race].Passive
	switch terrain {
	case rules.ZoneForest:
		eff += passive.ForestCombat
	case rules.ZoneCoast:
		eff += passive.WaterCombat
	case rules.ZoneMountain:
		eff += passive.MountainCombat
	}
	return eff
}

// applyKillPassives triggers on-kill race effects for the victor.
func (e *Engine) applyKillPassives(p *kingdom.Player, victim *kingdom.Unit) {
	passive := e.rules.Races[p.Race].Passive
	if passive.FoodOnKill > 0 {
		p.AddFood(passive.FoodOnKill)
	}
	if passive.GoldOnKill > 0 {
		p.AddGold(passive.GoldOnKill)
	}
}

// resolveMonster fights a wandering monster of the given challenge rating.
// Returns false when the unit did not survive; the unit is deleted and the
// owner notified. On victory the unit takes a proportional wound but always
// keeps at least 1 combat, and earns gold scaled to the monster.
func (e *Engine) resolveMonster(p *kingdom.Player, u *kingdom.Unit, cr int) (bool, error) {
	return e.resolveEncounter(p, u, float64(cr), rules.ZoneForest, func() {
		reward := cr * monsterGoldPerCR
		p.AddGold(reward)
		e.notifyPlayer(p.ID, fmt.Sprintf("%s slew a monster (CR %d) and looted %d gold.", u.Name, cr, reward))
	}, fmt.Sprintf("%s fell to a monster in the forest.", u.Name))
}

// resolvePirates fights a sailing pirate band. Pirates scale with the length
// of the voyage and pay nothing but survival.
func (e *Engine) resolvePirates(p *kingdom.Player, u *kingdom.Unit) (bool, error) {
	cr := float64(u.TotalSpaces / monsterCheckpoint)
	if cr < 1 {
		cr = 1
	}
	return e.resolveEncounter(p, u, cr, rules.ZoneCoast, func() {
		e.notifyPlayer(p.ID, fmt.Sprintf("%s fought off pirates on the open sea.", u.Name))
	}, fmt.Sprintf("%s was lost to pirates at sea.", u.Name))
}

// resolveEncounter runs the probabilistic win model shared by monsters and
// pirates. One roll against eff/(eff+enemy) decides it.
func (e *Engine) resolveEncounter(p *kingdom.Player, u *kingdom.Unit, enemyCR float64, terrain rules.Zone, onWin func(), lossMsg string) (bool, error) {
	eff := e.effectiveCombat(p, u, terrain)
	if eff <= 0 {
		eff = 0.01
	}
	winP := eff / (eff + enemyCR)

	if !e.dice.Chance(winP) {
		if err := e.store.DeleteUnit(u.ID); err != nil {
			return false, fmt.Errorf("delete unit %s: %w", u.ID, err)
		}
		e.notifyPlayer(p.ID, lossMsg)
		return false, nil
	}

	// Wounds: a fraction of the enemy's rating, never lethal, never pushing
	// combat past the level max.
	wound := kingdom.RoundCombat(enemyCR * encounterWoundFrac)
	u.Combat = kingdom.RoundCombat(u.Combat - wound)
	if u.Combat < 1 {
		u.Combat = 1
	}
	if limit := e.maxCombat(p, u); u.Combat > limit {
		u.Combat = limit
	}
	onWin()
	return true, nil
}
