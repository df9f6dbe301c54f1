package engine

import (
	"fmt"
	"log/slog"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// awardXP credits XP for an action performed by unit u in skill s. Under the
// kingdom model the XP lands on the player's skill record and every unit of
// that skill is refreshed from the store on level-up, so callers must persist
// the acting unit before awarding. Under the per-unit model only u advances.
// The player (and u, in the per-unit model) are mutated in place, not saved.
func (e *Engine) awardXP(p *kingdom.Player, u *kingdom.Unit, s rules.Skill, amount int) {
	if amount <= 0 {
		return
	}
	if e.cfg.XPModel == XPModelUnit && u != nil {
		e.awardUnitXP(p, u, amount)
		return
	}
	e.awardKingdomXP(p, s, amount)
}

func (e *Engine) awardKingdomXP(p *kingdom.Player, s rules.Skill, amount int) {
	prog := p.Skill(s)
	if prog.Level >= rules.MaxLevel {
		return // terminal level, excess XP is discarded
	}
	prog.XP += amount

	// At most one level per award; excess XP beyond the threshold is
	// discarded.
	leveled := false
	if need := rules.XPToAdvance(prog.Level); need > 0 && prog.XP >= need {
		prog.Level++
		prog.XP = 0
		leveled = true
	}
	if leveled {
		slog.Info("skill level up",
			"player", p.ID, "skill", s, "level", prog.Level)
		e.notifyPlayer(p.ID, fmt.Sprintf("Your %s skill reached level %d!", s, prog.Level))
		if err := e.syncUnitsToSkill(p, s); err != nil {
			slog.Error("unit stat sync failed", "player", p.ID, "skill", s, "error", err)
		}
	}
}

func (e *Engine) awardUnitXP(p *kingdom.Player, u *kingdom.Unit, amount int) {
	if u.Level >= rules.MaxLevel {
		return
	}
	u.XP += amount

	// Same discipline as the kingdom model: one level per award, excess
	// discarded.
	leveled := false
	if need := rules.XPToAdvance(u.Level); need > 0 && u.XP >= need {
		u.Level++
		u.XP = 0
		leveled = true
	}
	if leveled {
		e.applyLevelStats(p, u)
		slog.Info("unit level up",
			"player", p.ID, "unit", u.ID, "type", u.Type, "level", u.Level)
		e.notifyPlayer(p.ID, fmt.Sprintf("%s reached level %d!", u.Name, u.Level))
	}
}

// applyLevelStats refreshes a unit's level-derived stats. Combat rises to the
// new ceiling; it never drops, so a wounded unit keeps its wounds.
func (e *Engine) applyLevelStats(p *kingdom.Player, u *kingdom.Unit) {
	row := e.rules.SkillRow(u.Type, e.levelOf(p, u))
	if row == nil {
		return
	}
	if row.C > u.Combat {
		u.Combat = row.C
	}
	u.Movement = row.M + e.rules.Races[p.Race].Passive.MoveBonus
	if row.Visibility > 0 {
		u.Visibility = row.Visibility
	}
}

// syncUnitsToSkill lifts every unit of a skill to the new kingdom level's
// stats. Called after a kingdom-model level-up once the player is saved.
func (e *Engine) syncUnitsToSkill(p *kingdom.Player, s rules.Skill) error {
	units, err := e.store.ListUnits(p.ID)
	if err != nil {
		return fmt.Errorf("list units for %s: %w", p.ID, err)
	}
	level := p.Skill(s).Level
	for _, u := range units {
		if u.Type != s || !u.Idle() {
			// In-transit units pick up the new stats when their journey
			// completes.
			continue
		}
		u.Level = level
		e.applyLevelStats(p, u)
		if err := e.store.SaveUnit(u); err != nil {
			return fmt.Errorf("save unit %s: %w", u.ID, err)
		}
	}
	return nil
}
