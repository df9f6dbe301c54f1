// Package kingdom provides the persistent entity model: players (kingdoms),
// their units, and inventory entries.
package kingdom

import (
	"errors"
	"math"
	"time"

	"github.com/madeofmoss/KoD/internal/rules"
)

// ErrNotFound is the shared sentinel for a missing player, unit, or
// inventory entry. The persistence layer returns it; the engine matches it.
var ErrNotFound = errors.New("not found")

// Mood bounds for a kingdom.
const (
	MoodMin = 1
	MoodMax = 5
)

// UnitState is the unit's movement state. A unit is in exactly one state.
type UnitState string

const (
	StateIdle      UnitState = "idle"
	StateTraveling UnitState = "traveling"
	StateWandering UnitState = "wandering"
	StateSailing   UnitState = "sailing"
)

// SkillProgress is the kingdom's XP and level in one skill.
type SkillProgress struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

// Player is one kingdom: the aggregate owned by a single chat identity.
type Player struct {
	ID   string `json:"id"` // opaque chat identity
	Name string `json:"name"`

	Race   rules.Race  `json:"race"`
	SkillA rules.Skill `json:"skill_a"`
	SkillB rules.Skill `json:"skill_b"`

	Gold       int `json:"gold"`
	Population int `json:"population"`
	Mood       int `json:"mood"` // 1..5
	Food       int `json:"food"`
	Bank       int `json:"bank"` // treasury fed by taxation

	// Per-skill progression, one entry for every skill in the table.
	Skills map[rules.Skill]*SkillProgress `json:"skills"`

	// Travel distance from the capital to each named zone, rolled once at
	// kingdom creation.
	DistMarket   int `json:"dist_market"`
	DistMountain int `json:"dist_mountain"`
	DistForest   int `json:"dist_forest"`
	DistCoast    int `json:"dist_coast"`

	// One-shot consumable flags.
	TrinketActive  bool `json:"trinket_active"`
	BeerActive     bool `json:"beer_active"`
	MedicineActive bool `json:"medicine_active"`

	CreatedAt time.Time `json:"created_at"`
}

// Skill returns the progress record for a skill, creating a level-1 entry if
// the player predates the skill's introduction.
func (p *Player) Skill(s rules.Skill) *SkillProgress {
	if p.Skills == nil {
		p.Skills = make(map[rules.Skill]*SkillProgress)
	}
	prog, ok := p.Skills[s]
	if !ok {
		prog = &SkillProgress{Level: 1}
		p.Skills[s] = prog
	}
	return prog
}

// AddGold adjusts gold, never below zero.
func (p *Player) AddGold(delta int) {
	p.Gold += delta
	if p.Gold < 0 {
		p.Gold = 0
	}
}

// AddFood adjusts food, never below zero.
func (p *Player) AddFood(delta int) {
	p.Food += delta
	if p.Food < 0 {
		p.Food = 0
	}
}

// AddPopulation adjusts population, never below zero.
func (p *Player) AddPopulation(delta int) {
	p.Population += delta
	if p.Population < 0 {
		p.Population = 0
	}
}

// AddMood adjusts mood within [MoodMin, MoodMax].
func (p *Player) AddMood(delta int) {
	p.Mood += delta
	if p.Mood < MoodMin {
		p.Mood = MoodMin
	}
	if p.Mood > MoodMax {
		p.Mood = MoodMax
	}
}

// DistanceTo returns the fixed travel distance from the capital to a zone.
// The capital itself is distance zero.
func (p *Player) DistanceTo(zone rules.Zone) int {
	switch zone {
	case rules.ZoneMarket:
		return p.DistMarket
	case rules.ZoneMountain:
		return p.DistMountain
	case rules.ZoneForest:
		return p.DistForest
	case rules.ZoneCoast:
		return p.DistCoast
	}
	return 0
}

// Unit is a single trained worker/combat unit owned by one player.
type Unit struct {
	ID       string      `json:"id"`
	PlayerID string      `json:"player_id"`
	Name     string      `json:"name"`
	Type     rules.Skill `json:"type"`

	// Level and XP are authoritative only under the per-unit progression
	// model; under kingdom-wide XP the owner's skill level governs and these
	// mirror it.
	Level int `json:"level"`
	XP    int `json:"xp"`

	Combat   float64    `json:"combat"` // current, ≤ level-derived max
	Movement int        `json:"movement"`
	Location rules.Zone `json:"location"`

	State            UnitState  `json:"state"`
	Destination      rules.Zone `json:"destination,omitempty"`
	TotalDistance    int        `json:"total_distance,omitempty"`
	DistanceTraveled int        `json:"distance_traveled,omitempty"`
	RemainingSpaces  int        `json:"remaining_spaces,omitempty"`
	TotalSpaces      int        `json:"total_spaces,omitempty"`

	LastAction  time.Time `json:"last_action"`
	WeaponBonus float64   `json:"weapon_bonus"`
	ArmorBonus  float64   `json:"armor_bonus"`
	Visibility  int       `json:"visibility"`
}

// Idle reports whether the unit is available for a new action or movement.
func (u *Unit) Idle() bool {
	return u.State == StateIdle
}

// AvailableAt is the moment the unit's action cooldown expires. Every
// production and rogue command checks this one predicate.
func (u *Unit) AvailableAt(cooldown time.Duration) time.Time {
	return u.LastAction.Add(cooldown)
}

// OffCooldown reports whether the cooldown has elapsed at the given time.
func (u *Unit) OffCooldown(now time.Time, cooldown time.Duration) bool {
	return !now.Before(u.AvailableAt(cooldown))
}

// ClearMovement resets all transit fields and returns the unit to idle.
func (u *Unit) ClearMovement() {
	u.State = StateIdle
	u.Destination = ""
	u.TotalDistance = 0
	u.DistanceTraveled = 0
	u.RemainingSpaces = 0
	u.TotalSpaces = 0
}

// InventoryEntry is a per-player, per-item quantity record. Weapons and armor
// carry a forged value used for equip and sell pricing.
type InventoryEntry struct {
	PlayerID string     `json:"player_id"`
	Item     rules.Item `json:"item"`
	Qty      int        `json:"qty"`
	Value    float64    `json:"value"`
}

// RoundCombat rounds a combat value to 2 decimals so repeated damage
// subtraction cannot drift.
func RoundCombat(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundValue rounds a forged item value to 8 decimals.
func RoundValue(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
