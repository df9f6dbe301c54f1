// Race traits: a one-time bonus at kingdom creation plus an ongoing passive.
package rules

// Race identifies one of the fourteen playable kingdom races.
type Race string

const (
	RaceHuman      Race = "human"
	RaceElf        Race = "elf"
	RaceDwarf      Race = "dwarf"
	RaceOrc        Race = "orc"
	RaceGoblin     Race = "goblin"
	RaceTroll      Race = "troll"
	RaceUndead     Race = "undead"
	RaceVampire    Race = "vampire"
	RaceHalfling   Race = "halfling"
	RaceGnome      Race = "gnome"
	RaceMerfolk    Race = "merfolk"
	RaceCentaur    Race = "centaur"
	RaceFairy      Race = "fairy"
	RaceDragonborn Race = "dragonborn"
)

// AllRaces lists every race in a fixed order.
func AllRaces() []Race {
	return []Race{
		RaceHuman, RaceElf, RaceDwarf, RaceOrc, RaceGoblin, RaceTroll,
		RaceUndead, RaceVampire, RaceHalfling, RaceGnome, RaceMerfolk,
		RaceCentaur, RaceFairy, RaceDragonborn,
	}
}

// Bonus is applied once when the kingdom is created.
type Bonus struct {
	Gold        int
	Food        int
	Mood        int
	SkillLevels map[Skill]int // extra starting levels per skill
}

// Passive is the race's ongoing modifier. Zero values mean no effect.
type Passive struct {
	ForestCombat   float64 // added to effective combat in the forest
	WaterCombat    float64 // added to effective combat at the coast / sailing
	MountainCombat float64 // added to effective combat at the mountain
	FoodOnKill     int     // food gained when a unit destroys an enemy
	GoldOnKill     int     // gold gained when a unit destroys an enemy
	PopShift       int     // shifts the daily population growth/loss thresholds
	MoveBonus      int     // extra movement points when movement is restored
}

// RaceTraits bundles a race's favored skill with its bonus and passive.
// The favored skill becomes the kingdom's first assigned skill at setup.
type RaceTraits struct {
	Favored Skill
	Bonus   Bonus
	Passive Passive
}

func defaultRaces() map[Race]*RaceTraits {
	return map[Race]*RaceTraits{
		RaceHuman: {
			Favored: SkillMerchant,
			Bonus:   Bonus{Gold: 20},
			Passive: Passive{PopShift: 1},
		},
		RaceElf: {
			Favored: SkillHunter,
			Bonus:   Bonus{SkillLevels: map[Skill]int{SkillHunter: 1}},
			Passive: Passive{ForestCombat: 2},
		},
		RaceDwarf: {
			Favored: SkillMiner,
			Bonus:   Bonus{SkillLevels: map[Skill]int{SkillMiner: 1}},
			Passive: Passive{MountainCombat: 2},
		},
		RaceOrc: {
			Favored: SkillHunter,
			Bonus:   Bonus{Food: 10},
			Passive: Passive{FoodOnKill: 5},
		},
		RaceGoblin: {
			Favored: SkillRogue,
			Bonus:   Bonus{Gold: 30},
			Passive: Passive{GoldOnKill: 3},
		},
		RaceTroll: {
			Favored: SkillMonk,
			Bonus:   Bonus{Food: 15},
			Passive: Passive{MountainCombat: 1, FoodOnKill: 2},
		},
		RaceUndead: {
			Favored: SkillMedic,
			Bonus:   Bonus{SkillLevels: map[Skill]int{SkillMedic: 1}},
			Passive: Passive{PopShift: -1},
		},
		RaceVampire: {
			Favored: SkillRogue,
			Bonus:   Bonus{Gold: 10},
			Passive: Passive{GoldOnKill: 2, FoodOnKill: 2},
		},
		RaceHalfling: {
			Favored: SkillFarmer,
			Bonus:   Bonus{Food: 20},
			Passive: Passive{PopShift: 1},
		},
		RaceGnome: {
			Favored: SkillInventor,
			Bonus:   Bonus{Gold: 10, SkillLevels: map[Skill]int{SkillInventor: 1}},
		},
		RaceMerfolk: {
			Favored: SkillHunter,
			Bonus:   Bonus{Food: 10},
			Passive: Passive{WaterCombat: 2},
		},
		RaceCentaur: {
			Favored: SkillHunter,
			Bonus:   Bonus{Gold: 10},
			Passive: Passive{MoveBonus: 1},
		},
		RaceFairy: {
			Favored: SkillEntertainer,
			Bonus:   Bonus{Mood: 1},
			Passive: Passive{ForestCombat: 1},
		},
		RaceDragonborn: {
			Favored: SkillSmith,
			Bonus:   Bonus{SkillLevels: map[Skill]int{SkillSmith: 1}},
			Passive: Passive{MountainCombat: 1, GoldOnKill: 1},
		},
	}
}
