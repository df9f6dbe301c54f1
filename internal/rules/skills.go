// Skill tier tables: combat, movement, and production odds per level.
package rules

// Skill identifies a unit archetype. The same name doubles as the unit's
// class and the kingdom's trainable skill.
type Skill string

const (
	SkillFarmer      Skill = "farmer"
	SkillHunter      Skill = "hunter"
	SkillMiner       Skill = "miner"
	SkillSmith       Skill = "smith"
	SkillInventor    Skill = "inventor"
	SkillMonk        Skill = "monk"
	SkillMerchant    Skill = "merchant"
	SkillEntertainer Skill = "entertainer"
	SkillMedic       Skill = "medic"
	SkillRogue       Skill = "rogue"
)

// AllSkills lists every skill in a fixed order.
func AllSkills() []Skill {
	return []Skill{
		SkillFarmer, SkillHunter, SkillMiner, SkillSmith, SkillInventor,
		SkillMonk, SkillMerchant, SkillEntertainer, SkillMedic, SkillRogue,
	}
}

// Item identifies a good held in inventory or on the kingdom balance.
type Item string

const (
	// Balance pseudo-items: credited directly to the player record.
	ItemFood Item = "food"
	ItemGold Item = "gold"

	// Inventory items.
	ItemOre        Item = "ore"
	ItemGem        Item = "gem"
	ItemTrinket    Item = "trinket"
	ItemArt        Item = "art"
	ItemMedicine   Item = "medicine"
	ItemBeerBarrel Item = "beer_barrel"
	ItemWeapon     Item = "weapon"
	ItemArmor      Item = "armor"
)

// Band is one outcome in a discrete production table: Weight percent of all
// rolls yield Amount. Weights in a row sum to 100 and are scanned
// cumulatively against a roll in [0, 100).
type Band struct {
	Amount int
	Weight int
}

// LevelRow holds the static stats for one (skill, level) tier. Only the
// fields relevant to the skill are populated: Chances for discrete producers,
// SuccessRate/MinValue/MaxValue for the smith, Visibility for the rogue, and
// GemChance as the miner's independent secondary roll.
type LevelRow struct {
	C float64 // base combat
	M int     // movement points per tick

	Chances     []Band
	GemChance   int // percent, rolled independently of the ore roll
	SuccessRate int // percent; failing the gate yields nothing
	MinValue    float64
	MaxValue    float64
	Visibility  int // percent chance to stay unseen
}

// SkillTable is the full 6-tier definition of one skill.
type SkillTable struct {
	Produces Item // "" when the skill has no production roll
	Levels   [MaxLevel + 1]LevelRow // indexed 1..6
}

func defaultSkills() map[Skill]*SkillTable {
	return map[Skill]*SkillTable{
		SkillFarmer: {
			Produces: ItemFood,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 2, M: 3, Chances: []Band{{0, 25}, {1, 65}, {2, 10}}},
				2: {C: 3, M: 3, Chances: []Band{{0, 20}, {1, 60}, {2, 20}}},
				3: {C: 4, M: 4, Chances: []Band{{0, 15}, {1, 55}, {2, 25}, {3, 5}}},
				4: {C: 5, M: 4, Chances: []Band{{0, 10}, {1, 50}, {2, 30}, {3, 10}}},
				5: {C: 6, M: 5, Chances: []Band{{0, 5}, {1, 45}, {2, 35}, {3, 15}}},
				6: {C: 8, M: 5, Chances: []Band{{0, 5}, {1, 35}, {2, 40}, {3, 20}}},
			},
		},
		SkillHunter: {
			Produces: ItemFood,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 3, M: 4, Chances: []Band{{0, 35}, {1, 40}, {2, 20}, {3, 5}}},
				2: {C: 4, M: 4, Chances: []Band{{0, 30}, {1, 40}, {2, 22}, {3, 8}}},
				3: {C: 5, M: 5, Chances: []Band{{0, 25}, {1, 38}, {2, 25}, {3, 12}}},
				4: {C: 7, M: 5, Chances: []Band{{0, 20}, {1, 30}, {2, 28}, {3, 14}, {4, 8}}},
				5: {C: 8, M: 6, Chances: []Band{{0, 15}, {1, 28}, {2, 30}, {3, 17}, {4, 10}}},
				6: {C: 10, M: 6, Chances: []Band{{0, 10}, {1, 25}, {2, 32}, {3, 20}, {4, 13}}},
			},
		},
		SkillMiner: {
			Produces: ItemOre,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 2, M: 3, GemChance: 2, Chances: []Band{{0, 40}, {1, 50}, {2, 10}}},
				2: {C: 3, M: 3, GemChance: 3, Chances: []Band{{0, 35}, {1, 50}, {2, 15}}},
				3: {C: 4, M: 4, GemChance: 5, Chances: []Band{{0, 30}, {1, 48}, {2, 22}}},
				4: {C: 5, M: 4, GemChance: 7, Chances: []Band{{0, 25}, {1, 45}, {2, 25}, {3, 5}}},
				5: {C: 6, M: 4, GemChance: 9, Chances: []Band{{0, 20}, {1, 42}, {2, 28}, {3, 10}}},
				6: {C: 7, M: 5, GemChance: 12, Chances: []Band{{0, 15}, {1, 38}, {2, 32}, {3, 15}}},
			},
		},
		SkillSmith: {
			// The smith forges weapons or armor; the caller picks which.
			Produces: ItemWeapon,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 3, M: 3, SuccessRate: 55, MinValue: 1, MaxValue: 3},
				2: {C: 4, M: 3, SuccessRate: 60, MinValue: 1.5, MaxValue: 4},
				3: {C: 5, M: 3, SuccessRate: 65, MinValue: 2, MaxValue: 5},
				4: {C: 6, M: 4, SuccessRate: 70, MinValue: 2.5, MaxValue: 6.5},
				5: {C: 7, M: 4, SuccessRate: 75, MinValue: 3, MaxValue: 8},
				6: {C: 9, M: 4, SuccessRate: 80, MinValue: 4, MaxValue: 10},
			},
		},
		SkillInventor: {
			Produces: ItemTrinket,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 1, M: 3, Chances: []Band{{0, 70}, {1, 30}}},
				2: {C: 2, M: 3, Chances: []Band{{0, 65}, {1, 35}}},
				3: {C: 2, M: 3, Chances: []Band{{0, 60}, {1, 40}}},
				4: {C: 3, M: 4, Chances: []Band{{0, 55}, {1, 40}, {2, 5}}},
				5: {C: 3, M: 4, Chances: []Band{{0, 50}, {1, 42}, {2, 8}}},
				6: {C: 4, M: 4, Chances: []Band{{0, 45}, {1, 43}, {2, 12}}},
			},
		},
		SkillMonk: {
			Produces: ItemBeerBarrel,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 2, M: 3, Chances: []Band{{0, 55}, {1, 45}}},
				2: {C: 2, M: 3, Chances: []Band{{0, 50}, {1, 50}}},
				3: {C: 3, M: 3, Chances: []Band{{0, 45}, {1, 50}, {2, 5}}},
				4: {C: 3, M: 4, Chances: []Band{{0, 40}, {1, 52}, {2, 8}}},
				5: {C: 4, M: 4, Chances: []Band{{0, 35}, {1, 53}, {2, 12}}},
				6: {C: 5, M: 4, Chances: []Band{{0, 30}, {1, 52}, {2, 18}}},
			},
		},
		SkillMerchant: {
			Produces: ItemGold,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 1, M: 4, Chances: []Band{{0, 30}, {2, 40}, {4, 20}, {6, 10}}},
				2: {C: 2, M: 4, Chances: []Band{{0, 25}, {2, 40}, {4, 22}, {6, 13}}},
				3: {C: 2, M: 5, Chances: []Band{{0, 22}, {2, 38}, {4, 25}, {6, 15}}},
				4: {C: 3, M: 5, Chances: []Band{{0, 18}, {2, 36}, {5, 28}, {8, 18}}},
				5: {C: 3, M: 6, Chances: []Band{{0, 15}, {3, 35}, {6, 30}, {9, 20}}},
				6: {C: 4, M: 6, Chances: []Band{{0, 10}, {3, 33}, {6, 32}, {10, 25}}},
			},
		},
		SkillEntertainer: {
			Produces: ItemArt,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 1, M: 4, Chances: []Band{{0, 60}, {1, 40}}},
				2: {C: 1, M: 4, Chances: []Band{{0, 55}, {1, 45}}},
				3: {C: 2, M: 5, Chances: []Band{{0, 50}, {1, 45}, {2, 5}}},
				4: {C: 2, M: 5, Chances: []Band{{0, 45}, {1, 47}, {2, 8}}},
				5: {C: 3, M: 5, Chances: []Band{{0, 40}, {1, 48}, {2, 12}}},
				6: {C: 3, M: 6, Chances: []Band{{0, 35}, {1, 48}, {2, 17}}},
			},
		},
		SkillMedic: {
			Produces: ItemMedicine,
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 1, M: 3, Chances: []Band{{0, 65}, {1, 35}}},
				2: {C: 2, M: 3, Chances: []Band{{0, 60}, {1, 40}}},
				3: {C: 2, M: 4, Chances: []Band{{0, 55}, {1, 45}}},
				4: {C: 3, M: 4, Chances: []Band{{0, 50}, {1, 45}, {2, 5}}},
				5: {C: 3, M: 4, Chances: []Band{{0, 45}, {1, 45}, {2, 10}}},
				6: {C: 4, M: 5, Chances: []Band{{0, 40}, {1, 45}, {2, 15}}},
			},
		},
		SkillRogue: {
			Levels: [MaxLevel + 1]LevelRow{
				1: {C: 3, M: 5, Visibility: 20},
				2: {C: 4, M: 5, Visibility: 30},
				3: {C: 5, M: 6, Visibility: 40},
				4: {C: 6, M: 6, Visibility: 50},
				5: {C: 8, M: 7, Visibility: 60},
				6: {C: 10, M: 8, Visibility: 70},
			},
		},
	}
}
