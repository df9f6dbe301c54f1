// Package rules holds the static game data: skill tier tables, race traits,
// market prices, world events, and XP thresholds. The tables are plain keyed
// records with no behavior; build one Rules value at startup and pass it by
// reference into the engine so tests can substitute their own tables.
package rules

// MaxLevel is the highest tier a skill can reach.
const MaxLevel = 6

// Zone is a named location units occupy or travel between.
type Zone string

const (
	ZoneCapital  Zone = "capital"
	ZoneMarket   Zone = "market"
	ZoneMountain Zone = "mountain"
	ZoneForest   Zone = "forest"
	ZoneCoast    Zone = "coast"
)

// AllZones lists every zone in a fixed order.
func AllZones() []Zone {
	return []Zone{ZoneCapital, ZoneMarket, ZoneMountain, ZoneForest, ZoneCoast}
}

// TravelZones lists the zones a unit can travel to from the capital.
func TravelZones() []Zone {
	return []Zone{ZoneCapital, ZoneMarket, ZoneMountain, ZoneForest, ZoneCoast}
}

// Rules is the immutable configuration the engine reads from. Default()
// builds the production tables; tests may construct smaller ones.
type Rules struct {
	Skills  map[Skill]*SkillTable
	Races   map[Race]*RaceTraits
	Economy *Economy
	Events  []WorldEvent
}

// Default returns the canonical rule set.
func Default() *Rules {
	return &Rules{
		Skills:  defaultSkills(),
		Races:   defaultRaces(),
		Economy: defaultEconomy(),
		Events:  defaultEvents(),
	}
}

// SkillRow returns the static row for a skill at a level, clamping the level
// into [1, MaxLevel]. Returns nil for unknown skills.
func (r *Rules) SkillRow(s Skill, level int) *LevelRow {
	table, ok := r.Skills[s]
	if !ok {
		return nil
	}
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return &table.Levels[level]
}

// xpThresholds[n] is the XP needed to leave level n. Level 6 is terminal.
var xpThresholds = [MaxLevel + 1]int{0, 100, 250, 500, 800, 1200, 0}

// XPToAdvance returns the XP required to leave the given level, or 0 when the
// level cannot advance.
func XPToAdvance(level int) int {
	if level < 1 || level >= MaxLevel {
		return 0
	}
	return xpThresholds[level]
}

// Flat XP awards. Failed production pays more than success so a run of bad
// rolls still levels the kingdom.
const (
	XPProduceSuccess = 10
	XPProduceFail    = 15
	XPTravelStart    = 5
	XPTravelTick     = 2
	XPAttack         = 25
)
