// Daily world event pool. The daily cycle draws one event and applies its
// per-player effects; the mood delta tags the event positive, negative, or
// neutral.
package rules

// WorldEvent is one entry in the daily event pool. Zero-valued effect fields
// do nothing; an event with all zero effects is purely cosmetic.
type WorldEvent struct {
	Name     string
	Announce string // broadcast text
	Obscured bool   // announce vaguely instead of naming the effect

	Mood       int     // per-player mood delta
	Gold       int     // per-player gold delta (negative = loss)
	DamageZone Zone    // "" = none; damages one random unit at this zone
	Damage     float64 // combat damage dealt by DamageZone events
}

func defaultEvents() []WorldEvent {
	return []WorldEvent{
		{
			Name:     "harvest festival",
			Announce: "A bountiful harvest festival sweeps the land! Spirits are high.",
			Mood:     1,
		},
		{
			Name:     "royal wedding",
			Announce: "A royal wedding! Celebrations and gifts for every kingdom.",
			Mood:     1,
			Gold:     5,
		},
		{
			Name:     "merchant caravan",
			Announce: "A wealthy caravan passes through, trading generously.",
			Gold:     10,
		},
		{
			Name:     "bandit raid",
			Announce: "Something stirs on the roads tonight...",
			Obscured: true,
			Gold:     -15,
		},
		{
			Name:     "plague scare",
			Announce: "Rumors of plague spread from town to town.",
			Mood:     -1,
		},
		{
			Name:       "rockslide",
			Announce:   "The mountains rumble ominously...",
			Obscured:   true,
			DamageZone: ZoneMountain,
			Damage:     2,
		},
		{
			Name:       "storm at sea",
			Announce:   "Dark clouds gather over the coast...",
			Obscured:   true,
			DamageZone: ZoneCoast,
			Damage:     2,
		},
		{
			Name:       "wolf packs",
			Announce:   "Howling echoes through the forest...",
			Obscured:   true,
			DamageZone: ZoneForest,
			Damage:     2,
		},
		{
			Name:     "quiet day",
			Announce: "An uneventful day passes in the realm.",
		},
	}
}
