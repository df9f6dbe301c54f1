// Unit name generation: short syllabic names in the style of the realm.
package kingdom

import (
	"math/rand"
	"strings"

	"github.com/madeofmoss/KoD/internal/rules"
)

var namePrefixes = []string{
	"Al", "Bran", "Ced", "Dor", "El", "Fen", "Gar", "Hal", "Isen", "Jor",
	"Kel", "Lor", "Mar", "Ned", "Or", "Pell", "Quin", "Rod", "Syl", "Tor",
	"Ul", "Vor", "Wil", "Yor", "Zan",
}

var nameSuffixes = []string{
	"an", "bert", "den", "fred", "gar", "ic", "in", "mund", "or", "rick",
	"son", "ton", "ulf", "wyn",
}

var epithets = map[rules.Skill][]string{
	rules.SkillFarmer:      {"of the Fields", "Greenhand", "the Sower"},
	rules.SkillHunter:      {"Sharpeye", "the Tracker", "Longstride"},
	rules.SkillMiner:       {"Deepdelver", "Stonefist", "of the Shafts"},
	rules.SkillSmith:       {"Hammerhand", "the Forger", "Ironsinger"},
	rules.SkillInventor:    {"the Tinkerer", "Gearwright", "the Curious"},
	rules.SkillMonk:        {"the Devout", "of the Abbey", "Stillwater"},
	rules.SkillMerchant:    {"Goldtongue", "the Haggler", "of the Bazaar"},
	rules.SkillEntertainer: {"the Bard", "Brightvoice", "the Juggler"},
	rules.SkillMedic:       {"the Healer", "Kindhand", "Herbwise"},
	rules.SkillRogue:       {"the Shadow", "Quickfinger", "the Unseen"},
}

// NameGen produces unit names from a seeded source.
type NameGen struct {
	rng *rand.Rand
}

// NewNameGen creates a name generator with the given seed.
func NewNameGen(seed int64) *NameGen {
	return &NameGen{rng: rand.New(rand.NewSource(seed))}
}

// UnitName generates a name like "Torwyn the Tracker" for a unit type.
func (g *NameGen) UnitName(t rules.Skill) string {
	var b strings.Builder
	b.WriteString(namePrefixes[g.rng.Intn(len(namePrefixes))])
	b.WriteString(nameSuffixes[g.rng.Intn(len(nameSuffixes))])
	if list, ok := epithets[t]; ok {
		b.WriteByte(' ')
		b.WriteString(list[g.rng.Intn(len(list))])
	}
	return b.String()
}
