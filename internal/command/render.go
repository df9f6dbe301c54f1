package command

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/madeofmoss/KoD/internal/engine"
	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

func renderFounding(p *kingdom.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The kingdom of %s is founded!\n", p.Name)
	fmt.Fprintf(&b, "Race: %s  |  Skills: %s, %s\n", p.Race, p.SkillA, p.SkillB)
	fmt.Fprintf(&b, "Gold: %s  Food: %d  Population: %d  Mood: %d\n",
		humanize.Comma(int64(p.Gold)), p.Food, p.Population, p.Mood)
	fmt.Fprintf(&b, "Roads from your capital: market %d, mountain %d, forest %d, coast %d.",
		p.DistMarket, p.DistMountain, p.DistForest, p.DistCoast)
	return b.String()
}

func renderStatus(p *kingdom.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", p.Name, p.Race)
	fmt.Fprintf(&b, "Gold: %s  Bank: %s  Food: %s\n",
		humanize.Comma(int64(p.Gold)), humanize.Comma(int64(p.Bank)), humanize.Comma(int64(p.Food)))
	fmt.Fprintf(&b, "Population: %s  Mood: %d/%d\n",
		humanize.Comma(int64(p.Population)), p.Mood, kingdom.MoodMax)
	fmt.Fprintf(&b, "Skills: %s, %s", p.SkillA, p.SkillB)
	var active []string
	if p.TrinketActive {
		active = append(active, "trinket charm")
	}
	if p.BeerActive {
		active = append(active, "beer cheer")
	}
	if p.MedicineActive {
		active = append(active, "medicine dose")
	}
	if len(active) > 0 {
		fmt.Fprintf(&b, "\nActive: %s", strings.Join(active, ", "))
	}
	return b.String()
}

func renderUnits(units []*kingdom.Unit) string {
	if len(units) == 0 {
		return "You have no units. Use `train` to raise one."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your units (%d):\n", len(units))
	for _, u := range units {
		fmt.Fprintf(&b, "  %s — %s, combat %.2f, movement %d, %s",
			u.Name, u.Type, u.Combat, u.Movement, describeState(u))
		if u.WeaponBonus > 0 {
			fmt.Fprintf(&b, ", weapon +%.2f", u.WeaponBonus)
		}
		if u.ArmorBonus > 0 {
			fmt.Fprintf(&b, ", armor +%.2f", u.ArmorBonus)
		}
		fmt.Fprintf(&b, " [%s]\n", u.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeState(u *kingdom.Unit) string {
	switch u.State {
	case kingdom.StateTraveling:
		return fmt.Sprintf("traveling to the %s (%d/%d)", u.Destination, u.DistanceTraveled, u.TotalDistance)
	case kingdom.StateWandering:
		return fmt.Sprintf("wandering (%d spaces left)", u.RemainingSpaces)
	case kingdom.StateSailing:
		return fmt.Sprintf("sailing (%d spaces left)", u.RemainingSpaces)
	}
	return fmt.Sprintf("idle at the %s", u.Location)
}

func renderInventory(items []*kingdom.InventoryEntry) string {
	if len(items) == 0 {
		return "Your stores are empty."
	}
	var b strings.Builder
	b.WriteString("Your stores:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "  %-12s x%d", it.Item, it.Qty)
		if it.Value > 0 {
			fmt.Fprintf(&b, "  (value %.2f)", it.Value)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLevels(levels []engine.SkillLevel) string {
	var b strings.Builder
	b.WriteString("Skill levels:\n")
	for _, l := range levels {
		if l.Next > 0 {
			fmt.Fprintf(&b, "  %-12s level %d (%d/%d XP)\n", l.Skill, l.Level, l.XP, l.Next)
		} else {
			fmt.Fprintf(&b, "  %-12s level %d (max)\n", l.Skill, l.Level)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderNewUnit(u *kingdom.Unit) string {
	return fmt.Sprintf("%s joins your kingdom! (%s, combat %.2f, movement %d)",
		u.Name, u.Type, u.Combat, u.Movement)
}

func renderProduce(res *engine.ProduceResult) string {
	var b strings.Builder
	switch {
	case res.Value > 0:
		fmt.Fprintf(&b, "%s forges a %s of value %.2f!", res.Unit.Name, res.Item, res.Value)
	case res.Amount > 0:
		fmt.Fprintf(&b, "%s brings in %d %s", res.Unit.Name, res.Amount, res.Item)
		if res.Doubled {
			b.WriteString(" (the trinket's charm doubled the haul!)")
		}
		b.WriteString(".")
	default:
		fmt.Fprintf(&b, "%s comes back empty-handed.", res.Unit.Name)
	}
	if res.Gems > 0 {
		fmt.Fprintf(&b, " A gem glitters in the spoil!")
	}
	fmt.Fprintf(&b, " (+%d XP)", res.XP)
	return b.String()
}

func renderRollAll(results []*engine.ProduceResult) string {
	var b strings.Builder
	for _, res := range results {
		b.WriteString(renderProduce(res))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTrade(verb string, rep *engine.TradeReport) string {
	return fmt.Sprintf("%s %d %s at %s gold each (%s total). Balance: %s gold.",
		verb, rep.Qty, rep.Item,
		humanize.Comma(int64(rep.UnitPrice)), humanize.Comma(int64(rep.Total)),
		humanize.Comma(int64(rep.Gold)))
}

func renderDeparture(u *kingdom.Unit) string {
	return fmt.Sprintf("%s sets out for the %s (%d spaces, movement %d per tick).",
		u.Name, u.Destination, u.TotalDistance, u.Movement)
}

func renderExploring(u *kingdom.Unit, where string) string {
	return fmt.Sprintf("%s heads %s for %d spaces.", u.Name, where, u.TotalSpaces)
}

func renderUnitAttack(rep *engine.AttackReport) string {
	if rep.Destroyed {
		return fmt.Sprintf("%s strikes for %.2f damage. %s is destroyed!",
			rep.Attacker.Name, rep.Damage, rep.Defender.Name)
	}
	return fmt.Sprintf("%s strikes %s for %.2f damage (%.2f combat remains).",
		rep.Attacker.Name, rep.Defender.Name, rep.Damage, rep.Defender.Combat)
}

func renderKingdomAttack(rep *engine.AttackReport) string {
	return fmt.Sprintf("%s raids the enemy kingdom, their mood drops by %d.",
		rep.Attacker.Name, rep.MoodHit)
}

func renderRogue(rep *engine.RogueReport) string {
	switch {
	case rep.Scouted != nil:
		s := rep.Scouted
		return fmt.Sprintf("%s slips inside %s unseen:\n  gold %s, bank %s, food %d, population %d, mood %d, units %d",
			rep.Unit.Name, s.Name,
			humanize.Comma(int64(s.Gold)), humanize.Comma(int64(s.Bank)),
			s.Food, s.Population, s.Mood, s.Units)
	case rep.Stolen > 0:
		return fmt.Sprintf("%s cracks the vault of %s and makes off with %s gold!",
			rep.Unit.Name, rep.Target, humanize.Comma(int64(rep.Stolen)))
	case rep.Destroyed:
		return fmt.Sprintf("%s was caught in %s and will not return.", rep.Unit.Name, rep.Target)
	default:
		return fmt.Sprintf("%s was spotted and slipped away empty-handed.", rep.Unit.Name)
	}
}

func renderEquipped(u *kingdom.Unit, item rules.Item) string {
	bonus := u.WeaponBonus
	if item == rules.ItemArmor {
		bonus = u.ArmorBonus
	}
	return fmt.Sprintf("%s is fitted with %s (+%.2f).", u.Name, item, bonus)
}
