package command

import (
	"strconv"
	"strings"

	"github.com/madeofmoss/KoD/internal/engine"
	"github.com/madeofmoss/KoD/internal/rules"
)

func (d *Dispatcher) registerAll() {
	d.register(&Command{
		Name: "setup", Usage: "setup", Help: "found your kingdom",
		Handler: func(ctx Context, args []string) (string, error) {
			p, err := d.engine.Setup(ctx.PlayerID, ctx.Name)
			if err != nil {
				return "", err
			}
			return renderFounding(p), nil
		},
	})
	d.register(&Command{
		Name: "status", Usage: "status", Help: "your kingdom at a glance",
		Handler: func(ctx Context, args []string) (string, error) {
			p, err := d.engine.Status(ctx.PlayerID)
			if err != nil {
				return "", err
			}
			return renderStatus(p), nil
		},
	})
	d.register(&Command{
		Name: "units", Usage: "units", Help: "list your units",
		Handler: func(ctx Context, args []string) (string, error) {
			units, err := d.engine.Units(ctx.PlayerID)
			if err != nil {
				return "", err
			}
			return renderUnits(units), nil
		},
	})
	d.register(&Command{
		Name: "inventory", Usage: "inventory", Help: "list your goods",
		Handler: func(ctx Context, args []string) (string, error) {
			items, err := d.engine.Inventory(ctx.PlayerID)
			if err != nil {
				return "", err
			}
			return renderInventory(items), nil
		},
	})
	d.register(&Command{
		Name: "levels", Usage: "levels", Help: "skill levels and XP",
		Handler: func(ctx Context, args []string) (string, error) {
			levels, err := d.engine.Levels(ctx.PlayerID)
			if err != nil {
				return "", err
			}
			return renderLevels(levels), nil
		},
	})
	d.register(&Command{
		Name: "train", Usage: "train <skill>", Help: "train a new unit",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) != 1 {
				return "", usageError("train <skill>")
			}
			u, err := d.engine.Train(ctx.PlayerID, rules.Skill(strings.ToLower(args[0])))
			if err != nil {
				return "", err
			}
			return renderNewUnit(u), nil
		},
	})

	// Production commands share one handler shape.
	production := []struct {
		name, help string
		skill      rules.Skill
	}{
		{"farm", "work the fields for food", rules.SkillFarmer},
		{"hunt", "hunt for food", rules.SkillHunter},
		{"mine", "dig for ore at the mountain", rules.SkillMiner},
		{"invent", "tinker up a trinket", rules.SkillInventor},
		{"monk", "brew a barrel of beer", rules.SkillMonk},
		{"merchant", "trade for gold at the market", rules.SkillMerchant},
		{"entertain", "create a work of art", rules.SkillEntertainer},
		{"medic", "mix a dose of medicine", rules.SkillMedic},
	}
	for _, pc := range production {
		skill := pc.skill
		d.register(&Command{
			Name: pc.name, Usage: pc.name, Help: pc.help,
			Handler: func(ctx Context, args []string) (string, error) {
				res, err := d.engine.Action(ctx.PlayerID, skill)
				if err != nil {
					return "", err
				}
				return renderProduce(res), nil
			},
		})
	}

	d.register(&Command{
		Name: "smith", Usage: "smith <weapon|armor>", Help: "forge equipment",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) != 1 {
				return "", usageError("smith <weapon|armor>")
			}
			res, err := d.engine.Smith(ctx.PlayerID, rules.Item(strings.ToLower(args[0])))
			if err != nil {
				return "", err
			}
			return renderProduce(res), nil
		},
	})
	d.register(&Command{
		Name: "rollall", Usage: "rollall", Help: "run every ready production",
		Handler: func(ctx Context, args []string) (string, error) {
			results, err := d.engine.RollAll(ctx.PlayerID)
			if err != nil {
				return "", err
			}
			return renderRollAll(results), nil
		},
	})

	d.register(&Command{
		Name: "buy", Usage: "buy <item> [qty]", Help: "buy at the market",
		Handler: func(ctx Context, args []string) (string, error) {
			item, qty, err := itemQtyArgs(args, "buy <item> [qty]")
			if err != nil {
				return "", err
			}
			rep, err := d.engine.Buy(ctx.PlayerID, item, qty)
			if err != nil {
				return "", err
			}
			return renderTrade("Bought", rep), nil
		},
	})
	d.register(&Command{
		Name: "sell", Usage: "sell <item> [qty]", Help: "sell goods",
		Handler: func(ctx Context, args []string) (string, error) {
			item, qty, err := itemQtyArgs(args, "sell <item> [qty]")
			if err != nil {
				return "", err
			}
			rep, err := d.engine.Sell(ctx.PlayerID, item, qty)
			if err != nil {
				return "", err
			}
			return renderTrade("Sold", rep), nil
		},
	})

	d.register(&Command{
		Name: "move", Usage: "move <unit> <zone>", Help: "send a unit to a zone",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) < 2 {
				return "", usageError("move <unit> <zone>")
			}
			dest := rules.Zone(strings.ToLower(args[len(args)-1]))
			unitRef := strings.Join(args[:len(args)-1], " ")
			u, err := d.engine.StartTravel(ctx.PlayerID, unitRef, dest)
			if err != nil {
				return "", err
			}
			return renderDeparture(u), nil
		},
	})
	d.register(&Command{
		Name: "wander", Usage: "wander <unit> [spaces]", Help: "roam the forest",
		Handler: func(ctx Context, args []string) (string, error) {
			unitRef, spaces, err := unitSpacesArgs(args, "wander <unit> [spaces]")
			if err != nil {
				return "", err
			}
			u, err := d.engine.StartWander(ctx.PlayerID, unitRef, spaces)
			if err != nil {
				return "", err
			}
			return renderExploring(u, "into the forest"), nil
		},
	})
	d.register(&Command{
		Name: "sail", Usage: "sail <unit> [spaces]", Help: "sail from the coast",
		Handler: func(ctx Context, args []string) (string, error) {
			unitRef, spaces, err := unitSpacesArgs(args, "sail <unit> [spaces]")
			if err != nil {
				return "", err
			}
			u, err := d.engine.StartSail(ctx.PlayerID, unitRef, spaces)
			if err != nil {
				return "", err
			}
			return renderExploring(u, "out to sea"), nil
		},
	})

	d.register(&Command{
		Name: "attack", Usage: "attack <unit> <unit|kingdom> <target>", Help: "strike a rival",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) < 3 {
				return "", usageError("attack <unit> <unit|kingdom> <target> [targetUnit]")
			}
			unitRef := args[0]
			switch strings.ToLower(args[1]) {
			case "kingdom":
				rep, err := d.engine.AttackKingdom(ctx.PlayerID, unitRef, args[2])
				if err != nil {
					return "", err
				}
				return renderKingdomAttack(rep), nil
			case "unit":
				if len(args) != 4 {
					return "", usageError("attack <unit> unit <targetKingdom> <targetUnit>")
				}
				rep, err := d.engine.AttackUnit(ctx.PlayerID, unitRef, args[2], args[3])
				if err != nil {
					return "", err
				}
				return renderUnitAttack(rep), nil
			}
			return "", usageError("attack <unit> <unit|kingdom> <target>")
		},
	})

	d.register(&Command{
		Name: "rogue", Usage: "rogue <infiltrate|heist> <target>", Help: "send a rogue on a job",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) != 2 {
				return "", usageError("rogue <infiltrate|heist> <target>")
			}
			switch strings.ToLower(args[0]) {
			case "infiltrate":
				rep, err := d.engine.Infiltrate(ctx.PlayerID, args[1])
				if err != nil {
					return "", err
				}
				return renderRogue(rep), nil
			case "heist":
				rep, err := d.engine.Heist(ctx.PlayerID, args[1])
				if err != nil {
					return "", err
				}
				return renderRogue(rep), nil
			}
			return "", usageError("rogue <infiltrate|heist> <target>")
		},
	})

	d.register(&Command{
		Name: "item", Usage: "item <type>", Help: "use a consumable",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) != 1 {
				return "", usageError("item <type>")
			}
			return d.engine.UseItem(ctx.PlayerID, rules.Item(strings.ToLower(args[0])))
		},
	})
	d.register(&Command{
		Name: "equip", Usage: "equip <unit> <weapon|armor>", Help: "fit forged gear",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) < 2 {
				return "", usageError("equip <unit> <weapon|armor>")
			}
			item := rules.Item(strings.ToLower(args[len(args)-1]))
			unitRef := strings.Join(args[:len(args)-1], " ")
			u, err := d.engine.Equip(ctx.PlayerID, unitRef, item)
			if err != nil {
				return "", err
			}
			return renderEquipped(u, item), nil
		},
	})
	d.register(&Command{
		Name: "hotpotato", Usage: "hotpotato <stake>", Help: "gamble gold on the fuse",
		Handler: func(ctx Context, args []string) (string, error) {
			if len(args) != 1 {
				return "", usageError("hotpotato <stake>")
			}
			stake, err := strconv.Atoi(args[0])
			if err != nil {
				return "", engine.Validationf("the stake must be a number")
			}
			return d.engine.HotPotato(ctx.PlayerID, stake)
		},
	})
	d.register(&Command{
		Name: "reset", Usage: "reset", Help: "destroy your kingdom (asks first)",
		Handler: func(ctx Context, args []string) (string, error) {
			return d.engine.Reset(ctx.PlayerID)
		},
	})
	d.register(&Command{
		Name: "commands", Usage: "commands", Help: "this listing",
		Handler: func(ctx Context, args []string) (string, error) {
			return d.helpListing(), nil
		},
	})
}

func itemQtyArgs(args []string, usage string) (rules.Item, int, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, usageError(usage)
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "", 0, engine.Validationf("quantity must be a positive number")
		}
		qty = n
	}
	return rules.Item(strings.ToLower(args[0])), qty, nil
}

func unitSpacesArgs(args []string, usage string) (string, int, error) {
	if len(args) < 1 {
		return "", 0, usageError(usage)
	}
	spaces := 0
	last := args[len(args)-1]
	if n, err := strconv.Atoi(last); err == nil {
		spaces = n
		args = args[:len(args)-1]
		if len(args) == 0 {
			return "", 0, usageError(usage)
		}
	}
	return strings.Join(args, " "), spaces, nil
}
