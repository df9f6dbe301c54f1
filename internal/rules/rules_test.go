package rules

import "testing"

// Every discrete production table must cover the full roll range: weights sum
// to exactly 100 so no roll in [0, 100) falls through.
func TestProductionWeightsSumTo100(t *testing.T) {
	r := Default()
	for skill, table := range r.Skills {
		for level := 1; level <= MaxLevel; level++ {
			row := table.Levels[level]
			if len(row.Chances) == 0 {
				continue
			}
			sum := 0
			prev := -1
			for _, band := range row.Chances {
				if band.Weight <= 0 {
					t.Errorf("%s level %d: non-positive weight %d", skill, level, band.Weight)
				}
				if band.Amount <= prev {
					t.Errorf("%s level %d: amounts not ascending", skill, level)
				}
				prev = band.Amount
				sum += band.Weight
			}
			if sum != 100 {
				t.Errorf("%s level %d: weights sum to %d, want 100", skill, level, sum)
			}
		}
	}
}

func TestEverySkillHasSixLevels(t *testing.T) {
	r := Default()
	for _, skill := range AllSkills() {
		table, ok := r.Skills[skill]
		if !ok {
			t.Fatalf("missing table for %s", skill)
		}
		for level := 1; level <= MaxLevel; level++ {
			row := table.Levels[level]
			if row.C <= 0 {
				t.Errorf("%s level %d: combat %v, want > 0", skill, level, row.C)
			}
			if row.M <= 0 {
				t.Errorf("%s level %d: movement %d, want > 0", skill, level, row.M)
			}
		}
	}
}

func TestSmithRowsHaveValueRanges(t *testing.T) {
	r := Default()
	for level := 1; level <= MaxLevel; level++ {
		row := r.SkillRow(SkillSmith, level)
		if row.SuccessRate <= 0 || row.SuccessRate > 100 {
			t.Errorf("smith level %d: success rate %d out of range", level, row.SuccessRate)
		}
		if row.MinValue <= 0 || row.MaxValue < row.MinValue {
			t.Errorf("smith level %d: bad value range [%v, %v]", level, row.MinValue, row.MaxValue)
		}
	}
}

func TestSkillRowClampsLevel(t *testing.T) {
	r := Default()
	if got := r.SkillRow(SkillFarmer, 0); got.C != r.SkillRow(SkillFarmer, 1).C {
		t.Errorf("level 0 should clamp to level 1")
	}
	if got := r.SkillRow(SkillFarmer, 99); got.C != r.SkillRow(SkillFarmer, MaxLevel).C {
		t.Errorf("level 99 should clamp to level %d", MaxLevel)
	}
	if r.SkillRow("wizard", 1) != nil {
		t.Errorf("unknown skill should return nil")
	}
}

func TestXPThresholds(t *testing.T) {
	want := map[int]int{1: 100, 2: 250, 3: 500, 4: 800, 5: 1200}
	for level, xp := range want {
		if got := XPToAdvance(level); got != xp {
			t.Errorf("XPToAdvance(%d) = %d, want %d", level, got, xp)
		}
	}
	if got := XPToAdvance(MaxLevel); got != 0 {
		t.Errorf("level %d should be terminal, got threshold %d", MaxLevel, got)
	}
}

func TestAllRacesHaveTraits(t *testing.T) {
	r := Default()
	if len(AllRaces()) != 14 {
		t.Fatalf("expected 14 races, got %d", len(AllRaces()))
	}
	for _, race := range AllRaces() {
		traits, ok := r.Races[race]
		if !ok {
			t.Fatalf("missing traits for %s", race)
		}
		if _, ok := r.Skills[traits.Favored]; !ok {
			t.Errorf("%s: favored skill %q has no table", race, traits.Favored)
		}
	}
}

// At merchant level 0/1 no buy-then-sell round trip may profit.
func TestNoArbitrageAtBaseLevel(t *testing.T) {
	e := defaultEconomy()
	for item := range e.Prices {
		buy := e.MerchantBuyPrice(item, 0, 1)
		sell := e.MerchantSellPrice(item, 0, 1)
		if sell > buy {
			t.Errorf("%s: sell %d > buy %d at merchant level 1", item, sell, buy)
		}
	}
	for _, value := range []float64{1, 2.5, 7.75, 10} {
		if s, b := e.MerchantSellPrice(ItemWeapon, value, 1), e.MerchantBuyPrice(ItemWeapon, value, 1); s > b {
			t.Errorf("weapon value %v: sell %d > buy %d", value, s, b)
		}
		if s, b := e.MerchantSellPrice(ItemArmor, value, 1), e.MerchantBuyPrice(ItemArmor, value, 1); s > b {
			t.Errorf("armor value %v: sell %d > buy %d", value, s, b)
		}
	}
}

func TestMerchantDiscountScales(t *testing.T) {
	e := defaultEconomy()
	base := e.MerchantBuyPrice(ItemGem, 0, 1)
	discounted := e.MerchantBuyPrice(ItemGem, 0, 5)
	if discounted >= base {
		t.Errorf("level 5 buy %d should undercut level 1 buy %d", discounted, base)
	}
	baseSell := e.MerchantSellPrice(ItemGem, 0, 1)
	boosted := e.MerchantSellPrice(ItemGem, 0, 5)
	if boosted <= baseSell {
		t.Errorf("level 5 sell %d should beat level 1 sell %d", boosted, baseSell)
	}
}

func TestEventPoolShape(t *testing.T) {
	events := defaultEvents()
	if len(events) == 0 {
		t.Fatal("empty event pool")
	}
	positive, negative, neutral := 0, 0, 0
	for _, ev := range events {
		if ev.Name == "" || ev.Announce == "" {
			t.Errorf("event missing name or announcement: %+v", ev)
		}
		switch {
		case ev.Mood > 0:
			positive++
		case ev.Mood < 0 || ev.Gold < 0 || ev.DamageZone != "":
			negative++
		default:
			neutral++
		}
	}
	if positive == 0 || negative == 0 || neutral == 0 {
		t.Errorf("pool should mix positive/negative/neutral, got %d/%d/%d", positive, negative, neutral)
	}
}
