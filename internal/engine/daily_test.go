package engine

import (
	"testing"

	"github.com/madeofmoss/KoD/internal/rules"
)

func TestDailyTaxAndRedistribution(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "a")
	env.addKingdom(t, "b")

	// Default event roll lands on the harvest festival (mood +1, no gold).
	env.engine.DailyTick()

	for _, id := range []string{"a", "b"} {
		p := env.reload(t, id)
		// 5% of 100 taxed away, half the pool retained as bank (2 each),
		// the rest handed back (2 each).
		if p.Gold != 97 {
			t.Errorf("%s: gold = %d, want 97", id, p.Gold)
		}
		if p.Bank != 2 {
			t.Errorf("%s: bank = %d, want 2", id, p.Bank)
		}
		if p.Mood != 4 {
			t.Errorf("%s: mood = %d, want 4 after the festival", id, p.Mood)
		}
		if p.Population != 11 {
			t.Errorf("%s: population = %d, want 11 (food above threshold)", id, p.Population)
		}
	}

	if len(env.notes.public) != 1 {
		t.Fatalf("want one broadcast, got %v", env.notes.public)
	}
}

func TestDailySpawnPolicy(t *testing.T) {
	env := newTestEnv(t)
	env.engine.cfg.DailyPolicy = DailyPolicySpawn
	env.addKingdom(t, "p")

	env.engine.DailyTick()

	units, err := env.store.ListUnits("p")
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 {
		t.Fatalf("spawn policy should grant one unit per assigned skill, got %d", len(units))
	}
	types := map[rules.Skill]bool{}
	for _, u := range units {
		types[u.Type] = true
	}
	if !types[rules.SkillFarmer] || !types[rules.SkillHunter] {
		t.Errorf("spawned types %v, want farmer and hunter", types)
	}
}

func TestDailyProducePolicyYields(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	foodBefore := p.Food

	env.engine.DailyTick()

	got := env.reload(t, "p")
	// Upkeep charges population, the free production attempts earn it back;
	// with every roll at the default 50 the farmer alone lands 3 food.
	if got.Food <= foodBefore-got.Population {
		t.Errorf("produce policy should add yields on top of upkeep: %d -> %d", foodBefore, got.Food)
	}
	if units, _ := env.store.ListUnits("p"); len(units) != 0 {
		t.Error("produce policy must not spawn units")
	}
}

func TestDailyEventDamagesExposedUnit(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")
	u := env.addUnit(t, "p", rules.SkillHunter)
	u.Location = rules.ZoneForest
	u.Combat = 3
	if err := env.store.SaveUnit(u); err != nil {
		t.Fatal(err)
	}

	// Event 7 is the wolf packs (forest, 2 damage); the second draw picks
	// the victim.
	env.dice.ints = []int{7, 0}
	env.engine.DailyTick()

	after, err := env.store.GetUnit(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Combat != 1 {
		t.Errorf("combat = %v, want 1 after 2 damage", after.Combat)
	}
}

func TestDailyEventKillsWeakUnit(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")
	u := env.addUnit(t, "p", rules.SkillHunter)
	u.Location = rules.ZoneForest
	u.Combat = 1.5
	if err := env.store.SaveUnit(u); err != nil {
		t.Fatal(err)
	}

	env.dice.ints = []int{7, 0}
	env.engine.DailyTick()

	if _, err := env.store.GetUnit(u.ID); !isNotFound(err) {
		t.Fatalf("unit at 1.5 combat should not survive 2 damage, got %v", err)
	}
}

func TestMedicineShieldsEventDamage(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	p.MedicineActive = true
	if err := env.store.SavePlayer(p); err != nil {
		t.Fatal(err)
	}
	u := env.addUnit(t, "p", rules.SkillHunter)
	u.Location = rules.ZoneForest
	u.Combat = 3
	if err := env.store.SaveUnit(u); err != nil {
		t.Fatal(err)
	}

	env.dice.ints = []int{7}
	env.engine.DailyTick()

	after, err := env.store.GetUnit(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Combat != 3 {
		t.Errorf("shielded unit took damage: %v", after.Combat)
	}
	if env.reload(t, "p").MedicineActive {
		t.Error("medicine shield should burn on use")
	}
}

func TestBeerShieldsMoodEvent(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	p.BeerActive = true
	if err := env.store.SavePlayer(p); err != nil {
		t.Fatal(err)
	}
	moodBefore := p.Mood

	env.dice.ints = []int{4} // plague scare, mood -1
	env.engine.DailyTick()

	got := env.reload(t, "p")
	if got.Mood != moodBefore {
		t.Errorf("beer shield should hold the mood: %d -> %d", moodBefore, got.Mood)
	}
	if got.BeerActive {
		t.Error("beer shield should burn on use")
	}
}
