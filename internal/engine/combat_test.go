package engine

import (
	"testing"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

func TestAttackDamageFormula(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "atk")
	env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	d := env.addUnit(t, "def", rules.SkillFarmer)

	a.Combat = 10
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	d.Combat = 4
	if err := env.store.SaveUnit(d); err != nil {
		t.Fatal(err)
	}

	rep, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID)
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if rep.Damage != 8 {
		t.Errorf("damage = %v, want max(1, 10-4/2) = 8", rep.Damage)
	}
	// Defender at 4 combat takes 8: destroyed.
	if !rep.Destroyed {
		t.Error("defender at 4 combat should be destroyed by 8 damage")
	}
	if _, err := env.store.GetUnit(d.ID); !isNotFound(err) {
		t.Errorf("destroyed unit must be deleted, got %v", err)
	}

	// The strike cost a movement point.
	after, err := env.store.GetUnit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Movement != a.Movement-1 {
		t.Errorf("movement = %d, want %d", after.Movement, a.Movement-1)
	}
}

func TestAttackNeverLeavesNegativeSurvivor(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "atk")
	env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	d := env.addUnit(t, "def", rules.SkillFarmer)

	a.Combat = 3
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	d.Combat = 10
	if err := env.store.SaveUnit(d); err != nil {
		t.Fatal(err)
	}

	rep, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Destroyed {
		t.Fatal("defender should survive")
	}
	after, err := env.store.GetUnit(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Combat <= 0 {
		t.Errorf("surviving unit has non-positive combat %v", after.Combat)
	}
	if after.Combat >= 10 {
		t.Errorf("damage not applied: %v", after.Combat)
	}
}

func TestAttackValidations(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "atk")
	env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	d := env.addUnit(t, "def", rules.SkillFarmer)

	if _, err := env.engine.AttackUnit("atk", a.ID, "atk", a.ID); !IsValidation(err) {
		t.Errorf("self-attack: want validation, got %v", err)
	}

	a.Movement = 0
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	if _, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID); !IsValidation(err) {
		t.Errorf("no movement: want validation, got %v", err)
	}

	a.Movement = 3
	a.State = kingdom.StateTraveling
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	if _, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID); !IsValidation(err) {
		t.Errorf("in transit: want validation, got %v", err)
	}
}

func TestAttackKingdomHitsMood(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "atk")
	def := env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	a.Combat = 12
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}

	rep, err := env.engine.AttackKingdom("atk", a.ID, "def")
	if err != nil {
		t.Fatal(err)
	}
	if rep.MoodHit != 2 {
		t.Errorf("mood hit = %d, want floor(12/5) = 2", rep.MoodHit)
	}
	got := env.reload(t, "def")
	if got.Mood != def.Mood-2 {
		t.Errorf("mood = %d, want %d", got.Mood, def.Mood-2)
	}

	// Mood floors at the minimum, the kingdom itself survives anything.
	for i := 0; i < 5; i++ {
		a2, _ := env.store.GetUnit(a.ID)
		a2.Movement = 5
		if err := env.store.SaveUnit(a2); err != nil {
			t.Fatal(err)
		}
		if _, err := env.engine.AttackKingdom("atk", a.ID, "def"); err != nil {
			t.Fatal(err)
		}
	}
	got = env.reload(t, "def")
	if got.Mood != kingdom.MoodMin {
		t.Errorf("mood = %d, want floor %d", got.Mood, kingdom.MoodMin)
	}
}

func TestWeaponBonusCountsForAttacker(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "atk")
	env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	d := env.addUnit(t, "def", rules.SkillFarmer)

	a.Combat = 6
	a.WeaponBonus = 4
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	d.Combat = 4
	if err := env.store.SaveUnit(d); err != nil {
		t.Fatal(err)
	}

	rep, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Damage != 8 {
		t.Errorf("damage = %v, want (6+4) - 4/2 = 8", rep.Damage)
	}
}

func TestKillPassivesTrigger(t *testing.T) {
	env := newTestEnv(t)
	atk := env.addKingdom(t, "atk")
	atk.Race = rules.RaceOrc // FoodOnKill 5
	if err := env.store.SavePlayer(atk); err != nil {
		t.Fatal(err)
	}
	env.addKingdom(t, "def")
	a := env.addUnit(t, "atk", rules.SkillHunter)
	d := env.addUnit(t, "def", rules.SkillFarmer)

	a.Combat = 20
	if err := env.store.SaveUnit(a); err != nil {
		t.Fatal(err)
	}
	d.Combat = 1
	if err := env.store.SaveUnit(d); err != nil {
		t.Fatal(err)
	}

	foodBefore := atk.Food
	rep, err := env.engine.AttackUnit("atk", a.ID, "def", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Destroyed {
		t.Fatal("defender should be destroyed")
	}
	if got := env.reload(t, "atk").Food; got != foodBefore+5 {
		t.Errorf("orc kill should grant 5 food: %d -> %d", foodBefore, got)
	}
}

func TestEncounterWoundClampedToMax(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	u := env.addUnit(t, "p", rules.SkillHunter)

	env.dice.chances = []bool{true}
	survived, err := env.engine.resolveMonster(p, u, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !survived {
		t.Fatal("scripted win")
	}
	if u.Combat < 1 {
		t.Errorf("victor must keep at least 1 combat, got %v", u.Combat)
	}
	if limit := env.engine.maxCombat(p, u); u.Combat > limit {
		t.Errorf("combat %v exceeds level max %v", u.Combat, limit)
	}
}
