package engine

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/persistence"
	"github.com/madeofmoss/KoD/internal/rules"
)

// scriptDice replays queued values and falls back to fixed defaults, so every
// test controls exactly the rolls it cares about.
type scriptDice struct {
	rolls    []float64 // Roll100, default 50
	ints     []int     // IntN, default 0
	chances  []bool    // Chance, default false
	betweens []float64 // Between, default min
}

func (d *scriptDice) Roll100() float64 {
	if len(d.rolls) == 0 {
		return 50
	}
	v := d.rolls[0]
	d.rolls = d.rolls[1:]
	return v
}

func (d *scriptDice) IntN(n int) int {
	if len(d.ints) == 0 {
		return 0
	}
	v := d.ints[0]
	d.ints = d.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (d *scriptDice) Chance(p float64) bool {
	if len(d.chances) == 0 {
		return false
	}
	v := d.chances[0]
	d.chances = d.chances[1:]
	return v
}

func (d *scriptDice) Between(min, max float64) float64 {
	if len(d.betweens) == 0 {
		return min
	}
	v := d.betweens[0]
	d.betweens = d.betweens[1:]
	return v
}

type recorder struct {
	mu     sync.Mutex
	direct []string
	public []string
}

func (r *recorder) NotifyPlayer(playerID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direct = append(r.direct, playerID+": "+message)
}

func (r *recorder) Broadcast(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.public = append(r.public, message)
}

type testEnv struct {
	engine *Engine
	store  *persistence.DB
	dice   *scriptDice
	notes  *recorder
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "kod.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		store: db,
		dice:  &scriptDice{},
		notes: &recorder{},
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.engine = New(rules.Default(), db, env.dice, env.notes, DefaultConfig())
	env.engine.now = func() time.Time { return env.now }
	return env
}

func (env *testEnv) advance(d time.Duration) { env.now = env.now.Add(d) }

// addKingdom seeds a human kingdom (no skill-level race bonus) directly in
// the store.
func (env *testEnv) addKingdom(t *testing.T, id string) *kingdom.Player {
	t.Helper()
	p := &kingdom.Player{
		ID:         id,
		Name:       "Kingdom of " + id,
		Race:       rules.RaceHuman,
		SkillA:     rules.SkillFarmer,
		SkillB:     rules.SkillHunter,
		Gold:       100,
		Population: 10,
		Mood:       3,
		Food:       25,
		DistMarket: 8, DistMountain: 12, DistForest: 6, DistCoast: 15,
		CreatedAt: env.now,
	}
	for _, s := range rules.AllSkills() {
		p.Skill(s)
	}
	if err := env.store.CreatePlayer(p); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return p
}

// addUnit seeds one idle unit at the capital, off cooldown.
func (env *testEnv) addUnit(t *testing.T, playerID string, s rules.Skill) *kingdom.Unit {
	t.Helper()
	row := rules.Default().SkillRow(s, 1)
	u := &kingdom.Unit{
		ID:         "unit-" + playerID + "-" + string(s),
		PlayerID:   playerID,
		Name:       "Test " + string(s),
		Type:       s,
		Level:      1,
		Combat:     row.C,
		Movement:   row.M,
		Location:   rules.ZoneCapital,
		State:      kingdom.StateIdle,
		Visibility: row.Visibility,
	}
	if err := env.store.CreateUnit(u); err != nil {
		t.Fatalf("seed unit: %v", err)
	}
	return u
}

func (env *testEnv) reload(t *testing.T, id string) *kingdom.Player {
	t.Helper()
	p, err := env.store.GetPlayer(id)
	if err != nil {
		t.Fatalf("reload player: %v", err)
	}
	return p
}

func TestSetupCreatesKingdom(t *testing.T) {
	env := newTestEnv(t)
	// Race roll 0, second-skill roll 0 (re-rolled if it collides with the
	// favored skill), gold spread roll 7.
	env.dice.ints = []int{0, 0, 7}

	p, err := env.engine.Setup("chat-1", "Eldoria")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	races := rules.AllRaces()
	if p.Race != races[0] {
		t.Errorf("race = %s, want %s", p.Race, races[0])
	}
	if p.SkillA != rules.Default().Races[p.Race].Favored {
		t.Errorf("skill A should be the race's favored skill, got %s", p.SkillA)
	}
	if p.SkillA == p.SkillB {
		t.Error("assigned skills must differ")
	}

	units, err := env.engine.Units("chat-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 {
		t.Fatalf("want 2 starting units, got %d", len(units))
	}
	types := map[rules.Skill]bool{units[0].Type: true, units[1].Type: true}
	if !types[p.SkillA] || !types[p.SkillB] {
		t.Errorf("starting units %v do not match assigned skills %s/%s", types, p.SkillA, p.SkillB)
	}
}

func TestSetupGoldRange(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "rival-1")
	env.addKingdom(t, "rival-2")

	env.dice.ints = []int{2, 3, 40} // race, second skill, max gold spread
	p, err := env.engine.Setup("chat-2", "Newland")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	bonus := rules.Default().Races[p.Race].Bonus.Gold
	want := 80 + 10*2 + 40 + bonus
	if p.Gold != want {
		t.Errorf("gold = %d, want %d (2 rivals, spread 40, race bonus %d)", p.Gold, want, bonus)
	}
}

func TestSetupRejectsSecond(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.engine.Setup("chat-1", "First"); err != nil {
		t.Fatal(err)
	}
	_, err := env.engine.Setup("chat-1", "Second")
	if !IsValidation(err) {
		t.Fatalf("second setup should be a validation failure, got %v", err)
	}
}

func TestAwardXPLevelsAndClamps(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")

	// 100 XP leaves level 1.
	env.engine.awardKingdomXP(p, rules.SkillFarmer, 60)
	if prog := p.Skill(rules.SkillFarmer); prog.Level != 1 || prog.XP != 60 {
		t.Fatalf("after 60 XP: level %d xp %d", prog.Level, prog.XP)
	}
	env.engine.awardKingdomXP(p, rules.SkillFarmer, 75)
	prog := p.Skill(rules.SkillFarmer)
	if prog.Level != 2 {
		t.Fatalf("135 XP should reach level 2, got %d", prog.Level)
	}
	if prog.XP != 0 {
		t.Errorf("excess XP should be discarded on level-up, got %d", prog.XP)
	}

	// One award advances at most one level, however large.
	env.engine.awardKingdomXP(p, rules.SkillFarmer, 10000)
	prog = p.Skill(rules.SkillFarmer)
	if prog.Level != 3 || prog.XP != 0 {
		t.Fatalf("oversized award: level %d xp %d, want level 3 xp 0", prog.Level, prog.XP)
	}

	// Pour in far more than the tables need; level must cap at 6 and stay.
	for i := 0; i < 100; i++ {
		env.engine.awardKingdomXP(p, rules.SkillFarmer, 500)
	}
	prog = p.Skill(rules.SkillFarmer)
	if prog.Level != rules.MaxLevel {
		t.Errorf("level = %d, want cap %d", prog.Level, rules.MaxLevel)
	}
	if prog.XP != 0 {
		t.Errorf("XP at cap should stay 0, got %d", prog.XP)
	}
}

func TestAwardXPPerUnitModel(t *testing.T) {
	env := newTestEnv(t)
	env.engine.cfg.XPModel = XPModelUnit
	p := env.addKingdom(t, "p")
	u := env.addUnit(t, "p", rules.SkillFarmer)

	env.engine.awardXP(p, u, rules.SkillFarmer, 120)
	if u.Level != 2 {
		t.Errorf("unit level = %d, want 2", u.Level)
	}
	if p.Skill(rules.SkillFarmer).XP != 0 {
		t.Error("kingdom skill should be untouched under the per-unit model")
	}
	row := rules.Default().SkillRow(rules.SkillFarmer, 2)
	if u.Combat != row.C {
		t.Errorf("combat = %v, want level 2 base %v", u.Combat, row.C)
	}
}

func TestRespondWithoutPending(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")
	if _, err := env.engine.Respond("p", "yes"); !IsValidation(err) {
		t.Fatalf("want validation, got %v", err)
	}
}

func TestResetConfirmFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")

	if _, err := env.engine.Reset("p"); err != nil {
		t.Fatalf("reset prompt: %v", err)
	}
	// Decline leaves the kingdom alone.
	if _, err := env.engine.Respond("p", "no"); err != nil {
		t.Fatalf("respond no: %v", err)
	}
	if _, err := env.store.GetPlayer("p"); err != nil {
		t.Fatal("kingdom should survive a declined reset")
	}

	// Accept destroys it.
	if _, err := env.engine.Reset("p"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.engine.Respond("p", "yes"); err != nil {
		t.Fatalf("respond yes: %v", err)
	}
	if _, err := env.store.GetPlayer("p"); err == nil {
		t.Fatal("kingdom should be gone after confirmed reset")
	}
}

func TestPendingChoiceExpires(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")

	if _, err := env.engine.Reset("p"); err != nil {
		t.Fatal(err)
	}
	env.advance(env.engine.cfg.ChoiceTimeout + time.Second)

	if _, err := env.engine.Respond("p", "yes"); !IsValidation(err) {
		t.Fatalf("expired choice should read as nothing pending, got %v", err)
	}
	if _, err := env.store.GetPlayer("p"); err != nil {
		t.Fatal("timeout must count as declined")
	}
}

func TestTrainCostScales(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	env.addUnit(t, "p", rules.SkillFarmer)
	env.addUnit(t, "p", rules.SkillHunter)

	p.Gold = 1000
	if err := env.store.SavePlayer(p); err != nil {
		t.Fatal(err)
	}

	if _, err := env.engine.Train("p", rules.SkillMiner); !IsValidation(err) {
		t.Fatalf("training an unassigned skill should fail, got %v", err)
	}

	if _, err := env.engine.Train("p", rules.SkillFarmer); err != nil {
		t.Fatalf("train: %v", err)
	}
	got := env.reload(t, "p")
	if got.Gold != 1000-(trainBaseCost+2*trainCostPerUnit) {
		t.Errorf("gold = %d after training with 2 existing units", got.Gold)
	}
	units, _ := env.store.ListUnits("p")
	if len(units) != 3 {
		t.Errorf("unit count = %d, want 3", len(units))
	}
}
