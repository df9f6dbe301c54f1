package engine

import (
	"errors"
	"testing"

	"github.com/madeofmoss/KoD/internal/persistence"
	"github.com/madeofmoss/KoD/internal/rules"
)

// placeMerchant puts an idle merchant at the market so buys can clear.
func placeMerchant(t *testing.T, env *testEnv, playerID string) {
	t.Helper()
	u := env.addUnit(t, playerID, rules.SkillMerchant)
	u.Location = rules.ZoneMarket
	if err := env.store.SaveUnit(u); err != nil {
		t.Fatal(err)
	}
}

func TestBuyNeedsMerchantAtMarket(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	env.addUnit(t, "p", rules.SkillMerchant) // at the capital
	goldBefore := p.Gold

	_, err := env.engine.Buy("p", rules.ItemFood, 2)
	if !IsValidation(err) {
		t.Fatalf("want validation, got %v", err)
	}
	if env.reload(t, "p").Gold != goldBefore {
		t.Error("failed buy must not move gold")
	}
}

func TestBuySellFoodRoundTripNoArbitrage(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	placeMerchant(t, env, "p")
	goldBefore := p.Gold

	bought, err := env.engine.Buy("p", rules.ItemFood, 3)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	sold, err := env.engine.Sell("p", rules.ItemFood, 3)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sold.Total > bought.Total {
		t.Errorf("sell %d > buy %d: arbitrage at merchant level 1", sold.Total, bought.Total)
	}
	if got := env.reload(t, "p").Gold; got > goldBefore {
		t.Errorf("round trip increased gold %d -> %d", goldBefore, got)
	}
}

func TestBuyRejectsUnaffordable(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	placeMerchant(t, env, "p")
	p.Gold = 1
	if err := env.store.SavePlayer(p); err != nil {
		t.Fatal(err)
	}

	if _, err := env.engine.Buy("p", rules.ItemGem, 1); !IsValidation(err) {
		t.Fatalf("want validation, got %v", err)
	}
	got := env.reload(t, "p")
	if got.Gold != 1 {
		t.Error("failed buy must leave gold untouched")
	}
	if items, _ := env.store.ListInventory("p"); len(items) != 0 {
		t.Error("failed buy must leave inventory untouched")
	}
}

// failingInventory refuses every inventory write, standing in for a store
// that dies mid-trade.
type failingInventory struct {
	*persistence.DB
}

func (s *failingInventory) AddItem(string, rules.Item, int, float64, bool) error {
	return errors.New("inventory write failed")
}

func TestBuyRefundsWhenDeliveryFails(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	placeMerchant(t, env, "p")
	goldBefore := p.Gold

	eng := New(rules.Default(), &failingInventory{DB: env.store}, env.dice, env.notes, DefaultConfig())
	eng.now = env.engine.now

	_, err := eng.Buy("p", rules.ItemGem, 1)
	if err == nil || IsValidation(err) {
		t.Fatalf("failed delivery should surface as an internal error, got %v", err)
	}
	if got := env.reload(t, "p").Gold; got != goldBefore {
		t.Errorf("gold = %d, want %d refunded after failed delivery", got, goldBefore)
	}
	if items, _ := env.store.ListInventory("p"); len(items) != 0 {
		t.Errorf("inventory = %v, want empty after failed delivery", items)
	}
}

func TestSellRequiresStock(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")

	if _, err := env.engine.Sell("p", rules.ItemOre, 1); !IsValidation(err) {
		t.Fatalf("selling unheld ore: want validation, got %v", err)
	}

	p := env.reload(t, "p")
	if _, err := env.engine.Sell("p", rules.ItemFood, p.Food+1); !IsValidation(err) {
		t.Fatalf("overselling food: want validation, got %v", err)
	}
}

func TestSellFoodFromBalance(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	foodBefore, goldBefore := p.Food, p.Gold

	rep, err := env.engine.Sell("p", rules.ItemFood, 5)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	got := env.reload(t, "p")
	if got.Food != foodBefore-5 {
		t.Errorf("food = %d, want %d", got.Food, foodBefore-5)
	}
	if got.Gold != goldBefore+rep.Total {
		t.Errorf("gold = %d, want %d", got.Gold, goldBefore+rep.Total)
	}
}

func TestMerchantLevelDiscount(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	placeMerchant(t, env, "p")

	base, err := env.engine.Buy("p", rules.ItemFood, 1)
	if err != nil {
		t.Fatal(err)
	}

	p = env.reload(t, "p")
	p.Skill(rules.SkillMerchant).Level = 3
	if err := env.store.SavePlayer(p); err != nil {
		t.Fatal(err)
	}

	discounted, err := env.engine.Buy("p", rules.ItemFood, 1)
	if err != nil {
		t.Fatal(err)
	}
	if discounted.UnitPrice >= base.UnitPrice {
		t.Errorf("level 3 merchant should buy cheaper: %d vs %d", discounted.UnitPrice, base.UnitPrice)
	}
}

func TestWeaponSellsAtForgedValue(t *testing.T) {
	env := newTestEnv(t)
	p := env.addKingdom(t, "p")
	if err := env.store.AddItem("p", rules.ItemWeapon, 1, 3.5, true); err != nil {
		t.Fatal(err)
	}
	goldBefore := p.Gold

	rep, err := env.engine.Sell("p", rules.ItemWeapon, 1)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	want := rules.Default().Economy.MerchantSellPrice(rules.ItemWeapon, 3.5, 1)
	if rep.Total != want {
		t.Errorf("weapon sale = %d, want %d", rep.Total, want)
	}
	if env.reload(t, "p").Gold != goldBefore+want {
		t.Error("sale proceeds not credited")
	}
	if _, err := env.store.GetItem("p", rules.ItemWeapon); !isNotFound(err) {
		t.Error("sold weapon should leave the inventory")
	}
}

func TestBuyRejectsForgedGoods(t *testing.T) {
	env := newTestEnv(t)
	env.addKingdom(t, "p")
	placeMerchant(t, env, "p")
	if _, err := env.engine.Buy("p", rules.ItemWeapon, 1); !IsValidation(err) {
		t.Fatalf("want validation, got %v", err)
	}
}
