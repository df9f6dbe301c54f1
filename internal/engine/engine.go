// Package engine implements the kingdom simulation: production rolls, XP and
// leveling, unit movement, combat, the market, rogue operations, and the
// daily cycle. Chat transport and persistence are collaborators behind
// interfaces; the engine owns only the rules of the game.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// Store is the persistence collaborator. Every entity is re-fetched before
// mutation and written back whole.
type Store interface {
	CreatePlayer(*kingdom.Player) error
	SavePlayer(*kingdom.Player) error
	GetPlayer(id string) (*kingdom.Player, error)
	ListPlayers() ([]*kingdom.Player, error)
	CountPlayers() (int, error)
	DeletePlayer(id string) error

	CreateUnit(*kingdom.Unit) error
	SaveUnit(*kingdom.Unit) error
	GetUnit(id string) (*kingdom.Unit, error)
	ListUnits(playerID string) ([]*kingdom.Unit, error)
	ListUnitsInTransit() ([]*kingdom.Unit, error)
	DeleteUnit(id string) error

	AddItem(playerID string, item rules.Item, qty int, value float64, overwriteValue bool) error
	RemoveItem(playerID string, item rules.Item, qty int) error
	GetItem(playerID string, item rules.Item) (*kingdom.InventoryEntry, error)
	ListInventory(playerID string) ([]*kingdom.InventoryEntry, error)
}

// Dice draws the randomness behind every roll. Tests script it.
type Dice interface {
	Roll100() float64             // uniform [0, 100)
	Chance(p float64) bool        // true with probability p
	IntN(n int) int               // uniform [0, n)
	Between(min, max float64) float64
}

// Notifier delivers out-of-band messages. Implementations must not block.
type Notifier interface {
	NotifyPlayer(playerID, message string)
	Broadcast(message string)
}

// XP progression models.
const (
	XPModelKingdom = "kingdom" // default: XP accrues on the player's skill
	XPModelUnit    = "unit"    // alternate: XP accrues on the acting unit
)

// Daily growth policies.
const (
	DailyPolicyProduce = "produce" // automatic production attempts per skill
	DailyPolicySpawn   = "spawn"   // spawn one unit per assigned skill
)

// Config holds the engine tunables.
type Config struct {
	Cooldown      time.Duration // production/rogue action cooldown
	ChoiceTimeout time.Duration // pending-choice expiry
	TaxRate       float64       // daily gold tax fraction
	BankRetention float64       // fraction of the tax pool retained as bank
	XPModel       string        // XPModelKingdom or XPModelUnit
	DailyPolicy   string        // DailyPolicyProduce or DailyPolicySpawn
	DailyAttempts int           // production attempts per skill under the produce policy
	WorldSeed     int64         // seeds zone distances and unit names
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		Cooldown:      15 * time.Minute,
		ChoiceTimeout: 30 * time.Second,
		TaxRate:       0.05,
		BankRetention: 0.5,
		XPModel:       XPModelKingdom,
		DailyPolicy:   DailyPolicyProduce,
		DailyAttempts: 3,
		WorldSeed:     1,
	}
}

// Engine is the simulation core. All operations serialize on one mutex: the
// game runs a single logical timeline, with command handlers and the two
// background ticks interleaving at operation granularity.
type Engine struct {
	mu     sync.Mutex
	rules  *rules.Rules
	store  Store
	dice   Dice
	notify Notifier
	cfg    Config

	now     func() time.Time // swapped in tests
	names   *kingdom.NameGen
	pending *pendingTable
}

// New wires an engine together.
func New(r *rules.Rules, store Store, dice Dice, notify Notifier, cfg Config) *Engine {
	if cfg.XPModel == "" {
		cfg.XPModel = XPModelKingdom
	}
	if cfg.DailyPolicy == "" {
		cfg.DailyPolicy = DailyPolicyProduce
	}
	if cfg.DailyAttempts <= 0 {
		cfg.DailyAttempts = 3
	}
	return &Engine{
		rules:   r,
		store:   store,
		dice:    dice,
		notify:  notify,
		cfg:     cfg,
		now:     time.Now,
		names:   kingdom.NewNameGen(cfg.WorldSeed),
		pending: newPendingTable(),
	}
}

// ValidationError is a user-facing rejection: the command was well-formed but
// the game state does not allow it. No mutation happened; not logged as an
// error.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-facing validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// player loads a kingdom or returns the standard "no kingdom" validation.
func (e *Engine) player(playerID string) (*kingdom.Player, error) {
	p, err := e.store.GetPlayer(playerID)
	if err != nil {
		if isNotFound(err) {
			return nil, Validationf("you have no kingdom yet, use `setup` to found one")
		}
		return nil, fmt.Errorf("load player %s: %w", playerID, err)
	}
	return p, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, kingdom.ErrNotFound)
}

// levelOf returns the governing level for a unit under the configured XP
// model. Under kingdom XP the owner's skill level is read at time of use.
func (e *Engine) levelOf(p *kingdom.Player, u *kingdom.Unit) int {
	if e.cfg.XPModel == XPModelUnit {
		return u.Level
	}
	return p.Skill(u.Type).Level
}

// maxCombat is the level-derived ceiling for a unit's base combat value.
// Weapon and armor bonuses sit on top of it.
func (e *Engine) maxCombat(p *kingdom.Player, u *kingdom.Unit) float64 {
	row := e.rules.SkillRow(u.Type, e.levelOf(p, u))
	if row == nil {
		return u.Combat
	}
	return row.C
}

func (e *Engine) notifyPlayer(playerID, msg string) {
	if e.notify != nil {
		e.notify.NotifyPlayer(playerID, msg)
	}
}

func (e *Engine) broadcast(msg string) {
	if e.notify != nil {
		e.notify.Broadcast(msg)
	}
}
