// Package persistence provides SQLite-backed storage for players, units, and
// inventory. Each entity is read and written as a whole record; the engine
// re-fetches before every mutation.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/madeofmoss/KoD/internal/kingdom"
	"github.com/madeofmoss/KoD/internal/rules"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = kingdom.ErrNotFound

// DB wraps a SQLite connection for game state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		race TEXT NOT NULL,
		skill_a TEXT NOT NULL,
		skill_b TEXT NOT NULL,
		gold INTEGER NOT NULL,
		population INTEGER NOT NULL,
		mood INTEGER NOT NULL,
		food INTEGER NOT NULL,
		bank INTEGER NOT NULL,
		skills_json TEXT NOT NULL,
		dist_market INTEGER NOT NULL,
		dist_mountain INTEGER NOT NULL,
		dist_forest INTEGER NOT NULL,
		dist_coast INTEGER NOT NULL,
		trinket_active INTEGER NOT NULL,
		beer_active INTEGER NOT NULL,
		medicine_active INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		level INTEGER NOT NULL,
		xp INTEGER NOT NULL,
		combat REAL NOT NULL,
		movement INTEGER NOT NULL,
		location TEXT NOT NULL,
		state TEXT NOT NULL,
		destination TEXT NOT NULL,
		total_distance INTEGER NOT NULL,
		distance_traveled INTEGER NOT NULL,
		remaining_spaces INTEGER NOT NULL,
		total_spaces INTEGER NOT NULL,
		last_action INTEGER NOT NULL,
		weapon_bonus REAL NOT NULL,
		armor_bonus REAL NOT NULL,
		visibility INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS inventory (
		player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		item TEXT NOT NULL,
		qty INTEGER NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (player_id, item)
	);

	CREATE INDEX IF NOT EXISTS idx_units_player ON units(player_id);
	CREATE INDEX IF NOT EXISTS idx_units_state ON units(state);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ── Players ──────────────────────────────────────────────────────────────

// CreatePlayer inserts a new kingdom. Fails if the identity already has one.
func (db *DB) CreatePlayer(p *kingdom.Player) error {
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO players
		(id, name, race, skill_a, skill_b, gold, population, mood, food, bank,
		 skills_json, dist_market, dist_mountain, dist_forest, dist_coast,
		 trinket_active, beer_active, medicine_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Race, p.SkillA, p.SkillB,
		p.Gold, p.Population, p.Mood, p.Food, p.Bank,
		string(skillsJSON), p.DistMarket, p.DistMountain, p.DistForest, p.DistCoast,
		boolInt(p.TrinketActive), boolInt(p.BeerActive), boolInt(p.MedicineActive),
		p.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert player %s: %w", p.ID, err)
	}
	return nil
}

// SavePlayer writes back the full player record.
func (db *DB) SavePlayer(p *kingdom.Player) error {
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	res, err := db.conn.Exec(`UPDATE players SET
		name = ?, race = ?, skill_a = ?, skill_b = ?,
		gold = ?, population = ?, mood = ?, food = ?, bank = ?,
		skills_json = ?, dist_market = ?, dist_mountain = ?, dist_forest = ?, dist_coast = ?,
		trinket_active = ?, beer_active = ?, medicine_active = ?
		WHERE id = ?`,
		p.Name, p.Race, p.SkillA, p.SkillB,
		p.Gold, p.Population, p.Mood, p.Food, p.Bank,
		string(skillsJSON), p.DistMarket, p.DistMountain, p.DistForest, p.DistCoast,
		boolInt(p.TrinketActive), boolInt(p.BeerActive), boolInt(p.MedicineActive),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update player %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPlayer loads one kingdom by chat identity.
func (db *DB) GetPlayer(id string) (*kingdom.Player, error) {
	row := db.conn.QueryRow(`SELECT
		id, name, race, skill_a, skill_b, gold, population, mood, food, bank,
		skills_json, dist_market, dist_mountain, dist_forest, dist_coast,
		trinket_active, beer_active, medicine_active, created_at
		FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

// ListPlayers loads every kingdom.
func (db *DB) ListPlayers() ([]*kingdom.Player, error) {
	rows, err := db.conn.Query(`SELECT
		id, name, race, skill_a, skill_b, gold, population, mood, food, bank,
		skills_json, dist_market, dist_mountain, dist_forest, dist_coast,
		trinket_active, beer_active, medicine_active, created_at
		FROM players ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*kingdom.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountPlayers returns the number of existing kingdoms.
func (db *DB) CountPlayers() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM players")
	return n, err
}

// DeletePlayer removes a kingdom; units and inventory cascade.
func (db *DB) DeletePlayer(id string) error {
	res, err := db.conn.Exec("DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete player %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*kingdom.Player, error) {
	var (
		p                       kingdom.Player
		skillsJSON              string
		trinket, beer, medicine int
		createdAt               int64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Race, &p.SkillA, &p.SkillB,
		&p.Gold, &p.Population, &p.Mood, &p.Food, &p.Bank,
		&skillsJSON, &p.DistMarket, &p.DistMountain, &p.DistForest, &p.DistCoast,
		&trinket, &beer, &medicine, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills for %s: %w", p.ID, err)
	}
	p.TrinketActive = trinket != 0
	p.BeerActive = beer != 0
	p.MedicineActive = medicine != 0
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// ── Units ────────────────────────────────────────────────────────────────

// CreateUnit inserts a new unit.
func (db *DB) CreateUnit(u *kingdom.Unit) error {
	_, err := db.conn.Exec(`INSERT INTO units
		(id, player_id, name, type, level, xp, combat, movement, location, state,
		 destination, total_distance, distance_traveled, remaining_spaces, total_spaces,
		 last_action, weapon_bonus, armor_bonus, visibility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.PlayerID, u.Name, u.Type, u.Level, u.XP, u.Combat, u.Movement, u.Location, u.State,
		u.Destination, u.TotalDistance, u.DistanceTraveled, u.RemainingSpaces, u.TotalSpaces,
		u.LastAction.Unix(), u.WeaponBonus, u.ArmorBonus, u.Visibility,
	)
	if err != nil {
		return fmt.Errorf("insert unit %s: %w", u.ID, err)
	}
	return nil
}

// SaveUnit writes back the full unit record.
func (db *DB) SaveUnit(u *kingdom.Unit) error {
	res, err := db.conn.Exec(`UPDATE units SET
		name = ?, type = ?, level = ?, xp = ?, combat = ?, movement = ?, location = ?, state = ?,
		destination = ?, total_distance = ?, distance_traveled = ?,
		remaining_spaces = ?, total_spaces = ?,
		last_action = ?, weapon_bonus = ?, armor_bonus = ?, visibility = ?
		WHERE id = ?`,
		u.Name, u.Type, u.Level, u.XP, u.Combat, u.Movement, u.Location, u.State,
		u.Destination, u.TotalDistance, u.DistanceTraveled,
		u.RemainingSpaces, u.TotalSpaces,
		u.LastAction.Unix(), u.WeaponBonus, u.ArmorBonus, u.Visibility,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("update unit %s: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUnit loads one unit by ID.
func (db *DB) GetUnit(id string) (*kingdom.Unit, error) {
	row := db.conn.QueryRow(unitSelect+" WHERE id = ?", id)
	return scanUnit(row)
}

// ListUnits loads all units owned by a player.
func (db *DB) ListUnits(playerID string) ([]*kingdom.Unit, error) {
	return db.queryUnits(unitSelect+" WHERE player_id = ? ORDER BY name", playerID)
}

// ListUnitsInTransit loads every unit not currently idle, across all players.
// The movement tick advances exactly these.
func (db *DB) ListUnitsInTransit() ([]*kingdom.Unit, error) {
	return db.queryUnits(unitSelect + " WHERE state != 'idle'")
}

// DeleteUnit removes a destroyed unit.
func (db *DB) DeleteUnit(id string) error {
	res, err := db.conn.Exec("DELETE FROM units WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const unitSelect = `SELECT
	id, player_id, name, type, level, xp, combat, movement, location, state,
	destination, total_distance, distance_traveled, remaining_spaces, total_spaces,
	last_action, weapon_bonus, armor_bonus, visibility
	FROM units`

func (db *DB) queryUnits(query string, args ...any) ([]*kingdom.Unit, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*kingdom.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func scanUnit(row rowScanner) (*kingdom.Unit, error) {
	var (
		u          kingdom.Unit
		lastAction int64
	)
	err := row.Scan(
		&u.ID, &u.PlayerID, &u.Name, &u.Type, &u.Level, &u.XP, &u.Combat, &u.Movement, &u.Location, &u.State,
		&u.Destination, &u.TotalDistance, &u.DistanceTraveled, &u.RemainingSpaces, &u.TotalSpaces,
		&lastAction, &u.WeaponBonus, &u.ArmorBonus, &u.Visibility,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.LastAction = time.Unix(lastAction, 0).UTC()
	return &u, nil
}

// ── Inventory ────────────────────────────────────────────────────────────

// AddItem merges qty into an existing entry or creates one. When
// overwriteValue is set the stored value is replaced (new forged gear).
func (db *DB) AddItem(playerID string, item rules.Item, qty int, value float64, overwriteValue bool) error {
	valueExpr := "value"
	if overwriteValue {
		valueExpr = "excluded.value"
	}
	_, err := db.conn.Exec(fmt.Sprintf(`INSERT INTO inventory (player_id, item, qty, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id, item) DO UPDATE SET
			qty = qty + excluded.qty,
			value = %s`, valueExpr),
		playerID, item, qty, value,
	)
	if err != nil {
		return fmt.Errorf("add %d %s for %s: %w", qty, item, playerID, err)
	}
	return nil
}

// RemoveItem deducts qty from an entry, deleting it when it reaches zero.
// Fails without side effects when the player holds fewer than qty.
func (db *DB) RemoveItem(playerID string, item rules.Item, qty int) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var have int
	err = tx.Get(&have, "SELECT qty FROM inventory WHERE player_id = ? AND item = ?", playerID, item)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if have < qty {
		return fmt.Errorf("remove %d %s for %s: only %d held: %w", qty, item, playerID, have, ErrNotFound)
	}

	if have == qty {
		_, err = tx.Exec("DELETE FROM inventory WHERE player_id = ? AND item = ?", playerID, item)
	} else {
		_, err = tx.Exec("UPDATE inventory SET qty = qty - ? WHERE player_id = ? AND item = ?", qty, playerID, item)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetItem loads one inventory entry, or ErrNotFound.
func (db *DB) GetItem(playerID string, item rules.Item) (*kingdom.InventoryEntry, error) {
	var e kingdom.InventoryEntry
	err := db.conn.QueryRow(
		"SELECT player_id, item, qty, value FROM inventory WHERE player_id = ? AND item = ?",
		playerID, item,
	).Scan(&e.PlayerID, &e.Item, &e.Qty, &e.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListInventory loads a player's full inventory.
func (db *DB) ListInventory(playerID string) ([]*kingdom.InventoryEntry, error) {
	rows, err := db.conn.Query(
		"SELECT player_id, item, qty, value FROM inventory WHERE player_id = ? ORDER BY item",
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*kingdom.InventoryEntry
	for rows.Next() {
		var e kingdom.InventoryEntry
		if err := rows.Scan(&e.PlayerID, &e.Item, &e.Qty, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
