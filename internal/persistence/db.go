// Package persistence provides SQLite-based storage for controllers and
// compressed galaxy snapshots.
package persistence

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/civic-industry/internal/engine"
	"github.com/talgya/civic-industry/internal/world"
)

// Metadata keys.
const (
	MetaLastTick       = "last_tick"
	MetaLatestSnapshot = "latest_snapshot"
	MetaDigest         = "engine_digest"
	MetaSeed           = "seed"
)

// DB wraps a SQLite connection for engine state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
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
	CREATE TABLE IF NOT EXISTS controllers (
		idx INTEGER PRIMARY KEY,
		faction INTEGER NOT NULL,
		raider_faction INTEGER NOT NULL,
		home_planet INTEGER NOT NULL,
		cargo_ship_build_counter INTEGER NOT NULL,
		militia_build_counter INTEGER NOT NULL,
		failed_matches INTEGER NOT NULL,
		home_rebuild_seconds INTEGER NOT NULL,
		cost_intensity INTEGER NOT NULL,
		trade_rebuild_json TEXT NOT NULL,
		scanned_barracks_json TEXT NOT NULL,
		raid_json TEXT NOT NULL,
		rng_json TEXT NOT NULL,
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY,
		controller INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		planet INTEGER NOT NULL,
		ledger_json TEXT NOT NULL,
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cargo_ships (
		id INTEGER PRIMARY KEY,
		controller INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		status INTEGER NOT NULL,
		origin INTEGER NOT NULL,
		destination INTEGER NOT NULL,
		load_timer INTEGER NOT NULL,
		hold_json TEXT NOT NULL,
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS militia_leaders (
		id INTEGER PRIMARY KEY,
		controller INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		status INTEGER NOT NULL,
		centerpiece INTEGER NOT NULL,
		planet_focus INTEGER NOT NULL,
		entity_focus INTEGER NOT NULL,
		ship_types_json TEXT NOT NULL,
		ships_json TEXT NOT NULL,
		ship_capacity_json TEXT NOT NULL,
		cost_multiplier INTEGER NOT NULL,
		cap_multiplier INTEGER NOT NULL,
		built_from_hq INTEGER NOT NULL,
		shipyard INTEGER NOT NULL,
		stockpile_json TEXT NOT NULL,
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS galaxy_snapshots (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		digest TEXT NOT NULL,
		raw_size INTEGER NOT NULL,
		data BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stations_controller ON stations(controller, seq);
	CREATE INDEX IF NOT EXISTS idx_ships_controller ON cargo_ships(controller, seq);
	CREATE INDEX IF NOT EXISTS idx_leaders_controller ON militia_leaders(controller, seq);
	CREATE INDEX IF NOT EXISTS idx_snapshots_tick ON galaxy_snapshots(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasState reports whether a previous run saved anything.
func (db *DB) HasState() bool {
	_, err := db.GetMeta(MetaLatestSnapshot)
	return err == nil
}

// LastTick returns the tick of the last full save, or 0.
func (db *DB) LastTick() uint64 {
	v, err := db.GetMeta(MetaLastTick)
	if err != nil {
		return 0
	}
	tick, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		slog.Warn("bad last_tick in world_meta", "value", v)
		return 0
	}
	return tick
}

// SaveState performs a full save: controllers, a galaxy snapshot and the
// determinism digest.
func (db *DB) SaveState(sim *engine.Simulation, g *world.Galaxy) error {
	tick := sim.CurrentTick()
	slog.Info("saving engine state", "tick", tick, "controllers", len(sim.Controllers), "entities", len(g.Entities))

	if err := db.SaveControllers(sim.Controllers); err != nil {
		return fmt.Errorf("save controllers: %w", err)
	}
	id, err := db.SaveSnapshot(g, tick)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	digest, err := sim.Digest()
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if err := db.SaveMeta(MetaDigest, digest); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(MetaLastTick, strconv.FormatUint(tick, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("engine state saved", "snapshot", id, "digest", digest[:12])
	return nil
}
