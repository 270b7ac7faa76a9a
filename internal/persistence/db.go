// Package persistence provides SQLite-based resort state storage.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/engine"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
)

// DB wraps a SQLite connection for resort state persistence.
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
	CREATE TABLE IF NOT EXISTS trails (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		start_x REAL NOT NULL, start_y REAL NOT NULL, start_z REAL NOT NULL,
		end_x REAL NOT NULL, end_y REAL NOT NULL, end_z REAL NOT NULL,
		length REAL NOT NULL,
		difficulty INTEGER NOT NULL,
		valid INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifts (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		bottom_x REAL NOT NULL, bottom_y REAL NOT NULL, bottom_z REAL NOT NULL,
		top_x REAL NOT NULL, top_y REAL NOT NULL, top_z REAL NOT NULL,
		capacity REAL NOT NULL,
		valid INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_stats (
		day INTEGER PRIMARY KEY,
		visitors INTEGER NOT NULL,
		served INTEGER NOT NULL,
		unserved INTEGER NOT NULL,
		total_runs INTEGER NOT NULL,
		avg_satisfaction REAL NOT NULL,
		avg_score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS resort_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveInfrastructure writes all trails and lifts (full replace).
func (db *DB) SaveInfrastructure(trails []*resort.Trail, lifts []*resort.Lift) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM trails"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM lifts"); err != nil {
		return err
	}

	for _, t := range trails {
		valid := 0
		if t.Valid {
			valid = 1
		}
		_, err := tx.Exec(`INSERT INTO trails
			(id, name, start_x, start_y, start_z, end_x, end_y, end_z, length, difficulty, valid)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Start.X, t.Start.Y, t.Start.Z,
			t.End.X, t.End.Y, t.End.Z, t.Length, t.Difficulty, valid,
		)
		if err != nil {
			return fmt.Errorf("insert trail %d: %w", t.ID, err)
		}
	}

	for _, l := range lifts {
		valid := 0
		if l.Valid {
			valid = 1
		}
		_, err := tx.Exec(`INSERT INTO lifts
			(id, name, bottom_x, bottom_y, bottom_z, top_x, top_y, top_z, capacity, valid)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, l.Name, l.Bottom.X, l.Bottom.Y, l.Bottom.Z,
			l.Top.X, l.Top.Y, l.Top.Z, l.Capacity, valid,
		)
		if err != nil {
			return fmt.Errorf("insert lift %d: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// SaveDayStats upserts one day's aggregate row.
func (db *DB) SaveDayStats(stats engine.DayStats) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO day_stats
		(day, visitors, served, unserved, total_runs, avg_satisfaction, avg_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stats.Day, stats.Visitors, stats.Served, stats.Unserved,
		stats.TotalRuns, stats.AvgSatisfaction, stats.AvgScore,
	)
	return err
}

// DayStatsRange returns day rows within [fromDay, toDay], newest first.
func (db *DB) DayStatsRange(fromDay, toDay, limit int) ([]engine.DayStats, error) {
	rows, err := db.conn.Queryx(`SELECT day, visitors, served, unserved, total_runs,
		avg_satisfaction, avg_score
		FROM day_stats WHERE day >= ? AND day <= ?
		ORDER BY day DESC LIMIT ?`, fromDay, toDay, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.DayStats
	for rows.Next() {
		var s engine.DayStats
		if err := rows.Scan(&s.Day, &s.Visitors, &s.Served, &s.Unserved,
			&s.TotalRuns, &s.AvgSatisfaction, &s.AvgScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in resort metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO resort_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM resort_meta WHERE key = ?", key)
	return value, err
}

// SaveResortState performs a full save of the resort.
func (db *DB) SaveResortState(sim *engine.Simulation) error {
	trails := make([]*resort.Trail, 0, len(sim.Trails))
	for _, id := range sim.TrailOrder() {
		trails = append(trails, sim.Trails[id])
	}
	lifts := make([]*resort.Lift, 0, len(sim.Lifts))
	for _, id := range sim.LiftOrder() {
		lifts = append(lifts, sim.Lifts[id])
	}

	slog.Info("saving resort state", "trails", len(trails), "lifts", len(lifts))

	if err := db.SaveInfrastructure(trails, lifts); err != nil {
		return fmt.Errorf("save infrastructure: %w", err)
	}
	if err := db.SaveDayStats(sim.Stats); err != nil {
		return fmt.Errorf("save day stats: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", sim.CurrentTick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("resort state saved")
	return nil
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// LoadInfrastructure reads trails and lifts back, for resuming a session.
func (db *DB) LoadInfrastructure() ([]*resort.Trail, []*resort.Lift, error) {
	trailRows, err := db.conn.Queryx(`SELECT id, name, start_x, start_y, start_z,
		end_x, end_y, end_z, length, difficulty, valid FROM trails ORDER BY id`)
	if err != nil {
		return nil, nil, err
	}
	defer trailRows.Close()

	var trails []*resort.Trail
	for trailRows.Next() {
		var t resort.Trail
		var diff int
		var valid int
		if err := trailRows.Scan(&t.ID, &t.Name, &t.Start.X, &t.Start.Y, &t.Start.Z,
			&t.End.X, &t.End.Y, &t.End.Z, &t.Length, &diff, &valid); err != nil {
			return nil, nil, err
		}
		t.Difficulty = resort.Difficulty(diff)
		t.Valid = valid != 0
		trails = append(trails, &t)
	}
	if err := trailRows.Err(); err != nil {
		return nil, nil, err
	}

	liftRows, err := db.conn.Queryx(`SELECT id, name, bottom_x, bottom_y, bottom_z,
		top_x, top_y, top_z, capacity, valid FROM lifts ORDER BY id`)
	if err != nil {
		return nil, nil, err
	}
	defer liftRows.Close()

	var lifts []*resort.Lift
	for liftRows.Next() {
		var l resort.Lift
		var valid int
		if err := liftRows.Scan(&l.ID, &l.Name, &l.Bottom.X, &l.Bottom.Y, &l.Bottom.Z,
			&l.Top.X, &l.Top.Y, &l.Top.Z, &l.Capacity, &valid); err != nil {
			return nil, nil, err
		}
		l.Valid = valid != 0
		lifts = append(lifts, &l)
	}
	return trails, lifts, liftRows.Err()
}
