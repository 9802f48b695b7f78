// Package recorddb is the optional sqlite sink for converted telemetry: one
// row per flattened leaf per packet, grouped under a per-conversion run row.
package recorddb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/telemetry.report/internal/eds"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB wraps the sink database handle.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the sink database at path and applies any
// pending schema migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening record database: %v", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %v", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %v", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %v", err)
	}
	// Note: m is not closed here because that would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Run identifies one conversion run in the sink.
type Run struct {
	ID      string
	Source  string
	Mission string
}

// StartRun inserts a run row and returns its handle.
func (db *DB) StartRun(source, mission string) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Source: source, Mission: mission}
	_, err := db.Exec(
		`INSERT INTO runs (run_id, source_file, mission) VALUES (?, ?, ?)`,
		run.ID, run.Source, run.Mission,
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %v", err)
	}
	return run, nil
}

// RecordPacket writes one packet's flattened record in a single transaction.
func (db *DB) RecordPacket(run *Run, packetIndex int, topicID uint16, fields []eds.Field) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting record transaction: %v", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO records (run_id, packet_index, topic_id, field_path, field_value)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing record insert: %v", err)
	}
	defer stmt.Close()

	for _, f := range fields {
		if _, err := stmt.Exec(run.ID, packetIndex, int64(topicID), f.Path, f.Value); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting record for packet %d: %v", packetIndex, err)
		}
	}
	return tx.Commit()
}

// FinishRun stamps the run row with its final packet counts.
func (db *DB) FinishRun(run *Run, packets, skipped int) error {
	_, err := db.Exec(
		`UPDATE runs SET finished_at = CURRENT_TIMESTAMP, packet_count = ?, skipped_count = ?
		 WHERE run_id = ?`,
		packets, skipped, run.ID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %v", err)
	}
	return nil
}
