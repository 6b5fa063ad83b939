// Package mapreport turns a completed (or in-progress) mapping attempt
// into a small HTTP server, grounded on sarchlab-akita/monitoring's
// "simulation-as-a-server" shape: the same stdlib pprof registration,
// gorilla/mux routing, and gopsutil process sampling the teacher uses to
// introspect a long-running discrete-event simulation, here pointed at a
// long-running exhaustive search instead.
package mapreport

import (
	"database/sql"
	"fmt"
	"os"

	// Registers the sqlite3 driver under database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore is a tiny append-only record of every successful mapping
// attempt, grounded on tracing/sqlite.go's SQLiteTraceWriter: one table,
// one insert per recorded row, one query for the most recent row
// matching a kernel+config pair. Incremental mapping does not read this
// store; it seeds only from an incremental.json file.
type HistoryStore struct {
	db   *sql.DB
	path string
}

// OpenHistoryStore opens (creating if absent) the sqlite database at
// path and ensures its schema exists.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("mapreport: opening history database %q: %w", path, err)
	}

	h := &HistoryStore{db: db, path: path}
	if err := h.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *HistoryStore) createTable() error {
	_, err := h.db.Exec(`
		create table if not exists mapping_history
		(
			kernel        varchar(200) not null,
			config_hash   varchar(64)  not null,
			ii            integer      not null,
			snapshot_id   varchar(32)  not null,
			schedule_json blob         not null,
			recorded_at   integer      not null
		);
	`)
	if err != nil {
		return fmt.Errorf("mapreport: creating history table: %w", err)
	}
	_, err = h.db.Exec(`
		create index if not exists mapping_history_lookup
		on mapping_history (kernel, config_hash, recorded_at);
	`)
	if err != nil {
		return fmt.Errorf("mapreport: creating history index: %w", err)
	}
	return nil
}

// Record appends one successful mapping attempt.
func (h *HistoryStore) Record(kernel, configHash string, ii int, snapshotID string, scheduleJSON []byte, recordedAt int64) error {
	_, err := h.db.Exec(
		`insert into mapping_history (kernel, config_hash, ii, snapshot_id, schedule_json, recorded_at)
		 values (?, ?, ?, ?, ?, ?)`,
		kernel, configHash, ii, snapshotID, scheduleJSON, recordedAt,
	)
	if err != nil {
		return fmt.Errorf("mapreport: recording mapping history: %w", err)
	}
	return nil
}

// Latest returns the most recently recorded schedule for the given
// kernel+configHash pair, found=false if none exists.
func (h *HistoryStore) Latest(kernel, configHash string) (scheduleJSON []byte, ii int, found bool, err error) {
	row := h.db.QueryRow(
		`select ii, schedule_json from mapping_history
		 where kernel = ? and config_hash = ?
		 order by recorded_at desc limit 1`,
		kernel, configHash,
	)
	if err := row.Scan(&ii, &scheduleJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("mapreport: querying mapping history: %w", err)
	}
	return scheduleJSON, ii, true, nil
}

// Close closes the underlying database connection.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Path reports the filesystem path the store was opened from, mostly
// useful for log messages and tests that want to assert the file exists.
func (h *HistoryStore) Path() string {
	return h.path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
