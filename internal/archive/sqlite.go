package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/wxbeacon/wxbeacon/internal/log"
	"github.com/wxbeacon/wxbeacon/internal/types"
)

// SQLiteStore reads a WeeWX-style SQLite archive file.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

func newSQLiteStore(path, table string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite archive requires a path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite archive: %w", err)
	}

	log.Infof("opened SQLite archive %s (table %s)", path, table)
	return &SQLiteStore{db: db, table: table}, nil
}

// CheckSchema probes for the columns the beacon service reads.
func (s *SQLiteStore) CheckSchema() error {
	rows, err := s.db.Query(schemaProbeQuery(s.table))
	if err != nil {
		return fmt.Errorf("archive table %q does not match the minimum supported schema: %w", s.table, err)
	}
	rows.Close()
	return nil
}

// SumRainBetween sums the rain column over (start, stop].
func (s *SQLiteStore) SumRainBetween(start, stop int64) (float64, error) {
	q := fmt.Sprintf("SELECT COALESCE(SUM(rain), 0) FROM %s WHERE dateTime > ? AND dateTime <= ?", s.table)

	var total float64
	if err := s.db.QueryRow(q, start, stop).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing rainfall over (%d, %d]: %w", start, stop, err)
	}
	return total, nil
}

// ObservationsSince returns archive records newer than ts, oldest first.
func (s *SQLiteStore) ObservationsSince(ts int64) ([]*types.Observation, error) {
	rows, err := s.db.Query(observationQuery(s.table), ts)
	if err != nil {
		return nil, fmt.Errorf("querying archive records since %d: %w", ts, err)
	}
	return scanObservations(rows)
}

// LatestTimestamp returns the newest dateTime in the archive, 0 if empty.
func (s *SQLiteStore) LatestTimestamp() (int64, error) {
	q := fmt.Sprintf("SELECT COALESCE(MAX(dateTime), 0) FROM %s", s.table)

	var ts int64
	if err := s.db.QueryRow(q).Scan(&ts); err != nil {
		return 0, fmt.Errorf("querying latest archive timestamp: %w", err)
	}
	return ts, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
