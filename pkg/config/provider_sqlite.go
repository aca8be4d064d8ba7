package config

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database
// configuration. Each section lives in a single-row table; a missing
// row means the section takes its defaults.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	if err := s.loadStation(&config.Station); err != nil {
		return nil, fmt.Errorf("failed to load station config: %w", err)
	}
	if err := s.loadBeacon(&config.Beacon); err != nil {
		return nil, fmt.Errorf("failed to load beacon config: %w", err)
	}
	if err := s.loadUnits(&config.Units); err != nil {
		return nil, fmt.Errorf("failed to load units config: %w", err)
	}
	if err := s.loadArchive(&config.Archive); err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

func (s *SQLiteProvider) loadStation(out *StationData) error {
	row := s.db.QueryRow(`SELECT latitude, longitude FROM station LIMIT 1`)
	err := row.Scan(&out.Latitude, &out.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *SQLiteProvider) loadBeacon(out *BeaconData) error {
	row := s.db.QueryRow(`
		SELECT lat, lon, symbol, note, output, binding,
		       daylight_saving_aware, timezone
		FROM beacon LIMIT 1
	`)
	var dsAware int
	err := row.Scan(&out.Lat, &out.Lon, &out.Symbol, &out.Note,
		&out.Output, &out.Binding, &dsAware, &out.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	out.DaylightSavingAware = dsAware != 0
	return err
}

func (s *SQLiteProvider) loadUnits(out *UnitsData) error {
	row := s.db.QueryRow(`
		SELECT unit_system, temperature, pressure, speed, rain
		FROM units LIMIT 1
	`)
	err := row.Scan(&out.UnitSystem, &out.Temperature, &out.Pressure,
		&out.Speed, &out.Rain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *SQLiteProvider) loadArchive(out *ArchiveData) error {
	row := s.db.QueryRow(`
		SELECT driver, path, connection_string, table_name, poll_interval
		FROM archive_binding LIMIT 1
	`)
	var pollInterval string
	err := row.Scan(&out.Driver, &out.Path, &out.ConnectionString,
		&out.Table, &pollInterval)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if pollInterval != "" {
		d, err := time.ParseDuration(pollInterval)
		if err != nil {
			return fmt.Errorf("invalid archive poll_interval: %w", err)
		}
		out.PollInterval = d
	}
	return nil
}

// IsReadOnly returns false; SQLite configuration is editable in place.
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the underlying database handle.
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
