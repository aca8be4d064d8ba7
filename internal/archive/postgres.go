package archive

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go.uber.org/zap"

	"github.com/wxbeacon/wxbeacon/internal/log"
	"github.com/wxbeacon/wxbeacon/internal/types"
)

// PostgresStore reads an archive table hosted on Postgres/TimescaleDB.
type PostgresStore struct {
	db    *gorm.DB
	table string
}

func newPostgresStore(connectionString, table string) (*PostgresStore, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("postgres archive requires a connection string")
	}

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,        // Use colors
		},
	)

	log.Info("connecting to Postgres archive...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to create a Postgres archive connection: %w", err)
	}
	log.Info("Postgres archive connection successful")

	return &PostgresStore{db: db, table: table}, nil
}

// CheckSchema probes for the columns the beacon service reads.
func (s *PostgresStore) CheckSchema() error {
	rows, err := s.db.Raw(schemaProbeQuery(s.table)).Rows()
	if err != nil {
		return fmt.Errorf("archive table %q does not match the minimum supported schema: %w", s.table, err)
	}
	rows.Close()
	return nil
}

// SumRainBetween sums the rain column over (start, stop].
func (s *PostgresStore) SumRainBetween(start, stop int64) (float64, error) {
	q := fmt.Sprintf("SELECT COALESCE(SUM(rain), 0) AS total FROM %s WHERE dateTime > ? AND dateTime <= ?", s.table)

	var total float64
	if err := s.db.Raw(q, start, stop).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("summing rainfall over (%d, %d]: %w", start, stop, err)
	}
	return total, nil
}

// ObservationsSince returns archive records newer than ts, oldest first.
func (s *PostgresStore) ObservationsSince(ts int64) ([]*types.Observation, error) {
	rows, err := s.db.Raw(observationQuery(s.table), ts).Rows()
	if err != nil {
		return nil, fmt.Errorf("querying archive records since %d: %w", ts, err)
	}
	return scanObservations(rows)
}

// LatestTimestamp returns the newest dateTime in the archive, 0 if empty.
func (s *PostgresStore) LatestTimestamp() (int64, error) {
	q := fmt.Sprintf("SELECT COALESCE(MAX(dateTime), 0) AS latest FROM %s", s.table)

	var latest int64
	if err := s.db.Raw(q).Scan(&latest).Error; err != nil {
		return 0, fmt.Errorf("querying latest archive timestamp: %w", err)
	}
	return latest, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
