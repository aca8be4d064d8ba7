// Package archive provides read-only access to the historical
// observation store that backfills rainfall accumulators and feeds the
// archive poller. Two backends are supported: WeeWX-style SQLite archive
// files (the common case) and a Postgres/TimescaleDB archive.
package archive

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/wxbeacon/wxbeacon/internal/types"
	"github.com/wxbeacon/wxbeacon/internal/units"
)

// Store is the query surface the beacon service needs from the archive.
// The archive is owned by the host weather engine; we never write to it.
type Store interface {
	// CheckSchema verifies the bound table carries the columns this
	// service depends on. A failure here is a fatal startup error.
	CheckSchema() error

	// SumRainBetween returns total rainfall over the left-open,
	// right-closed interval (start, stop], in the archive's native rain
	// unit. An empty interval yields 0, not an error.
	SumRainBetween(start, stop int64) (float64, error)

	// ObservationsSince returns archived records with dateTime > ts in
	// ascending timestamp order.
	ObservationsSince(ts int64) ([]*types.Observation, error)

	// LatestTimestamp returns the newest dateTime in the table, or 0
	// when the table is empty.
	LatestTimestamp() (int64, error)

	Close() error
}

// Settings selects and configures an archive backend.
type Settings struct {
	Driver           string
	Path             string
	ConnectionString string
	Table            string
}

// DefaultTable is the conventional archive table name.
const DefaultTable = "archive"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New opens the archive backend described by s.
func New(s Settings) (Store, error) {
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid archive table name %q", table)
	}

	switch s.Driver {
	case "", "sqlite":
		return newSQLiteStore(s.Path, table)
	case "postgres":
		return newPostgresStore(s.ConnectionString, table)
	}
	return nil, fmt.Errorf("unsupported archive driver %q", s.Driver)
}

// observationColumns is the column list read back from the archive, in
// scan order. dateTime and usUnits are handled separately.
var observationColumns = []string{
	types.FieldWindDir,
	types.FieldWindSpeed,
	types.FieldWindGust,
	types.FieldOutTemp,
	types.FieldOutHumidity,
	types.FieldBarometer,
	types.FieldRain,
}

func observationQuery(table string) string {
	q := "SELECT dateTime, usUnits"
	for _, col := range observationColumns {
		q += ", " + col
	}
	return q + fmt.Sprintf(" FROM %s WHERE dateTime > ? ORDER BY dateTime ASC", table)
}

// scanObservations converts archive rows into observations. A NULL
// column is omitted from the record entirely so that downstream
// derivation (rainfall backfill) treats it as never reported.
func scanObservations(rows *sql.Rows) ([]*types.Observation, error) {
	defer rows.Close()

	var obs []*types.Observation
	for rows.Next() {
		var dateTime int64
		var tag int
		vals := make([]sql.NullFloat64, len(observationColumns))

		dest := make([]interface{}, 0, len(observationColumns)+2)
		dest = append(dest, &dateTime, &tag)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}

		system, err := units.SystemFromTag(tag)
		if err != nil {
			return nil, fmt.Errorf("archive row at %d: %w", dateTime, err)
		}

		o := types.NewObservation(dateTime, system)
		for i, col := range observationColumns {
			if vals[i].Valid {
				o.Set(col, vals[i].Float64)
			}
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func schemaProbeQuery(table string) string {
	return fmt.Sprintf("SELECT dateTime, usUnits, rain FROM %s WHERE 1=0", table)
}
