package migration

import (
	"context"
	"fmt"
	"strings"

	"macrolens/domain/macro"
	"macrolens/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the observations schema read by the postgres source
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createObservationsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create observations table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createObservationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS observations (
			country_name VARCHAR(255) NOT NULL,
			country_code VARCHAR(8),
			capital VARCHAR(255),
			continent VARCHAR(32) NOT NULL,
			year INTEGER NOT NULL,
			series_name VARCHAR(255) NOT NULL,
			value DOUBLE PRECISION,
			PRIMARY KEY (country_name, year, series_name)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_observations_continent_year ON observations(continent, year);
		CREATE INDEX IF NOT EXISTS idx_observations_series ON observations(series_name);
	`)
	return err
}

// ImportBatchSize bounds the rows sent per INSERT statement
const ImportBatchSize = 500

// Import replaces the contents of the observations table with obs inside one
// transaction. Repeated (country, year, series) keys keep the first value.
func Import(ctx context.Context, db *sqlx.DB, obs []macro.Observation) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin import")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return 0, errors.Wrap(err, "failed to clear observations")
	}

	inserted := 0
	for _, batch := range Batches(obs, ImportBatchSize) {
		query, args := InsertStatement(batch)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to insert batch at row %d", inserted)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit import")
	}
	return inserted, nil
}

// Batches splits obs into consecutive slices of at most size rows
func Batches(obs []macro.Observation, size int) [][]macro.Observation {
	if size <= 0 {
		size = ImportBatchSize
	}
	var out [][]macro.Observation
	for start := 0; start < len(obs); start += size {
		end := start + size
		if end > len(obs) {
			end = len(obs)
		}
		out = append(out, obs[start:end])
	}
	return out
}

// InsertStatement builds one multi-row INSERT with positional parameters
func InsertStatement(batch []macro.Observation) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO observations (country_name, country_code, capital, continent, year, series_name, value) VALUES ")

	args := make([]interface{}, 0, len(batch)*7)
	for i, o := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 7
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)

		var value interface{}
		if o.Value != nil {
			value = *o.Value
		}
		args = append(args, o.Country, nullIfEmpty(o.Code), nullIfEmpty(o.Capital), string(o.Continent), o.Year, o.Indicator, value)
	}
	b.WriteString(" ON CONFLICT (country_name, year, series_name) DO NOTHING")
	return b.String(), args
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
