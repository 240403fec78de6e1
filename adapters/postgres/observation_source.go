package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// observationRow mirrors one row of the observations table
type observationRow struct {
	CountryName string          `db:"country_name"`
	CountryCode string          `db:"country_code"`
	Capital     string          `db:"capital"`
	Continent   string          `db:"continent"`
	Year        int             `db:"year"`
	SeriesName  string          `db:"series_name"`
	Value       sql.NullFloat64 `db:"value"`
}

const selectObservations = `SELECT
	country_name, COALESCE(country_code, '') AS country_code, COALESCE(capital, '') AS capital,
	continent, year, series_name, value
FROM observations
ORDER BY country_name, year, series_name`

// ObservationSource reads the long-format dataset from Postgres. It never
// writes.
type ObservationSource struct {
	db *sqlx.DB
}

var _ ports.ObservationSource = (*ObservationSource)(nil)

// NewObservationSource wraps an open connection
func NewObservationSource(db *sqlx.DB) *ObservationSource {
	return &ObservationSource{db: db}
}

// Open connects to databaseURL and returns a source
func Open(ctx context.Context, databaseURL string) (*ObservationSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewObservationSource(db), nil
}

// Describe names the backing table
func (s *ObservationSource) Describe() string {
	return "postgres:observations"
}

// Close releases the connection pool
func (s *ObservationSource) Close() error {
	return s.db.Close()
}

// LoadObservations selects every row of the observations table
func (s *ObservationSource) LoadObservations(ctx context.Context) ([]macro.Observation, error) {
	var rows []observationRow
	if err := s.db.SelectContext(ctx, &rows, selectObservations); err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	return convertRows(rows)
}

func convertRows(rows []observationRow) ([]macro.Observation, error) {
	out := make([]macro.Observation, 0, len(rows))
	for i, row := range rows {
		obs, err := row.toObservation(i + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, nil
}

func (r observationRow) toObservation(rowNum int) (macro.Observation, error) {
	continent, err := macro.ParseContinent(r.Continent)
	if err != nil {
		return macro.Observation{}, core.NewMalformedObservationError(rowNum, "continent", fmt.Sprintf("%q is not a known continent", r.Continent))
	}
	obs := macro.Observation{
		Country:   r.CountryName,
		Code:      r.CountryCode,
		Capital:   r.Capital,
		Continent: continent,
		Year:      r.Year,
		Indicator: r.SeriesName,
	}
	if r.Value.Valid {
		obs.Value = macro.Float(r.Value.Float64)
	}
	if err := obs.Validate(); err != nil {
		return macro.Observation{}, fmt.Errorf("row %d: %w", rowNum, err)
	}
	return obs, nil
}
