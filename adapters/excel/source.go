package excel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"macrolens/domain/core"
	"macrolens/domain/macro"
	"macrolens/ports"
)

// FileSource loads observations from an xlsx or csv file
type FileSource struct {
	config ExcelConfig
	reader *DataReader
	nulls  map[string]bool
}

var _ ports.ObservationSource = (*FileSource)(nil)

// NewFileSource creates a file-backed observation source
func NewFileSource(config ExcelConfig) *FileSource {
	if len(config.NullTokens) == 0 {
		config.NullTokens = DefaultExcelConfig().NullTokens
	}
	return &FileSource{
		config: config,
		reader: NewDataReader(config.FilePath, config.Sheet),
		nulls:  nullSet(config.NullTokens),
	}
}

// Describe names the file
func (s *FileSource) Describe() string {
	return s.config.FilePath
}

// LoadObservations reads and converts every data row
func (s *FileSource) LoadObservations(ctx context.Context) ([]macro.Observation, error) {
	data, err := s.reader.ReadData()
	if err != nil {
		return nil, fmt.Errorf("failed to read observations from %s: %w", s.config.FilePath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ConvertRows(data, s.nulls)
}

// ConvertRows turns raw rows into validated observations. Row numbers in
// errors count the header as row 1.
func ConvertRows(data *ExcelData, nulls map[string]bool) ([]macro.Observation, error) {
	if len(nulls) == 0 {
		nulls = nullSet(DefaultExcelConfig().NullTokens)
	}

	out := make([]macro.Observation, 0, len(data.Rows))
	for i, row := range data.Rows {
		rowNum := i + 2
		obs, err := convertRow(row, rowNum, nulls)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, nil
}

func convertRow(row RawRowData, rowNum int, nulls map[string]bool) (macro.Observation, error) {
	obs := macro.Observation{
		Country:   row[ColCountryName],
		Code:      row[ColCountryCode],
		Capital:   row[ColCapital],
		Indicator: row[ColSeriesName],
	}
	if obs.Country == "" {
		return obs, core.NewMalformedObservationError(rowNum, ColCountryName, "is empty")
	}
	if obs.Indicator == "" {
		return obs, core.NewMalformedObservationError(rowNum, ColSeriesName, "is empty")
	}

	continent, err := macro.ParseContinent(row[ColContinent])
	if err != nil {
		return obs, core.NewMalformedObservationError(rowNum, ColContinent, fmt.Sprintf("%q is not a known continent", row[ColContinent]))
	}
	obs.Continent = continent

	year, err := parseYear(row[ColYear])
	if err != nil {
		return obs, core.NewMalformedObservationError(rowNum, ColYear, err.Error())
	}
	obs.Year = year

	raw := row[ColValue]
	if nulls[raw] {
		return obs, nil
	}
	cleaned, ok := stripThousands(raw)
	if !ok {
		return obs, core.NewMalformedObservationError(rowNum, ColValue, fmt.Sprintf("%q has an ambiguous comma", raw))
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return obs, core.NewMalformedObservationError(rowNum, ColValue, fmt.Sprintf("%q is not numeric", raw))
	}
	obs.Value = macro.Float(value)
	return obs, nil
}

// stripThousands removes comma thousands separators. ok is false when a comma
// is not followed by exactly three digits, as in a decimal comma like "1,5".
func stripThousands(raw string) (string, bool) {
	if !strings.Contains(raw, ",") {
		return raw, true
	}
	intPart, frac := raw, ""
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		intPart, frac = raw[:dot], raw[dot:]
	}
	if strings.Contains(frac, ",") {
		return "", false
	}

	digits := strings.TrimLeft(intPart, "+-")
	groups := strings.Split(digits, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.ReplaceAll(raw, ",", ""), true
}

func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	// spreadsheets sometimes store years as 2010.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a year", s)
	}
	return int(f), nil
}

func nullSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
