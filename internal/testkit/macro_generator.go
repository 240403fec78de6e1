package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"macrolens/domain/macro"
)

// Country is one generated country with its static attributes
type Country struct {
	Name      string
	Code      string
	Capital   string
	Continent macro.Continent
}

// DefaultCountries covers every continent with a few members each
var DefaultCountries = []Country{
	{"Nigeria", "NGA", "Abuja", macro.Africa},
	{"Kenya", "KEN", "Nairobi", macro.Africa},
	{"Ghana", "GHA", "Accra", macro.Africa},
	{"Egypt, Arab Rep.", "EGY", "Cairo", macro.Africa},
	{"South Africa", "ZAF", "Pretoria", macro.Africa},
	{"Japan", "JPN", "Tokyo", macro.Asia},
	{"India", "IND", "New Delhi", macro.Asia},
	{"Vietnam", "VNM", "Hanoi", macro.Asia},
	{"Australia", "AUS", "Canberra", macro.Australia},
	{"New Zealand", "NZL", "Wellington", macro.Australia},
	{"France", "FRA", "Paris", macro.Europe},
	{"Germany", "DEU", "Berlin", macro.Europe},
	{"Spain", "ESP", "Madrid", macro.Europe},
	{"Poland", "POL", "Warsaw", macro.Europe},
	{"Canada", "CAN", "Ottawa", macro.NorthAmerica},
	{"Mexico", "MEX", "Mexico City", macro.NorthAmerica},
	{"Brazil", "BRA", "Brasilia", macro.SouthAmerica},
	{"Peru", "PER", "Lima", macro.SouthAmerica},
}

// Indicator describes how one generated series evolves
type Indicator struct {
	Name string
	// Base is the level in the first year for a continent multiplier of 1
	Base float64
	// Growth is the mean yearly relative change
	Growth float64
	// Noise is the relative standard deviation added each year
	Noise float64
}

// DefaultIndicators matches the default dashboard selections
var DefaultIndicators = []Indicator{
	{Name: "GDP (current US$)", Base: 2e11, Growth: 0.04, Noise: 0.05},
	{Name: "Population, total", Base: 5e7, Growth: 0.015, Noise: 0.005},
	{Name: "GDP growth (annual %)", Base: 3, Growth: 0, Noise: 0.6},
	{Name: "Unemployment, total (% of total labor force) (national estimate)", Base: 7, Growth: 0, Noise: 0.1},
}

// continentScale separates continents so clusters have visible structure
var continentScale = map[macro.Continent]float64{
	macro.Africa:       0.3,
	macro.Asia:         2.5,
	macro.Australia:    0.8,
	macro.Europe:       1.6,
	macro.NorthAmerica: 2.0,
	macro.SouthAmerica: 0.7,
}

// MacroGeneratorConfig configures the synthetic dataset
type MacroGeneratorConfig struct {
	Countries   []Country   `json:"-"`
	Indicators  []Indicator `json:"-"`
	StartYear   int         `json:"start_year"`
	EndYear     int         `json:"end_year"`
	MissingRate float64     `json:"missing_rate"`
	Seed        int64       `json:"seed"`
}

// DefaultMacroConfig returns the generator defaults
func DefaultMacroConfig() MacroGeneratorConfig {
	return MacroGeneratorConfig{
		Countries:   DefaultCountries,
		Indicators:  DefaultIndicators,
		StartYear:   2000,
		EndYear:     2020,
		MissingRate: 0.03,
		Seed:        42,
	}
}

// MacroDataGenerator produces long-format observations
type MacroDataGenerator struct {
	config MacroGeneratorConfig
	rng    *rand.Rand
}

// NewMacroDataGenerator creates a generator. The same config always yields
// the same observations.
func NewMacroDataGenerator(config MacroGeneratorConfig) *MacroDataGenerator {
	if len(config.Countries) == 0 {
		config.Countries = DefaultCountries
	}
	if len(config.Indicators) == 0 {
		config.Indicators = DefaultIndicators
	}
	return &MacroDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateObservations emits one observation per country, year and indicator,
// ordered by country then year then indicator
func (g *MacroDataGenerator) GenerateObservations() ([]macro.Observation, error) {
	if g.config.EndYear < g.config.StartYear {
		return nil, fmt.Errorf("end year %d is before start year %d", g.config.EndYear, g.config.StartYear)
	}

	years := g.config.EndYear - g.config.StartYear + 1
	obs := make([]macro.Observation, 0, len(g.config.Countries)*years*len(g.config.Indicators))
	for _, c := range g.config.Countries {
		obs = append(obs, g.countrySeries(c)...)
	}
	return obs, nil
}

func (g *MacroDataGenerator) countrySeries(c Country) []macro.Observation {
	scale := continentScale[c.Continent]
	if scale == 0 {
		scale = 1
	}
	// per-country jitter so members of a continent are not identical
	jitter := 0.75 + g.rng.Float64()*0.5

	levels := make([]float64, len(g.config.Indicators))
	for i, ind := range g.config.Indicators {
		levels[i] = ind.Base * scale * jitter
	}

	var out []macro.Observation
	for year := g.config.StartYear; year <= g.config.EndYear; year++ {
		for i, ind := range g.config.Indicators {
			if year > g.config.StartYear {
				levels[i] *= 1 + ind.Growth + g.rng.NormFloat64()*ind.Noise
			}
			o := macro.Observation{
				Country:   c.Name,
				Code:      c.Code,
				Capital:   c.Capital,
				Continent: c.Continent,
				Year:      year,
				Indicator: ind.Name,
			}
			if g.rng.Float64() >= g.config.MissingRate {
				o.Value = macro.Float(round(levels[i], 4))
			}
			out = append(out, o)
		}
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// CSVHeader is the column order written by WriteCSV
var CSVHeader = []string{"Country Name", "Country Code", "Capital", "Continent", "year", "Series Name", "value"}

// WriteCSV writes observations in the long format the file source reads.
// Missing values are written as "..".
func WriteCSV(w io.Writer, obs []macro.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, o := range obs {
		value := ".."
		if o.Value != nil {
			value = strconv.FormatFloat(*o.Value, 'f', -1, 64)
		}
		record := []string{o.Country, o.Code, o.Capital, string(o.Continent), strconv.Itoa(o.Year), o.Indicator, value}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
