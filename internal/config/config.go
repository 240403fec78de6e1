package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"macrolens/domain/macro"
	"macrolens/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Cluster  ClusterConfig
	Defaults Defaults
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// DataConfig points at the dataset file
type DataConfig struct {
	File  string
	Sheet string
}

// DatabaseConfig holds the optional Postgres observation source
type DatabaseConfig struct {
	URL string
}

// ClusterConfig tunes the k-means engine
type ClusterConfig struct {
	Seed      int64
	NInit     int
	MaxIter   int
	Tolerance float64
}

// Defaults are the dashboard's initial selections
type Defaults struct {
	StartYear         int      `yaml:"start_year"`
	EndYear           int      `yaml:"end_year"`
	Continents        []string `yaml:"continents"`
	ClusterIndicators []string `yaml:"cluster_indicators"`
	K                 int      `yaml:"k"`
	RaceIndicator     string   `yaml:"race_indicator"`
	PeerIndicator     string   `yaml:"peer_indicator"`
}

// DefaultDefaults returns the built-in dashboard selections
func DefaultDefaults() Defaults {
	return Defaults{
		StartYear:  2000,
		EndYear:    2020,
		Continents: []string{string(macro.Africa), string(macro.Europe)},
		ClusterIndicators: []string{
			"GDP growth (annual %)",
			"Unemployment, total (% of total labor force) (national estimate)",
		},
		K:             5,
		RaceIndicator: "Population, total",
		PeerIndicator: "GDP (current US$)",
	}
}

// Scope converts the default year range and continents
func (d Defaults) Scope() (macro.Scope, error) {
	scope := macro.Scope{StartYear: d.StartYear, EndYear: d.EndYear}
	for _, c := range d.Continents {
		continent, err := macro.ParseContinent(c)
		if err != nil {
			return macro.Scope{}, err
		}
		scope.Continents = append(scope.Continents, continent)
	}
	return scope, nil
}

// ClusterParams converts the default clustering selection for year
func (d Defaults) ClusterParams(year int, seed int64) macro.ClusterParams {
	return macro.ClusterParams{
		Indicators: append([]string(nil), d.ClusterIndicators...),
		Year:       year,
		K:          d.K,
		Seed:       seed,
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			GinMode:        getEnvOrDefault("GIN_MODE", "release"),
			AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Data: DataConfig{
			File:  getEnvOrDefault("DATA_FILE", ""),
			Sheet: getEnvOrDefault("DATA_SHEET", ""),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Cluster: ClusterConfig{
			Seed:      int64(getEnvIntOrDefault("CLUSTER_SEED", 42)),
			NInit:     getEnvIntOrDefault("KMEANS_N_INIT", 10),
			MaxIter:   getEnvIntOrDefault("KMEANS_MAX_ITER", 300),
			Tolerance: getEnvFloatOrDefault("KMEANS_TOLERANCE", 1e-4),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	defaults, err := loadDefaults(os.Getenv("DEFAULTS_FILE"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard defaults")
	}
	config.Defaults = defaults

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// loadDefaults overlays the yaml file at path onto the built-in defaults.
// Fields the file omits keep their built-in value.
func loadDefaults(path string) (Defaults, error) {
	defaults := DefaultDefaults()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, errors.ConfigInvalid(fmt.Sprintf("cannot read DEFAULTS_FILE %s: %v", path, err))
	}
	if err := yaml.Unmarshal(raw, &defaults); err != nil {
		return Defaults{}, errors.ConfigInvalid(fmt.Sprintf("cannot parse DEFAULTS_FILE %s: %v", path, err))
	}
	return defaults, nil
}

func validateConfig(config *Config) error {
	if config.Data.File == "" && config.Database.URL == "" {
		return errors.ConfigInvalid("one of DATA_FILE or DATABASE_URL is required")
	}
	if config.Cluster.NInit < 1 {
		return errors.ConfigInvalid("KMEANS_N_INIT must be at least 1")
	}
	if config.Cluster.MaxIter < 1 {
		return errors.ConfigInvalid("KMEANS_MAX_ITER must be at least 1")
	}
	if config.Cluster.Tolerance < 0 {
		return errors.ConfigInvalid("KMEANS_TOLERANCE must not be negative")
	}

	d := config.Defaults
	if d.StartYear > d.EndYear {
		return errors.ConfigInvalid(fmt.Sprintf("default start year %d is after end year %d", d.StartYear, d.EndYear))
	}
	if _, err := d.Scope(); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("default continents: %v", err))
	}
	if err := d.ClusterParams(d.EndYear, config.Cluster.Seed).Validate(); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("default clustering: %v", err))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
