package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/geomap/internal/terrain"
)

// EnvPath overrides the config file location.
const EnvPath = "GEOMAP_CONFIG"

// DefaultPath is read when EnvPath is unset.
const DefaultPath = "config/mapanalyzer.yaml"

// Analyzer holds all configuration for the map analyzer.
type Analyzer struct {
	LogLevel string `yaml:"log_level"`

	// Snapshot files to analyse; command line arguments take precedence.
	Snapshots []string `yaml:"snapshots"`
	// Number of snapshots analysed at once.
	Concurrency int `yaml:"concurrency"`

	AutomaticPathUpdate bool `yaml:"automatic_path_update"`
	FindStartingBases   bool `yaml:"find_starting_bases"`

	Terrain terrain.Options `yaml:"terrain"`

	// Results store; disabled when Enabled is false.
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultAnalyzer returns Analyzer config with sensible defaults.
func DefaultAnalyzer() Analyzer {
	return Analyzer{
		LogLevel:          "info",
		Concurrency:       4,
		FindStartingBases: true,
		Terrain:           terrain.DefaultOptions(),
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "geomap",
			Password: "geomap",
			DBName:   "geomap",
			SSLMode:  "disable",
		},
	}
}

// Path returns the config location, honouring EnvPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadAnalyzer loads analyzer config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAnalyzer(path string) (Analyzer, error) {
	cfg := DefaultAnalyzer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Concurrency <= 0 {
		return cfg, fmt.Errorf("config %s: concurrency must be positive, got %d", path, cfg.Concurrency)
	}

	return cfg, nil
}
