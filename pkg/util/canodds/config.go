package canodds

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AssetsEnvVar overrides Config.AssetsPath when set
const AssetsEnvVar = "CANODDS_ASSETS"

// Config contains every parameter that influences loading and prediction.
// Relative paths are resolved against AssetsPath.
type Config struct {
	AssetsPath   string `toml:"assets_path"`   // base directory of model and data files
	ModelPath    string `toml:"model_path"`    // gradient boosted classifier artifact (JSON)
	FeaturesPath string `toml:"features_path"` // feature-order manifest (JSON array)

	Stats      StatsConfig      `toml:"stats"`
	Prediction PredictionConfig `toml:"prediction"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// StatsConfig selects where the team statistics table is read from
type StatsConfig struct {
	Source  string `toml:"source"`   // csv, sqlite or postgres
	CSVPath string `toml:"csv_path"` // used when Source is csv
	DBPath  string `toml:"db_path"`  // sqlite database, also the import target
	DSN     string `toml:"dsn"`      // postgres connection string
}

// PredictionConfig holds the post-processing constants
type PredictionConfig struct {
	HomeBoost float64 `toml:"home_boost"` // multiplier applied to the home-win probability (default: 1.05)
}

// ServerConfig holds settings for the MCP and REST front ends
type ServerConfig struct {
	HTTPAddr       string `toml:"http_addr"`        // REST listen address, empty for MCP over stdio
	TeamStatsLimit int    `toml:"team_stats_limit"` // rows returned by the team statistics listing (default: 15)
}

// LogConfig mirrors the options of internal/logger
type LogConfig struct {
	Level        string `toml:"level"`
	Output       string `toml:"output"` // c, f or b
	File         string `toml:"file"`
	ShowDateTime bool   `toml:"show_date_time"`
}

const (
	StatsSourceCSV      = "csv"
	StatsSourceSQLite   = "sqlite"
	StatsSourcePostgres = "postgres"
)

// DefaultConfig returns the default configuration with all standard values
func DefaultConfig() *Config {
	assets := "assets"
	if env := os.Getenv(AssetsEnvVar); env != "" {
		assets = env
	}
	return &Config{
		AssetsPath:   assets,
		ModelPath:    "models/gb_model_can_2025.json",
		FeaturesPath: "models/feature_columns.json",
		Stats: StatsConfig{
			Source:  StatsSourceCSV,
			CSVPath: "General Statistics For each Participated Team.csv",
			DBPath:  "canodds.db",
		},
		Prediction: PredictionConfig{
			HomeBoost: HomeBoost,
		},
		Server: ServerConfig{
			TeamStatsLimit: 15,
		},
		Log: LogConfig{
			Level:  "info",
			Output: "c",
			File:   "/tmp/canodds.log",
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
// A missing file is not an error, the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *Config) error {
	if config.Prediction.HomeBoost < 1.0 || config.Prediction.HomeBoost > 1.5 {
		return fmt.Errorf("HomeBoost should be between 1.0 and 1.5, got: %f", config.Prediction.HomeBoost)
	}
	switch config.Stats.Source {
	case StatsSourceCSV:
		if config.Stats.CSVPath == "" {
			return fmt.Errorf("stats source csv needs csv_path")
		}
	case StatsSourceSQLite:
		if config.Stats.DBPath == "" {
			return fmt.Errorf("stats source sqlite needs db_path")
		}
	case StatsSourcePostgres:
		if config.Stats.DSN == "" {
			return fmt.Errorf("stats source postgres needs dsn")
		}
	default:
		return fmt.Errorf("unknown stats source %q", config.Stats.Source)
	}
	if config.Server.TeamStatsLimit < 1 {
		return fmt.Errorf("TeamStatsLimit should be at least 1, got: %d", config.Server.TeamStatsLimit)
	}
	switch config.Log.Output {
	case "c", "f", "b":
	default:
		return fmt.Errorf("log output must be one of c, f or b, got: %q", config.Log.Output)
	}
	return nil
}

// Resolve returns p relative to the assets directory unless it is absolute
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.AssetsPath, p)
}
