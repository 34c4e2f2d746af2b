// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"smashlog/internal/match"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	CharactersPath string // Character roster JSON
	StagesPath     string // Stage roster JSON
	GameLogPath    string // Game log JSON, rewritten on every save
	DataDir        string // Directory for the statistics index (always absolute)
	DefaultMode    match.Mode
	ArchiveKeep    int // Game log backups kept in DataDir/backups; 0 disables backups
	LogLevel       string
	LogPretty      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("SMASHLOG_DATA_DIR", "")
	if dataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		dataDir = filepath.Join(configDir, "SmashLog")
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		CharactersPath: getEnv("SMASHLOG_CHARACTERS", filepath.Join("resources", "characters.txt")),
		StagesPath:     getEnv("SMASHLOG_STAGES", filepath.Join("resources", "stages.json")),
		GameLogPath:    getEnv("SMASHLOG_GAME_LOG", filepath.Join("resources", "games.txt")),
		DataDir:        absDataDir,
		DefaultMode:    match.Mode(getEnv("SMASHLOG_MODE", string(match.OneVOne))),
		ArchiveKeep:    getEnvAsInt("SMASHLOG_ARCHIVE_KEEP", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configured values
func (c *Config) Validate() error {
	if !c.DefaultMode.Valid() {
		return fmt.Errorf("invalid SMASHLOG_MODE: %w", &match.UnknownModeError{Tag: string(c.DefaultMode)})
	}
	if c.ArchiveKeep < 0 {
		return fmt.Errorf("invalid SMASHLOG_ARCHIVE_KEEP %d", c.ArchiveKeep)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// IndexPath returns the location of the statistics index
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, "matches.db")
}

// ArchiveDir returns the directory holding game log backups
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
