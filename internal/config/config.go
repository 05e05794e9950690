package config

import (
	"os"
	"path/filepath"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultDBPath        = "data/meals.db"
	DefaultHouseholdFile = "household.yaml"
)

// Config holds the configuration for the application.
type Config struct {
	// DBPath is the SQLite database file holding the catalog, stored plans,
	// history, and metrics.
	DBPath string

	// HouseholdFile is the YAML file describing the family and its members.
	HouseholdFile string

	// ArchiveDir is where exported plan snapshots are written.
	ArchiveDir string
}

// NewFromEnv creates a new Config object from environment variables. Every
// value has a default, so a bare environment works out of the box; CLI flags
// may still override any of them.
func NewFromEnv() *Config {
	dbPath := os.Getenv("MEAL_PLANNER_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBPath
	}

	householdFile := os.Getenv("MEAL_PLANNER_HOUSEHOLD_FILE")
	if householdFile == "" {
		householdFile = DefaultHouseholdFile
	}

	archiveDir := os.Getenv("MEAL_PLANNER_ARCHIVE_DIR")
	if archiveDir == "" {
		// Exported snapshots live next to the database unless told otherwise.
		archiveDir = filepath.Join(filepath.Dir(dbPath), "plans")
	}

	return &Config{
		DBPath:        dbPath,
		HouseholdFile: householdFile,
		ArchiveDir:    archiveDir,
	}
}
