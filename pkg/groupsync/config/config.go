package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings, loaded once at startup and passed
// down explicitly.
type Config struct {
	Port   string
	DBPath string

	// AvailabilityURL is the base URL of the external free-schedule
	// service consulted before accepting a routine.
	AvailabilityURL     string
	AvailabilityTimeout time.Duration

	// RequireVoterMembership gates poll voting on group membership.
	// Defaults to false: polls accept votes from any authenticated user.
	RequireVoterMembership bool
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	cfg := Config{
		Port:                   getenv("PORT", "8080"),
		DBPath:                 getenv("GROUPSYNC_DB_PATH", "groupsync.db"),
		AvailabilityURL:        getenv("AVAILABILITY_SERVICE_URL", "http://0.0.0.0:8082"),
		AvailabilityTimeout:    10 * time.Second,
		RequireVoterMembership: false,
	}

	if v := os.Getenv("AVAILABILITY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AvailabilityTimeout = d
		}
	}
	if v := os.Getenv("GROUPSYNC_REQUIRE_VOTER_MEMBERSHIP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RequireVoterMembership = b
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
