package app

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	CORSAllow []string

	// CleanupGrace is how long an empty room survives before the
	// deferred deletion fires; long enough to ride out a page reload.
	CleanupGrace time.Duration

	RoomCodeLen int
}

func LoadConfig() Config {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		CleanupGrace: getEnvDuration("CLEANUP_GRACE", 60*time.Second),
		RoomCodeLen:  getEnvInt("ROOM_CODE_LEN", 6),
	}
	// CORS allowlist; the original service allowed every origin
	cfg.CORSAllow = splitCSV(getEnv("CORS_ALLOW", "*"))
	log.Printf("config: %+v\n", cfg)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// getEnvDuration parses a duration env var ("90s", "2m") with a fallback
func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
