package monitor

import (
	"os"
	"strconv"
	"time"
)

// Config holds the monitor's timing knobs.
type Config struct {
	// StartupDelay is the grace period before the first sweep, giving the
	// rest of the process time to finish starting.
	StartupDelay time.Duration
	// CheckInterval is the sleep between sweeps.
	CheckInterval time.Duration
	// PacingDelay is the wait before each per-item fetch, bounding the
	// request rate against the source.
	PacingDelay time.Duration
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// LoadConfig collects monitor configuration from the environment with the
// documented defaults: 10s startup delay, 1h interval, 1s pacing.
func LoadConfig() Config {
	return Config{
		StartupDelay:  time.Duration(atoienv("MONITOR_STARTUP_DELAY_SECONDS", 10)) * time.Second,
		CheckInterval: time.Duration(atoienv("MONITOR_CHECK_INTERVAL_SECONDS", 3600)) * time.Second,
		PacingDelay:   time.Duration(atoienv("MONITOR_PACING_DELAY_MS", 1000)) * time.Millisecond,
	}
}
