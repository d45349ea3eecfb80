// Package runtimeconfig loads the tunables a deployed event bus needs at
// startup from the environment, the same caarlos0/env struct-tag pattern
// dmitrymomot-foundation's config packages use over the same library.
package runtimeconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the driver and bus tunables that vary between
// environments. Everything else (handler wiring, component topology) is
// decided in code, not configuration.
type Config struct {
	// DriverInterval is how often the foreground/background driver loop
	// ticks sub-managers and flushes the queue.
	DriverInterval time.Duration `env:"EVENTCORE_DRIVER_INTERVAL" envDefault:"10ms"`

	// RaiseErrors sets the root manager's default error-raising policy.
	RaiseErrors bool `env:"EVENTCORE_RAISE_ERRORS" envDefault:"false"`

	// LogErrors sets the root manager's default error-logging policy.
	LogErrors bool `env:"EVENTCORE_LOG_ERRORS" envDefault:"true"`

	// MetricsAddr is the address the demo CLI's Prometheus /metrics
	// endpoint listens on. Empty disables it.
	MetricsAddr string `env:"EVENTCORE_METRICS_ADDR" envDefault:":9090"`

	// RemoteBridgeAddr is read from the environment for the optional
	// remote-bridge collaborator. The eventbusd run command does not read
	// it, and no bridge listener is started from it.
	RemoteBridgeAddr string `env:"EVENTCORE_REMOTE_ADDR" envDefault:""`
}

// Load reads Config from the process environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
