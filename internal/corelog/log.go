// Package corelog provides the structured logger used throughout this
// module. It wraps zerolog with a small set of component-scoped
// constructors, the same pattern cuemby-warren's pkg/log applies over the
// same library.
package corelog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	baseOnce sync.Once
	base     zerolog.Logger
)

func rootLogger() zerolog.Logger {
	baseOnce.Do(func() {
		var w io.Writer = os.Stderr
		base = zerolog.New(w).With().Timestamp().Logger()
	})
	return base
}

// SetOutput redirects the package's base logger, primarily for tests that
// want to capture log output.
func SetOutput(w io.Writer) {
	baseOnce.Do(func() {})
	base = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the global minimum log level.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// For returns a child logger scoped to the named component, mirroring the
// WithComponent helper the logging stack this module borrows from exposes.
func For(component string) zerolog.Logger {
	return rootLogger().With().Str("component", component).Logger()
}

// ForManager scopes a logger to a named Manager or Component instance,
// useful when several components share a component kind but not an
// identity.
func ForManager(component, name string) zerolog.Logger {
	return rootLogger().With().Str("component", component).Str("name", name).Logger()
}
