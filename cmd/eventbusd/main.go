// Command eventbusd is a small demonstration host for the event-core
// library: it wires a root Manager, a couple of illustrative components and
// a Driver loop behind a CLI, the same way cuemby-warren's cmd/warren wires
// its manager/scheduler/API server behind cobra subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eventbusd",
	Short: "Run and inspect an event-core bus",
	Long: `eventbusd hosts a component-oriented event bus: a root manager, the
handlers its components register, and a driver loop that ticks and flushes
it. Use "run" to start the bus in the foreground, or "stats" to send a
handful of events through an in-process bus and print the results.`,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(demoCmd)
}

func initLogging() {
	levelFlag, _ := rootCmd.PersistentFlags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		level = zerolog.InfoLevel
	}
	corelog.SetLevel(level)
}
