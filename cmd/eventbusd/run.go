package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/dshills/eventcore/internal/eventcore"
	"github.com/dshills/eventcore/internal/runtimeconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the event bus in the foreground",
	Long: `run builds a root manager with the guard and echo components
attached, starts the Prometheus metrics endpoint, and blocks the process
running the driver loop until it receives SIGINT/SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := runtimeconfig.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := corelog.For("eventbusd")

	metrics := eventcore.NewMetrics(prometheus.DefaultRegisterer)
	root := eventcore.NewManager(
		eventcore.WithManagerName("root"),
		eventcore.WithRaiseErrors(cfg.RaiseErrors),
		eventcore.WithLogErrors(cfg.LogErrors),
		eventcore.WithMetrics(metrics),
	)

	guard := newGuardComponent()
	echo := newEchoComponent()
	if err := guard.Register(root); err != nil {
		return fmt.Errorf("register guard: %w", err)
	}
	if err := echo.Register(root); err != nil {
		return fmt.Errorf("register echo: %w", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	driver := eventcore.NewDriver(root, cfg.DriverInterval)
	log.Info().Dur("interval", cfg.DriverInterval).Msg("starting driver")
	driver.Run(context.Background())
	return nil
}
