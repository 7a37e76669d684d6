package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pulsecore/app"
	"github.com/kilianp07/pulsecore/config"
	"github.com/kilianp07/pulsecore/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pulsecore",
	Short: "Spin-up core simulation service",
	Long: `pulsecore runs the spin-up core simulation engine: a ticking core state
machine with scenario-driven runs, a conduit storage network, and live
telemetry streamed over MQTT with Prometheus/InfluxDB export.`,
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml",
		"configuration file (simulation, scheduler, network, mqtt, metrics, api sections)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
