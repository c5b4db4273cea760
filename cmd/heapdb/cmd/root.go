/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ssargent/heapdb/pkg/config"
	"github.com/ssargent/heapdb/pkg/heap"
	"github.com/ssargent/heapdb/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "heapdb",
	Short: "heapdb - Paged heap file loader and scanner",
	Long: `heapdb loads pedestrian sensor CSV exports into a heap file of
fixed-size pages and answers exact-match queries with a sequential scan.

The heap file for page size N is named heap.N and lives in the data
directory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ~/.config/heapdb/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Directory holding heap files")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file after each run")
}

// settings resolves the effective configuration: the config file when one
// exists, then any global flags the user set
func settings(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	overrides := map[string]*string{
		"data-dir":     &cfg.DataDir,
		"log-level":    &cfg.Logging.Level,
		"log-format":   &cfg.Logging.Format,
		"metrics-file": &cfg.Metrics.TextfilePath,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtime carries what every command needs once settings are resolved
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *heap.Metrics
}

func newRuntime(cfg *config.Config, logOut io.Writer) *runtime {
	registry := prometheus.NewRegistry()
	return &runtime{
		cfg:      cfg,
		logger:   logging.New(cfg.Logging, logOut),
		registry: registry,
		metrics:  heap.NewMetrics(registry),
	}
}

// flushMetrics writes the run's metrics when a textfile path is configured
func (rt *runtime) flushMetrics() error {
	if rt.cfg.Metrics.TextfilePath == "" {
		return nil
	}
	if err := heap.WriteTextfile(rt.cfg.Metrics.TextfilePath, rt.registry); err != nil {
		return err
	}
	rt.logger.Debug("metrics written", "path", rt.cfg.Metrics.TextfilePath)
	return nil
}

// flushMetricsOnReturn flushes metrics after a run whether or not it failed,
// so error samples reach the textfile. A flush failure is joined to *err.
func (rt *runtime) flushMetricsOnReturn(err *error) {
	if flushErr := rt.flushMetrics(); flushErr != nil {
		*err = errors.Join(*err, flushErr)
	}
}

func setupRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := settings(cmd)
	if err != nil {
		return nil, err
	}
	return newRuntime(cfg, cmd.ErrOrStderr()), nil
}
