package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderform/internal/config"
	"github.com/goliatone/go-orderform/internal/logging"
)

var (
	// configFile is the --config flag value
	configFile string
	// logLevel overrides log.level when set
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "orderform",
	Short: "Bloom Pizza order form",
	Long: `orderform serves the two-page Bloom Pizza order flow: a landing page
and an order form validated live as the customer types. Orders are posted to
the configured order endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to orderform.yaml (default: ./orderform.yaml or ~/.config/orderform/orderform.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn or error (overrides config)")
}

// loadConfig resolves the configuration and the logger built from it.
// Precedence: CLI flag > ORDERFORM_* env var > config file > defaults
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}, nil)
	return cfg, logger, nil
}
