package commands

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jamshidfarook/Geenie-Risk-Engine/service/config"
	"github.com/jamshidfarook/Geenie-Risk-Engine/service/logging"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "geenie",
	Short: "Geenie - core risk engine with Monte Carlo projections",
	Long: `Geenie computes historical risk statistics (return, volatility, drawdown,
volatility regimes, stress periods) for a price series and projects future
prices with a Monte Carlo simulation over several horizons.

Examples:
  geenie analyze --file prices.csv
  geenie analyze --file prices.csv --columns SPY,QQQ --simulations 5000 --seed 42
  geenie serve`,
	SilenceUsage: true,
}

// Execute runs the root command, called once from main
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the config and builds a logger writing to out
func loadConfig(out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, logging.NewWithWriter(cfg, out), nil
}
