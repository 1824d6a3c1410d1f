package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/spf13/cobra"

	"github.com/jamshidfarook/Geenie-Risk-Engine/data/loader"
	"github.com/jamshidfarook/Geenie-Risk-Engine/service/core"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

var (
	analyzeFile        string
	analyzeStart       string
	analyzeEnd         string
	analyzeColumns     []string
	analyzeWindow      int
	analyzeThreshold   float64
	analyzeSimulations int
	analyzeHorizons    []int
	analyzeSeed        int64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CSV price file and print the results as JSON",
	Long: `Loads a CSV with a date column and one or more numeric price columns,
computes the risk statistics and Monte Carlo bands and writes them to stdout.

Example:
  geenie analyze --file prices.csv --start 2015-01-01 --end 2024-12-31`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "CSV file to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "first date of the analysis window (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "last date of the analysis window (YYYY-MM-DD)")
	analyzeCmd.Flags().StringSliceVar(&analyzeColumns, "columns", nil, "price columns, several are averaged with equal weight")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", 0, "rolling volatility window in trading days")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "stress drawdown threshold, e.g. -0.3")
	analyzeCmd.Flags().IntVar(&analyzeSimulations, "simulations", 0, fmt.Sprintf("number of simulations [%d, %d]", sm.MinNumSimulations, sm.MaxNumSimulations))
	analyzeCmd.Flags().IntSliceVar(&analyzeHorizons, "horizons", nil, "forecast horizons in trading days")
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed for reproducible simulations")
	_ = analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// stdout carries the JSON result
	cfg, log, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	settings := sm.AnalysisRequestSettings{
		PriceColumns:    analyzeColumns,
		RollingWindow:   analyzeWindow,
		StressThreshold: analyzeThreshold,
		NumSimulations:  analyzeSimulations,
		Horizons:        analyzeHorizons,
	}
	if cmd.Flags().Changed("seed") {
		settings.Seed = null.IntFrom(analyzeSeed)
	}
	if settings.StartDate, err = parseFlagDate(analyzeStart); err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	if settings.EndDate, err = parseFlagDate(analyzeEnd); err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	table, err := loader.ReadCSVFile(analyzeFile)
	if err != nil {
		return err
	}

	sc := core.NewServiceContext(cmd.Context(), log, cfg.Analysis)
	res, err := sc.RunAnalysis(cmd.Context(), table, settings)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func parseFlagDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, v, time.UTC)
}
