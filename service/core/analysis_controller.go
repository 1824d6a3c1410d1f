package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ex "github.com/jamshidfarook/Geenie-Risk-Engine/data/extensions"
	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

// RunAnalysis prepares the table, computes the historical statistics and runs the
// multi horizon Monte Carlo projection.
func (sc *ServiceContext) RunAnalysis(ctx context.Context, table *dm.Table, settings sm.AnalysisRequestSettings) (*sm.AnalysisResponse, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table is nil", ErrInvalidParameter)
	}

	start := time.Now()
	runId := uuid.NewString()
	log := sc.Logger.With().Str("runId", runId).Logger()

	settings = sc.mergeDefaults(settings)
	if err := settings.Validate(); err != nil {
		log.Warn().Err(err).Msg("rejected analysis settings")
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	seed := settings.Seed.Int64
	if !settings.Seed.Valid {
		seed = rand.Int64()
	}

	log.Info().
		Int("rows", table.NumRows()).
		Int("simulations", settings.NumSimulations).
		Ints("horizons", settings.Horizons).
		Int64("seed", seed).
		Msg("received request to run analysis")

	series, err := PrepareSeries(table, PrepareOptions{
		PriceColumns: settings.PriceColumns,
		StartDate:    settings.StartDate,
		EndDate:      settings.EndDate,
	})
	if err != nil {
		log.Error().Err(err).Msg("error preparing price series")
		return nil, err
	}

	log.Info().
		Str("asset", series.Name).
		Int("observations", series.Len()).
		Str("from", ex.FmtShort(series.Observations[0].Timestamp)).
		Str("to", ex.FmtShort(series.Last().Timestamp)).
		Dur("elapsed", time.Since(start)).
		Msg("prepared price series")

	res := &sm.AnalysisResponse{
		RunId:          runId,
		AssetName:      series.Name,
		Seed:           seed,
		NumSimulations: settings.NumSimulations,
		Coverage:       Coverage(series),
		LastPrice:      series.Last().Price,
	}

	var returns dm.ReturnSeries

	// independent and cpu bound, cancellation is checked once all three finish
	var g errgroup.Group
	g.Go(func() error {
		var err error
		returns, res.RiskMetrics, err = ComputeRiskMetrics(series)
		return err
	})
	g.Go(func() error {
		var err error
		res.Drawdown = CalculateDrawdown(series)
		res.Stress, err = DetectStress(res.Drawdown, settings.StressThreshold)
		return err
	})
	g.Go(func() error {
		var err error
		res.Regimes, err = AnalyzeRegimes(CalculateReturns(series), settings.RollingWindow)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("error computing historical statistics")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info().
		Float64("annualizedReturn", res.RiskMetrics.AnnualizedReturn).
		Float64("annualizedVolatility", res.RiskMetrics.AnnualizedVolatility).
		Float64("maxDrawdown", res.RiskMetrics.MaxDrawdown).
		Int("stressDays", res.Stress.Days()).
		Int("returns", returns.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("computed historical statistics")

	params := SimulationParameters{
		LastPrice:      res.LastPrice,
		MeanReturn:     res.RiskMetrics.DailyMeanReturn,
		Volatility:     res.RiskMetrics.DailyVolatility,
		NumSimulations: settings.NumSimulations,
	}
	res.Forecasts, err = sc.Simulator.SimulateHorizons(ctx, params, settings.Horizons, uint64(seed))
	if err != nil {
		log.Error().Err(err).Msg("error running monte carlo simulation")
		return nil, err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("analysis completed")
	return res, nil
}

// mergeDefaults fills fields the request left unset from the service defaults
func (sc *ServiceContext) mergeDefaults(s sm.AnalysisRequestSettings) sm.AnalysisRequestSettings {
	d := sc.Defaults
	if s.RollingWindow == 0 {
		s.RollingWindow = d.RollingWindow
	}
	if s.StressThreshold == 0 {
		s.StressThreshold = d.StressThreshold
	}
	if len(s.Horizons) == 0 {
		s.Horizons = d.Horizons
	}
	if s.NumSimulations == 0 {
		s.NumSimulations = d.NumSimulations
	}
	if !s.Seed.Valid {
		s.Seed = d.Seed
	}
	return s.WithDefaults()
}
