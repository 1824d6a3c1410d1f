package core

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	ex "github.com/jamshidfarook/Geenie-Risk-Engine/data/extensions"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

const (
	Workers         = 8
	BatchSize       = 250 // trials per job, every job owns one random stream
	ReduceBatchSize = 64  // day offsets per percentile reduction job
)

// SimulationParameters describe a single horizon parametric simulation.
// MeanReturn and Volatility are per trading day.
type SimulationParameters struct {
	LastPrice      float64
	MeanReturn     float64
	Volatility     float64
	HorizonDays    int
	NumSimulations int
}

func (p SimulationParameters) Validate() error {
	switch {
	case p.HorizonDays <= 0 || p.HorizonDays > sm.MaxHorizonDays:
		return fmt.Errorf("%w: horizon must be within [1, %d], got %d", ErrInvalidParameter, sm.MaxHorizonDays, p.HorizonDays)
	case p.NumSimulations <= 0:
		return fmt.Errorf("%w: number of simulations must be positive, got %d", ErrInvalidParameter, p.NumSimulations)
	case p.HorizonDays > math.MaxInt/p.NumSimulations:
		return fmt.Errorf("%w: %d days x %d simulations does not fit in memory", ErrInvalidParameter, p.HorizonDays, p.NumSimulations)
	case math.IsNaN(p.Volatility) || math.IsInf(p.Volatility, 0) || p.Volatility < 0:
		return fmt.Errorf("%w: volatility must be finite and non-negative, got %v", ErrInvalidParameter, p.Volatility)
	case math.IsNaN(p.MeanReturn) || math.IsInf(p.MeanReturn, 0):
		return fmt.Errorf("%w: mean return must be finite, got %v", ErrInvalidParameter, p.MeanReturn)
	case math.IsNaN(p.LastPrice) || math.IsInf(p.LastPrice, 0) || p.LastPrice <= 0:
		return fmt.Errorf("%w: last price %v", ErrInvalidPrice, p.LastPrice)
	}
	return nil
}

// SourceFactory hands out independent random streams, one per trial batch.
// The same index must always produce the same stream.
type SourceFactory interface {
	Stream(index uint64) rand.Source
}

// PCGSourceFactory derives streams from a master seed. Lane separates the
// streams of independent simulations sharing a seed (e.g. one lane per horizon).
type PCGSourceFactory struct {
	Seed uint64
	Lane uint64
}

func (f PCGSourceFactory) Stream(index uint64) rand.Source {
	return rand.NewPCG(f.Seed, f.Lane<<32|index)
}

type job struct {
	index int
	start int
	end   int
}

// GetNumberOfJobsAndWorkers splits iterations into batches of at most batchSize
// ([start, end) ranges) and caps the worker count at the number of batches.
func GetNumberOfJobsAndWorkers(iterations int, batchSize int, workers int) ([]job, int) {
	nJobs := int(math.Ceil(float64(iterations) / float64(batchSize)))
	nWorkers := ex.Min(nJobs, workers)

	jobs := make([]job, nJobs)
	for i := range nJobs {
		jobs[i] = job{
			index: i,
			start: i * batchSize,
			end:   ex.Min((i+1)*batchSize, iterations),
		}
	}

	return jobs, nWorkers
}

type MonteCarloSimulator struct {
	workers   int
	batchSize int
	log       zerolog.Logger
}

func NewMonteCarloSimulator(log zerolog.Logger) *MonteCarloSimulator {
	return &MonteCarloSimulator{
		workers:   Workers,
		batchSize: BatchSize,
		log:       log.With().Str("component", "monte_carlo").Logger(),
	}
}

// WithWorkers returns a copy of the simulator using at most n workers
func (mc *MonteCarloSimulator) WithWorkers(n int) *MonteCarloSimulator {
	c := *mc
	c.workers = ex.Max(n, 1)
	return &c
}

// Simulate runs NumSimulations price paths of HorizonDays daily Normal(mean, vol)
// returns and reduces them to 5th/50th/95th percentile bands per day offset.
// Output depends only on the parameters and sources, not on the worker count.
func (mc *MonteCarloSimulator) Simulate(ctx context.Context, params SimulationParameters, sources SourceFactory) (sm.SimulationBand, error) {
	if err := params.Validate(); err != nil {
		return sm.SimulationBand{}, err
	}
	if sources == nil {
		return sm.SimulationBand{}, fmt.Errorf("%w: random source factory is nil", ErrInvalidParameter)
	}

	start := time.Now()
	h, n := params.HorizonDays, params.NumSimulations

	// day major: prices of every trial for day d live in paths[d*n : (d+1)*n]
	paths := make([]float64, h*n)

	jobs, nWorkers := GetNumberOfJobsAndWorkers(n, mc.batchSize, mc.workers)
	jobsChannel := make(chan job, len(jobs))
	for _, j := range jobs {
		jobsChannel <- j
	}
	close(jobsChannel)

	g, gctx := errgroup.WithContext(ctx)
	for range nWorkers {
		g.Go(func() error {
			for j := range jobsChannel {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				dist := distuv.Normal{Mu: params.MeanReturn, Sigma: params.Volatility, Src: sources.Stream(uint64(j.index))}
				for sim := j.start; sim < j.end; sim++ {
					growth := 1.0
					for day := range h {
						growth *= 1 + dist.Rand()
						paths[day*n+sim] = params.LastPrice * growth
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sm.SimulationBand{}, err
	}

	band, err := mc.reduceToBand(ctx, paths, h, n)
	if err != nil {
		return sm.SimulationBand{}, err
	}

	mc.log.Debug().
		Int("horizon", h).
		Int("simulations", n).
		Int("batches", len(jobs)).
		Int("workers", nWorkers).
		Dur("elapsed", time.Since(start)).
		Msg("monte carlo simulation complete")

	return band, nil
}

// reduceToBand sorts each day's column in place, so paths is consumed
func (mc *MonteCarloSimulator) reduceToBand(ctx context.Context, paths []float64, h, n int) (sm.SimulationBand, error) {
	band := sm.SimulationBand{
		P5:  make([]float64, h),
		P50: make([]float64, h),
		P95: make([]float64, h),
	}

	jobs, nWorkers := GetNumberOfJobsAndWorkers(h, ReduceBatchSize, mc.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nWorkers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			for day := j.start; day < j.end; day++ {
				column := paths[day*n : (day+1)*n]
				slices.Sort(column)
				band.P5[day] = Percentile(column, 0.05)
				band.P50[day] = Percentile(column, 0.50)
				band.P95[day] = Percentile(column, 0.95)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sm.SimulationBand{}, err
	}
	return band, nil
}

// SimulateHorizons runs Simulate once per horizon, each on its own PCG lane keyed
// by the horizon length so a band does not depend on which other horizons ran.
func (mc *MonteCarloSimulator) SimulateHorizons(ctx context.Context, params SimulationParameters, horizons []int, seed uint64) ([]sm.HorizonForecast, error) {
	res := make([]sm.HorizonForecast, 0, len(horizons))
	for _, days := range horizons {
		p := params
		p.HorizonDays = days

		band, err := mc.Simulate(ctx, p, PCGSourceFactory{Seed: seed, Lane: uint64(days)})
		if err != nil {
			return nil, fmt.Errorf("error simulating %d day horizon: %w", days, err)
		}

		last := band.Len() - 1
		res = append(res, sm.HorizonForecast{
			Label:        sm.HorizonLabel(days),
			Days:         days,
			Band:         band,
			WorstCase:    band.P5[last],
			ExpectedCase: band.P50[last],
			BestCase:     band.P95[last],
		})
	}
	return res, nil
}
