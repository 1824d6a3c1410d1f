package core

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "github.com/jamshidfarook/Geenie-Risk-Engine/data/extensions"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

func TestJobsAndIterationsLogicIsCorrect(t *testing.T) {
	jobs, nWorkers := GetNumberOfJobsAndWorkers(10_000, 1_000, 4)

	if len(jobs) != 10 {
		t.Errorf("Expected 10 jobs, got %d", len(jobs))
	}
	if nWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", nWorkers)
	}
	for i := 1; i < len(jobs); i++ {
		if jobs[i].start != jobs[i-1].end {
			t.Errorf("Expected job %d to start where job %d ends (%d), got %d", i, i-1, jobs[i-1].end, jobs[i].start)
		}
		if jobs[i].index != i {
			t.Errorf("Expected job index %d, got %d", i, jobs[i].index)
		}
	}

	// last job is truncated to the remaining 500 iterations
	jobs, nWorkers = GetNumberOfJobsAndWorkers(3_500, 1_000, 4)
	if len(jobs) != 4 {
		t.Errorf("Expected 4 jobs, got %d", len(jobs))
	}
	if nWorkers != 4 {
		t.Errorf("Expected 4 workers, got %d", nWorkers)
	}
	if jobs[3].start != 3_000 || jobs[3].end != 3_500 {
		t.Errorf("Expected last job to cover [3000, 3500), got [%d, %d)", jobs[3].start, jobs[3].end)
	}

	jobs, nWorkers = GetNumberOfJobsAndWorkers(10, 1_000, 4)
	if len(jobs) != 1 {
		t.Errorf("Expected 1 job, got %d", len(jobs))
	}
	if nWorkers != 1 {
		t.Errorf("Expected 1 worker, got %d", nWorkers)
	}
	if jobs[0].start != 0 || jobs[0].end != 10 {
		t.Errorf("Expected single job to cover [0, 10), got [%d, %d)", jobs[0].start, jobs[0].end)
	}
}

func defaultParams() SimulationParameters {
	return SimulationParameters{
		LastPrice:      100,
		MeanReturn:     0.0004,
		Volatility:     0.012,
		HorizonDays:    sm.NextMonth,
		NumSimulations: 1_000,
	}
}

func TestSimulate_IsDeterministicForSeed(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	sources := PCGSourceFactory{Seed: 42}

	first, err := mc.Simulate(context.Background(), defaultParams(), sources)
	require.NoError(t, err)
	second, err := mc.Simulate(context.Background(), defaultParams(), sources)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := mc.Simulate(context.Background(), defaultParams(), PCGSourceFactory{Seed: 43})
	require.NoError(t, err)
	assert.NotEqual(t, first.P50, other.P50)
}

func TestSimulate_WorkerCountDoesNotChangeResult(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	sources := PCGSourceFactory{Seed: 7}

	parallel, err := mc.Simulate(context.Background(), defaultParams(), sources)
	require.NoError(t, err)
	serial, err := mc.WithWorkers(1).Simulate(context.Background(), defaultParams(), sources)
	require.NoError(t, err)

	assert.Equal(t, parallel, serial)
}

func TestSimulate_ZeroVolatilityStaysAtLastPrice(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	params := defaultParams()
	params.MeanReturn = 0
	params.Volatility = 0
	params.LastPrice = 123.45

	band, err := mc.Simulate(context.Background(), params, PCGSourceFactory{Seed: 1})
	require.NoError(t, err)

	ex.AssertAreEqual(t, "band length", params.HorizonDays, band.Len())
	for day := range band.Len() {
		if band.P5[day] != params.LastPrice || band.P50[day] != params.LastPrice || band.P95[day] != params.LastPrice {
			t.Fatalf("day %d: expected every percentile to equal %v, got %v/%v/%v", day, params.LastPrice, band.P5[day], band.P50[day], band.P95[day])
		}
	}
}

func TestSimulate_PercentilesAreOrdered(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())

	forecasts, err := mc.SimulateHorizons(context.Background(), defaultParams(), sm.DefaultHorizons(), 99)
	require.NoError(t, err)
	require.Len(t, forecasts, 4)

	for _, f := range forecasts {
		ex.AssertAreEqual(t, "band length", f.Days, f.Band.Len())
		for day := range f.Band.Len() {
			if !(f.Band.P5[day] <= f.Band.P50[day] && f.Band.P50[day] <= f.Band.P95[day]) {
				t.Fatalf("%s day %d: percentiles out of order %v/%v/%v", f.Label, day, f.Band.P5[day], f.Band.P50[day], f.Band.P95[day])
			}
		}
		ex.AssertAreEqual(t, "worst case", f.Band.P5[f.Days-1], f.WorstCase)
		ex.AssertAreEqual(t, "expected case", f.Band.P50[f.Days-1], f.ExpectedCase)
		ex.AssertAreEqual(t, "best case", f.Band.P95[f.Days-1], f.BestCase)
	}

	ex.AssertAreEqual(t, "label", "Next Day", forecasts[0].Label)
	ex.AssertAreEqual(t, "label", "Next 5 Years (~1260 trading days)", forecasts[3].Label)
}

func TestSimulate_MedianTracksDrift(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	params := defaultParams()
	params.HorizonDays = sm.NextYear
	params.NumSimulations = sm.MaxNumSimulations

	band, err := mc.Simulate(context.Background(), params, PCGSourceFactory{Seed: 2024})
	require.NoError(t, err)

	// log price after T days is roughly normal with mean T*(mu - sigma^2/2)
	expected := params.LastPrice * math.Exp(float64(params.HorizonDays)*(params.MeanReturn-0.5*params.Volatility*params.Volatility))
	assert.InEpsilon(t, expected, band.P50[params.HorizonDays-1], 0.03)
}

func TestSimulate_InvalidParameters(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	sources := PCGSourceFactory{Seed: 1}

	cases := map[string]func(p *SimulationParameters){
		"zero horizon":       func(p *SimulationParameters) { p.HorizonDays = 0 },
		"negative horizon":   func(p *SimulationParameters) { p.HorizonDays = -5 },
		"zero simulations":   func(p *SimulationParameters) { p.NumSimulations = 0 },
		"negative vol":       func(p *SimulationParameters) { p.Volatility = -0.01 },
		"nan mean":           func(p *SimulationParameters) { p.MeanReturn = math.NaN() },
		"non positive price": func(p *SimulationParameters) { p.LastPrice = 0 },
		"horizon above cap":  func(p *SimulationParameters) { p.HorizonDays = sm.MaxHorizonDays + 1 },
		"huge horizon":       func(p *SimulationParameters) { p.HorizonDays = 18446744073709552 },
		"path buffer overflows int": func(p *SimulationParameters) {
			p.HorizonDays = sm.NextYear
			p.NumSimulations = math.MaxInt / 100
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := defaultParams()
			mutate(&p)
			_, err := mc.Simulate(context.Background(), p, sources)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}

	_, err := mc.Simulate(context.Background(), defaultParams(), nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSimulate_MaxHorizonIsAccepted(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	p := defaultParams()
	p.HorizonDays = sm.MaxHorizonDays
	p.NumSimulations = sm.MinNumSimulations

	band, err := mc.Simulate(context.Background(), p, PCGSourceFactory{Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, sm.MaxHorizonDays, band.Len())
}

func TestSimulate_CancelledContext(t *testing.T) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mc.Simulate(ctx, defaultParams(), PCGSourceFactory{Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestSimulate_LargestConfiguration runs 4 horizons with the maximum number of simulations
func TestSimulate_LargestConfiguration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large simulation in short mode")
	}

	mc := NewMonteCarloSimulator(zerolog.Nop())
	params := defaultParams()
	params.NumSimulations = sm.MaxNumSimulations

	start := time.Now()
	forecasts, err := mc.SimulateHorizons(context.Background(), params, sm.DefaultHorizons(), 42)
	elapsed := time.Since(start)
	t.Logf("SimulateHorizons (%d simulations, horizons %v): %v", params.NumSimulations, sm.DefaultHorizons(), elapsed)

	require.NoError(t, err)
	ex.AssertAreEqual(t, "longest band", sm.NextFiveYears, forecasts[3].Band.Len())
}

func BenchmarkSimulateFiveYears(b *testing.B) {
	mc := NewMonteCarloSimulator(zerolog.Nop())
	params := defaultParams()
	params.HorizonDays = sm.NextFiveYears
	params.NumSimulations = sm.MaxNumSimulations

	for b.Loop() {
		if _, err := mc.Simulate(context.Background(), params, PCGSourceFactory{Seed: 42}); err != nil {
			b.Fatal(err)
		}
	}
}
