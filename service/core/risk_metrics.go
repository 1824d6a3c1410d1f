package core

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

const (
	HighRiskVolatility     = 0.25
	ModerateRiskVolatility = 0.15
)

// CalculateReturns derives simple returns, price[i]/price[i-1] - 1, dated at i
func CalculateReturns(series dm.PriceSeries) dm.ReturnSeries {
	n := series.Len()
	if n < 2 {
		return dm.ReturnSeries{Returns: []float64{}, Dates: []time.Time{}}
	}

	res := dm.ReturnSeries{
		Returns: make([]float64, n-1),
		Dates:   make([]time.Time, n-1),
	}
	for i := 1; i < n; i++ {
		res.Returns[i-1] = series.Observations[i].Price/series.Observations[i-1].Price - 1
		res.Dates[i-1] = series.Observations[i].Timestamp
	}
	return res
}

// CalculateDrawdown returns price/runningMax - 1 for every observation.
// Values are never positive and are exactly zero wherever a new running max is set.
func CalculateDrawdown(series dm.PriceSeries) dm.DrawdownCurve {
	n := series.Len()
	res := dm.DrawdownCurve{
		Values: make([]float64, n),
		Dates:  make([]time.Time, n),
	}

	peak := math.Inf(-1)
	for i, o := range series.Observations {
		if o.Price > peak {
			peak = o.Price
		}
		res.Values[i] = o.Price/peak - 1
		res.Dates[i] = o.Timestamp
	}
	return res
}

// ComputeRiskMetrics computes the headline statistics of a prepared series.
// Volatilities use the sample (n-1) standard deviation.
func ComputeRiskMetrics(series dm.PriceSeries) (dm.ReturnSeries, dm.RiskMetrics, error) {
	if series.Len() < 2 {
		return dm.ReturnSeries{}, dm.RiskMetrics{}, fmt.Errorf("%w: series %s has %d observations", ErrInsufficientData, series.Name, series.Len())
	}

	returns := CalculateReturns(series)
	drawdown := CalculateDrawdown(series)

	dailyMean := stat.Mean(returns.Returns, nil)
	dailyVol := SampleStdDev(returns.Returns)
	annualVol := AnnualizeVolatility(dailyVol)

	troughIdx := floats.MinIdx(drawdown.Values)
	peakIdx := floats.MaxIdx(series.Prices()[:troughIdx+1])

	downDays := 0
	for _, r := range returns.Returns {
		if r < 0 {
			downDays++
		}
	}

	return returns, dm.RiskMetrics{
		AnnualizedReturn:     AnnualizeReturn(dailyMean),
		AnnualizedVolatility: annualVol,
		MaxDrawdown:          drawdown.Values[troughIdx],
		MaxDrawdownDate:      drawdown.Dates[troughIdx],
		PeakDate:             series.Observations[peakIdx].Timestamp,
		DownsideFrequencyPct: float64(downDays) / float64(returns.Len()) * 100,
		DailyMeanReturn:      dailyMean,
		DailyVolatility:      dailyVol,
		RiskClass:            ClassifyRisk(annualVol),
	}, nil
}

// AnnualizeReturn compounds a mean daily return over a trading year
func AnnualizeReturn(dailyMean float64) float64 {
	return math.Pow(1+dailyMean, sm.Daily) - 1
}

func AnnualizeVolatility(dailyVol float64) float64 {
	return dailyVol * math.Sqrt(sm.Daily)
}

// SampleStdDev is the Bessel corrected standard deviation, zero for fewer than two values
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

func ClassifyRisk(annualizedVolatility float64) dm.RiskClass {
	switch {
	case annualizedVolatility > HighRiskVolatility:
		return dm.HighRisk
	case annualizedVolatility > ModerateRiskVolatility:
		return dm.ModerateRisk
	default:
		return dm.LowRisk
	}
}
