package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
)

// RollingVolatility annualizes the sample standard deviation of each trailing
// window of returns. Index i of the output corresponds to returns[windowSize-1+i];
// positions before the first full window are not represented.
func RollingVolatility(returns []float64, windowSize int) ([]float64, error) {
	if windowSize < 2 {
		return nil, fmt.Errorf("%w: rolling window must be at least 2, got %d", ErrInvalidParameter, windowSize)
	}
	if len(returns) < windowSize {
		return []float64{}, nil
	}

	res := make([]float64, len(returns)-windowSize+1)
	for i := range res {
		res[i] = AnnualizeVolatility(stat.StdDev(returns[i:i+windowSize], nil))
	}
	return res, nil
}

// AnalyzeRegimes splits returns into high and low volatility regimes around the
// median rolling volatility and aggregates returns per regime. Returns whose
// rolling volatility is undefined take no part in the aggregation.
func AnalyzeRegimes(returns dm.ReturnSeries, windowSize int) (dm.RegimeAnalysis, error) {
	vols, err := RollingVolatility(returns.Returns, windowSize)
	if err != nil {
		return dm.RegimeAnalysis{}, err
	}

	res := dm.RegimeAnalysis{
		WindowSize: windowSize,
		RollingVolatility: dm.RollingVolatility{
			Values: vols,
			Dates:  make([]time.Time, len(vols)),
			Labels: make([]dm.RegimeLabel, len(vols)),
		},
		Stats: dm.RegimeStats{},
	}
	if len(vols) == 0 {
		return res, nil
	}

	sorted := slices.Clone(vols)
	slices.Sort(sorted)
	threshold := Percentile(sorted, 0.5)
	res.Threshold = null.FloatFrom(threshold)

	grouped := make(map[dm.RegimeLabel][]float64, 2)
	offset := windowSize - 1
	for i, v := range vols {
		label := dm.LowVolatility
		if v > threshold {
			label = dm.HighVolatility
		}

		res.RollingVolatility.Labels[i] = label
		res.RollingVolatility.Dates[i] = returns.Dates[offset+i]
		grouped[label] = append(grouped[label], returns.Returns[offset+i])
	}

	for label, values := range grouped {
		s := dm.RegimeStat{
			MeanReturn:  stat.Mean(values, nil),
			SampleCount: len(values),
		}
		if len(values) > 1 {
			s.StdReturn = null.FloatFrom(stat.StdDev(values, nil))
		}
		res.Stats[label] = s
	}

	return res, nil
}
