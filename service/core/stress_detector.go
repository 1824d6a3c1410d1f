package core

import (
	"fmt"
	"math"

	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
)

// DetectStress returns every drawdown point strictly below threshold, in series order.
// An empty window is a valid result.
func DetectStress(curve dm.DrawdownCurve, threshold float64) (dm.StressWindow, error) {
	if math.IsNaN(threshold) || threshold < -1 || threshold > 0 {
		return dm.StressWindow{}, fmt.Errorf("%w: stress threshold must be within [-1, 0], got %v", ErrInvalidParameter, threshold)
	}

	res := dm.StressWindow{
		Threshold: threshold,
		Points:    []dm.StressPoint{},
	}
	for i, v := range curve.Values {
		if v < threshold {
			p := dm.StressPoint{Index: i, Drawdown: v}
			if i < len(curve.Dates) {
				p.Date = curve.Dates[i]
			}
			res.Points = append(res.Points, p)
		}
	}
	return res, nil
}
