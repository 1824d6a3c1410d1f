package models

import "time"

// Observation is a single (timestamp, price) pair of a PriceSeries
type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceSeries is ordered by strictly increasing timestamp and holds positive prices.
// It is owned by the caller and is not mutated once prepared.
type PriceSeries struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

func (ps PriceSeries) Len() int {
	return len(ps.Observations)
}

func (ps PriceSeries) Prices() []float64 {
	res := make([]float64, len(ps.Observations))
	for i, o := range ps.Observations {
		res[i] = o.Price
	}
	return res
}

func (ps PriceSeries) Last() Observation {
	return ps.Observations[len(ps.Observations)-1]
}

// ReturnSeries holds simple returns, Returns[i] is the return realised on Dates[i]
type ReturnSeries struct {
	Returns []float64   `json:"returns"`
	Dates   []time.Time `json:"dates"`
}

func (rs ReturnSeries) Len() int {
	return len(rs.Returns)
}

// DrawdownCurve is aligned 1:1 with the PriceSeries it was computed from
type DrawdownCurve struct {
	Values []float64   `json:"values"`
	Dates  []time.Time `json:"dates"`
}

// DatasetCoverage summarises the prepared series
type DatasetCoverage struct {
	Observations int       `json:"observations"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}
