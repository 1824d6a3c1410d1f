package models

import (
	"fmt"
	"time"

	"github.com/guregu/null/v6"
)

type RiskClass string

const (
	HighRisk     RiskClass = "high-risk"
	ModerateRisk RiskClass = "moderate-risk"
	LowRisk      RiskClass = "low-risk"
)

// RiskMetrics are the headline statistics of one analysis window
type RiskMetrics struct {
	AnnualizedReturn     float64   `json:"annualizedReturn"`
	AnnualizedVolatility float64   `json:"annualizedVolatility"`
	MaxDrawdown          float64   `json:"maxDrawdown"`
	MaxDrawdownDate      time.Time `json:"maxDrawdownDate"`
	PeakDate             time.Time `json:"peakDate"`
	DownsideFrequencyPct float64   `json:"downsideFrequencyPct"`
	DailyMeanReturn      float64   `json:"dailyMeanReturn"`
	DailyVolatility      float64   `json:"dailyVolatility"`
	RiskClass            RiskClass `json:"riskClass"`
}

type RegimeLabel int

const (
	LowVolatility RegimeLabel = iota
	HighVolatility
)

func (r RegimeLabel) String() string {
	switch r {
	case HighVolatility:
		return "High Volatility"
	case LowVolatility:
		return "Low Volatility"
	default:
		return ""
	}
}

func (r RegimeLabel) MarshalText() ([]byte, error) {
	s := r.String()
	if s == "" {
		return nil, fmt.Errorf("unknown regime label %d", int(r))
	}
	return []byte(s), nil
}

func (r *RegimeLabel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "High Volatility":
		*r = HighVolatility
	case "Low Volatility":
		*r = LowVolatility
	default:
		return fmt.Errorf("unknown regime label %q", string(text))
	}
	return nil
}

// RegimeStat aggregates the returns that fell into one regime.
// StdReturn is null when fewer than two returns were observed.
type RegimeStat struct {
	MeanReturn  float64    `json:"meanReturn"`
	StdReturn   null.Float `json:"stdReturn"`
	SampleCount int        `json:"sampleCount"`
}

type RegimeStats map[RegimeLabel]RegimeStat

// RollingVolatility only holds points where the trailing window was full
type RollingVolatility struct {
	Values []float64     `json:"values"`
	Dates  []time.Time   `json:"dates"`
	Labels []RegimeLabel `json:"labels"`
}

type RegimeAnalysis struct {
	WindowSize        int               `json:"windowSize"`
	Threshold         null.Float        `json:"threshold"`
	RollingVolatility RollingVolatility `json:"rollingVolatility"`
	Stats             RegimeStats       `json:"stats"`
}

type StressPoint struct {
	Index    int       `json:"index"`
	Date     time.Time `json:"date"`
	Drawdown float64   `json:"drawdown"`
}

// StressWindow lists drawdown points below the severity threshold, in series order
type StressWindow struct {
	Threshold float64       `json:"threshold"`
	Points    []StressPoint `json:"points"`
}

func (sw StressWindow) Days() int {
	return len(sw.Points)
}
