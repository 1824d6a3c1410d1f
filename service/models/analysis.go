package models

import (
	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
)

// SimulationBand holds one value per simulated trading day for each percentile
type SimulationBand struct {
	P5  []float64 `json:"p5"`
	P50 []float64 `json:"p50"`
	P95 []float64 `json:"p95"`
}

func (b SimulationBand) Len() int {
	return len(b.P50)
}

// HorizonForecast is the band for one horizon plus its terminal values
type HorizonForecast struct {
	Label        string         `json:"label"`
	Days         int            `json:"days"`
	Band         SimulationBand `json:"band"`
	WorstCase    float64        `json:"worstCase"`
	ExpectedCase float64        `json:"expectedCase"`
	BestCase     float64        `json:"bestCase"`
}

// AnalysisResponse will be the response from the analysis controller and what is sent to the presentation layer
type AnalysisResponse struct {
	RunId          string             `json:"runId"`
	AssetName      string             `json:"assetName"`
	Seed           int64              `json:"seed"`
	NumSimulations int                `json:"numSimulations"`
	Coverage       dm.DatasetCoverage `json:"coverage"`
	LastPrice      float64            `json:"lastPrice"`
	RiskMetrics    dm.RiskMetrics     `json:"riskMetrics"`
	Drawdown       dm.DrawdownCurve   `json:"drawdown"`
	Regimes        dm.RegimeAnalysis  `json:"regimes"`
	Stress         dm.StressWindow    `json:"stress"`
	Forecasts      []HorizonForecast  `json:"forecasts"`
}
