package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
)

const (
	DefaultRollingWindow   = Daily
	DefaultStressThreshold = -0.30
	DefaultNumSimulations  = 1_000
	MinNumSimulations      = 100
	MaxNumSimulations      = 5_000
	MaxHorizonDays         = 10 * Daily
	DefaultAssetLabel      = "Equal-Weighted Portfolio"
)

// DefaultHorizons returns a fresh copy of the default forecast horizons
func DefaultHorizons() []int {
	return []int{NextDay, NextMonth, NextYear, NextFiveYears}
}

// AnalysisRequestSettings will be the request from the caller to the analysis controller.
// Zero values fall back to defaults through WithDefaults.
type AnalysisRequestSettings struct {
	StartDate    time.Time `json:"startDate" yaml:"start_date"`
	EndDate      time.Time `json:"endDate" yaml:"end_date"`
	PriceColumns []string  `json:"priceColumns" yaml:"price_columns"`

	RollingWindow   int     `json:"rollingWindow" yaml:"rolling_window"`
	StressThreshold float64 `json:"stressThreshold" yaml:"stress_threshold"`

	Horizons       []int    `json:"horizons" yaml:"horizons"`
	NumSimulations int      `json:"numSimulations" yaml:"num_simulations"`
	Seed           null.Int `json:"seed" yaml:"-"`
}

// WithDefaults fills unset fields. A zero stress threshold is treated as unset,
// a threshold of zero would flag nothing anyway since drawdowns are never positive.
func (s AnalysisRequestSettings) WithDefaults() AnalysisRequestSettings {
	if s.RollingWindow == 0 {
		s.RollingWindow = DefaultRollingWindow
	}
	if s.StressThreshold == 0 {
		s.StressThreshold = DefaultStressThreshold
	}
	if len(s.Horizons) == 0 {
		s.Horizons = DefaultHorizons()
	}
	if s.NumSimulations == 0 {
		s.NumSimulations = DefaultNumSimulations
	}
	return s
}

// Validate checks ranges, it does not apply defaults
func (s AnalysisRequestSettings) Validate() error {
	if s.RollingWindow < 2 {
		return fmt.Errorf("rolling window must be at least 2, got %d", s.RollingWindow)
	}
	if math.IsNaN(s.StressThreshold) || s.StressThreshold < -1 || s.StressThreshold > 0 {
		return fmt.Errorf("stress threshold must be within [-1, 0], got %v", s.StressThreshold)
	}
	if s.NumSimulations < MinNumSimulations || s.NumSimulations > MaxNumSimulations {
		return fmt.Errorf("number of simulations must be within [%d, %d], got %d", MinNumSimulations, MaxNumSimulations, s.NumSimulations)
	}
	for _, h := range s.Horizons {
		if h <= 0 || h > MaxHorizonDays {
			return fmt.Errorf("forecast horizons must be within [1, %d], got %d", MaxHorizonDays, h)
		}
	}
	if !s.StartDate.IsZero() && !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("analysis window ends (%s) before it starts (%s)", s.EndDate.Format(time.DateOnly), s.StartDate.Format(time.DateOnly))
	}
	return nil
}

// SimulationSettingsResources describes the defaults and valid ranges to a front end
type SimulationSettingsResources struct {
	Horizons        map[string]int `json:"horizons"`
	NumSimulations  map[string]int `json:"numSimulations"`
	MaxHorizonDays  int            `json:"maxHorizonDays"`
	RollingWindow   int            `json:"rollingWindow"`
	StressThreshold float64        `json:"stressThreshold"`
}

// GetSimulationSettingsResources will return the simulation settings resources.
func GetSimulationSettingsResources() SimulationSettingsResources {
	horizons := make(map[string]int, 4)
	for _, h := range DefaultHorizons() {
		horizons[HorizonLabel(h)] = h
	}

	return SimulationSettingsResources{
		Horizons: horizons,
		NumSimulations: map[string]int{
			"min":     MinNumSimulations,
			"max":     MaxNumSimulations,
			"default": DefaultNumSimulations,
		},
		MaxHorizonDays:  MaxHorizonDays,
		RollingWindow:   DefaultRollingWindow,
		StressThreshold: DefaultStressThreshold,
	}
}

func formatTradingDays(days int) string {
	if days == 1 {
		return "Next 1 trading day"
	}
	return "Next " + strconv.Itoa(days) + " trading days"
}
