package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	s := AnalysisRequestSettings{NumSimulations: 300}.WithDefaults()

	assert.Equal(t, DefaultRollingWindow, s.RollingWindow)
	assert.Equal(t, DefaultStressThreshold, s.StressThreshold)
	assert.Equal(t, DefaultHorizons(), s.Horizons)
	assert.Equal(t, 300, s.NumSimulations)
	require.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	valid := AnalysisRequestSettings{}.WithDefaults()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := map[string]func(s *AnalysisRequestSettings){
		"window":      func(s *AnalysisRequestSettings) { s.RollingWindow = 1 },
		"threshold":   func(s *AnalysisRequestSettings) { s.StressThreshold = -1.5 },
		"positive":    func(s *AnalysisRequestSettings) { s.StressThreshold = 0.1 },
		"simulations": func(s *AnalysisRequestSettings) { s.NumSimulations = MaxNumSimulations + 1 },
		"horizon":     func(s *AnalysisRequestSettings) { s.Horizons = []int{21, 0} },
		"horizon cap": func(s *AnalysisRequestSettings) { s.Horizons = []int{21, MaxHorizonDays + 1} },
		"dates": func(s *AnalysisRequestSettings) {
			s.StartDate = start
			s.EndDate = start.AddDate(0, 0, -1)
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid
			s.Horizons = append([]int(nil), valid.Horizons...)
			mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestHorizonLabel(t *testing.T) {
	assert.Equal(t, "Next Day", HorizonLabel(NextDay))
	assert.Equal(t, "Next Month (~21 trading days)", HorizonLabel(NextMonth))
	assert.Equal(t, "Next Year (~252 trading days)", HorizonLabel(NextYear))
	assert.Equal(t, "Next 5 Years (~1260 trading days)", HorizonLabel(NextFiveYears))
	assert.Equal(t, "Next 10 trading days", HorizonLabel(10))
}

func TestGetSimulationSettingsResources(t *testing.T) {
	res := GetSimulationSettingsResources()

	assert.Len(t, res.Horizons, 4)
	assert.Equal(t, MinNumSimulations, res.NumSimulations["min"])
	assert.Equal(t, DefaultNumSimulations, res.NumSimulations["default"])
	assert.Equal(t, 10*Daily, res.MaxHorizonDays)
}
