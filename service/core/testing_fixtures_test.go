package core

import (
	"math"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
)

var fixtureStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Helper: build a price series from plain prices, one calendar day apart
func seriesFromPrices(t *testing.T, prices ...float64) dm.PriceSeries {
	t.Helper()
	res := dm.PriceSeries{Name: "TEST", Observations: make([]dm.Observation, len(prices))}
	for i, p := range prices {
		res.Observations[i] = dm.Observation{Timestamp: fixtureStart.AddDate(0, 0, i), Price: p}
	}
	return res
}

// Helper: geometric random walk table with a date column and the given price columns
func generateMockTable(t *testing.T, nRows int, columns ...string) *dm.Table {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 0))

	table := &dm.Table{Columns: append([]string{"Date"}, columns...)}
	prices := make([]float64, len(columns))
	for i := range prices {
		prices[i] = 100 * float64(i+1)
	}

	for row := range nRows {
		cells := []string{fixtureStart.AddDate(0, 0, row).Format(time.DateOnly)}
		for i := range prices {
			prices[i] *= math.Exp(0.0003 + 0.012*rng.NormFloat64())
			cells = append(cells, strconv.FormatFloat(prices[i], 'f', 6, 64))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
