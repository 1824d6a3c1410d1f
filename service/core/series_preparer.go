package core

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	ex "github.com/jamshidfarook/Geenie-Risk-Engine/data/extensions"
	dm "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

const DateColumnThreshold = 0.5

var dateFormats = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"02 Jan 2006",
}

// ColumnPredicate reports whether a single cell satisfies a detection rule
type ColumnPredicate func(cell string) bool

// ColumnDetector picks a column of a table, ok is false if none qualifies
type ColumnDetector interface {
	Detect(table *dm.Table, exclude ...int) (col int, ok bool)
}

// FractionDetector selects the first column where strictly more than Threshold
// of the rows satisfy Predicate.
type FractionDetector struct {
	Predicate ColumnPredicate
	Threshold float64
}

func (fd FractionDetector) Detect(table *dm.Table, exclude ...int) (int, bool) {
	nRows := table.NumRows()
	for col := range len(table.Columns) {
		if slices.Contains(exclude, col) {
			continue
		}

		hits := 0
		for row := range nRows {
			if fd.Predicate(table.Cell(row, col)) {
				hits++
			}
		}

		if float64(hits) > float64(nRows)*fd.Threshold {
			return col, true
		}
	}
	return -1, false
}

// DateColumnDetector is the default date detection strategy
func DateColumnDetector() ColumnDetector {
	return FractionDetector{
		Predicate: func(cell string) bool {
			_, err := parseDate(cell)
			return err == nil
		},
		Threshold: DateColumnThreshold,
	}
}

// PrepareOptions narrows the table down to the analysed series.
// Zero start/end dates leave that side of the window open.
type PrepareOptions struct {
	PriceColumns []string
	StartDate    time.Time
	EndDate      time.Time
	DateDetector ColumnDetector
}

type preparedRow struct {
	timestamp time.Time
	values    []null.Float
}

// PrepareSeries turns a raw table into a clean, date ordered PriceSeries
func PrepareSeries(table *dm.Table, opts PrepareOptions) (dm.PriceSeries, error) {
	if table == nil {
		return dm.PriceSeries{}, fmt.Errorf("%w: table is nil", ErrInvalidParameter)
	}

	detector := opts.DateDetector
	if detector == nil {
		detector = DateColumnDetector()
	}

	dateCol, ok := detector.Detect(table)
	if !ok {
		return dm.PriceSeries{}, ErrNoDateColumn
	}

	numericCols := DetectNumericColumns(table, dateCol)
	if len(numericCols) == 0 {
		return dm.PriceSeries{}, ErrNoPriceColumn
	}

	priceCols, err := selectPriceColumns(table, numericCols, opts.PriceColumns)
	if err != nil {
		return dm.PriceSeries{}, err
	}

	rows := collectRows(table, dateCol, priceCols)
	rows = sortAndDeduplicate(rows)
	rows = ex.FilterMultiple(rows, func(r preparedRow) bool {
		return inWindow(r.timestamp, opts.StartDate, opts.EndDate)
	})
	if len(rows) == 0 {
		return dm.PriceSeries{}, fmt.Errorf("%w: [%s, %s]", ErrEmptyWindow, fmtBound(opts.StartDate), fmtBound(opts.EndDate))
	}

	name := table.Columns[priceCols[0]]
	if len(priceCols) > 1 {
		name = sm.DefaultAssetLabel
	}

	observations := make([]dm.Observation, 0, len(rows))
	values := make([]float64, len(priceCols))
	for _, r := range rows {
		complete := true
		for i, v := range r.values {
			if !v.Valid {
				complete = false
				break
			}
			values[i] = v.Float64
		}
		if !complete {
			continue
		}

		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return dm.PriceSeries{}, fmt.Errorf("%w: %s on %s is %v", ErrInvalidPrice, table.Columns[priceCols[i]], ex.FmtShort(r.timestamp), v)
			}
		}

		observations = append(observations, dm.Observation{
			Timestamp: r.timestamp,
			Price:     stat.Mean(values, nil),
		})
	}

	if len(observations) < 2 {
		return dm.PriceSeries{}, fmt.Errorf("%w: %d complete rows for %s", ErrInsufficientData, len(observations), name)
	}

	return dm.PriceSeries{
		Name:         name,
		Observations: observations,
	}, nil
}

// DetectNumericColumns returns every column, other than the excluded ones, whose
// non-missing cells all parse as numbers and that holds at least one number.
func DetectNumericColumns(table *dm.Table, exclude ...int) []int {
	var res []int
	for col := range len(table.Columns) {
		if slices.Contains(exclude, col) {
			continue
		}

		numeric, seen := true, 0
		for row := range table.NumRows() {
			v, ok := dm.ParseFloatCell(table.Cell(row, col))
			if !ok {
				numeric = false
				break
			}
			if v.Valid {
				seen++
			}
		}

		if numeric && seen > 0 {
			res = append(res, col)
		}
	}
	return res
}

// Coverage describes the span of a prepared series
func Coverage(series dm.PriceSeries) dm.DatasetCoverage {
	if series.Len() == 0 {
		return dm.DatasetCoverage{}
	}
	return dm.DatasetCoverage{
		Observations: series.Len(),
		StartDate:    series.Observations[0].Timestamp,
		EndDate:      series.Last().Timestamp,
	}
}

func selectPriceColumns(table *dm.Table, numericCols []int, requested []string) ([]int, error) {
	if len(requested) == 0 {
		return numericCols, nil
	}

	res := make([]int, 0, len(requested))
	for _, name := range requested {
		idx := ex.FilterFirstIndex(numericCols, func(col int) bool {
			return ex.AreEqual(table.Columns[col], name)
		})
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q is not a numeric price column", ErrInvalidParameter, name)
		}
		if !slices.Contains(res, numericCols[idx]) {
			res = append(res, numericCols[idx])
		}
	}
	return res, nil
}

func collectRows(table *dm.Table, dateCol int, priceCols []int) []preparedRow {
	rows := make([]preparedRow, 0, table.NumRows())
	for row := range table.NumRows() {
		ts, err := parseDate(table.Cell(row, dateCol))
		if err != nil {
			continue
		}

		values := make([]null.Float, len(priceCols))
		for i, col := range priceCols {
			// numeric detection already guaranteed these parse
			values[i], _ = dm.ParseFloatCell(table.Cell(row, col))
		}

		rows = append(rows, preparedRow{timestamp: ts, values: values})
	}
	return rows
}

// sortAndDeduplicate orders rows by date, a repeated timestamp keeps its last row
func sortAndDeduplicate(rows []preparedRow) []preparedRow {
	slices.SortStableFunc(rows, func(a, b preparedRow) int {
		return a.timestamp.Compare(b.timestamp)
	})

	res := rows[:0]
	for _, r := range rows {
		if n := len(res); n > 0 && res[n-1].timestamp.Equal(r.timestamp) {
			res[n-1] = r
			continue
		}
		res = append(res, r)
	}
	return res
}

func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

func parseDate(dateString string) (time.Time, error) {
	if dm.IsMissing(dateString) {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, format := range dateFormats {
		t, err := time.ParseInLocation(format, dateString, time.UTC)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func fmtBound(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return ex.FmtShort(t)
}
