package models

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

// Table is the raw tabular input handed over by a loader: a header and rows of
// unparsed cells. Rows shorter than the header are treated as having empty cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

var missingMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"-":    {},
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Cell returns the trimmed value at (row, col), empty if the row is ragged
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// IsMissing reports whether a cell holds one of the usual missing value markers
func IsMissing(cell string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// ParseFloatCell converts a cell into a nullable float. Missing markers give an
// invalid value, anything else that fails to parse reports ok=false. Commas are
// accepted only as thousands separators.
func ParseFloatCell(cell string) (value null.Float, ok bool) {
	if IsMissing(cell) {
		return null.Float{}, true
	}

	cell = strings.TrimSpace(cell)
	if strings.Contains(cell, ",") {
		// only well formed thousands groups, "1,5" may be a decimal comma
		if !thousandsGrouped.MatchString(cell) {
			return null.Float{}, false
		}
		cell = strings.ReplaceAll(cell, ",", "")
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return null.Float{}, false
	}

	return null.FloatFrom(f), true
}
