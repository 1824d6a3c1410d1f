package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	m "github.com/jamshidfarook/Geenie-Risk-Engine/data/models"
)

// ReadCSV reads a header row followed by data rows into a Table.
// Ragged rows are accepted; blank lines are skipped by the csv reader.
func ReadCSV(reader io.Reader) (*m.Table, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv rows: %w", err)
	}

	return &m.Table{
		Columns: columns,
		Rows:    rows,
	}, nil
}

// ReadCSVFile opens path and reads it with ReadCSV
func ReadCSVFile(path string) (*m.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}

	return t, nil
}
