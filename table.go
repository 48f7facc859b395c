package akillisayac

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrMissingForecastFields = errors.New("missing required forecast fields")
	ErrTableLenMismatch      = errors.New("forecast table columns have different lengths")
)

// Table is the forecast output covering the historical window plus the
// forward horizon: one row per timestamp with the point estimate and the
// uncertainty bounds. A table is created fresh per forecast invocation and
// never cached or merged across regions.
type Table struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Lower    []float64   `json:"lower"`
	Upper    []float64   `json:"upper"`
}

// Validate confirms the table carries the timestamp and point estimate
// columns with consistent lengths.
func (tb *Table) Validate() error {
	if tb == nil || len(tb.T) == 0 || len(tb.Forecast) == 0 {
		return ErrMissingForecastFields
	}
	if len(tb.T) != len(tb.Forecast) {
		return fmt.Errorf("%d timestamps and %d estimates, %w", len(tb.T), len(tb.Forecast), ErrTableLenMismatch)
	}
	if (len(tb.Lower) != 0 && len(tb.Lower) != len(tb.T)) ||
		(len(tb.Upper) != 0 && len(tb.Upper) != len(tb.T)) {
		return fmt.Errorf("bound columns do not match %d rows, %w", len(tb.T), ErrTableLenMismatch)
	}
	return nil
}

// Len returns the number of rows.
func (tb *Table) Len() int {
	if tb == nil {
		return 0
	}
	return len(tb.T)
}

// WriteCSV writes the table for export with one row per timestamp.
func (tb *Table) WriteCSV(w io.Writer) error {
	if err := tb.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "forecast", "lower", "upper"}); err != nil {
		return fmt.Errorf("unable to write forecast header, %w", err)
	}

	row := make([]string, 4)
	for i := range tb.T {
		row[0] = tb.T[i].Format(time.RFC3339)
		row[1] = strconv.FormatFloat(tb.Forecast[i], 'f', -1, 64)
		row[2], row[3] = "", ""
		if len(tb.Lower) > i {
			row[2] = strconv.FormatFloat(tb.Lower[i], 'f', -1, 64)
		}
		if len(tb.Upper) > i {
			row[3] = strconv.FormatFloat(tb.Upper[i], 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("unable to write forecast row %d, %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to disk.
func (tb *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create forecast file, %w", err)
	}
	defer f.Close()
	return tb.WriteCSV(f)
}

// JSON returns the serialized table.
func (tb *Table) JSON() ([]byte, error) {
	if err := tb.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(tb)
}
