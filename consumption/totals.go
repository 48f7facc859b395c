package consumption

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrTotalsSchema   = errors.New("yearly totals file does not match the region,total_mwh schema")
	ErrNegativeTotal  = errors.New("yearly total must be positive")
	ErrDuplicateTotal = errors.New("duplicate region in yearly totals")
)

const hoursInYear = 365 * 24

// YearlyTotals is an immutable lookup of expected annual consumption in kWh
// keyed by the normalized region name. It is built once by the caller and
// passed explicitly into the generator.
type YearlyTotals map[string]float64

// NewYearlyTotals builds a lookup from raw region names to kWh totals,
// normalizing the names.
func NewYearlyTotals(totals map[string]float64) YearlyTotals {
	res := make(YearlyTotals, len(totals))
	for name, kwh := range totals {
		res[Normalize(name)] = kwh
	}
	return res
}

// Get returns the yearly kWh total for a region name in any diacritic/case
// spelling.
func (yt YearlyTotals) Get(name string) (float64, bool) {
	if yt == nil {
		return 0, false
	}
	total, ok := yt[Normalize(name)]
	return total, ok
}

// WindowTotal scales the yearly total down to a window of h hours.
func (yt YearlyTotals) WindowTotal(name string, h int) (float64, bool) {
	total, ok := yt.Get(name)
	if !ok || total <= 0 {
		return 0, false
	}
	return total * float64(h) / float64(hoursInYear), true
}

// ReadYearlyTotals parses a yearly totals table. The schema contract is two
// named columns, "region" and "total_mwh"; anything else is a fault rather
// than a positional guess. Values are converted from MWh to kWh.
func ReadYearlyTotals(r io.Reader) (YearlyTotals, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read yearly totals header, %w", err)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "region") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "total_mwh") {
		return nil, fmt.Errorf("got header %v, %w", header, ErrTotalsSchema)
	}

	totals := make(YearlyTotals)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read yearly totals row, %w", err)
		}
		line++

		name := Normalize(record[0])
		mwh, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d has a non-numeric total %q, %w", line, record[1], ErrTotalsSchema)
		}
		if mwh <= 0 {
			return nil, fmt.Errorf("row %d, %w", line, ErrNegativeTotal)
		}
		if _, exists := totals[name]; exists {
			return nil, fmt.Errorf("row %d region %q, %w", line, record[0], ErrDuplicateTotal)
		}
		totals[name] = mwh * 1000.0
	}
	return totals, nil
}

// LoadYearlyTotals reads a yearly totals CSV from disk. A missing file is not
// a fault; rescaling is simply skipped when no totals are supplied.
func LoadYearlyTotals(path string) (YearlyTotals, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to open yearly totals file, %w", err)
	}
	defer f.Close()
	return ReadYearlyTotals(f)
}
