package consumption

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/enescosk/akillisayac/timedataset"
)

var ErrCollectionSchema = errors.New("consumption file does not match the timestamp,region... schema")

// WriteCSV writes the collection in the wide cache format: a timestamp column
// followed by one column per region, one row per hour.
func (c *Collection) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"timestamp"}, c.Names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("unable to write consumption header, %w", err)
	}

	row := make([]string, len(header))
	for i, tPnt := range c.T {
		row[0] = tPnt.Format(time.RFC3339)
		for j, name := range c.Names {
			row[j+1] = strconv.FormatFloat(c.Values[name][i], 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("unable to write consumption row %d, %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a collection previously written with WriteCSV. The time
// index is validated as a gap-free hourly grid.
func ReadCSV(r io.Reader) (*Collection, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read consumption header, %w", err)
	}
	if len(header) < 2 || header[0] != "timestamp" {
		return nil, fmt.Errorf("got header %v, %w", header, ErrCollectionSchema)
	}
	names := header[1:]

	c := &Collection{
		Names:  names,
		Values: make(map[string][]float64, len(names)),
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read consumption row, %w", err)
		}

		tPnt, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d has a bad timestamp %q, %w", len(c.T)+1, record[0], ErrCollectionSchema)
		}
		c.T = append(c.T, tPnt)

		for j, name := range names {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q is non-numeric, %w", len(c.T), name, ErrCollectionSchema)
			}
			c.Values[name] = append(c.Values[name], val)
		}
	}

	if freq, err := timedataset.TimeSlice(c.T).EstimateFreq(); err == nil && freq != time.Hour {
		return nil, fmt.Errorf("estimated frequency of %s, %w", freq, timedataset.ErrNotHourly)
	}
	if err := timedataset.CheckHourly(c.T); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveFile writes the collection cache to disk.
func (c *Collection) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create consumption file, %w", err)
	}
	defer f.Close()
	return c.WriteCSV(f)
}

// LoadFile reads a collection cache from disk.
func LoadFile(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open consumption file, %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
