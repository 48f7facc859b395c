// Package timedataset holds the univariate time series containers shared by
// the consumption generator, anomaly detector, and forecaster.
package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrNotHourly          = errors.New("time feature is not a contiguous hourly grid")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time feature")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
// Timestamps must be strictly increasing.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// NewHourlyDataset behaves like NewUnivariateDataset but additionally requires
// the time feature to be a gap-free hourly grid.
func NewHourlyDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if err := CheckHourly(t); err != nil {
		return nil, err
	}
	return NewUnivariateDataset(t, y)
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Len returns the number of observations in the dataset.
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// CheckHourly validates that the input time slice advances in strict one hour
// steps with no duplicates and no gaps.
func CheckHourly(t []time.Time) error {
	for i := 1; i < len(t); i++ {
		if delta := t[i].Sub(t[i-1]); delta != time.Hour {
			return fmt.Errorf("step of %s at index %d, %w", delta, i, ErrNotHourly)
		}
	}
	return nil
}

// HourlyRange generates n contiguous hourly points ending at end truncated to
// the hour. The returned slice is ordered ascending.
func HourlyRange(end time.Time, n int) []time.Time {
	end = end.Truncate(time.Hour)
	start := end.Add(-time.Duration(n-1) * time.Hour)
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(time.Duration(i)*time.Hour))
	}
	return t
}

// HorizonRange extends last by n additional hourly points. The first returned
// point is one hour after last.
func HorizonRange(last time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		t = append(t, last.Add(time.Duration(i)*time.Hour))
	}
	return t
}
