// Package stats provides the statistical helpers shared by the anomaly
// detector and the forecaster's outlier and uncertainty handling.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var ErrWindowTooLarge = errors.New("window is larger than the input series")

// DetectOutliers returns the indexes of values falling outside the Tukey
// fences placed around the given percentile range.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)) * upperPerc))
	if upperIdx >= len(yCopy) {
		upperIdx = len(yCopy) - 1
	}

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] >= upper || y[i] <= lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// RollingStdDev computes the sample standard deviation over a sliding window
// of the input. The result has len(y)-window+1 points.
func RollingStdDev(y []float64, window int) ([]float64, error) {
	if window > len(y) {
		return nil, ErrWindowTooLarge
	}
	numWindows := len(y) - window + 1
	res := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		_, stddev := stat.MeanStdDev(y[i:i+window], nil)
		res[i] = stddev
	}
	return res, nil
}
