// Package anomaly flags statistically unusual readings in consumption series
// using z-score thresholding against each series' own history.
package anomaly

import (
	"math"

	"github.com/enescosk/akillisayac/consumption"
)

// DefaultThreshold is the absolute z-score above which a reading is flagged.
const DefaultThreshold = 2.0

// Mask is parallel to a series, true where the observation is anomalous. It
// is derived data; recompute it whenever the source series changes.
type Mask []bool

// NumAnomalies returns the count of flagged observations.
func (m Mask) NumAnomalies() int {
	var n int
	for _, flagged := range m {
		if flagged {
			n++
		}
	}
	return n
}

// Scores returns the z-score of every observation: (y - mean) / stddev over
// the full window, using the population standard deviation. A constant series
// yields all zero scores rather than a fault. NaN inputs score NaN.
func Scores(y []float64) []float64 {
	mean, stddev := meanStddev(y)

	scores := make([]float64, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			scores[i] = math.NaN()
			continue
		}
		if stddev == 0 {
			scores[i] = 0
			continue
		}
		scores[i] = (v - mean) / stddev
	}
	return scores
}

// Detect flags every observation whose absolute z-score reaches the
// threshold. A zero-variance series has no deviation by construction and
// returns an all-false mask. The call is pure; identical input produces an
// identical mask.
func Detect(y []float64, threshold float64) Mask {
	scores := Scores(y)
	mask := make(Mask, len(y))
	for i, z := range scores {
		if math.IsNaN(z) {
			continue
		}
		mask[i] = math.Abs(z) >= threshold
	}
	return mask
}

// DetectCollection computes one mask per region, each against its own
// statistics. Regions are never compared with each other.
func DetectCollection(c *consumption.Collection, threshold float64) map[string]Mask {
	if c == nil {
		return nil
	}
	masks := make(map[string]Mask, len(c.Names))
	for _, name := range c.Names {
		masks[name] = Detect(c.Values[name], threshold)
	}
	return masks
}

func meanStddev(y []float64) (float64, float64) {
	var sum float64
	var n int
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), 0
	}
	mean := sum / float64(n)

	var sqsum float64
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		sqsum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sqsum / float64(n))
}
