package anomaly

import (
	"math"
	"testing"
	"time"

	"github.com/enescosk/akillisayac/consumption"
	"github.com/enescosk/akillisayac/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSingleSpike(t *testing.T) {
	// mean=2, population stddev=4, z(10)=2.0 which reaches the threshold
	y := []float64{0, 0, 0, 10, 0}
	mask := Detect(y, 2.0)

	assert.Equal(t, Mask{false, false, false, true, false}, mask)
	assert.Equal(t, 1, mask.NumAnomalies())
}

func TestDetectConstantSeries(t *testing.T) {
	y := []float64{5, 5, 5, 5, 5}
	for _, threshold := range []float64{0.1, 1.0, 2.0, 100.0} {
		mask := Detect(y, threshold)
		assert.Equal(t, 0, mask.NumAnomalies(), "threshold %f", threshold)
	}
}

func TestDetectThresholdMonotonicity(t *testing.T) {
	y := []float64{1, 2, 3, 2, 1, 9, 2, 3, 1, 2, 15, 2, 1, 3, 2}

	last := len(y) + 1
	for _, threshold := range []float64{0.5, 1.0, 1.5, 2.0, 3.0} {
		n := Detect(y, threshold).NumAnomalies()
		assert.LessOrEqual(t, n, last, "threshold %f", threshold)
		last = n
	}

	assert.Equal(t, 0, Detect(y, math.Inf(1)).NumAnomalies())
}

func TestDetectPure(t *testing.T) {
	y := []float64{1, 5, 2, 8, 3}
	assert.Equal(t, Detect(y, 1.5), Detect(y, 1.5))
}

func TestScoresNaN(t *testing.T) {
	y := []float64{1, math.NaN(), 3}
	scores := Scores(y)
	require.Len(t, scores, 3)
	assert.True(t, math.IsNaN(scores[1]))
	assert.False(t, math.IsNaN(scores[0]))

	mask := Detect(y, 0.5)
	assert.False(t, mask[1])
}

func TestDetectCollection(t *testing.T) {
	grid := timedataset.HourlyRange(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 168)
	c, err := consumption.NewGenerator(nil).Generate([]string{"Ankara", "Izmir"}, grid, nil)
	require.NoError(t, err)

	masks := DetectCollection(c, DefaultThreshold)
	require.Len(t, masks, 2)
	for name, mask := range masks {
		assert.Len(t, mask, 168, name)
	}

	// per-region statistics: an offset region has no extra anomalies
	shifted := make([]float64, 168)
	copy(shifted, c.Values["Ankara"])
	for i := range shifted {
		shifted[i] += 1000.0
	}
	c.Values["Izmir"] = shifted
	masksShifted := DetectCollection(c, DefaultThreshold)
	assert.Equal(t, masks["Ankara"], masksShifted["Izmir"])
}
