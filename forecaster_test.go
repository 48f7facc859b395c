package akillisayac

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/enescosk/akillisayac/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSeries builds four weeks of hourly consumption with a two harmonic
// daily shape and light gaussian noise.
func setupSeries() ([]time.Time, []float64) {
	n := 4 * 7 * 24
	t := timedataset.HourlyRange(time.Date(2024, 1, 28, 23, 0, 0, 0, time.UTC), n)

	rnd := rand.New(rand.NewPCG(11, 12))
	y := make([]float64, n)
	for i := range y {
		h := float64(t[i].Hour())
		y[i] = 100.0 +
			20.0*math.Sin(2.0*math.Pi*h/24.0) +
			10.0*math.Sin(4.0*math.Pi*h/24.0) +
			rnd.NormFloat64()
	}
	return t, y
}

func setupWithOutliers() ([]time.Time, []float64) {
	t, y := setupSeries()
	y[100] += 120.0
	y[300] += 150.0
	y[500] -= 90.0
	return t, y
}

func TestForecasterFit(t *testing.T) {
	tt, y := setupSeries()

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tt, y))

	scores := f.SeriesScores()
	assert.Greater(t, scores.R2, 0.95)
	assert.Less(t, scores.MAPE, 0.05)

	assert.Len(t, f.Residuals(), len(y))
	assert.Equal(t, len(y), f.TrainingData().Len())
}

func TestForecasterForecast(t *testing.T) {
	tt, y := setupSeries()

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tt, y))

	tb, err := f.Forecast(DefaultHorizon)
	require.NoError(t, err)
	require.NoError(t, tb.Validate())
	require.Equal(t, len(y)+DefaultHorizon, tb.Len())

	// the full table is one contiguous hourly grid extending the history
	assert.NoError(t, timedataset.CheckHourly(tb.T))
	assert.True(t, tb.T[len(y)].Equal(tt[len(y)-1].Add(time.Hour)))

	for i := range tb.T {
		assert.GreaterOrEqual(t, tb.Upper[i], tb.Forecast[i], "index %d", i)
		assert.LessOrEqual(t, tb.Lower[i], tb.Forecast[i], "index %d", i)
	}

	// horizon predictions stay within the daily shape's range
	for i := len(y); i < tb.Len(); i++ {
		assert.InDelta(t, 100.0, tb.Forecast[i], 40.0, "index %d", i)
	}
}

func TestForecasterOutlierMasking(t *testing.T) {
	tt, y := setupWithOutliers()

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tt, y))

	// the spikes are masked out of the fit so the prediction does not chase them
	tb, err := f.Predict(tt)
	require.NoError(t, err)
	assert.Greater(t, y[100]-tb.Forecast[100], 80.0)
	assert.Greater(t, y[300]-tb.Forecast[300], 100.0)
	assert.Less(t, y[500]-tb.Forecast[500], -50.0)

	// masked observations carry a NaN residual
	residual := f.Residuals()
	assert.True(t, math.IsNaN(residual[100]))
}

func TestForecasterFaults(t *testing.T) {
	tt, y := setupSeries()

	unfit, err := New(nil)
	require.NoError(t, err)

	_, err = unfit.Predict(tt)
	assert.ErrorIs(t, err, ErrUntrainedForecaster)
	_, err = unfit.Forecast(DefaultHorizon)
	assert.ErrorIs(t, err, ErrUntrainedForecaster)

	fit, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, fit.Fit(tt, y))
	_, err = fit.Forecast(0)
	assert.ErrorIs(t, err, ErrNegativeHorizon)

	gapped := append([]time.Time{}, tt...)
	gapped[10] = gapped[10].Add(30 * time.Minute)
	assert.ErrorIs(t, fit.Fit(gapped, y), timedataset.ErrNotHourly)

	_, err = ForecastSeries(nil, DefaultHorizon, nil)
	assert.ErrorIs(t, err, ErrEmptyTimeDataset)
}

func TestForecastSeries(t *testing.T) {
	tt, y := setupSeries()
	td, err := timedataset.NewHourlyDataset(tt, y)
	require.NoError(t, err)

	tb, err := ForecastSeries(td, 24, nil)
	require.NoError(t, err)
	assert.Equal(t, len(y)+24, tb.Len())

	// independent fits on the same input produce the same table
	tb2, err := ForecastSeries(td, 24, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, tb.Forecast, tb2.Forecast, 1e-9)
	assert.InDeltaSlice(t, tb.Upper, tb2.Upper, 1e-9)
}
