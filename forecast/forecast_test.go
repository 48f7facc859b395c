package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/enescosk/akillisayac/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	// one week of hourly data following a daily sine wave
	hours := 7 * 24
	bias := 100.0
	amp := 20.0

	tWin := timedataset.HourlyRange(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), hours)
	y := make([]float64, 0, hours)
	for i := 0; i < hours; i++ {
		h := float64(tWin[i].Hour())
		y = append(y, bias+amp*math.Sin(2.0*math.Pi*h/24.0))
	}

	opt := NewDefaultOptions()
	opt.DailyOrders = 3
	opt.WeeklyOrders = 0
	opt.LinearGrowth = false

	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tWin, y))

	assert.InDelta(t, bias, f.Intercept(), 0.5)

	coef, err := f.Coefficients()
	require.NoError(t, err)
	assert.InDelta(t, amp, coef["seas_hod_01_sin"], 0.5)

	scores := f.Scores()
	assert.Less(t, scores.MSE, 0.01)
	assert.Greater(t, scores.R2, 0.99)
}

func TestFitInsufficientData(t *testing.T) {
	now := time.Now().Truncate(time.Hour)
	tWin := []time.Time{now, now.Add(time.Hour), now.Add(2 * time.Hour)}
	y := []float64{math.NaN(), 1.0, math.NaN()}

	f, err := New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Fit(tWin, y), ErrInsufficientTrainingData)
}

func TestPredictUntrained(t *testing.T) {
	f, err := New(nil)
	require.NoError(t, err)

	_, _, predictErr := f.Predict([]time.Time{time.Now()})
	assert.ErrorIs(t, predictErr, ErrUntrainedForecast)
}

func TestPredictHorizon(t *testing.T) {
	hours := 10 * 24
	tWin := timedataset.HourlyRange(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), hours)
	y := make([]float64, 0, hours)
	for i := 0; i < hours; i++ {
		h := float64(tWin[i].Hour())
		y = append(y, 100.0+20.0*math.Sin(2.0*math.Pi*h/24.0)+10.0*math.Sin(4.0*math.Pi*h/24.0))
	}

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tWin, y))

	horizon := timedataset.HorizonRange(tWin[len(tWin)-1], 72)
	predicted, comp, err := f.Predict(horizon)
	require.NoError(t, err)
	require.Len(t, predicted, 72)
	require.Len(t, comp.Seasonality, 72)

	// the daily pattern should repeat on the horizon
	for i, tPnt := range horizon {
		h := float64(tPnt.Hour())
		expected := 100.0 + 20.0*math.Sin(2.0*math.Pi*h/24.0) + 10.0*math.Sin(4.0*math.Pi*h/24.0)
		assert.InDelta(t, expected, predicted[i], 1.0, "index %d", i)
	}
}

func TestFitSkipsNaN(t *testing.T) {
	hours := 7 * 24
	tWin := timedataset.HourlyRange(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), hours)
	y := make([]float64, 0, hours)
	for i := 0; i < hours; i++ {
		h := float64(tWin[i].Hour())
		y = append(y, 50.0+5.0*math.Sin(2.0*math.Pi*h/24.0))
	}
	y[10] = math.NaN()
	y[50] = math.NaN()

	f, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tWin, y))

	res := f.Residuals()
	require.Len(t, res, hours)
	assert.True(t, math.IsNaN(res[10]))
	assert.False(t, math.IsNaN(res[11]))
}

func TestCivilTimeFeatures(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	hours := 7 * 24
	tWin := timedataset.HourlyRange(time.Date(2024, 1, 8, 0, 0, 0, 0, loc), hours)
	// peak at 19:00 local regardless of the UTC offset
	y := make([]float64, 0, hours)
	for i := 0; i < hours; i++ {
		h := float64(tWin[i].In(loc).Hour())
		y = append(y, 100.0+20.0*math.Cos(2.0*math.Pi*(h-19.0)/24.0))
	}

	opt := NewDefaultOptions()
	opt.Location = loc

	f, err := New(opt)
	require.NoError(t, err)
	require.NoError(t, f.Fit(tWin, y))

	horizon := timedataset.HorizonRange(tWin[len(tWin)-1], 24)
	predicted, _, err := f.Predict(horizon)
	require.NoError(t, err)

	maxIdx := 0
	for i, v := range predicted {
		if v > predicted[maxIdx] {
			maxIdx = i
		}
	}
	assert.Equal(t, 19, horizon[maxIdx].In(loc).Hour())
}
