package recommend

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forecastWithPeak builds a 72 hour forecast whose hourly profile peaks at the
// given civil hour and bottoms out 12 hours opposite.
func forecastWithPeak(peakHour int, n int) ([]time.Time, []float64) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t := make([]time.Time, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		t[i] = start.Add(time.Duration(i) * time.Hour)
		if t[i].Hour() == peakHour {
			y[i] = 100.0
		} else {
			y[i] = 50.0
		}
	}
	return t, y
}

func TestSuggestEveningPeak(t *testing.T) {
	tt, y := forecastWithPeak(19, 72)
	got, err := Suggest(tt, y, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// the peak window 18:00-20:00 shows up in the evening cook template
	joined := strings.Join(got, " ")
	assert.Contains(t, joined, "18:00-20:00")
}

func TestSuggestCategories(t *testing.T) {
	testData := map[string]struct {
		peakHour int
		want     string
		avoid    string
	}{
		"morning": {
			peakHour: 8,
			want:     "morning",
			avoid:    "Cook dinner",
		},
		"midday": {
			peakHour: 13,
			want:     "midday",
			avoid:    "Cook dinner",
		},
		"evening": {
			peakHour: 20,
			want:     "peak window",
			avoid:    "pre-cooling",
		},
		"night": {
			peakHour: 2,
			want:     "",
			avoid:    "Cook dinner",
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tt, y := forecastWithPeak(td.peakHour, 72)
			opt := NewDefaultOptions()
			opt.Rand = rand.New(rand.NewPCG(1, 2))
			got, err := Suggest(tt, y, opt)
			require.NoError(t, err)
			require.Len(t, got, 2)

			joined := strings.Join(got, " ")
			if td.want != "" {
				assert.Contains(t, joined, td.want)
			}
			assert.NotContains(t, joined, td.avoid)
		})
	}
}

func TestSuggestReproducible(t *testing.T) {
	tt, y := forecastWithPeak(13, 72)

	opt1 := NewDefaultOptions()
	opt1.Rand = rand.New(rand.NewPCG(7, 7))
	got1, err := Suggest(tt, y, opt1)
	require.NoError(t, err)

	opt2 := NewDefaultOptions()
	opt2.Rand = rand.New(rand.NewPCG(7, 7))
	got2, err := Suggest(tt, y, opt2)
	require.NoError(t, err)

	assert.Equal(t, got1, got2)
}

func TestSuggestRatioCallout(t *testing.T) {
	// peak is 10x the off-peak level so the ratio callout joins the pool
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tt := make([]time.Time, 72)
	y := make([]float64, 72)
	for i := range tt {
		tt[i] = start.Add(time.Duration(i) * time.Hour)
		if tt[i].Hour() == 19 {
			y[i] = 100.0
		} else {
			y[i] = 10.0
		}
	}

	opt := NewDefaultOptions()
	opt.Region = "Ankara"
	opt.NumSuggestions = 3
	opt.Rand = rand.New(rand.NewPCG(3, 4))
	got, err := Suggest(tt, y, opt)
	require.NoError(t, err)
	require.Len(t, got, 3)

	joined := strings.Join(got, " ")
	assert.Contains(t, joined, "in Ankara")
	assert.Contains(t, joined, "10.0x")
}

func TestSuggestTrendCallout(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tt := make([]time.Time, 72)
	y := make([]float64, 72)
	for i := range tt {
		tt[i] = start.Add(time.Duration(i) * time.Hour)
		y[i] = 50.0 + float64(i) // rises roughly 100% across the window
	}

	opt := NewDefaultOptions()
	opt.NumSuggestions = 3
	opt.Rand = rand.New(rand.NewPCG(5, 6))
	got, err := Suggest(tt, y, opt)
	require.NoError(t, err)

	assert.Contains(t, strings.Join(got, " "), "trending up")
}

func TestSuggestCivilHours(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	// peak at 16:00 UTC is 19:00 in Istanbul so the evening pool applies
	tt, y := forecastWithPeak(16, 72)
	opt := NewDefaultOptions()
	opt.Location = loc
	opt.Rand = rand.New(rand.NewPCG(1, 1))
	got, err := Suggest(tt, y, opt)
	require.NoError(t, err)

	joined := strings.Join(got, " ")
	assert.NotContains(t, joined, "pre-cooling")
	assert.True(t,
		strings.Contains(joined, "18:00-20:00") || strings.Contains(joined, "overnight"),
		"expected evening wording, got %q", joined)
}

func TestSuggestFaults(t *testing.T) {
	tt, y := forecastWithPeak(12, 24)
	allNaN := make([]float64, len(tt))
	for i := range allNaN {
		allNaN[i] = math.NaN()
	}
	testData := map[string]struct {
		t   []time.Time
		y   []float64
		err error
	}{
		"no rows": {
			t:   nil,
			y:   nil,
			err: ErrMissingForecastFields,
		},
		"no estimates": {
			t:   tt,
			y:   nil,
			err: ErrMissingForecastFields,
		},
		"length mismatch": {
			t:   tt,
			y:   y[:12],
			err: ErrForecastLenMismatch,
		},
		"no finite estimates": {
			t:   tt,
			y:   allNaN,
			err: ErrMissingForecastFields,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Suggest(td.t, td.y, nil)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestSuggestFewerTemplatesThanRequested(t *testing.T) {
	tt, y := forecastWithPeak(13, 24)
	opt := NewDefaultOptions()
	opt.NumSuggestions = 10
	opt.Rand = rand.New(rand.NewPCG(2, 2))
	got, err := Suggest(tt, y, opt)
	require.NoError(t, err)

	// only the two midday templates are eligible
	assert.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
}
