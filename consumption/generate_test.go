package consumption

import (
	"testing"
	"time"

	"github.com/enescosk/akillisayac/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegions = []string{
	"Istanbul", "Ankara", "Izmir", "Bursa", "Adana",
	"Gaziantep", "Konya", "Antalya", "Kayseri", "Mersin",
}

func testGrid(n int) []time.Time {
	return timedataset.HourlyRange(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), n)
}

func TestGenerateShape(t *testing.T) {
	g := NewGenerator(nil)
	c, err := g.Generate(testRegions, testGrid(168), nil)
	require.NoError(t, err)

	assert.Equal(t, 10, c.NumRegions())
	assert.Equal(t, 168, c.Len())
	for _, name := range testRegions {
		require.Len(t, c.Values[name], 168)
	}

	td, err := c.Series("Ankara")
	require.NoError(t, err)
	assert.Equal(t, 168, td.Len())

	_, err = c.Series("Atlantis")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestGenerateDeterminism(t *testing.T) {
	grid := testGrid(168)

	a, err := NewGenerator(nil).Generate(testRegions, grid, nil)
	require.NoError(t, err)
	b, err := NewGenerator(nil).Generate(testRegions, grid, nil)
	require.NoError(t, err)

	for _, name := range testRegions {
		assert.Equal(t, a.Values[name], b.Values[name], name)
	}

	// per-region sub-seeds make the draw independent of iteration order
	reversed := make([]string, len(testRegions))
	for i, name := range testRegions {
		reversed[len(testRegions)-1-i] = name
	}
	r, err := NewGenerator(nil).Generate(reversed, grid, nil)
	require.NoError(t, err)
	for _, name := range testRegions {
		assert.Equal(t, a.Values[name], r.Values[name], name)
	}

	opt := NewDefaultOptions()
	opt.Seed = 7
	other, err := NewGenerator(opt).Generate(testRegions, grid, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Values["Istanbul"], other.Values["Istanbul"])
}

func TestGenerateRescaleRoundTrip(t *testing.T) {
	grid := testGrid(168)
	yearly := 1_234_567.0 // kWh
	totals := NewYearlyTotals(map[string]float64{"İstanbul": yearly})

	c, err := NewGenerator(nil).Generate(testRegions, grid, totals)
	require.NoError(t, err)

	var sum float64
	for _, v := range c.Values["Istanbul"] {
		sum += v
	}
	extrapolated := sum * float64(365*24) / float64(len(grid))
	assert.InDelta(t, yearly, extrapolated, 1e-6)

	// unscaled regions keep the raw amplitude around the base load
	var ankaraSum float64
	for _, v := range c.Values["Ankara"] {
		ankaraSum += v
	}
	assert.InDelta(t, 100.0, ankaraSum/float64(len(grid)), 15.0)
}

func TestGenerateInputFaults(t *testing.T) {
	grid := testGrid(24)
	g := NewGenerator(nil)

	_, err := g.Generate(nil, grid, nil)
	assert.ErrorIs(t, err, ErrNoRegions)

	_, err = g.Generate([]string{"Ankara", "Ankara"}, grid, nil)
	assert.ErrorIs(t, err, ErrDuplicateRegion)

	gapped := []time.Time{grid[0], grid[1], grid[3]}
	_, err = g.Generate([]string{"Ankara"}, gapped, nil)
	assert.ErrorIs(t, err, timedataset.ErrNotHourly)
}

func TestGenerateClipNegative(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Base = [3]float64{0.0, 1.0, 0.5}
	opt.NoiseStddev = 10.0
	opt.ClipNegative = true

	c, err := NewGenerator(opt).Generate([]string{"Ankara"}, testGrid(168), nil)
	require.NoError(t, err)
	for i, v := range c.Values["Ankara"] {
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
	}
}

func TestGenerateHolidayDamping(t *testing.T) {
	opt := NewDefaultOptions()
	opt.NoiseStddev = 0.0
	opt.OffsetStddev = 0.0
	opt.Calendar = TurkishCalendar()
	opt.HolidayDamping = 0.2

	// Jan 1-7 2024: Monday through Sunday
	grid := timedataset.HourlyRange(time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC), 168)
	c, err := NewGenerator(opt).Generate([]string{"Ankara"}, grid, nil)
	require.NoError(t, err)

	baseline, err := NewGenerator(func() *Options {
		o := NewDefaultOptions()
		o.NoiseStddev = 0.0
		o.OffsetStddev = 0.0
		return o
	}()).Generate([]string{"Ankara"}, grid, nil)
	require.NoError(t, err)

	for i, tPnt := range grid {
		expected := baseline.Values["Ankara"][i]
		switch tPnt.Weekday() {
		case time.Saturday, time.Sunday:
			expected *= 0.8
		}
		// Jan 1 is a national holiday and dampened as well
		if tPnt.YearDay() == 1 {
			expected = baseline.Values["Ankara"][i] * 0.8
		}
		assert.InDelta(t, expected, c.Values["Ankara"][i], 1e-9, "index %d", i)
	}
}
