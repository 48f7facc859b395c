package akillisayac

import (
	"context"
	"testing"
	"time"

	"github.com/enescosk/akillisayac/consumption"
	"github.com/enescosk/akillisayac/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(n int) []time.Time {
	return timedataset.HourlyRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n-1)*time.Hour), n)
}

func TestPipelineRun(t *testing.T) {
	regions := []string{"Ankara", "Izmir", "Bursa"}
	grid := testGrid(3 * 7 * 24)

	opt := NewDefaultPipelineOptions()
	opt.Parallelization = 2

	res, err := NewPipeline(opt).Run(context.Background(), regions, grid, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Collection.NumRegions())
	assert.Equal(t, len(grid), res.Collection.Len())
	require.Len(t, res.Regions, 3)

	for _, name := range regions {
		regionRes, exists := res.Regions[name]
		require.True(t, exists, name)

		assert.Len(t, regionRes.Anomalies, len(grid), name)
		require.NoError(t, regionRes.Forecast.Validate(), name)
		assert.Equal(t, len(grid)+opt.Horizon, regionRes.Forecast.Len(), name)
		assert.Len(t, regionRes.Suggestions, 2, name)
	}
}

func TestPipelineRunDeterministic(t *testing.T) {
	regions := []string{"Ankara", "Izmir"}
	grid := testGrid(2 * 7 * 24)

	run := func() *PipelineResult {
		opt := NewDefaultPipelineOptions()
		opt.Parallelization = 2
		res, err := NewPipeline(opt).Run(context.Background(), regions, grid, nil)
		require.NoError(t, err)
		return res
	}

	res1 := run()
	res2 := run()

	for _, name := range regions {
		assert.Equal(t, res1.Collection.Values[name], res2.Collection.Values[name], name)
		assert.Equal(t, res1.Regions[name].Suggestions, res2.Regions[name].Suggestions, name)
		assert.InDeltaSlice(t,
			res1.Regions[name].Forecast.Forecast,
			res2.Regions[name].Forecast.Forecast,
			1e-9, name)
	}
}

func TestPipelineRunWithTotals(t *testing.T) {
	regions := []string{"Ankara"}
	grid := testGrid(2 * 7 * 24)

	totals := consumption.NewYearlyTotals(map[string]float64{"Ankara": 1_000_000.0})

	opt := NewDefaultPipelineOptions()
	res, err := NewPipeline(opt).Run(context.Background(), regions, grid, totals)
	require.NoError(t, err)

	var sum float64
	for _, v := range res.Collection.Values["Ankara"] {
		sum += v
	}
	assert.InDelta(t, 1_000_000.0*float64(len(grid))/8760.0, sum, 1e-6)
}

func TestPipelineRunFaults(t *testing.T) {
	opt := NewDefaultPipelineOptions()
	p := NewPipeline(opt)
	grid := testGrid(2 * 7 * 24)

	_, err := p.Run(context.Background(), nil, grid, nil)
	assert.ErrorIs(t, err, consumption.ErrNoRegions)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, []string{"Ankara"}, grid, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
