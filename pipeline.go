package akillisayac

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/enescosk/akillisayac/anomaly"
	"github.com/enescosk/akillisayac/consumption"
	"github.com/enescosk/akillisayac/recommend"
)

// PipelineOptions configures an end to end analytics run.
type PipelineOptions struct {
	GeneratorOptions  *consumption.Options
	ForecasterOptions *Options
	RecommendOptions  *recommend.Options
	AnomalyThreshold  float64
	Horizon           int

	// Parallelization bounds how many regions fit concurrently. Zero or
	// negative runs every region at once.
	Parallelization int
}

func NewDefaultPipelineOptions() *PipelineOptions {
	return &PipelineOptions{
		GeneratorOptions:  consumption.NewDefaultOptions(),
		ForecasterOptions: NewDefaultOptions(),
		RecommendOptions:  recommend.NewDefaultOptions(),
		AnomalyThreshold:  anomaly.DefaultThreshold,
		Horizon:           DefaultHorizon,
		Parallelization:   4,
	}
}

// RegionResult is the per-region output of a pipeline run.
type RegionResult struct {
	Region      string
	Anomalies   anomaly.Mask
	Forecast    *Table
	Suggestions []string
}

// PipelineResult collects the run output. Regions holds one result per input
// region keyed by name; Collection is the shared generated input.
type PipelineResult struct {
	Collection *consumption.Collection
	Regions    map[string]*RegionResult
}

// Pipeline chains generation, anomaly detection, forecasting, and
// recommendation. Each stage fully consumes its input before the next begins;
// per-region work shares no mutable state so the fit stage fans out over a
// bounded worker pool.
type Pipeline struct {
	opt *PipelineOptions
}

// NewPipeline creates a pipeline with the provided options. If none are
// provided a default is used.
func NewPipeline(opt *PipelineOptions) *Pipeline {
	if opt == nil {
		opt = NewDefaultPipelineOptions()
	}
	return &Pipeline{opt: opt}
}

// Run executes the full pipeline for the given regions over the hourly grid t.
// totals may be nil to skip rescaling. The first per-region fault aborts the
// run.
func (p *Pipeline) Run(ctx context.Context, regions []string, t []time.Time, totals consumption.YearlyTotals) (*PipelineResult, error) {
	c, err := consumption.NewGenerator(p.opt.GeneratorOptions).Generate(regions, t, totals)
	if err != nil {
		return nil, fmt.Errorf("unable to generate consumption collection, %w", err)
	}

	masks := anomaly.DetectCollection(c, p.opt.AnomalyThreshold)

	res := &PipelineResult{
		Collection: c,
		Regions:    make(map[string]*RegionResult, len(c.Names)),
	}

	parallelization := p.opt.Parallelization
	if parallelization <= 0 {
		parallelization = len(c.Names)
	}

	sem := make(chan struct{}, parallelization)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var runErr error

	var ctxErr error
	for _, name := range c.Names {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			ctxErr = ctx.Err()
		}
		if ctxErr != nil {
			break
		}
		wg.Add(1)

		go func(name string) {
			defer func() {
				<-sem
				wg.Done()
			}()

			regionRes, err := p.runRegion(c, name, masks[name])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if runErr == nil {
					runErr = fmt.Errorf("region %q, %w", name, err)
				}
				return
			}
			res.Regions[name] = regionRes
		}(name)
	}
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	if runErr != nil {
		return nil, runErr
	}
	return res, nil
}

// runRegion fits and forecasts one region then renders its suggestions. The
// recommendation random stream derives from the generator seed and region name
// so results stay reproducible regardless of scheduling order.
func (p *Pipeline) runRegion(c *consumption.Collection, name string, mask anomaly.Mask) (*RegionResult, error) {
	td, err := c.Series(name)
	if err != nil {
		return nil, err
	}

	tb, err := ForecastSeries(td, p.opt.Horizon, p.opt.ForecasterOptions)
	if err != nil {
		return nil, err
	}

	recOpt := recommend.NewDefaultOptions()
	if p.opt.RecommendOptions != nil {
		o := *p.opt.RecommendOptions
		recOpt = &o
	}
	recOpt.Region = name
	if recOpt.Rand == nil {
		seed := uint64(consumption.DefaultSeed)
		if p.opt.GeneratorOptions != nil {
			seed = p.opt.GeneratorOptions.Seed
		}
		recOpt.Rand = rand.New(rand.NewPCG(seed, consumption.RegionSeed(name)))
	}

	// recommendations read only the forward horizon, not the historical fit
	horizonT := tb.T[len(tb.T)-p.opt.Horizon:]
	horizonY := tb.Forecast[len(tb.Forecast)-p.opt.Horizon:]
	suggestions, err := recommend.Suggest(horizonT, horizonY, recOpt)
	if err != nil {
		return nil, err
	}

	return &RegionResult{
		Region:      name,
		Anomalies:   mask,
		Forecast:    tb,
		Suggestions: suggestions,
	}, nil
}
