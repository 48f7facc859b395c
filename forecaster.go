// Package akillisayac ties the consumption analytics pipeline together:
// synthetic series generation, anomaly masks, per-region forecasts with
// uncertainty bounds, and usage recommendations derived from the forecast.
package akillisayac

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/enescosk/akillisayac/forecast"
	"github.com/enescosk/akillisayac/stats"
	"github.com/enescosk/akillisayac/timedataset"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInsufficientResidual = errors.New("insufficient samples from residual after outlier removal")
	ErrEmptyTimeDataset     = errors.New("no timedataset or uninitialized")
	ErrUntrainedForecaster  = errors.New("forecaster has not been fit yet")
	ErrNegativeHorizon      = errors.New("forecast horizon must be positive")
)

const (
	DefaultHorizon = 72

	MinResidualWindow       = 2
	MinResidualSize         = 2
	MinResidualWindowFactor = 4
)

// OutlierOptions controls the iterative masking of outlier observations
// before the final series fit.
type OutlierOptions struct {
	NumPasses       int
	UpperPercentile float64
	LowerPercentile float64
	TukeyFactor     float64
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

// Options configures a Forecaster.
type Options struct {
	SeriesOptions      *forecast.Options
	UncertaintyOptions *forecast.Options

	OutlierOptions *OutlierOptions

	// ResidualWindow sizes the rolling standard deviation of the fit residual
	// that feeds the uncertainty model.
	ResidualWindow int

	// ResidualZscore scales the residual standard deviation into bounds.
	ResidualZscore float64

	// Horizon is the number of future hourly steps a forecast extends past the
	// last observed point.
	Horizon int
}

func NewDefaultOptions() *Options {
	return &Options{
		SeriesOptions:      forecast.NewDefaultOptions(),
		UncertaintyOptions: forecast.NewDefaultOptions(),
		ResidualWindow:     48,
		ResidualZscore:     2.0,
		Horizon:            DefaultHorizon,
	}
}

// Forecaster fits one region's hourly series and projects it over a forward
// horizon with uncertainty bounds. Each instance is a fresh, independent fit;
// models are not cached between calls.
type Forecaster struct {
	opt *Options

	seriesForecast      *forecast.Forecast
	uncertaintyForecast *forecast.Forecast

	fitTrainingData *timedataset.TimeDataset
	residual        []float64
	trained         bool
}

// New creates a new instance of a Forecaster using the provided options. If
// no options are provided a default is used.
func New(opt *Options) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	f := &Forecaster{opt: opt}

	seriesForecast, err := forecast.New(opt.SeriesOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize series forecast, %w", err)
	}
	f.seriesForecast = seriesForecast

	uncertaintyForecast, err := forecast.New(opt.UncertaintyOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize uncertainty forecast, %w", err)
	}
	f.uncertaintyForecast = uncertaintyForecast
	return f, nil
}

// Fit trains the series and uncertainty models on a single region's hourly
// history. Fitting faults surface to the caller; no flat-line fallback is
// substituted.
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	td, err := timedataset.NewHourlyDataset(t, y)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}
	f.fitTrainingData = td.Copy()

	residual, err := f.fitSeriesWithOutliers(td.T, td.Y)
	if err != nil {
		return err
	}
	f.residual = residual

	if err := f.fitUncertainty(td.T, residual); err != nil {
		return err
	}

	f.trained = true
	return nil
}

// fitSeriesWithOutliers iterates the series fit, masking detected residual
// outliers with NaN between passes so spikes do not drag the seasonal shape.
func (f *Forecaster) fitSeriesWithOutliers(t []time.Time, y []float64) ([]float64, error) {
	numPasses := 0
	if f.opt.OutlierOptions != nil {
		numPasses = f.opt.OutlierOptions.NumPasses
	}

	yFit := make([]float64, len(y))
	copy(yFit, y)

	var residual []float64
	for i := 0; i <= numPasses; i++ {
		if err := f.seriesForecast.Fit(t, yFit); err != nil {
			return nil, fmt.Errorf("unable to fit consumption series, %w", err)
		}
		residual = f.seriesForecast.Residuals()

		if f.opt.OutlierOptions == nil {
			break
		}

		outlierIdxs := stats.DetectOutliers(
			residual,
			f.opt.OutlierOptions.LowerPercentile,
			f.opt.OutlierOptions.UpperPercentile,
			f.opt.OutlierOptions.TukeyFactor,
		)

		var masked int
		for _, idx := range outlierIdxs {
			if math.IsNaN(yFit[idx]) {
				continue
			}
			yFit[idx] = math.NaN()
			masked++
		}

		// no new outliers so break early
		if masked == 0 {
			break
		}
	}
	return residual, nil
}

// fitUncertainty models the rolling standard deviation of the residual so the
// bounds track time-of-day dependent noise.
func (f *Forecaster) fitUncertainty(t []time.Time, residual []float64) error {
	residualT := make([]time.Time, 0, len(residual))
	residualY := make([]float64, 0, len(residual))
	for i := 0; i < len(residual); i++ {
		if math.IsNaN(residual[i]) {
			continue
		}
		residualT = append(residualT, t[i])
		residualY = append(residualY, residual[i])
	}
	if len(residualY) < MinResidualSize {
		return ErrInsufficientResidual
	}

	window := f.opt.ResidualWindow
	// limit the window to a quarter of the residual output
	if len(residualY)/MinResidualWindowFactor < window {
		window = len(residualY) / MinResidualWindowFactor
	}
	if window < MinResidualWindow {
		window = MinResidualWindow
	}

	stddevSeries, err := stats.RollingStdDev(residualY, window)
	if err != nil {
		return fmt.Errorf("unable to compute rolling residual stddev, %w", err)
	}
	floats.Scale(f.opt.ResidualZscore, stddevSeries)

	// shift by half the window; the rolling series behaves like a finite
	// impulse response filter with a group delay of window/2
	start := window / 2
	end := len(residualT) - window/2 - window%2 + 1

	residualData, err := timedataset.NewUnivariateDataset(residualT[start:end], stddevSeries)
	if err != nil {
		return fmt.Errorf("unable to create uncertainty dataset, %w", err)
	}

	if err := f.uncertaintyForecast.Fit(residualData.T, residualData.Y); err != nil {
		return fmt.Errorf("unable to fit uncertainty series, %w", err)
	}
	return nil
}

// Predict produces the point estimate and bounds for any set of time samples
// given a fit forecaster.
func (f *Forecaster) Predict(t []time.Time) (*Table, error) {
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}

	seriesRes, _, err := f.seriesForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict consumption series, %w", err)
	}
	uncertaintyRes, _, err := f.uncertaintyForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict uncertainty series, %w", err)
	}

	// uncertainty is a spread and cannot be negative
	for i := 0; i < len(uncertaintyRes); i++ {
		if uncertaintyRes[i] < 0.0 {
			uncertaintyRes[i] = 0.0
		}
	}

	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))
	copy(upper, seriesRes)
	copy(lower, seriesRes)
	floats.Add(upper, uncertaintyRes)
	floats.Sub(lower, uncertaintyRes)

	tb := &Table{
		T:        t,
		Forecast: seriesRes,
		Lower:    lower,
		Upper:    upper,
	}
	return tb, nil
}

// Forecast returns the table covering the full historical window plus
// horizon additional hourly steps contiguous with the last observed point.
func (f *Forecaster) Forecast(horizon int) (*Table, error) {
	if !f.trained {
		return nil, ErrUntrainedForecaster
	}
	if horizon <= 0 {
		return nil, ErrNegativeHorizon
	}

	td := f.fitTrainingData
	t := make([]time.Time, 0, len(td.T)+horizon)
	t = append(t, td.T...)
	t = append(t, timedataset.HorizonRange(timedataset.TimeSlice(td.T).EndTime(), horizon)...)
	return f.Predict(t)
}

// Residuals returns the difference between the training data and the final
// series fit.
func (f *Forecaster) Residuals() []float64 {
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// TrainingData returns the data used to fit the current forecaster.
func (f *Forecaster) TrainingData() *timedataset.TimeDataset {
	return f.fitTrainingData
}

// SeriesScores returns the fit scores of the series model.
func (f *Forecaster) SeriesScores() forecast.Scores {
	return f.seriesForecast.Scores()
}

// ForecastSeries is the one-shot entry point matching the pipeline contract:
// fit the input series and project horizon hourly steps past its end. Every
// call is an independent fit.
func ForecastSeries(td *timedataset.TimeDataset, horizon int, opt *Options) (*Table, error) {
	if td == nil || td.Len() == 0 {
		return nil, ErrEmptyTimeDataset
	}

	f, err := New(opt)
	if err != nil {
		return nil, err
	}
	if err := f.Fit(td.T, td.Y); err != nil {
		return nil, err
	}
	return f.Forecast(horizon)
}
