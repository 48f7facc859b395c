// Package forecast fits a single univariate consumption series with a linear
// model decomposed into an intercept, an optional linear growth term, and
// daily/weekly fourier seasonality. The model weights are computed with
// coordinate descent.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/enescosk/akillisayac/feature"
	"github.com/enescosk/akillisayac/models"
	"github.com/enescosk/akillisayac/timedataset"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast    = errors.New("uninitialized forecast")
	ErrInsufficientTrainingData = errors.New("insufficient training data after removing NaNs")
	ErrNoModelCoefficients      = errors.New("no model coefficients from fit")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
)

// Forecast represents a single forecast model of a time series.
type Forecast struct {
	opt    *Options
	scores *Scores // score calculations after training

	fLabels *feature.Labels

	trainStart    time.Time
	trainEnd      time.Time
	includeWeekly bool

	residual        []float64
	trainComponents Components

	coef      []float64
	intercept float64
	trained   bool
}

// New creates a new forecast instance with the given options. If none are
// provided a default is used.
func New(opt *Options) (*Forecast, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Forecast{opt: opt}, nil
}

func (f *Forecast) generateFeatures(t []time.Time) (feature.Set, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	opt := *f.opt
	if !f.includeWeekly {
		opt.WeeklyOrders = 0
	}

	tFeat := generateTimeFeatures(t, &opt)
	feat, err := generateFourierFeatures(tFeat, &opt)
	if err != nil {
		return nil, err
	}

	if f.opt.LinearGrowth {
		for label, growthFeat := range generateGrowthFeatures(t, f.trainStart, f.trainEnd) {
			feat[label] = growthFeat
		}
	}

	return feat, nil
}

// Fit takes the input training data and fits the forecast model. NaN values
// are skipped during training. Fitting faults, e.g. insufficient history,
// surface to the caller rather than producing a degenerate model.
func (f *Forecast) Fit(t []time.Time, y []float64) error {
	if f == nil {
		return ErrUninitializedForecast
	}

	trainingData, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return err
	}

	trainingT := make([]time.Time, 0, len(trainingData.T))
	trainingY := make([]float64, 0, len(trainingData.Y))
	for i := 0; i < len(trainingData.T); i++ {
		if math.IsNaN(trainingData.Y[i]) {
			continue
		}
		trainingT = append(trainingT, trainingData.T[i])
		trainingY = append(trainingY, trainingData.Y[i])
	}

	if len(trainingT) <= 1 {
		return ErrInsufficientTrainingData
	}

	f.trainStart = trainingT[0]
	f.trainEnd = trainingT[len(trainingT)-1]
	// weekly fourier terms are unidentifiable with less than one week of history
	f.includeWeekly = f.trainEnd.Sub(f.trainStart) >= 7*24*time.Hour

	x, err := f.generateFeatures(trainingT)
	if err != nil {
		return err
	}
	f.fLabels = x.Labels()

	lassoOpt := models.NewDefaultLassoOptions()
	lassoOpt.Lambda = f.opt.Regularization
	lassoOpt.FitIntercept = true

	lasso, err := models.NewLassoRegression(lassoOpt)
	if err != nil {
		return err
	}
	if err := lasso.Fit(x.Matrix(false), mat.NewDense(len(trainingY), 1, trainingY)); err != nil {
		return err
	}
	f.intercept = lasso.Intercept()
	f.coef = lasso.Coef()
	f.trained = true

	// predict on the full training input including NaN rows
	predicted, comp, err := f.Predict(trainingData.T)
	if err != nil {
		return err
	}
	f.trainComponents = comp

	scores, err := NewScores(predicted, trainingData.Y)
	if err != nil {
		return err
	}
	f.scores = scores

	residual := make([]float64, len(trainingData.T))
	for i := 0; i < len(residual); i++ {
		residual[i] = trainingData.Y[i] - predicted[i]
	}
	f.residual = residual

	return nil
}

// Predict takes a slice of times in any order and produces the predicted value
// for those times given a pre-trained model.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}
	if !f.trained {
		return nil, Components{}, ErrUntrainedForecast
	}

	x, err := f.generateFeatures(t)
	if err != nil {
		return nil, Components{}, err
	}

	growthFeatureSet := make(feature.Set)
	seasonalityFeatureSet := make(feature.Set)
	for label, feat := range x {
		switch feat.F.Type() {
		case feature.FeatureTypeGrowth:
			growthFeatureSet[label] = feat
		case feature.FeatureTypeSeasonality:
			seasonalityFeatureSet[label] = feat
		}
	}

	comp := Components{
		Growth:      f.runInference(growthFeatureSet, true, len(t)),
		Seasonality: f.runInference(seasonalityFeatureSet, false, len(t)),
	}

	res := f.runInference(x, true, len(t))
	return res, comp, nil
}

func (f *Forecast) runInference(x feature.Set, withIntercept bool, m int) []float64 {
	if f == nil {
		return nil
	}

	if len(x) == 0 {
		if !withIntercept {
			return make([]float64, m)
		}
		res := make([]float64, m)
		for i := range res {
			res[i] = f.intercept
		}
		return res
	}

	xLabels := x.Labels()

	n := xLabels.Len()
	if withIntercept {
		n += 1
	}

	xWeights := make([]float64, 0, n)
	if withIntercept {
		xWeights = append(xWeights, f.intercept)
	}
	for _, xFeat := range xLabels.Labels() {
		if wIdx, exists := f.fLabels.Index(xFeat); exists {
			xWeights = append(xWeights, f.coef[wIdx])
		}
	}

	wMx := mat.NewDense(1, n, xWeights)
	featMx := x.Matrix(withIntercept).T()

	var resMx mat.Dense
	resMx.Mul(wMx, featMx)

	return mat.Row(nil, 0, &resMx)
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil {
		return nil
	}
	return f.fLabels.Labels()
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.fLabels.Labels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64)
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Intercept returns the intercept of the forecast model
func (f *Forecast) Intercept() float64 {
	if f == nil {
		return 0
	}
	return f.intercept
}

// TrainEndTime returns the last timestamp used for training
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEnd
}

// Scores returns the fit scores for evaluating how well the resulting model
// fit the training data
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

// Residuals returns a slice of values representing the difference between the
// training data and the fit data
func (f *Forecast) Residuals() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.residual))
	copy(res, f.residual)
	return res
}

// GrowthComponent represents the non-periodic component of the model after fitting
func (f *Forecast) GrowthComponent() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.trainComponents.Growth))
	copy(res, f.trainComponents.Growth)
	return res
}

// SeasonalityComponent represents the overall seasonal component of the model
func (f *Forecast) SeasonalityComponent() []float64 {
	if f == nil {
		return nil
	}
	res := make([]float64, len(f.trainComponents.Seasonality))
	copy(res, f.trainComponents.Seasonality)
	return res
}
