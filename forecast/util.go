package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/enescosk/akillisayac/feature"
)

var ErrUnknownTimeFeature = errors.New("unknown time feature")

// generateTimeFeatures computes the civil time features in the options
// location. Hour-of-day and day-of-week are fractional so sub-hourly inputs
// keep their phase.
func generateTimeFeatures(t []time.Time, opt *Options) feature.Set {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	loc := opt.location()

	tFeat := make(feature.Set)
	if opt.DailyOrders > 0 {
		hod := make([]float64, len(t))
		for i, tPnt := range t {
			hod[i] = fractionalHour(tPnt.In(loc))
		}
		feat := feature.NewTime("hod")
		tFeat[feat.String()] = feature.Data{
			F:    feat,
			Data: hod,
		}
	}
	if opt.WeeklyOrders > 0 {
		dow := make([]float64, len(t))
		for i, tPnt := range t {
			zoned := tPnt.In(loc)
			dow[i] = float64(zoned.Weekday()) + fractionalHour(zoned)/24.0
		}
		feat := feature.NewTime("dow")
		tFeat[feat.String()] = feature.Data{
			F:    feat,
			Data: dow,
		}
	}
	return tFeat
}

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) +
		float64(t.Minute())/60.0 +
		float64(t.Second())/3600.0
}

func generateFourierFeatures(tFeat feature.Set, opt *Options) (feature.Set, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	x := make(feature.Set)
	if opt.DailyOrders > 0 {
		var orders []int
		for i := 1; i <= opt.DailyOrders; i++ {
			orders = append(orders, i)
		}
		dailyFeatures, err := generateFourierOrders(tFeat, "hod", orders, 24.0)
		if err != nil {
			return nil, fmt.Errorf("%q not present in time features, %w", "hod", err)
		}
		for label, features := range dailyFeatures {
			x[label] = features
		}
	}

	if opt.WeeklyOrders > 0 {
		var orders []int
		for i := 1; i <= opt.WeeklyOrders; i++ {
			if i%7 == 0 && i/7 <= opt.DailyOrders {
				// colinear with a daily order so skip
				continue
			}
			orders = append(orders, i)
		}
		weeklyFeatures, err := generateFourierOrders(tFeat, "dow", orders, 7.0)
		if err != nil {
			return nil, fmt.Errorf("%q not present in time features, %w", "dow", err)
		}
		for label, features := range weeklyFeatures {
			x[label] = features
		}
	}
	return x, nil
}

func generateFourierOrders(tFeatures feature.Set, col string, orders []int, period float64) (feature.Set, error) {
	tFeat, exists := tFeatures[feature.NewTime(col).String()]
	if !exists {
		return nil, ErrUnknownTimeFeature
	}

	x := make(feature.Set)
	for _, order := range orders {
		sinFeat, cosFeat := generateFourierComponent(tFeat.Data, order, period)
		sinFeatCol := feature.NewSeasonality(col, feature.FourierCompSin, order)
		cosFeatCol := feature.NewSeasonality(col, feature.FourierCompCos, order)
		x[sinFeatCol.String()] = feature.Data{
			F:    sinFeatCol,
			Data: sinFeat,
		}
		x[cosFeatCol.String()] = feature.Data{
			F:    cosFeatCol,
			Data: cosFeat,
		}
	}

	return x, nil
}

func generateFourierComponent(timeFeature []float64, order int, period float64) ([]float64, []float64) {
	omega := 2.0 * math.Pi * float64(order) / period
	sinFeat := make([]float64, len(timeFeature))
	cosFeat := make([]float64, len(timeFeature))
	for i, tFeat := range timeFeature {
		rad := omega * tFeat
		sinFeat[i] = math.Sin(rad)
		cosFeat[i] = math.Cos(rad)
	}
	return sinFeat, cosFeat
}

// generateGrowthFeatures produces the linear trend term scaled by the training
// window so predictions past the window extrapolate linearly.
func generateGrowthFeatures(t []time.Time, trainStart, trainEnd time.Time) feature.Set {
	x := make(feature.Set)
	window := trainEnd.Sub(trainStart).Seconds()
	if window <= 0 {
		return x
	}

	lin := make([]float64, len(t))
	for i, tPnt := range t {
		lin[i] = tPnt.Sub(trainStart).Seconds() / window
	}
	feat := feature.NewGrowth(feature.GrowthLinear)
	x[feat.String()] = feature.Data{
		F:    feat,
		Data: lin,
	}
	return x
}
