// Package recommend turns a consumption forecast into short natural-language
// guidance. The engine groups the forecast by hour of day, finds the peak and
// off-peak hours, and renders templates for the matching daypart.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var (
	ErrMissingForecastFields = errors.New("missing required forecast fields")
	ErrForecastLenMismatch   = errors.New("forecast timestamps and estimates have different lengths")
)

// Daypart categories for the peak hour. The ranges are inclusive and mutually
// exclusive; any hour outside them is treated as a flat or night profile.
const (
	morningStart = 6
	morningEnd   = 10
	middayStart  = 11
	middayEnd    = 16
	eveningStart = 17
	eveningEnd   = 22
)

// Options configures suggestion rendering.
type Options struct {
	// Region names the region in rendered text. Optional.
	Region string

	// Location is the civil timezone used for hour of day grouping. Defaults
	// to UTC.
	Location *time.Location

	// Rand drives template selection. A nil source falls back to a fixed seed
	// so output stays reproducible.
	Rand *rand.Rand

	// NumSuggestions caps the number of rendered suggestions.
	NumSuggestions int

	// RatioThreshold enables the peak to off-peak ratio callout when the ratio
	// exceeds it.
	RatioThreshold float64

	// TrendThreshold enables the trend callout when the absolute percent
	// change across the forecast window exceeds it.
	TrendThreshold float64
}

func NewDefaultOptions() *Options {
	return &Options{
		NumSuggestions: 2,
		RatioThreshold: 2.0,
		TrendThreshold: 5.0,
	}
}

func (opt *Options) location() *time.Location {
	if opt.Location == nil {
		return time.UTC
	}
	return opt.Location
}

// profile carries the computed quantities every template substitutes from.
// Rendered numbers only ever come from here.
type profile struct {
	region string

	peakHour, offHour  int
	peakStart, peakEnd int
	offStart, offEnd   int
	ratio, trendPct    float64
	ratioOK, trendOK   bool
}

type template func(p profile) string

// Suggest derives guidance strings from a forecast. The inputs are the
// forecast timestamps and point estimates, row for row. Suggestions carry only
// computed hour windows and figures, never fabricated values.
func Suggest(t []time.Time, yhat []float64, opt *Options) ([]string, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if len(t) == 0 || len(yhat) == 0 {
		return nil, ErrMissingForecastFields
	}
	if len(t) != len(yhat) {
		return nil, fmt.Errorf(
			"%d timestamps and %d estimates, %w",
			len(t), len(yhat), ErrForecastLenMismatch,
		)
	}

	p, err := buildProfile(t, yhat, opt)
	if err != nil {
		return nil, err
	}
	pool := templatePool(p, opt)

	rnd := opt.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(0, 0))
	}

	n := opt.NumSuggestions
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}

	suggestions := make([]string, 0, n)
	for _, idx := range rnd.Perm(len(pool))[:n] {
		suggestions = append(suggestions, pool[idx](p))
	}
	return suggestions, nil
}

// buildProfile groups the forecast by civil hour of day and extracts the peak
// and off-peak hours plus the auxiliary ratio and trend signals. A forecast
// with no finite estimate leaves no hour bucket to profile and is rejected so
// no rendered window carries an invented hour.
func buildProfile(t []time.Time, yhat []float64, opt *Options) (profile, error) {
	loc := opt.location()

	var sums, counts [24]float64
	for i := range t {
		if math.IsNaN(yhat[i]) {
			continue
		}
		h := t[i].In(loc).Hour()
		sums[h] += yhat[i]
		counts[h]++
	}

	// stable argmax and argmin in ascending hour order
	peakHour, offHour := -1, -1
	var peakMean, offMean float64
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		mean := sums[h] / counts[h]
		if peakHour < 0 || mean > peakMean {
			peakHour, peakMean = h, mean
		}
		if offHour < 0 || mean < offMean {
			offHour, offMean = h, mean
		}
	}
	if peakHour < 0 {
		return profile{}, fmt.Errorf("no finite estimates, %w", ErrMissingForecastFields)
	}

	p := profile{
		region:    opt.Region,
		peakHour:  peakHour,
		offHour:   offHour,
		peakStart: ((peakHour-1)%24 + 24) % 24,
		peakEnd:   (peakHour + 1) % 24,
		offStart:  ((offHour-1)%24 + 24) % 24,
		offEnd:    (offHour + 1) % 24,
	}

	if math.Abs(offMean) > 1e-9 {
		p.ratio = peakMean / offMean
		p.ratioOK = p.ratio > opt.RatioThreshold
	}

	// trend compares the first and last day of the forecast window
	if len(yhat) >= 48 {
		first := meanOf(yhat[:24])
		last := meanOf(yhat[len(yhat)-24:])
		if math.Abs(first) > 1e-9 {
			p.trendPct = (last - first) / first * 100.0
			p.trendOK = math.Abs(p.trendPct) > opt.TrendThreshold
		}
	}
	return p, nil
}

func meanOf(y []float64) float64 {
	var sum float64
	var n int
	for _, v := range y {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// templatePool returns the daypart templates for the peak hour plus any
// auxiliary callouts whose thresholds were exceeded.
func templatePool(p profile, opt *Options) []template {
	var pool []template
	switch {
	case p.peakHour >= morningStart && p.peakHour <= morningEnd:
		pool = morningTemplates
	case p.peakHour >= middayStart && p.peakHour <= middayEnd:
		pool = middayTemplates
	case p.peakHour >= eveningStart && p.peakHour <= eveningEnd:
		pool = eveningTemplates
	default:
		pool = flatTemplates
	}

	pool = append([]template(nil), pool...)
	if p.ratioOK {
		pool = append(pool, ratioTemplate)
	}
	if p.trendOK {
		if p.trendPct > 0 {
			pool = append(pool, risingTemplate)
		} else {
			pool = append(pool, fallingTemplate)
		}
	}
	return pool
}

var morningTemplates = []template{
	func(p profile) string {
		return fmt.Sprintf(
			"Prepare hot water after %02d:00 when rates drop, avoiding the %02d:00-%02d:00 morning spike.",
			p.offStart, p.peakStart, p.peakEnd,
		)
	},
	func(p profile) string {
		return fmt.Sprintf(
			"Delay starting energy-hungry appliances until the off-peak hours around %02d:00-%02d:00.",
			p.offStart, p.offEnd,
		)
	},
}

var middayTemplates = []template{
	func(p profile) string {
		return fmt.Sprintf(
			"Shift laundry and dishwasher runs to the %02d:00-%02d:00 night window to benefit from low tariffs.",
			p.offStart, p.offEnd,
		)
	},
	func(p profile) string {
		return fmt.Sprintf(
			"Reduce midday AC usage during %02d:00-%02d:00 by pre-cooling your home in the morning.",
			p.peakStart, p.peakEnd,
		)
	},
}

var eveningTemplates = []template{
	func(p profile) string {
		return fmt.Sprintf(
			"Cook dinner with smaller appliances or earlier to avoid the %02d:00-%02d:00 peak window.",
			p.peakStart, p.peakEnd,
		)
	},
	func(p profile) string {
		return fmt.Sprintf(
			"Run high-load devices between %02d:00-%02d:00 overnight when demand is lowest.",
			p.offStart, p.offEnd,
		)
	},
}

var flatTemplates = []template{
	func(p profile) string {
		return fmt.Sprintf(
			"Take advantage of consistently low demand by scheduling appliances during %02d:00-%02d:00 off-peak hours.",
			p.offStart, p.offEnd,
		)
	},
	func(p profile) string {
		return "Maintain efficiency by switching off standby electronics; no significant peaks expected over the forecast window."
	},
}

func ratioTemplate(p profile) string {
	where := ""
	if p.region != "" {
		where = " in " + p.region
	}
	return fmt.Sprintf(
		"Peak demand%s runs %.1fx the off-peak level; moving flexible loads to %02d:00-%02d:00 offers the largest saving.",
		where, p.ratio, p.offStart, p.offEnd,
	)
}

func risingTemplate(p profile) string {
	return fmt.Sprintf(
		"Consumption is trending up about %.0f%% across the forecast window; check heating and cooling setpoints before the increase compounds.",
		p.trendPct,
	)
}

func fallingTemplate(p profile) string {
	return fmt.Sprintf(
		"Consumption is trending down about %.0f%% across the forecast window; a good moment to schedule deferred high-load tasks.",
		-p.trendPct,
	)
}
