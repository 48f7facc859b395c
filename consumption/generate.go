package consumption

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/enescosk/akillisayac/timedataset"
	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoRegions       = errors.New("no regions to generate")
	ErrDuplicateRegion = errors.New("duplicate region name")
	ErrUnknownRegion   = errors.New("region has no data in collection")
)

const (
	DefaultSeed         = 42
	DefaultOffsetStddev = 5.0
	DefaultNoiseStddev  = 3.0
)

// DefaultBase holds the two-harmonic daily load shape constants A0, A1, A2 in
// base(h) = A0 + A1*sin(2*pi*h/24) + A2*sin(4*pi*h/24).
var DefaultBase = [3]float64{100.0, 20.0, 10.0}

// Options configures the synthetic series generator.
type Options struct {
	// Seed feeds the per-region random sources. Each region derives its own
	// sub-seed from Seed and its normalized name, so output is reproducible
	// and independent of region iteration order.
	Seed uint64

	// Base holds the daily load shape constants A0, A1, A2.
	Base [3]float64

	// OffsetStddev scales the one constant offset drawn per region.
	OffsetStddev float64

	// NoiseStddev scales the zero-mean gaussian noise drawn per hour.
	NoiseStddev float64

	// ClipNegative floors the raw series at zero. Off by default; the seasonal
	// shape with the default constants stays positive on its own and the raw
	// candidate is kept untouched.
	ClipNegative bool

	// Calendar, when set, dampens consumption on non-workdays by
	// HolidayDamping. Nil leaves the base contract untouched.
	Calendar       *cal.BusinessCalendar
	HolidayDamping float64

	// Location fixes the civil hour-of-day used by the base shape.
	Location *time.Location
}

func NewDefaultOptions() *Options {
	return &Options{
		Seed:         DefaultSeed,
		Base:         DefaultBase,
		OffsetStddev: DefaultOffsetStddev,
		NoiseStddev:  DefaultNoiseStddev,
		Location:     time.UTC,
	}
}

func (o *Options) location() *time.Location {
	if o == nil || o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Collection maps each region to its hourly series, all aligned on one shared
// time index.
type Collection struct {
	T      []time.Time
	Names  []string
	Values map[string][]float64
}

// Series extracts one region as a TimeDataset. Requesting a region with no
// data is an input fault.
func (c *Collection) Series(name string) (*timedataset.TimeDataset, error) {
	y, exists := c.Values[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownRegion)
	}
	return timedataset.NewUnivariateDataset(c.T, y)
}

// NumRegions returns the number of series tracked by the collection.
func (c *Collection) NumRegions() int {
	if c == nil {
		return 0
	}
	return len(c.Names)
}

// Len returns the number of observations per series.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.T)
}

// Generator produces synthetic hourly consumption collections.
type Generator struct {
	opt *Options
}

// NewGenerator creates a generator with the provided options. If none are
// provided a default is used.
func NewGenerator(opt *Options) *Generator {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Generator{opt: opt}
}

// Generate builds one series per region over the hourly grid t. When totals
// carries a positive yearly figure for a region the raw series is rescaled so
// its window sum matches the pro-rated share of that figure; the seasonal
// shape and noise ratios are preserved. A degenerate raw sum skips rescaling.
func (g *Generator) Generate(regions []string, t []time.Time, totals YearlyTotals) (*Collection, error) {
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	if err := timedataset.CheckHourly(t); err != nil {
		return nil, err
	}
	if len(t) == 0 {
		return nil, timedataset.ErrNoTrainingData
	}

	seen := make(map[string]struct{}, len(regions))
	for _, name := range regions {
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("%q, %w", name, ErrDuplicateRegion)
		}
		seen[name] = struct{}{}
	}

	base := g.baseShape(t)

	tIdx := make([]time.Time, len(t))
	copy(tIdx, t)
	c := &Collection{
		T:      tIdx,
		Names:  make([]string, 0, len(regions)),
		Values: make(map[string][]float64, len(regions)),
	}
	for _, name := range regions {
		c.Names = append(c.Names, name)
		c.Values[name] = g.generateRegion(name, base, t, totals)
	}
	return c, nil
}

func (g *Generator) baseShape(t []time.Time) []float64 {
	loc := g.opt.location()
	a0, a1, a2 := g.opt.Base[0], g.opt.Base[1], g.opt.Base[2]

	base := make([]float64, len(t))
	for i, tPnt := range t {
		h := float64(tPnt.In(loc).Hour())
		base[i] = a0 +
			a1*math.Sin(2.0*math.Pi*h/24.0) +
			a2*math.Sin(4.0*math.Pi*h/24.0)
	}
	return base
}

func (g *Generator) generateRegion(name string, base []float64, t []time.Time, totals YearlyTotals) []float64 {
	rnd := rand.New(rand.NewPCG(g.opt.Seed, RegionSeed(name)))

	offset := rnd.NormFloat64() * g.opt.OffsetStddev
	series := make([]float64, len(base))
	for i := range series {
		series[i] = base[i] + offset + rnd.NormFloat64()*g.opt.NoiseStddev
	}

	if g.opt.Calendar != nil && g.opt.HolidayDamping > 0 {
		loc := g.opt.location()
		for i := range series {
			if !g.opt.Calendar.IsWorkday(t[i].In(loc)) {
				series[i] *= 1.0 - g.opt.HolidayDamping
			}
		}
	}

	if g.opt.ClipNegative {
		for i := range series {
			if series[i] < 0 {
				series[i] = 0
			}
		}
	}

	if target, ok := totals.WindowTotal(name, len(series)); ok {
		if sum := floats.Sum(series); sum > 0 {
			floats.Scale(target/sum, series)
		}
	}
	return series
}

// RegionSeed derives the per-region PCG stream from the normalized name so
// the draw for a region does not depend on how many regions precede it.
func RegionSeed(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(Normalize(name)))
	return h.Sum64()
}
