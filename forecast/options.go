package forecast

import "time"

const (
	DefaultDailyOrders  = 6
	DefaultWeeklyOrders = 3
)

// Options configures the shape of a single series model. Hour-of-day and
// day-of-week features are computed as civil time in Location so the model
// keeps its meaning across timezones.
type Options struct {
	// DailyOrders is the number of fourier orders modeling the hour-of-day cycle.
	DailyOrders int `json:"daily_orders"`

	// WeeklyOrders is the number of fourier orders modeling the day-of-week cycle.
	// Weekly terms are dropped automatically when the training window spans less
	// than one week.
	WeeklyOrders int `json:"weekly_orders"`

	// LinearGrowth adds a linear trend term over the training window.
	LinearGrowth bool `json:"linear_growth"`

	// Regularization is the lasso L1 multiplier. 0 is ordinary least squares.
	Regularization float64 `json:"regularization"`

	Location *time.Location `json:"-"`
}

func NewDefaultOptions() *Options {
	return &Options{
		DailyOrders:    DefaultDailyOrders,
		WeeklyOrders:   DefaultWeeklyOrders,
		LinearGrowth:   true,
		Regularization: 0.0,
		Location:       time.UTC,
	}
}

func (o *Options) location() *time.Location {
	if o == nil || o.Location == nil {
		return time.UTC
	}
	return o.Location
}
