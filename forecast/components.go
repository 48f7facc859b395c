package forecast

// Components holds the decomposed parts of a prediction.
type Components struct {
	Growth      []float64 `json:"growth"`
	Seasonality []float64 `json:"seasonality"`
}
