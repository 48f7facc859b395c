// Package feature describes the labeled model inputs of the consumption
// forecast: seasonal fourier terms, growth terms, and raw time features.
package feature

type FeatureType int

const (
	FeatureTypeGrowth FeatureType = iota
	FeatureTypeSeasonality
	FeatureTypeTime
)

type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// Data represents a feature type with its associated observed values
type Data struct {
	F    Feature
	Data []float64
}
