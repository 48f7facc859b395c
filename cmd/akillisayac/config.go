package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/enescosk/akillisayac/anomaly"
	"github.com/enescosk/akillisayac/consumption"
)

// Config holds the application configuration.
type Config struct {
	// Regions to simulate and analyze. Empty means every known province.
	Regions []string `yaml:"regions"`

	// Simulation settings
	Hours        int    `yaml:"hours"`
	Start        string `yaml:"start"`
	Seed         uint64 `yaml:"seed"`
	ClipNegative bool   `yaml:"clip_negative"`
	Location     string `yaml:"location"`
	TotalsPath   string `yaml:"totals_path"`

	// HolidayDamping scales down consumption on Turkish holidays and
	// weekends when positive.
	HolidayDamping float64 `yaml:"holiday_damping"`

	// Analysis settings
	AnomalyThreshold float64 `yaml:"anomaly_threshold"`
	Horizon          int     `yaml:"horizon"`
	Parallelization  int     `yaml:"parallelization"`

	// Output
	OutputDir string `yaml:"output_dir"`

	// Debugging
	Debug bool `yaml:"debug"`
}

// LoadConfig loads configuration from a YAML file. A missing path returns the
// defaults with environment variable overrides applied.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Hours:            28 * 24,
		Start:            "2024-01-01T00:00:00Z",
		Location:         "Europe/Istanbul",
		Seed:             consumption.DefaultSeed,
		AnomalyThreshold: anomaly.DefaultThreshold,
		Horizon:          72,
		Parallelization:  4,
		OutputDir:        "out",
	}

	if path == "" {
		config.applyEnvironmentVariables()
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file, %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unable to parse config file, %w", err)
	}

	config.applyEnvironmentVariables()
	return config, nil
}

// applyEnvironmentVariables overrides config with environment variables.
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("AKILLISAYAC_TOTALS_PATH"); val != "" {
		c.TotalsPath = val
	}
	if val := os.Getenv("AKILLISAYAC_OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}
	if val := os.Getenv("AKILLISAYAC_SEED"); val != "" {
		if seed, err := strconv.ParseUint(val, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	if val := os.Getenv("AKILLISAYAC_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
}
