// akillisayac simulates hourly electricity consumption for Turkish provinces
// and runs the analytics pipeline over it: anomaly detection, 72 hour
// forecasting with uncertainty bounds, and usage recommendations.
//
// Usage:
//
//	akillisayac simulate --hours 672 --out out
//	akillisayac detect --data out/consumption.csv
//	akillisayac forecast --data out/consumption.csv --region Ankara --plot
//	akillisayac run --regions Ankara,Izmir,Bursa
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/enescosk/akillisayac"
	"github.com/enescosk/akillisayac/anomaly"
	"github.com/enescosk/akillisayac/consumption"
	"github.com/enescosk/akillisayac/recommend"
	"github.com/enescosk/akillisayac/timedataset"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	var prof interface{ Stop() }

	app := &cli.App{
		Name:    "akillisayac",
		Usage:   "Hourly electricity consumption simulation, anomaly detection, and forecasting",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"AKILLISAYAC_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{"AKILLISAYAC_DEBUG"},
			},
			&cli.BoolFlag{
				Name:  "profile",
				Usage: "Write a CPU profile to the current directory",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("profile") {
				prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if prof != nil {
				prof.Stop()
			}
			return nil
		},

		Commands: []*cli.Command{
			simulateCommand(),
			detectCommand(),
			forecastCommand(),
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*Config, *slog.Logger, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger := NewLogger(cfg.Debug || c.Bool("debug"))
	return cfg, logger, nil
}

func configRegions(c *cli.Context, cfg *Config) []string {
	if val := c.String("regions"); val != "" {
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if len(cfg.Regions) > 0 {
		return cfg.Regions
	}
	return consumption.RegionNames()
}

func configGrid(cfg *Config) ([]time.Time, error) {
	start, err := time.Parse(time.RFC3339, cfg.Start)
	if err != nil {
		return nil, fmt.Errorf("unable to parse start time %q, %w", cfg.Start, err)
	}
	end := start.Add(time.Duration(cfg.Hours-1) * time.Hour)
	return timedataset.HourlyRange(end, cfg.Hours), nil
}

func configLocation(cfg *Config) (*time.Location, error) {
	if cfg.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("unable to load location %q, %w", cfg.Location, err)
	}
	return loc, nil
}

func generatorOptions(cfg *Config) (*consumption.Options, error) {
	loc, err := configLocation(cfg)
	if err != nil {
		return nil, err
	}

	opt := consumption.NewDefaultOptions()
	opt.Seed = cfg.Seed
	opt.ClipNegative = cfg.ClipNegative
	opt.Location = loc
	if cfg.HolidayDamping > 0 {
		opt.Calendar = consumption.TurkishCalendar()
		opt.HolidayDamping = cfg.HolidayDamping
	}
	return opt, nil
}

func forecasterOptions(cfg *Config) (*akillisayac.Options, error) {
	loc, err := configLocation(cfg)
	if err != nil {
		return nil, err
	}

	opt := akillisayac.NewDefaultOptions()
	opt.SeriesOptions.Location = loc
	opt.UncertaintyOptions.Location = loc
	opt.Horizon = cfg.Horizon
	return opt, nil
}

var regionsFlag = &cli.StringFlag{
	Name:    "regions",
	Aliases: []string{"r"},
	Usage:   "Comma-separated region names, overriding the config",
}

// =============================================================================
// SIMULATE
// =============================================================================

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Generate a synthetic hourly consumption collection and write it as CSV",
		Flags: []cli.Flag{
			regionsFlag,
			&cli.IntFlag{
				Name:  "hours",
				Usage: "Window length in hours, overriding the config",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory, overriding the config",
			},
		},
		Action: runSimulate,
	}
}

func runSimulate(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if hours := c.Int("hours"); hours > 0 {
		cfg.Hours = hours
	}
	if out := c.String("out"); out != "" {
		cfg.OutputDir = out
	}

	grid, err := configGrid(cfg)
	if err != nil {
		return err
	}
	genOpt, err := generatorOptions(cfg)
	if err != nil {
		return err
	}
	totals, err := consumption.LoadYearlyTotals(cfg.TotalsPath)
	if err != nil {
		return err
	}

	regions := configRegions(c, cfg)
	collection, err := consumption.NewGenerator(genOpt).Generate(regions, grid, totals)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory, %w", err)
	}
	path := filepath.Join(cfg.OutputDir, "consumption.csv")
	if err := collection.SaveFile(path); err != nil {
		return err
	}

	logger.Info("wrote consumption collection",
		"path", path,
		"regions", collection.NumRegions(),
		"hours", collection.Len(),
		"seed", cfg.Seed,
	)
	return nil
}

// =============================================================================
// DETECT
// =============================================================================

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Flag anomalous readings in a consumption collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to a consumption CSV; defaults to <output_dir>/consumption.csv",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Absolute z-score threshold, overriding the config",
			},
		},
		Action: runDetect,
	}
}

func runDetect(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if threshold := c.Float64("threshold"); threshold > 0 {
		cfg.AnomalyThreshold = threshold
	}

	path := c.String("data")
	if path == "" {
		path = filepath.Join(cfg.OutputDir, "consumption.csv")
	}
	collection, err := consumption.LoadFile(path)
	if err != nil {
		return err
	}

	masks := anomaly.DetectCollection(collection, cfg.AnomalyThreshold)
	var total int
	for _, name := range collection.Names {
		n := masks[name].NumAnomalies()
		total += n
		logger.Info("region scanned", "region", name, "anomalies", n)
	}
	window := timedataset.TimeSlice(collection.T)
	logger.Info("detection complete",
		"regions", collection.NumRegions(),
		"threshold", cfg.AnomalyThreshold,
		"anomalies", total,
		"from", window.StartTime(),
		"to", window.EndTime(),
	)
	return nil
}

// =============================================================================
// FORECAST
// =============================================================================

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast one region from a consumption collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to a consumption CSV; defaults to <output_dir>/consumption.csv",
			},
			&cli.StringFlag{
				Name:     "region",
				Usage:    "Region to forecast",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "horizon",
				Usage: "Forecast horizon in hours, overriding the config",
			},
			&cli.BoolFlag{
				Name:  "plot",
				Usage: "Write an html chart of the fit next to the forecast CSV",
			},
		},
		Action: runForecast,
	}
}

func runForecast(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if horizon := c.Int("horizon"); horizon > 0 {
		cfg.Horizon = horizon
	}

	path := c.String("data")
	if path == "" {
		path = filepath.Join(cfg.OutputDir, "consumption.csv")
	}
	collection, err := consumption.LoadFile(path)
	if err != nil {
		return err
	}

	region := c.String("region")
	td, err := collection.Series(region)
	if err != nil {
		return err
	}

	fOpt, err := forecasterOptions(cfg)
	if err != nil {
		return err
	}
	f, err := akillisayac.New(fOpt)
	if err != nil {
		return err
	}
	if err := f.Fit(td.T, td.Y); err != nil {
		return err
	}
	tb, err := f.Forecast(cfg.Horizon)
	if err != nil {
		return err
	}

	scores := f.SeriesScores()
	logger.Info("fit complete",
		"region", region,
		"mse", scores.MSE,
		"mape", scores.MAPE,
		"r2", scores.R2,
	)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory, %w", err)
	}
	slug := consumption.Normalize(region)
	csvPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("forecast_%s.csv", slug))
	if err := tb.SaveCSV(csvPath); err != nil {
		return err
	}
	logger.Info("wrote forecast", "path", csvPath, "rows", tb.Len(), "horizon", cfg.Horizon)

	if c.Bool("plot") {
		htmlPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("forecast_%s.html", slug))
		if err := f.PlotFit(htmlPath, cfg.Horizon); err != nil {
			return err
		}
		logger.Info("wrote plot", "path", htmlPath)
	}

	recOpt := recommend.NewDefaultOptions()
	recOpt.Region = region
	recOpt.Location = fOpt.SeriesOptions.Location
	horizonT := tb.T[len(tb.T)-cfg.Horizon:]
	horizonY := tb.Forecast[len(tb.Forecast)-cfg.Horizon:]
	suggestions, err := recommend.Suggest(horizonT, horizonY, recOpt)
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Println("-", s)
	}
	return nil
}

// =============================================================================
// RUN
// =============================================================================

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full pipeline: simulate, detect, forecast, and recommend",
		Flags: []cli.Flag{
			regionsFlag,
			&cli.IntFlag{
				Name:  "hours",
				Usage: "Window length in hours, overriding the config",
			},
			&cli.IntFlag{
				Name:  "parallelization",
				Usage: "Concurrent region fits, overriding the config",
			},
			&cli.BoolFlag{
				Name:  "plot",
				Usage: "Write an html chart of the collection with anomalies marked",
			},
		},
		Action: runPipeline,
	}
}

func runPipeline(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if hours := c.Int("hours"); hours > 0 {
		cfg.Hours = hours
	}
	if par := c.Int("parallelization"); par > 0 {
		cfg.Parallelization = par
	}

	grid, err := configGrid(cfg)
	if err != nil {
		return err
	}
	genOpt, err := generatorOptions(cfg)
	if err != nil {
		return err
	}
	totals, err := consumption.LoadYearlyTotals(cfg.TotalsPath)
	if err != nil {
		return err
	}

	fOpt, err := forecasterOptions(cfg)
	if err != nil {
		return err
	}

	opt := akillisayac.NewDefaultPipelineOptions()
	opt.GeneratorOptions = genOpt
	opt.ForecasterOptions = fOpt
	opt.RecommendOptions.Location = fOpt.SeriesOptions.Location
	opt.AnomalyThreshold = cfg.AnomalyThreshold
	opt.Horizon = cfg.Horizon
	opt.Parallelization = cfg.Parallelization

	regions := configRegions(c, cfg)
	startedAt := time.Now()
	res, err := akillisayac.NewPipeline(opt).Run(context.Background(), regions, grid, totals)
	if err != nil {
		return err
	}
	logger.Info("pipeline complete",
		"regions", len(res.Regions),
		"hours", cfg.Hours,
		"elapsed", time.Since(startedAt),
	)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory, %w", err)
	}
	if err := res.Collection.SaveFile(filepath.Join(cfg.OutputDir, "consumption.csv")); err != nil {
		return err
	}

	masks := make(map[string]anomaly.Mask, len(res.Regions))
	for _, name := range res.Collection.Names {
		regionRes := res.Regions[name]
		masks[name] = regionRes.Anomalies

		slug := consumption.Normalize(name)
		if err := regionRes.Forecast.SaveCSV(filepath.Join(cfg.OutputDir, fmt.Sprintf("forecast_%s.csv", slug))); err != nil {
			return err
		}

		logger.Info("region complete",
			"region", name,
			"anomalies", regionRes.Anomalies.NumAnomalies(),
		)
		for _, s := range regionRes.Suggestions {
			fmt.Printf("%s: %s\n", name, s)
		}
	}

	if c.Bool("plot") {
		htmlPath := filepath.Join(cfg.OutputDir, "consumption.html")
		if err := akillisayac.PlotCollection(htmlPath, res.Collection, masks); err != nil {
			return err
		}
		logger.Info("wrote plot", "path", htmlPath)
	}
	return nil
}
