package akillisayac

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/enescosk/akillisayac/anomaly"
	"github.com/enescosk/akillisayac/consumption"
	"github.com/enescosk/akillisayac/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTSeries generates an echart multi-line chart for some arbitrary
// time/value combination. The input y is a slice of series that must have the
// same length as the input time slice.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				// echarts renders "-" as a gap
				lineData[i] = append(lineData[i], opts.LineData{Value: "-"})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}

	return line
}

// LineForecast generates an echart line chart for a forecast table plotting
// the observed values along with the forecasted, upper, and lower values.
func LineForecast(trainingData *timedataset.TimeDataset, tb *Table) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Consumption Forecast",
			},
		),
	)

	lineDataActual := make([]opts.LineData, 0, len(tb.T))
	lineDataForecast := make([]opts.LineData, 0, len(tb.T))
	lineDataUpper := make([]opts.LineData, 0, len(tb.T))
	lineDataLower := make([]opts.LineData, 0, len(tb.T))

	for i := 0; i < len(tb.T); i++ {
		if i < len(trainingData.Y) {
			lineDataActual = append(lineDataActual, opts.LineData{Value: trainingData.Y[i]})
		} else {
			lineDataActual = append(lineDataActual, opts.LineData{Value: "-"})
		}
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: tb.Forecast[i]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: tb.Upper[i]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: tb.Lower[i]})
	}

	line.SetXAxis(tb.T).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// LineCollection charts every region of a collection with flagged anomalies
// overlaid as scatter points. The masks map may be nil or partial.
func LineCollection(c *consumption.Collection, masks map[string]anomaly.Mask) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Hourly Consumption",
			},
		),
	)

	line = line.SetXAxis(c.T)
	for _, name := range c.Names {
		y := c.Values[name]
		lineData := make([]opts.LineData, 0, len(y))
		for _, v := range y {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(name, lineData)
	}

	scatter := charts.NewScatter()
	scatter = scatter.SetXAxis(c.T)
	for _, name := range c.Names {
		mask := masks[name]
		if mask.NumAnomalies() == 0 {
			continue
		}
		y := c.Values[name]
		scatterData := make([]opts.ScatterData, 0, len(y))
		for i, v := range y {
			if i < len(mask) && mask[i] {
				scatterData = append(scatterData, opts.ScatterData{Value: v, SymbolSize: 10})
				continue
			}
			scatterData = append(scatterData, opts.ScatterData{Value: "-"})
		}
		scatter = scatter.AddSeries(name+" anomalies", scatterData)
	}
	line.Overlap(scatter)

	return line
}

// PlotFit writes an html file showing the fit over the training window plus
// horizon hourly steps, along with the fit residual.
func (f *Forecaster) PlotFit(path string, horizon int) error {
	if !f.trained {
		return ErrUntrainedForecaster
	}
	if horizon <= 0 {
		horizon = f.opt.Horizon
	}

	tb, err := f.Forecast(horizon)
	if err != nil {
		return fmt.Errorf("unable to forecast for plot, %w", err)
	}

	td := f.TrainingData()
	residuals := f.Residuals()
	for i := 0; i < horizon; i++ {
		residuals = append(residuals, math.NaN())
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(td, tb),
		LineTSeries(
			"Fit Residual",
			[]string{"Residual"},
			tb.T,
			[][]float64{residuals},
		),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

// PlotCollection writes an html file charting a collection with anomalies
// marked.
func PlotCollection(path string, c *consumption.Collection, masks map[string]anomaly.Mask) error {
	page := components.NewPage()
	page.AddCharts(LineCollection(c, masks))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
