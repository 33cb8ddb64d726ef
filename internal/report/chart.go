package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders an interactive line chart of every agent's sensed and
// true leader distance over time.
func (c *Collector) WriteHTML(w io.Writer) error {
	if c.Steps() == 0 {
		return ErrNoData
	}

	xs := make([]string, len(c.Time))
	for i, t := range c.Time {
		xs[i] = fmt.Sprintf("%.2f", t)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pursuit distance", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Distance to leader", Subtitle: fmt.Sprintf("steps=%d agents=%d", c.Steps(), len(c.order))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "distance", NameLocation: "middle", NameGap: 30}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(xs)

	for _, s := range c.Series() {
		line.AddSeries(s.Name+" sensed", lineData(s.Sensed),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		line.AddSeries(s.Name+" true", lineData(s.True),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(true)}))
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteHTMLFile is WriteHTML into a new file at path.
func (c *Collector) WriteHTMLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := c.WriteHTML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func lineData(vs []float64) []opts.LineData {
	out := make([]opts.LineData, len(vs))
	for i, v := range vs {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
