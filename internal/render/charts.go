package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/features"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/report"
)

type ChartConfig struct {
	Width  string
	Height string
	Theme  string
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{Width: "900px", Height: "600px", Theme: "light"}
}

type renderer interface {
	Render(w io.Writer) error
}

func writeChart(c renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := c.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func unitIndicators(names ...string) []*opts.Indicator {
	out := make([]*opts.Indicator, 0, len(names))
	for _, n := range names {
		out = append(out, &opts.Indicator{Name: n, Min: 0, Max: 1})
	}
	return out
}

// FingerprintRadar draws one polygon per scenario over the normalized fingerprint axes.
func FingerprintRadar(clusters []report.StrategyCluster, cfg ChartConfig) *charts.Radar {
	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: cfg.Width, Height: cfg.Height, Theme: cfg.Theme}),
		charts.WithTitleOpts(opts.Title{Title: "Scenario fingerprints"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: unitIndicators("early aggression", "draft volatility", "teamfightiness"),
			Shape:     "polygon",
		}),
	)
	for _, c := range clusters {
		name := fmt.Sprintf("Scenario %d", c.ScenarioID)
		fp := c.Fingerprint
		radar.AddSeries(name, []opts.RadarData{{
			Name:  name,
			Value: []float64{fp.EarlyAggression, fp.DraftVolatility, fp.Teamfightiness},
		}})
	}
	return radar
}

// StyleRadar compares team and opponent on the style triangle.
func StyleRadar(st features.StyleTriangle, cfg ChartConfig) *charts.Radar {
	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: cfg.Width, Height: cfg.Height, Theme: cfg.Theme}),
		charts.WithTitleOpts(opts.Title{Title: "Style triangle"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: unitIndicators("aggression", "control", "flexibility"),
			Shape:     "polygon",
		}),
	)
	for _, side := range []struct {
		name string
		axes features.StyleAxes
	}{
		{"team", st.Team},
		{"opponent", st.Opponent},
	} {
		radar.AddSeries(side.name, []opts.RadarData{{
			Name:  side.name,
			Value: []float64{side.axes.Aggression, side.axes.Control, side.axes.Flexibility},
		}})
	}
	return radar
}

// CounterHeatMap plots smoothed winrates of our picks (x) against their picks (y).
// Cells without history are drawn as "-".
func CounterHeatMap(role string, m report.CounterMatrix, cfg ChartConfig) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: cfg.Width, Height: cfg.Height, Theme: cfg.Theme}),
		charts.WithTitleOpts(opts.Title{Title: "Counter matrix", Subtitle: role}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "our pick"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "their pick", Data: m.Rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#EE6666", "#FAC858", "#91CC75"}},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(m.Rows)*len(m.Cols))
	for y, row := range m.Cells {
		for x, cell := range row {
			var v any = "-"
			if cell.Winrate != nil {
				v = *cell.Winrate
			}
			data = append(data, opts.HeatMapData{Value: [3]any{x, y, v}})
		}
	}
	hm.SetXAxis(m.Cols).AddSeries("winrate", data)
	return hm
}

// WriteCharts renders every chart for rep into dir and returns the written paths.
func WriteCharts(rep *report.Report, dir string, cfg ChartConfig) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts dir: %w", err)
	}

	var written []string
	write := func(c renderer, name string) error {
		path := filepath.Join(dir, name)
		if err := writeChart(c, path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if len(rep.Visualization.StrategyClusters) > 0 {
		if err := write(FingerprintRadar(rep.Visualization.StrategyClusters, cfg), "scenario_fingerprints.html"); err != nil {
			return written, err
		}
	}
	if err := write(StyleRadar(rep.Insights.StyleTriangle, cfg), "style_triangle.html"); err != nil {
		return written, err
	}
	for _, role := range rep.Visualization.CounterMatrixRoles {
		m := rep.Visualization.CounterMatrix[role]
		if len(m.Rows) == 0 || len(m.Cols) == 0 {
			continue
		}
		if err := write(CounterHeatMap(role, m, cfg), "counter_matrix_"+fileSafe(role)+".html"); err != nil {
			return written, err
		}
	}
	return written, nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
