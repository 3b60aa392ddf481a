package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultPalette colors categories in order when no explicit color is given.
var DefaultPalette = []string{"#332288", "#029542", "#88ccee", "#ff7f0e", "#aa4499", "#999933"}

// Figure selects the columns and labels of a scatter plot.
type Figure struct {
	// Classify names the column whose values group points into series.
	Classify string
	X, Y, Z  string

	XLabel, YLabel, ZLabel string
	Title                  string

	// Palette maps a category to a color. Missing categories use DefaultPalette.
	Palette map[string]string
}

func (s Figure) label(col, label string) string {
	if label != "" {
		return label
	}
	return col
}

// Validate checks that every referenced column exists.
func (s Figure) Validate(res *Results) error {
	for _, col := range []string{s.Classify, s.X, s.Y, s.Z} {
		if col == "" {
			continue
		}
		if !res.HasColumn(col) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	return nil
}

func (s Figure) colors(categories []string) map[string]string {
	out := make(map[string]string, len(categories))
	for i, c := range categories {
		if col, ok := s.Palette[c]; ok {
			out[c] = col
			continue
		}
		out[c] = DefaultPalette[i%len(DefaultPalette)]
	}
	return out
}

// axisValue returns a numeric coordinate; non-numeric columns such as the
// classification map to the category index.
func axisValue(row map[string]string, column string, categories map[string]int) float64 {
	v := Float(row, column)
	if !math.IsNaN(v) {
		return v
	}
	if idx, ok := categories[row[column]]; ok && row[column] != "" {
		return float64(idx)
	}
	return math.NaN()
}

type series struct {
	name   string
	points [][3]float64
}

func group(res *Results, fig Figure) []series {
	categories := res.Categories(fig.Classify)
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	out := make([]series, len(categories))
	for i, c := range categories {
		out[i].name = c
	}
	for _, row := range res.Rows {
		p := [3]float64{
			axisValue(row, fig.X, index),
			axisValue(row, fig.Y, index),
			axisValue(row, fig.Z, index),
		}
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsNaN(p[2]) {
			continue
		}
		i := index[row[fig.Classify]]
		out[i].points = append(out[i].points, p)
	}
	return out
}

// Scatter3D renders an interactive 3D scatter with one series per category.
// Rows with a missing coordinate are left out.
func Scatter3D(res *Results, fig Figure, w io.Writer) error {
	if err := fig.Validate(res); err != nil {
		return err
	}

	groups := group(res, fig)
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.name
	}
	colors := fig.colors(names)

	chart := charts.NewScatter3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: fig.Title, Width: "1000px", Height: "1000px"}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: fig.label(fig.X, fig.XLabel)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: fig.label(fig.Y, fig.YLabel)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: fig.label(fig.Z, fig.ZLabel)}),
	)

	for _, g := range groups {
		data := make([]opts.Chart3DData, 0, len(g.points))
		for _, p := range g.points {
			data = append(data, opts.Chart3DData{Value: []interface{}{p[0], p[1], p[2]}})
		}
		chart.AddSeries(g.name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[g.name]}))
	}

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render 3D scatter: %w", err)
	}
	return nil
}

// ScatterPNG saves a 2D scatter of the Y and Z columns as an image. The
// format follows the file extension.
func ScatterPNG(res *Results, fig Figure, path string) error {
	if err := fig.Validate(res); err != nil {
		return err
	}

	groups := group(res, fig)
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.name
	}
	colors := fig.colors(names)

	p := gonumplot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.label(fig.Y, fig.YLabel)
	p.Y.Label.Text = fig.label(fig.Z, fig.ZLabel)
	p.Add(plotter.NewGrid())

	for _, g := range groups {
		if len(g.points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(g.points))
		for i, pt := range g.points {
			pts[i] = plotter.XY{X: pt[1], Y: pt[2]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to create scatter for %s: %w", g.name, err)
		}
		sc.GlyphStyle.Color = parseHex(colors[g.name])
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		p.Add(sc)
		p.Legend.Add(g.name, sc)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save scatter: %w", err)
	}
	return nil
}

// parseHex converts "#rrggbb" to a color. Anything else is black.
func parseHex(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
