// Package chart renders the survey bar charts, to PNG via gonum/plot and
// to standalone HTML via go-echarts.
package chart

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is one named group of bar heights, aligned with the categories.
type Series struct {
	Name   string
	Values []float64
}

var palette = []color.RGBA{
	{R: 68, G: 119, B: 170, A: 255},
	{R: 238, G: 102, B: 119, A: 255},
	{R: 34, G: 136, B: 51, A: 255},
	{R: 204, G: 187, B: 68, A: 255},
}

// BarPNG draws a grouped bar chart and saves it as a PNG file. Each series
// gets its own offset within a category so groups sit side by side.
func BarPNG(title, xLabel, yLabel string, categories []string, series []Series, path string) error {
	if len(series) == 0 {
		return errors.New("chart: no series to plot")
	}
	for _, s := range series {
		if len(s.Values) != len(categories) {
			return errors.New("chart: series length does not match categories")
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	w := vg.Points(14)
	for i, s := range series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), w)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = palette[i%len(palette)]
		bars.Offset = w * vg.Length(float64(i)-float64(len(series)-1)/2)
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.Legend.Top = true
	p.NominalX(categories...)

	return p.Save(7*vg.Inch, 4*vg.Inch, path)
}
