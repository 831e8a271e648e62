package chart

import (
	"errors"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BarHTML renders the same kind of bar chart as BarPNG into a
// self-contained HTML page with interactive tooltips.
func BarHTML(title, subtitle string, categories []string, series []Series, path string) error {
	if len(series) == 0 {
		return errors.New("chart: no series to plot")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
	)
	bar.SetXAxis(categories)
	for _, s := range series {
		items := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			items[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, items)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
