package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kieramatiska/esm244-code1/pkg/chart"
	"github.com/kieramatiska/esm244-code1/pkg/dataset"
	"github.com/kieramatiska/esm244-code1/pkg/stats"
)

const frogSpecies = "RAMU" // mountain yellow-legged frog, Rana muscosa

var lifeStages = []string{"Adult", "SubAdult", "Tadpole"}

var amphibiansCmd = &cobra.Command{
	Use:   "amphibians",
	Short: "Render the Sierra Lakes amphibian survey bar charts",
	RunE:  runAmphibians,
}

func runAmphibians(cmd *cobra.Command, args []string) error {
	input := viper.GetString("amphibians.input")
	outdir := viper.GetString("amphibians.outdir")
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return err
	}

	frame, err := dataset.ReadCSV(input, dataset.Schema{Fields: []dataset.Field{
		{Name: "survey_date", Kind: dataset.Label},
		{Name: "lake_id", Kind: dataset.Label},
		{Name: "amphibian_species", Kind: dataset.Label},
		{Name: "amphibian_life_stage", Kind: dataset.Label},
		{Name: "amphibian_number", Kind: dataset.Numeric},
	}})
	if err != nil {
		return err
	}
	slog.Info("loaded survey", "input", input, "rows", frame.Len())

	species, _ := frame.Labels("amphibian_species")
	frogs := frame.Filter(func(i int) bool { return species[i] == frogSpecies })
	if frogs.Len() == 0 {
		return fmt.Errorf("no %s records in %s", frogSpecies, input)
	}

	counts, _ := frogs.Floats("amphibian_number")
	slog.Info("frog counts", "summary", stats.Describe("amphibian_number", counts).String())

	if err := yearChart(frogs, filepath.Join(outdir, "ramu_counts_by_year.png")); err != nil {
		return err
	}
	return topLakesChart(frogs, filepath.Join(outdir, "ramu_top_lakes.html"))
}

// yearChart draws total frog counts per year, one bar group per life
// stage, egg masses excluded.
func yearChart(frogs *dataset.Frame, path string) error {
	stages, _ := frogs.Labels("amphibian_life_stage")
	obs := frogs.Filter(func(i int) bool { return stages[i] != "EggMass" })

	dates, _ := obs.Labels("survey_date")
	years := make([]string, len(dates))
	for i, d := range dates {
		years[i] = yearOf(d)
	}
	stageCol, _ := obs.Labels("amphibian_life_stage")
	countCol, _ := obs.Floats("amphibian_number")
	byYear, err := dataset.New(
		dataset.Column{Name: "year", Kind: dataset.Label, Labels: years},
		dataset.Column{Name: "life_stage", Kind: dataset.Label, Labels: stageCol},
		dataset.Column{Name: "amphibian_number", Kind: dataset.Numeric, Floats: countCol},
	)
	if err != nil {
		return err
	}

	grouped, err := byYear.SumBy("amphibian_number", "year", "life_stage")
	if err != nil {
		return err
	}

	gYears, _ := grouped.Labels("year")
	gStages, _ := grouped.Labels("life_stage")
	gSums, _ := grouped.Floats("amphibian_number")

	categories := uniqueSorted(gYears)
	pos := make(map[string]int, len(categories))
	for i, y := range categories {
		pos[y] = i
	}
	series := make([]chart.Series, len(lifeStages))
	for si, stage := range lifeStages {
		series[si] = chart.Series{Name: stage, Values: make([]float64, len(categories))}
	}
	stageIdx := make(map[string]int, len(lifeStages))
	for i, s := range lifeStages {
		stageIdx[s] = i
	}
	for i := range gSums {
		si, ok := stageIdx[gStages[i]]
		if !ok {
			continue
		}
		series[si].Values[pos[gYears[i]]] = gSums[i]
	}

	if err := chart.BarPNG("Mountain yellow-legged frog counts by year",
		"Year", "Total observed", categories, series, path); err != nil {
		return err
	}
	slog.Info("wrote chart", "path", path)
	return nil
}

// topLakesChart draws the five lakes with the most adult and subadult
// frogs across the whole survey.
func topLakesChart(frogs *dataset.Frame, path string) error {
	stages, _ := frogs.Labels("amphibian_life_stage")
	grown := frogs.Filter(func(i int) bool {
		return stages[i] == "Adult" || stages[i] == "SubAdult"
	})

	byLake, err := grown.SumBy("amphibian_number", "lake_id")
	if err != nil {
		return err
	}
	sorted, err := byLake.SortByDesc("amphibian_number")
	if err != nil {
		return err
	}
	top := sorted.Head(5)

	ids, _ := top.Labels("lake_id")
	totals, _ := top.Floats("amphibian_number")
	categories := make([]string, len(ids))
	for i, id := range ids {
		categories[i] = "Lake " + id
	}

	err = chart.BarHTML("Top 5 lakes by adult and subadult frog counts",
		"Total observed across all survey years", categories,
		[]chart.Series{{Name: "Adult + SubAdult", Values: totals}}, path)
	if err != nil {
		return err
	}
	slog.Info("wrote chart", "path", path)
	return nil
}

// yearOf extracts the year from an ISO-style survey date like 2002-08-01.
func yearOf(date string) string {
	if i := strings.IndexByte(date, '-'); i > 0 {
		return date[:i]
	}
	return date
}

func uniqueSorted(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Strings(out)
	return out
}

func init() {
	amphibiansCmd.Flags().String("input", "data/sierra_amphibians.csv", "survey CSV path")
	amphibiansCmd.Flags().String("outdir", "out", "directory for rendered charts")
	cobra.CheckErr(viper.BindPFlag("amphibians.input", amphibiansCmd.Flags().Lookup("input")))
	cobra.CheckErr(viper.BindPFlag("amphibians.outdir", amphibiansCmd.Flags().Lookup("outdir")))
	rootCmd.AddCommand(amphibiansCmd)
}
