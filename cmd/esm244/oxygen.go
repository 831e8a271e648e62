package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kieramatiska/esm244-code1/pkg/crossval"
	"github.com/kieramatiska/esm244-code1/pkg/dataset"
	"github.com/kieramatiska/esm244-code1/pkg/regress"
	"github.com/kieramatiska/esm244-code1/pkg/report"
	"github.com/kieramatiska/esm244-code1/pkg/stats"
)

// The two candidate models compared throughout the oxygen analysis.
var candidates = []regress.Formula{
	{
		Name:       "f1",
		Response:   "o2sat",
		Predictors: []string{"t_deg_c", "salinity", "po4u_m"},
	},
	{
		Name:       "f2",
		Response:   "o2sat",
		Predictors: []string{"t_deg_c", "salinity", "po4u_m", "depth_m"},
	},
}

var oxygenCmd = &cobra.Command{
	Use:   "oxygen",
	Short: "Compare two oxygen saturation models by AIC and k-fold RMSE",
	RunE:  runOxygen,
}

func runOxygen(cmd *cobra.Command, args []string) error {
	input := viper.GetString("oxygen.input")
	folds := viper.GetInt("oxygen.folds")
	seed := viper.GetInt64("oxygen.seed")
	xlsxPath := viper.GetString("oxygen.xlsx")

	runID := report.NewRunID()
	log := slog.With("run_id", runID)

	frame, err := dataset.ReadCSV(input, dataset.Schema{Fields: []dataset.Field{
		{Name: "o2sat", Kind: dataset.Numeric},
		{Name: "t_deg_c", Kind: dataset.Numeric},
		{Name: "salinity", Kind: dataset.Numeric},
		{Name: "depth_m", Kind: dataset.Numeric},
		{Name: "po4u_m", Kind: dataset.Numeric},
	}})
	if err != nil {
		return err
	}
	o2, _ := frame.Floats("o2sat")
	log.Info("loaded samples", "input", input, "rows", frame.Len())
	log.Debug("response", "summary", stats.Describe("o2sat", o2).String())

	// AIC on the full dataset, independent of the cross-validation.
	aics := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		fit, err := regress.Fit(frame, c)
		if err != nil {
			return err
		}
		aics[c.Name] = regress.AIC(fit)
		log.Debug("full fit", "model", c.Name, "rss", fit.RSS, "aic", aics[c.Name])
	}

	meanRMSE, failed, err := crossval.Run(frame, folds, seed, candidates)
	if err != nil {
		return err
	}
	for name, ferr := range failed {
		log.Error("candidate failed", "model", name, "err", ferr)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d candidate model(s) failed cross-validation", len(failed))
	}
	log.Info("cross-validation done", "folds", folds, "seed", seed)

	rows := make([]report.ModelComparison, len(candidates))
	for i, c := range candidates {
		rows[i] = report.ModelComparison{
			Model:    c.Name,
			Formula:  c.String(),
			AIC:      aics[c.Name],
			MeanRMSE: meanRMSE[c.Name],
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(rows))

	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, runID, folds, seed, rows); err != nil {
			return err
		}
		log.Info("wrote spreadsheet", "path", xlsxPath)
	}
	return nil
}

func init() {
	oxygenCmd.Flags().String("input", "data/calcofi_seawater.csv", "seawater sample CSV path")
	oxygenCmd.Flags().Int("folds", 10, "number of cross-validation folds")
	oxygenCmd.Flags().Int64("seed", 42, "seed for the fold assignment")
	oxygenCmd.Flags().String("xlsx", "", "optional spreadsheet export path")
	cobra.CheckErr(viper.BindPFlag("oxygen.input", oxygenCmd.Flags().Lookup("input")))
	cobra.CheckErr(viper.BindPFlag("oxygen.folds", oxygenCmd.Flags().Lookup("folds")))
	cobra.CheckErr(viper.BindPFlag("oxygen.seed", oxygenCmd.Flags().Lookup("seed")))
	cobra.CheckErr(viper.BindPFlag("oxygen.xlsx", oxygenCmd.Flags().Lookup("xlsx")))
	rootCmd.AddCommand(oxygenCmd)
}
