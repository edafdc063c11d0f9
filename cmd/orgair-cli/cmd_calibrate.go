package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/calibrate"
)

var errCalibrationDrift = errors.New("calibration drift: scores outside expected ranges")

func newCalibrateCmd(root *rootOptions) *cobra.Command {
	var asJSON, markdown bool
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Score the reference companies and check their expected ranges",
		Long: `Calibrate scores the five reference companies with the configured model
and exits non-zero if any lands outside its expected Org-AI-R range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			report, err := calibrate.Run(engine, calibrate.Scenarios())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report, markdown)
			}
			if !report.OK() {
				return errCalibrationDrift
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the table as Markdown")
	return cmd
}

func printReport(cmd *cobra.Command, report calibrate.Report, markdown bool) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Ticker", "Sector", "Org-AI-R", "95% CI", "Expected", "Band", "Result"})
	for _, o := range report.Outcomes {
		result := "PASS"
		if !o.Pass {
			result = "FAIL"
		}
		tw.AppendRow(table.Row{
			o.Ticker,
			o.Sector,
			fmt.Sprintf("%.2f", o.OrgAIR),
			fmt.Sprintf("[%.2f, %.2f]", o.CI.Lower, o.CI.Upper),
			fmt.Sprintf("%.0f-%.0f", o.Expected.Min, o.Expected.Max),
			o.Band,
			result,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	out := cmd.OutOrStdout()
	if markdown {
		fmt.Fprintln(out, tw.RenderMarkdown())
	} else {
		fmt.Fprintln(out, tw.Render())
	}
	fmt.Fprintf(out, "\n%d passed, %d failed\n", report.Passed, report.Failed)
}
