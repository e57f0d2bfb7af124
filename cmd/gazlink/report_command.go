package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gazlink/internal/config"
	"gazlink/internal/export"
	"gazlink/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var sideFlag string
	var outputPath string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an HTML table of imported entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return fmt.Errorf("--output is required")
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				limit := cfg.Report.Limit
				if cmd.Flags().Changed("limit") {
					limit = limitFlag
				}

				var report export.Report
				switch sideFlag {
				case "dnb":
					rows, err := st.DnbEntityRows(cmd.Context(), limit)
					if err != nil {
						return err
					}
					report = export.NewDnbReport(rows, cfg.Report.Stylesheet)
				case "gaz":
					rows, err := st.GazEntityRows(cmd.Context(), limit)
					if err != nil {
						return err
					}
					report = export.NewGazReport(rows, cfg.Report.Stylesheet)
				default:
					return fmt.Errorf("unknown side %q: expected dnb or gaz", sideFlag)
				}

				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()

				if err := export.WriteHTMLReport(file, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entities to %s\n", len(report.Rows), outputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sideFlag, "side", "s", "dnb", "Entity table to report: dnb or gaz")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the HTML file")
	cmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "Maximum entities to include (0 uses the configured value)")
	return cmd
}
