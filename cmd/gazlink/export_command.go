package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gazlink/internal/config"
	"gazlink/internal/export"
	"gazlink/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var outputPath string
	var thresholdFlag float64
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored matches as pipe-delimited CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return fmt.Errorf("--output is required")
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				threshold := cfg.Export.Threshold
				if cmd.Flags().Changed("threshold") {
					threshold = thresholdFlag
				}
				limit := cfg.Export.Limit
				if cmd.Flags().Changed("limit") {
					limit = limitFlag
				}

				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()

				var rows int
				switch modeFlag {
				case "meta":
					data, err := st.MetaExportRows(cmd.Context(), threshold, limit)
					if err != nil {
						return err
					}
					if err := export.WriteMetaCSV(file, data); err != nil {
						return err
					}
					rows = len(data)
				case "names":
					data, err := st.NamesExportRows(cmd.Context(), threshold, limit)
					if err != nil {
						return err
					}
					if err := export.WriteNamesCSV(file, data); err != nil {
						return err
					}
					rows = len(data)
				default:
					return fmt.Errorf("unknown mode %q: expected meta or names", modeFlag)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rows, outputPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "meta", "Match table to export: meta or names")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the CSV file")
	cmd.Flags().Float64VarP(&thresholdFlag, "threshold", "t", 0.8, "Minimum score to export")
	cmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "Maximum rows to export (0 is unlimited)")
	return cmd
}
