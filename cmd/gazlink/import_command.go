package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gazlink/internal/config"
	"gazlink/internal/ingest"
	"gazlink/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var gazPath string
	var dnbPath string
	var withOldAuth bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import gazetteer JSON and DNB JSON-LD dumps",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gazPath == "" && dnbPath == "" {
				return fmt.Errorf("at least one of --gaz or --dnb is required")
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()

				if dnbPath != "" {
					file, err := os.Open(dnbPath)
					if err != nil {
						return fmt.Errorf("open DNB dump: %w", err)
					}
					stats, err := ingest.ImportAuthority(cmd.Context(), file, st, withOldAuth, logger)
					file.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "DNB: imported %d, skipped %d, duplicates %d\n",
						stats.Imported, stats.Skipped, stats.Duplicates)
				}

				if gazPath != "" {
					file, err := os.Open(gazPath)
					if err != nil {
						return fmt.Errorf("open gazetteer dump: %w", err)
					}
					stats, err := ingest.ImportGazetteer(cmd.Context(), file, st, logger)
					file.Close()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Gazetteer: imported %d, skipped %d, duplicates %d\n",
						stats.Imported, stats.Skipped, stats.Duplicates)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&gazPath, "gaz", "g", "", "Path to gazetteer JSON file")
	cmd.Flags().StringVarP(&dnbPath, "dnb", "d", "", "Path to DNB JSON-LD file")
	cmd.Flags().BoolVarP(&withOldAuth, "old", "O", false, "Also import old authority numbers (DNB only)")
	return cmd
}
