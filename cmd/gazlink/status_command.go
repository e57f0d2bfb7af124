package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gazlink/internal/config"
	"gazlink/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show entity, label, and match counts plus recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				counts, err := st.Counts(cmd.Context())
				if err != nil {
					return err
				}
				runs, err := st.ListRuns(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n\n", st.Path())

				fmt.Fprintln(out, renderTable(
					[]string{"Table", "Rows"},
					[][]string{
						{"Gazetteer entities", formatCount(counts.GazEntities)},
						{"Gazetteer name variants", formatCount(counts.GazNames)},
						{"DNB entities", formatCount(counts.DnbEntities)},
						{"DNB name variants", formatCount(counts.DnbNames)},
						{"Meta matches", formatCount(counts.MetaMatches)},
						{"Name matches", formatCount(counts.NameMatches)},
					},
					1,
				))

				if len(runs) == 0 {
					fmt.Fprintln(out, "\nNo recorded runs.")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						string(run.Mode),
						strconv.FormatFloat(run.Threshold, 'f', 2, 64),
						string(run.Status),
						formatCount(run.PairsExamined),
						formatCount(run.MatchesWritten),
						run.StartedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Mode", "Threshold", "Status", "Pairs", "Matches", "Started"},
					rows,
					4, 5,
				))
				return nil
			})
		},
	}
}

func formatCount(value int64) string {
	return strconv.FormatInt(value, 10)
}
