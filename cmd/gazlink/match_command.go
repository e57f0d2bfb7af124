package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gazlink/internal/config"
	"gazlink/internal/match"
	"gazlink/internal/similarity"
	"gazlink/internal/store"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var thresholdFlag float64
	var workersFlag int

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the fuzzy matching engine",
		Long: `Match links authority labels against gazetteer labels by Jaro-Winkler
similarity and stores every pair scoring at or above the threshold. Each run
replaces the mode's previous results. Interrupting with Ctrl-C stops at the
next batch boundary and keeps already committed batches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := selectModes(modeFlag)
			if err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				threshold := cfg.Matching.Threshold
				if cmd.Flags().Changed("threshold") {
					threshold = thresholdFlag
				}
				workers := cfg.Matching.Workers
				if cmd.Flags().Changed("workers") {
					workers = workersFlag
				}

				scorer, err := similarity.ForName(cfg.Matching.Scorer)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				out := cmd.OutOrStdout()
				for _, mode := range modes {
					progress, finish := newProgressReporter(mode)

					runner, err := match.NewRunner(match.Options{
						Store:            st,
						Scorer:           scorer,
						Logger:           logger,
						Threshold:        threshold,
						BatchSize:        cfg.Matching.BatchSize,
						Workers:          workers,
						ProgressInterval: time.Duration(cfg.Matching.ProgressInterval) * time.Second,
						Transliterate:    cfg.Matching.Transliterate,
						Progress:         progress,
					})
					if err != nil {
						return err
					}

					summary, err := runner.Run(runCtx, mode)
					finish()
					if err != nil {
						return err
					}
					printSummary(out, summary)
					if summary.State == match.StateCancelled {
						break
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "both", "Matching mode: meta, names, or both")
	cmd.Flags().Float64VarP(&thresholdFlag, "threshold", "t", 0.8, "Jaro-Winkler threshold in [0, 1]")
	cmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Worker goroutines per page (0 uses the configured value)")
	return cmd
}

func selectModes(flag string) ([]store.Mode, error) {
	switch flag {
	case "meta":
		return []store.Mode{store.ModeMeta}, nil
	case "names":
		return []store.Mode{store.ModeNames}, nil
	case "both":
		return []store.Mode{store.ModeMeta, store.ModeNames}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q: expected meta, names, or both", flag)
	}
}

// newProgressReporter returns a runner progress callback backed by an
// interactive bar on a TTY and a no-op otherwise. Structured progress logs
// are emitted by the runner in either case.
func newProgressReporter(mode store.Mode) (func(match.Progress), func()) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil, func() {}
	}

	var bar *progressbar.ProgressBar
	report := func(p match.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions64(p.TotalPairs,
				progressbar.OptionSetDescription(fmt.Sprintf("matching %s", mode)),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		_ = bar.Set64(p.PairsExamined)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
			fmt.Println()
		}
	}
	return report, finish
}

func printSummary(out io.Writer, summary match.Summary) {
	fmt.Fprintf(out, "%s run %s: %s\n", summary.Mode, summary.RunID, summary.State)
	fmt.Fprintf(out, "  pairs examined: %d\n", summary.PairsExamined)
	fmt.Fprintf(out, "  matches written: %d (threshold %.2f)\n", summary.MatchesWritten, summary.Threshold)
	fmt.Fprintf(out, "  elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))
}
