package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gazlink/internal/logging"
	"gazlink/internal/similarity"
	"gazlink/internal/store"
	"gazlink/internal/textutil"
)

// State tracks where a run is in its lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateDeleting    State = "deleting_prior_matches"
	StateEnumerating State = "enumerating"
	StateCompleted   State = "completed"
	StateCancelled   State = "cancelled"
	StateFailed      State = "failed"
)

// leftPageSize is how many authority labels are pulled per projection page.
const leftPageSize = 1024

// Progress is a periodic snapshot of a running match.
type Progress struct {
	Mode           store.Mode
	PairsExamined  int64
	TotalPairs     int64
	MatchesWritten int64
	Elapsed        time.Duration
	Remaining      time.Duration
	Percent        float64
}

// Summary is the result of one engine invocation.
type Summary struct {
	RunID          string
	Mode           store.Mode
	State          State
	Threshold      float64
	PairsExamined  int64
	MatchesWritten int64
	Elapsed        time.Duration
}

// Options configures a Runner.
type Options struct {
	Store            *store.Store
	Scorer           similarity.Scorer
	Logger           *slog.Logger
	Threshold        float64
	BatchSize        int
	Workers          int
	ProgressInterval time.Duration
	Transliterate    bool
	// Progress receives periodic snapshots; nil disables the callback.
	// Reporting is advisory and never gates correctness.
	Progress func(Progress)
}

// Runner executes match runs. One Runner serves one store; runs hold the
// store's exclusive run lock for their full duration.
type Runner struct {
	store            *store.Store
	scorer           similarity.Scorer
	logger           *slog.Logger
	threshold        float64
	batchSize        int
	workers          int
	progressInterval time.Duration
	transliterate    bool
	progress         func(Progress)
}

// afterBatchHook runs after every committed batch. Tests use it to trigger
// cancellation at a batch boundary.
var afterBatchHook func()

// NewRunner validates the options and builds a Runner. Invalid thresholds and
// missing collaborators are configuration errors; nothing has been mutated
// when they surface.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, Wrap(ErrConfiguration, "setup", "store is required", nil)
	}
	if opts.Scorer == nil {
		return nil, Wrap(ErrConfiguration, "setup", "scorer is required", nil)
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, Wrap(ErrConfiguration, "setup",
			fmt.Sprintf("threshold %v outside [0, 1]", opts.Threshold), nil)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10000
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 30 * time.Second
	}
	return &Runner{
		store:            opts.Store,
		scorer:           opts.Scorer,
		logger:           logging.NewComponentLogger(opts.Logger, "match"),
		threshold:        opts.Threshold,
		batchSize:        opts.BatchSize,
		workers:          opts.Workers,
		progressInterval: opts.ProgressInterval,
		transliterate:    opts.Transliterate,
		progress:         opts.Progress,
	}, nil
}

// Run executes one match run for the mode: delete the mode's prior matches,
// enumerate the full cross product of both projections, and batch-insert every
// pair scoring at or above the threshold. Cancellation is honored between
// batches; committed batches survive it.
func (r *Runner) Run(ctx context.Context, mode store.Mode) (Summary, error) {
	summary := Summary{Mode: mode, State: StateIdle, Threshold: r.threshold}
	if !mode.Valid() {
		summary.State = StateFailed
		return summary, Wrap(ErrConfiguration, "setup", fmt.Sprintf("unknown mode %q", mode), nil)
	}

	release, err := r.store.AcquireRunLock()
	if err != nil {
		summary.State = StateFailed
		return summary, Wrap(ErrConfiguration, "setup", "", err)
	}
	defer release()

	summary.RunID = uuid.NewString()
	logger := r.logger.With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldMode, string(mode)),
	)

	started := time.Now()
	if err := r.store.RecordRunStart(ctx, summary.RunID, mode, r.threshold); err != nil {
		summary.State = StateFailed
		return summary, Wrap(ErrStorage, "setup", "record run", err)
	}

	summary.State = StateDeleting
	logger.Info("deleting prior matches")
	deleted, err := r.store.DeleteMatches(ctx, mode)
	if err != nil {
		// The prior result set may now be partially deleted; the mode is
		// indeterminate until a rerun completes.
		return r.fail(ctx, summary, started, logger,
			Wrap(ErrStorage, "delete_prior_matches", "results for this mode are indeterminate, rerun required", err))
	}
	logger.Info("prior matches deleted", logging.Int64("deleted", deleted))

	summary.State = StateEnumerating
	right, err := r.rightSide(ctx, mode)
	if err != nil {
		return r.fail(ctx, summary, started, logger, Wrap(ErrStorage, "enumerating", "load gazetteer labels", err))
	}
	totalLeft, err := r.store.CountDnbLabels(ctx, mode)
	if err != nil {
		return r.fail(ctx, summary, started, logger, Wrap(ErrStorage, "enumerating", "count authority labels", err))
	}
	totalPairs := totalLeft * int64(len(right))

	if totalPairs == 0 {
		// An empty projection on either side is not an error: the run
		// completes with zero pairs and an empty result set for the mode.
		summary.State = StateCompleted
		summary.Elapsed = time.Since(started)
		logger.Info("nothing to match",
			logging.Int64("left_labels", totalLeft),
			logging.Int("right_labels", len(right)))
		if err := r.store.FinishRun(ctx, summary.RunID, store.RunCompleted, 0, 0); err != nil {
			logger.Warn("failed to record run completion", logging.Error(err))
		}
		return summary, nil
	}

	logger.Info("matching started",
		logging.Int64("left_labels", totalLeft),
		logging.Int("right_labels", len(right)),
		logging.Int64("candidate_pairs", totalPairs),
		logging.Float64("threshold", r.threshold),
		logging.Int("workers", r.workers))

	err = r.enumerate(ctx, mode, right, totalPairs, started, logger, &summary)
	summary.Elapsed = time.Since(started)

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		summary.State = StateCancelled
		logger.Warn("run cancelled",
			logging.Int64("pairs_examined", summary.PairsExamined),
			logging.Int64("matches_written", summary.MatchesWritten))
		if finishErr := r.store.FinishRun(context.WithoutCancel(ctx), summary.RunID,
			store.RunCancelled, summary.PairsExamined, summary.MatchesWritten); finishErr != nil {
			logger.Warn("failed to record cancellation", logging.Error(finishErr))
		}
		return summary, nil
	case err != nil:
		return r.fail(ctx, summary, started, logger, Wrap(ErrStorage, "enumerating", "", err))
	}

	summary.State = StateCompleted
	if err := r.store.FinishRun(ctx, summary.RunID, store.RunCompleted,
		summary.PairsExamined, summary.MatchesWritten); err != nil {
		logger.Warn("failed to record run completion", logging.Error(err))
	}
	logger.Info("matching completed",
		logging.Int64("pairs_examined", summary.PairsExamined),
		logging.Int64("matches_written", summary.MatchesWritten),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func (r *Runner) fail(ctx context.Context, summary Summary, started time.Time, logger *slog.Logger, runErr error) (Summary, error) {
	summary.State = StateFailed
	summary.Elapsed = time.Since(started)
	logger.Error("run failed",
		logging.Error(runErr),
		logging.Int64("pairs_examined", summary.PairsExamined),
		logging.Int64("matches_written", summary.MatchesWritten))
	if summary.RunID != "" {
		if err := r.store.FinishRun(context.WithoutCancel(ctx), summary.RunID,
			store.RunFailed, summary.PairsExamined, summary.MatchesWritten); err != nil {
			logger.Warn("failed to record run failure", logging.Error(err))
		}
	}
	return summary, runErr
}

// rightSide materializes the gazetteer projection once; the enumerator
// re-walks it per authority label. Memory stays bounded by one side.
func (r *Runner) rightSide(ctx context.Context, mode store.Mode) ([]store.Label, error) {
	labels, err := r.store.GazLabels(ctx, mode)
	if err != nil {
		return nil, err
	}
	if r.transliterate {
		for i := range labels {
			labels[i].Text = textutil.Transliterate(labels[i].Text)
		}
	}
	return labels, nil
}

func (r *Runner) enumerate(ctx context.Context, mode store.Mode, right []store.Label,
	totalPairs int64, started time.Time, logger *slog.Logger, summary *Summary) error {

	sampler := logging.NewProgressSampler(5)
	lastEmit := started
	pending := make([]store.MatchRecord, 0, r.batchSize)
	afterID := int64(0)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := r.store.InsertMatchBatch(ctx, mode, pending); err != nil {
			return err
		}
		summary.MatchesWritten += int64(len(pending))
		pending = pending[:0]
		if afterBatchHook != nil {
			afterBatchHook()
		}
		return nil
	}

	for {
		// Cancellation is cooperative: checked here and after each batch
		// commit, never inside the pair loop.
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := r.store.DnbLabelPage(ctx, mode, afterID, leftPageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		afterID = page[len(page)-1].ID
		if r.transliterate {
			for i := range page {
				page[i].Text = textutil.Transliterate(page[i].Text)
			}
		}

		matches := evaluatePage(page, right, r.scorer, r.threshold, r.workers)
		summary.PairsExamined += int64(len(page)) * int64(len(right))

		for _, record := range matches {
			pending = append(pending, record)
			if len(pending) >= r.batchSize {
				if err := flush(); err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}

		if time.Since(lastEmit) >= r.progressInterval {
			lastEmit = time.Now()
			r.emitProgress(mode, totalPairs, started, logger, sampler, summary)
		}
	}

	return flush()
}

func (r *Runner) emitProgress(mode store.Mode, totalPairs int64, started time.Time,
	logger *slog.Logger, sampler *logging.ProgressSampler, summary *Summary) {

	elapsed := time.Since(started)
	percent := float64(-1)
	remaining := time.Duration(-1)
	if totalPairs > 0 {
		percent = float64(summary.PairsExamined) / float64(totalPairs) * 100
		if summary.PairsExamined > 0 {
			perPair := elapsed / time.Duration(summary.PairsExamined)
			remaining = perPair * time.Duration(totalPairs-summary.PairsExamined)
		}
	}

	snapshot := Progress{
		Mode:           mode,
		PairsExamined:  summary.PairsExamined,
		TotalPairs:     totalPairs,
		MatchesWritten: summary.MatchesWritten,
		Elapsed:        elapsed,
		Remaining:      remaining,
		Percent:        percent,
	}
	if r.progress != nil {
		r.progress(snapshot)
	}
	if sampler.ShouldLog(percent) {
		logger.Info("matching progress",
			logging.Int64("pairs_examined", snapshot.PairsExamined),
			logging.Int64("candidate_pairs", snapshot.TotalPairs),
			logging.Int64("matches_written", snapshot.MatchesWritten),
			logging.Float64("percent", percent),
			logging.Duration("elapsed", elapsed),
			logging.Duration("remaining", remaining))
	}
}
