package match_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gazlink/internal/config"
	"gazlink/internal/logging"
	"gazlink/internal/match"
	"gazlink/internal/similarity"
	"gazlink/internal/store"
	"gazlink/internal/testsupport"
)

func newTestRunner(t *testing.T, st *store.Store, threshold float64) *match.Runner {
	t.Helper()
	return newTestRunnerOpts(t, st, match.Options{Threshold: threshold})
}

func newTestRunnerOpts(t *testing.T, st *store.Store, opts match.Options) *match.Runner {
	t.Helper()
	opts.Store = st
	if opts.Scorer == nil {
		opts.Scorer = similarity.Func(similarity.JaroWinkler)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.ProgressInterval == 0 {
		opts.ProgressInterval = time.Millisecond
	}
	runner, err := match.NewRunner(opts)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func seedScenario(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedGazPlace(t, st, "gaz-berlin", "Berlin")
	testsupport.SeedGazPlace(t, st, "gaz-freiburg", "Freiburg")
	testsupport.SeedAuthorityPlace(t, st, "dnb-berlin", "Berlin")
	testsupport.SeedAuthorityPlace(t, st, "dnb-freyburg", "Freyburg")
	return st
}

func TestMetaRunEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := seedScenario(t, cfg)
	runner := newTestRunner(t, st, 0.8)

	summary, err := runner.Run(context.Background(), store.ModeMeta)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.State != match.StateCompleted {
		t.Fatalf("expected completed state, got %s", summary.State)
	}
	if summary.PairsExamined != 4 {
		t.Fatalf("expected 2x2 pairs examined, got %d", summary.PairsExamined)
	}

	// The expected record set follows from the metric itself: a pair is
	// persisted exactly when its score reaches the threshold.
	texts := map[int64]string{1: "Berlin", 2: "Freyburg"} // dnb_meta ids
	gazTexts := map[int64]string{1: "Berlin", 2: "Freiburg"}
	expected := 0
	for _, dnb := range texts {
		for _, gaz := range gazTexts {
			if similarity.JaroWinkler(dnb, gaz) >= 0.8 {
				expected++
			}
		}
	}

	records, err := st.Matches(context.Background(), store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}
	if len(records) != expected {
		t.Fatalf("expected %d records, got %d: %+v", expected, len(records), records)
	}
	if summary.MatchesWritten != int64(expected) {
		t.Fatalf("summary reports %d written, store has %d", summary.MatchesWritten, expected)
	}

	foundIdentical := false
	for _, record := range records {
		if record.Score < 0.8 || record.Score > 1.0 {
			t.Fatalf("score %v outside [0.8, 1.0]", record.Score)
		}
		if texts[record.DnbID] == "Berlin" && gazTexts[record.GazID] == "Berlin" {
			foundIdentical = true
			if record.Score != 1.0 {
				t.Fatalf("identical labels must score 1.0, got %v", record.Score)
			}
		}
	}
	if !foundIdentical {
		t.Fatal("expected a Berlin/Berlin record")
	}
}

func TestRerunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := seedScenario(t, cfg)
	runner := newTestRunner(t, st, 0.8)

	ctx := context.Background()
	if _, err := runner.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	if _, err := runner.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("rerun changed record count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rerun changed record %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestHigherThresholdYieldsSubset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := seedScenario(t, cfg)
	ctx := context.Background()

	loose := newTestRunner(t, st, 0.5)
	if _, err := loose.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("loose run failed: %v", err)
	}
	looseRecords, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	strict := newTestRunner(t, st, 0.95)
	if _, err := strict.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("strict run failed: %v", err)
	}
	strictRecords, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	looseSet := make(map[store.MatchRecord]bool, len(looseRecords))
	for _, record := range looseRecords {
		looseSet[record] = true
	}
	for _, record := range strictRecords {
		if !looseSet[record] {
			t.Fatalf("strict record %+v missing from loose result set", record)
		}
	}
	if len(strictRecords) > len(looseRecords) {
		t.Fatalf("strict run produced more records (%d) than loose run (%d)", len(strictRecords), len(looseRecords))
	}
}

func TestNamesModeScoresEveryVariantPair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedGazPlace(t, st, "gaz-1", "Berlin", "Berlin", "Berolina")
	testsupport.SeedAuthorityPlace(t, st, "dnb-1", "Berlin", "Berlin", "Berolina")

	runner := newTestRunner(t, st, 0.99)
	summary, err := runner.Run(context.Background(), store.ModeNames)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.PairsExamined != 4 {
		t.Fatalf("expected 2x2 variant pairs, got %d", summary.PairsExamined)
	}
	// Berlin/Berlin and Berolina/Berolina both score 1.0; each variant pair
	// above threshold produces its own record, no per-entity deduplication.
	if summary.MatchesWritten != 2 {
		t.Fatalf("expected 2 records, got %d", summary.MatchesWritten)
	}
}

func TestEmptyProjectionCompletesWithZeroPairs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedGazPlace(t, st, "gaz-1", "Berlin")
	// No authority entities at all.

	runner := newTestRunner(t, st, 0.8)
	summary, err := runner.Run(context.Background(), store.ModeMeta)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.State != match.StateCompleted {
		t.Fatalf("expected completed state, got %s", summary.State)
	}
	if summary.PairsExamined != 0 || summary.MatchesWritten != 0 {
		t.Fatalf("expected zero work, got %+v", summary)
	}
}

func TestRunReplacesPriorResultsEvenWhenEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedGazPlace(t, st, "gaz-1", "Berlin")
	testsupport.SeedAuthorityPlace(t, st, "dnb-1", "Hamburg")

	ctx := context.Background()
	// Stale record from an earlier hypothetical run.
	if err := st.InsertMatchBatch(ctx, store.ModeMeta, []store.MatchRecord{{DnbID: 1, GazID: 1, Score: 0.9}}); err != nil {
		t.Fatalf("seed stale match: %v", err)
	}

	runner := newTestRunner(t, st, 0.99)
	if _, err := runner.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count, err := st.CountMatches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("CountMatches failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected stale results replaced by empty set, got %d rows", count)
	}
}

func TestInvalidThresholdIsConfigurationError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	for _, threshold := range []float64{-0.1, 1.1} {
		_, err := match.NewRunner(match.Options{
			Store:     st,
			Scorer:    similarity.Func(similarity.JaroWinkler),
			Threshold: threshold,
		})
		if !errors.Is(err, match.ErrConfiguration) {
			t.Fatalf("threshold %v: expected ErrConfiguration, got %v", threshold, err)
		}
	}
}

func TestUnknownModeIsConfigurationError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	runner := newTestRunner(t, st, 0.8)

	summary, err := runner.Run(context.Background(), store.Mode("labels"))
	if !errors.Is(err, match.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if summary.State != match.StateFailed {
		t.Fatalf("expected failed state, got %s", summary.State)
	}
}

func TestTransliterationBridgesDiacritics(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedGazPlace(t, st, "gaz-1", "Fribourg")
	testsupport.SeedAuthorityPlace(t, st, "dnb-1", "Fríbourg")

	ctx := context.Background()
	plain := newTestRunnerOpts(t, st, match.Options{Threshold: 0.999})
	if _, err := plain.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("plain run failed: %v", err)
	}
	count, err := st.CountMatches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("CountMatches failed: %v", err)
	}
	if count != 0 {
		t.Fatal("codepoint-exact comparison should not match distinct diacritics at 0.999")
	}

	folded := newTestRunnerOpts(t, st, match.Options{Threshold: 0.999, Transliterate: true})
	summary, err := folded.Run(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("transliterated run failed: %v", err)
	}
	if summary.MatchesWritten != 1 {
		t.Fatalf("expected transliterated labels to match, got %d records", summary.MatchesWritten)
	}
}

func TestWorkersProduceIdenticalResults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	names := []string{"Berlin", "Freiburg", "Hamburg", "München", "Dresden", "Leipzig", "Potsdam"}
	for i, name := range names {
		testsupport.SeedGazPlace(t, st, "gaz-"+name, name)
		testsupport.SeedAuthorityPlace(t, st, "dnb-"+name, names[(i+1)%len(names)])
	}

	ctx := context.Background()
	sequential := newTestRunnerOpts(t, st, match.Options{Threshold: 0.5})
	if _, err := sequential.Run(ctx, store.ModeMeta); err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}
	baseline, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	parallel := newTestRunnerOpts(t, st, match.Options{Threshold: 0.5, Workers: 4})
	summary, err := parallel.Run(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}
	sharded, err := st.Matches(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}

	if summary.PairsExamined != int64(len(names)*len(names)) {
		t.Fatalf("expected %d pairs, got %d", len(names)*len(names), summary.PairsExamined)
	}
	if len(baseline) != len(sharded) {
		t.Fatalf("worker count changed result size: %d vs %d", len(baseline), len(sharded))
	}
	for i := range baseline {
		if baseline[i] != sharded[i] {
			t.Fatalf("worker count changed record %d: %+v vs %+v", i, baseline[i], sharded[i])
		}
	}
}

func TestRunIsRecorded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := seedScenario(t, cfg)
	runner := newTestRunner(t, st, 0.8)

	ctx := context.Background()
	summary, err := runner.Run(ctx, store.ModeMeta)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	run := runs[0]
	if run.RunID != summary.RunID || run.Status != store.RunCompleted {
		t.Fatalf("unexpected run record: %+v", run)
	}
	if run.PairsExamined != summary.PairsExamined || run.MatchesWritten != summary.MatchesWritten {
		t.Fatalf("run counters diverge from summary: %+v vs %+v", run, summary)
	}
}
