package match

import (
	"sync"

	"gazlink/internal/similarity"
	"gazlink/internal/store"
)

// evaluatePage scores the full cross product of one authority-label page
// against the gazetteer side and returns the records at or above threshold.
// With workers > 1 the page is sharded into contiguous slices; results are
// concatenated in shard order, so the emitted order matches the sequential
// walk regardless of worker count.
func evaluatePage(left, right []store.Label, scorer similarity.Scorer, threshold float64, workers int) []store.MatchRecord {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	if workers <= 1 || len(left) < workers {
		return evaluateSlice(left, right, scorer, threshold)
	}

	chunkSize := (len(left) + workers - 1) / workers
	results := make([][]store.MatchRecord, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(left) {
			break
		}
		end := start + chunkSize
		if end > len(left) {
			end = len(left)
		}
		wg.Add(1)
		go func(shard int, slice []store.Label) {
			defer wg.Done()
			results[shard] = evaluateSlice(slice, right, scorer, threshold)
		}(w, left[start:end])
	}
	wg.Wait()

	var merged []store.MatchRecord
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

func evaluateSlice(left, right []store.Label, scorer similarity.Scorer, threshold float64) []store.MatchRecord {
	var records []store.MatchRecord
	for _, l := range left {
		for _, r := range right {
			score := scorer.Score(l.Text, r.Text)
			if score >= threshold {
				records = append(records, store.MatchRecord{DnbID: l.ID, GazID: r.ID, Score: score})
			}
		}
	}
	return records
}
