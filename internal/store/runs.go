package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecordRunStart inserts a running match_runs row for the invocation.
func (s *Store) RecordRunStart(ctx context.Context, runID string, mode Mode, threshold float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_runs (run_id, mode, threshold, status, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		runID, string(mode), threshold, string(RunRunning), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// FinishRun stamps the run's terminal status and final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, pairsExamined, matchesWritten int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE match_runs
         SET status = ?, pairs_examined = ?, matches_written = ?, finished_at = ?
         WHERE run_id = ?`,
		string(status), pairsExamined, matchesWritten,
		time.Now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, mode, threshold, status, pairs_examined, matches_written, started_at, finished_at
         FROM match_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			mode        string
			status      string
			startedRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(&run.RunID, &mode, &run.Threshold, &status,
			&run.PairsExamined, &run.MatchesWritten, &startedRaw, &finishedRaw); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Mode = Mode(mode)
		run.Status = RunStatus(status)
		if parsed, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
			run.StartedAt = parsed
		}
		if finishedRaw.Valid {
			if parsed, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
				run.FinishedAt = &parsed
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
