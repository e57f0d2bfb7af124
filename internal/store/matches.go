package store

import (
	"context"
	"fmt"
)

func matchTable(mode Mode) string {
	if mode == ModeNames {
		return "fuzzy_name"
	}
	return "fuzzy_meta"
}

func matchColumns(mode Mode) (string, string) {
	if mode == ModeNames {
		return "dnb_name_id", "gaz_name_id"
	}
	return "dnb_meta_id", "gaz_meta_id"
}

// DeleteMatches removes every match record of the mode. Runs call this before
// their first insert; a completed run fully supersedes the prior result set.
func (s *Store) DeleteMatches(ctx context.Context, mode Mode) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+matchTable(mode))
	if err != nil {
		return 0, fmt.Errorf("delete %s matches: %w", mode, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

// InsertMatchBatch commits one batch of match records in a single
// transaction. Batch boundaries are an engine implementation detail; readers
// of the match tables only ever see whole batches.
func (s *Store) InsertMatchBatch(ctx context.Context, mode Mode, records []MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	left, right := matchColumns(mode)
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s, %s, jarow) VALUES (?, ?, ?)", matchTable(mode), left, right))
	if err != nil {
		return fmt.Errorf("prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.DnbID, record.GazID, record.Score); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match batch: %w", err)
	}
	return nil
}

// CountMatches returns the number of stored match records for the mode.
func (s *Store) CountMatches(ctx context.Context, mode Mode) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+matchTable(mode)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s matches: %w", mode, err)
	}
	return count, nil
}

// Matches returns every stored record for the mode ordered by row ids, for
// tests and small inspections. Exports use the join queries instead.
func (s *Store) Matches(ctx context.Context, mode Mode) ([]MatchRecord, error) {
	left, right := matchColumns(mode)
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s, %s, jarow FROM %s ORDER BY %s, %s", left, right, matchTable(mode), left, right))
	if err != nil {
		return nil, fmt.Errorf("query %s matches: %w", mode, err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var record MatchRecord
		if err := rows.Scan(&record.DnbID, &record.GazID, &record.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return records, nil
}
