package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Projection queries. Empty and NULL labels never reach the engine: the
// filter lives here so every consumer sees the same candidate set. Rows are
// ordered by id to keep enumeration order deterministic across runs.

const (
	dnbMetaLabelQuery = `SELECT id, pref_name FROM dnb_meta
        WHERE pref_name IS NOT NULL AND pref_name != '' ORDER BY id`
	gazMetaLabelQuery = `SELECT id, pref_title FROM gaz_meta
        WHERE pref_title IS NOT NULL AND pref_title != '' ORDER BY id`
	dnbNameLabelQuery = `SELECT id, var_name FROM dnb_name
        WHERE var_name IS NOT NULL AND var_name != '' ORDER BY id`
	gazNameLabelQuery = `SELECT id, title FROM gaz_name
        WHERE title IS NOT NULL AND title != '' ORDER BY id`
)

// ForEachDnbLabel streams the authority-side projection for the mode, one
// label at a time in id order. Iteration stops on the first callback error,
// which is returned unwrapped.
func (s *Store) ForEachDnbLabel(ctx context.Context, mode Mode, fn func(Label) error) error {
	query := dnbMetaLabelQuery
	if mode == ModeNames {
		query = dnbNameLabelQuery
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query dnb labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return err
		}
		if err := fn(label); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate dnb labels: %w", err)
	}
	return nil
}

// GazLabels materializes the gazetteer-side projection for the mode in id
// order. The engine re-walks this slice once per authority label, so it lives
// in memory rather than being re-queried.
func (s *Store) GazLabels(ctx context.Context, mode Mode) ([]Label, error) {
	query := gazMetaLabelQuery
	if mode == ModeNames {
		query = gazNameLabelQuery
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query gaz labels: %w", err)
	}
	defer rows.Close()

	var labels []Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gaz labels: %w", err)
	}
	return labels, nil
}

// DnbLabelPage returns up to limit authority-side labels with row id greater
// than afterID, in id order. The engine pages the left side so no read cursor
// stays open across its batch commits.
func (s *Store) DnbLabelPage(ctx context.Context, mode Mode, afterID int64, limit int) ([]Label, error) {
	rows, err := s.db.QueryContext(ctx, pageQuery(mode), afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query dnb label page: %w", err)
	}
	defer rows.Close()

	var labels []Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dnb label page: %w", err)
	}
	return labels, nil
}

func pageQuery(mode Mode) string {
	if mode == ModeNames {
		return `SELECT id, var_name FROM dnb_name
        WHERE var_name IS NOT NULL AND var_name != '' AND id > ? ORDER BY id LIMIT ?`
	}
	return `SELECT id, pref_name FROM dnb_meta
        WHERE pref_name IS NOT NULL AND pref_name != '' AND id > ? ORDER BY id LIMIT ?`
}

// CountDnbLabels returns the authority-side projection size for the mode,
// used for progress estimation before streaming begins.
func (s *Store) CountDnbLabels(ctx context.Context, mode Mode) (int64, error) {
	query := `SELECT COUNT(1) FROM dnb_meta WHERE pref_name IS NOT NULL AND pref_name != ''`
	if mode == ModeNames {
		query = `SELECT COUNT(1) FROM dnb_name WHERE var_name IS NOT NULL AND var_name != ''`
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count dnb labels: %w", err)
	}
	return count, nil
}

func scanLabel(rows *sql.Rows) (Label, error) {
	var label Label
	if err := rows.Scan(&label.ID, &label.Text); err != nil {
		return Label{}, fmt.Errorf("scan label: %w", err)
	}
	return label, nil
}
