package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicate reports an insert that collided with an existing external id.
var ErrDuplicate = errors.New("duplicate entity")

// InsertGazPlace stores a gazetteer place with its labels and identifiers in
// one transaction. A gaz_id that already exists returns ErrDuplicate without
// touching the database.
func (s *Store) InsertGazPlace(ctx context.Context, place GazPlace) error {
	if strings.TrimSpace(place.GazID) == "" {
		return errors.New("gaz_id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin gaz insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gaz_meta (gaz_id, pref_title, pref_title_lang) VALUES (?, ?, ?)`,
		place.GazID, nullableString(place.PrefTitle), nullableString(place.PrefTitleLang),
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: gaz_id %s", ErrDuplicate, place.GazID)
		}
		return fmt.Errorf("insert gaz_meta: %w", err)
	}

	for _, name := range place.Names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gaz_name (gaz_id, title, lang) VALUES (?, ?, ?)`,
			place.GazID, nullableString(name.Title), nullableString(name.Lang),
		); err != nil {
			return fmt.Errorf("insert gaz_name: %w", err)
		}
	}

	for _, gndID := range place.GndIDs {
		if strings.TrimSpace(gndID) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gaz_ident_gnd (gaz_id, gnd_id) VALUES (?, ?)`,
			place.GazID, gndID,
		); err != nil {
			return fmt.Errorf("insert gaz_ident_gnd: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit gaz insert: %w", err)
	}
	return nil
}

// InsertAuthorityPlace stores an authority entity with its variant names and
// old authority numbers in one transaction. A dnb_id that already exists
// returns ErrDuplicate.
func (s *Store) InsertAuthorityPlace(ctx context.Context, place AuthorityPlace) error {
	if strings.TrimSpace(place.DnbID) == "" {
		return errors.New("dnb_id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dnb insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO dnb_meta (
            dnb_id, pref_name, owl_geonames, owl_gnd, owl_loc, owl_viaf, owl_wikidata
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		place.DnbID,
		nullableString(place.PrefName),
		nullableString(place.OwlGeonames),
		nullableString(place.OwlGnd),
		nullableString(place.OwlLoc),
		nullableString(place.OwlViaf),
		nullableString(place.OwlWikidata),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: dnb_id %s", ErrDuplicate, place.DnbID)
		}
		return fmt.Errorf("insert dnb_meta: %w", err)
	}

	metaID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, name := range place.VarNames {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dnb_name (dnb_meta_id, var_name) VALUES (?, ?)`,
			metaID, nullableString(name),
		); err != nil {
			return fmt.Errorf("insert dnb_name: %w", err)
		}
	}

	for _, old := range place.OldAuths {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dnb_old_auth (dnb_meta_id, number, prefix, gnd_id) VALUES (?, ?, ?, ?)`,
			metaID, nullableString(old.Number), nullableString(old.Prefix), nullableString(old.GndID),
		); err != nil {
			return fmt.Errorf("insert dnb_old_auth: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dnb insert: %w", err)
	}
	return nil
}

// Counts returns table sizes for status output.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	queries := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(1) FROM gaz_meta", &counts.GazEntities},
		{"SELECT COUNT(1) FROM gaz_name", &counts.GazNames},
		{"SELECT COUNT(1) FROM dnb_meta", &counts.DnbEntities},
		{"SELECT COUNT(1) FROM dnb_name", &counts.DnbNames},
		{"SELECT COUNT(1) FROM fuzzy_meta", &counts.MetaMatches},
		{"SELECT COUNT(1) FROM fuzzy_name", &counts.NameMatches},
		{"SELECT COUNT(1) FROM match_runs", &counts.RecordedRuns},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Counts{}, fmt.Errorf("count query: %w", err)
		}
	}
	return counts, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
