package store

import (
	"context"
	"database/sql"
	"fmt"
)

// MetaExportRow is one exported preferred-label match joined against both
// catalogs.
type MetaExportRow struct {
	DnbID        string
	DnbPrefName  string
	GazGndID     string
	GazPrefTitle string
	Score        float64
}

// NamesExportRow is one exported variant-label match with both the variant
// texts and the preferred labels for context.
type NamesExportRow struct {
	DnbID        string
	DnbPrefName  string
	DnbName      string
	GazGndID     string
	GazPrefTitle string
	GazTitle     string
	Score        float64
}

// EntityRow is one imported entity for report output. Detail carries the
// third report column: the gnd same-as id for authority entities, the
// preferred label language for gazetteer entities.
type EntityRow struct {
	ExternalID string
	PrefLabel  string
	Detail     string
}

// MetaExportRows returns meta matches at or above minThreshold joined with
// entity data, one row per authority entity, best rows first by entity order.
// minThreshold never usefully drops below the run threshold: records under it
// were never stored. limit ≤ 0 means unlimited.
func (s *Store) MetaExportRows(ctx context.Context, minThreshold float64, limit int) ([]MetaExportRow, error) {
	query := `
        SELECT
            dnb_meta.dnb_id,
            dnb_meta.pref_name,
            gaz_ident_gnd.gnd_id,
            gaz_meta.pref_title,
            fuzzy_meta.jarow
        FROM fuzzy_meta
        INNER JOIN dnb_meta      ON dnb_meta.id = fuzzy_meta.dnb_meta_id
        INNER JOIN gaz_meta      ON gaz_meta.id = fuzzy_meta.gaz_meta_id
        INNER JOIN gaz_ident_gnd ON gaz_ident_gnd.gaz_id = gaz_meta.gaz_id
        WHERE fuzzy_meta.jarow >= ?
        GROUP BY dnb_meta.dnb_id`
	query = applyLimit(query, limit)

	rows, err := s.db.QueryContext(ctx, query, minThreshold)
	if err != nil {
		return nil, fmt.Errorf("query meta export: %w", err)
	}
	defer rows.Close()

	var result []MetaExportRow
	for rows.Next() {
		var (
			row      MetaExportRow
			prefName sql.NullString
			prefTit  sql.NullString
		)
		if err := rows.Scan(&row.DnbID, &prefName, &row.GazGndID, &prefTit, &row.Score); err != nil {
			return nil, fmt.Errorf("scan meta export row: %w", err)
		}
		row.DnbPrefName = prefName.String
		row.GazPrefTitle = prefTit.String
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meta export: %w", err)
	}
	return result, nil
}

// NamesExportRows returns names matches at or above minThreshold joined with
// entity and label data, one row per authority entity. limit ≤ 0 means
// unlimited.
func (s *Store) NamesExportRows(ctx context.Context, minThreshold float64, limit int) ([]NamesExportRow, error) {
	query := `
        SELECT
            dnb_meta.dnb_id,
            dnb_meta.pref_name,
            dnb_name.var_name,
            gaz_ident_gnd.gnd_id,
            gaz_meta.pref_title,
            gaz_name.title,
            fuzzy_name.jarow
        FROM fuzzy_name
        INNER JOIN dnb_name      ON dnb_name.id = fuzzy_name.dnb_name_id
        INNER JOIN gaz_name      ON gaz_name.id = fuzzy_name.gaz_name_id
        INNER JOIN dnb_meta      ON dnb_meta.id = dnb_name.dnb_meta_id
        INNER JOIN gaz_meta      ON gaz_meta.gaz_id = gaz_name.gaz_id
        INNER JOIN gaz_ident_gnd ON gaz_ident_gnd.gaz_id = gaz_meta.gaz_id
        WHERE fuzzy_name.jarow >= ?
        GROUP BY dnb_meta.dnb_id`
	query = applyLimit(query, limit)

	rows, err := s.db.QueryContext(ctx, query, minThreshold)
	if err != nil {
		return nil, fmt.Errorf("query names export: %w", err)
	}
	defer rows.Close()

	var result []NamesExportRow
	for rows.Next() {
		var (
			row      NamesExportRow
			prefName sql.NullString
			varName  sql.NullString
			prefTit  sql.NullString
			title    sql.NullString
		)
		if err := rows.Scan(&row.DnbID, &prefName, &varName, &row.GazGndID, &prefTit, &title, &row.Score); err != nil {
			return nil, fmt.Errorf("scan names export row: %w", err)
		}
		row.DnbPrefName = prefName.String
		row.DnbName = varName.String
		row.GazPrefTitle = prefTit.String
		row.GazTitle = title.String
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names export: %w", err)
	}
	return result, nil
}

// DnbEntityRows returns imported authority entities for report output.
func (s *Store) DnbEntityRows(ctx context.Context, limit int) ([]EntityRow, error) {
	return s.entityRows(ctx,
		`SELECT dnb_id, COALESCE(pref_name, ''), COALESCE(owl_gnd, '')
         FROM dnb_meta ORDER BY dnb_id ASC`, limit)
}

// GazEntityRows returns imported gazetteer entities for report output.
func (s *Store) GazEntityRows(ctx context.Context, limit int) ([]EntityRow, error) {
	return s.entityRows(ctx,
		`SELECT gaz_id, COALESCE(pref_title, ''), COALESCE(pref_title_lang, '')
         FROM gaz_meta ORDER BY gaz_id ASC`, limit)
}

func (s *Store) entityRows(ctx context.Context, query string, limit int) ([]EntityRow, error) {
	query = applyLimit(query, limit)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var result []EntityRow
	for rows.Next() {
		var row EntityRow
		if err := rows.Scan(&row.ExternalID, &row.PrefLabel, &row.Detail); err != nil {
			return nil, fmt.Errorf("scan entity row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return result, nil
}

func applyLimit(query string, limit int) string {
	if limit > 0 {
		return fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	return query
}
