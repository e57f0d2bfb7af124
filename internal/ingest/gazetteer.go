package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gazlink/internal/logging"
	"gazlink/internal/store"
)

// progressEvery is how many imported objects pass between progress logs.
const progressEvery = 10000

// Stats summarizes one import pass.
type Stats struct {
	Imported   int64
	Skipped    int64
	Duplicates int64
}

type gazName struct {
	Title    string `json:"title"`
	Language string `json:"language"`
}

type gazIdent struct {
	Value   string `json:"value"`
	Context string `json:"context"`
}

type gazObject struct {
	GazID    string     `json:"gazId"`
	PrefName *gazName   `json:"prefName"`
	Names    []gazName  `json:"names"`
	Idents   []gazIdent `json:"ids"`
}

// ImportGazetteer streams a JSON array of gazetteer place objects into the
// store. Objects without a gazId are skipped, duplicate gaz ids are logged
// and skipped; neither aborts the import.
func ImportGazetteer(ctx context.Context, r io.Reader, st *store.Store, logger *slog.Logger) (Stats, error) {
	logger = logging.NewComponentLogger(logger, "ingest")

	var stats Stats
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '['); err != nil {
		return stats, fmt.Errorf("gazetteer dump: %w", err)
	}

	for dec.More() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var obj gazObject
		if err := dec.Decode(&obj); err != nil {
			return stats, fmt.Errorf("decode gazetteer object %d: %w", stats.Imported+stats.Skipped, err)
		}
		if obj.GazID == "" {
			logger.Warn("object has no gazId, skipping")
			stats.Skipped++
			continue
		}

		place := store.GazPlace{GazID: obj.GazID}
		if obj.PrefName != nil {
			place.PrefTitle = obj.PrefName.Title
			place.PrefTitleLang = obj.PrefName.Language
		}
		for _, name := range obj.Names {
			if name.Title == "" {
				continue
			}
			place.Names = append(place.Names, store.GazName{Title: name.Title, Lang: name.Language})
		}
		for _, ident := range obj.Idents {
			if ident.Context == "gnd" && ident.Value != "" {
				place.GndIDs = append(place.GndIDs, ident.Value)
			}
		}

		if err := st.InsertGazPlace(ctx, place); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				logger.Warn("gaz id already exists", logging.String("gaz_id", obj.GazID))
				stats.Duplicates++
				continue
			}
			return stats, fmt.Errorf("import gaz id %s: %w", obj.GazID, err)
		}
		stats.Imported++
		if stats.Imported%progressEvery == 0 {
			logger.Info("gazetteer import progress", logging.Int64("imported", stats.Imported))
		}
	}

	if err := expectDelim(dec, ']'); err != nil {
		return stats, fmt.Errorf("gazetteer dump: %w", err)
	}

	logger.Info("gazetteer import finished",
		logging.Int64("imported", stats.Imported),
		logging.Int64("skipped", stats.Skipped),
		logging.Int64("duplicates", stats.Duplicates))
	return stats, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
