package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gazlink/internal/logging"
	"gazlink/internal/store"
)

// JSON-LD keys and identifier prefixes of the DNB geographic dump.
const (
	dnbIdentPrefix = "https://d-nb.info/gnd/"

	owlGeonamesPrefix = "https://sws.geonames.org/"
	owlGndPrefix      = "https://d-nb.info/gnd/"
	owlLocPrefix      = "http://id.loc.gov/rwo/agents/"
	owlViafPrefix     = "http://viaf.org/viaf/"
	owlWikidataPrefix = "http://www.wikidata.org/entity/"
)

type jsonldRef struct {
	ID string `json:"@id"`
}

type jsonldLiteral struct {
	Value string `json:"@value"`
}

type jsonldObject struct {
	ID       string          `json:"@id"`
	SameAs   []jsonldRef     `json:"http://www.w3.org/2002/07/owl#sameAs"`
	Pref     []jsonldLiteral `json:"https://d-nb.info/standards/elementset/gnd#preferredNameForThePlaceOrGeographicName"`
	Variants []jsonldLiteral `json:"https://d-nb.info/standards/elementset/gnd#variantNameForThePlaceOrGeographicName"`
	OldAuths []jsonldLiteral `json:"https://d-nb.info/standards/elementset/gnd#oldAuthorityNumber"`
}

// ImportAuthority streams a DNB JSON-LD dump (an array of object arrays) into
// the store. Only objects whose @id carries the gnd prefix are imported;
// descriptor objects ending in /about are ignored. Old authority numbers are
// only recorded when withOldAuth is set.
func ImportAuthority(ctx context.Context, r io.Reader, st *store.Store, withOldAuth bool, logger *slog.Logger) (Stats, error) {
	logger = logging.NewComponentLogger(logger, "ingest")

	var stats Stats
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '['); err != nil {
		return stats, fmt.Errorf("authority dump: %w", err)
	}

	for dec.More() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var batch []jsonldObject
		if err := dec.Decode(&batch); err != nil {
			return stats, fmt.Errorf("decode authority graph: %w", err)
		}

		for _, obj := range batch {
			if obj.ID == "" {
				logger.Debug("object has no @id key")
				stats.Skipped++
				continue
			}
			if !strings.HasPrefix(obj.ID, dnbIdentPrefix) || strings.HasSuffix(obj.ID, "/about") {
				stats.Skipped++
				continue
			}

			place := buildAuthorityPlace(obj, withOldAuth)
			if err := st.InsertAuthorityPlace(ctx, place); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					logger.Warn("dnb id already exists", logging.String("dnb_id", place.DnbID))
					stats.Duplicates++
					continue
				}
				return stats, fmt.Errorf("import dnb id %s: %w", place.DnbID, err)
			}
			stats.Imported++
			if stats.Imported%progressEvery == 0 {
				logger.Info("authority import progress", logging.Int64("imported", stats.Imported))
			}
		}
	}

	if err := expectDelim(dec, ']'); err != nil {
		return stats, fmt.Errorf("authority dump: %w", err)
	}

	logger.Info("authority import finished",
		logging.Int64("imported", stats.Imported),
		logging.Int64("skipped", stats.Skipped),
		logging.Int64("duplicates", stats.Duplicates))
	return stats, nil
}

func buildAuthorityPlace(obj jsonldObject, withOldAuth bool) store.AuthorityPlace {
	place := store.AuthorityPlace{
		DnbID: strings.TrimPrefix(obj.ID, dnbIdentPrefix),
	}

	for _, ref := range obj.SameAs {
		switch {
		case ref.ID == "":
		case strings.HasPrefix(ref.ID, owlGeonamesPrefix):
			place.OwlGeonames = strings.TrimPrefix(ref.ID, owlGeonamesPrefix)
		case strings.HasPrefix(ref.ID, owlGndPrefix):
			place.OwlGnd = strings.TrimPrefix(ref.ID, owlGndPrefix)
		case strings.HasPrefix(ref.ID, owlLocPrefix):
			place.OwlLoc = strings.TrimPrefix(ref.ID, owlLocPrefix)
		case strings.HasPrefix(ref.ID, owlViafPrefix):
			place.OwlViaf = strings.TrimPrefix(ref.ID, owlViafPrefix)
		case strings.HasPrefix(ref.ID, owlWikidataPrefix):
			place.OwlWikidata = strings.TrimPrefix(ref.ID, owlWikidataPrefix)
		}
	}

	if len(obj.Pref) > 0 {
		place.PrefName = obj.Pref[0].Value
	}
	for _, variant := range obj.Variants {
		if variant.Value == "" {
			continue
		}
		place.VarNames = append(place.VarNames, variant.Value)
	}

	if withOldAuth {
		for _, old := range obj.OldAuths {
			if old.Value == "" {
				continue
			}
			place.OldAuths = append(place.OldAuths, parseOldAuthority(old.Value))
		}
	}
	return place
}

// parseOldAuthority splits a "(PREFIX)rest" authority number into its parts.
// Values without that shape keep prefix and gnd id empty.
func parseOldAuthority(value string) store.OldAuthority {
	old := store.OldAuthority{Number: value}
	if strings.HasPrefix(value, "(") {
		if j := strings.IndexByte(value, ')'); j > 1 {
			old.Prefix = value[1:j]
			old.GndID = value[j+1:]
		}
	}
	return old
}
