package ingest_test

import (
	"context"
	"strings"
	"testing"

	"gazlink/internal/ingest"
	"gazlink/internal/logging"
	"gazlink/internal/store"
	"gazlink/internal/testsupport"
)

const gazDump = `[
  {
    "gazId": "gaz-2282601",
    "prefName": {"title": "Berlin", "language": "deu"},
    "names": [
      {"title": "Berolina", "language": "lat"},
      {"title": "Berlín", "language": "spa"}
    ],
    "ids": [
      {"value": "4005728-8", "context": "gnd"},
      {"value": "2950159", "context": "geonames"}
    ]
  },
  {
    "prefName": {"title": "No Identifier"}
  },
  {
    "gazId": "gaz-2282601",
    "prefName": {"title": "Berlin again"}
  },
  {
    "gazId": "gaz-2928810",
    "prefName": {"title": "Freiburg", "language": "deu"}
  }
]`

const dnbDump = `[
  [
    {
      "@id": "https://d-nb.info/gnd/4005728-8",
      "https://d-nb.info/standards/elementset/gnd#preferredNameForThePlaceOrGeographicName": [
        {"@value": "Berlin"}
      ],
      "https://d-nb.info/standards/elementset/gnd#variantNameForThePlaceOrGeographicName": [
        {"@value": "Berolina"},
        {"@value": "Berolinum"}
      ],
      "http://www.w3.org/2002/07/owl#sameAs": [
        {"@id": "https://sws.geonames.org/2950159"},
        {"@id": "http://www.wikidata.org/entity/Q64"}
      ],
      "https://d-nb.info/standards/elementset/gnd#oldAuthorityNumber": [
        {"@value": "(DE-588c)4005728-8"}
      ]
    },
    {
      "@id": "https://d-nb.info/gnd/4005728-8/about"
    },
    {
      "@id": "https://example.org/not-gnd/1"
    }
  ],
  [
    {
      "@id": "https://d-nb.info/gnd/4018192-2",
      "https://d-nb.info/standards/elementset/gnd#preferredNameForThePlaceOrGeographicName": [
        {"@value": "Freiburg im Breisgau"}
      ]
    }
  ]
]`

func TestImportGazetteer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	stats, err := ingest.ImportGazetteer(context.Background(), strings.NewReader(gazDump), st, logging.NewNop())
	if err != nil {
		t.Fatalf("ImportGazetteer failed: %v", err)
	}
	if stats.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", stats)
	}
	if stats.Skipped != 1 {
		t.Fatalf("expected 1 skipped (missing gazId), got %+v", stats)
	}
	if stats.Duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %+v", stats)
	}

	counts, err := st.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.GazEntities != 2 {
		t.Fatalf("expected 2 gaz entities, got %d", counts.GazEntities)
	}
	if counts.GazNames != 2 {
		t.Fatalf("expected 2 gaz name variants, got %d", counts.GazNames)
	}

	labels, err := st.GazLabels(context.Background(), store.ModeMeta)
	if err != nil {
		t.Fatalf("GazLabels failed: %v", err)
	}
	got := make([]string, 0, len(labels))
	for _, label := range labels {
		got = append(got, label.Text)
	}
	want := []string{"Berlin", "Freiburg"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected meta labels: %v", got)
	}
}

func TestImportGazetteerRejectsMalformedInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := ingest.ImportGazetteer(context.Background(), strings.NewReader(`{"gazId": "x"}`), st, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestImportAuthority(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	stats, err := ingest.ImportAuthority(ctx, strings.NewReader(dnbDump), st, true, logging.NewNop())
	if err != nil {
		t.Fatalf("ImportAuthority failed: %v", err)
	}
	if stats.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", stats)
	}
	if stats.Skipped != 2 {
		t.Fatalf("expected /about and foreign objects skipped, got %+v", stats)
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.DnbEntities != 2 {
		t.Fatalf("expected 2 dnb entities, got %d", counts.DnbEntities)
	}
	if counts.DnbNames != 2 {
		t.Fatalf("expected 2 variant names, got %d", counts.DnbNames)
	}

	labels, err := st.DnbLabelPage(ctx, store.ModeMeta, 0, 10)
	if err != nil {
		t.Fatalf("DnbLabelPage failed: %v", err)
	}
	if len(labels) != 2 || labels[0].Text != "Berlin" || labels[1].Text != "Freiburg im Breisgau" {
		t.Fatalf("unexpected preferred labels: %+v", labels)
	}
}

func TestImportAuthoritySkipsOldNumbersWithoutFlag(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	stats, err := ingest.ImportAuthority(context.Background(), strings.NewReader(dnbDump), st, false, logging.NewNop())
	if err != nil {
		t.Fatalf("ImportAuthority failed: %v", err)
	}
	if stats.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", stats)
	}
}

func TestImportAuthorityDuplicateContinues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := ingest.ImportAuthority(ctx, strings.NewReader(dnbDump), st, false, logging.NewNop()); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	stats, err := ingest.ImportAuthority(ctx, strings.NewReader(dnbDump), st, false, logging.NewNop())
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if stats.Duplicates != 2 || stats.Imported != 0 {
		t.Fatalf("expected every entity reported duplicate, got %+v", stats)
	}
}
