package testsupport

import (
	"context"
	"testing"

	"gazlink/internal/config"
	"gazlink/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedGazPlace inserts a gazetteer place for tests.
func SeedGazPlace(t testing.TB, st *store.Store, gazID, prefTitle string, names ...string) {
	t.Helper()

	place := store.GazPlace{
		GazID:     gazID,
		PrefTitle: prefTitle,
		GndIDs:    []string{"gnd-" + gazID},
	}
	for _, name := range names {
		place.Names = append(place.Names, store.GazName{Title: name})
	}
	if err := st.InsertGazPlace(context.Background(), place); err != nil {
		t.Fatalf("InsertGazPlace(%s): %v", gazID, err)
	}
}

// SeedAuthorityPlace inserts an authority place for tests.
func SeedAuthorityPlace(t testing.TB, st *store.Store, dnbID, prefName string, varNames ...string) {
	t.Helper()

	place := store.AuthorityPlace{
		DnbID:    dnbID,
		PrefName: prefName,
		VarNames: varNames,
	}
	if err := st.InsertAuthorityPlace(context.Background(), place); err != nil {
		t.Fatalf("InsertAuthorityPlace(%s): %v", dnbID, err)
	}
}
