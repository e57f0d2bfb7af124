// Package ingest loads gazetteer JSON and DNB JSON-LD dumps into the store.
// Both importers stream their input so dump size does not bound memory.
package ingest
