// Package store persists gazetteer and authority entities, their label
// variants, and the match results produced by the engine, all in one SQLite
// database.
//
// The Store owns connection setup (including the bulk pragma profile used for
// long import and match runs), schema creation and versioning, label
// projections for the two matching modes, the delete-then-batch-insert
// primitive the engine's full-replace semantics rely on, and a flock-based
// run lock that keeps two match runs from interleaving.
//
// Treat this package as the single source of truth for storage semantics;
// schema changes bump schemaVersion in schema.go.
package store
