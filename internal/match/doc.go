// Package match implements the matching engine: exhaustive pairwise scoring
// of authority labels against gazetteer labels with threshold filtering and
// batched, full-replace persistence.
//
// A run deletes the mode's prior matches, streams the authority side in pages
// while holding the gazetteer side in memory, and commits matches in batches.
// Commits are incremental: a multi-hour run that crashes loses only its
// uncommitted tail batch, and a rerun of the mode replaces everything anyway.
// Cancellation is cooperative and checked at batch boundaries only.
package match
