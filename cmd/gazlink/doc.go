// Package main hosts the gazlink CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the import, match, export, report, and
// status workflows plus configuration scaffolding. It centralizes config
// resolution, store lifecycle, and logger setup so subcommands stay focused
// on user experience; the matching engine and the data plumbing live in the
// internal packages.
package main
