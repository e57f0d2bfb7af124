// Package logging assembles the structured slog loggers shared by gazlink
// commands and the matching engine.
//
// It owns the console and JSON handlers, level and output plumbing, and a
// progress sampler that keeps multi-hour match runs from flooding the log.
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
