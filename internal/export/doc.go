// Package export renders match results as pipe-delimited CSV and imported
// entities as standalone HTML reports.
package export
