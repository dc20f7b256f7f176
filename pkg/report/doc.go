// Package report writes the delimited audit reports and release snapshots.
//
// Every report has the same shape: the configured extra-info lines written
// verbatim, a header row, then one row per artifact sorted case-insensitively
// by name. Fields are quoted only where the separator, a quote or a newline
// requires it.
//
// Use the Write* functions for any io.Writer, or a [Writer] to place the
// reports under a directory with their conventional file names:
//
//	w := report.Writer{Dir: "build/reports/otsswinfo", Options: report.Options{Separator: ';'}}
//	path, err := w.VersionReport(set.All(), true)
package report
