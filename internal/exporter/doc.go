// Package exporter renders the two downloadable artifacts: the joined
// overview table as a UTF-8 CSV with header row, and the executive summary
// as plain text. The same renderers back the HTTP download endpoints and
// the one-shot CLI, which writes both files into the reports directory.
package exporter
