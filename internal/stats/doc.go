// Package stats relates the investment measure to each economic indicator.
//
// It provides three tests over complete observation pairs: a simple OLS
// regression per indicator, a Welch two-sample comparison of high- versus
// low-investment countries, and a joint two-group comparison across all
// indicators (Hotelling T-squared with its exact F transform). All math is
// delegated to gonum; this package only assembles inputs, guards degenerate
// cases and attaches significance flags at the configured alpha.
//
// Every entry point returns ErrInsufficientData (wrapped with context)
// instead of a fabricated result when too few complete observations remain.
package stats
