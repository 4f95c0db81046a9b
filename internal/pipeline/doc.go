// Package pipeline harmonizes the three raw tables and derives everything
// the presentation layer shows.
//
// The flow is strictly one way: load, normalize country names, aggregate
// multi-year means, join on the canonical key, analyze. A run holds no
// state beyond its own call; the only cross-run state is the Cache, which
// memoizes the latest Result keyed by a content fingerprint of the three
// input files and recomputes only when any of them changes.
package pipeline
