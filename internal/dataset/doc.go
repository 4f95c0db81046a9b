// Package dataset loads the three raw input tables: the long-format GBARD
// investment table, the wide-format GDP table with one column per year, and
// the economic-indicators table.
//
// A missing or unreadable file is fatal for the run and reported as a
// wrapped error; there is no retry. An unparseable numeric cell surfaces as
// a *CellError carrying file, row and column context. Empty cells in GDP
// year columns and in indicator columns are missing values, not errors.
package dataset
