// Package normalize canonicalizes country names so that the investment, GDP
// and indicator tables can be joined on a single key.
//
// Canonicalization applies a fixed, ordered list of substring replacement
// rules to the lowercased input, then strips punctuation and whitespace.
// Rule order is part of the contract: a later rule may match text produced
// by an earlier one, so the rules must run in exactly the documented order.
// Names with no matching rule pass through with case/punctuation/space
// normalization only; that is an accepted limitation, not an error.
package normalize
