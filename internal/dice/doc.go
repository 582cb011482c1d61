// Package dice implements the polyhedral die value and the rolling engine.
//
// # Die
//
// A Die pairs a side count with its most recent result. Die values are
// immutable: re-rolling produces a new Die through WithResult and leaves the
// original untouched, so a collection of dice is updated by replacing the
// value at an index.
//
// # Engine
//
// Engine maps unsigned 32-bit draws from an injected entropy source onto
// [1, sides]. A batch roll reads the whole batch from the source in a single
// request and keeps index correspondence with its input. Read failures surface
// as ErrEntropyUnavailable; there is no weaker fallback generator.
package dice
