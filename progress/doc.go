// Package progress keeps fleet counters (planes launched, crashed, reaped,
// terminated) for a single supervisor run. The tracker travels in the
// context so that the supervisor loop and the crash listener update the same
// instance without a global registry.
package progress
