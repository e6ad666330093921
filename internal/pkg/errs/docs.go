// Package errs provides the standardized error types used across the dispatch
// engine.
//
// Each error scenario follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired)
//   - a struct type carrying the error details
//   - constructors with and without an underlying cause
//   - Error() for formatting and Unwrap() so errors.Is classification works
//
// Components raise these for validation failures and lookup misses; domain
// rules that have a name of their own (double-booking, inactive entities and
// the like) declare their sentinels next to the code that enforces them.
package errs
