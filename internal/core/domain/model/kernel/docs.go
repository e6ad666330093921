// Package kernel contains the shared value objects of the dispatch domain:
// identifiers (UUID), geographic coordinates (GeoPoint) and delivery windows
// (TimeWindow).
//
// All kernel types are immutable and constructor-guarded: the zero value is
// invalid and every instance must be produced by a constructor so that bounds
// and format checks cannot be bypassed. This keeps validation at the edge and
// lets the rest of the domain treat kernel values as always well-formed.
package kernel
