// Package services provides domain services that orchestrate business
// operations across multiple aggregates of the dispatch system.
//
// The package includes:
//   - FacilityLocator: picks the nearest open facility for an order
//   - DriverSelector: picks the least loaded eligible driver for a package
//   - RouteSequencer: orders a package's stops with a greedy nearest-neighbor pass
//   - ConsistencyGuard: cross-aggregate checks enforced before an order is claimed
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
