// Package order contains the Order aggregate.
//
// Orders are created by the intake collaborator; the dispatch engine reacts to
// orders entering the processing status by resolving a facility, linking the
// order to a package and propagating the package's driver. The aggregate
// enforces the structural side of those rules: at most one package link per
// order, one driver reference consistent with that link, and validated status
// values.
package order
