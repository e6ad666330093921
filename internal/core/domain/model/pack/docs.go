// Package pack contains the Package aggregate: a capacity-bounded group of
// orders delivered by one driver (or pending a driver) out of one facility on
// one service date, together with its child Assignment entities.
//
// An Assignment is the link record between an order and the package it
// belongs to; it carries the stop's coordinates, its position in the visiting
// sequence (0 while unsequenced) and its per-stop delivery status. The
// aggregate enforces the package-side structural invariants: the configured
// capacity ceiling, at most one assignment per order inside the package, a
// write-once driver reference, and route sequences that are always a
// permutation of the package's assignments.
package pack
