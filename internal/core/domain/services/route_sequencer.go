package services

import (
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/pack"
)

// RouteSequencer is a domain service that orders a package's stops into a
// driving route.
//
// The route starts at the package's facility and repeatedly drives to the
// nearest unvisited stop (greedy nearest-neighbor). The heuristic does not
// guarantee the optimal tour but is fast and good enough for package-sized
// stop counts.
//
// Business rules:
//   - Only stops with resolved coordinates participate in distance scans
//   - Unresolved stops are appended after all resolved ones, ordered by
//     order id so the tail is stable across runs
//   - Distance ties break toward the lowest assignment id
//   - The total route distance covers facility to first stop and every
//     hop between resolved stops; unresolved stops add nothing
type RouteSequencer struct{}

// NewRouteSequencer creates a new RouteSequencer instance.
func NewRouteSequencer() RouteSequencer {
	return RouteSequencer{}
}

// Sequence computes the visiting order for the package's assignments and
// applies it, rewriting sequence numbers starting at 1 and recording the
// total route distance.
func (s RouteSequencer) Sequence(p *pack.Package, origin kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := origin.Validate(); err != nil {
		return err
	}

	var resolved, unresolved []*pack.Assignment
	for _, a := range p.Assignments() {
		if a.HasResolvedStop() {
			resolved = append(resolved, a)
		} else {
			unresolved = append(unresolved, a)
		}
	}

	ordered := make([]kernel.UUID, 0, len(resolved)+len(unresolved))
	totalKm := 0.0
	current := origin

	remaining := make([]*pack.Assignment, len(resolved))
	copy(remaining, resolved)
	for len(remaining) > 0 {
		nearestIdx := -1
		nearestDist := 0.0
		for i, a := range remaining {
			dist, err := current.DistanceTo(*a.Stop())
			if err != nil {
				return err
			}
			if nearestIdx < 0 || dist < nearestDist ||
				(dist == nearestDist && a.ID().Less(remaining[nearestIdx].ID())) {
				nearestIdx = i
				nearestDist = dist
			}
		}

		next := remaining[nearestIdx]
		ordered = append(ordered, next.ID())
		totalKm += nearestDist
		current = *next.Stop()
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
	}

	sort.Slice(unresolved, func(i, j int) bool {
		return unresolved[i].OrderID().Less(unresolved[j].OrderID())
	})
	for _, a := range unresolved {
		ordered = append(ordered, a.ID())
	}

	return p.ApplyRoute(ordered, totalKm)
}
