package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOptimizeRouteCommandIsNotConstructed = errors.New(
	"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
)

// OptimizeRouteCommand represents a request to recompute the stop order of
// a package. Safe to repeat: sequencing is deterministic for a fixed set
// of stops.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand creates a command to resequence the given package.
func NewOptimizeRouteCommand(packageID kernel.UUID) (OptimizeRouteCommand, error) {
	routeCommand := OptimizeRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := routeCommand.setPackageID(packageID); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return routeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// PackageID returns the identifier of the package to resequence.
func (c OptimizeRouteCommand) PackageID() kernel.UUID {
	return c.packageID
}

func (c *OptimizeRouteCommand) setPackageID(packageID kernel.UUID) error {
	if err := packageID.Validate(); err != nil {
		return err
	}

	c.packageID = packageID
	return nil
}
