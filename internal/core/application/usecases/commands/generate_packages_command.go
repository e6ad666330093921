package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGeneratePackagesCommandIsNotConstructed = errors.New(
		"GeneratePackagesCommand must be created via NewGeneratePackagesCommand constructor",
	)
	ErrServiceDateIsRequired = errors.New("service date is required")
)

// GeneratePackagesCommand represents a batch request to build packages for
// every dispatchable order of a service date. A facility id restricts the
// run to one facility; without it every active facility is processed.
type GeneratePackagesCommand struct { //nolint:recvcheck //using for validation
	facilityID *kernel.UUID
	date       time.Time

	guard guard.ConstructorGuard
}

// NewGeneratePackagesCommand creates a batch dispatch command for one
// service date. facilityID may be nil to cover all active facilities.
func NewGeneratePackagesCommand(facilityID *kernel.UUID, date time.Time) (GeneratePackagesCommand, error) {
	batchCommand := GeneratePackagesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		batchCommand.setFacilityID(facilityID),
		batchCommand.setDate(date),
	); err != nil {
		return GeneratePackagesCommand{}, err
	}

	return batchCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c GeneratePackagesCommand) Validate() error {
	return c.guard.Validate(ErrGeneratePackagesCommandIsNotConstructed)
}

// FacilityID returns the facility restriction, or nil for all facilities.
func (c GeneratePackagesCommand) FacilityID() *kernel.UUID {
	return c.facilityID
}

// Date returns the service date as UTC midnight.
func (c GeneratePackagesCommand) Date() time.Time {
	return c.date
}

func (c *GeneratePackagesCommand) setFacilityID(facilityID *kernel.UUID) error {
	if facilityID == nil {
		return nil
	}
	if err := facilityID.Validate(); err != nil {
		return err
	}

	c.facilityID = facilityID
	return nil
}

func (c *GeneratePackagesCommand) setDate(date time.Time) error {
	if date.IsZero() {
		return ErrServiceDateIsRequired
	}

	utc := date.UTC()
	c.date = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}
