package event

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrEventIsNotConstructed indicates that the Event was not created
	// through NewEvent or RestoreEvent.
	ErrEventIsNotConstructed = errors.New(
		"Event must be created via NewEvent or RestoreEvent constructors")
)

// Kind classifies what happened.
type Kind string

const (
	// KindPackageCreated is emitted when a package is first persisted.
	KindPackageCreated Kind = "package_created"

	// KindOrderAssigned is emitted when an order is claimed into a package.
	KindOrderAssigned Kind = "order_assigned"

	// KindUnassignedPackageAlert is emitted for a generated package that
	// could not be given a driver.
	KindUnassignedPackageAlert Kind = "unassigned_package_alert"

	// KindPackageGenerationError is emitted when batch generation fails
	// for one facility.
	KindPackageGenerationError Kind = "package_generation_error"
)

// Validate checks that the Kind is one of the defined values.
func (k Kind) Validate() error {
	switch k {
	case KindPackageCreated, KindOrderAssigned, KindUnassignedPackageAlert, KindPackageGenerationError:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("event kind is invalid",
			fmt.Errorf("%q is not a valid event kind", string(k)))
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Event is an immutable audit record. Events are only appended, never
// updated; packageID is nil for events not tied to a specific package
// (for example a per-facility generation failure).
type Event struct {
	id         kernel.UUID
	packageID  *kernel.UUID
	kind       Kind
	payload    string
	occurredAt time.Time

	guard kernel.ConstructorGuard
}

// NewEvent creates an Event stamped with the current UTC time.
func NewEvent(id kernel.UUID, packageID *kernel.UUID, kind Kind, payload string) (*Event, error) {
	return RestoreEvent(id, packageID, kind, payload, time.Now().UTC())
}

// RestoreEvent reconstructs an Event from persistence.
func RestoreEvent(id kernel.UUID, packageID *kernel.UUID, kind Kind, payload string, occurredAt time.Time) (*Event, error) {
	e := &Event{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setPackageID(packageID),
		e.setKind(kind),
		e.setOccurredAt(occurredAt),
	); err != nil {
		return nil, err
	}
	e.payload = payload

	return e, nil
}

// Validate ensures the Event was created through a constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// PackageID returns the related package's identifier, or nil.
func (e *Event) PackageID() *kernel.UUID {
	return e.packageID
}

// Kind returns the event classification.
func (e *Event) Kind() Kind {
	return e.kind
}

// Payload returns the free-form event detail.
func (e *Event) Payload() string {
	return e.payload
}

// OccurredAt returns when the event happened.
func (e *Event) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *Event) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	e.id = id
	return nil
}

func (e *Event) setPackageID(packageID *kernel.UUID) error {
	if packageID == nil {
		return nil
	}
	if err := packageID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("packageID", err)
	}
	e.packageID = packageID
	return nil
}

func (e *Event) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("kind", err)
	}
	e.kind = kind
	return nil
}

func (e *Event) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	e.occurredAt = occurredAt
	return nil
}
