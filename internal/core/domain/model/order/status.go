package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The intake collaborator owns most transitions; the dispatch engine only
// cares that an order is in Processing before it may be linked to a package.
//
//	pending ──> processing ──> shipped ──> delivered
//	   │             │
//	   └──────> cancelled <───┘
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status assigned by order intake.
	Pending

	// Processing marks an order as accepted and eligible for dispatch.
	Processing

	// Shipped marks an order as out for delivery with its package.
	Shipped

	// Delivered is a final state for successfully completed orders.
	Delivered

	// Cancelled is a final state for withdrawn orders.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status, "unknown" for invalid
// values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateDispatch checks that an order in this status may be dispatched.
// Only Processing orders are eligible for package assignment.
func (s Status) ValidateDispatch() error {
	if s != Processing {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to dispatch", s))
	}
	return nil
}

// CanTransitionTo reports whether the intake-driven state machine allows
// moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case Pending:
		return next == Processing || next == Cancelled
	case Processing:
		return next == Shipped || next == Cancelled
	case Shipped:
		return next == Delivered
	default:
		return false
	}
}
