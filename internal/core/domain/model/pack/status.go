package pack

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a package.
//
//	pending ──> assigned ──> in_progress ──> completed
//	   │            │              │
//	   └────────────┴──> cancelled <┘
//
// A pending package has no driver yet; assigning one moves it to assigned.
// The first three states are "active": they count against the one active
// package per driver per service date rule.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending marks a package waiting for a driver.
	StatusPending

	// StatusAssigned marks a package with a driver, not yet out for delivery.
	StatusAssigned

	// StatusInProgress marks a package currently being delivered.
	StatusInProgress

	// StatusCompleted is a final state for fully delivered packages.
	StatusCompleted

	// StatusCancelled is a final state for administratively withdrawn packages.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusAssigned:   "assigned",
		StatusInProgress: "in_progress",
		StatusCompleted:  "completed",
		StatusCancelled:  "cancelled",
	}
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if s < StatusPending || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid package status", s))
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

// IsActive reports whether a package in this status occupies its driver's
// slot for the service date.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusAssigned || s == StatusInProgress
}

// AssignDriver transitions the status to StatusAssigned.
// Only pending packages can receive a driver.
func (s Status) AssignDriver() (Status, error) {
	if s != StatusPending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to assign a driver", s))
	}
	return StatusAssigned, nil
}

// Start transitions the status to StatusInProgress.
func (s Status) Start() (Status, error) {
	if s != StatusAssigned {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to start", s))
	}
	return StatusInProgress, nil
}

// Complete transitions the status to StatusCompleted.
func (s Status) Complete() (Status, error) {
	if s != StatusInProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s))
	}
	return StatusCompleted, nil
}

// Cancel transitions the status to StatusCancelled.
// Any active package can be cancelled; final states cannot.
func (s Status) Cancel() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}
	return StatusCancelled, nil
}
