package kernel

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTimeWindowIsNotConstructed is returned when using an improperly
// initialized TimeWindow. Windows must be created via NewTimeWindow.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via NewTimeWindow constructor")

// TimeWindow is the requested delivery or pickup interval of an order and,
// by aggregation, of a package. It is immutable, and its start determines the
// service date the package is planned for.
type TimeWindow struct { //nolint:recvcheck //using for validation
	from  time.Time
	to    time.Time
	guard guard.ConstructorGuard
}

// NewTimeWindow creates a window covering [from, to).
// Both bounds must be non-zero and from must precede to.
func NewTimeWindow(from, to time.Time) (TimeWindow, error) {
	w := TimeWindow{
		guard: guard.NewConstructorGuard(),
	}

	if err := w.setBounds(from, to); err != nil {
		return TimeWindow{}, err
	}

	return w, nil
}

// Validate checks that the TimeWindow was produced by NewTimeWindow.
func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}

// From returns the inclusive start of the window.
func (w TimeWindow) From() time.Time {
	return w.from
}

// To returns the exclusive end of the window.
func (w TimeWindow) To() time.Time {
	return w.to
}

// ServiceDate returns the calendar date the window opens on, as UTC midnight.
// Packages are grouped by this value.
func (w TimeWindow) ServiceDate() time.Time {
	utc := w.from.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.from) && t.Before(w.to)
}

// String implements fmt.Stringer.
func (w TimeWindow) String() string {
	return fmt.Sprintf("TimeWindow(%s..%s)", w.from.Format(time.RFC3339), w.to.Format(time.RFC3339))
}

// IsEqual compares two windows by their bounds.
func (w TimeWindow) IsEqual(other TimeWindow) (bool, error) {
	if err := errors.Join(w.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return w.from.Equal(other.from) && w.to.Equal(other.to), nil
}

func (w *TimeWindow) setBounds(from, to time.Time) error {
	if from.IsZero() {
		return errs.NewValueIsRequiredError("from")
	}
	if to.IsZero() {
		return errs.NewValueIsRequiredError("to")
	}
	if !from.Before(to) {
		return errs.NewValueIsInvalidErrorWithCause("time window",
			fmt.Errorf("from %s is not before to %s", from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}

	w.from = from
	w.to = to
	return nil
}
