package ports

import "errors"

// ErrConflict is returned by repositories when persisting an aggregate
// violates a uniqueness constraint. Callers treat it as "another writer
// won the race" and re-read state instead of failing.
var ErrConflict = errors.New("storage conflict")
