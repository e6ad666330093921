// Package event contains the Event entity, an append-only audit record
// of notable dispatch lifecycle moments.
package event
