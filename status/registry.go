package status

import "context"

// Registry tracks the phase of in-flight background tasks, keyed by
// conversation id. Implementations must be thread-safe.
type Registry interface {
	// Set records the phase string for the task, creating or overwriting
	// the entry.
	Set(ctx context.Context, id string, phase string) error

	// Get returns the phase string for the task and whether an entry exists.
	Get(ctx context.Context, id string) (string, bool, error)

	// Delete removes the entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, id string) error
}
