package session

import (
	"context"
	"time"
)

// Store holds short-lived workflow session state: the availability map,
// dispatch allocations and acknowledgment working set a user builds up
// between opening a sub-flow and submitting it. Sessions are transient by
// contract — every value is TTL-bounded and deleted on submit or cancel,
// mirroring how the working set would be discarded on page navigation.
//
// The interface allows swapping implementations (Redis, in-memory).
type Store interface {
	// Get loads the session at key into dest.
	// found = false means no session (expired or never created); dest is
	// left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a session value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// GetDel atomically loads and removes the session at key. Submit
	// handlers use this as first-wins double-submission protection: the
	// second submit finds nothing.
	GetDel(ctx context.Context, key string, dest interface{}) (bool, error)

	// Delete removes sessions.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the backing store connection.
	Ping(ctx context.Context) error
}
