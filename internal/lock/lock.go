// Package lock provides the distributed mutual-exclusion primitive used to
// serialize competing auction claims and court-slot bookings. A lock is a
// store-mediated key with an opaque owner token and an absolute expiry; at
// most one live lock exists per key at any instant.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps store connectivity failures. Under the default
// fail-closed policy the caller treats it as "lock not acquired".
var ErrUnavailable = errors.New("lock store unavailable")

// Store is the contract every lock backend satisfies.
//
// Acquire atomically creates key with the given owner token and TTL only if
// the key is absent, and reports whether this call created it. There is no
// check-then-set window: the backend must perform a single atomic operation.
//
// Release unconditionally deletes the key. Releasing an absent or already
// expired key is a no-op, not an error.
type Store interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// AuctionKey builds the lock key guarding claim arbitration for one auction.
func AuctionKey(auctionID string) string {
	return "lock:" + auctionID
}

// CourtSlotKey builds the lock key guarding a specific court slot. Direct
// bookings take this lock too, so auction claims and direct bookings are
// uniformly serialized per slot.
func CourtSlotKey(courtID string, start time.Time) string {
	return "lock:court:" + courtID + ":slot:" + start.UTC().Format("200601021504")
}
