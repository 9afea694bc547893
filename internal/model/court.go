package model

import "time"

// Court belongs to a club and is the resource the overlap invariant protects.
//
// Fields:
//  ID              – UUID identity.
//  ClubID          – owning club.
//  Name            – display name within the club.
//  Type            – surface/discipline, free-form (padel, tennis, ...).
//  Indoor          – whether the court is covered.
//  BasePriceCents  – price for one slot in cents.
//  SlotDurationMin – slot length in minutes; 0 means use the platform default.
//  Active          – inactive courts cannot be booked.
type Court struct {
	ID              string    `json:"id"`
	ClubID          string    `json:"club_id"`
	Name            string    `json:"name"`
	Type            string    `json:"type,omitempty"`
	Indoor          bool      `json:"indoor"`
	BasePriceCents  uint32    `json:"base_price_cents"`
	SlotDurationMin uint32    `json:"slot_duration_min"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CanBeBooked reports whether the court accepts new bookings.
func (c *Court) CanBeBooked() bool { return c.Active }

// SlotDuration returns the court's slot length, falling back to def when the
// court has no override.
func (c *Court) SlotDuration(def time.Duration) time.Duration {
	if c.SlotDurationMin == 0 {
		return def
	}
	return time.Duration(c.SlotDurationMin) * time.Minute
}
