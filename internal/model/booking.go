package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus enumerates the booking lifecycle. PENDING and CONFIRMED
// bookings are "active" and participate in the overlap invariant.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is a confirmed or pending court reservation. Two bookings on the
// same court overlap iff startA < endB && endA > startB; the system never
// persists two overlapping active bookings for one court.
//
// Fields:
//  ID         – UUID identity.
//  CourtID    – court being reserved.
//  UserID     – owning user (the auction's lead player for claimed matches).
//  StartTime  – window start, inclusive.
//  EndTime    – window end, exclusive; must be after StartTime.
//  Status     – lifecycle status.
//  PriceCents – price for the slot in cents.
type Booking struct {
	ID         string        `json:"id"`
	CourtID    string        `json:"court_id"`
	UserID     string        `json:"user_id"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Status     BookingStatus `json:"status"`
	PriceCents uint32        `json:"price_cents"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewBooking validates the window and builds a booking in the given status.
// minDuration guards against degenerate slots; court slot durations vary, so
// it is a parameter rather than a constant.
func NewBooking(courtID, userID string, start, end time.Time, status BookingStatus, priceCents uint32, minDuration time.Duration, now time.Time) (*Booking, error) {
	if courtID == "" {
		return nil, fmt.Errorf("%w: court id is required", ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	if end.Sub(start) < minDuration {
		return nil, fmt.Errorf("%w: booking must last at least %s", ErrValidation, minDuration)
	}
	return &Booking{
		ID:         uuid.NewString(),
		CourtID:    courtID,
		UserID:     userID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     status,
		PriceCents: priceCents,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

// IsActive reports whether the booking counts against the court's schedule.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Overlaps reports whether two bookings on the same court have intersecting
// windows. Bookings on different courts never overlap; touching windows
// (end == otherStart) do not overlap.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.CourtID == other.CourtID && b.OverlapsWindow(other.StartTime, other.EndTime)
}

// OverlapsWindow applies the half-open interval intersection test against an
// arbitrary window.
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// Confirm transitions PENDING -> CONFIRMED.
func (b *Booking) Confirm() error {
	if b.Status != BookingPending {
		return fmt.Errorf("%w: cannot confirm a %s booking", ErrInvalidState, b.Status)
	}
	b.Status = BookingConfirmed
	return nil
}

// Cancel is allowed from PENDING or CONFIRMED only.
func (b *Booking) Cancel() error {
	if !b.IsActive() {
		return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidState, b.Status)
	}
	b.Status = BookingCancelled
	return nil
}

// Complete is allowed from CONFIRMED only.
func (b *Booking) Complete() error {
	if b.Status != BookingConfirmed {
		return fmt.Errorf("%w: only confirmed bookings can be completed", ErrInvalidState)
	}
	b.Status = BookingCompleted
	return nil
}

// Duration returns the booked window length.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
