package model

import (
	"errors"
	"testing"
	"time"
)

var bookingNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func mustBooking(t *testing.T, courtID string, start, end time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(courtID, "user-1", start, end, BookingConfirmed, 2500, time.Hour, bookingNow)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	return b
}

func TestNewBookingValidation(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		courtID string
		userID  string
		start   time.Time
		end     time.Time
	}{
		{"no court", "", "u", start, start.Add(time.Hour)},
		{"no user", "c", "", start, start.Add(time.Hour)},
		{"end before start", "c", "u", start, start.Add(-time.Hour)},
		{"zero length", "c", "u", start, start},
		{"below minimum", "c", "u", start, start.Add(30 * time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBooking(tc.courtID, tc.userID, tc.start, tc.end, BookingPending, 0, time.Hour, bookingNow)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestOverlapsWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	b := mustBooking(t, "court-1", start, end)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical", start, end, true},
		{"contained", start.Add(15 * time.Minute), end.Add(-15 * time.Minute), true},
		{"straddles start", start.Add(-time.Hour), start.Add(time.Minute), true},
		{"straddles end", end.Add(-time.Minute), end.Add(time.Hour), true},
		{"touching before", start.Add(-time.Hour), start, false},
		{"touching after", end, end.Add(time.Hour), false},
		{"disjoint", end.Add(time.Hour), end.Add(2 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.OverlapsWindow(tc.start, tc.end); got != tc.want {
				t.Fatalf("OverlapsWindow(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestOverlapsRequiresSameCourt(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
	a := mustBooking(t, "court-1", start, start.Add(time.Hour))
	b := mustBooking(t, "court-2", start, start.Add(time.Hour))
	if a.Overlaps(b) {
		t.Fatal("bookings on different courts must not overlap")
	}
	c := mustBooking(t, "court-1", start.Add(30*time.Minute), start.Add(2*time.Hour))
	if !a.Overlaps(c) {
		t.Fatal("same-court overlapping windows must overlap")
	}
}

func TestBookingLifecycle(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)

	b, err := NewBooking("court-1", "user-1", start, start.Add(time.Hour), BookingPending, 2500, time.Hour, bookingNow)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if !b.IsActive() {
		t.Fatal("pending booking must be active")
	}
	if err := b.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := b.Confirm(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double confirm: want ErrInvalidState, got %v", err)
	}
	if err := b.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.IsActive() {
		t.Fatal("completed booking must not be active")
	}
	if err := b.Cancel(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel completed: want ErrInvalidState, got %v", err)
	}
}
