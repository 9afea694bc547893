package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/model"
	q "github.com/padelclub/court-auction/internal/queue"
)

// BookingService handles direct court bookings made outside the auction
// flow. Direct bookings take a court-slot lock so two users hitting the same
// slot at once cannot both pass the overlap check.
type BookingService struct {
	locks    lock.Store
	bookings BookingStore
	courts   CourtStore
	notifier Notifier
	clk      clock.Clock

	lockTTL    time.Duration
	minBooking time.Duration
}

func NewBookingService(locks lock.Store, bookings BookingStore, courts CourtStore, notifier Notifier, clk clock.Clock, cfg config.AuctionConfig) *BookingService {
	return &BookingService{
		locks:      locks,
		bookings:   bookings,
		courts:     courts,
		notifier:   notifier,
		clk:        clk,
		lockTTL:    cfg.LockTTL,
		minBooking: cfg.MinBooking,
	}
}

// CreateBookingInput carries a direct booking request.
type CreateBookingInput struct {
	CourtID   string
	UserID    string
	StartTime time.Time
	EndTime   time.Time
}

// Create books a court window directly. The booking starts PENDING and is
// confirmed separately.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	court, err := s.courts.GetByID(ctx, in.CourtID)
	if err != nil {
		return nil, err
	}
	if !court.CanBeBooked() {
		return nil, fmt.Errorf("%w: court %s is not bookable", model.ErrInvalidState, in.CourtID)
	}

	key := lock.CourtSlotKey(in.CourtID, in.StartTime)
	acquired, err := s.locks.Acquire(ctx, key, in.UserID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	if !acquired {
		return nil, model.ErrSlotConflict
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.locks.Release(releaseCtx, key); err != nil {
			log.Printf("booking: release lock %s: %v", key, err)
		}
	}()

	overlapping, err := s.bookings.FindOverlapping(ctx, in.CourtID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, model.ErrSlotConflict
	}

	booking, err := model.NewBooking(
		in.CourtID,
		in.UserID,
		in.StartTime,
		in.EndTime,
		model.BookingPending,
		court.BasePriceCents,
		s.minBooking,
		s.clk.Now(),
	)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm transitions a pending booking to CONFIRMED and publishes the
// confirmation event.
func (s *BookingService) Confirm(ctx context.Context, id, userID string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, model.ErrBookingNotFound
	}
	if err := booking.Confirm(); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, id, model.BookingConfirmed); err != nil {
		return nil, err
	}

	ev := q.BookingConfirmedEvent{
		BookingID:   booking.ID,
		CourtID:     booking.CourtID,
		UserID:      booking.UserID,
		StartTime:   booking.StartTime.Format(time.RFC3339),
		EndTime:     booking.EndTime.Format(time.RFC3339),
		PriceCents:  booking.PriceCents,
		ConfirmedAt: s.clk.Now().Format(time.RFC3339),
	}
	if err := s.notifier.BookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: confirmed event for %s not published: %v", booking.ID, err)
	}
	return booking, nil
}

// Get returns a booking if it belongs to the given user.
func (s *BookingService) Get(ctx context.Context, id, userID string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, model.ErrBookingNotFound
	}
	return booking, nil
}

// ListByUser returns the user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Cancel cancels a booking before it starts.
func (s *BookingService) Cancel(ctx context.Context, id, userID string) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return model.ErrBookingNotFound
	}
	if !s.clk.Now().Before(booking.StartTime) {
		return fmt.Errorf("%w: booking has already started", model.ErrInvalidState)
	}
	if err := booking.Cancel(); err != nil {
		return err
	}
	return s.bookings.UpdateStatus(ctx, id, model.BookingCancelled)
}

// CheckAvailability reports whether a court window is free of active
// bookings.
func (s *BookingService) CheckAvailability(ctx context.Context, courtID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, fmt.Errorf("%w: start must be before end", model.ErrValidation)
	}
	overlapping, err := s.bookings.FindOverlapping(ctx, courtID, start, end)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}
