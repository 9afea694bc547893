package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/model"
	q "github.com/padelclub/court-auction/internal/queue"
)

// ClaimService arbitrates concurrent club claims on an open auction. The
// per-auction distributed lock guarantees at most one club can run the
// claim workflow at a time; everything between Acquire and Release runs
// single-writer.
type ClaimService struct {
	locks    lock.Store
	auctions AuctionStore
	bookings BookingStore
	courts   CourtStore
	notifier Notifier
	clk      clock.Clock

	lockTTL       time.Duration
	matchDuration time.Duration
	minBooking    time.Duration
}

func NewClaimService(
	locks lock.Store,
	auctions AuctionStore,
	bookings BookingStore,
	courts CourtStore,
	notifier Notifier,
	clk clock.Clock,
	cfg config.AuctionConfig,
) *ClaimService {
	return &ClaimService{
		locks:         locks,
		auctions:      auctions,
		bookings:      bookings,
		courts:        courts,
		notifier:      notifier,
		clk:           clk,
		lockTTL:       cfg.LockTTL,
		matchDuration: cfg.MatchDuration,
		minBooking:    cfg.MinBooking,
	}
}

// Claim attempts to win the auction for the given club on the given court.
// On success the auction is CLAIMED, a CONFIRMED booking exists for the
// auction's lead player, and the created booking is returned. Losers get
// model.ErrAlreadyClaimed without touching any state; an auction that
// already expired or was cancelled yields model.ErrInvalidState instead.
func (s *ClaimService) Claim(ctx context.Context, auctionID, clubID, courtID string) (*model.Booking, error) {
	key := lock.AuctionKey(auctionID)
	acquired, err := s.locks.Acquire(ctx, key, clubID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire auction lock: %w", err)
	}
	if !acquired {
		// Another club holds the lock. Do not wait: losing fast is the point.
		return nil, model.ErrAlreadyClaimed
	}
	defer func() {
		// Release must happen even when the request context is already
		// cancelled, otherwise the auction stays locked for a full TTL.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.locks.Release(releaseCtx, key); err != nil {
			log.Printf("claim: release lock %s: %v", key, err)
		}
	}()

	auction, err := s.auctions.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	switch auction.Status {
	case model.AuctionOpen:
	case model.AuctionClaimed:
		// Another club got here first; the caller lost the race.
		return nil, model.ErrAlreadyClaimed
	default:
		// EXPIRED or CANCELLED is not contention: nobody won, the auction
		// is just gone.
		return nil, fmt.Errorf("%w: auction is %s", model.ErrInvalidState, auction.Status)
	}

	court, err := s.courts.GetByID(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !court.CanBeBooked() {
		return nil, fmt.Errorf("%w: court %s is not bookable", model.ErrInvalidState, courtID)
	}

	start, end, err := auction.MatchWindow(court.SlotDuration(s.matchDuration))
	if err != nil {
		return nil, err
	}

	// The lock serializes claims on this auction, but not direct bookings
	// on the court. The overlap query closes that gap.
	overlapping, err := s.bookings.FindOverlapping(ctx, courtID, start, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, model.ErrSlotConflict
	}

	booking, err := model.NewBooking(
		courtID,
		auction.LeadPlayerID(),
		start,
		end,
		model.BookingConfirmed,
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

	if err := auction.Claim(clubID, booking.ID); err != nil {
		return nil, err
	}
	if err := s.auctions.Update(ctx, auction); err != nil {
		return nil, err
	}

	ev := q.BookingConfirmedEvent{
		BookingID:   booking.ID,
		AuctionID:   auction.ID,
		ClubID:      clubID,
		CourtID:     courtID,
		UserID:      booking.UserID,
		StartTime:   booking.StartTime.Format(time.RFC3339),
		EndTime:     booking.EndTime.Format(time.RFC3339),
		PriceCents:  booking.PriceCents,
		ConfirmedAt: s.clk.Now().Format(time.RFC3339),
	}
	if err := s.notifier.BookingConfirmed(ctx, ev); err != nil {
		log.Printf("claim: booking confirmed event for %s not published: %v", booking.ID, err)
	}

	return booking, nil
}

// IsRetryable reports whether a claim failure is worth retrying by the same
// club, as opposed to the auction being gone for good.
func IsRetryable(err error) bool {
	return errors.Is(err, lock.ErrUnavailable)
}
