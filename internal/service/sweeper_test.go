package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/model"
)

func TestSweeperExpiresOnlyStaleOpenAuctions(t *testing.T) {
	t.Parallel()
	auctions := newFakeAuctionStore()
	notifier := &fakeNotifier{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	stale := openAuction(t, auctions, now.Add(-30*time.Minute))
	fresh := openAuction(t, auctions, now.Add(-5*time.Minute))
	claimed := openAuction(t, auctions, now.Add(-45*time.Minute))
	{
		a, _ := auctions.FindByID(context.Background(), claimed.ID)
		if err := a.Claim("club-1", "booking-1"); err != nil {
			t.Fatalf("Claim: %v", err)
		}
		if err := auctions.Update(context.Background(), a); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	sw := NewSweeper(auctions, notifier, clock.NewFixed(now), testCfg)
	n, err := sw.ExpireStale(context.Background())
	if err != nil {
		t.Fatalf("ExpireStale: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired: want 1, got %d", n)
	}

	if got := auctions.get(stale.ID).Status; got != model.AuctionExpired {
		t.Fatalf("stale auction: want EXPIRED, got %s", got)
	}
	if got := auctions.get(fresh.ID).Status; got != model.AuctionOpen {
		t.Fatalf("fresh auction: want OPEN, got %s", got)
	}
	if got := auctions.get(claimed.ID).Status; got != model.AuctionClaimed {
		t.Fatalf("claimed auction: want CLAIMED, got %s", got)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.expired) != 1 || notifier.expired[0].AuctionID != stale.ID {
		t.Fatalf("expired events: %+v", notifier.expired)
	}
}

func TestSweeperSecondPassIsIdempotent(t *testing.T) {
	t.Parallel()
	auctions := newFakeAuctionStore()
	notifier := &fakeNotifier{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	openAuction(t, auctions, now.Add(-time.Hour))

	sw := NewSweeper(auctions, notifier, clock.NewFixed(now), testCfg)
	if n, err := sw.ExpireStale(context.Background()); err != nil || n != 1 {
		t.Fatalf("first pass: n=%d err=%v", n, err)
	}
	if n, err := sw.ExpireStale(context.Background()); err != nil || n != 0 {
		t.Fatalf("second pass: n=%d err=%v", n, err)
	}
}

func TestExpiredAuctionCannotBeClaimed(t *testing.T) {
	t.Parallel()
	auctions := newFakeAuctionStore()
	notifier := &fakeNotifier{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	a := openAuction(t, auctions, now.Add(-time.Hour))

	sw := NewSweeper(auctions, notifier, clock.NewFixed(now), testCfg)
	if n, err := sw.ExpireStale(context.Background()); err != nil || n != 1 {
		t.Fatalf("sweep: n=%d err=%v", n, err)
	}

	courts := &fakeCourtStore{courts: map[string]*model.Court{"court-1": activeCourt("court-1", 0)}}
	claims := NewClaimService(lock.NewMemoryStore(), auctions, &fakeBookingStore{}, courts, notifier, clock.NewFixed(now), testCfg)
	if _, err := claims.Claim(context.Background(), a.ID, "club-1", "court-1"); !errors.Is(err, model.ErrInvalidState) {
		t.Fatalf("claim after expiry: want ErrInvalidState, got %v", err)
	}
	if got := auctions.get(a.ID).Status; got != model.AuctionExpired {
		t.Fatalf("status must remain EXPIRED, got %s", got)
	}
}

func TestSweeperThresholdBoundary(t *testing.T) {
	t.Parallel()
	auctions := newFakeAuctionStore()
	notifier := &fakeNotifier{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	// Created exactly threshold ago: not After(cutoff), so it expires.
	boundary := openAuction(t, auctions, now.Add(-testCfg.SweepThreshold))

	sw := NewSweeper(auctions, notifier, clock.NewFixed(now), testCfg)
	if n, err := sw.ExpireStale(context.Background()); err != nil || n != 1 {
		t.Fatalf("boundary pass: n=%d err=%v", n, err)
	}
	if got := auctions.get(boundary.ID).Status; got != model.AuctionExpired {
		t.Fatalf("boundary auction: want EXPIRED, got %s", got)
	}
}
