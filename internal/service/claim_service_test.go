package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/model"
	q "github.com/padelclub/court-auction/internal/queue"
)

// ---- fakes -------------------------------------------------------------

type fakeAuctionStore struct {
	mu       sync.Mutex
	auctions map[string]model.Auction
}

func newFakeAuctionStore() *fakeAuctionStore {
	return &fakeAuctionStore{auctions: make(map[string]model.Auction)}
}

func (s *fakeAuctionStore) Save(_ context.Context, a *model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[a.ID] = *a
	return nil
}

// FindByID hands out a copy, like the real store's JSON round-trip does.
func (s *fakeAuctionStore) FindByID(_ context.Context, id string) (*model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok {
		return nil, model.ErrAuctionNotFound
	}
	cp := a
	cp.PlayerIDs = append([]string(nil), a.PlayerIDs...)
	return &cp, nil
}

func (s *fakeAuctionStore) FindOpen(_ context.Context) ([]*model.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionOpen {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeAuctionStore) Update(_ context.Context, a *model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[a.ID]; !ok {
		return model.ErrAuctionNotFound
	}
	s.auctions[a.ID] = *a
	return nil
}

func (s *fakeAuctionStore) get(id string) model.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auctions[id]
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings []*model.Booking
}

func (s *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, model.ErrBookingNotFound
}

func (s *fakeBookingStore) FindOverlapping(_ context.Context, courtID string, start, end time.Time) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.CourtID == courtID && b.IsActive() && b.OverlapsWindow(start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, id string, status model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return model.ErrBookingNotFound
}

func (s *fakeBookingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type fakeCourtStore struct {
	courts map[string]*model.Court
}

func (s *fakeCourtStore) GetByID(_ context.Context, id string) (*model.Court, error) {
	c, ok := s.courts[id]
	if !ok {
		return nil, model.ErrCourtNotFound
	}
	return c, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	created   []q.AuctionCreatedEvent
	expired   []q.AuctionExpiredEvent
	confirmed []q.BookingConfirmedEvent
	err       error
}

func (n *fakeNotifier) AuctionCreated(_ context.Context, ev q.AuctionCreatedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, ev)
	return n.err
}

func (n *fakeNotifier) AuctionExpired(_ context.Context, ev q.AuctionExpiredEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired = append(n.expired, ev)
	return n.err
}

func (n *fakeNotifier) BookingConfirmed(_ context.Context, ev q.BookingConfirmedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, ev)
	return n.err
}

func (n *fakeNotifier) confirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed)
}

// failingLockStore simulates an unreachable lock store.
type failingLockStore struct{}

func (failingLockStore) Acquire(context.Context, string, string, time.Duration) (bool, error) {
	return false, fmt.Errorf("%w: connection refused", lock.ErrUnavailable)
}
func (failingLockStore) Release(context.Context, string) error { return nil }

// ---- fixtures ----------------------------------------------------------

var testCfg = config.AuctionConfig{
	LockTTL:        time.Minute,
	AuctionTTL:     2 * time.Hour,
	SweepInterval:  time.Hour,
	SweepThreshold: 15 * time.Minute,
	RadiusKm:       10,
	MatchDuration:  90 * time.Minute,
	MinBooking:     60 * time.Minute,
}

func openAuction(t *testing.T, store *fakeAuctionStore, now time.Time) *model.Auction {
	t.Helper()
	lat, lon := 40.42, -3.70
	a, err := model.NewAuction([]string{"lead", "p2"}, "Madrid",
		time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), "18:00", "B2", &lat, &lon, now)
	if err != nil {
		t.Fatalf("NewAuction: %v", err)
	}
	if err := store.Save(context.Background(), a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return a
}

func activeCourt(id string, slotMin uint32) *model.Court {
	return &model.Court{
		ID:              id,
		ClubID:          "club-1",
		Name:            "Center",
		BasePriceCents:  2400,
		SlotDurationMin: slotMin,
		Active:          true,
	}
}

type claimFixture struct {
	locks    *lock.MemoryStore
	auctions *fakeAuctionStore
	bookings *fakeBookingStore
	courts   *fakeCourtStore
	notifier *fakeNotifier
	svc      *ClaimService
}

func newClaimFixture(t *testing.T) *claimFixture {
	t.Helper()
	f := &claimFixture{
		locks:    lock.NewMemoryStore(),
		auctions: newFakeAuctionStore(),
		bookings: &fakeBookingStore{},
		courts:   &fakeCourtStore{courts: map[string]*model.Court{"court-1": activeCourt("court-1", 0)}},
		notifier: &fakeNotifier{},
	}
	clk := clock.NewFixed(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	f.svc = NewClaimService(f.locks, f.auctions, f.bookings, f.courts, f.notifier, clk, testCfg)
	return f
}

// ---- tests -------------------------------------------------------------

func TestClaimSuccess(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	booking, err := f.svc.Claim(context.Background(), a.ID, "club-1", "court-1")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}

	if booking.UserID != "lead" {
		t.Fatalf("booking owner: want lead, got %s", booking.UserID)
	}
	if booking.Status != model.BookingConfirmed {
		t.Fatalf("booking status: want CONFIRMED, got %s", booking.Status)
	}
	wantStart := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)
	if !booking.StartTime.Equal(wantStart) || booking.Duration() != 90*time.Minute {
		t.Fatalf("window: got %v + %v", booking.StartTime, booking.Duration())
	}
	if booking.PriceCents != 2400 {
		t.Fatalf("price: want 2400, got %d", booking.PriceCents)
	}

	stored := f.auctions.get(a.ID)
	if stored.Status != model.AuctionClaimed || stored.ClaimedByClubID != "club-1" || stored.BookingID != booking.ID {
		t.Fatalf("auction after claim: %+v", stored)
	}
	if f.notifier.confirmedCount() != 1 {
		t.Fatalf("confirmed events: want 1, got %d", f.notifier.confirmedCount())
	}
	if _, held := f.locks.Owner(lock.AuctionKey(a.ID)); held {
		t.Fatal("lock must be released after a successful claim")
	}
}

func TestClaimUsesCourtSlotDuration(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	f.courts.courts["court-2"] = activeCourt("court-2", 60)
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	booking, err := f.svc.Claim(context.Background(), a.ID, "club-1", "court-2")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if booking.Duration() != time.Hour {
		t.Fatalf("duration: want 1h slot override, got %v", booking.Duration())
	}
}

func TestClaimExactlyOneWinner(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	const clubs = 16
	var wg sync.WaitGroup
	errs := make([]error, clubs)
	for i := 0; i < clubs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Claim(context.Background(), a.ID, fmt.Sprintf("club-%d", i), "court-1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrAlreadyClaimed):
		default:
			t.Fatalf("club-%d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners: want exactly 1, got %d", wins)
	}
	if got := f.bookings.count(); got != 1 {
		t.Fatalf("bookings: want exactly 1, got %d", got)
	}

	stored := f.auctions.get(a.ID)
	if stored.Status != model.AuctionClaimed {
		t.Fatalf("auction status: want CLAIMED, got %s", stored.Status)
	}
	if _, held := f.locks.Owner(lock.AuctionKey(a.ID)); held {
		t.Fatal("lock must be released after the race settles")
	}
}

func TestClaimSlotConflictLeavesAuctionOpen(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	// An existing direct booking straddles the auction's window.
	existing, err := model.NewBooking("court-1", "other-user",
		time.Date(2026, 10, 3, 17, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 3, 18, 30, 0, 0, time.UTC),
		model.BookingConfirmed, 2400, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if err := f.bookings.Create(context.Background(), existing); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.svc.Claim(context.Background(), a.ID, "club-1", "court-1")
	if !errors.Is(err, model.ErrSlotConflict) {
		t.Fatalf("want ErrSlotConflict, got %v", err)
	}

	stored := f.auctions.get(a.ID)
	if stored.Status != model.AuctionOpen {
		t.Fatalf("a failed claim must leave the auction OPEN, got %s", stored.Status)
	}
	if got := f.bookings.count(); got != 1 {
		t.Fatalf("no new booking on conflict: want 1, got %d", got)
	}
	if _, held := f.locks.Owner(lock.AuctionKey(a.ID)); held {
		t.Fatal("lock must be released after a failed claim")
	}

	// The same club can claim again on a free court.
	f.courts.courts["court-3"] = activeCourt("court-3", 0)
	if _, err := f.svc.Claim(context.Background(), a.ID, "club-1", "court-3"); err != nil {
		t.Fatalf("retry on a free court: %v", err)
	}
}

func TestClaimRejectsNonOpenAuction(t *testing.T) {
	t.Parallel()

	// A CLAIMED auction signals contention; EXPIRED and CANCELLED mean the
	// auction is gone, which is a different answer to the caller.
	cases := []struct {
		name       string
		transition func(a *model.Auction) error
		wantErr    error
	}{
		{"claimed", func(a *model.Auction) error { return a.Claim("club-9", "booking-9") }, model.ErrAlreadyClaimed},
		{"expired", func(a *model.Auction) error { return a.Expire() }, model.ErrInvalidState},
		{"cancelled", func(a *model.Auction) error { return a.Cancel() }, model.ErrInvalidState},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newClaimFixture(t)
			a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

			stored, _ := f.auctions.FindByID(context.Background(), a.ID)
			if err := tc.transition(stored); err != nil {
				t.Fatalf("transition: %v", err)
			}
			if err := f.auctions.Update(context.Background(), stored); err != nil {
				t.Fatalf("Update: %v", err)
			}

			_, err := f.svc.Claim(context.Background(), a.ID, "club-1", "court-1")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if got := f.bookings.count(); got != 0 {
				t.Fatalf("no booking may exist, got %d", got)
			}
			if _, held := f.locks.Owner(lock.AuctionKey(a.ID)); held {
				t.Fatal("lock must be released after the rejected claim")
			}
		})
	}
}

func TestClaimAuctionNotFound(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)

	_, err := f.svc.Claim(context.Background(), "missing", "club-1", "court-1")
	if !errors.Is(err, model.ErrAuctionNotFound) {
		t.Fatalf("want ErrAuctionNotFound, got %v", err)
	}
	if _, held := f.locks.Owner(lock.AuctionKey("missing")); held {
		t.Fatal("lock must be released when the auction does not exist")
	}
}

func TestClaimRejectsInactiveCourt(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	inactive := activeCourt("court-9", 0)
	inactive.Active = false
	f.courts.courts["court-9"] = inactive
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	_, err := f.svc.Claim(context.Background(), a.ID, "club-1", "court-9")
	if !errors.Is(err, model.ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
	if f.auctions.get(a.ID).Status != model.AuctionOpen {
		t.Fatal("auction must stay OPEN")
	}
}

func TestClaimFailsClosedWhenLockStoreDown(t *testing.T) {
	t.Parallel()
	f := newClaimFixture(t)
	a := openAuction(t, f.auctions, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	clk := clock.NewFixed(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	svc := NewClaimService(failingLockStore{}, f.auctions, f.bookings, f.courts, f.notifier, clk, testCfg)

	_, err := svc.Claim(context.Background(), a.ID, "club-1", "court-1")
	if !errors.Is(err, lock.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatal("lock store outage must be reported as retryable")
	}
	if f.auctions.get(a.ID).Status != model.AuctionOpen {
		t.Fatal("auction must be untouched when the lock store is down")
	}
	if got := f.bookings.count(); got != 0 {
		t.Fatalf("no booking may exist, got %d", got)
	}
}
