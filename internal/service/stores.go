package service

import (
	"context"
	"time"

	"github.com/padelclub/court-auction/internal/model"
)

// The services depend on the narrow slices of the repository layer they
// actually use, so tests can substitute in-memory fakes.

type AuctionStore interface {
	Save(ctx context.Context, a *model.Auction) error
	FindByID(ctx context.Context, id string) (*model.Auction, error)
	FindOpen(ctx context.Context) ([]*model.Auction, error)
	Update(ctx context.Context, a *model.Auction) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	FindOverlapping(ctx context.Context, courtID string, start, end time.Time) ([]*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error
}

type CourtStore interface {
	GetByID(ctx context.Context, id string) (*model.Court, error)
}

type ClubStore interface {
	GetByID(ctx context.Context, id string) (*model.Club, error)
	FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Club, error)
}

// Broadcaster pushes real-time payloads to connected club dashboards.
type Broadcaster interface {
	SendToClub(clubID string, payload []byte)
}
