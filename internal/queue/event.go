// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into notification log lines.
package queue

// Queue names used by the publisher and the consumer. Durable queues on the
// default exchange; routing key equals queue name.
const (
	AuctionCreatedQueue   = "auction.created"
	AuctionExpiredQueue   = "auction.expired"
	BookingConfirmedQueue = "booking.confirmed"
)

// AuctionCreatedEvent is published when a player group opens an auction. It
// carries the club ids chosen by the nearby lookup so downstream consumers
// can notify each one without querying the primary stores.
type AuctionCreatedEvent struct {
	AuctionID string   `json:"auction_id"`
	City      string   `json:"city"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Category  string   `json:"category"`
	ClubIDs   []string `json:"club_ids"`
	CreatedAt string   `json:"created_at"`
}

// AuctionExpiredEvent is published by the sweeper when it force-expires a
// stale open auction. Consumers may tell the players no club responded.
type AuctionExpiredEvent struct {
	AuctionID string   `json:"auction_id"`
	PlayerIDs []string `json:"player_ids"`
	ExpiredAt string   `json:"expired_at"`
}

// BookingConfirmedEvent is published when a claim or direct booking produces
// a confirmed reservation. It contains enough information for downstream
// consumers to notify the owning user without further lookups.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	AuctionID   string `json:"auction_id,omitempty"`
	ClubID      string `json:"club_id,omitempty"`
	CourtID     string `json:"court_id"`
	UserID      string `json:"user_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	PriceCents  uint32 `json:"price_cents"`
	ConfirmedAt string `json:"confirmed_at"`
}
