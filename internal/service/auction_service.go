package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	"github.com/padelclub/court-auction/internal/model"
	q "github.com/padelclub/court-auction/internal/queue"
)

// AuctionService creates and manages match auctions and fans new ones out to
// nearby clubs over the broker and the websocket hub.
type AuctionService struct {
	auctions AuctionStore
	clubs    ClubStore
	hub      Broadcaster
	notifier Notifier
	clk      clock.Clock
	radiusKm float64
}

func NewAuctionService(auctions AuctionStore, clubs ClubStore, hub Broadcaster, notifier Notifier, clk clock.Clock, cfg config.AuctionConfig) *AuctionService {
	return &AuctionService{
		auctions: auctions,
		clubs:    clubs,
		hub:      hub,
		notifier: notifier,
		clk:      clk,
		radiusKm: cfg.RadiusKm,
	}
}

// CreateAuctionInput carries everything needed to open an auction.
type CreateAuctionInput struct {
	PlayerIDs []string
	City      string
	Date      time.Time
	Time      string
	Category  string
	Latitude  float64
	Longitude float64
}

// Create opens a new auction and notifies every club within the configured
// radius. At least one club must be in range; an auction nobody can see
// would sit open until the sweeper kills it, so it is rejected up front.
func (s *AuctionService) Create(ctx context.Context, in CreateAuctionInput) (*model.Auction, error) {
	lat, lon := in.Latitude, in.Longitude
	auction, err := model.NewAuction(in.PlayerIDs, in.City, in.Date, in.Time, in.Category, &lat, &lon, s.clk.Now())
	if err != nil {
		return nil, err
	}

	nearby, err := s.clubs.FindNearby(ctx, lat, lon, s.radiusKm)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return nil, fmt.Errorf("%w: no clubs within %.0f km", model.ErrClubNotFound, s.radiusKm)
	}

	if err := s.auctions.Save(ctx, auction); err != nil {
		return nil, err
	}

	clubIDs := make([]string, 0, len(nearby))
	for _, club := range nearby {
		clubIDs = append(clubIDs, club.ID)
	}

	ev := q.AuctionCreatedEvent{
		AuctionID: auction.ID,
		City:      auction.City,
		Date:      auction.Date.Format("2006-01-02"),
		Time:      auction.Time,
		Category:  auction.Category,
		ClubIDs:   clubIDs,
		CreatedAt: auction.CreatedAt.Format(time.RFC3339),
	}
	if err := s.notifier.AuctionCreated(ctx, ev); err != nil {
		log.Printf("auction: created event for %s not published: %v", auction.ID, err)
	}

	if payload, err := json.Marshal(map[string]any{
		"type":    "auction.created",
		"auction": auction,
	}); err == nil {
		for _, id := range clubIDs {
			s.hub.SendToClub(id, payload)
		}
	}

	return auction, nil
}

// Get returns a single auction by id.
func (s *AuctionService) Get(ctx context.Context, id string) (*model.Auction, error) {
	return s.auctions.FindByID(ctx, id)
}

// ListOpen returns every auction still claimable.
func (s *AuctionService) ListOpen(ctx context.Context) ([]*model.Auction, error) {
	return s.auctions.FindOpen(ctx)
}

// Cancel withdraws an open auction on behalf of its lead player. Only the
// lead may cancel.
func (s *AuctionService) Cancel(ctx context.Context, id, playerID string) (*model.Auction, error) {
	auction, err := s.auctions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction.LeadPlayerID() != playerID {
		return nil, fmt.Errorf("%w: only the group lead can cancel", model.ErrValidation)
	}
	if err := auction.Cancel(); err != nil {
		return nil, err
	}
	if err := s.auctions.Update(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}

// Join adds a player to an open auction.
func (s *AuctionService) Join(ctx context.Context, id, playerID string) (*model.Auction, error) {
	auction, err := s.auctions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auction.AddPlayer(playerID); err != nil {
		return nil, err
	}
	if err := s.auctions.Update(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}

// Leave removes a player from an open auction. The lead cannot leave; they
// cancel instead.
func (s *AuctionService) Leave(ctx context.Context, id, playerID string) (*model.Auction, error) {
	auction, err := s.auctions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction.LeadPlayerID() == playerID {
		return nil, fmt.Errorf("%w: the group lead cannot leave, cancel the auction instead", model.ErrValidation)
	}
	if err := auction.RemovePlayer(playerID); err != nil {
		return nil, err
	}
	if err := s.auctions.Update(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}
