package service

import (
	"context"
	"log"
	"time"

	"github.com/padelclub/court-auction/internal/clock"
	"github.com/padelclub/court-auction/internal/config"
	q "github.com/padelclub/court-auction/internal/queue"
)

// Sweeper force-expires open auctions that have outlived the staleness
// threshold. The auction store's absolute TTL is the hard backstop; the
// sweeper exists so players hear "no club responded" well before the record
// silently vanishes.
type Sweeper struct {
	auctions AuctionStore
	notifier Notifier
	clk      clock.Clock

	interval  time.Duration
	threshold time.Duration
}

func NewSweeper(auctions AuctionStore, notifier Notifier, clk clock.Clock, cfg config.AuctionConfig) *Sweeper {
	return &Sweeper{
		auctions:  auctions,
		notifier:  notifier,
		clk:       clk,
		interval:  cfg.SweepInterval,
		threshold: cfg.SweepThreshold,
	}
}

// ExpireStale runs one sweep pass and returns how many auctions it expired.
// Individual failures are logged and skipped so one bad record cannot stall
// the rest of the pass.
func (s *Sweeper) ExpireStale(ctx context.Context) (int, error) {
	open, err := s.auctions.FindOpen(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.clk.Now().Add(-s.threshold)
	expired := 0
	for _, auction := range open {
		if auction.CreatedAt.After(cutoff) {
			continue
		}
		if err := auction.Expire(); err != nil {
			continue
		}
		if err := s.auctions.Update(ctx, auction); err != nil {
			log.Printf("sweeper: expire auction %s: %v", auction.ID, err)
			continue
		}
		expired++

		ev := q.AuctionExpiredEvent{
			AuctionID: auction.ID,
			PlayerIDs: auction.PlayerIDs,
			ExpiredAt: s.clk.Now().Format(time.RFC3339),
		}
		if err := s.notifier.AuctionExpired(ctx, ev); err != nil {
			log.Printf("sweeper: expired event for %s not published: %v", auction.ID, err)
		}
	}
	return expired, nil
}

// Run sweeps on the configured interval until the context is cancelled. Run
// is meant to be launched as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("sweeper: running every %s, expiring auctions older than %s", s.interval, s.threshold)
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper: stopped")
			return
		case <-ticker.C:
			n, err := s.ExpireStale(ctx)
			if err != nil {
				log.Printf("sweeper: pass failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: expired %d stale auction(s)", n)
			}
		}
	}
}
