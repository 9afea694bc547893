package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/padelclub/court-auction/internal/model"
)

const auctionKeyPrefix = "auction:"

// AuctionRepo stores auction aggregates as JSON values in Redis. Every record
// carries a fixed absolute lifetime: the hard TTL is the backstop against
// unbounded growth of stale OPEN auctions and is independent of the lock
// store's key space. Updates keep the remaining TTL rather than extending it.
type AuctionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAuctionRepo returns an AuctionRepo writing records with the given
// absolute lifetime.
func NewAuctionRepo(rdb *redis.Client, ttl time.Duration) *AuctionRepo {
	if rdb == nil {
		panic("nil redis client passed to NewAuctionRepo")
	}
	return &AuctionRepo{rdb: rdb, ttl: ttl}
}

func auctionKey(id string) string { return auctionKeyPrefix + id }

// Save persists a new auction with the full TTL.
func (r *AuctionRepo) Save(ctx context.Context, a *model.Auction) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal auction: %w", err)
	}
	return r.rdb.Set(ctx, auctionKey(a.ID), data, r.ttl).Err()
}

// FindByID loads one auction. A missing or expired record yields
// model.ErrAuctionNotFound.
func (r *AuctionRepo) FindByID(ctx context.Context, id string) (*model.Auction, error) {
	data, err := r.rdb.Get(ctx, auctionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAuctionNotFound
		}
		return nil, err
	}
	var a model.Auction
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal auction %s: %w", id, err)
	}
	return &a, nil
}

// FindOpen scans the auction key space and returns all records still OPEN.
// The scan is incremental so large key spaces do not block the server.
func (r *AuctionRepo) FindOpen(ctx context.Context) ([]*model.Auction, error) {
	var open []*model.Auction
	iter := r.rdb.Scan(ctx, 0, auctionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.rdb.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and get
			}
			return nil, err
		}
		var a model.Auction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("unmarshal auction %s: %w", iter.Val(), err)
		}
		if a.IsOpen() {
			open = append(open, &a)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return open, nil
}

// Update rewrites an existing auction, preserving its remaining lifetime so
// a claim or expiry never extends the record past its original TTL. Updating
// a missing record yields model.ErrAuctionNotFound.
func (r *AuctionRepo) Update(ctx context.Context, a *model.Auction) error {
	key := auctionKey(a.ID)
	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrAuctionNotFound
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal auction: %w", err)
	}
	return r.rdb.Set(ctx, key, data, redis.KeepTTL).Err()
}

// Delete removes an auction record; deleting a missing record is a no-op.
func (r *AuctionRepo) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, auctionKey(id)).Err()
}
