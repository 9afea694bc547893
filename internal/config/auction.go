package config

import "time"

// AuctionConfig groups the tunables of the claim-arbitration subsystem. The
// defaults mirror the observed deployment: 30s claim lock, 2h auction
// lifetime, hourly sweep with a 15 minute staleness threshold and 90 minute
// matches. Every value is adjustable because court slot durations and traffic
// patterns vary between installations.
type AuctionConfig struct {
	LockTTL        time.Duration // lifetime of the claim lock; must exceed worst-case claim processing
	LockFailOpen   bool          // treat an unreachable lock store as permission granted (off by default)
	AuctionTTL     time.Duration // absolute lifetime of an auction record in the store
	SweepInterval  time.Duration // how often the expiration sweeper runs
	SweepThreshold time.Duration // age past which an OPEN auction is force-expired
	RadiusKm       float64       // nearby-club broadcast radius in kilometers
	MatchDuration  time.Duration // default match length when a court has no slot override
	MinBooking     time.Duration // minimum accepted booking duration
}

// LoadAuctionConfig reads the auction tunables from the environment, falling
// back to the defaults above.
func LoadAuctionConfig() AuctionConfig {
	cfg := AuctionConfig{
		LockTTL:        envDur("LOCK_TTL", 30*time.Second),
		LockFailOpen:   envBool("LOCK_FAIL_OPEN", false),
		AuctionTTL:     envDur("AUCTION_TTL", 2*time.Hour),
		SweepInterval:  envDur("AUCTION_SWEEP_INTERVAL", time.Hour),
		SweepThreshold: envDur("AUCTION_SWEEP_THRESHOLD", 15*time.Minute),
		RadiusKm:       float64(envInt("AUCTION_RADIUS_KM", 10)),
		MatchDuration:  time.Duration(envInt("MATCH_DURATION_MIN", 90)) * time.Minute,
		MinBooking:     time.Duration(envInt("MIN_BOOKING_MIN", 60)) * time.Minute,
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.SweepThreshold >= cfg.AuctionTTL {
		// The sweeper is the advisory layer; the store TTL stays the backstop.
		cfg.SweepThreshold = cfg.AuctionTTL / 2
	}
	return cfg
}
