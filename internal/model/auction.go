package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuctionStatus enumerates the states of the auction state machine. All
// transitions out of OPEN are one-directional; CLAIMED, EXPIRED and CANCELLED
// are terminal.
type AuctionStatus string

const (
	AuctionOpen      AuctionStatus = "OPEN"
	AuctionClaimed   AuctionStatus = "CLAIMED"
	AuctionExpired   AuctionStatus = "EXPIRED"
	AuctionCancelled AuctionStatus = "CANCELLED"
)

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Auction is an open match request broadcast to nearby clubs. It is created
// OPEN with a bounded absolute lifetime enforced by the auction store and is
// mutated only through Claim, Expire and Cancel.
//
// Fields:
//  ID              – UUID identity.
//  PlayerIDs       – ordered participants; the first entry is the group lead
//                    and owns the resulting booking. Never empty while OPEN.
//  City            – city where the group wants to play.
//  Date            – match date (time component ignored).
//  Time            – time of day in "HH:MM".
//  Category        – skill category of the group.
//  Status          – state machine status.
//  ClaimedByClubID – winning club; set iff Status is CLAIMED.
//  BookingID       – booking created by the winning claim; set iff CLAIMED.
//  Latitude/Longitude – optional geolocation used for the nearby-club fanout.
type Auction struct {
	ID              string        `json:"id"`
	PlayerIDs       []string      `json:"player_ids"`
	City            string        `json:"city"`
	Date            time.Time     `json:"date"`
	Time            string        `json:"time"`
	Category        string        `json:"category"`
	Status          AuctionStatus `json:"status"`
	ClaimedByClubID string        `json:"claimed_by_club_id,omitempty"`
	BookingID       string        `json:"booking_id,omitempty"`
	Latitude        *float64      `json:"latitude,omitempty"`
	Longitude       *float64      `json:"longitude,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewAuction builds an OPEN auction and validates its invariants. All
// validation failures wrap ErrValidation.
func NewAuction(playerIDs []string, city string, date time.Time, timeOfDay, category string, lat, lon *float64, now time.Time) (*Auction, error) {
	a := &Auction{
		ID:        uuid.NewString(),
		PlayerIDs: append([]string(nil), playerIDs...),
		City:      strings.TrimSpace(city),
		Date:      date,
		Time:      timeOfDay,
		Category:  strings.TrimSpace(category),
		Status:    AuctionOpen,
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Auction) validate() error {
	if len(a.PlayerIDs) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrValidation)
	}
	for _, id := range a.PlayerIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty player id", ErrValidation)
		}
	}
	if a.City == "" {
		return fmt.Errorf("%w: city is required", ErrValidation)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if !timePattern.MatchString(a.Time) {
		return fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	}
	if a.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if a.Latitude != nil && (*a.Latitude < -90 || *a.Latitude > 90) {
		return fmt.Errorf("%w: invalid latitude", ErrValidation)
	}
	if a.Longitude != nil && (*a.Longitude < -180 || *a.Longitude > 180) {
		return fmt.Errorf("%w: invalid longitude", ErrValidation)
	}
	return nil
}

// Claim transitions OPEN -> CLAIMED and records the winning club and the
// booking created for it. Any other starting status is rejected.
func (a *Auction) Claim(clubID, bookingID string) error {
	if a.Status != AuctionOpen {
		return fmt.Errorf("%w: only open auctions can be claimed", ErrInvalidState)
	}
	a.Status = AuctionClaimed
	a.ClaimedByClubID = clubID
	a.BookingID = bookingID
	return nil
}

// Expire transitions OPEN -> EXPIRED.
func (a *Auction) Expire() error {
	if a.Status != AuctionOpen {
		return fmt.Errorf("%w: only open auctions can be expired", ErrInvalidState)
	}
	a.Status = AuctionExpired
	return nil
}

// Cancel transitions OPEN -> CANCELLED. Claimed and expired auctions cannot
// be cancelled.
func (a *Auction) Cancel() error {
	switch a.Status {
	case AuctionClaimed:
		return fmt.Errorf("%w: cannot cancel a claimed auction", ErrInvalidState)
	case AuctionExpired:
		return fmt.Errorf("%w: cannot cancel an expired auction", ErrInvalidState)
	case AuctionCancelled:
		return fmt.Errorf("%w: auction is already cancelled", ErrInvalidState)
	}
	a.Status = AuctionCancelled
	return nil
}

// IsOpen reports whether the auction can still be claimed.
func (a *Auction) IsOpen() bool { return a.Status == AuctionOpen }

// LeadPlayerID returns the group lead, the first participant. The OPEN
// invariant guarantees a non-empty list for claimable auctions.
func (a *Auction) LeadPlayerID() string {
	if len(a.PlayerIDs) == 0 {
		return ""
	}
	return a.PlayerIDs[0]
}

// AddPlayer appends a participant while the auction is OPEN.
func (a *Auction) AddPlayer(playerID string) error {
	if a.Status != AuctionOpen {
		return fmt.Errorf("%w: cannot add players to a non-open auction", ErrInvalidState)
	}
	for _, id := range a.PlayerIDs {
		if id == playerID {
			return fmt.Errorf("%w: player already in auction", ErrValidation)
		}
	}
	a.PlayerIDs = append(a.PlayerIDs, playerID)
	return nil
}

// RemovePlayer drops a participant while OPEN. The list may never empty.
func (a *Auction) RemovePlayer(playerID string) error {
	if a.Status != AuctionOpen {
		return fmt.Errorf("%w: cannot remove players from a non-open auction", ErrInvalidState)
	}
	kept := a.PlayerIDs[:0]
	for _, id := range a.PlayerIDs {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("%w: auction must have at least one player", ErrValidation)
	}
	a.PlayerIDs = kept
	return nil
}

// MatchWindow computes the candidate booking window from the auction's date
// and time-of-day plus the given match duration. The window is half-open:
// [start, start+duration).
func (a *Auction) MatchWindow(duration time.Duration) (start, end time.Time, err error) {
	t, err := time.Parse("15:04", normalizeTime(a.Time))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	}
	d := a.Date.UTC()
	start = time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return start, start.Add(duration), nil
}

// normalizeTime pads single-digit hours ("9:30" -> "09:30") so time.Parse
// accepts the same inputs the HH:MM pattern does.
func normalizeTime(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}
