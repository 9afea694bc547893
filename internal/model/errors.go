// Package model defines the domain aggregates of the court-auction platform
// and the sentinel errors shared by services and handlers. The sentinels let
// HTTP handlers distinguish contention (already claimed, slot conflict) from
// missing entities and illegal state transitions without inspecting error
// strings.
package model

import "errors"

// ErrInvalidState is returned when an operation is illegal for the entity's
// current status, e.g. claiming an auction that is no longer OPEN. Callers
// must not retry the same transition.
var ErrInvalidState = errors.New("invalid state for operation")

// ErrAlreadyClaimed signals lock contention on a claim attempt: another club
// holds the claim lock or has already claimed the auction. This is an
// expected, frequent outcome and must stay cheap to produce.
var ErrAlreadyClaimed = errors.New("auction already claimed by another club")

// ErrSlotConflict is returned when the candidate time window overlaps an
// existing active booking on the same court. The caller may retry with a
// different court.
var ErrSlotConflict = errors.New("court already booked for this time slot")

// ErrValidation is wrapped by aggregate constructors when input is malformed.
var ErrValidation = errors.New("validation failed")

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrClubNotFound    = errors.New("club not found")
	ErrCourtNotFound   = errors.New("court not found")
	ErrPlayerNotFound  = errors.New("player not found")
)
