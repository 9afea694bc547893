package model

import "time"

// Club is a venue that can respond to auctions and host matches.
//
// Fields:
//  ID        – UUID identity.
//  Name      – display name.
//  City      – city used for push fanout.
//  Latitude  – location, used by the nearby-club query.
//  Longitude – location, used by the nearby-club query.
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
