// Package repository implements persistence for the platform's entities:
// auctions in Redis with an absolute TTL, everything else in MySQL through
// database/sql. Not-found conditions are reported with the sentinel errors
// from the model package so handlers can map them without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by another club. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
