// Package database owns the MySQL connection pool and the DDL bootstrap for
// the relational entities (clubs, courts, players, bookings).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Options carries the connection parameters plus the pool tunables the rest
// of this repo reads from the environment. Zero tunables fall back to the
// defaults in withDefaults.
type Options struct {
	User string
	Pass string // empty allowed
	Host string
	Port string
	Name string

	MaxConns     int           // open and idle ceiling, default 25
	ConnLifetime time.Duration // recycle age, default 30m
	PingTimeout  time.Duration // startup reachability check, default 5s
}

func (o Options) withDefaults() Options {
	if o.MaxConns <= 0 {
		o.MaxConns = 25
	}
	if o.ConnLifetime <= 0 {
		o.ConnLifetime = 30 * time.Minute
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
	return o
}

// dsn builds the driver connection string. parseTime makes DATETIME columns
// scan into time.Time, and loc=UTC keeps the overlap comparisons in the
// booking store independent of the server's zone.
func (o Options) dsn() string {
	auth := o.User
	if o.Pass != "" {
		auth = o.User + ":" + o.Pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, o.Host, o.Port, o.Name)
}

// Open opens the pool and verifies reachability before returning it.
func Open(opts Options) (*sql.DB, error) {
	opts = opts.withDefaults()

	db, err := sql.Open("mysql", opts.dsn())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxConns)
	db.SetMaxIdleConns(opts.MaxConns)
	db.SetConnMaxLifetime(opts.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}
