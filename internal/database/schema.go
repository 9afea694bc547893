package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for the relational side of the platform. Auctions are
// not here: they live in Redis with an absolute TTL and never touch MySQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS clubs (
		id         CHAR(36) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		city       VARCHAR(120) NOT NULL,
		latitude   DOUBLE NOT NULL,
		longitude  DOUBLE NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS courts (
		id                CHAR(36) PRIMARY KEY,
		club_id           CHAR(36) NOT NULL,
		name              VARCHAR(255) NOT NULL,
		type              VARCHAR(60) NULL,
		indoor            TINYINT(1) NOT NULL DEFAULT 0,
		base_price_cents  INT UNSIGNED NOT NULL DEFAULT 0,
		slot_duration_min INT UNSIGNED NOT NULL DEFAULT 0,
		active            TINYINT(1) NOT NULL DEFAULT 1,
		created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_courts_club FOREIGN KEY (club_id) REFERENCES clubs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id         CHAR(36) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		city       VARCHAR(120) NULL,
		category   VARCHAR(60) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          CHAR(36) PRIMARY KEY,
		court_id    CHAR(36) NOT NULL,
		user_id     CHAR(36) NOT NULL,
		start_time  DATETIME NOT NULL,
		end_time    DATETIME NOT NULL,
		status      ENUM('PENDING','CONFIRMED','CANCELLED','COMPLETED') NOT NULL DEFAULT 'PENDING',
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_bookings_court_window (court_id, start_time, end_time),
		INDEX idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_court FOREIGN KEY (court_id) REFERENCES courts(id)
	)`,
}

// EnsureSchema creates the tables above when they do not exist yet. It runs
// once at startup before the server accepts traffic.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
