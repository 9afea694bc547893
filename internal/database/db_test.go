package database

import (
	"testing"
	"time"
)

func TestOptionsDSN(t *testing.T) {
	t.Parallel()

	t.Run("with password", func(t *testing.T) {
		o := Options{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "courts"}
		want := "app:secret@tcp(db:3306)/courts?charset=utf8mb4&parseTime=true&loc=UTC"
		if got := o.dsn(); got != want {
			t.Fatalf("dsn: got %s", got)
		}
	})

	t.Run("without password", func(t *testing.T) {
		o := Options{User: "app", Host: "localhost", Port: "3306", Name: "courts"}
		want := "app@tcp(localhost:3306)/courts?charset=utf8mb4&parseTime=true&loc=UTC"
		if got := o.dsn(); got != want {
			t.Fatalf("dsn: got %s", got)
		}
	})
}

func TestOptionsWithDefaults(t *testing.T) {
	t.Parallel()

	got := Options{}.withDefaults()
	if got.MaxConns != 25 || got.ConnLifetime != 30*time.Minute || got.PingTimeout != 5*time.Second {
		t.Fatalf("defaults: %+v", got)
	}

	// Explicit values survive.
	set := Options{MaxConns: 5, ConnLifetime: time.Minute, PingTimeout: time.Second}.withDefaults()
	if set.MaxConns != 5 || set.ConnLifetime != time.Minute || set.PingTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", set)
	}
}
