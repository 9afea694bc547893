package lock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreAcquireRelease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.Acquire(ctx, "lock:a", "club-1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = s.Acquire(ctx, "lock:a", "club-2", time.Minute)
	if err != nil || ok {
		t.Fatalf("second acquire must lose: ok=%v err=%v", ok, err)
	}
	if owner, held := s.Owner("lock:a"); !held || owner != "club-1" {
		t.Fatalf("owner: want club-1, got %q held=%v", owner, held)
	}

	if err := s.Release(ctx, "lock:a"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = s.Acquire(ctx, "lock:a", "club-2", time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if ok, _ := s.Acquire(ctx, "lock:a", "club-1", 30*time.Second); !ok {
		t.Fatal("first acquire must win")
	}
	now = now.Add(10 * time.Second)
	if ok, _ := s.Acquire(ctx, "lock:a", "club-2", 30*time.Second); ok {
		t.Fatal("acquire before expiry must lose")
	}
	now = now.Add(21 * time.Second)
	if ok, _ := s.Acquire(ctx, "lock:a", "club-2", 30*time.Second); !ok {
		t.Fatal("acquire after expiry must win")
	}
	if owner, _ := s.Owner("lock:a"); owner != "club-2" {
		t.Fatalf("owner after takeover: want club-2, got %s", owner)
	}
}

func TestMemoryStoreConcurrentAcquire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	const contenders = 32
	var wg sync.WaitGroup
	winners := make(chan string, contenders)
	for i := 0; i < contenders; i++ {
		owner := string(rune('a' + i%26))
		wg.Add(1)
		go func(owner string) {
			defer wg.Done()
			if ok, _ := s.Acquire(ctx, "lock:a", owner, time.Minute); ok {
				winners <- owner
			}
		}(owner)
	}
	wg.Wait()
	close(winners)

	var count int
	for range winners {
		count++
	}
	if count != 1 {
		t.Fatalf("want exactly 1 winner, got %d", count)
	}
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	if got := AuctionKey("abc"); got != "lock:abc" {
		t.Fatalf("AuctionKey: got %s", got)
	}
	start := time.Date(2026, 10, 3, 18, 30, 0, 0, time.UTC)
	if got := CourtSlotKey("court-1", start); got != "lock:court:court-1:slot:202610031830" {
		t.Fatalf("CourtSlotKey: got %s", got)
	}
	// Same instant in another zone maps to the same key.
	madrid := time.FixedZone("CEST", 2*3600)
	if got := CourtSlotKey("court-1", start.In(madrid)); got != "lock:court:court-1:slot:202610031830" {
		t.Fatalf("CourtSlotKey zone normalization: got %s", got)
	}
}
