package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	return mr, NewClient(mr.Addr(), "", 0)
}

func TestEventBusDeliversToUserChannel(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus := NewEventBus(client, "")
	if got := bus.Channel("u1"); got != "matchdeck:events:u1" {
		t.Fatalf("unexpected channel: %s", got)
	}

	sub, err := bus.Subscribe(ctx, "u1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer func() { _ = sub.Close() }()

	if err := bus.Publish(ctx, "u1", []byte(`{"kind":"swipe_committed"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if msg.Channel != "matchdeck:events:u1" {
		t.Fatalf("unexpected channel: %s", msg.Channel)
	}
	if msg.Payload != `{"kind":"swipe_committed"}` {
		t.Fatalf("unexpected payload: %s", msg.Payload)
	}
}

func TestEventBusRejectsBlankUser(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	if err := NewEventBus(client, "test:").Publish(context.Background(), " ", []byte("x")); err == nil {
		t.Fatalf("expected error for blank user id")
	}
}

func TestRateRepoWindowExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	repo := NewRateRepo(client)

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := repo.IncrementWindow(ctx, "rate:test", 10*time.Second)
		if err != nil {
			t.Fatalf("increment #%d: %v", i, err)
		}
		if count != i {
			t.Fatalf("unexpected count: got %d want %d", count, i)
		}
		if ttl <= 0 {
			t.Fatalf("expected positive ttl, got %v", ttl)
		}
	}

	mr.FastForward(11 * time.Second)

	count, _, err := repo.WindowState(ctx, "rate:test")
	if err != nil {
		t.Fatalf("window state: %v", err)
	}
	if count != 0 {
		t.Fatalf("window should have expired, got count %d", count)
	}
}

func TestRateRepoRepairsWindowWithoutTTL(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	if err := mr.Set("rate:stale", "5"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	count, ttl, err := NewRateRepo(client).IncrementWindow(context.Background(), "rate:stale", time.Minute)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if count != 6 {
		t.Fatalf("unexpected count: got %d want 6", count)
	}
	if ttl <= 0 || mr.TTL("rate:stale") <= 0 {
		t.Fatalf("expected ttl to be restored, got %v", ttl)
	}
}
