//go:build integration

package locks

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"podcaster/internal/infra"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate redis: %v", err)
		}
	})

	url, err := ctr.PortEndpoint(ctx, "6379/tcp", "redis")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}
	rdb, err := infra.NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisAcquireRelease(t *testing.T) {
	rdb := newTestRedis(t)
	r := NewRedis(rdb)
	ctx := context.Background()
	key := Key("p1", "summary")

	release, ok, err := r.Acquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if _, ok, err := r.Acquire(ctx, key, time.Minute); err != nil || ok {
		t.Fatalf("second acquire while held: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := r.Acquire(ctx, Key("p1", "titles"), time.Minute); !ok {
		t.Fatal("different job on the same project must not contend")
	}
	release()
	if _, ok, err := r.Acquire(ctx, key, time.Minute); err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestRedisStaleReleaseKeepsNewHolder(t *testing.T) {
	rdb := newTestRedis(t)
	r := NewRedis(rdb)
	ctx := context.Background()
	key := Key("p1", "keyMoments")

	staleRelease, ok, err := r.Acquire(ctx, key, 100*time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	time.Sleep(300 * time.Millisecond)

	release, ok, err := r.Acquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("takeover after expiry: ok=%v err=%v", ok, err)
	}

	staleRelease()
	if n, err := rdb.Exists(ctx, key).Result(); err != nil || n != 1 {
		t.Fatalf("stale release removed the new holder's lock: exists=%d err=%v", n, err)
	}
	if _, ok, _ := r.Acquire(ctx, key, time.Minute); ok {
		t.Fatal("lock must stay held after a stale release")
	}

	release()
	if _, ok, _ := r.Acquire(ctx, key, time.Minute); !ok {
		t.Fatal("acquire after the holder releases must succeed")
	}
}
