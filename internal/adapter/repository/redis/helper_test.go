package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/infrastructure/metrics"
)

// newTestRedisClient starts a miniredis server torn down with the test.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func newTestSnapshotStore(t *testing.T, ttl time.Duration) (*SnapshotStore, *miniredis.Miniredis, *metrics.Metrics) {
	t.Helper()

	client, mr := newTestRedisClient(t)
	m := metrics.New(prometheus.NewRegistry())

	return NewSnapshotStore(client, NewRetrier(zerolog.Nop()), m, ttl), mr, m
}
