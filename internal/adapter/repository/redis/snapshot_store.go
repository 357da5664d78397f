package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

const (
	snapshotPrefix = "txledger:snapshot:"
	latestKey      = snapshotPrefix + "latest"
)

// SnapshotStore implements usecase.SnapshotStore using Redis hashes.
// Each run is stored under its own key with one field per client.
type SnapshotStore struct {
	client  *redis.Client
	retrier *Retrier
	metrics *metrics.Metrics
	ttl     time.Duration
}

// NewSnapshotStore creates a new SnapshotStore. A zero ttl keeps snapshots forever.
// m may be nil.
func NewSnapshotStore(client *redis.Client, retrier *Retrier, m *metrics.Metrics, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client:  client,
		retrier: retrier,
		metrics: m,
		ttl:     ttl,
	}
}

func snapshotKey(runID string) string {
	return snapshotPrefix + runID
}

// Save replaces the snapshot for runID and marks it as the latest.
func (s *SnapshotStore) Save(ctx context.Context, runID string, accounts []domain.AccountSnapshot) error {
	fields := make(map[string]any, len(accounts))
	for _, account := range accounts {
		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to encode account %d: %w", account.Client, err)
		}
		fields[strconv.FormatUint(uint64(account.Client), 10)] = data
	}

	key := snapshotKey(runID)
	return s.observe("save", func() error {
		return s.retrier.Retry(ctx, func() error {
			_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				if len(fields) > 0 {
					pipe.HSet(ctx, key, fields)
					if s.ttl > 0 {
						pipe.Expire(ctx, key, s.ttl)
					}
				}
				pipe.Set(ctx, latestKey, runID, s.ttl)
				return nil
			})
			return err
		})
	})
}

// Latest loads the snapshot most recently saved, in ascending client order.
func (s *SnapshotStore) Latest(ctx context.Context) (string, []domain.AccountSnapshot, error) {
	var runID string
	var raw map[string]string

	err := s.observe("latest", func() error {
		return s.retrier.Retry(ctx, func() error {
			id, err := s.client.Get(ctx, latestKey).Result()
			if err != nil {
				return err
			}
			fields, err := s.client.HGetAll(ctx, snapshotKey(id)).Result()
			if err != nil {
				return err
			}
			runID, raw = id, fields
			return nil
		})
	})
	if errors.Is(err, redis.Nil) {
		return "", nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return "", nil, err
	}

	accounts := make([]domain.AccountSnapshot, 0, len(raw))
	for field, value := range raw {
		var account domain.AccountSnapshot
		if err := json.Unmarshal([]byte(value), &account); err != nil {
			return "", nil, fmt.Errorf("failed to decode account %s of snapshot %s: %w", field, runID, err)
		}
		accounts = append(accounts, account)
	}
	slices.SortFunc(accounts, func(a, b domain.AccountSnapshot) int {
		return int(a.Client) - int(b.Client)
	})

	return runID, accounts, nil
}

func (s *SnapshotStore) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()

	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues(operation).Inc()
		s.metrics.RedisDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		if err != nil && !errors.Is(err, redis.Nil) {
			s.metrics.RedisErrors.WithLabelValues(operation).Inc()
		}
	}
	return err
}
