// Package lease implements Redis-backed gateway id leasing for
// multi-gateway deployments (SPEC_FULL.md §5.1): a gateway acquires a
// small integer id via SETNX+TTL and renews it in the background while
// alive.
package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ambonmud:gateway:lease:"

// ErrNoLeaseAvailable is returned when every candidate id is already
// held (spec §7's "duplicate gateway lease" fatal startup error).
type ErrNoLeaseAvailable struct {
	AttemptedCount int
}

func (e *ErrNoLeaseAvailable) Error() string {
	return fmt.Sprintf("no gateway id lease available after trying %d candidates", e.AttemptedCount)
}

// Lease is a held gateway id, renewed on a background ticker until
// Release is called; cancelling the context passed to Acquire does not
// stop renewal.
type Lease struct {
	client   *redis.Client
	id       int
	key      string
	token    string
	ttl      time.Duration
	cancel   context.CancelFunc
	released chan struct{}
}

func (l *Lease) Id() int { return l.id }

// Acquire tries SETNX on ambonmud:gateway:lease:<id> for id in
// [0, count) with the given TTL, returning the first id it wins, and
// starts a background goroutine that renews the TTL at ttl/3 intervals.
func Acquire(ctx context.Context, client *redis.Client, count int, ttl time.Duration, token string) (*Lease, error) {
	for id := 0; id < count; id++ {
		key := keyPrefix + fmt.Sprintf("%d", id)
		ok, err := client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lease acquire: %w", err)
		}
		if !ok {
			continue
		}
		leaseCtx, cancel := context.WithCancel(context.Background())
		l := &Lease{
			client:   client,
			id:       id,
			key:      key,
			token:    token,
			ttl:      ttl,
			cancel:   cancel,
			released: make(chan struct{}),
		}
		go l.renewLoop(leaseCtx)
		return l, nil
	}
	return nil, &ErrNoLeaseAvailable{AttemptedCount: count}
}

func (l *Lease) renewLoop(ctx context.Context) {
	defer close(l.released)
	interval := l.ttl / 3
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.client.Expire(ctx, l.key, l.ttl)
		}
	}
}

// Release stops renewal and deletes the lease key if this holder still
// owns it.
func (l *Lease) Release(ctx context.Context) error {
	l.cancel()
	<-l.released
	val, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lease release: %w", err)
	}
	if val == l.token {
		return l.client.Del(ctx, l.key).Err()
	}
	return nil
}
