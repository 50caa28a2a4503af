package transaction

import (
	"context"
	"sync"
	"time"

	dErrors "deedflow/pkg/domain-errors"
)

// Locker serializes mutations per transaction identifier. Interleaved
// mutations against the same aggregate could double-count aggregation
// thresholds or append out-of-order audit events, so every mutating operation
// runs inside Do. Distinct transactions proceed concurrently.
type Locker interface {
	Do(ctx context.Context, txID string, fn func(ctx context.Context) error) error
}

// numShards spreads lock contention across independent mutexes keyed by a
// hash of the transaction ID.
const numShards = 64

// defaultLockTimeout bounds how long a mutating operation may run.
const defaultLockTimeout = 5 * time.Second

// ShardedLocker is the in-process Locker. Multi-process deployments can swap
// in the redis-backed lock.
type ShardedLocker struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

func NewShardedLocker() *ShardedLocker {
	return &ShardedLocker{timeout: defaultLockTimeout}
}

func (l *ShardedLocker) Do(ctx context.Context, txID string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	shard := hashID(txID) % numShards
	l.shards[shard].Lock()
	defer l.shards[shard].Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation aborted: context cancelled")
	}

	return fn(ctx)
}

// hashID uses FNV-1a for shard distribution.
func hashID(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
