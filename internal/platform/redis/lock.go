package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "deedflow/pkg/domain-errors"
)

const (
	lockKeyPrefix    = "deedflow:lock:txn:"
	lockExpiry       = 10 * time.Second
	lockRetryDelay   = 50 * time.Millisecond
	lockAcquireLimit = 5 * time.Second
)

// unlockScript releases the lock only if this holder still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes per-transaction mutations across processes using a
// SET-NX lock with an ownership token. It satisfies transaction.Locker; the
// in-process sharded lock remains the single-node default.
type Locker struct {
	client *Client
}

func NewLocker(client *Client) *Locker {
	return &Locker{client: client}
}

func (l *Locker) Do(ctx context.Context, txID string, fn func(ctx context.Context) error) error {
	key := lockKeyPrefix + txID
	token := uuid.NewString()

	deadline := time.Now().Add(lockAcquireLimit)
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockExpiry).Result()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "acquire transaction lock")
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return dErrors.Newf(dErrors.CodeTimeout, "transaction %s is locked by another operation", txID)
		}
		select {
		case <-ctx.Done():
			return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "operation aborted: context cancelled")
		case <-time.After(lockRetryDelay):
		}
	}
	defer func() {
		// Best-effort release; the expiry bounds a leak if this fails.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, _ = unlockScript.Run(releaseCtx, l.client, []string{key}, token).Result()
	}()

	return fn(ctx)
}
