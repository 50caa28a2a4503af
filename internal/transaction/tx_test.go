package transaction

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "deedflow/pkg/domain-errors"
)

func TestShardedLockerSerializesSameID(t *testing.T) {
	locker := NewShardedLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.Do(context.Background(), "txn_1", func(context.Context) error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestShardedLockerRejectsCancelledContext(t *testing.T) {
	locker := NewShardedLocker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := locker.Do(ctx, "txn_1", func(context.Context) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeTimeout))
}
