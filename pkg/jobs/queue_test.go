package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		assert.NotEmpty(t, job.ID)
		atomic.AddInt32(&processed, 1)
		return nil
	}, QueueConfig{Workers: 2})

	require.Error(t, q.Enqueue(Job{Type: "early"}))

	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{Type: "report"}))
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&processed) == 5 }, time.Second, 10*time.Millisecond)
}

func TestQueueRetriesDisabled(t *testing.T) {
	var attempts int32
	q := NewQueue("no-retry", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: -1, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "report"}))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestQueueTryEnqueueFull(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(release)
		q.Stop()
	}()

	require.NoError(t, q.TryEnqueue(Job{Type: "a"}))
	var err error
	assert.Eventually(t, func() bool {
		err = q.TryEnqueue(Job{Type: "b"})
		return err != nil
	}, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, err, ErrQueueFull)
}
