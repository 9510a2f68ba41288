package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(workers, queue int) *WorkerPool {
	return NewWorkerPool(config.WorkerPoolConfig{
		MaxWorkers:        workers,
		QueueSize:         queue,
		JobTimeoutSeconds: 5,
	}, prometheus.NewRegistry())
}

func TestWorkerPool_SubmitAndExecute(t *testing.T) {
	pool := newTestPool(2, 10)
	pool.Start()
	defer pool.Shutdown(context.Background())

	done := make(chan struct{})
	submitted := pool.Submit(Job{
		Name: "test-job",
		Execute: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
	require.True(t, submitted)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not execute within timeout")
	}
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	pool := newTestPool(2, 100)
	pool.Start()
	defer pool.Shutdown(context.Background())

	var current, maxSeen int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.True(t, pool.Submit(Job{
			Name: "concurrent-job",
			Execute: func(ctx context.Context) error {
				defer wg.Done()
				n := atomic.AddInt32(&current, 1)
				defer atomic.AddInt32(&current, -1)
				mu.Lock()
				if n > maxSeen {
					maxSeen = n
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				return nil
			},
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, maxSeen, int32(2))
}

func TestWorkerPool_DropsWhenFull(t *testing.T) {
	pool := newTestPool(1, 1)
	pool.Start()

	block := make(chan struct{})
	started := make(chan struct{})
	require.True(t, pool.Submit(Job{Name: "blocker", Execute: func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}}))
	<-started

	require.True(t, pool.Submit(Job{Name: "queued", Execute: func(ctx context.Context) error { return nil }}))
	assert.Equal(t, 1, pool.QueueDepth())
	assert.False(t, pool.Submit(Job{Name: "dropped", Execute: func(ctx context.Context) error { return nil }}))
	assert.Equal(t, float64(1), counterValue(t, pool.metrics.droppedJobs))

	close(block)
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestWorkerPool_ShutdownDrainsQueue(t *testing.T) {
	pool := newTestPool(1, 10)
	pool.Start()

	var ran int32
	for i := 0; i < 5; i++ {
		pool.Submit(Job{Name: "drain", Execute: func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}})
	}

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(&ran))
	assert.False(t, pool.IsRunning())
	assert.False(t, pool.Submit(Job{Name: "late", Execute: func(ctx context.Context) error { return nil }}))
	// second shutdown is a no-op
	assert.NoError(t, pool.Shutdown(context.Background()))
}

func TestWorkerPool_ShutdownTimeout(t *testing.T) {
	pool := newTestPool(1, 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(Job{Name: "slow", Execute: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Shutdown(ctx), context.DeadlineExceeded)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []types.EmailData
	done chan struct{}
}

func (r *recordingMailer) SendInvitationEmail(ctx context.Context, data types.EmailData) error {
	r.mu.Lock()
	r.sent = append(r.sent, data)
	r.mu.Unlock()
	close(r.done)
	return nil
}

func TestQueuedEmailService(t *testing.T) {
	pool := newTestPool(1, 4)
	mailer := &recordingMailer{done: make(chan struct{})}
	svc := NewQueuedEmailService(mailer, pool)

	// not started yet: the send is refused
	assert.ErrorIs(t, svc.SendInvitationEmail(context.Background(), invitationData()), errEmailQueueFull)

	pool.Start()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.SendInvitationEmail(ctx, invitationData()))
	cancel()

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}
	require.NoError(t, pool.Shutdown(context.Background()))

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "recipient@example.com", mailer.sent[0].To)
}
