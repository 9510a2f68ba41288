package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Job is a unit of work for the worker pool.
type Job struct {
	// Name is used for logging only.
	Name    string
	Execute func(ctx context.Context) error
}

// WorkerPool runs jobs on a fixed number of goroutines fed by a bounded
// queue. Submit never blocks; a full queue drops the job.
type WorkerPool struct {
	jobQueue   chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.SugaredLogger
	metrics    *workerPoolMetrics
	config     config.WorkerPoolConfig
	jobTimeout time.Duration
	mu         sync.Mutex
	running    bool
}

type workerPoolMetrics struct {
	queueDepth    prometheus.Gauge
	completedJobs prometheus.Counter
	droppedJobs   prometheus.Counter
	errorCount    prometheus.Counter
	jobDuration   prometheus.Histogram
}

func newWorkerPoolMetrics(reg prometheus.Registerer) *workerPoolMetrics {
	m := &workerPoolMetrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_worker_pool_queue_depth",
			Help: "Current number of jobs waiting in queue",
		}),
		completedJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_worker_pool_completed_jobs_total",
			Help: "Total number of jobs run to completion",
		}),
		droppedJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_worker_pool_dropped_jobs_total",
			Help: "Total number of jobs dropped due to full queue",
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_worker_pool_errors_total",
			Help: "Total number of job execution errors",
		}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_worker_pool_job_duration_seconds",
			Help:    "Time taken to execute jobs",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
	reg.MustRegister(m.queueDepth, m.completedJobs, m.droppedJobs, m.errorCount, m.jobDuration)
	return m
}

// NewWorkerPool creates a pool. Call Start before submitting jobs.
func NewWorkerPool(cfg config.WorkerPoolConfig, reg prometheus.Registerer) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	timeout := time.Duration(cfg.JobTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WorkerPool{
		jobQueue:   make(chan Job, cfg.QueueSize),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger.GetLogger().Named("worker-pool"),
		metrics:    newWorkerPoolMetrics(reg),
		config:     cfg,
		jobTimeout: timeout,
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		wp.logger.Warn("Worker pool already running")
		return
	}
	wp.running = true

	wp.logger.Infow("Starting worker pool",
		"maxWorkers", wp.config.MaxWorkers,
		"queueSize", wp.config.QueueSize)

	for i := 0; i < wp.config.MaxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker drains the queue until it is closed, so jobs accepted before
// Shutdown still run.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.executeJob(id, job)
	}
	wp.logger.Debugw("Worker stopped", "workerId", id)
}

func (wp *WorkerPool) executeJob(workerID int, job Job) {
	wp.metrics.queueDepth.Dec()
	start := time.Now()

	jobCtx, cancel := context.WithTimeout(wp.ctx, wp.jobTimeout)
	defer cancel()

	if err := job.Execute(jobCtx); err != nil {
		wp.logger.Errorw("Job execution failed",
			"job", job.Name,
			"workerId", workerID,
			"error", err,
			"duration", time.Since(start))
		wp.metrics.errorCount.Inc()
	}

	wp.metrics.jobDuration.Observe(time.Since(start).Seconds())
	wp.metrics.completedJobs.Inc()
}

// Submit queues a job. It returns false when the pool is stopped or the
// queue is full.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if !wp.running {
		wp.metrics.droppedJobs.Inc()
		wp.logger.Warnw("Job dropped - pool not running", "job", job.Name)
		return false
	}

	select {
	case wp.jobQueue <- job:
		wp.metrics.queueDepth.Inc()
		return true
	default:
		wp.metrics.droppedJobs.Inc()
		wp.logger.Warnw("Job dropped - queue full",
			"job", job.Name,
			"queueSize", wp.config.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish. When
// ctx expires first, in-flight jobs see their context cancelled and
// ctx.Err() is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return nil
	}
	wp.running = false
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.logger.Info("Draining worker pool...")

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.logger.Info("Worker pool shutdown complete")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.logger.Warn("Worker pool shutdown timed out")
		return ctx.Err()
	}
}

// QueueDepth returns the number of jobs waiting in the queue.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.jobQueue)
}

// IsRunning reports whether the pool accepts jobs.
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.running
}

var errEmailQueueFull = errors.New("email queue full, message dropped")

// QueuedEmailService hands each email to the worker pool and returns at
// once. Delivery errors are logged by the pool, never surfaced to callers.
type QueuedEmailService struct {
	next types.EmailService
	pool *WorkerPool
}

var _ types.EmailService = (*QueuedEmailService)(nil)

func NewQueuedEmailService(next types.EmailService, pool *WorkerPool) *QueuedEmailService {
	return &QueuedEmailService{next: next, pool: pool}
}

// SendInvitationEmail enqueues the send. The request context is not carried
// over since the job outlives the request.
func (q *QueuedEmailService) SendInvitationEmail(_ context.Context, data types.EmailData) error {
	ok := q.pool.Submit(Job{
		Name: "invitation-email",
		Execute: func(ctx context.Context) error {
			return q.next.SendInvitationEmail(ctx, data)
		},
	})
	if !ok {
		return errEmailQueueFull
	}
	return nil
}
