// Package worker runs registration validation off the request path.
//
// Tasks carry only a registration id. They are handed to a bounded Pool
// either in-process through Submit or from a Kafka topic through
// KafkaConsumer, and each task is retried while its failure is transient.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/client"
	"github.com/praekeltfoundation/hellomama-registration/internal/config"
	"github.com/praekeltfoundation/hellomama-registration/internal/metrics"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Handler processes one registration.
type Handler func(ctx context.Context, registrationID string) error

// Submitter accepts registrations for background validation.
type Submitter interface {
	Submit(ctx context.Context, registrationID string) error
}

// Pool runs a fixed number of workers over a bounded task queue.
type Pool struct {
	handler Handler
	cfg     config.Worker
	log     *zap.Logger
	metrics *metrics.Metrics

	tasks chan string
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
}

// NewPool returns a Pool that has not started yet.
func NewPool(cfg config.Worker, handler Handler, log *zap.Logger, m *metrics.Metrics) *Pool {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		handler: handler,
		cfg:     cfg,
		log:     log,
		metrics: m,
		tasks:   make(chan string, cfg.QueueSize),
	}
}

// Start launches the workers. They stop when ctx is cancelled or the pool
// is closed and drained.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	p.log.Info("worker pool started",
		zap.Int("concurrency", p.cfg.Concurrency),
		zap.Int("queue_size", p.cfg.QueueSize))
}

// Submit queues a registration, blocking while the queue is full.
func (p *Pool) Submit(ctx context.Context, registrationID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- registrationID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

func (p *Pool) work(ctx context.Context, worker int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(ctx, worker, id)
		}
	}
}

func (p *Pool) run(ctx context.Context, worker int, registrationID string) {
	done := p.metrics.TaskStarted()
	defer done()

	log := p.log.With(zap.Int("worker", worker), zap.String("registration_id", registrationID))
	start := time.Now()
	attempts, err := p.process(ctx, registrationID)
	switch {
	case err == nil:
		p.metrics.IncTask("success")
		log.Debug("task done", zap.Int("attempts", attempts), zap.Duration("elapsed", time.Since(start)))
	case client.Requeueable(err):
		p.metrics.IncTask("exhausted")
		log.Warn("task gave up after retries", zap.Int("attempts", attempts), zap.Error(err))
	default:
		p.metrics.IncTask("failure")
		log.Error("task failed", zap.Int("attempts", attempts), zap.Error(err))
	}
}

// process runs the handler until it succeeds, fails permanently or runs
// out of attempts. Each attempt gets its own timeout.
func (p *Pool) process(ctx context.Context, registrationID string) (int, error) {
	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := p.attempt(ctx, registrationID)
		if err != nil && !client.Requeueable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(p.newBackOff()), backoff.WithMaxTries(uint(p.cfg.MaxAttempts)))
	return attempts, err
}

func (p *Pool) attempt(ctx context.Context, registrationID string) (err error) {
	if p.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TaskTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return p.handler(ctx, registrationID)
}

func (p *Pool) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.cfg.RetryDelay > 0 {
		b.InitialInterval = p.cfg.RetryDelay
	}
	return b
}
