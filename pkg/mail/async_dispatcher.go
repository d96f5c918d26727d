package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/utils"
)

var (
	// ErrQueueFull is returned by Dispatch when the buffer has no room.
	ErrQueueFull = errors.New("mail queue is full")
	// ErrDispatcherClosed is returned by Dispatch after Close.
	ErrDispatcherClosed = errors.New("mail dispatcher is closed")
)

const (
	defaultQueueSize   = 256
	defaultWorkers     = 2
	defaultMaxRetries  = 3
	defaultRetryBase   = 500 * time.Millisecond
	defaultSendTimeout = 45 * time.Second
)

// AsyncDispatcher delivers messages from a bounded in-process queue using a
// fixed pool of worker goroutines. Each delivery is retried with exponential
// backoff.
type AsyncDispatcher struct {
	sender      Sender
	metrics     *metrics.Metrics
	queueSize   int
	workers     int
	maxRetries  uint64
	retryBase   time.Duration
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	wg     sync.WaitGroup
}

// AsyncOption configures an AsyncDispatcher.
type AsyncOption func(*AsyncDispatcher)

// WithQueueSize sets the buffer capacity.
func WithQueueSize(n int) AsyncOption {
	return func(d *AsyncDispatcher) { d.queueSize = n }
}

// WithWorkers sets the number of delivery goroutines.
func WithWorkers(n int) AsyncOption {
	return func(d *AsyncDispatcher) { d.workers = n }
}

// WithRetry sets how often, and from which base delay, a failed delivery is retried.
func WithRetry(maxRetries uint64, base time.Duration) AsyncOption {
	return func(d *AsyncDispatcher) {
		d.maxRetries = maxRetries
		d.retryBase = base
	}
}

// WithMetrics records delivery outcomes.
func WithMetrics(m *metrics.Metrics) AsyncOption {
	return func(d *AsyncDispatcher) { d.metrics = m }
}

// NewAsyncDispatcher starts the workers. Call Close to drain and stop them.
func NewAsyncDispatcher(sender Sender, opts ...AsyncOption) *AsyncDispatcher {
	d := &AsyncDispatcher{
		sender:      sender,
		queueSize:   defaultQueueSize,
		workers:     defaultWorkers,
		maxRetries:  defaultMaxRetries,
		retryBase:   defaultRetryBase,
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = 1
	}

	d.queue = make(chan Message, d.queueSize)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Dispatch implements Dispatcher. It never blocks.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.ObserveMail(string(msg.Kind), metrics.MailDropped)
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		slog.Warn("Mail queue full, dropping message", "kind", msg.Kind, "to", utils.MaskEmail(msg.To))
		d.metrics.ObserveMail(string(msg.Kind), metrics.MailDropped)
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to end.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *AsyncDispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(d.maxRetries, retry.NewExponential(d.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := d.sender.Send(ctx, msg); err != nil {
			slog.Warn("Mail delivery attempt failed", "kind", msg.Kind, "to", utils.MaskEmail(msg.To), "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("Mail delivery failed", "kind", msg.Kind, "to", utils.MaskEmail(msg.To), "error", err)
		d.metrics.ObserveMail(string(msg.Kind), metrics.MailFailed)
		return
	}
	d.metrics.ObserveMail(string(msg.Kind), metrics.MailSent)
}
