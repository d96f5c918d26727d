package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/utils"
)

const (
	// TaskTypeSend is the asynq task type for mail delivery.
	TaskTypeSend = "mail:send"
	// QueueName is the asynq queue mail tasks are placed on.
	QueueName = "mail"

	defaultTaskMaxRetry = 5
	defaultTaskTimeout  = 45 * time.Second
)

// Enqueuer is the part of *asynq.Client used by QueueDispatcher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewSendTask wraps msg in an asynq task.
func NewSendTask(msg Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mail task: %w", err)
	}
	return asynq.NewTask(TaskTypeSend, data), nil
}

// QueueDispatcher hands messages to a Redis-backed asynq queue. A Worker
// process performs the delivery.
type QueueDispatcher struct {
	client   Enqueuer
	maxRetry int
	metrics  *metrics.Metrics
}

// NewQueueDispatcher creates a dispatcher enqueuing through client.
func NewQueueDispatcher(client Enqueuer, m *metrics.Metrics) *QueueDispatcher {
	return &QueueDispatcher{client: client, maxRetry: defaultTaskMaxRetry, metrics: m}
}

// Dispatch implements Dispatcher.
func (d *QueueDispatcher) Dispatch(ctx context.Context, msg Message) error {
	task, err := NewSendTask(msg)
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueName),
		asynq.MaxRetry(d.maxRetry),
		asynq.Timeout(defaultTaskTimeout),
	)
	if err != nil {
		d.metrics.ObserveMail(string(msg.Kind), metrics.MailDropped)
		return fmt.Errorf("failed to enqueue mail: %w", err)
	}

	slog.Debug("Mail enqueued", "kind", msg.Kind, "to", utils.MaskEmail(msg.To), "task_id", info.ID)
	d.metrics.ObserveMail(string(msg.Kind), metrics.MailEnqueued)
	return nil
}

// NewSendHandler returns the asynq handler delivering TaskTypeSend tasks
// through sender. Undecodable or unrenderable tasks are not retried.
func NewSendHandler(sender Sender, m *metrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg Message
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			slog.Error("Discarding undecodable mail task", "error", err)
			return fmt.Errorf("decode mail task: %w", asynq.SkipRetry)
		}
		if _, err := Render(msg); err != nil {
			slog.Error("Discarding unrenderable mail task", "kind", msg.Kind, "error", err)
			return fmt.Errorf("render mail task: %v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, msg); err != nil {
			m.ObserveMail(string(msg.Kind), metrics.MailFailed)
			return err
		}
		m.ObserveMail(string(msg.Kind), metrics.MailSent)
		return nil
	}
}
