package mail

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/tendant/simple-account/pkg/metrics"
)

// Worker consumes mail tasks from Redis and delivers them.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker constructs a Worker instance.
func NewWorker(redisOpt asynq.RedisConnOpt, sender Sender, concurrency int, m *metrics.Metrics) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueName: 1,
		},
		LogLevel: asynq.WarnLevel,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSend, NewSendHandler(sender, m))

	return &Worker{server: srv, mux: mux}
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	slog.Info("Mail worker started", "queue", QueueName)

	<-ctx.Done()
	w.server.Shutdown()
	slog.Info("Mail worker stopped")
	return nil
}
