// Package outbox persists exchanged messages on the remote service in the
// background. Persistence is best effort: one request per message, no
// retries, failures only logged.
package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/metrics"
	"go.uber.org/zap"
)

// DefaultQueueSize bounds the number of saves waiting to be sent.
const DefaultQueueSize = 64

// Saver is the remote call the writer drains into.
type Saver interface {
	SaveMessage(ctx context.Context, token string, sender chat.Sender, text string) error
}

type entry struct {
	token string
	msg   chat.Message
}

// Writer sends recorded messages one at a time, in the order they were
// recorded.
type Writer struct {
	saver   Saver
	metrics *metrics.Metrics
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	queue  chan entry
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWriter creates a writer. timeout bounds each SaveMessage call.
func NewWriter(saver Saver, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Writer {
	return &Writer{
		saver:   saver,
		metrics: m,
		logger:  logging.OrNop(logger),
		timeout: timeout,
		queue:   make(chan entry, DefaultQueueSize),
	}
}

// Start begins draining the queue. Messages recorded before Start are kept.
func (w *Writer) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil || w.closed {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
}

// Stop stops accepting messages, sends what is already queued and waits for
// the loop to exit.
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	done, cancel := w.done, w.cancel
	w.mu.Unlock()

	if done != nil {
		<-done
		cancel()
	}
}

// Record queues msg for persistence. It never blocks: when the queue is
// full or the writer stopped, the message is dropped and logged.
func (w *Writer) Record(token string, msg chat.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.drop(msg, "writer stopped")
		return
	}
	select {
	case w.queue <- entry{token: token, msg: msg}:
	default:
		w.drop(msg, "queue full")
	}
}

func (w *Writer) drop(msg chat.Message, reason string) {
	w.metrics.SaveDropped()
	w.logger.Warn("message not persisted",
		zap.String("reason", reason),
		zap.String("msg_id", msg.ID),
		zap.String("sender", string(msg.Sender)),
	)
}

func (w *Writer) loop(ctx context.Context) {
	defer close(w.done)
	for e := range w.queue {
		w.save(ctx, e)
	}
}

func (w *Writer) save(ctx context.Context, e entry) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.saver.SaveMessage(ctx, e.token, e.msg.Sender, e.msg.Text); err != nil {
		w.metrics.ObserveSave(metrics.OutcomeFailed)
		w.logger.Error("failed to persist message",
			zap.Error(err),
			zap.String("msg_id", e.msg.ID),
			zap.String("sender", string(e.msg.Sender)),
		)
		return
	}
	w.metrics.ObserveSave(metrics.OutcomeOK)
	w.logger.Debug("message persisted", zap.String("msg_id", e.msg.ID))
}
