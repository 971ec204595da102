// Package pipeline owns the assistant message sequence: optimistic send,
// placeholder reconciliation, and best-effort persistence of exchanged
// messages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/metrics"
	"go.uber.org/zap"
)

// ErrBusy is returned while an exchange is in flight.
var ErrBusy = errors.New("exchange in flight")

// State is the composition state of the pipeline.
type State string

const (
	Idle      State = "IDLE"
	Composing State = "COMPOSING"
	Sending   State = "SENDING"
)

// Remote is the subset of the service client the pipeline calls.
type Remote interface {
	FetchHistory(ctx context.Context, token string) ([]chat.Message, error)
	Ask(ctx context.Context, token, prompt string) (string, error)
}

// Recorder accepts confirmed messages for best-effort persistence.
// Record must not block.
type Recorder interface {
	Record(token string, msg chat.Message)
}

// TailChange is the payload of bus.MessageTailChanged.
type TailChange struct {
	Len  int
	Tail chat.Message
}

// HistoryLoaded is the payload of bus.MessageHistoryLoaded.
type HistoryLoaded struct {
	Count int
}

// Pipeline is safe for concurrent use. Network calls run without holding
// the lock.
type Pipeline struct {
	remote     Remote
	recorder   Recorder
	bus        *bus.Bus
	metrics    *metrics.Metrics
	logger     *zap.Logger
	askTimeout time.Duration
	now        func() time.Time

	mu       sync.Mutex
	input    string
	messages []chat.Message
	sending  bool
	gen      uint64 // bumped by Send and Reset; stale replies and history are discarded
}

// New creates a pipeline. recorder, b and m may be nil.
func New(remote Remote, recorder Recorder, askTimeout time.Duration, b *bus.Bus, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		remote:     remote,
		recorder:   recorder,
		bus:        b,
		metrics:    m,
		logger:     logging.OrNop(logger),
		askTimeout: askTimeout,
		now:        time.Now,
	}
}

// SetInput replaces the composer text.
func (p *Pipeline) SetInput(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = text
}

// AppendInput appends a snippet (e.g. an emoji) to the composer text.
func (p *Pipeline) AppendInput(snippet string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input += snippet
}

// Input returns the composer text.
func (p *Pipeline) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// State reports the current composition state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.sending:
		return Sending
	case p.input != "":
		return Composing
	default:
		return Idle
	}
}

// Messages returns a copy of the sequence.
func (p *Pipeline) Messages() []chat.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]chat.Message(nil), p.messages...)
}

// Len returns the number of messages in the sequence.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// Send submits the composer text. Whitespace-only input is ignored. The
// self message and a pending placeholder are appended immediately; the
// placeholder is then replaced by the answer, or by a failed apology when
// Ask fails, in which case the cause is returned.
func (p *Pipeline) Send(ctx context.Context, token string) error {
	p.mu.Lock()
	if p.sending {
		p.mu.Unlock()
		return ErrBusy
	}
	text := p.input
	if strings.TrimSpace(text) == "" {
		p.mu.Unlock()
		return nil
	}

	self := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderSelf,
		Text:      text,
		Timestamp: p.now(),
		State:     chat.Confirmed,
	}
	p.messages = append(p.messages, self)
	selfChange := p.tailLocked()

	p.input = ""
	p.messages = append(p.messages, chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderCounterpart,
		Text:      chat.TypingText,
		Timestamp: p.now(),
		State:     chat.Pending,
	})
	pendingChange := p.tailLocked()
	p.sending = true
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.record(token, self)
	p.bus.Emit(bus.MessageTailChanged, selfChange)
	p.bus.Emit(bus.MessageTailChanged, pendingChange)

	askCtx := ctx
	if p.askTimeout > 0 {
		var cancel context.CancelFunc
		askCtx, cancel = context.WithTimeout(ctx, p.askTimeout)
		defer cancel()
	}
	start := time.Now()
	answer, askErr := p.remote.Ask(askCtx, token, text)
	elapsed := time.Since(start)

	reply := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderCounterpart,
		Text:      answer,
		Timestamp: p.now(),
		State:     chat.Confirmed,
	}
	if askErr != nil {
		reply.Text = chat.ApologyText
		reply.State = chat.Failed
	}

	p.mu.Lock()
	p.sending = false
	if gen != p.gen {
		p.mu.Unlock()
		p.logger.Debug("discarding reply after reset")
		return nil
	}
	p.messages[len(p.messages)-1] = reply
	replyChange := p.tailLocked()
	p.mu.Unlock()

	p.bus.Emit(bus.MessageTailChanged, replyChange)

	if askErr != nil {
		p.metrics.ObserveSend(metrics.OutcomeFailed, elapsed)
		p.logger.Warn("exchange failed", zap.Error(askErr), zap.Duration("elapsed", elapsed))
		return fmt.Errorf("ask: %w", askErr)
	}
	p.metrics.ObserveSend(metrics.OutcomeOK, elapsed)
	p.record(token, reply)
	return nil
}

// Load replaces the sequence with the service history. It is refused while
// an exchange is in flight. History fetched across a send or reset is
// dropped. On failure the sequence is left untouched.
func (p *Pipeline) Load(ctx context.Context, token string) error {
	p.mu.Lock()
	busy, gen := p.sending, p.gen
	p.mu.Unlock()
	if busy {
		return ErrBusy
	}

	msgs, err := p.remote.FetchHistory(ctx, token)
	if err != nil {
		p.metrics.ObserveLoad("history", metrics.OutcomeFailed)
		p.logger.Error("failed to load history", zap.Error(err))
		return fmt.Errorf("load history: %w", err)
	}

	p.mu.Lock()
	if p.sending {
		// A send started while fetching; keep its pending tail.
		p.mu.Unlock()
		return ErrBusy
	}
	if gen != p.gen {
		p.mu.Unlock()
		p.logger.Debug("discarding history fetched before the latest exchange")
		return nil
	}
	p.messages = append([]chat.Message(nil), msgs...)
	change := p.tailLocked()
	p.mu.Unlock()

	p.metrics.ObserveLoad("history", metrics.OutcomeOK)
	p.logger.Info("history loaded", zap.Int("count", len(msgs)))
	p.bus.Emit(bus.MessageHistoryLoaded, HistoryLoaded{Count: len(msgs)})
	p.bus.Emit(bus.MessageTailChanged, change)
	return nil
}

// Reset clears the sequence and composer, used on logout. A reply still in
// flight is dropped when it arrives.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.gen++
	p.messages = nil
	p.input = ""
	p.mu.Unlock()
	p.bus.Emit(bus.MessageTailChanged, TailChange{})
}

func (p *Pipeline) tailLocked() TailChange {
	c := TailChange{Len: len(p.messages)}
	if n := len(p.messages); n > 0 {
		c.Tail = p.messages[n-1]
	}
	return c
}

func (p *Pipeline) record(token string, msg chat.Message) {
	if p.recorder != nil {
		p.recorder.Record(token, msg)
	}
}
