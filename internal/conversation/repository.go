// Package conversation holds the read-only list of peer conversations,
// fetched in bulk once per session.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/metrics"
	"go.uber.org/zap"
)

// EmptyText is shown when no conversations are loaded.
const EmptyText = "No conversations found"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("conversation not found")

// Fetcher is the remote call behind Load.
type Fetcher interface {
	FetchConversations(ctx context.Context, token string) ([]chat.Conversation, error)
}

// Loaded is the payload of bus.ConversationsLoaded.
type Loaded struct {
	Count int
	Err   error
}

// Repository is safe for concurrent use.
type Repository struct {
	remote  Fetcher
	bus     *bus.Bus
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.RWMutex
	convs  []chat.Conversation
	byID   map[string]int
	loaded bool
	gen    uint64 // bumped by Reset; fetches started before it are dropped
}

// New creates an empty repository.
func New(remote Fetcher, b *bus.Bus, m *metrics.Metrics, logger *zap.Logger) *Repository {
	return &Repository{
		remote:  remote,
		bus:     b,
		metrics: m,
		logger:  logging.OrNop(logger),
		byID:    make(map[string]int),
	}
}

// Load replaces the list with a fresh fetch. On failure the list is empty
// and the error is returned for logging. A fetch that completes after
// Reset is dropped.
func (r *Repository) Load(ctx context.Context, token string) error {
	r.mu.RLock()
	gen := r.gen
	r.mu.RUnlock()

	convs, err := r.remote.FetchConversations(ctx, token)
	if err != nil {
		convs = nil
	}

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.logger.Debug("discarding conversations fetched before reset")
		if err != nil {
			return fmt.Errorf("load conversations: %w", err)
		}
		return nil
	}
	r.convs = append([]chat.Conversation(nil), convs...)
	r.byID = make(map[string]int, len(convs))
	for i, c := range r.convs {
		r.byID[c.ID] = i
	}
	r.loaded = true
	r.mu.Unlock()

	r.metrics.SetConversations(len(convs))
	r.bus.Emit(bus.ConversationsLoaded, Loaded{Count: len(convs), Err: err})

	if err != nil {
		r.metrics.ObserveLoad("conversations", metrics.OutcomeFailed)
		r.logger.Error("failed to load conversations", zap.Error(err))
		return fmt.Errorf("load conversations: %w", err)
	}
	r.metrics.ObserveLoad("conversations", metrics.OutcomeOK)
	r.logger.Info("conversations loaded", zap.Int("count", len(convs)))
	return nil
}

// List returns the conversations in service order.
func (r *Repository) List() []chat.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]chat.Conversation(nil), r.convs...)
}

// Get returns the conversation with id.
func (r *Repository) Get(id string) (chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return chat.Conversation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.convs[i], nil
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.convs)
}

// Loaded reports whether a fetch has completed, successfully or not.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Reset forgets all conversations.
func (r *Repository) Reset() {
	r.mu.Lock()
	r.gen++
	r.convs = nil
	r.byID = make(map[string]int)
	r.loaded = false
	r.mu.Unlock()
	r.metrics.SetConversations(0)
}
