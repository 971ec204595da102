// Package gate owns the bearer-token session: it validates a stored token
// by fetching the profile once per activation and tears the session down
// on logout or when the service rejects the token.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/kv"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/metrics"
	"github.com/matheus3301/parley/internal/status"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnauthenticated is returned when no valid session can be established.
// The presentation layer routes the user to sign-in.
var ErrUnauthenticated = errors.New("not signed in")

// Session is an authenticated session.
type Session struct {
	Token string
	User  chat.UserProfile
}

// ProfileFetcher validates a token by fetching its profile.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (chat.UserProfile, error)
}

// Loader performs an initial bulk fetch once the session is active.
// Loaders that also implement Resetter are cleared on sign-out.
type Loader interface {
	Load(ctx context.Context, token string) error
}

// Resetter drops session-scoped state.
type Resetter interface {
	Reset()
}

// Gate is safe for concurrent use.
type Gate struct {
	store   kv.Store
	remote  ProfileFetcher
	machine *status.Machine
	metrics *metrics.Metrics
	logger  *zap.Logger
	loaders []Loader

	activateMu sync.Mutex // serializes Activate
	mu         sync.RWMutex
	session    *Session
}

// New creates a gate. loaders run after every successful activation.
func New(store kv.Store, remote ProfileFetcher, machine *status.Machine, m *metrics.Metrics, logger *zap.Logger, loaders ...Loader) *Gate {
	return &Gate{
		store:   store,
		remote:  remote,
		machine: machine,
		metrics: m,
		logger:  logging.OrNop(logger),
		loaders: loaders,
	}
}

// Activate establishes the session from the stored token. Without a token
// it makes no network call. Any profile fetch failure removes the token.
// An already active gate returns its session unchanged.
func (g *Gate) Activate(ctx context.Context) (Session, error) {
	g.activateMu.Lock()
	defer g.activateMu.Unlock()

	if s, ok := g.Session(); ok {
		return s, nil
	}

	token, ok, err := g.store.Get(kv.KeyToken)
	if err != nil {
		g.logger.Error("failed to read token", zap.Error(err))
	}
	if err != nil || !ok || token == "" {
		g.settle(status.SignedOut)
		g.metrics.ObserveActivation(string(status.SignedOut))
		return Session{}, ErrUnauthenticated
	}

	if err := g.machine.Transition(status.Checking); err != nil {
		return Session{}, err
	}

	user, err := g.remote.FetchProfile(ctx, token)
	if err != nil {
		g.logger.Warn("profile fetch failed, signing out", zap.Error(err))
		if rmErr := g.store.Remove(kv.KeyToken); rmErr != nil {
			g.logger.Error("failed to remove token", zap.Error(rmErr))
		}
		g.settle(status.SignedOut)
		g.metrics.ObserveActivation(string(status.SignedOut))
		return Session{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	s := Session{Token: token, User: user}
	g.mu.Lock()
	g.session = &s
	g.mu.Unlock()

	if err := g.machine.Transition(status.Active); err != nil {
		return Session{}, err
	}
	g.metrics.ObserveActivation(string(status.Active))
	g.logger.Info("session active", zap.String("user", user.Username))

	g.runLoaders(ctx, token)
	return s, nil
}

// runLoaders fetches initial state concurrently. Failures are logged only.
func (g *Gate) runLoaders(ctx context.Context, token string) {
	var eg errgroup.Group
	for _, l := range g.loaders {
		eg.Go(func() error {
			if err := l.Load(ctx, token); err != nil {
				g.logger.Warn("initial load failed", zap.String("loader", fmt.Sprintf("%T", l)), zap.Error(err))
			}
			return nil
		})
	}
	_ = eg.Wait()
}

// Session returns the active session.
func (g *Gate) Session() (Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return Session{}, false
	}
	return *g.session, true
}

// State returns the current gate state.
func (g *Gate) State() status.State {
	return g.machine.Current()
}

// Logout removes the token and ends the session.
func (g *Gate) Logout() error {
	return g.end("logout")
}

// Invalidate ends the session after the service rejected the token on a
// later call.
func (g *Gate) Invalidate(reason string) error {
	return g.end(reason)
}

// Establish stores a token obtained by an external sign-in. Any current
// session is ended; the next Activate validates the new token.
func (g *Gate) Establish(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	if _, ok := g.Session(); ok {
		g.clear()
		g.settle(status.SignedOut)
	}
	if err := g.store.Set(kv.KeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (g *Gate) end(reason string) error {
	g.logger.Info("signing out", zap.String("reason", reason))
	err := g.store.Remove(kv.KeyToken)
	if err != nil {
		g.logger.Error("failed to remove token", zap.Error(err))
		err = fmt.Errorf("remove token: %w", err)
	}
	g.clear()
	g.settle(status.SignedOut)
	return err
}

func (g *Gate) clear() {
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()
	for _, l := range g.loaders {
		if r, ok := l.(Resetter); ok {
			r.Reset()
		}
	}
}

func (g *Gate) settle(to status.State) {
	if err := g.machine.Settle(to); err != nil {
		g.logger.Error("state transition failed", zap.Error(err))
	}
}
