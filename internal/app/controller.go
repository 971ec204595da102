package app

import (
	"context"
	"errors"

	"github.com/matheus3301/parley/internal/api"
	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/config"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/gate"
	"github.com/matheus3301/parley/internal/pipeline"
	"github.com/matheus3301/parley/internal/prefs"
	"github.com/matheus3301/parley/internal/view"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Controller is the surface presentation layers drive.
type Controller struct {
	Config        *config.Config
	Bus           *bus.Bus
	Client        *api.Client
	Gate          *gate.Gate
	Pipeline      *pipeline.Pipeline
	Conversations *conversation.Repository
	View          *view.Coordinator
	Prefs         *prefs.Store
	Logger        *zap.Logger
}

type controllerIn struct {
	fx.In

	Config        *config.Config
	Bus           *bus.Bus
	Client        *api.Client
	Gate          *gate.Gate
	Pipeline      *pipeline.Pipeline
	Conversations *conversation.Repository
	View          *view.Coordinator
	Prefs         *prefs.Store
	Logger        *zap.Logger
}

// NewController bundles the components.
func NewController(in controllerIn) *Controller {
	return &Controller{
		Config:        in.Config,
		Bus:           in.Bus,
		Client:        in.Client,
		Gate:          in.Gate,
		Pipeline:      in.Pipeline,
		Conversations: in.Conversations,
		View:          in.View,
		Prefs:         in.Prefs,
		Logger:        in.Logger,
	}
}

// Send submits the composer text under the active session. Ask failures
// are already shown as a failed bubble; only a rejected token is acted on.
func (c *Controller) Send(ctx context.Context) error {
	s, ok := c.Gate.Session()
	if !ok {
		return gate.ErrUnauthenticated
	}
	err := c.Pipeline.Send(ctx, s.Token)
	c.Check(err)
	return err
}

// Refresh refetches history and, when enabled, conversations.
func (c *Controller) Refresh(ctx context.Context) error {
	s, ok := c.Gate.Session()
	if !ok {
		return gate.ErrUnauthenticated
	}
	err := c.Pipeline.Load(ctx, s.Token)
	if c.Check(err) {
		return err
	}
	if c.View.ConversationsEnabled() {
		convErr := c.Conversations.Load(ctx, s.Token)
		c.Check(convErr)
		err = errors.Join(err, convErr)
	}
	return err
}

// Check invalidates the session when err shows the service rejected the
// token. It reports whether it did.
func (c *Controller) Check(err error) bool {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	if _, ok := c.Gate.Session(); !ok {
		return false
	}
	_ = c.Gate.Invalidate(err.Error())
	c.View.Reset()
	return true
}

// Logout ends the session and returns to the default view.
func (c *Controller) Logout() error {
	err := c.Gate.Logout()
	c.View.Reset()
	return err
}
