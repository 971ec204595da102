// Package api is the HTTP/JSON client for the remote chat service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/logging"
	"go.uber.org/zap"
)

// Paths served by the remote service.
const (
	PathProfile       = "/api/user/profile"
	PathHistory       = "/api/chat/history"
	PathConversations = "/api/chat/conversations"
	PathSave          = "/api/chat/save"
	PathAsk           = "/api/ai/ask"
	PathSignIn        = "/api/auth/signin"
)

const maxBodyBytes = 8 << 20

// Client talks to the chat service. Every authenticated call takes the
// bearer token explicitly. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for baseURL. timeout bounds each request at the
// transport level; callers add tighter deadlines through ctx.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger),
	}
}

// BaseURL returns the service root, used to resolve avatar paths.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProfile returns the signed-in user's profile.
func (c *Client) FetchProfile(ctx context.Context, token string) (chat.UserProfile, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, PathProfile, token, nil, &u); err != nil {
		return chat.UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	if u.ID == "" && u.Username == "" {
		return chat.UserProfile{}, fmt.Errorf("fetch profile: %w: empty profile", ErrMalformed)
	}
	return u.profile(), nil
}

// FetchHistory returns the assistant message history, oldest first.
func (c *Client) FetchHistory(ctx context.Context, token string) ([]chat.Message, error) {
	var resp historyResponse
	if err := c.do(ctx, http.MethodGet, PathHistory, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	out := make([]chat.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, m.message())
	}
	return out, nil
}

// FetchConversations returns every peer conversation of the user.
func (c *Client) FetchConversations(ctx context.Context, token string) ([]chat.Conversation, error) {
	var resp conversationsResponse
	if err := c.do(ctx, http.MethodGet, PathConversations, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	out := make([]chat.Conversation, 0, len(resp.Conversations))
	for _, conv := range resp.Conversations {
		out = append(out, conv.conversation())
	}
	return out, nil
}

// SaveMessage persists one message on the service.
func (c *Client) SaveMessage(ctx context.Context, token string, sender chat.Sender, text string) error {
	req := SaveRequest{Sender: string(sender), Text: text}
	if err := c.do(ctx, http.MethodPost, PathSave, token, req, nil); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// Ask sends prompt to the assistant and returns its answer. A body without
// an answer field is malformed.
func (c *Client) Ask(ctx context.Context, token, prompt string) (string, error) {
	var resp askResponse
	if err := c.do(ctx, http.MethodPost, PathAsk, token, AskRequest{Prompt: prompt}, &resp); err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	if resp.Answer == nil {
		return "", fmt.Errorf("ask: %w: missing answer", ErrMalformed)
	}
	return *resp.Answer, nil
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, identifier, password string) (string, error) {
	var resp signInResponse
	req := SignInRequest{Identifier: identifier, Password: password}
	if err := c.do(ctx, http.MethodPost, PathSignIn, "", req, &resp); err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("sign in: %w: missing token", ErrMalformed)
	}
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &StatusError{Code: resp.StatusCode, Message: eb.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
