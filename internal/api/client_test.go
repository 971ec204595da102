package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matheus3301/parley/internal/api"
	"github.com/matheus3301/parley/internal/api/apitest"
	"github.com/matheus3301/parley/internal/chat"
)

const testToken = "tok-123"

var alice = chat.UserProfile{ID: "u1", Username: "alice.smith", Phone: "555-0100", Avatar: `uploads\alice.png`}

func newFake(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	fake := apitest.New(testToken, alice)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, api.New(srv.URL, 5*time.Second, nil)
}

func TestFetchProfile(t *testing.T) {
	_, c := newFake(t)

	got, err := c.FetchProfile(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if got != alice {
		t.Errorf("profile = %+v, want %+v", got, alice)
	}
}

func TestUnauthorizedMatchesSentinel(t *testing.T) {
	_, c := newFake(t)

	_, err := c.FetchProfile(context.Background(), "wrong")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	var se *api.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not *StatusError", err)
	}
	if se.Code != http.StatusUnauthorized || se.Message != "invalid token" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestForbiddenMatchesUnauthorized(t *testing.T) {
	fake, c := newFake(t)
	fake.Fail(api.PathHistory, http.StatusForbidden)

	_, err := c.FetchHistory(context.Background(), testToken)
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("403 error = %v, want ErrUnauthorized", err)
	}
}

func TestServerErrorIsNotUnauthorized(t *testing.T) {
	fake, c := newFake(t)
	fake.Fail(api.PathConversations, http.StatusInternalServerError)

	_, err := c.FetchConversations(context.Background(), testToken)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, api.ErrUnauthorized) {
		t.Error("500 must not match ErrUnauthorized")
	}
}

func TestFetchHistoryDecodesSenderAndForward(t *testing.T) {
	fake, c := newFake(t)
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	fwd := api.NewHistoryMessage("m2", chat.SenderCounterpart, "look at this", at)
	bob := api.User{ID: "u2", Username: "bob"}
	fwd.ForwardedFrom = &bob
	fake.SetHistory([]api.HistoryMessage{
		api.NewHistoryMessage("m1", chat.SenderSelf, "hi", at),
		fwd,
	})

	msgs, err := c.FetchHistory(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if !msgs[0].FromSelf() || msgs[0].Text != "hi" || !msgs[0].Timestamp.Equal(at) {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].FromSelf() {
		t.Error("msgs[1] should be from counterpart")
	}
	if msgs[1].ForwardedFrom == nil || msgs[1].ForwardedFrom.Username != "bob" {
		t.Errorf("ForwardedFrom = %+v, want bob", msgs[1].ForwardedFrom)
	}
	for _, m := range msgs {
		if m.State != chat.Confirmed {
			t.Errorf("state = %s, want confirmed", m.State)
		}
	}
}

func TestFetchConversations(t *testing.T) {
	fake, c := newFake(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fake.SetConversations([]api.Conversation{{
		ID:        "c1",
		OtherUser: api.User{ID: "u2", Username: "bob", Phone: "555-0101"},
		Messages: []api.PeerMessage{
			api.NewPeerMessage("hey", at, false),
			api.NewPeerMessage("hello", at.Add(time.Minute), true),
		},
	}})

	convs, err := c.FetchConversations(context.Background(), testToken)
	if err != nil {
		t.Fatalf("FetchConversations() error = %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	conv := convs[0]
	if conv.Counterpart.Username != "bob" || len(conv.Messages) != 2 {
		t.Errorf("conversation = %+v", conv)
	}
	if conv.Messages[0].FromSelf() || !conv.Messages[1].FromSelf() {
		t.Error("sentByMe not mapped to sender")
	}
	if conv.LastMessage.Text != "hello" {
		t.Errorf("LastMessage = %q, want hello (derived from messages)", conv.LastMessage.Text)
	}
}

func TestFetchConversationsEmpty(t *testing.T) {
	_, c := newFake(t)

	convs, err := c.FetchConversations(context.Background(), testToken)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 0 {
		t.Errorf("got %d conversations, want 0", len(convs))
	}
}

func TestAsk(t *testing.T) {
	_, c := newFake(t)

	answer, err := c.Ask(context.Background(), testToken, "ping")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "echo: ping" {
		t.Errorf("answer = %q", answer)
	}
}

func TestAskMissingAnswerIsMalformed(t *testing.T) {
	fake, c := newFake(t)
	fake.SetRawAsk(`{"result":"x"}`)

	_, err := c.Ask(context.Background(), testToken, "ping")
	if !errors.Is(err, api.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestAskUndecodableIsMalformed(t *testing.T) {
	fake, c := newFake(t)
	fake.SetRawAsk(`not json`)

	_, err := c.Ask(context.Background(), testToken, "ping")
	if !errors.Is(err, api.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestAskHonoursContextDeadline(t *testing.T) {
	fake, c := newFake(t)
	fake.SetAskDelay(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Ask(ctx, testToken, "slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestSaveMessage(t *testing.T) {
	fake, c := newFake(t)

	if err := c.SaveMessage(context.Background(), testToken, chat.SenderSelf, "hi"); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}
	saves := fake.Saves()
	if len(saves) != 1 || saves[0].Sender != "user" || saves[0].Text != "hi" {
		t.Errorf("saves = %+v", saves)
	}
}

func TestSignIn(t *testing.T) {
	fake, c := newFake(t)
	fake.AddCredentials("alice", "secret")

	token, err := c.SignIn(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if token != testToken {
		t.Errorf("token = %q, want %q", token, testToken)
	}

	if _, err := c.SignIn(context.Background(), "alice", "nope"); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("bad password error = %v, want ErrUnauthorized", err)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	tests := []struct {
		err  *api.StatusError
		want string
	}{
		{&api.StatusError{Code: 500}, "service returned 500 Internal Server Error"},
		{&api.StatusError{Code: 401, Message: "expired"}, "service returned 401: expired"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
