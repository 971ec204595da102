package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/parley/internal/chat"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/prefs"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func testRenderer(p prefs.Preferences) *renderer {
	r := newRenderer(p)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestRenderThread(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	msgs := []chat.Message{
		{Sender: chat.SenderSelf, Text: "hi", Timestamp: at, State: chat.Confirmed},
		{Sender: chat.SenderCounterpart, Text: "hello", Timestamp: at, State: chat.Confirmed,
			ForwardedFrom: &chat.UserProfile{Username: "carol"}},
	}

	var buf bytes.Buffer
	testRenderer(prefs.Defaults()).thread(&buf, msgs, "You", "bob")
	out := buf.String()

	for _, want := range []string{"You", "bob", "09:05", "forwarded from carol", "hi\n", "hello\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderThreadSpacing(t *testing.T) {
	msgs := []chat.Message{{Sender: chat.SenderSelf, Text: "a"}, {Sender: chat.SenderCounterpart, Text: "b"}}

	var small, large bytes.Buffer
	testRenderer(prefs.Preferences{AccentColor: "#fff", FontScale: prefs.Small}).thread(&small, msgs, "You", "Bot")
	testRenderer(prefs.Preferences{AccentColor: "#fff", FontScale: prefs.Large}).thread(&large, msgs, "You", "Bot")

	if d := strings.Count(large.String(), "\n") - strings.Count(small.String(), "\n"); d != 2 {
		t.Errorf("large adds %d lines over small, want 2", d)
	}
}

func TestRenderConversations(t *testing.T) {
	var buf bytes.Buffer
	r := testRenderer(prefs.Defaults())

	r.conversations(&buf, nil)
	if strings.TrimSpace(buf.String()) != conversation.EmptyText {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	r.conversations(&buf, []chat.Conversation{{
		ID:          "c1",
		Counterpart: chat.UserProfile{Username: "bob", Phone: "+1555"},
		LastMessage: chat.Message{Text: "see\nyou", Timestamp: fixedNow.Add(-time.Hour)},
	}})
	out := buf.String()
	for _, want := range []string{"NAME", "bob", "+1555", "see you", "17:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestToMessageView(t *testing.T) {
	v := toMessageView(chat.Message{
		ID: "m1", Sender: chat.SenderCounterpart, Text: "x", State: chat.Failed,
		ForwardedFrom: &chat.UserProfile{Username: "carol"},
	})
	if v.Sender != "bot" || v.State != "failed" || v.ForwardedFrom != "carol" {
		t.Errorf("toMessageView() = %+v", v)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 80)
	if got := []rune(preview(long)); len(got) != 50 {
		t.Errorf("preview length = %d, want 50", len(got))
	}
	if got := preview("  a \n b "); got != "a b" {
		t.Errorf("preview() = %q", got)
	}
}
