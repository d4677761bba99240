package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TranscriptLinker/internal/config"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bottok/") {
			t.Errorf("token missing from path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("chat_id") != "42" {
			t.Errorf("unexpected chat id: %s", r.PostForm.Get("chat_id"))
		}
		if !strings.Contains(r.PostForm.Get("text"), "matched: 3") {
			t.Errorf("digest body lost: %s", r.PostForm.Get("text"))
		}
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "tok", ChatID: "42"}, server.Client())
	n.apiBase = server.URL

	if err := n.PublishDigest(context.Background(), "run done, matched: 3"); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.TelegramConfig{}, nil)
	if err := n.PublishDigest(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without token/chat id")
	}
}
