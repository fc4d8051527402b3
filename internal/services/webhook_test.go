package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
)

func TestWebhookNotifierPostsToBothChannels(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies = map[string]map[string]interface{}{}
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		mu.Lock()
		bodies[r.URL.Path] = body
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL+"/discord", srv.URL+"/slack")
	project := models.Project{BaseModel: models.BaseModel{ID: "p1"}, Name: "Launch"}
	member := models.User{BaseModel: models.BaseModel{ID: "u1"}, Name: "Dana", Email: "dana@example.com"}

	if err := n.MemberRemoved(context.Background(), project, member, 3); err != nil {
		t.Fatalf("MemberRemoved() error = %v", err)
	}

	discord, ok := bodies["/discord"]
	if !ok {
		t.Fatal("discord webhook not called")
	}
	embeds := discord["embeds"].([]interface{})
	if desc := embeds[0].(map[string]interface{})["description"].(string); !strings.Contains(desc, "Dana") {
		t.Errorf("discord description = %q", desc)
	}

	slack, ok := bodies["/slack"]
	if !ok {
		t.Fatal("slack webhook not called")
	}
	if text := slack["text"].(string); !strings.Contains(text, "Launch") {
		t.Errorf("slack text = %q", text)
	}
}

func TestWebhookNotifierReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier("", srv.URL)
	err := n.MemberInvited(context.Background(), models.Project{Name: "P"}, models.User{Email: "x@example.com"})
	if err == nil || !strings.HasPrefix(err.Error(), "slack:") {
		t.Fatalf("MemberInvited() error = %v, want slack failure", err)
	}
}

func TestWebhookNotifierDisabled(t *testing.T) {
	n := NewWebhookNotifier("", "")
	if n.Enabled() {
		t.Error("Enabled() = true with no URLs")
	}
	if err := n.MemberInvited(context.Background(), models.Project{}, models.User{}); err != nil {
		t.Errorf("MemberInvited() error = %v", err)
	}
}
