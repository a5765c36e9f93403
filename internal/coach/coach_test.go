package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/streak"
)

func TestCompleteSendsConversation(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := map[string]any{
			"id":    "chatcmpl-1",
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Nice streak, keep going!"}},
			},
			"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "test-model")
	resp, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "You are a coach."},
		{Role: "user", Content: "How am I doing?"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}

	if resp.Content != "Nice streak, keep going!" {
		t.Fatalf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 28 {
		t.Fatalf("total tokens = %d", resp.Usage.TotalTokens)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "test-model")
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry the status code: %v", err)
	}
}

func TestCompleteEmptyConversation(t *testing.T) {
	c := NewClient("http://localhost:0", "", "m")
	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty conversation")
	}
}

func TestBuildSystemPromptStreak(t *testing.T) {
	p := BuildSystemPrompt("Ada", 12, 0, nil)
	if !strings.Contains(p, "Ada") {
		t.Fatalf("prompt should name the user: %q", p)
	}
	if !strings.Contains(p, "12-day streak") {
		t.Fatalf("prompt should carry the streak: %q", p)
	}
}

func TestBuildSystemPromptBrokenStreak(t *testing.T) {
	p := BuildSystemPrompt("", 0, 3, nil)
	if !strings.Contains(p, "3 days ago") {
		t.Fatalf("prompt should mention last activity: %q", p)
	}
}

func TestBuildSystemPromptNeverActive(t *testing.T) {
	p := BuildSystemPrompt("", 0, streak.Never, nil)
	if !strings.Contains(p, "not logged any activity") {
		t.Fatalf("prompt should handle the never case: %q", p)
	}
}

func TestBuildSystemPromptPain(t *testing.T) {
	pain := []store.PainLog{
		{BodyPart: "left knee", Severity: 6, Note: "worse on stairs"},
		{BodyPart: "shoulder", Severity: 2},
	}
	p := BuildSystemPrompt("", 5, 0, pain)
	if !strings.Contains(p, "left knee (severity 6/10)") {
		t.Fatalf("prompt should include pain context: %q", p)
	}
	if !strings.Contains(p, "worse on stairs") {
		t.Fatalf("prompt should include pain notes: %q", p)
	}
}
