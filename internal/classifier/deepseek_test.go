package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "deepseek-chat",
	})
	return srv, client
}

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return body
}

func TestClassifyAccepted(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(chatReply("是"))
	})

	ok, err := client.Classify(context.Background(), "ChatGPT")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected accepted")
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "ChatGPT" {
		t.Fatalf("unexpected request messages: %+v", gotReq.Messages)
	}
	if gotReq.Model != "deepseek-chat" {
		t.Fatalf("unexpected model: %s", gotReq.Model)
	}
}

func TestClassifyRejected(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply("否"))
	})

	ok, err := client.Classify(context.Background(), "不是")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if ok {
		t.Fatal("expected rejected")
	}
}

func TestClassifyEmptyChoices(t *testing.T) {
	// 空 choices 视为不通过，不算错误
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	ok, err := client.Classify(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if ok {
		t.Fatal("expected rejected for empty choices")
	}
}

func TestClassifyHTTPError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Classify(context.Background(), "ChatGPT")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestClassifyMalformedBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Classify(context.Background(), "ChatGPT")
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}
