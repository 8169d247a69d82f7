package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		botToken  string
		chatID    string
		wantError bool
	}{
		{name: "valid parameters", botToken: "test-token", chatID: "12345"},
		{name: "empty bot token", chatID: "12345", wantError: true},
		{name: "empty chat ID", botToken: "test-token", wantError: true},
		{name: "both empty", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.botToken, tt.chatID)
			if tt.wantError {
				if err == nil {
					t.Error("NewClient() expected error, got nil")
				}
				if client != nil {
					t.Error("NewClient() should return nil client on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.botToken != tt.botToken || client.chatID != tt.chatID {
				t.Errorf("client = %+v", client)
			}
			if client.baseURL != defaultBaseURL || client.httpClient == nil {
				t.Error("client defaults not set")
			}
		})
	}
}

// newTestClient points a client at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Client{
		botToken:   "test-token",
		chatID:     "12345",
		baseURL:    server.URL + "/bot",
		httpClient: &http.Client{},
	}
}

func TestSendMessage_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload["chat_id"] != "12345" || payload["parse_mode"] != "HTML" || payload["text"] != "Test message" {
			t.Errorf("unexpected payload %v", payload)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":123}}`))
	})

	if err := client.SendMessage(context.Background(), "Test message"); err != nil {
		t.Errorf("SendMessage() unexpected error: %v", err)
	}
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusOK, body: `{"ok":false,"description":"Bad Request: chat not found"}`, wantErr: "chat not found"},
		{name: "http error", status: http.StatusUnauthorized, body: `{"ok":false}`, wantErr: "status 401"},
		{name: "invalid json", status: http.StatusOK, body: `not json`, wantErr: "parsing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.SendMessage(context.Background(), "hello")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SendMessage() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSendMessage_EmptyText(t *testing.T) {
	client := &Client{botToken: "test-token", chatID: "12345"}
	if err := client.SendMessage(context.Background(), "  "); err == nil {
		t.Error("SendMessage() should reject empty text")
	}
}

func TestSendMessage_SplitsLongText(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	line := strings.Repeat("x", 99) + "\n"
	if err := client.SendMessage(context.Background(), strings.Repeat(line, 60)); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests for a 6000-char message, got %d", calls)
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "short", text: "abc", limit: 10, want: []string{"abc"}},
		{name: "cut at newline", text: "aaaa\nbbbb\ncc", limit: 10, want: []string{"aaaa\nbbbb", "cc"}},
		{name: "hard cut", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "multibyte", text: "ééééé", limit: 2, want: []string{"éé", "éé", "é"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("SplitMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
