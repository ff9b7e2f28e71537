package deepinfra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/deepchat/internal/utils"
	"github.com/leofalp/deepchat/providers/ai"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != chatCompletionsEndpoint {
			t.Errorf("unexpected path %s", request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))
}

// TestSendMessage_Success verifies that choices[0].message is returned.
func TestSendMessage_Success(t *testing.T) {
	server := completionServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Hello"}}]}`)
	defer server.Close()

	message, err := newTestProvider(server).SendMessage(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := ai.Message{Role: ai.RoleAssistant, Content: "Hello"}
	if *message != expected {
		t.Errorf("expected %+v, got %+v", expected, *message)
	}
}

// TestSendMessage_Payload verifies stream=false and the generation config.
func TestSendMessage_Payload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var payload struct {
			Messages    []ai.Message `json:"messages"`
			Model       string       `json:"model"`
			Stream      bool         `json:"stream"`
			Temperature *float32     `json:"temperature"`
			TopP        *float32     `json:"topP"`
			TopK        *int         `json:"topK"`
		}
		if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Stream {
			t.Error("expected stream=false")
		}
		if len(payload.Messages) != 1 || payload.Messages[0].Content != "Hello" {
			t.Errorf("unexpected messages %+v", payload.Messages)
		}
		if payload.Temperature == nil || *payload.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", payload.Temperature)
		}
		if payload.TopP == nil || *payload.TopP != 0.9 {
			t.Errorf("expected topP 0.9, got %v", payload.TopP)
		}
		if payload.TopK != nil {
			t.Errorf("expected topK to be omitted, got %v", *payload.TopK)
		}
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	request := ai.BuildRequest(testRequest.Messages, testRequest.Model, true, ai.GenerationConfig{
		Temperature: utils.Ptr[float32](0.7),
		TopP:        utils.Ptr[float32](0.9),
	})
	if _, err := newTestProvider(server).SendMessage(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestSendMessage_APIErrors verifies how error bodies become messages.
func TestSendMessage_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error.message", http.StatusBadRequest, `{"error":{"message":"bad request"}}`, "bad request"},
		{"detail.error", http.StatusUnauthorized, `{"detail":{"error":"Model is not available"}}`, "Model is not available"},
		{"detail wins", http.StatusBadRequest, `{"detail":{"error":"first"},"error":{"message":"second"}}`, "first"},
		{"repairable body", http.StatusBadRequest, `{error: {message: 'needs repair'}}`, "needs repair"},
		{"plain text", http.StatusBadGateway, `Bad Gateway`, genericErrorMessage},
		{"unknown shape", http.StatusInternalServerError, `{"detail":"Internal"}`, genericErrorMessage},
		{"string detail falls through", http.StatusBadRequest, `{"detail":"Not authenticated","error":{"message":"bad request"}}`, "bad request"},
		{"list detail falls through", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","model"],"msg":"field required"}],"error":{"message":"bad request"}}`, "bad request"},
		{"detail without error", http.StatusBadRequest, `{"detail":{"code":7},"error":{"message":"bad request"}}`, "bad request"},
		{"error of another shape", http.StatusBadRequest, `{"error":"nope"}`, genericErrorMessage},
		{"empty body", http.StatusServiceUnavailable, ``, genericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := completionServer(t, tt.status, tt.body)
			defer server.Close()

			_, err := newTestProvider(server).SendMessage(context.Background(), testRequest)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}
			if apiErr.StatusCode != tt.status || apiErr.Body != tt.body {
				t.Errorf("unexpected status %d or body %q", apiErr.StatusCode, apiErr.Body)
			}
		})
	}
}

// TestSendMessage_Malformed verifies parse failures of a complete body.
func TestSendMessage_Malformed(t *testing.T) {
	server := completionServer(t, http.StatusOK, `{"choices":[{"message":`)
	defer server.Close()

	message, err := newTestProvider(server).SendMessage(context.Background(), testRequest)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if message != nil {
		t.Errorf("expected no partial result, got %+v", message)
	}
}

// TestSendMessage_NoChoices verifies the empty choices case.
func TestSendMessage_NoChoices(t *testing.T) {
	server := completionServer(t, http.StatusOK, `{"choices":[]}`)
	defer server.Close()

	if _, err := newTestProvider(server).SendMessage(context.Background(), testRequest); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

// TestSendMessage_MissingRole verifies that a message without role is
// reported as the assistant's.
func TestSendMessage_MissingRole(t *testing.T) {
	server := completionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Hi"}}]}`)
	defer server.Close()

	message, err := newTestProvider(server).SendMessage(context.Background(), testRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message.Role != ai.RoleAssistant {
		t.Errorf("expected assistant role, got %q", message.Role)
	}
}
