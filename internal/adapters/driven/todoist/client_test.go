package todoist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

func TestClient_CreateTask(t *testing.T) {
	var got *http.Request
	var body createTaskRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"2995104339","content":"Купить молоко","project_id":"1"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIBase: server.URL + "/", UserAgent: "alice-todoist/1.0.0"})

	result := client.CreateTask(context.Background(), "tok-123", "купить молоко")

	assert.Equal(t, domain.TaskCreated, result.Outcome)
	assert.Equal(t, "2995104339", result.TaskID)
	assert.Equal(t, "Купить молоко", result.Content)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.NoError(t, result.Err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/tasks", got.URL.Path)
	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "alice-todoist/1.0.0", got.Header.Get("User-Agent"))
	_, err := uuid.Parse(got.Header.Get("X-Request-Id"))
	assert.NoError(t, err, "X-Request-Id is a uuid")
	assert.Equal(t, "купить молоко", body.Content)
}

func TestClient_CreateTask_UniqueRequestIDs(t *testing.T) {
	ids := make(map[string]bool)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-Id")] = true
		_, _ = w.Write([]byte(`{"id":"1","content":"x"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIBase: server.URL})
	for i := 0; i < 3; i++ {
		client.CreateTask(context.Background(), "tok", "x")
	}
	assert.Len(t, ids, 3)
}

func TestClient_CreateTask_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    domain.TaskOutcome
		content string
	}{
		{"created", http.StatusOK, `{"id":"1","content":"a"}`, domain.TaskCreated, "a"},
		{"created without content echoes input", http.StatusOK, `{"id":"1"}`, domain.TaskCreated, "input"},
		{"created with unreadable body", http.StatusOK, `not json`, domain.TaskCreated, "input"},
		{"unauthorized", http.StatusUnauthorized, `Forbidden`, domain.TaskUnauthorized, ""},
		{"forbidden", http.StatusForbidden, `Forbidden`, domain.TaskRejected, ""},
		{"bad request", http.StatusBadRequest, `Content is required`, domain.TaskRejected, ""},
		{"server error", http.StatusInternalServerError, `oops`, domain.TaskRejected, ""},
		{"rate limited", http.StatusTooManyRequests, ``, domain.TaskRejected, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := NewClient(ClientConfig{APIBase: server.URL}).CreateTask(context.Background(), "tok", "input")

			assert.Equal(t, tt.want, result.Outcome)
			assert.Equal(t, tt.status, result.StatusCode)
			if tt.want == domain.TaskCreated {
				assert.Equal(t, tt.content, result.Content)
				assert.NoError(t, result.Err)
			} else {
				assert.Error(t, result.Err)
			}
			if tt.want == domain.TaskUnauthorized {
				assert.ErrorIs(t, result.Err, domain.ErrUnauthorized)
			}
		})
	}
}

func TestClient_CreateTask_RejectedKeepsBodySnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Content is required", http.StatusBadRequest)
	}))
	defer server.Close()

	result := NewClient(ClientConfig{APIBase: server.URL}).CreateTask(context.Background(), "tok", "")

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "Content is required")
}

func TestClient_CreateTask_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := NewClient(ClientConfig{APIBase: url}).CreateTask(context.Background(), "tok", "x")

	assert.Equal(t, domain.TaskNetworkFailure, result.Outcome)
	assert.ErrorIs(t, result.Err, domain.ErrServiceUnavailable)
	assert.Zero(t, result.StatusCode)
}

func TestClient_CreateTask_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientConfig{
		APIBase:    server.URL,
		HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
	})

	result := client.CreateTask(context.Background(), "tok", "x")
	assert.Equal(t, domain.TaskNetworkFailure, result.Outcome)
}

func TestClient_CreateTask_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewClient(ClientConfig{APIBase: server.URL}).CreateTask(ctx, "tok", "x")
	assert.Equal(t, domain.TaskNetworkFailure, result.Outcome)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{})

	assert.Equal(t, DefaultAPIBase, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.NotEmpty(t, c.userAgent)
	assert.NotNil(t, c.logger)
}
