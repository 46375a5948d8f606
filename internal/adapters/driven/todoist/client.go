package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
	"github.com/custodia-labs/alice-todoist/internal/logger"
	"github.com/custodia-labs/alice-todoist/internal/metrics"
)

// Ensure Client implements TaskCreator
var _ driven.TaskCreator = (*Client)(nil)

const (
	// DefaultAPIBase is the Todoist REST API root.
	DefaultAPIBase = "https://api.todoist.com/rest/v2"

	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// ClientConfig holds configuration for the Todoist API client.
type ClientConfig struct {
	// APIBase defaults to DefaultAPIBase.
	APIBase string

	// UserAgent is sent on every request.
	// Example: "alice-todoist/1.2.0"
	UserAgent string

	// HTTPClient overrides the default client with DefaultTimeout.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client creates tasks through the Todoist REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a new Todoist API client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.APIBase
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "alice-todoist/dev"
	}
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  ua,
		logger:     l,
	}
}

type createTaskRequest struct {
	Content string `json:"content"`
}

type task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CreateTask posts a new task. Transport and upstream failures are
// reported through the result, never as an error.
func (c *Client) CreateTask(ctx context.Context, accessToken, content string) domain.TaskResult {
	result := c.createTask(ctx, accessToken, content)
	metrics.TodoistRequests.WithLabelValues(result.Outcome.String()).Inc()
	return result
}

func (c *Client) createTask(ctx context.Context, accessToken, content string) domain.TaskResult {
	body, err := json.Marshal(createTaskRequest{Content: content})
	if err != nil {
		return domain.TaskResult{Outcome: domain.TaskNetworkFailure, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return domain.TaskResult{Outcome: domain.TaskNetworkFailure, Err: fmt.Errorf("create request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("User-Agent", c.userAgent)

	log := logger.With(ctx, c.logger).With("todoist_request_id", requestID)
	log.Debug("todoist request",
		"method", req.Method,
		"url", req.URL.String(),
		"authorization", logger.MaskSecret(req.Header.Get("Authorization")))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("todoist request failed", "error", err, "duration", time.Since(start))
		return domain.TaskResult{Outcome: domain.TaskNetworkFailure, Err: fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)}
	}
	defer resp.Body.Close()

	log.Debug("todoist response", "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.TaskResult{
			Outcome:    domain.TaskUnauthorized,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("todoist %s: %w", resp.Status, domain.ErrUnauthorized),
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.TaskResult{
			Outcome:    domain.TaskRejected,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("todoist: %s: %s", resp.Status, strings.TrimSpace(string(snippet))),
		}
	}

	var created task
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// The task exists upstream even if the body is unreadable.
		log.Warn("failed to decode todoist response", "error", err)
		return domain.TaskResult{Outcome: domain.TaskCreated, Content: content, StatusCode: resp.StatusCode}
	}
	if created.Content == "" {
		created.Content = content
	}

	result := domain.Created(created.ID, created.Content)
	result.StatusCode = resp.StatusCode
	return result
}
