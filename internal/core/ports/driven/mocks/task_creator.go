package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// TaskCall records one CreateTask invocation.
type TaskCall struct {
	AccessToken string
	Content     string
}

// MockTaskCreator is a mock implementation of TaskCreator for testing.
// Without CreateTaskFn every call succeeds and echoes the content.
type MockTaskCreator struct {
	mu    sync.Mutex
	calls []TaskCall

	CreateTaskFn func(accessToken, content string) domain.TaskResult
}

// NewMockTaskCreator creates a new mock task creator.
func NewMockTaskCreator() *MockTaskCreator {
	return &MockTaskCreator{}
}

// CreateTask records the call and returns the configured result.
func (m *MockTaskCreator) CreateTask(ctx context.Context, accessToken, content string) domain.TaskResult {
	m.mu.Lock()
	m.calls = append(m.calls, TaskCall{AccessToken: accessToken, Content: content})
	m.mu.Unlock()

	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(accessToken, content)
	}
	return domain.Created("task-1", content)
}

// Calls returns a copy of the recorded calls.
func (m *MockTaskCreator) Calls() []TaskCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TaskCall(nil), m.calls...)
}
