package driven

import (
	"context"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// TaskCreator creates tasks in the upstream to-do API.
type TaskCreator interface {
	// CreateTask posts content as a new task on behalf of accessToken.
	// Failures are reported through the result's Outcome, never as a panic
	// or a bare error.
	CreateTask(ctx context.Context, accessToken, content string) domain.TaskResult
}
