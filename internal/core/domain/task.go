package domain

// TaskOutcome classifies the result of a task-creation call.
type TaskOutcome int

const (
	// TaskCreated means the upstream API accepted the task.
	TaskCreated TaskOutcome = iota

	// TaskUnauthorized means the upstream API rejected the access token.
	TaskUnauthorized

	// TaskRejected means the upstream API answered with any other non-2xx status.
	TaskRejected

	// TaskNetworkFailure means no usable HTTP response was received.
	TaskNetworkFailure
)

// String returns the metrics/log label of the outcome.
func (o TaskOutcome) String() string {
	switch o {
	case TaskCreated:
		return "created"
	case TaskUnauthorized:
		return "unauthorized"
	case TaskRejected:
		return "rejected"
	case TaskNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// TaskResult is the tagged result of a task-creation call.
// Content is set for TaskCreated; StatusCode and Err describe failures.
type TaskResult struct {
	Outcome    TaskOutcome
	Content    string
	TaskID     string
	StatusCode int
	Err        error
}

// Created builds a successful result.
func Created(id, content string) TaskResult {
	return TaskResult{Outcome: TaskCreated, TaskID: id, Content: content}
}
