// Package provider defines the boundary to the browser-automation cloud that performs
// the actual navigation and extraction. Implementations live in sub-packages.
package provider

import "context"

// Status is the lifecycle state reported by the provider for a task.
type Status string

const (
	StatusCreated  Status = "created"
	StatusStarted  Status = "started"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
	StatusStopped  Status = "stopped"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no further status transitions are expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusFinished, StatusStopped, StatusFailed:
		return true
	default:
		return false
	}
}

// Known reports whether s is one of the documented lifecycle states.
func (s Status) Known() bool {
	switch s {
	case StatusCreated, StatusStarted, StatusPaused, StatusFinished, StatusStopped, StatusFailed:
		return true
	default:
		return false
	}
}

// Client submits natural-language tasks to the provider.
type Client interface {
	Submit(ctx context.Context, description string) (Task, error)
}

// Task is a handle on a submitted provider task.
type Task interface {
	ID() string
	// Await blocks until the provider reports a terminal status.
	Await(ctx context.Context) (*Result, error)
}

// Result is the terminal state of a provider task. Succeeded is the provider's own verdict on a
// finished run.
type Result struct {
	TaskID    string
	Status    Status
	Succeeded bool
	Output    Output
}
