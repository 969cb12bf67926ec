package service

import (
	"errors"
	"fmt"

	"github.com/octobees/maps-leads/api/internal/provider"
)

var (
	// ErrProviderNotConfigured means no provider client was wired at startup (missing credential).
	ErrProviderNotConfigured = errors.New("lead provider is not configured")
	// ErrProvider matches every *ProviderError.
	ErrProvider = errors.New("lead provider failed")
	// ErrExtraction matches every *ExtractionError.
	ErrExtraction = errors.New("no leads could be extracted")
	// ErrEmptyQuery is returned when the search query is blank.
	ErrEmptyQuery = errors.New("query is required")
)

// ProviderError wraps a failed provider call or a task that ended in a failed status.
type ProviderError struct {
	Op     string
	TaskID string
	Status provider.Status
	Err    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider %s failed", e.Op)
	if e.TaskID != "" {
		msg += fmt.Sprintf(" (task %s)", e.TaskID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// ExtractionError means the provider finished but no usable lead survived extraction and sanitizing.
type ExtractionError struct {
	TaskID     string
	Candidates int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no leads could be extracted from task %s (%d raw candidates)", e.TaskID, e.Candidates)
}

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
