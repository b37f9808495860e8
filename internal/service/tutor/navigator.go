package tutor

import (
	"context"
	"fmt"
)

// NavResult mirrors the navigation executor's acknowledgement shape.
type NavResult struct {
	Success    bool   `json:"success"`
	Action     string `json:"action,omitempty"`
	SlideIndex int    `json:"slideIndex"`
	Message    string `json:"message"`
}

// Navigator executes a slide-navigation action on behalf of the client. It is
// an external collaborator of the controller; the default executor only
// acknowledges.
type Navigator interface {
	Navigate(ctx context.Context, slideIndex int) (NavResult, error)
}

// Executor is the default Navigator. Navigation automation is gated on the
// same credential as the vision provider; without it the executor reports the
// action as skipped instead of failing the command.
type Executor struct {
	enabled bool
}

func NewExecutor(enabled bool) *Executor {
	return &Executor{enabled: enabled}
}

func (e *Executor) Navigate(ctx context.Context, slideIndex int) (NavResult, error) {
	if !e.enabled {
		return NavResult{
			Success:    false,
			SlideIndex: slideIndex,
			Message:    "navigation executor not configured",
		}, nil
	}
	return NavResult{
		Success:    true,
		Action:     "navigate",
		SlideIndex: slideIndex,
		Message:    fmt.Sprintf("Navigated to slide %d", slideIndex),
	}, nil
}
