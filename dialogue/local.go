package dialogue

import (
	"context"
	"errors"
	"fmt"
)

// ErrOffline is returned by OfflineAssistant. The engine answers such turns
// with its own fallback reply.
var ErrOffline = errors.New("assistant offline")

// OfflineAssistant never answers. It is used when no chat model is configured.
type OfflineAssistant struct{}

func (OfflineAssistant) Assist(context.Context, *Request) (*Decision, error) {
	return nil, ErrOffline
}

// FailbackAssistant tries each assistant in order and returns the first
// decision that succeeds.
type FailbackAssistant struct {
	assistants []Assistant
}

func NewFailbackAssistant(assistants ...Assistant) *FailbackAssistant {
	return &FailbackAssistant{assistants: assistants}
}

func (a *FailbackAssistant) Assist(ctx context.Context, req *Request) (*Decision, error) {
	lastErr := ErrOffline
	for _, assistant := range a.assistants {
		decision, err := assistant.Assist(ctx, req)
		if err == nil {
			return decision, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all assistants failed: %w", lastErr)
}
