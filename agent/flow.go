package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/intent"
)

// Flow runs one chat end to end: the offline engine first, then the local
// guard, then the remote assistant, and the offline fallback when the
// assistant fails.
type Flow struct {
	session    *Session
	assistant  dialogue.Assistant
	recognizer intent.Recognizer
	timeout    time.Duration
}

type FlowOption func(*Flow)

// WithRecognizer sets the intent recognizer whose result is passed to the
// remote assistant.
func WithRecognizer(r intent.Recognizer) FlowOption {
	return func(f *Flow) { f.recognizer = r }
}

func WithAssistantTimeout(timeout time.Duration) FlowOption {
	return func(f *Flow) { f.timeout = timeout }
}

func NewFlow(session *Session, assistant dialogue.Assistant, opts ...FlowOption) *Flow {
	if assistant == nil {
		assistant = dialogue.OfflineAssistant{}
	}
	f := &Flow{
		session:    session,
		assistant:  assistant,
		recognizer: intent.NewClassifier(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewToolBasedFlow wires chatModel in as both the remote assistant and the
// low-confidence intent fallback.
func NewToolBasedFlow(session *Session, chatModel model.ToolCallingChatModel, threshold float64, opts ...FlowOption) (*Flow, error) {
	assistant, toolOpts, err := ToolBased(chatModel, threshold)
	if err != nil {
		return nil, err
	}
	return NewFlow(session, assistant, append(toolOpts, opts...)...), nil
}

// ToolBased builds the remote assistant and flow options backed by
// chatModel, for callers that construct the Flow themselves.
func ToolBased(chatModel model.ToolCallingChatModel, threshold float64) (dialogue.Assistant, []FlowOption, error) {
	assistant, err := dialogue.NewToolBasedAssistant(chatModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tool-based assistant: %w", err)
	}
	recognizer, err := intent.NewToolBasedRecognizer(chatModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tool-based intent recognizer: %w", err)
	}
	classifier := intent.NewClassifier(intent.WithThreshold(threshold), intent.WithFallback(recognizer))
	return dialogue.NewFailbackAssistant(assistant), []FlowOption{WithRecognizer(classifier)}, nil
}

func (f *Flow) Session() *Session {
	return f.session
}

// Send handles one user message. It reports whether the offline engine or
// the guard answered without the remote assistant.
func (f *Flow) Send(ctx context.Context, text string) (bool, error) {
	handled, token, err := f.session.handleMessage(text)
	if err != nil {
		return false, err
	}
	if handled {
		return true, nil
	}
	msg := strings.TrimSpace(text)
	if f.session.guard(token, msg) {
		return true, nil
	}

	intentName := ""
	if f.recognizer != nil {
		result, err := f.recognizer.Recognize(ctx, &intent.Request{
			Message:    msg,
			Transcript: f.session.Transcript(),
			Context:    f.session.Context(),
		})
		if err != nil {
			slog.Warn("Intent recognition failed", "session", f.session.ID(), "error", err)
		} else {
			intentName = string(result.Intent)
		}
	}

	req, err := f.session.AssistantRequest(msg, intentName)
	if err != nil {
		return false, err
	}
	assistCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		assistCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	decision, err := f.assistant.Assist(assistCtx, req)
	if err != nil {
		if errors.Is(err, dialogue.ErrOffline) {
			slog.Debug("Assistant offline, using fallback", "session", f.session.ID())
		} else {
			slog.Warn("Assistant failed, using fallback", "session", f.session.ID(), "error", err)
		}
		f.session.offlineFallback(token, msg)
		return false, nil
	}

	if err := f.session.applyDecision(token, msg, decision); err != nil {
		if errors.Is(err, ErrStaleTurn) {
			slog.Debug("Dropped stale assistant decision", "session", f.session.ID(), "token", token)
			return false, nil
		}
		slog.Warn("Failed to apply assistant decision", "session", f.session.ID(), "error", err)
		f.session.offlineFallback(token, msg)
	}
	return false, nil
}
