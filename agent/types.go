package agent

import (
	"context"
	"errors"

	"github.com/tbxark/stickeragent/types"
)

var (
	ErrEmptyMessage    = errors.New("empty message")
	ErrSessionNotFound = errors.New("session not found")
	// ErrStaleTurn is returned when a newer turn started while a remote
	// reply was being computed.
	ErrStaleTurn = errors.New("stale turn")
)

// MessageSink receives chat messages in transcript order.
type MessageSink interface {
	Deliver(msg types.ChatMessage)
}

type MessageSinkFunc func(msg types.ChatMessage)

func (f MessageSinkFunc) Deliver(msg types.ChatMessage) { f(msg) }

// GenerationSink is told when the sticker can be rendered.
type GenerationSink interface {
	ReadyToGenerate(ctx context.Context, sessionID string, info types.ExtractedInfo) error
}

type GenerationSinkFunc func(ctx context.Context, sessionID string, info types.ExtractedInfo) error

func (f GenerationSinkFunc) ReadyToGenerate(ctx context.Context, sessionID string, info types.ExtractedInfo) error {
	return f(ctx, sessionID, info)
}

type discardSink struct{}

func (discardSink) Deliver(types.ChatMessage) {}

func (discardSink) ReadyToGenerate(context.Context, string, types.ExtractedInfo) error { return nil }

// Hooks are optional callbacks for UI side effects. They run after the reply
// that triggered them is delivered.
type Hooks struct {
	TitleConfirmed     func(title string)
	BackgroundDecision func(remove bool)
	SizeSet            func(size string)
}

type Stage string

const (
	StageCollectingTitle    Stage = "collecting_title"
	StageConfirmingTitle    Stage = "confirming_title"
	StageCollectingNames    Stage = "collecting_names"
	StageConfirmingNames    Stage = "confirming_names"
	StageCollectingDate     Stage = "collecting_date"
	StageCollectingCourtesy Stage = "collecting_courtesy"
	StagePictureDecision    Stage = "picture_decision"
	StageChoosingMainPhoto  Stage = "choosing_main_photo"
	StageBackgroundDecision Stage = "background_decision"
	StageCollectingSize     Stage = "collecting_size"
	StageReady              Stage = "ready"
)
