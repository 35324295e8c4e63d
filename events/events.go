// Package events carries "ready to generate" signals from chat sessions to
// whatever renders stickers, over a watermill pub/sub.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/types"
)

const DefaultTopic = "sticker.generate"

// GenerationRequested is the payload published for every generation signal.
type GenerationRequested struct {
	SessionID   string              `json:"session_id"`
	Info        types.ExtractedInfo `json:"info"`
	Summary     string              `json:"summary"`
	RequestedAt time.Time           `json:"requested_at"`
}

// NewPubSub returns an in-process pub/sub. Messages are dropped when nobody
// is subscribed.
func NewPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

// Publisher publishes generation signals and satisfies agent.GenerationSink.
type Publisher struct {
	pub   message.Publisher
	topic string
	spec  agent.Spec
	now   func() time.Time
}

var _ agent.GenerationSink = (*Publisher)(nil)

func NewPublisher(pub message.Publisher, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{pub: pub, topic: topic, spec: types.StickerSpec{}, now: time.Now}
}

func (p *Publisher) ReadyToGenerate(ctx context.Context, sessionID string, info types.ExtractedInfo) error {
	payload, err := sonic.Marshal(GenerationRequested{
		SessionID:   sessionID,
		Info:        info,
		Summary:     p.spec.Summary(info),
		RequestedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode generation request: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("session_id", sessionID)
	msg.SetContext(ctx)
	if err := p.pub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish generation request: %w", err)
	}
	slog.Debug("Published generation request", "session", sessionID, "topic", p.topic, "message", msg.UUID)
	return nil
}

// Handler processes one generation request. A returned error nacks the
// message.
type Handler func(ctx context.Context, req GenerationRequested) error

// Consumer feeds generation requests from a topic to a Handler.
type Consumer struct {
	sub     message.Subscriber
	topic   string
	handler Handler
}

func NewConsumer(sub message.Subscriber, topic string, handler Handler) *Consumer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Consumer{sub: sub, topic: topic, handler: handler}
}

// Run consumes until ctx is done or the subscription closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.sub.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.topic, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	var req GenerationRequested
	if err := sonic.Unmarshal(msg.Payload, &req); err != nil {
		// malformed payloads are never retried
		slog.Warn("Dropping malformed generation request", "message", msg.UUID, "error", err)
		msg.Ack()
		return
	}
	if err := c.handler(ctx, req); err != nil {
		slog.Warn("Generation handler failed", "session", req.SessionID, "error", err)
		msg.Nack()
		return
	}
	msg.Ack()
}

// LogHandler logs each request. It stands in for a renderer in the CLI.
func LogHandler(_ context.Context, req GenerationRequested) error {
	slog.Info("Sticker ready to generate", "session", req.SessionID, "title", req.Info.Title, "summary", req.Summary, "size", req.Info.Size)
	return nil
}
