package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/events"
)

// app holds what every command shares: config, the generation bus and the
// optional chat model.
type app struct {
	config    *Config
	pubSub    *gochannel.GoChannel
	publisher *events.Publisher
	chatModel model.ToolCallingChatModel
}

func newApp(ctx context.Context, config *Config) (*app, error) {
	pubSub := events.NewPubSub(nil)
	a := &app{
		config:    config,
		pubSub:    pubSub,
		publisher: events.NewPublisher(pubSub, config.Events.GenerateTopic),
	}
	if config.LLM.Enabled {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.LLM.APIKey,
			Model:   config.LLM.Model,
			BaseURL: config.LLM.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create chat model: %w", err)
		}
		a.chatModel = cm
		slog.Info("Remote assistant enabled", "model", config.LLM.Model)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.pubSub.Close()
}

func (a *app) consumer() *events.Consumer {
	return events.NewConsumer(a.pubSub, a.config.Events.GenerateTopic, events.LogHandler)
}

func (a *app) sessionOptions() []agent.SessionOption {
	chat := a.config.Chat
	return []agent.SessionOption{
		agent.WithDelays(chat.ThinkingDelay, chat.GenerateDelay),
		agent.WithTemplateTitle(chat.TemplateDefaultTitle),
		agent.WithTranscriptTrimmer(agent.KeepLastNTrimmer{N: chat.TranscriptLimit}),
		agent.WithAssistantMessages(chat.AITranscriptMessages),
		agent.WithGenerationSink(a.publisher),
	}
}

// assistant returns the remote assistant and flow options, or nil when the
// LLM is disabled.
func (a *app) assistant() (dialogue.Assistant, []agent.FlowOption, error) {
	if a.chatModel == nil {
		return nil, nil, nil
	}
	return agent.ToolBased(a.chatModel, a.config.LLM.IntentThreshold)
}

func (a *app) newFlow(id string, sink agent.MessageSink) (*agent.Flow, error) {
	opts := append(a.sessionOptions(), agent.WithMessageSink(sink))
	session := agent.NewSession(id, opts...)
	assistant, flowOpts, err := a.assistant()
	if err != nil {
		return nil, err
	}
	return agent.NewFlow(session, assistant, flowOpts...), nil
}
