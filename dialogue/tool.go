package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/stickeragent/structured"
	"github.com/tbxark/stickeragent/types"
)

const (
	replyToolName        = "reply_to_user"
	replyToolDescription = "Reply to the user and optionally update sticker fields."
)

// DefaultAssistantSystemPromptTemplate is the default system prompt of
// ToolBasedAssistant. It may contain a single "%s" placeholder for the tool
// name.
const DefaultAssistantSystemPromptTemplate = `You are a friendly, conversational sticker assistant inside a graphic design app. Chat naturally, be warm and helpful.

The supported designs are stickers for weddings, graduations, birthdays and naming ceremonies.
Keep replies SHORT: at most 2 sentences. Do not use markdown, headings, bullets or lists.
Understand what the user means; do not just repeat their words.
If the user asks for flyers, posters, logos or other designs, politely say you only create stickers and offer to help with one.
If the user asks a general question, briefly explain how sticker creation works.
Required details: title/heading, the couple's names, the date and the courtesy line. Ask ONLY for the missing ones.
Pictures are supported: the user can tap "Add Picture" at any time.
Never mention AI, models, prompts, JSON or other technical terms to the user.

Set updates only for values the user actually gave in the latest message. Call the '%s' tool with your reply.
`

type assistantOptions struct {
	systemPrompt         string
	systemPromptTemplate string
	modelOptions         []model.Option
}

type AssistantOption func(*assistantOptions)

// WithAssistantSystemPrompt overrides the system prompt used by ToolBasedAssistant.
func WithAssistantSystemPrompt(systemPrompt string) AssistantOption {
	return func(o *assistantOptions) {
		o.systemPrompt = systemPrompt
	}
}

// WithAssistantSystemPromptTemplate overrides the system prompt template. If
// the template contains "%s", it is formatted with the tool name.
func WithAssistantSystemPromptTemplate(systemPromptTemplate string) AssistantOption {
	return func(o *assistantOptions) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

func WithAssistantModelOptions(opts ...model.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.modelOptions = append(o.modelOptions, opts...)
	}
}

// ToolBasedAssistant asks a chat model for a Decision through a forced tool
// call. A plain-text answer is accepted as a message without updates.
type ToolBasedAssistant struct {
	chain *structured.Chain[*Request, Decision]
}

func NewToolBasedAssistant(chatModel model.ToolCallingChatModel, opts ...AssistantOption) (*ToolBasedAssistant, error) {
	options := assistantOptions{
		systemPromptTemplate: DefaultAssistantSystemPromptTemplate,
		modelOptions:         []model.Option{model.WithTemperature(0.6)},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := options.systemPrompt
	if systemPrompt == "" {
		systemPrompt = options.systemPromptTemplate
		if strings.Contains(systemPrompt, "%s") {
			systemPrompt = fmt.Sprintf(systemPrompt, replyToolName)
		}
	}
	chain, err := structured.NewChain[*Request, Decision](
		chatModel,
		buildAssistantPrompt(systemPrompt),
		replyToolName,
		replyToolDescription,
		options.modelOptions...,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedAssistant{chain: chain}, nil
}

func buildAssistantPrompt(systemPrompt string) structured.PromptBuilder[*Request] {
	return func(ctx context.Context, req *Request) ([]*schema.Message, error) {
		if req == nil {
			return nil, errors.New("nil request")
		}
		message, err := types.FormatAssistantRequest(req)
		if err != nil {
			return nil, fmt.Errorf("convert to prompt message failed: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(message),
		}, nil
	}
}

func (a *ToolBasedAssistant) Assist(ctx context.Context, req *Request) (*Decision, error) {
	decision, err := a.chain.Invoke(ctx, req)
	if err != nil {
		var plain *structured.NoToolCallError
		if errors.As(err, &plain) && strings.TrimSpace(plain.Content) != "" {
			return &Decision{Message: plain.Content, Action: Action{Name: ActionNone}}, nil
		}
		return nil, err
	}
	return decision, nil
}

// Normalize cleans the reply text and fills in a missing action. It reports
// whether the message is usable as a chat reply.
func (d *Decision) Normalize() bool {
	d.Message = Sanitize(d.Message)
	if d.Action.Name == "" {
		d.Action.Name = ActionNone
	}
	return Usable(d.Message)
}
