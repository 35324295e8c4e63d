package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/stickeragent/structured"
	"github.com/tbxark/stickeragent/types"
)

const (
	classifyIntentToolName        = "classify_intent"
	classifyIntentToolDescription = "Classify the latest user message of a sticker design chat."
)

// DefaultClassifyIntentSystemPromptTemplate may contain a single "%s"
// placeholder for the tool name.
const DefaultClassifyIntentSystemPromptTemplate = `
You help a chat assistant that designs wedding stickers. The assistant collects a title, the couple's names, the event date, a courtesy line and a print size.

Read the conversation and classify the user's latest message. Judge it together with the assistant's previous question: "yes" after "Would you like to add a picture?" is a confirmation, "from the Bello family" after "Who is it from?" is provide_info.

Allowed intents:
- greeting: hello, salam and similar openers.
- confirmation: a plain yes or no. Set target_field to positive or negative.
- thanks: gratitude or praise.
- change_request: the user wants to change something already given. Set target_field to names, date, courtesy, size, picture or heading.
- question: the user asks something.
- help_request: the user is stuck or asks for guidance.
- cancel: the user wants to start over.
- download: the user wants to save or export the design.
- provide_info: the user is giving sticker details. Set the has_* flags for what is mentioned.

Report a confidence between 0 and 1 and call the '%s' tool with the result.
`

type PromptBuilder func(systemPrompt string) structured.PromptBuilder[*Request]

type recognizerOptions struct {
	systemPromptTemplate string
	promptBuilder        PromptBuilder
}

type RecognizerOption func(*recognizerOptions)

func WithSystemPromptTemplate(systemPromptTemplate string) RecognizerOption {
	return func(o *recognizerOptions) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

func WithPromptBuilder(promptBuilder PromptBuilder) RecognizerOption {
	return func(o *recognizerOptions) {
		o.promptBuilder = promptBuilder
	}
}

func defaultPromptBuilder(systemPrompt string) structured.PromptBuilder[*Request] {
	return func(ctx context.Context, req *Request) ([]*schema.Message, error) {
		if req == nil || strings.TrimSpace(req.Message) == "" {
			return nil, fmt.Errorf("empty message")
		}
		var sb strings.Builder
		if transcript := types.FormatTranscript(req.Transcript); transcript != "" {
			sb.WriteString("# Conversation so far:\n")
			sb.WriteString(transcript)
			sb.WriteString("\n\n")
		}
		sb.WriteString("# Latest user message:\n")
		sb.WriteString(req.Message)
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(sb.String()),
		}, nil
	}
}

func newRecognizerOptions(opts ...RecognizerOption) *recognizerOptions {
	opt := recognizerOptions{
		systemPromptTemplate: DefaultClassifyIntentSystemPromptTemplate,
		promptBuilder:        defaultPromptBuilder,
	}
	for _, o := range opts {
		o(&opt)
	}
	return &opt
}

type classifyIntentInput struct {
	Intent     Intent   `json:"intent" jsonschema:"required,enum=greeting,enum=confirmation,enum=thanks,enum=change_request,enum=question,enum=help_request,enum=cancel,enum=download,enum=provide_info,description=The intent of the latest user message"`
	Confidence float64  `json:"confidence" jsonschema:"required,description=Confidence between 0 and 1"`
	Entities   Entities `json:"entities" jsonschema:"description=What the message mentions"`
}

// ToolBasedRecognizer asks a chat model for the intent through a forced tool
// call.
type ToolBasedRecognizer struct {
	chain *structured.Chain[*Request, classifyIntentInput]
}

func NewToolBasedRecognizer(chatModel model.ToolCallingChatModel, opts ...RecognizerOption) (*ToolBasedRecognizer, error) {
	options := newRecognizerOptions(opts...)
	chain, err := structured.NewChain[*Request, classifyIntentInput](
		chatModel,
		options.promptBuilder(fmt.Sprintf(options.systemPromptTemplate, classifyIntentToolName)),
		classifyIntentToolName,
		classifyIntentToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedRecognizer{chain: chain}, nil
}

func (r *ToolBasedRecognizer) Recognize(ctx context.Context, req *Request) (Result, error) {
	out, err := r.chain.Invoke(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if out == nil || out.Intent == "" {
		return Result{}, fmt.Errorf("empty intent returned by %s", classifyIntentToolName)
	}
	return Result{
		Intent:     out.Intent,
		Confidence: clamp(out.Confidence),
		Entities:   out.Entities,
		Source:     sourceModel,
	}, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
