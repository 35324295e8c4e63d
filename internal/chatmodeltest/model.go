// Package chatmodeltest provides a scripted tool-calling chat model for tests.
package chatmodeltest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Model answers every Generate call with a single tool call carrying
// Arguments, or with plain Content when Arguments is empty.
type Model struct {
	ToolName  string
	Arguments string
	Content   string
	Err       error

	mu    sync.Mutex
	calls [][]*schema.Message
}

func (m *Model) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	msg := &schema.Message{Role: schema.Assistant, Content: m.Content}
	if m.Arguments != "" {
		msg.ToolCalls = []schema.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: schema.FunctionCall{
				Name:      m.ToolName,
				Arguments: m.Arguments,
			},
		}}
	}
	return msg, nil
}

func (m *Model) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *Model) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

// Calls returns the prompts the model received, oldest first.
func (m *Model) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]*schema.Message, len(m.calls))
	copy(out, m.calls)
	return out
}
