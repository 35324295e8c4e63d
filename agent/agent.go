package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/types"
)

var _ adk.Agent = (*Agent)(nil)

// Agent exposes a single sticker chat as an adk.Agent. Replies are
// delivered inline, so each Run returns the assistant messages produced by
// the last input message.
type Agent struct {
	name        string
	description string
	flow        *Flow
	recorder    *Recorder

	mu sync.Mutex
}

func NewAgent(name, description string, assistant dialogue.Assistant, flowOpts []FlowOption, opts ...SessionOption) *Agent {
	recorder := &Recorder{}
	opts = append(opts, WithScheduler(InlineScheduler{}), WithMessageSink(recorder))
	return &Agent{
		name:        name,
		description: description,
		flow:        NewFlow(NewSession("", opts...), assistant, flowOpts...),
		recorder:    recorder,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Session() *Session {
	return a.flow.Session()
}

// Replies returns assistant messages delivered outside Run, e.g. after
// Session().PhotosCropped or Session().HandleAction.
func (a *Agent) Replies() []types.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recorder.Drain()
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}

		a.mu.Lock()
		a.recorder.Drain()
		_, err := a.flow.Send(ctx, input.Messages[len(input.Messages)-1].Content)
		replies := a.recorder.Drain()
		a.mu.Unlock()
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow send failed: %w", err),
			})
			return
		}
		for _, reply := range replies {
			gen.Send(&adk.AgentEvent{
				Output: &adk.AgentOutput{
					MessageOutput: &adk.MessageVariant{
						IsStreaming: false,
						Message: &schema.Message{
							Role:    schema.Assistant,
							Content: reply.Text,
						},
						Role: schema.Assistant,
					},
				},
			})
		}
	}()
	return iter
}

// Recorder is a MessageSink that buffers assistant messages until drained.
type Recorder struct {
	mu   sync.Mutex
	msgs []types.ChatMessage
}

func (r *Recorder) Deliver(msg types.ChatMessage) {
	if msg.Sender != types.SenderAI {
		return
	}
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *Recorder) Drain() []types.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}
