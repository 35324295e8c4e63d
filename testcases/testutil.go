// Package testcases runs whole conversations against a live chat model.
// They are skipped unless STICKERAGENT_RUN_LIVE_TESTS=1.
package testcases

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/types"
)

func InitChatModel(t *testing.T) *openai.ChatModel {
	t.Helper()
	if os.Getenv("STICKERAGENT_RUN_LIVE_TESTS") != "1" {
		t.Skip("set STICKERAGENT_RUN_LIVE_TESTS=1 to run live LLM tests")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY is empty")
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
	}
	return chatModel
}

// transcript collects delivered assistant messages.
type transcript struct {
	mu   sync.Mutex
	msgs []types.ChatMessage
}

func (l *transcript) Deliver(msg types.ChatMessage) {
	if msg.Sender != types.SenderAI {
		return
	}
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func (l *transcript) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.msgs) == 0 {
		return ""
	}
	return l.msgs[len(l.msgs)-1].Text
}

func NewTestFlow(t *testing.T) (*agent.Flow, *transcript) {
	t.Helper()
	chatModel := InitChatModel(t)
	log := &transcript{}
	session := agent.NewSession("", agent.WithScheduler(agent.InlineScheduler{}), agent.WithMessageSink(log))
	flow, err := agent.NewToolBasedFlow(session, chatModel, 0)
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	return flow, log
}
