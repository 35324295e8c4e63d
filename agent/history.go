package agent

import (
	"github.com/tbxark/stickeragent/types"
)

type Trimmer interface {
	Trim(history []types.ChatMessage) []types.ChatMessage
}

// KeepLastNTrimmer keeps the last N messages. When N <= 0 it keeps
// everything.
type KeepLastNTrimmer struct {
	N int
}

func (t KeepLastNTrimmer) Trim(history []types.ChatMessage) []types.ChatMessage {
	if t.N <= 0 || len(history) <= t.N {
		return history
	}
	out := make([]types.ChatMessage, t.N)
	copy(out, history[len(history)-t.N:])
	return out
}

// appendHistory appends msgs, skipping ones without text.
func appendHistory(history []types.ChatMessage, msgs ...types.ChatMessage) []types.ChatMessage {
	out := history
	for _, msg := range msgs {
		if msg.Text == "" {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// excerpt returns up to n messages before the current user message, for the
// remote assistant prompt.
func excerpt(history []types.ChatMessage, current string, n int) []types.ChatMessage {
	end := len(history)
	if end > 0 && history[end-1].Sender == types.SenderUser && history[end-1].Text == current {
		end--
	}
	start := 0
	if n > 0 && end > n {
		start = end - n
	}
	out := make([]types.ChatMessage, end-start)
	copy(out, history[start:end])
	return out
}
