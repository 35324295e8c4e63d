package structured

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/stickeragent/internal/chatmodeltest"
)

type sizeAnswer struct {
	Width  float64 `json:"width" jsonschema:"required"`
	Height float64 `json:"height" jsonschema:"required"`
}

func promptFor(_ context.Context, msg string) ([]*schema.Message, error) {
	if msg == "" {
		return nil, errors.New("empty")
	}
	return []*schema.Message{schema.UserMessage(msg)}, nil
}

func TestChainInvoke(t *testing.T) {
	t.Parallel()
	chatModel := &chatmodeltest.Model{ToolName: "read_size", Arguments: `{"width":3,"height":4.5}`}
	chain, err := NewChain[string, sizeAnswer](chatModel, promptFor, "read_size", "Read a sticker size")
	require.NoError(t, err)
	assert.Equal(t, "read_size", chain.GetToolInfo().Name)

	got, err := chain.Invoke(context.Background(), "three by four and a half")
	require.NoError(t, err)
	assert.Equal(t, sizeAnswer{Width: 3, Height: 4.5}, *got)
}

func TestChainInvokeErrors(t *testing.T) {
	t.Parallel()
	plain := &chatmodeltest.Model{Content: "I think it is 3x4"}
	chain, err := NewChain[string, sizeAnswer](plain, promptFor, "read_size", "Read a sticker size")
	require.NoError(t, err)
	_, err = chain.Invoke(context.Background(), "3x4")
	assert.ErrorIs(t, err, ErrNoToolCall)
	var plainErr *NoToolCallError
	require.ErrorAs(t, err, &plainErr)
	assert.Equal(t, "I think it is 3x4", plainErr.Content)

	_, err = chain.Invoke(context.Background(), "")
	assert.ErrorContains(t, err, "build prompt failed")

	broken := &chatmodeltest.Model{ToolName: "read_size", Arguments: `{"width":`}
	chain, err = NewChain[string, sizeAnswer](broken, promptFor, "read_size", "Read a sticker size")
	require.NoError(t, err)
	_, err = chain.Invoke(context.Background(), "3x4")
	assert.ErrorContains(t, err, "parse ToolCall arguments failed")

	failing := &chatmodeltest.Model{Err: errors.New("rate limited")}
	chain, err = NewChain[string, sizeAnswer](failing, promptFor, "read_size", "Read a sticker size")
	require.NoError(t, err)
	_, err = chain.Invoke(context.Background(), "3x4")
	assert.ErrorContains(t, err, "rate limited")

	_, err = NewChain[string, sizeAnswer](nil, promptFor, "read_size", "Read a sticker size")
	assert.Error(t, err)
}
