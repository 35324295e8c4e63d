package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParser(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  Command
	}{
		{input: "/reset", want: Command{Name: Reset}},
		{input: " /Restart ", want: Command{Name: Reset}},
		{input: "/photo 3", want: Command{Name: Photo, Arg: "3"}},
		{input: "/action choose_main_1", want: Command{Name: Action, Arg: "choose_main_1"}},
		{input: "/state", want: Command{Name: State}},
		{input: "Bye", want: Command{Name: Quit}},
	}
	p := NewDefaultParser()
	for _, tt := range tests {
		got, err := p.ParseCommand(context.Background(), tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestDefaultParserRejects(t *testing.T) {
	t.Parallel()
	p := NewDefaultParser()

	cmd, err := p.ParseCommand(context.Background(), "wedding ceremony")
	assert.ErrorIs(t, err, ErrNotCommand)
	assert.Equal(t, None, cmd.Name)

	_, err = p.ParseCommand(context.Background(), "/photo zero")
	assert.ErrorContains(t, err, "positive count")

	_, err = p.ParseCommand(context.Background(), "/action")
	assert.ErrorContains(t, err, "needs a token")

	_, err = p.ParseCommand(context.Background(), "/dance")
	assert.ErrorContains(t, err, "unknown command")
}

func TestPhotoCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, Command{Name: Photo, Arg: "2"}.PhotoCount())
}
