package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/internal/chatmodeltest"
	"github.com/tbxark/stickeragent/types"
)

const replyTool = "reply_to_user"

func ptr(s string) *string { return &s }

func newScriptedFlow(t *testing.T, chatModel *chatmodeltest.Model) (*Flow, *chatLog) {
	t.Helper()
	assistant, err := dialogue.NewToolBasedAssistant(chatModel)
	require.NoError(t, err)
	s, log := newTestSession(t, InlineScheduler{})
	return NewFlow(s, assistant), log
}

func TestFlowAppliesAssistantDecision(t *testing.T) {
	chatModel := &chatmodeltest.Model{
		ToolName:  replyTool,
		Arguments: `{"message":"Lovely name! **Who** is the partner?","updates":{"name1":" Aisha "},"action":{"name":"none"}}`,
	}
	flow, log := newScriptedFlow(t, chatModel)

	handled, err := flow.Send(context.Background(), "it's for Aisha")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "Lovely name! Who is the partner?", log.lastAI(t).Text)
	assert.Equal(t, "Aisha", flow.Session().Info().Names.Name1)

	calls := chatModel.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0][1].Content, "# User message:\nit's for Aisha")
}

func TestFlowFallsBackWhenAssistantFails(t *testing.T) {
	flow, log := newScriptedFlow(t, &chatmodeltest.Model{Err: errors.New("rate limited")})

	handled, err := flow.Send(context.Background(), "it's for Aisha")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "Please provide the title/heading, names, date, courtesy for your sticker.", log.lastAI(t).Text)
}

func TestFlowWithoutAssistantUsesFallback(t *testing.T) {
	s, log := newTestSession(t, InlineScheduler{})
	flow := NewFlow(s, nil)
	send(t, s, "wedding ceremony")

	_, err := flow.Send(context.Background(), "Our wedding is on 6th Jan 2026")
	require.NoError(t, err)
	assert.Equal(t, "6th Jan 2026", s.Info().Date)
	assert.Contains(t, log.lastAI(t).Text, `date "6th Jan 2026"`)
}

func TestFlowGuard(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{message: "k", want: "Hi! 😊 Let's start. What title/heading should I put at the top? (Example: 'Wedding Ceremony')"},
		{message: "design an invitation card for me", want: "I'm only trained to design wedding stickers. To help you with a wedding sticker, please provide the title/heading, names, date, courtesy."},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			chatModel := &chatmodeltest.Model{ToolName: replyTool, Arguments: `{"message":"unused"}`}
			flow, log := newScriptedFlow(t, chatModel)
			handled, err := flow.Send(context.Background(), tt.message)
			require.NoError(t, err)
			assert.True(t, handled)
			assert.Equal(t, tt.want, log.lastAI(t).Text)
			assert.Empty(t, chatModel.Calls())
		})
	}
}

func TestFlowRejectsEmptyMessage(t *testing.T) {
	flow, _ := newScriptedFlow(t, &chatmodeltest.Model{})
	_, err := flow.Send(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestApplyDecision(t *testing.T) {
	t.Run("completion asks for a picture", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		send(t, s, "wedding ceremony")
		send(t, s, "Aisha & Suleiman")
		send(t, s, "6th Jan 2026")

		err := s.ApplyDecision(&dialogue.Decision{
			Message: "Thanks!",
			Updates: dialogue.Updates{Courtesy: ptr("The Bello Family")},
		})
		require.NoError(t, err)
		last := log.lastAI(t)
		assert.Equal(t, "All set. Would you like to add a picture for your design?", last.Text)
		assert.Len(t, last.Actions, 2)
		assert.Equal(t, "The Bello Family", s.Info().Courtesy)
		assert.Equal(t, StagePictureDecision, s.Stage())
	})

	t.Run("month-only date is skipped", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		err := s.ApplyDecision(&dialogue.Decision{
			Message: "Which day in January?",
			Updates: dialogue.Updates{Date: ptr("January 2026"), Heading: ptr("Wedding Ceremony")},
		})
		require.NoError(t, err)
		assert.Empty(t, s.Info().Date)
		assert.Equal(t, "Wedding Ceremony", s.Info().Title)
		assert.Equal(t, "Which day in January?", log.lastAI(t).Text)
	})

	t.Run("image refusal is replaced", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		require.NoError(t, s.ApplyDecision(&dialogue.Decision{Message: "Sorry, I don't currently support adding images."}))
		last := log.lastAI(t)
		assert.Contains(t, last.Text, `tap "Add Picture"`)
		assert.Equal(t, types.ActionUpload, last.Actions[0].Type)
	})

	t.Run("unusable reply uses the fallback", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		handled, err := s.HandleUserMessage("it's for Aisha")
		require.NoError(t, err)
		require.False(t, handled)
		require.NoError(t, s.ApplyDecision(&dialogue.Decision{Message: `{"message": "hi"}`}))
		assert.Equal(t, "Please provide the title/heading, names, date, courtesy for your sticker.", log.lastAI(t).Text)
	})

	t.Run("set_size action", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		require.NoError(t, s.ApplyDecision(&dialogue.Decision{
			Message: "Sure.",
			Action:  dialogue.Action{Name: dialogue.ActionSetSize, Size: "3 x 3"},
		}))
		assert.Equal(t, "3x3", s.Info().Size)
		assert.Equal(t, "Perfect! Size set to 3x3 inches. Creating your sticker now! ✨", log.lastAI(t).Text)
		assert.Equal(t, 1, log.generations())
	})

	t.Run("ask_upload action", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		require.NoError(t, s.ApplyDecision(&dialogue.Decision{
			Message: "Tap the button to add it.",
			Action:  dialogue.Action{Name: dialogue.ActionAskUpload},
		}))
		last := log.lastAI(t)
		require.Len(t, last.Actions, 1)
		assert.Equal(t, types.ActionUpload, last.Actions[0].Type)
	})

	t.Run("stale token", func(t *testing.T) {
		s, log := newTestSession(t, InlineScheduler{})
		send(t, s, "hello")
		err := s.applyDecision(0, "hello", &dialogue.Decision{Message: "Hi!", Updates: dialogue.Updates{Name1: ptr("Aisha")}})
		require.ErrorIs(t, err, ErrStaleTurn)
		assert.Empty(t, s.Info().Names.Name1)
		assert.Len(t, log.aiMessages(), 1)
	})
}

func TestAssistantRequest(t *testing.T) {
	s, _ := newTestSession(t, InlineScheduler{}, WithAuthenticated(true))
	send(t, s, "wedding ceremony")
	handled, err := s.HandleUserMessage("it's for Aisha")
	require.NoError(t, err)
	require.False(t, handled)

	req, err := s.AssistantRequest("it's for Aisha", "provide_info")
	require.NoError(t, err)
	assert.True(t, req.Context.Authenticated)
	require.NotNil(t, req.Context.Heading)
	assert.Equal(t, "Wedding Ceremony", *req.Context.Heading)
	assert.Nil(t, req.Context.Details.Name1)
	require.Len(t, req.Transcript, 2)
	assert.Equal(t, "wedding ceremony", req.Transcript[0].Text)
	assert.Equal(t, []types.FieldInfo{types.FieldNames, types.FieldDate, types.FieldCourtesy}, req.MissingFields)
	assert.Contains(t, req.StateSchema, "Sticker details")
	assert.Equal(t, "provide_info", req.Intent)
}

func TestAgentRun(t *testing.T) {
	a := NewAgent("sticker", "Designs wedding stickers", nil, nil)
	assert.Equal(t, "sticker", a.Name(context.Background()))

	iter := a.Run(context.Background(), &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("wedding ceremony")}})
	var replies []string
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		require.NoError(t, event.Err)
		replies = append(replies, event.Output.MessageOutput.Message.Content)
	}
	assert.Equal(t, []string{`Great! Using "Wedding Ceremony" as your title. What are the couple's names?`}, replies)
	assert.Equal(t, "Wedding Ceremony", a.Session().Info().Title)

	iter = a.Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.Error(t, event.Err)
}

func TestToolBasedFlow(t *testing.T) {
	chatModel := &chatmodeltest.Model{
		ToolName:  replyTool,
		Arguments: `{"message":"Who is Aisha marrying?","updates":{"name1":"Aisha"}}`,
	}
	s, log := newTestSession(t, InlineScheduler{})
	flow, err := NewToolBasedFlow(s, chatModel, 0.0001)
	require.NoError(t, err)

	_, err = flow.Send(context.Background(), "it's for Aisha")
	require.NoError(t, err)
	assert.Equal(t, "Aisha", s.Info().Names.Name1)
	assert.Equal(t, "Who is Aisha marrying?", log.lastAI(t).Text)
	assert.NotEmpty(t, chatModel.Calls())
}

func TestAgentReplies(t *testing.T) {
	a := NewAgent("sticker", "", nil, nil)
	require.NoError(t, a.Session().PhotosCropped(1))
	replies := a.Replies()
	require.Len(t, replies, 1)
	assert.Equal(t, "Do you want me to remove the background from your photo?", replies[0].Text)
	assert.Empty(t, a.Replies())
}
