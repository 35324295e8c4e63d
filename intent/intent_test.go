package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/stickeragent/internal/chatmodeltest"
	"github.com/tbxark/stickeragent/types"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		message    string
		intent     Intent
		confidence float64
		target     string
	}{
		{"hi", Greeting, 0.95, ""},
		{"hi, can you change the date", Greeting, 0.95, ""},
		{"Salaam alaikum", Greeting, 0.95, ""},
		{"yes", Confirmation, 0.95, TargetPositive},
		{"Of course", Confirmation, 0.95, TargetPositive},
		{"nope", Confirmation, 0.95, TargetNegative},
		{"well hello there", Greeting, 0.90, ""},
		{"thank you so much", Thanks, 0.85, ""},
		{"please change the date", ChangeRequest, 0.85, TargetDate},
		{"make it 4 inches", ChangeRequest, 0.85, TargetSize},
		{"edit the groom name", ChangeRequest, 0.85, TargetNames},
		{"what is the price?", Question, 0.80, ""},
		{"I'm stuck", Help, 0.85, ""},
		{"start over", Cancel, 0.90, ""},
		{"download it", Download, 0.85, ""},
		{"blah", ProvideInfo, 0.6, ""},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.message)
			assert.Equal(t, tc.intent, got.Intent)
			assert.InDelta(t, tc.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tc.target, got.Entities.TargetField)
		})
	}
}

func TestClassifyEntitiesRaiseConfidence(t *testing.T) {
	t.Parallel()
	got := Classify("Aisha and Musa")
	assert.Equal(t, ProvideInfo, got.Intent)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.True(t, got.Entities.HasNames)

	got = Classify("6th Jan 2026")
	assert.True(t, got.Entities.HasDate)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)

	got = Classify("3x3")
	assert.True(t, got.Entities.HasSize)
}

func TestClassifyConfidenceInRange(t *testing.T) {
	t.Parallel()
	msgs := []string{
		"", " ", "?", "hi", "no", "(Aisha & Suleiman) 6th Jan 2026 courtesy: Smith family",
		"how much is this", "courtesy of the family", "🎉🎉", "x by y", "12/12/12",
		"cancel that and save it", "history", "hello?",
	}
	for _, m := range msgs {
		got := Classify(m)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, m)
		assert.LessOrEqual(t, got.Confidence, 1.0, m)
		assert.NotEmpty(t, got.Intent, m)
	}
}

func TestPositiveNegative(t *testing.T) {
	t.Parallel()
	assert.True(t, IsPositive("Yes"))
	assert.True(t, IsPositive(" okay "))
	assert.False(t, IsPositive("no"))
	assert.False(t, IsPositive("hi"))
	assert.True(t, IsNegative("Nah"))
	assert.False(t, IsNegative("not really"))
}

type recognizerFunc func(ctx context.Context, req *Request) (Result, error)

func (f recognizerFunc) Recognize(ctx context.Context, req *Request) (Result, error) {
	return f(ctx, req)
}

func TestClassifierFallback(t *testing.T) {
	t.Parallel()
	calls := 0
	fallback := recognizerFunc(func(ctx context.Context, req *Request) (Result, error) {
		calls++
		return Result{Intent: Question, Confidence: 0.9, Source: sourceModel}, nil
	})
	c := NewClassifier(WithFallback(fallback))

	got, err := c.Recognize(context.Background(), &Request{Message: "yes"})
	require.NoError(t, err)
	assert.Equal(t, Confirmation, got.Intent)
	assert.Equal(t, 0, calls)

	got, err = c.Recognize(context.Background(), &Request{Message: "blah"})
	require.NoError(t, err)
	assert.Equal(t, Question, got.Intent)
	assert.Equal(t, 1, calls)
}

func TestClassifierFallbackErrorKeepsHeuristic(t *testing.T) {
	t.Parallel()
	fallback := recognizerFunc(func(ctx context.Context, req *Request) (Result, error) {
		return Result{}, errors.New("offline")
	})
	c := NewClassifier(WithFallback(fallback), WithThreshold(0.9))
	got, err := c.Recognize(context.Background(), &Request{Message: "Aisha and Musa"})
	require.NoError(t, err)
	assert.Equal(t, ProvideInfo, got.Intent)
	assert.Equal(t, sourceHeuristic, got.Source)
}

func TestToolBasedRecognizer(t *testing.T) {
	t.Parallel()
	chatModel := &chatmodeltest.Model{
		ToolName:  classifyIntentToolName,
		Arguments: `{"intent":"confirmation","confidence":1.4,"entities":{"target_field":"positive"}}`,
	}
	r, err := NewToolBasedRecognizer(chatModel)
	require.NoError(t, err)

	got, err := r.Recognize(context.Background(), &Request{
		Message: "sounds good",
		Transcript: []types.ChatMessage{
			{Sender: types.SenderAI, Text: "Would you like to add a picture?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Confirmation, got.Intent)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, TargetPositive, got.Entities.TargetField)
	assert.Equal(t, sourceModel, got.Source)

	calls := chatModel.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 2)
	assert.Contains(t, calls[0][1].Content, "Assistant: Would you like to add a picture?")
	assert.Contains(t, calls[0][1].Content, "sounds good")
}

func TestToolBasedRecognizerEmptyIntent(t *testing.T) {
	t.Parallel()
	chatModel := &chatmodeltest.Model{ToolName: classifyIntentToolName, Arguments: `{"confidence":0.5}`}
	r, err := NewToolBasedRecognizer(chatModel)
	require.NoError(t, err)
	_, err = r.Recognize(context.Background(), &Request{Message: "hmm"})
	assert.Error(t, err)
}
