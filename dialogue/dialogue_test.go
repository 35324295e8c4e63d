package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/stickeragent/internal/chatmodeltest"
	"github.com/tbxark/stickeragent/types"
)

func TestDetectors(t *testing.T) {
	t.Parallel()
	complete := types.DialogueContext{HasTitle: true, HasName: true, HasDate: true}

	cases := []struct {
		name   string
		detect func(string) bool
		yes    []string
		no     []string
	}{
		{"greeting", IsGreeting, []string{"hello!", "Assalamualaikum", "good morning"}, []string{"hello there friend", "hi, add a photo"}},
		{"title only", IsTitleOnly, []string{"Wedding Ceremony", "congratulations on your graduation!", "Together forever"}, []string{"wedding of Aisha and Musa", "wedding 12 jun"}},
		{"names only", IsNamesOnly, []string{"Aisha & Musa", "Fatima Bello and Musa Sani"}, []string{"Aisha & Musa 12/06/2026", "Aisha & Musa wedding", "from: Aisha & Musa"}},
		{"date only", IsDateOnly, []string{"12th June, 2026", "June 12 2026", "12/06/2026"}, []string{"June 2026", "on 12th June 2026 please"}},
		{"affirmative", IsAffirmative, []string{"Yes!", "ok", "let's go"}, []string{"yes but change the date"}},
		{"negative", IsNegative, []string{"no", "not now.", "maybe later"}, []string{"no, the date is wrong"}},
		{"thanks", IsThanks, []string{"thank you", "Perfect!"}, []string{"thanks, now change the date"}},
		{"picture", IsPictureRequest, []string{"can I add a photo", "remember the picture"}, []string{"nice picture", "add the date"}},
		{"non wedding", IsNonWeddingRequest, []string{"make me a flyer", "I need a logo"}, []string{"wedding banner"}},
		{"pricing", IsPricingQuestion, []string{"is it free?", "how much does it cost"}, []string{"hello"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, msg := range tc.yes {
				assert.True(t, tc.detect(msg), msg)
			}
			for _, msg := range tc.no {
				assert.False(t, tc.detect(msg), msg)
			}
		})
	}

	assert.True(t, IsCourtesyOnly("The Bello Family", complete))
	assert.False(t, IsCourtesyOnly("The Bello Family", types.DialogueContext{HasTitle: true}))
	assert.False(t, IsCourtesyOnly("ok", complete))
	assert.False(t, IsCourtesyOnly("Aisha and Musa", complete))

	field, ok := ChangeRequestField("please change the date")
	require.True(t, ok)
	assert.Equal(t, "date", field)
	_, ok = ChangeRequestField("the date is fine")
	assert.False(t, ok)
}

func TestNextQuestionOrder(t *testing.T) {
	t.Parallel()
	var ctx types.DialogueContext
	assert.Contains(t, NextQuestion(ctx), "title/heading")
	ctx.HasTitle = true
	assert.Equal(t, "What are the couple's names?", NextQuestion(ctx))
	ctx.HasName = true
	assert.Equal(t, "What's the wedding date?", NextQuestion(ctx))
	ctx.HasDate = true
	assert.Contains(t, NextQuestion(ctx), "Who is the sticker from?")
	ctx.HasCourtesy = true
	assert.Equal(t, "All details received! Would you like to add a picture?", NextQuestion(ctx))

	// a filled later field never skips an earlier one
	assert.Contains(t, NextQuestion(types.DialogueContext{HasDate: true, HasCourtesy: true}), "title/heading")
}

func TestGreetingReply(t *testing.T) {
	t.Parallel()
	morning := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	night := time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)

	got := GreetingReply("hi", types.DialogueContext{HasTitle: true}, morning)
	assert.Equal(t, "Good morning! Please provide: names, date, courtesy.", got.Text)

	got = GreetingReply("Assalamualaikum", types.DialogueContext{}, night)
	assert.True(t, strings.HasPrefix(got.Text, "Wa alaikum assalam!"))

	full := types.DialogueContext{HasTitle: true, HasName: true, HasDate: true, HasCourtesy: true}
	assert.Equal(t, "Hello! You can generate your sticker now.", GreetingReply("hey", full, night).Text)
}

func TestReplyVariantsAreDeterministic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, HowAreYouReply("how are you").Text, HowAreYouReply("how are you").Text)
	assert.Equal(t, ThanksReply("thanks", true).Text, ThanksReply("  Thanks ", true).Text)
	assert.NotEqual(t, ThanksReply("thanks", true).Text, ThanksReply("thanks", false).Text)
}

func TestAffirmativeAndNegativeReplies(t *testing.T) {
	t.Parallel()
	full := types.DialogueContext{HasTitle: true, HasName: true, HasDate: true, HasCourtesy: true}

	reply, generate := AffirmativeReply(full)
	assert.True(t, generate)
	assert.Contains(t, reply.Text, "Generating")

	reply, generate = AffirmativeReply(types.DialogueContext{HasTitle: true})
	assert.False(t, generate)
	assert.Equal(t, "I still need: couple's names, wedding date, courtesy. 😊", reply.Text)

	_, generate = NegativeReply(full)
	assert.True(t, generate)
	full.HasPreview = true
	_, generate = NegativeReply(full)
	assert.False(t, generate)
}

func TestTitleResolvedPrefix(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `Got it! Using "Graduation Party" as your title.`, TitleResolvedPrefix("Graduation Party", true))
	assert.Equal(t, "Alright! Keeping the current title.", TitleResolvedPrefix("", false))
}

func TestExtractionSuccessReply(t *testing.T) {
	t.Parallel()
	found := types.FieldExtractionResult{FoundSomething: true, Title: "Wedding Ceremony", Name1: "Aisha", Name2: "Musa"}
	got := ExtractionSuccessReply(found, types.DialogueContext{HasTitle: true, HasName: true})
	assert.Equal(t, `Excellent! Got the title "Wedding Ceremony", names (Aisha & Musa). Please provide the date, courtesy.`, got.Text)

	partial := types.FieldExtractionResult{FoundSomething: true, Date: "January 2026", DateIsPartial: true}
	got = ExtractionSuccessReply(partial, types.DialogueContext{})
	assert.Equal(t, `Excellent! Got the date "January 2026". Please provide the title/heading, names, date, courtesy. Please share the exact day for "January 2026".`, got.Text)

	all := types.DialogueContext{HasTitle: true, HasName: true, HasDate: true, HasCourtesy: true}
	assert.Equal(t, "All details received!", ExtractionSuccessReply(found, all).Text)
}

func TestUploadPrompts(t *testing.T) {
	t.Parallel()
	reply := ChooseMainPrompt(3)
	require.Len(t, reply.Actions, 3)
	assert.Equal(t, "choose_main_0", reply.Actions[0].Type)
	assert.Equal(t, types.VariantPrimary, reply.Actions[0].Variant)
	assert.Equal(t, "Use Photo 3 as main", reply.Actions[2].Label)
	assert.Equal(t, types.VariantSecondary, reply.Actions[2].Variant)

	reply = BackgroundPrompt(1)
	assert.Contains(t, reply.Text, "Photo 2 as the MAIN picture")
	assert.Equal(t, types.ActionBackgroundYes, reply.Actions[0].Type)
	assert.Equal(t, types.ActionBackgroundNo, reply.Actions[1].Type)
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Hi there Great news. Second sentence!", Sanitize("## Hi there\n- **Great** news. Second sentence! Third one?"))
	assert.Equal(t, "Hello.", Sanitize("```json\n{}\n``` Hello."))
	assert.Equal(t, "", Sanitize("  \n "))
	assert.Len(t, []rune(Sanitize(strings.Repeat("a", 300))), 220)
	assert.Equal(t, "What date? 12.5 is fine.", Sanitize("What date? 12.5 is fine. Extra."))
}

func TestUsable(t *testing.T) {
	t.Parallel()
	assert.True(t, Usable("Sure, what is the wedding date?"))
	for _, bad := range []string{"", "Here is your reply", `{"message":"hi"}`, "Please use the JSON format", "Your names are [name]"} {
		assert.False(t, Usable(bad), bad)
	}
	assert.True(t, RefusesImages("Sorry, I don't currently support adding images."))
}

func TestToolBasedAssistant(t *testing.T) {
	t.Parallel()
	chatModel := &chatmodeltest.Model{
		ToolName:  replyToolName,
		Arguments: `{"message":"## Lovely!\n**Great** choice. Anything else? More text.","updates":{"name1":"Aisha"},"action":{"name":"none"}}`,
	}
	assistant, err := NewToolBasedAssistant(chatModel)
	require.NoError(t, err)

	req := &Request{Message: "it's for Aisha", Now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	decision, err := assistant.Assist(context.Background(), req)
	require.NoError(t, err)
	require.True(t, decision.Normalize())
	assert.Equal(t, "Lovely! Great choice.", decision.Message)
	require.NotNil(t, decision.Updates.Name1)
	assert.Equal(t, "Aisha", *decision.Updates.Name1)
	assert.Nil(t, decision.Updates.Date)

	calls := chatModel.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0][0].Content, replyToolName)
	assert.Contains(t, calls[0][1].Content, "# User message:\nit's for Aisha")
}

func TestToolBasedAssistantPlainText(t *testing.T) {
	t.Parallel()
	assistant, err := NewToolBasedAssistant(&chatmodeltest.Model{Content: "Sure thing."})
	require.NoError(t, err)
	decision, err := assistant.Assist(context.Background(), &Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", decision.Message)
	assert.Equal(t, ActionNone, decision.Action.Name)
	assert.True(t, decision.Updates.Empty())
}

func TestFailbackAssistant(t *testing.T) {
	t.Parallel()
	remote, err := NewToolBasedAssistant(&chatmodeltest.Model{ToolName: replyToolName, Arguments: `{"message":"Hi!"}`})
	require.NoError(t, err)

	decision, err := NewFailbackAssistant(OfflineAssistant{}, remote).Assist(context.Background(), &Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hi!", decision.Message)

	broken, err := NewToolBasedAssistant(&chatmodeltest.Model{Err: errors.New("rate limited")})
	require.NoError(t, err)
	_, err = NewFailbackAssistant(broken).Assist(context.Background(), &Request{Message: "hi"})
	assert.ErrorContains(t, err, "rate limited")

	_, err = NewFailbackAssistant().Assist(context.Background(), &Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrOffline)
}
