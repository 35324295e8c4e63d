package testcases

import (
	"context"
	"strings"
	"testing"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/intent"
)

// TestAssistantFillsFreeFormNames sends a message the offline extractor
// cannot parse and expects the model to fill the names.
func TestAssistantFillsFreeFormNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flow, log := NewTestFlow(t)

	if _, err := flow.Send(ctx, "wedding ceremony"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	handled, err := flow.Send(ctx, "my fiancée Aisha and I, Suleiman, are getting married")
	if err != nil {
		t.Fatalf("second turn failed: %v", err)
	}
	info := flow.Session().Info()
	t.Logf("handled=%v reply=%q info=%+v", handled, log.last(), info)

	names := strings.ToLower(info.Names.Name1 + " " + info.Names.Name2)
	if !strings.Contains(names, "aisha") || !strings.Contains(names, "suleiman") {
		t.Errorf("expected both names to be captured, got %+v", info.Names)
	}
	if reply := log.last(); strings.Contains(reply, "**") || len(reply) > 220 {
		t.Errorf("reply was not sanitised: %q", reply)
	}
}

func TestAssistantNeverStoresMonthOnlyDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flow, log := NewTestFlow(t)

	for _, msg := range []string{"wedding ceremony", "Aisha & Suleiman", "sometime around January 2026 I think"} {
		if _, err := flow.Send(ctx, msg); err != nil {
			t.Fatalf("turn %q failed: %v", msg, err)
		}
	}
	if date := flow.Session().Info().Date; date != "" {
		t.Errorf("expected no date, got %q (reply %q)", date, log.last())
	}
	if stage := flow.Session().Stage(); stage != agent.StageCollectingDate {
		t.Errorf("expected stage %s, got %s", agent.StageCollectingDate, stage)
	}
}

func TestRecognizerLowConfidenceMessage(t *testing.T) {
	t.Parallel()
	recognizer, err := intent.NewToolBasedRecognizer(InitChatModel(t))
	if err != nil {
		t.Fatalf("failed to create recognizer: %v", err)
	}
	result, err := recognizer.Recognize(context.Background(), &intent.Request{Message: "can the sticker say the wedding is at 3pm on the 6th?"})
	if err != nil {
		t.Fatalf("recognize failed: %v", err)
	}
	t.Logf("intent=%s confidence=%.2f", result.Intent, result.Confidence)
	if result.Intent == "" {
		t.Errorf("expected a concrete intent")
	}
}
