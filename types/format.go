package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// AssistantRequest is everything the remote assistant is given for one turn.
type AssistantRequest struct {
	Context       AssistantContext
	Transcript    []ChatMessage
	Message       string
	Intent        string
	MissingFields []FieldInfo
	StateSchema   string
	Now           time.Time
}

func formatDetailsSection(ctx AssistantContext) string {
	var buf strings.Builder
	buf.WriteString("# Current details:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	_ = table.Append("heading", deref(ctx.Heading))
	_ = table.Append("name1", deref(ctx.Details.Name1))
	_ = table.Append("name2", deref(ctx.Details.Name2))
	_ = table.Append("date", deref(ctx.Details.Date))
	_ = table.Append("courtesy", deref(ctx.Details.Courtesy))
	_ = table.Append("size", deref(ctx.Details.Size))
	_ = table.Render()
	return buf.String()
}

func formatMissingFieldsSection(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Pointer", "Description")
	for _, field := range fields {
		_ = table.Append(field.DisplayName, field.JSONPointer, field.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatTranscript renders messages as "User:" / "Assistant:" lines.
func FormatTranscript(messages []ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		role := "Assistant"
		if m.Sender == SenderUser {
			role = "User"
		}
		lines = append(lines, role+": "+text)
	}
	return strings.Join(lines, "\n")
}

func FormatAssistantRequest(req *AssistantRequest) (string, error) {
	contextJSON, err := sonic.Marshal(req.Context)
	if err != nil {
		return "", err
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	sections := []string{
		fmt.Sprintf("# Current Date: \n %s", now.Format(time.RFC3339)),
		fmt.Sprintf("# Context JSON:\n```json\n%s\n```", string(contextJSON)),
	}
	if req.StateSchema != "" {
		sections = append(sections, fmt.Sprintf("# Details schema JSON:\n```json\n%s\n```", req.StateSchema))
	}
	sections = append(sections, formatDetailsSection(req.Context))
	if s := formatMissingFieldsSection(req.MissingFields); s != "" {
		sections = append(sections, s)
	}
	if t := FormatTranscript(req.Transcript); t != "" {
		sections = append(sections, fmt.Sprintf("# Conversation so far:\n%s", t))
	}
	if req.Intent != "" {
		sections = append(sections, fmt.Sprintf("# Detected intent:\n%s", req.Intent))
	}
	sections = append(sections, fmt.Sprintf("# User message:\n%s", req.Message))
	return strings.Join(sections, "\n\n"), nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
