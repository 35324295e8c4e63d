package dialogue

import (
	"context"

	"github.com/tbxark/stickeragent/types"
)

// Reply is an assistant chat message before it gets an ID and timestamp.
type Reply struct {
	Text    string
	Actions []types.Action
}

func (r Reply) Message() types.ChatMessage {
	return types.ChatMessage{Text: r.Text, Sender: types.SenderAI, Actions: r.Actions}
}

type ActionName string

const (
	ActionNone            ActionName = "none"
	ActionGeneratePreview ActionName = "generate_preview"
	ActionSetSize         ActionName = "set_size"
	ActionAskUpload       ActionName = "ask_upload"
	ActionRegenerate      ActionName = "regenerate"
)

// Updates are the field values the remote assistant wants to set. A nil
// pointer leaves the field alone; an empty string clears it.
type Updates struct {
	Heading  *string `json:"heading,omitempty" jsonschema:"description=New title/heading of the sticker"`
	Name1    *string `json:"name1,omitempty" jsonschema:"description=First name of the couple"`
	Name2    *string `json:"name2,omitempty" jsonschema:"description=Second name of the couple"`
	Date     *string `json:"date,omitempty" jsonschema:"description=Event date as the user wrote it"`
	Courtesy *string `json:"courtesy,omitempty" jsonschema:"description=Courtesy line such as the sending family"`
	Size     *string `json:"size,omitempty" jsonschema:"description=Print size in inches as WxH"`
}

func (u Updates) Empty() bool {
	return u.Heading == nil && u.Name1 == nil && u.Name2 == nil && u.Date == nil && u.Courtesy == nil && u.Size == nil
}

type Action struct {
	Name ActionName `json:"name" jsonschema:"enum=none,enum=generate_preview,enum=set_size,enum=ask_upload,enum=regenerate,description=Optional UI action to run after the reply"`
	// Size is used by set_size.
	Size string `json:"size,omitempty" jsonschema:"description=Size for set_size such as 3x3"`
}

// Decision is what the remote assistant returns for one user message.
type Decision struct {
	Message string  `json:"message" jsonschema:"required,description=Short friendly reply of at most two sentences without markdown"`
	Updates Updates `json:"updates" jsonschema:"description=Sticker fields to set from the user's message"`
	Action  Action  `json:"action" jsonschema:"description=Follow-up action"`
}

type Request = types.AssistantRequest

// Assistant is the remote AI collaborator consulted for messages the offline
// engine could not handle.
type Assistant interface {
	Assist(ctx context.Context, req *Request) (*Decision, error)
}
