package types

import (
	"strings"
	"time"
)

type Names struct {
	Name1 string `json:"name1" jsonschema:"description=First name of the couple"`
	Name2 string `json:"name2" jsonschema:"description=Second name of the couple"`
}

// ExtractedInfo holds the sticker fields collected so far. An empty string
// means the field has not been set yet.
type ExtractedInfo struct {
	Title    string `json:"title" jsonschema:"description=Heading printed at the top of the sticker"`
	Names    Names  `json:"names" jsonschema:"description=The couple or celebrants"`
	Date     string `json:"date" jsonschema:"description=Event date as the user wrote it"`
	Courtesy string `json:"courtesy" jsonschema:"description=Sign-off line such as the sending family"`
	Size     string `json:"size" jsonschema:"description=Print size in inches as WxH"`
}

func (i ExtractedInfo) Complete() bool {
	return i.Title != "" && i.Names.Name1 != "" && i.Date != "" && i.Courtesy != ""
}

// DialogueContext is a read-only projection of ExtractedInfo plus a few UI
// flags. It is rebuilt from scratch on every turn.
type DialogueContext struct {
	HasTitle    bool `json:"has_title"`
	HasName     bool `json:"has_name"`
	HasDate     bool `json:"has_date"`
	HasCourtesy bool `json:"has_courtesy"`
	HasPreview  bool `json:"has_preview"`
	HasPhoto    bool `json:"has_photo"`

	Title    string `json:"title,omitempty"`
	Name1    string `json:"name1,omitempty"`
	Name2    string `json:"name2,omitempty"`
	Date     string `json:"date,omitempty"`
	Courtesy string `json:"courtesy,omitempty"`
	Size     string `json:"size,omitempty"`
}

func NewDialogueContext(info ExtractedInfo, hasPreview, hasPhoto bool) DialogueContext {
	return DialogueContext{
		HasTitle:    info.Title != "",
		HasName:     info.Names.Name1 != "",
		HasDate:     info.Date != "",
		HasCourtesy: info.Courtesy != "",
		HasPreview:  hasPreview,
		HasPhoto:    hasPhoto,
		Title:       info.Title,
		Name1:       info.Names.Name1,
		Name2:       info.Names.Name2,
		Date:        info.Date,
		Courtesy:    info.Courtesy,
		Size:        info.Size,
	}
}

func (c DialogueContext) Complete() bool {
	return c.HasTitle && c.HasName && c.HasDate && c.HasCourtesy
}

// MissingFields lists the required text fields that are still empty, in
// canonical slot-filling order.
func (c DialogueContext) MissingFields() []FieldInfo {
	var missing []FieldInfo
	if !c.HasTitle {
		missing = append(missing, FieldTitle)
	}
	if !c.HasName {
		missing = append(missing, FieldNames)
	}
	if !c.HasDate {
		missing = append(missing, FieldDate)
	}
	if !c.HasCourtesy {
		missing = append(missing, FieldCourtesy)
	}
	return missing
}

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

var (
	FieldTitle    = FieldInfo{JSONPointer: "/title", DisplayName: "title/heading", Description: "Heading at the top of the sticker", Required: true}
	FieldNames    = FieldInfo{JSONPointer: "/names/name1", DisplayName: "names", Description: "The couple's names, e.g. (Aisha & Suleiman)", Required: true}
	FieldDate     = FieldInfo{JSONPointer: "/date", DisplayName: "date", Description: "Exact event date, e.g. 6th Jan 2026", Required: true}
	FieldCourtesy = FieldInfo{JSONPointer: "/courtesy", DisplayName: "courtesy", Description: "Who the sticker is from", Required: true}
)

// DisplayNames joins the display names of fields with ", ".
func DisplayNames(fields []FieldInfo) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.DisplayName)
	}
	return strings.Join(names, ", ")
}

type NameSource string

const (
	NameSourceBracket     NameSource = "bracket"
	NameSourceExplicit    NameSource = "explicit"
	NameSourceBrideGroom  NameSource = "bride_groom"
	NameSourceGeneric     NameSource = "generic"
	NameSourceWeddingOf   NameSource = "wedding_of"
	NameSourceWeddingTail NameSource = "wedding_tail"
)

// FieldExtractionResult is produced and consumed within a single turn.
type FieldExtractionResult struct {
	FoundSomething        bool       `json:"found_something"`
	Title                 string     `json:"title,omitempty"`
	Name1                 string     `json:"name1,omitempty"`
	Name2                 string     `json:"name2,omitempty"`
	NameSource            NameSource `json:"name_source,omitempty"`
	NameNeedsConfirmation bool       `json:"name_needs_confirmation,omitempty"`
	Date                  string     `json:"date,omitempty"`
	DateIsPartial         bool       `json:"date_is_partial,omitempty"`
	Courtesy              string     `json:"courtesy,omitempty"`
}

func (r FieldExtractionResult) HasNames() bool {
	return r.Name1 != "" || r.Name2 != ""
}

type ConfirmationKind string

const (
	ConfirmNone  ConfirmationKind = "none"
	ConfirmTitle ConfirmationKind = "title"
	ConfirmNames ConfirmationKind = "names"
)

// Confirmation is the active confirmation sub-dialogue. Only the fields
// matching Kind are meaningful.
type Confirmation struct {
	Kind         ConfirmationKind `json:"kind"`
	PendingTitle string           `json:"pending_title,omitempty"`
	PendingName1 string           `json:"pending_name1,omitempty"`
	PendingName2 string           `json:"pending_name2,omitempty"`
}

func (c Confirmation) Active() bool {
	return c.Kind != "" && c.Kind != ConfirmNone
}

type Sender string

const (
	SenderAI   Sender = "ai"
	SenderUser Sender = "user"
)

type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
)

const (
	ActionUpload          = "upload"
	ActionGeneratePreview = "generate_preview"
	ActionChooseMain      = "choose_main_"
	ActionBackgroundYes   = "bg_all_yes"
	ActionBackgroundNo    = "bg_all_no"
)

// Action is a button attached to a chat message. Type is an opaque token the
// UI maps to its own handler.
type Action struct {
	Type    string  `json:"type"`
	Label   string  `json:"label"`
	Variant Variant `json:"variant,omitempty"`
}

type ChatMessage struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Sender  Sender    `json:"sender"`
	Actions []Action  `json:"actions,omitempty"`
	Time    time.Time `json:"time"`
}

// AssistantDetails mirrors the sticker fields for the remote assistant; nil
// marks a field that is not set.
type AssistantDetails struct {
	Name1    *string `json:"name1"`
	Name2    *string `json:"name2"`
	Date     *string `json:"date"`
	Courtesy *string `json:"courtesy"`
	Size     *string `json:"size"`
}

// AssistantContext is the context bundle sent to the remote assistant.
type AssistantContext struct {
	Authenticated bool             `json:"authenticated"`
	HasPreview    bool             `json:"hasPreview"`
	Heading       *string          `json:"heading"`
	Details       AssistantDetails `json:"details"`
	HasPhoto      bool             `json:"hasPhoto"`
}

func NewAssistantContext(info ExtractedInfo, authenticated, hasPreview, hasPhoto bool) AssistantContext {
	return AssistantContext{
		Authenticated: authenticated,
		HasPreview:    hasPreview,
		Heading:       nullable(info.Title),
		Details: AssistantDetails{
			Name1:    nullable(info.Names.Name1),
			Name2:    nullable(info.Names.Name2),
			Date:     nullable(info.Date),
			Courtesy: nullable(info.Courtesy),
			Size:     nullable(info.Size),
		},
		HasPhoto: hasPhoto,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
