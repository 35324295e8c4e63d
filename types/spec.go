package types

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
)

// StickerSpec describes the sticker record to the remote assistant and the
// renderer.
type StickerSpec struct{}

func (StickerSpec) JSONSchema() (string, error) {
	schema := jsonschema.Reflect(&ExtractedInfo{})
	schema.Title = "Sticker details"
	schema.Description = "Text printed on a celebration sticker: a heading, the couple's names, the event date, a courtesy line and the print size."
	schemaBytes, err := sonic.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}

func (StickerSpec) MissingFacts(current ExtractedInfo) []FieldInfo {
	return NewDialogueContext(current, false, false).MissingFields()
}

// Summary is the one-line description handed to the renderer, e.g.
// "Wedding Ceremony, (Aisha & Musa), 6th Jan 2026, courtesy: The Bello Family".
func (StickerSpec) Summary(current ExtractedInfo) string {
	var parts []string
	if current.Title != "" {
		parts = append(parts, current.Title)
	}
	switch {
	case current.Names.Name1 != "" && current.Names.Name2 != "":
		parts = append(parts, fmt.Sprintf("(%s & %s)", current.Names.Name1, current.Names.Name2))
	case current.Names.Name1 != "":
		parts = append(parts, fmt.Sprintf("(%s)", current.Names.Name1))
	}
	if current.Date != "" {
		parts = append(parts, current.Date)
	}
	if current.Courtesy != "" {
		parts = append(parts, "courtesy: "+current.Courtesy)
	}
	return strings.Join(parts, ", ")
}
