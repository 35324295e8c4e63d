package agent

import (
	"github.com/tbxark/stickeragent/types"
)

// Spec describes the sticker record: the schema shown to the remote
// assistant and the summary handed to the renderer.
type Spec interface {
	JSONSchema() (string, error)

	MissingFacts(current types.ExtractedInfo) []types.FieldInfo

	Summary(current types.ExtractedInfo) string
}

var _ Spec = types.StickerSpec{}
