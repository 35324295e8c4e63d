package intent

import (
	"context"

	"github.com/tbxark/stickeragent/types"
)

type Intent string

const (
	Greeting      Intent = "greeting"
	ProvideInfo   Intent = "provide_info"
	Confirmation  Intent = "confirmation"
	ChangeRequest Intent = "change_request"
	Question      Intent = "question"
	Help          Intent = "help_request"
	Thanks        Intent = "thanks"
	Cancel        Intent = "cancel"
	Download      Intent = "download"
)

// Target fields reported in Entities.TargetField.
const (
	TargetPositive = "positive"
	TargetNegative = "negative"
	TargetNames    = "names"
	TargetDate     = "date"
	TargetCourtesy = "courtesy"
	TargetSize     = "size"
	TargetPicture  = "picture"
	TargetHeading  = "heading"
)

// Entities are existence-only flags; they never carry extracted values.
type Entities struct {
	HasNames    bool   `json:"has_names" jsonschema:"description=The message mentions the couple's names"`
	HasDate     bool   `json:"has_date" jsonschema:"description=The message mentions a date"`
	HasCourtesy bool   `json:"has_courtesy" jsonschema:"description=The message mentions a courtesy or sign-off line"`
	HasSize     bool   `json:"has_size" jsonschema:"description=The message mentions a print size"`
	TargetField string `json:"target_field,omitempty" jsonschema:"enum=positive,enum=negative,enum=names,enum=date,enum=courtesy,enum=size,enum=picture,enum=heading,description=Sign of a confirmation or the field a change_request targets"`
}

func (e Entities) Any() bool {
	return e.HasNames || e.HasDate || e.HasCourtesy || e.HasSize
}

type Result struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
	// Source is "heuristic" or "model".
	Source string `json:"source,omitempty"`
}

// Request carries the message to classify plus optional conversation context
// for recognizers that can use it.
type Request struct {
	Message    string
	Transcript []types.ChatMessage
	Context    types.DialogueContext
}

type Recognizer interface {
	Recognize(ctx context.Context, req *Request) (Result, error)
}
