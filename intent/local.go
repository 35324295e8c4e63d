package intent

import (
	"context"
	"regexp"
	"strings"
)

var (
	greetingExact    = regexp.MustCompile(`(?i)^(hi+|hello+|hey+|good morning|good afternoon|good evening|as-salamu|assalam\w*|salaa?m\w*|wa alaikum|helo+|hola|howdy|greetings)\b`)
	greetingAnywhere = regexp.MustCompile(`(?i)\b(hi there|hello there|good morning|good afternoon|good evening|assalam|salam|salaam)\b`)

	confirmationExact    = regexp.MustCompile(`(?i)^(yes|yeah|yep|sure|ok|okay|no|nope|nah|please|alright|fine|correct|right|definitely|absolutely|of course)$`)
	confirmationNegative = regexp.MustCompile(`(?i)^(no|nope|nah)$`)

	thanksPattern   = regexp.MustCompile(`(?i)\b(thank|thanks|thx|appreciate|grateful|awesome|great job|perfect|amazing|wonderful|beautiful|love it|looks great)\b`)
	changePattern   = regexp.MustCompile(`(?i)\b(change|update|edit|modify|replace|make it|set the|use|switch|different|alter|correct|fix)\b`)
	questionPattern = regexp.MustCompile(`(?i)(\?$|\b(what|how|when|where|who|why|which|can you|could you|would you|is it|are you|do you|does it)\b)`)
	helpPattern     = regexp.MustCompile(`(?i)\b(help|assist|guide|how do|how to|stuck|confused|don't understand|what should)\b`)
	cancelPattern   = regexp.MustCompile(`(?i)\b(cancel|start over|restart|reset|clear|new design|begin again|forget)\b`)
	downloadPattern = regexp.MustCompile(`(?i)\b(download|save|export|get the|send me)\b`)

	entityNames         = regexp.MustCompile(`(?i)\b([a-zA-Z][a-zA-Z'-]+)\s+(?:and|&|n)\s+([a-zA-Z][a-zA-Z'-]+)\b`)
	entityNamesBrackets = regexp.MustCompile(`\(([^)]+)\)`)
	entityDate          = regexp.MustCompile(`(?i)\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`)
	entityDateSlash     = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	entityCourtesy      = regexp.MustCompile(`(?i)\b(courtesy|from the|from .+ family)\b`)
	entitySize          = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:x|by)\s*\d+(?:\.\d+)?`)
)

type targetField struct {
	name string
	re   *regexp.Regexp
}

// targetFields is checked in order; the first hit names the field a change
// request is about.
var targetFields = []targetField{
	{TargetNames, regexp.MustCompile(`(?i)\b(name|names|couple|bride|groom)\b`)},
	{TargetDate, regexp.MustCompile(`(?i)\b(date|day|when)\b`)},
	{TargetCourtesy, regexp.MustCompile(`(?i)\b(courtesy|from|sender|family)\b`)},
	{TargetSize, regexp.MustCompile(`(?i)\b(size|dimension|inches|inch)\b`)},
	{TargetPicture, regexp.MustCompile(`(?i)\b(picture|photo|image|pic)\b`)},
	{TargetHeading, regexp.MustCompile(`(?i)\b(heading|title|text)\b`)},
}

type rule struct {
	intent     Intent
	confidence float64
	re         *regexp.Regexp
}

// rules after the confirmation check, evaluated in order.
var rules = []rule{
	{Greeting, 0.90, greetingAnywhere},
	{Thanks, 0.85, thanksPattern},
	{ChangeRequest, 0.85, changePattern},
	{Question, 0.80, questionPattern},
	{Help, 0.85, helpPattern},
	{Cancel, 0.90, cancelPattern},
	{Download, 0.85, downloadPattern},
}

const (
	defaultConfidence = 0.6
	entityConfidence  = 0.8
	sourceHeuristic   = "heuristic"
	sourceModel       = "model"
)

// Classify maps a message to a coarse intent. Greeting is checked before the
// yes/no vocabulary so a bare "hi" is never read as a confirmation. It never
// fails: a message nothing recognises is provide_info with base confidence.
func Classify(message string) Result {
	lower := strings.ToLower(strings.TrimSpace(message))
	result := Result{Source: sourceHeuristic}

	if greetingExact.MatchString(lower) {
		result.Intent, result.Confidence = Greeting, 0.95
		return result
	}
	if confirmationExact.MatchString(lower) {
		result.Intent, result.Confidence = Confirmation, 0.95
		result.Entities.TargetField = TargetPositive
		if confirmationNegative.MatchString(lower) {
			result.Entities.TargetField = TargetNegative
		}
		return result
	}
	for _, r := range rules {
		if !r.re.MatchString(lower) {
			continue
		}
		result.Intent, result.Confidence = r.intent, r.confidence
		if r.intent == ChangeRequest {
			result.Entities.TargetField = TargetField(lower)
		}
		return result
	}

	result.Intent, result.Confidence = ProvideInfo, defaultConfidence
	result.Entities = DetectEntities(message)
	if result.Entities.Any() {
		result.Confidence = entityConfidence
	}
	return result
}

// DetectEntities reports which kinds of field a message seems to mention.
// It only checks for presence; extraction is done elsewhere.
func DetectEntities(message string) Entities {
	return Entities{
		HasNames:    entityNames.MatchString(message) || entityNamesBrackets.MatchString(message),
		HasDate:     entityDate.MatchString(message) || entityDateSlash.MatchString(message),
		HasCourtesy: entityCourtesy.MatchString(message),
		HasSize:     entitySize.MatchString(message),
	}
}

// TargetField returns the field a change request refers to, or "".
func TargetField(message string) string {
	lower := strings.ToLower(message)
	for _, f := range targetFields {
		if f.re.MatchString(lower) {
			return f.name
		}
	}
	return ""
}

func IsPositive(message string) bool {
	r := Classify(message)
	return r.Intent == Confirmation && r.Entities.TargetField == TargetPositive
}

func IsNegative(message string) bool {
	return confirmationNegative.MatchString(strings.TrimSpace(message))
}

// LocalRecognizer adapts Classify to the Recognizer interface.
type LocalRecognizer struct{}

func NewLocalRecognizer() *LocalRecognizer {
	return &LocalRecognizer{}
}

func (LocalRecognizer) Recognize(_ context.Context, req *Request) (Result, error) {
	return Classify(req.Message), nil
}
