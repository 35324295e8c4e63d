package extract

import (
	"regexp"
	"strings"
)

// DefaultTemplateTitle is used when the user rejects a proposed title and no
// template title is configured.
const DefaultTemplateTitle = "Alhamdulillah On Your Wedding Ceremony"

// commonTitles are accepted without asking, even when they differ from the
// template title.
var commonTitles = []string{
	"congratulation on your wedding ceremony",
	"congratulations on your wedding ceremony",
	"alhamdulillahi on your wedding ceremony",
	"alhamdulillah on your wedding ceremony",
	"congratulation on your wedding",
	"congratulations on your wedding",
	"alhamdulillahi on your wedding",
	"alhamdulillah on your wedding",
	"happy marriage life",
	"happy married life",
	"thanks for attending our wedding",
	"thank you for attending our wedding",
	"conjugal bliss",
	"together forever",
	"together for ever",
}

func normalizeTitle(t string) string {
	return whitespaceRunPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(t)), " ")
}

// IsCommonTitle reports whether title is on the common-title allow-list,
// either exactly or as a substring in either direction.
func IsCommonTitle(title string) bool {
	normalized := normalizeTitle(title)
	if normalized == "" {
		return false
	}
	for _, common := range commonTitles {
		if normalized == common || strings.Contains(normalized, common) || strings.Contains(common, normalized) {
			return true
		}
	}
	return false
}

// TitlesDiffer compares titles ignoring case and whitespace runs. It is false
// when there is no template title.
func TitlesDiffer(userTitle, templateTitle string) bool {
	if strings.TrimSpace(templateTitle) == "" {
		return false
	}
	return normalizeTitle(userTitle) != normalizeTitle(templateTitle)
}

// TitleConflicts reports whether title must be confirmed before it replaces
// the template title.
func TitleConflicts(title, templateTitle string) bool {
	return TitlesDiffer(title, templateTitle) && !IsCommonTitle(title)
}

var (
	fallbackWordPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z'-]*$`)
	fallbackTrailingPunct = regexp.MustCompile(`[!.?]+$`)
	fallbackQuestionStart = regexp.MustCompile(`(?i)^(what|who|which|how|when|where|why|can|could|would|is|are|do|does|did)\b`)
)

var fallbackRejectWords = map[string]struct{}{
	"and": {}, "with": {}, "courtesy": {}, "from": {}, "by": {}, "family": {}, "families": {},
}

// occasionWords marks a short phrase as a heading rather than a name or chatter.
var occasionWords = map[string]struct{}{
	"wedding": {}, "marriage": {}, "nikkah": {}, "nikah": {}, "walima": {}, "walimah": {},
	"graduation": {}, "convocation": {}, "birthday": {}, "naming": {}, "party": {},
	"ceremony": {}, "celebration": {}, "anniversary": {}, "reception": {}, "engagement": {},
	"dinner": {}, "congratulations": {}, "congrats": {}, "happy": {}, "welcome": {},
	"farewell": {}, "retirement": {}, "housewarming": {}, "blessings": {}, "blessed": {},
	"forever": {}, "bliss": {}, "union": {}, "homecoming": {}, "send-off": {},
}

// FallbackTitle treats a short free-form phrase as a heading, e.g. "Graduation
// Party". It only fires for 2 to 5 plain words of which at least one names an
// occasion.
func FallbackTitle(message string) (string, bool) {
	msg := strings.TrimSpace(fallbackTrailingPunct.ReplaceAllString(strings.TrimSpace(message), ""))
	if len(msg) < 3 || len(msg) > 40 || fallbackQuestionStart.MatchString(msg) {
		return "", false
	}
	words := strings.Fields(msg)
	if len(words) < 2 || len(words) > 5 {
		return "", false
	}
	occasion := false
	for _, w := range words {
		if !fallbackWordPattern.MatchString(w) {
			return "", false
		}
		lower := strings.ToLower(w)
		if _, bad := fallbackRejectWords[lower]; bad {
			return "", false
		}
		if _, ok := occasionWords[lower]; ok {
			occasion = true
		}
	}
	if !occasion {
		return "", false
	}
	return CapitalizeWords(strings.Join(words, " ")), true
}
