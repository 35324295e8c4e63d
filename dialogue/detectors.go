package dialogue

import (
	"regexp"
	"strings"

	"github.com/tbxark/stickeragent/types"
)

var titleOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(alhamdulillah[i]?\s*(on\s+your\s+)?(wedding\s+ceremony|wedding\s+nikkah|wedding|graduation|birthday|naming\s+ceremony)?)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(congratulations?\s*(on\s+your\s+)?(wedding\s+ceremony|wedding\s+nikkah|wedding|graduation\s+ceremony|graduation|birthday|naming\s+ceremony|freedom)?)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(wedding\s+ceremony|wedding\s+nikkah|wedding)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(graduation\s+ceremony|graduation)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(happy\s+birthday|birthday\s+ceremony|birthday)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(naming\s+ceremony|naming)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(quranic\s+walimat|walimat)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(nikkah\s+ceremony|nikkah)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(conjugal\s+bliss)[\s!.?]*$`),
	regexp.MustCompile(`(?i)^(together\s+for\s*ever)[\s!.?]*$`),
}

var (
	looseNamePair    = regexp.MustCompile(`(?i)\b[A-Z][a-z]+\s*(&|and|with)\s*[A-Z][a-z]+\b`)
	looseDayMonth    = regexp.MustCompile(`(?i)\d{1,2}(st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	namesOnlyPattern = regexp.MustCompile(`(?i)^\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*(&|and|with)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s*$`)
	titleWords       = regexp.MustCompile(`(?i)(wedding|graduation|birthday|naming|ceremony|congratulation|alhamdulillah|nikkah)`)
	anyDate          = regexp.MustCompile(`(?i)\d{1,2}(st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	courtesyLabel    = regexp.MustCompile(`(?i)(courtesy|from|by)\s*:`)
)

var dateOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*\d{1,2}(?:st|nd|rd|th)?\s+(?:january|february|march|april|may|june|july|august|september|october|november|december),?\s+\d{4}\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\s*$`),
	regexp.MustCompile(`(?i)^\s*\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\s*$`),
}

var (
	greetingPattern   = regexp.MustCompile(`(?i)^(hi+|hello+|hey+|hiya|yo|good\s*(morning|afternoon|evening|day)|assalamualaikum|salam|greetings?)[\s!.?]*$`)
	whoAreYouPattern  = regexp.MustCompile(`(?i)\b(who\s*(are\s*you|r\s*u|is\s*this)|what\s*(are\s*you|r\s*u|is\s*this(\s*app|\s*thing)?)|what\s*do\s*you\s*do|ur\s*name|your\s*name|introduce\s*yourself|tell\s*me\s*about\s*(you|yourself)|wats?\s*(dis|this))\b`)
	howAreYouPattern  = regexp.MustCompile(`(?i)\b(how\s*(are\s*you|r\s*u|u\s*doing|ya\s*doing)|how'?s\s*(it\s*going|things|life|everything)|what'?s\s*(up|good|new)|sup|wassup|how\s*do\s*you\s*do)\b`)
	capabilityPattern = regexp.MustCompile(`(?i)\b(what\s*can\s*you\s*(do|make|create|help)|wha?t\s*(u|you)\s*do|your\s*capabilities|features|how\s*does\s*(this|it)\s*work|wat\s*can\s*u\s*do|show\s*me\s*what\s*you\s*can)\b`)
	unsupportedDesign = regexp.MustCompile(`(?i)\b(flyer|poster|logo|banner|business\s*card|brochure|menu|certificate|resume|cv|letterhead|book\s*cover|album|baby\s*shower|funeral)\b`)
	supportedDesign   = regexp.MustCompile(`(?i)\b(wedding|graduation|birthday|naming|freedom|conjugal|together|walimat|nikkah)\b`)
	vagueDesign       = regexp.MustCompile(`(?i)\b(beautiful|nice|pretty|good|amazing|lovely|stunning|cool|awesome)\s*(design|sticker|thing|something|one)?\b`)
	vagueExclusions   = regexp.MustCompile(`(?i)(name|bride|groom|date|wedding)`)
	affirmativeWords  = regexp.MustCompile(`(?i)^(yes|yeah|yep|yup|sure|ok|okay|alright|definitely|of course|absolutely|let'?s go|let'?s do it)[\s!.?]*$`)
	changeRequest     = regexp.MustCompile(`(?i)(?:change|update|edit|modify)\s+(?:the\s+)?(\w+)`)
	negativeWords     = regexp.MustCompile(`(?i)^(no|nope|nah|not now|not yet|maybe later|later|never mind|nevermind)[\s!.?]*$`)
	thanksWords       = regexp.MustCompile(`(?i)^(thanks?|thank you|thx|ty|cheers|appreciate it|awesome|great|perfect|cool|nice|love it|beautiful)[\s!.?]*$`)
	helpPattern       = regexp.MustCompile(`(?i)\b(help|help\s*me|i\s*need\s*help|instructions?|guide\s*me|how\s*to\s*use|how\s*does\s*this\s*work|what\s*can\s*you\s*do|what\s*(?:info|information|details)\s*do\s*i\s*need|what\s*do\s*i\s*need\s*(?:to\s*)?(?:provide|send|enter|write)|(?:who|what)\s*(?:info|information)\s*do\s*i\s*need\s*(?:to\s*)?(?:provide|send|enter|write))\b`)
	startPattern      = regexp.MustCompile(`(?i)\b(i\s*want\s*to\s*(start|begin|create|make)|let'?s\s*(start|begin|go|do\s*it)|create\s*(a\s*)?(wedding\s*)?(sticker)?|make\s*(a\s*)?(wedding\s*)?(sticker)?|new\s*sticker|start\s*over)\b`)
	startExclusions   = regexp.MustCompile(`(?i)(name|bride|groom|\d)`)
	pricingPattern    = regexp.MustCompile(`(?i)\b(is\s*it\s*free|how\s*much|cost|price|pay|payment|subscription|premium)\b`)
	confusedPattern   = regexp.MustCompile(`(?i)\b(i\s*don'?t\s*(understand|get\s*it|know)|confused|what\s*do\s*i\s*do|how\s*do\s*i\s*start|what\s*should\s*i\s*say|what\s*now)\b`)
	pictureWords      = regexp.MustCompile(`(?i)(\bphoto\b|\bpicture\b|\bimage\b)`)
	pictureVerbs      = regexp.MustCompile(`(?i)(upload|add|attach|include|put|send|share|don'?t\s+forget|remember)`)
	salamPattern      = regexp.MustCompile(`(?i)salam`)
)

// IsTitleOnly reports a message that is nothing but a heading such as
// "wedding ceremony". Messages that also mention names or a day are left to
// the extractor.
func IsTitleOnly(msg string) bool {
	if looseNamePair.MatchString(msg) || looseDayMonth.MatchString(msg) {
		return false
	}
	trimmed := strings.TrimSpace(msg)
	for _, p := range titleOnlyPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// IsNamesOnly requires the whole message to be a two-name pair with no
// title, date or courtesy words anywhere.
func IsNamesOnly(msg string) bool {
	if titleWords.MatchString(msg) || anyDate.MatchString(msg) || courtesyLabel.MatchString(msg) {
		return false
	}
	return namesOnlyPattern.MatchString(strings.TrimSpace(msg))
}

func IsDateOnly(msg string) bool {
	trimmed := strings.TrimSpace(msg)
	for _, p := range dateOnlyPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// IsCourtesyOnly treats a short line as the courtesy once title, names and
// date are all known.
func IsCourtesyOnly(msg string, ctx types.DialogueContext) bool {
	if !ctx.HasTitle || !ctx.HasName || !ctx.HasDate {
		return false
	}
	if looseNamePair.MatchString(msg) || looseDayMonth.MatchString(msg) {
		return false
	}
	n := len(strings.TrimSpace(msg))
	return n >= 3 && n < 60
}

func IsGreeting(msg string) bool { return greetingPattern.MatchString(msg) }
func IsWhoAreYou(msg string) bool { return whoAreYouPattern.MatchString(msg) }
func IsHowAreYou(msg string) bool { return howAreYouPattern.MatchString(msg) }
func IsCapabilityQuestion(msg string) bool { return capabilityPattern.MatchString(msg) }
func IsAffirmative(msg string) bool { return affirmativeWords.MatchString(strings.TrimSpace(msg)) }
func IsNegative(msg string) bool { return negativeWords.MatchString(strings.TrimSpace(msg)) }
func IsThanks(msg string) bool { return thanksWords.MatchString(strings.TrimSpace(msg)) }
func IsHelp(msg string) bool { return helpPattern.MatchString(msg) }
func IsPricingQuestion(msg string) bool { return pricingPattern.MatchString(msg) }
func IsConfused(msg string) bool { return confusedPattern.MatchString(msg) }

// IsNonWeddingRequest matches requests for designs the assistant does not
// make, unless a supported occasion is also mentioned.
func IsNonWeddingRequest(msg string) bool {
	return unsupportedDesign.MatchString(msg) && !supportedDesign.MatchString(msg)
}

func IsVagueDesignRequest(msg string) bool {
	return vagueDesign.MatchString(msg) && !vagueExclusions.MatchString(msg)
}

func IsStartRequest(msg string) bool {
	return startPattern.MatchString(msg) && !startExclusions.MatchString(msg)
}

// ChangeRequestField returns the word after "change/update/edit/modify".
func ChangeRequestField(msg string) (string, bool) {
	sub := changeRequest.FindStringSubmatch(msg)
	if sub == nil || sub[1] == "" {
		return "", false
	}
	return strings.ToLower(sub[1]), true
}

// IsPictureRequest matches "add a photo", "upload the picture" and similar.
func IsPictureRequest(msg string) bool {
	return pictureWords.MatchString(msg) && pictureVerbs.MatchString(msg)
}
