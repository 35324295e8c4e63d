package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tbxark/stickeragent/types"
)

const namePart = `([A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+)?)`

var (
	bracketPattern  = regexp.MustCompile(`[\[(]([^\])]+)[\])]`)
	explicitNames   = regexp.MustCompile(`(?i)\b(?:names?|couple(?:'s)?\s+names?)\s*(?:are|is|:)\s*([^\n]+)$`)
	brideThenGroom  = regexp.MustCompile(`(?i)\bbride\s*[:\-]\s*([^,\n]+)\s*(?:,|\s)\s*groom\s*[:\-]\s*([^\n]+)$`)
	groomThenBride  = regexp.MustCompile(`(?i)\bgroom\s*[:\-]\s*([^,\n]+)\s*(?:,|\s)\s*bride\s*[:\-]\s*([^\n]+)$`)
	genericNames    = regexp.MustCompile(`\b` + namePart + `\s*(?:&|and|with)\s*` + namePart + `\b`)
	weddingOfNames  = regexp.MustCompile(`(?i)(?:ceremony|wedding|marriage)\s+(?:of\s+)?` + namePart + `\s*(?:&|and|with)\s*` + namePart + `\b`)
	pairSeparator   = regexp.MustCompile(`(?i)^(.+?)\s*(?:&|\band\b)\s*(.+)$`)
	edgePunctLeft   = regexp.MustCompile(`^[\s"'“”‘’.,:;\-]+`)
	edgePunctRight  = regexp.MustCompile(`[\s"'“”‘’.,:;\-]+$`)
	leadingLabel    = regexp.MustCompile(`(?i)^(?:names?|couple(?:'s)?\s+names?|bride|groom)\s*[:\-]\s*`)
	leadingVerb     = regexp.MustCompile(`(?i)^(?:is|are|was|were)\s+`)
	leadingOccasion = regexp.MustCompile(`(?i)^(?:the\s+)?(?:wedding|ceremony|marriage)\s+`)
	danglingOn      = regexp.MustCompile(`(?i)\s+on\s*$`)
	onDatePhrase    = regexp.MustCompile(`(?i)\s+on\s+(?:\d{1,2}|jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`)
)

var nameStopWords = map[string]struct{}{
	"wedding":         {},
	"ceremony":        {},
	"marriage":        {},
	"anniversary":     {},
	"family":          {},
	"sticker":         {},
	"stiker":          {},
	"congratulations": {},
	"congratulation":  {},
	"alhamdulillah":   {},
	"mashaallah":      {},
	"mashallah":       {},
	"barakallah":      {},
	"nikkah":          {},
	"nikah":           {},
	"the":             {},
	"and":             {},
	"with":            {},
	"from":            {},
	"courtesy":        {},
	"on":              {},
	"of":              {},
}

type namePattern struct {
	re     *regexp.Regexp
	source types.NameSource
}

// namePatterns are tried in order after the bracket form.
var namePatterns = []namePattern{
	{re: explicitNames, source: types.NameSourceExplicit},
	{re: brideThenGroom, source: types.NameSourceBrideGroom},
	{re: groomThenBride, source: types.NameSourceBrideGroom},
	{re: genericNames, source: types.NameSourceGeneric},
	{re: weddingOfNames, source: types.NameSourceWeddingOf},
}

type nameMatch struct {
	name1, name2 string
	source       types.NameSource
}

func (m nameMatch) found() bool {
	return m.name1 != "" || m.name2 != ""
}

// extractNames runs the name templates against text. The lone "wedding
// <Word>" tail is only consulted when no template matched anywhere in full
// and full carries no explicit title or heading keyword.
func extractNames(text, full string) nameMatch {
	if m := namesFromBrackets(text); m.name1 != "" {
		return m
	}
	matchedAny := bracketPattern.MatchString(text)
	for _, p := range namePatterns {
		sub := p.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		matchedAny = true
		var m nameMatch
		if len(sub) > 2 && sub[2] != "" {
			m = nameMatch{name1: NormalizeName(sub[1]), name2: NormalizeName(sub[2])}
		} else {
			m = splitPair(sub[1])
		}
		if m.found() {
			m.source = p.source
			return m
		}
	}
	if matchedAny || titleKeywordPattern.MatchString(full) {
		return nameMatch{}
	}
	for _, p := range namePatterns {
		if p.re.MatchString(full) {
			return nameMatch{}
		}
	}
	if sub := weddingTailPattern.FindStringSubmatch(full); sub != nil {
		if name := NormalizeName(sub[1]); name != "" {
			return nameMatch{name1: name, source: types.NameSourceWeddingTail}
		}
	}
	return nameMatch{}
}

func namesFromBrackets(text string) nameMatch {
	sub := bracketPattern.FindStringSubmatch(text)
	if sub == nil {
		return nameMatch{}
	}
	m := splitPair(sub[1])
	m.source = types.NameSourceBracket
	return m
}

func splitPair(inner string) nameMatch {
	inner = strings.TrimSpace(inner)
	if sep := pairSeparator.FindStringSubmatch(inner); sep != nil {
		return nameMatch{name1: NormalizeName(sep[1]), name2: NormalizeName(sep[2])}
	}
	return nameMatch{name1: NormalizeName(inner)}
}

// NormalizeName cleans a captured name candidate. It returns "" when the
// candidate is not usable as a name.
func NormalizeName(value string) string {
	name := strings.TrimSpace(value)
	if name == "" {
		return ""
	}
	name = edgePunctLeft.ReplaceAllString(name, "")
	name = edgePunctRight.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	name = leadingLabel.ReplaceAllString(name, "")
	name = leadingVerb.ReplaceAllString(name, "")
	name = leadingOccasion.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	name = strings.TrimSpace(danglingOn.ReplaceAllString(name, ""))
	if loc := onDatePhrase.FindStringIndex(name); loc != nil {
		name = strings.TrimSpace(name[:loc[0]])
	}

	name = strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(name, " "))
	if name == "" {
		return ""
	}
	if _, stop := nameStopWords[strings.ToLower(name)]; stop {
		return ""
	}
	if utf8.RuneCountInString(name) < 2 {
		return ""
	}
	return CapitalizeWords(name)
}

// CapitalizeWords upper-cases the first letter of every space separated word
// and lower-cases the rest.
func CapitalizeWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
