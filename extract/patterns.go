package extract

import "regexp"

const monthAlternation = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var explicitTitlePattern = regexp.MustCompile(`(?i)\b(?:the\s+)?(?:title|heading)\s*(?:is\s*:?|:)\s*([^\n]+)$`)

const walimaVariants = `(walima|walimah|walimat|walmia|walmiah|wamima|wamimat|wamimah)`

// titlePatterns are tried in order; the whole match becomes the title.
var titlePatterns = []*regexp.Regexp{
	// wedding
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding\s+nikkah|wedding)?`),
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding\s+nikkah|wedding|marriage)?`),
	regexp.MustCompile(`(?i)(masha\s*['’]?allah)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding)?`),
	regexp.MustCompile(`(?i)(barakallah)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding)?`),
	regexp.MustCompile(`(?i)(with\s+prayers?)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding)?`),
	regexp.MustCompile(`(?i)(best\s+wishes)\s*(on\s+your\s+)?(wedding\s+ceremony|wedding)?`),
	regexp.MustCompile(`(?i)^(wedding\s+ceremony)$`),
	regexp.MustCompile(`(?i)\b(happy\s+(?:marriage|married)\s+life)\b`),
	regexp.MustCompile(`(?i)\b(wishing\s+you\s+a?\s*happy\s+(?:marriage|married)\s+life)\b`),
	// graduation
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?(graduation\s+ceremony|graduation)`),
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?(graduation\s+ceremony|graduation)`),
	// birthday
	regexp.MustCompile(`(?i)(happy\s+birthday)`),
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?(birthday\s+ceremony|birthday)`),
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?(birthday\s+ceremony|birthday)`),
	// naming
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?(naming\s+ceremony|naming)`),
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?(naming\s+ceremony|naming)`),
	// walima
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?(qur'?anic\s+)?` + walimaVariants),
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?(qur'?anic\s+)?` + walimaVariants),
	// freedom
	regexp.MustCompile(`(?i)(congratulations?)\s*(on\s+your\s+)?freedom`),
	regexp.MustCompile(`(?i)(alhamdulillah[i]?)\s*(on\s+your\s+)?freedom`),
	// fixed phrases
	regexp.MustCompile(`(?i)\b(conjugal\s+bliss)\b`),
	regexp.MustCompile(`(?i)\b(together\s+for\s*ever)\b`),
	regexp.MustCompile(`(?i)\b(toget+her\s+for\s*ever)\b`),
	regexp.MustCompile(`(?i)\b(beautiful\s+beginning)\b`),
	regexp.MustCompile(`(?i)\b(save\s+the\s+date)\b`),
	regexp.MustCompile(`(?i)\b(happy\s+wedding)\b`),
	regexp.MustCompile(`(?i)\b(thank[s]?\s+for\s+attending)\b`),
	regexp.MustCompile(`(?i)\b(thanks?\s+for\s+attending\s+our\s+wedding)\b`),
	regexp.MustCompile(`(?i)\b(thank\s+you\s+for\s+attending\s+our\s+wedding)\b`),
	regexp.MustCompile(`(?i)\b(with\s+love)\b`),
}

type datePattern struct {
	re *regexp.Regexp
	// group is the submatch holding the date; 0 means the whole match.
	group   int
	partial bool
}

// datePatterns are tried in order, most specific first.
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+` + monthAlternation + `\s*,?\s*(\d{4})`)},
	{re: regexp.MustCompile(`(?i)` + monthAlternation + `\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s*(\d{4})`)},
	{re: regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`)},
	{re: regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`)},
	{re: regexp.MustCompile(`((\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2}))(?:\D|$)`), group: 1},
	{re: regexp.MustCompile(`(?i)` + monthAlternation + `\s*,?\s+(\d{4})`), partial: true},
	{re: regexp.MustCompile(`(?i)(?:on\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+` + monthAlternation)},
	{re: regexp.MustCompile(`(?i)` + monthAlternation + `\s+(\d{1,2})(?:st|nd|rd|th)?`)},
}

// courtesyPatterns are tried in order. When the first group is the literal
// word "courtesy" the second group carries the text.
var courtesyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(courtesy)\b\s*(?::|\-|of|is)?\s*([\w\s]+(?:family|families)?)`),
	regexp.MustCompile(`(?i)((?:with love|from|by)[\s:]*(?:the\s+)?[\w\s]+(?:family|families))`),
	regexp.MustCompile(`(?i)(we invite you[\s\w]+)`),
	regexp.MustCompile(`(?i)^(the\s+[\w\s]+family)`),
	regexp.MustCompile(`(?i)^(family\s+of\s+[\w\s]+)`),
	regexp.MustCompile(`(?i)^(from\s+[\w\s]+)`),
	regexp.MustCompile(`(?i)(?:courtesy|c/o)\s*[:=]\s*(.+?)(?:\.|$)`),
}

var (
	courtesyWordPattern  = regexp.MustCompile(`(?i)^courtesy$`)
	questionLikePattern  = regexp.MustCompile(`(?i)\?|\b(what|who|which|how|when|where|need|provide|information|info|details|do\s+i\s+need)\b`)
	shortReplyPattern    = regexp.MustCompile(`(?i)^(yes|no|ok|hi|hello|hey|thanks)`)
	leadingPunctPattern  = regexp.MustCompile(`^[\s,;:\-]+`)
	titleKeywordPattern  = regexp.MustCompile(`(?i)\b(title|heading)\b`)
	weddingTailPattern   = regexp.MustCompile(`(?i)\bwedding\s+([A-Za-z][A-Za-z'-]+)\s*[.!]*\s*$`)
	whitespaceRunPattern = regexp.MustCompile(`\s+`)
)
