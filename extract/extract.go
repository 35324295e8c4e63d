package extract

import (
	"strings"

	"github.com/tbxark/stickeragent/types"
)

// Hint is the minimal context the extractor needs.
type Hint struct {
	HasName bool
	HasDate bool
}

// Extract pulls whatever sticker fields it can find out of message. It is a
// pure function of its inputs.
func Extract(message string, hint Hint) types.FieldExtractionResult {
	var result types.FieldExtractionResult
	msg := strings.TrimSpace(message)
	if msg == "" {
		return result
	}
	work := msg

	if sub := explicitTitlePattern.FindStringSubmatchIndex(msg); sub != nil {
		result.Title = CapitalizeWords(strings.TrimSpace(msg[sub[2]:sub[3]]))
		result.FoundSomething = result.Title != ""
		work = strings.TrimSpace(msg[:sub[0]] + msg[sub[1]:])
		work = strings.TrimSpace(leadingPunctPattern.ReplaceAllString(work, ""))
	} else if title, rest, ok := matchTitle(msg); ok {
		result.Title = title
		result.FoundSomething = true
		work = rest
	}

	names := extractNames(work, msg)
	if names.found() {
		result.Name1 = names.name1
		result.Name2 = names.name2
		result.NameSource = names.source
		result.NameNeedsConfirmation = names.source == types.NameSourceGeneric
		result.FoundSomething = true
	}

	if date, partial, ok := FindDate(work); ok {
		result.Date = date
		result.DateIsPartial = partial
		result.FoundSomething = true
	}

	if courtesy := findCourtesy(work); courtesy != "" {
		result.Courtesy = courtesy
		result.FoundSomething = true
	}

	if !result.FoundSomething && hint.HasName && hint.HasDate && !HasDate(work) && looksLikeCourtesyLine(work) {
		result.Courtesy = work
		result.FoundSomething = true
	}
	return result
}

// matchTitle returns the first title template match, title-cased. When the
// match starts the message, rest is the text after it.
func matchTitle(msg string) (title, rest string, ok bool) {
	rest = msg
	for _, p := range titlePatterns {
		loc := p.FindStringIndex(msg)
		if loc == nil {
			continue
		}
		matched := strings.TrimSpace(msg[loc[0]:loc[1]])
		if matched == "" {
			continue
		}
		if loc[0] <= 2 {
			rest = strings.TrimSpace(msg[loc[0]+len(matched):])
			rest = strings.TrimSpace(leadingPunctPattern.ReplaceAllString(rest, ""))
		}
		return CapitalizeWords(matched), rest, true
	}
	return "", msg, false
}

// MatchTitle reports the title template found in msg, if any.
func MatchTitle(msg string) (string, bool) {
	title, _, ok := matchTitle(strings.TrimSpace(msg))
	return title, ok
}

// FindDate returns the first date template match. partial is set for a bare
// month and year, which still needs an exact day.
func FindDate(text string) (date string, partial bool, ok bool) {
	for _, p := range datePatterns {
		sub := p.re.FindStringSubmatchIndex(text)
		if sub == nil {
			continue
		}
		start, end := sub[2*p.group], sub[2*p.group+1]
		return strings.TrimSpace(text[start:end]), p.partial, true
	}
	return "", false, false
}

func HasDate(text string) bool {
	for _, p := range datePatterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

func findCourtesy(text string) string {
	for _, p := range courtesyPatterns {
		sub := p.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		value := sub[1]
		if len(sub) > 2 && courtesyWordPattern.MatchString(strings.TrimSpace(sub[1])) && sub[2] != "" {
			value = sub[2]
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

func looksLikeCourtesyLine(text string) bool {
	n := len(text)
	if n < 3 || n >= 100 {
		return false
	}
	return !questionLikePattern.MatchString(text) && !shortReplyPattern.MatchString(text)
}
