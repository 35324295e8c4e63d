package dialogue

import (
	"regexp"
	"strings"
)

const maxReplyLength = 220

var (
	codeFences     = regexp.MustCompile("(?s)```.*?```")
	mdHeadings     = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	mdBullets      = regexp.MustCompile(`(?m)^\s*[-*•]+\s+`)
	mdBold         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	badReply       = regexp.MustCompile("(?i)^(your reply|your response|<write|message here|here is|revised|\\{|\\[|json|structure|```)|(\\[new_name\\]|\\[name\\]|\\[date\\]|\\[message\\])")
	structuralLead = regexp.MustCompile("^\\s*(\\{|\\[|<|```)")
	formatTalk     = regexp.MustCompile(`(?i)\b(json|schema|format)\b`)
	imageRefusal   = regexp.MustCompile(`(?i)don\s*'?t\s+currently\s+support\s+adding\s+images?|text\s+only`)
)

// Sanitize strips markdown from a model reply and keeps at most its first two
// sentences, capped at 220 characters.
func Sanitize(text string) string {
	s := codeFences.ReplaceAllString(text, " ")
	s = mdHeadings.ReplaceAllString(s, "")
	s = mdBullets.ReplaceAllString(s, "")
	s = mdBold.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}
	s = strings.Join(firstSentences(s, 2), " ")
	if r := []rune(s); len(r) > maxReplyLength {
		s = string(r[:maxReplyLength])
	}
	return strings.TrimSpace(s)
}

// firstSentences splits after '.', '!' or '?' when followed by a space. The
// input has already been flattened to single spaces.
func firstSentences(s string, n int) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s)-1 && len(parts) < n; i++ {
		switch s[i] {
		case '.', '!', '?':
			if s[i+1] == ' ' {
				parts = append(parts, s[start:i+1])
				start = i + 2
			}
		}
	}
	if len(parts) < n && start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// Usable rejects replies that are empty, placeholder text or leaked
// structure instead of a chat message.
func Usable(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return !badReply.MatchString(text) && !structuralLead.MatchString(text) && !formatTalk.MatchString(text)
}

// RefusesImages matches replies where the model claims pictures are not
// supported.
func RefusesImages(text string) bool {
	return imageRefusal.MatchString(text)
}

// ImageRefusalOverride replaces a picture refusal with the real picture prompt.
func ImageRefusalOverride() Reply {
	return PicturePrompt(`You can add a picture → tap "Add Picture", or tap "Generate" to continue without one.`)
}
