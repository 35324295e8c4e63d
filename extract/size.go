package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultSize is applied when the user answers "default".
const DefaultSize = "4x4"

var (
	sizeReplyPattern  = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(?:x|×|by)\s*(\d+(?:\.\d+)?)$`)
	sizeInTextPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:x|by|×)\s*(\d+(?:\.\d+)?)(?:\s*(?:inch|inches|in))?`)
)

// ParseSizeReply accepts a message that is only a size ("3x3", "4 by 2.5")
// or the word "default".
func ParseSizeReply(message string) (string, bool) {
	msg := strings.TrimSpace(message)
	if strings.EqualFold(msg, "default") {
		return DefaultSize, true
	}
	sub := sizeReplyPattern.FindStringSubmatch(msg)
	if sub == nil {
		return "", false
	}
	return sub[1] + "x" + sub[2], true
}

// SizeFromText finds a size anywhere in text and formats it as "WxH in".
func SizeFromText(text string) (string, bool) {
	sub := sizeInTextPattern.FindStringSubmatch(text)
	if sub == nil {
		return "", false
	}
	w, err := strconv.ParseFloat(sub[1], 64)
	if err != nil {
		return "", false
	}
	h, err := strconv.ParseFloat(sub[2], 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + "x" + strconv.FormatFloat(h, 'f', -1, 64) + " in", true
}
