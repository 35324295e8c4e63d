package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tbxark/stickeragent/types"
)

var (
	scopeSupported   = regexp.MustCompile(`(?i)\b(wedding|nikah|nikkah|walimah|walima|bride|groom|graduation|birthday|naming\s+ceremony|naming|freedom|conjugal|together\s+forever|walimat)\b`)
	scopeUnsupported = regexp.MustCompile(`(?i)\b(flyer|poster|logo|business\s*card|banner|brochure|certificate|cv|resume|invitation|funeral|obituary|church|mosque\s+poster|campaign|political|real\s*estate)\b`)
	kickoffGreeting  = regexp.MustCompile(`(?i)^(hi|hello|hey|salam|assalamualaikum|good\s*(morning|afternoon|evening))\b`)
	kickoffAck       = regexp.MustCompile(`(?i)^(ok|okay|k|alright|sure|yes|yep|yeah)\b`)
	kickoffStart     = regexp.MustCompile(`(?i)\b(create|make|design|start)\b.*\b(wedding)\b.*\b(sticker|stiker)\b|\bwedding\s*(sticker|stiker)\b`)
)

// IsOutOfScope is the stricter scope check applied before a message is sent
// to the remote assistant.
func IsOutOfScope(msg string) bool {
	return scopeUnsupported.MatchString(msg) && !scopeSupported.MatchString(msg)
}

func OutOfScopeReply(ctx types.DialogueContext) Reply {
	followUp := "If you want, I can generate your wedding sticker now."
	if missing := ctx.MissingFields(); len(missing) > 0 {
		followUp = fmt.Sprintf("To help you with a wedding sticker, please provide the %s.", types.DisplayNames(missing))
	}
	return Reply{Text: "I'm only trained to design wedding stickers. " + followUp}
}

// IsKickoff matches openers like "hi", "ok" or "make a wedding sticker" that
// need no remote reply while nothing has been collected.
func IsKickoff(msg string) bool {
	m := strings.TrimSpace(msg)
	return kickoffGreeting.MatchString(m) || kickoffAck.MatchString(m) || kickoffStart.MatchString(m)
}

func KickoffReply() Reply {
	return Reply{Text: "Hi! 😊 Let's start. What title/heading should I put at the top? (Example: 'Wedding Ceremony')"}
}
