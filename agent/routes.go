package agent

import (
	"log/slog"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/extract"
	"github.com/tbxark/stickeragent/intent"
	"github.com/tbxark/stickeragent/types"
)

// route is one entry of the ordered dispatch table. handle may decline by
// returning false, and dispatch moves on to the next route.
type route struct {
	name   string
	match  func(s *Session, t *turn) bool
	handle func(s *Session, t *turn) bool
}

func always(*Session, *turn) bool { return true }

func matchText(detect func(string) bool) func(*Session, *turn) bool {
	return func(_ *Session, t *turn) bool { return detect(t.msg) }
}

func reply(build func(t *turn) dialogue.Reply) func(*Session, *turn) bool {
	return func(_ *Session, t *turn) bool {
		t.say(build(t))
		return true
	}
}

// routes is the priority order of every offline handler. Earlier entries
// win; the X-only detectors come after the conversational shortcuts and
// before general extraction.
var routes []route

func init() {
	routes = []route{
		{"picture_request", matchText(dialogue.IsPictureRequest), reply(func(*turn) dialogue.Reply { return dialogue.PictureRequestReply() })},
		{"greeting", matchText(dialogue.IsGreeting), func(s *Session, t *turn) bool {
			t.say(dialogue.GreetingReply(t.msg, t.ctx, s.opts.now()))
			return true
		}},
		{"who_are_you", matchText(dialogue.IsWhoAreYou), reply(func(*turn) dialogue.Reply { return dialogue.WhoAreYouReply() })},
		{"how_are_you", matchText(dialogue.IsHowAreYou), reply(func(t *turn) dialogue.Reply { return dialogue.HowAreYouReply(t.msg) })},
		{"capability", matchText(dialogue.IsCapabilityQuestion), reply(func(*turn) dialogue.Reply { return dialogue.CapabilityReply() })},
		{"non_wedding", matchText(dialogue.IsNonWeddingRequest), reply(func(*turn) dialogue.Reply { return dialogue.NonWeddingReply() })},
		{"vague_design", matchText(dialogue.IsVagueDesignRequest), reply(func(*turn) dialogue.Reply { return dialogue.VagueDesignReply() })},
		{"affirmative", matchText(dialogue.IsAffirmative), (*Session).handleAffirmative},
		{"size", matchSize, handleSize},
		{"change_request", matchChange, handleChange},
		{"negative", matchText(dialogue.IsNegative), (*Session).handleNegative},
		{"thanks", matchText(dialogue.IsThanks), reply(func(t *turn) dialogue.Reply { return dialogue.ThanksReply(t.msg, t.ctx.HasPreview) })},
		{"help", matchText(dialogue.IsHelp), reply(func(*turn) dialogue.Reply { return dialogue.HelpReply() })},
		{"start", matchText(dialogue.IsStartRequest), reply(func(*turn) dialogue.Reply { return dialogue.StartReply() })},
		{"pricing", matchText(dialogue.IsPricingQuestion), reply(func(*turn) dialogue.Reply { return dialogue.PricingReply() })},
		{"confused", matchText(dialogue.IsConfused), reply(func(*turn) dialogue.Reply { return dialogue.ConfusedReply() })},
		{"title_only", matchText(dialogue.IsTitleOnly), (*Session).handleTitleOnly},
		{"names_only", matchText(dialogue.IsNamesOnly), (*Session).handleNamesOnly},
		{"date_only", matchText(dialogue.IsDateOnly), (*Session).handleDateOnly},
		{"courtesy_only", func(_ *Session, t *turn) bool { return dialogue.IsCourtesyOnly(t.msg, t.ctx) }, (*Session).handleCourtesyOnly},
		{"fallback_title", func(_ *Session, t *turn) bool { return !t.ctx.HasTitle }, (*Session).handleFallbackTitle},
		{"extraction", always, (*Session).handleExtraction},
	}
}

// dispatchLocked runs the confirmation sub-dialogue if one is open, else
// the route table.
func (s *Session) dispatchLocked(t *turn) bool {
	if s.confirmation.Active() {
		slog.Debug("Routing to confirmation", "session", s.id, "kind", s.confirmation.Kind)
		s.handleConfirmationLocked(t)
		return true
	}
	for _, r := range routes {
		if !r.match(s, t) {
			continue
		}
		if r.handle(s, t) {
			slog.Debug("Routed message", "session", s.id, "route", r.name, "token", t.token)
			return true
		}
	}
	classified := intent.Classify(t.msg)
	slog.Debug("Unhandled message", "session", s.id, "intent", classified.Intent, "confidence", classified.Confidence)
	return false
}

func (s *Session) handleAffirmative(t *turn) bool {
	switch {
	case s.awaitingPicture:
		s.awaitingPicture = false
		t.say(dialogue.PictureUploadReply())
	case s.awaitingBackground:
		s.backgroundDecisionLocked(t, true)
	default:
		r, generate := dialogue.AffirmativeReply(t.ctx)
		if generate {
			s.generateLocked(t, r)
		} else {
			t.say(r)
		}
	}
	return true
}

func (s *Session) handleNegative(t *turn) bool {
	switch {
	case s.awaitingBackground:
		s.backgroundDecisionLocked(t, false)
	default:
		s.awaitingPicture = false
		r, generate := dialogue.NegativeReply(t.ctx)
		if generate {
			s.generateLocked(t, r)
		} else {
			t.say(r)
		}
	}
	return true
}

func matchSize(_ *Session, t *turn) bool {
	_, ok := extract.ParseSizeReply(t.msg)
	return ok
}

func handleSize(s *Session, t *turn) bool {
	size, _ := extract.ParseSizeReply(t.msg)
	s.setSizeLocked(t, size)
	return true
}

func matchChange(_ *Session, t *turn) bool {
	_, ok := dialogue.ChangeRequestField(t.msg)
	return ok
}

func handleChange(_ *Session, t *turn) bool {
	field, _ := dialogue.ChangeRequestField(t.msg)
	t.say(dialogue.ChangeReply(field))
	return true
}

// proposeTitleLocked commits title or, when it conflicts with the template
// title, opens the title confirmation.
func (s *Session) proposeTitleLocked(t *turn, title string) (confirming bool) {
	if extract.TitleConflicts(title, s.opts.templateTitle) {
		s.confirmation = types.Confirmation{Kind: types.ConfirmTitle, PendingTitle: title}
		t.say(dialogue.TitleConfirmPrompt(title))
		return true
	}
	s.info.Title = title
	return false
}

func (s *Session) handleTitleOnly(t *turn) bool {
	res := extract.Extract(t.msg, s.hint())
	if res.Title == "" {
		return false
	}
	if s.proposeTitleLocked(t, res.Title) {
		return true
	}
	s.commitTitleLocked(t, res.Title)
	return true
}

func (s *Session) commitTitleLocked(t *turn, title string) {
	s.info.Title = title
	ctx := s.contextLocked()
	if ctx.Complete() {
		t.say(s.readyLocked(`Great! Using "`+title+`" as your title.`, "Would you like to add a picture?"))
		return
	}
	t.say(dialogue.TitleOnlyReply(title, ctx))
}

func (s *Session) handleNamesOnly(t *turn) bool {
	res := extract.Extract(t.msg, s.hint())
	if res.Name1 == "" || res.Name2 == "" {
		return false
	}
	s.applyLocked(res, true, true)
	ctx := s.contextLocked()
	if ctx.Complete() {
		t.say(s.readyLocked(dialogue.NamesConfirmedPrefix(res.Name1, res.Name2), "Would you like to add a picture?"))
		return true
	}
	t.say(dialogue.NamesOnlyReply(res.Name1, res.Name2, ctx))
	return true
}

func (s *Session) handleDateOnly(t *turn) bool {
	res := extract.Extract(t.msg, s.hint())
	if res.Date == "" || res.DateIsPartial {
		return false
	}
	s.applyLocked(res, true, true)
	ctx := s.contextLocked()
	if ctx.Complete() {
		t.say(s.readyLocked("Got the date: "+res.Date+".", "Would you like to add a picture?"))
		return true
	}
	t.say(dialogue.DateOnlyReply(res.Date, ctx))
	return true
}

func (s *Session) handleCourtesyOnly(t *turn) bool {
	s.info.Courtesy = t.msg
	r, askPicture := dialogue.CourtesyOnlyReply(t.msg, t.ctx.HasPhoto)
	if askPicture {
		s.awaitingPicture = true
	} else {
		s.awaitingSize = true
	}
	t.say(r)
	return true
}

// handleFallbackTitle treats a short occasion phrase such as "Graduation
// Party" as the heading when nothing else was recognised.
func (s *Session) handleFallbackTitle(t *turn) bool {
	if extract.Extract(t.msg, s.hint()).FoundSomething {
		return false
	}
	title, ok := extract.FallbackTitle(t.msg)
	if !ok {
		return false
	}
	if s.proposeTitleLocked(t, title) {
		return true
	}
	s.commitTitleLocked(t, title)
	return true
}

func (s *Session) handleExtraction(t *turn) bool {
	res := extract.Extract(t.msg, s.hint())
	if !res.FoundSomething {
		return false
	}

	if res.Title != "" && extract.TitleConflicts(res.Title, s.opts.templateTitle) {
		s.applyLocked(res, false, true)
		s.confirmation = types.Confirmation{Kind: types.ConfirmTitle, PendingTitle: res.Title}
		t.say(dialogue.TitleConfirmPrompt(res.Title))
		return true
	}

	if res.NameNeedsConfirmation && res.Name1 != "" {
		s.applyLocked(res, true, false)
		s.confirmation = types.Confirmation{
			Kind:         types.ConfirmNames,
			PendingName1: res.Name1,
			PendingName2: res.Name2,
		}
		t.say(dialogue.NameConfirmPrompt(res.Name1, res.Name2))
		return true
	}

	s.applyLocked(res, true, true)
	// without names there is nothing to build on; let the assistant try
	if s.info.Names.Name1 == "" {
		return false
	}
	ctx := s.contextLocked()
	if ctx.Complete() && !ctx.HasPreview {
		t.say(s.readyLocked("", "All set! Add a picture?"))
		return true
	}
	t.say(dialogue.ExtractionSuccessReply(res, ctx))
	return true
}
