package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/extract"
	"github.com/tbxark/stickeragent/patch"
	"github.com/tbxark/stickeragent/types"
)

// decisionPaths are the fields the remote assistant may write.
var decisionPaths = patch.NewAllowedPaths("/title", "/names/name1", "/names/name2", "/date", "/courtesy", "/size")

// guard answers openers and unsupported designs locally before anything is
// sent to the remote assistant. It reports whether it replied.
func (s *Session) guard(token uint64, msg string) bool {
	s.mu.Lock()
	if s.closed || s.generation != token {
		s.mu.Unlock()
		return false
	}
	ctx := s.contextLocked()
	t := &turn{msg: msg, ctx: ctx, token: token}
	switch {
	case !ctx.HasTitle && !ctx.HasName && !ctx.HasDate && !ctx.HasCourtesy && dialogue.IsKickoff(msg):
		t.say(dialogue.KickoffReply())
	case dialogue.IsOutOfScope(msg):
		t.say(dialogue.OutOfScopeReply(ctx))
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	slog.Debug("Guard replied", "session", s.id, "token", token)
	s.schedule(t, s.opts.thinkingDelay)
	return true
}

// AssistantRequest builds the remote assistant request for msg from the
// current state.
func (s *Session) AssistantRequest(msg, intentName string) (*dialogue.Request, error) {
	schema, err := s.opts.spec.JSONSchema()
	if err != nil {
		return nil, fmt.Errorf("build state schema: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dialogue.Request{
		Context:       types.NewAssistantContext(s.info, s.opts.authenticated, s.hasPreview, s.photos > 0),
		Transcript:    excerpt(s.transcript, msg, s.opts.assistantMessages),
		Message:       msg,
		Intent:        intentName,
		MissingFields: s.opts.spec.MissingFacts(s.info),
		StateSchema:   schema,
		Now:           s.opts.now(),
	}, nil
}

// ApplyDecision applies a remote assistant decision to the current turn and
// delivers its reply immediately.
func (s *Session) ApplyDecision(d *dialogue.Decision) error {
	s.mu.Lock()
	token := s.generation
	msg := s.lastUserMessageLocked()
	s.mu.Unlock()
	return s.applyDecision(token, msg, d)
}

func (s *Session) applyDecision(token uint64, msg string, d *dialogue.Decision) error {
	if d == nil {
		return errors.New("nil decision")
	}
	usable := d.Normalize()

	s.mu.Lock()
	if s.closed || s.generation != token {
		s.mu.Unlock()
		return ErrStaleTurn
	}
	if err := s.applyUpdatesLocked(d.Updates); err != nil {
		s.mu.Unlock()
		return err
	}
	t := &turn{msg: msg, ctx: s.contextLocked(), token: token}
	if usable {
		s.decisionReplyLocked(t, d)
	} else {
		slog.Debug("Assistant reply unusable, using fallback", "session", s.id, "message", d.Message)
		s.fallbackLocked(t)
	}
	s.mu.Unlock()

	s.deliver(t)
	return nil
}

func (s *Session) applyUpdatesLocked(u dialogue.Updates) error {
	if u.Empty() {
		return nil
	}
	kept, dropped := patch.Filter(updateOperations(u), decisionPaths)
	for _, op := range dropped {
		slog.Warn("Dropped assistant update", "session", s.id, "op", op.Op, "path", op.Path)
	}
	info, err := patch.ApplyRFC6902(s.info, kept)
	if err != nil {
		return fmt.Errorf("apply assistant updates: %w", err)
	}
	s.info = info
	return nil
}

// updateOperations turns field updates into replace operations. Month-only
// dates and unparseable sizes are skipped.
func updateOperations(u dialogue.Updates) []patch.Operation {
	var ops []patch.Operation
	set := func(path string, value *string) {
		if value == nil {
			return
		}
		ops = append(ops, patch.Replace(path, strings.TrimSpace(*value)))
	}
	set("/title", u.Heading)
	set("/names/name1", u.Name1)
	set("/names/name2", u.Name2)
	if u.Date != nil {
		if _, partial, ok := extract.FindDate(*u.Date); !ok || !partial {
			set("/date", u.Date)
		}
	}
	if u.Size != nil {
		if size, ok := normalizeSize(*u.Size); ok {
			set("/size", &size)
		}
	}
	set("/courtesy", u.Courtesy)
	return ops
}

func normalizeSize(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", true
	}
	if size, ok := extract.ParseSizeReply(value); ok {
		return size, true
	}
	if size, ok := extract.SizeFromText(value); ok {
		return strings.TrimSuffix(size, " in"), true
	}
	return "", false
}

func (s *Session) decisionReplyLocked(t *turn, d *dialogue.Decision) {
	ctx := t.ctx
	wantsGenerate := d.Action.Name == dialogue.ActionGeneratePreview || d.Action.Name == dialogue.ActionRegenerate
	switch {
	case dialogue.RefusesImages(d.Message):
		s.awaitingPicture = true
		t.say(dialogue.ImageRefusalOverride())
		return
	case ctx.Complete() && !ctx.HasPreview && !wantsGenerate && d.Action.Name != dialogue.ActionSetSize:
		switch {
		case !ctx.HasPhoto:
			s.awaitingPicture = true
			t.say(dialogue.PicturePrompt("All set. Would you like to add a picture for your design?"))
		case s.info.Size == "":
			s.awaitingSize = true
			t.say(dialogue.Reply{Text: d.Message}, dialogue.SizePrompt())
		default:
			t.say(dialogue.Reply{Text: "Great! Generating your sticker now."})
			t.generateAfter(0)
		}
		return
	}

	r := dialogue.Reply{Text: d.Message}
	switch d.Action.Name {
	case dialogue.ActionAskUpload:
		r.Actions = dialogue.UploadActions()
		t.say(r)
	case dialogue.ActionSetSize:
		size, ok := normalizeSize(d.Action.Size)
		if !ok || size == "" {
			t.say(r)
			return
		}
		s.setSizeLocked(t, size)
	case dialogue.ActionGeneratePreview, dialogue.ActionRegenerate:
		if !ctx.Complete() {
			t.say(r)
			return
		}
		s.generateLocked(t, r)
	default:
		t.say(r)
	}
}

// HandleOfflineFallback answers the current turn with the local extractor
// when the remote assistant is unavailable.
func (s *Session) HandleOfflineFallback(text string) {
	s.mu.Lock()
	token := s.generation
	s.mu.Unlock()
	s.offlineFallback(token, strings.TrimSpace(text))
}

func (s *Session) offlineFallback(token uint64, msg string) {
	s.mu.Lock()
	if s.closed || s.generation != token {
		s.mu.Unlock()
		slog.Debug("Skipped stale fallback", "session", s.id, "token", token)
		return
	}
	t := &turn{msg: msg, ctx: s.contextLocked(), token: token}
	s.fallbackLocked(t)
	s.mu.Unlock()
	s.schedule(t, s.opts.thinkingDelay)
}

func (s *Session) fallbackLocked(t *turn) {
	res := extract.Extract(t.msg, s.hint())
	s.applyLocked(res, true, true)
	ctx := s.contextLocked()
	switch {
	case ctx.Complete() && !ctx.HasPreview:
		t.say(s.readyLocked("", "All set! Add a picture?"))
	case res.FoundSomething:
		t.say(dialogue.ExtractionSuccessReply(res, ctx))
	default:
		t.say(dialogue.FallbackReply(ctx))
	}
}

func (s *Session) lastUserMessageLocked() string {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Sender == types.SenderUser {
			return s.transcript[i].Text
		}
	}
	return ""
}
