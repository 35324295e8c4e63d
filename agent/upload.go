package agent

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/types"
)

// PhotosCropped starts the upload chat flow once n photos are cropped. With
// more than one photo the user picks the main one first.
func (s *Session) PhotosCropped(n int) error {
	if n <= 0 {
		return fmt.Errorf("invalid photo count %d", n)
	}
	s.mu.Lock()
	t := s.internalTurnLocked()
	s.photos = n
	s.awaitingPicture = false
	s.removeBackground = nil
	if n > 1 {
		s.mainPhoto = -1
		s.awaitingMain = true
		t.say(dialogue.ChooseMainPrompt(n))
	} else {
		s.mainPhoto = 0
		s.awaitingBackground = true
		t.say(dialogue.BackgroundPrompt(-1))
	}
	s.mu.Unlock()

	slog.Info("Photos cropped", "session", s.id, "count", n)
	s.schedule(t, s.opts.thinkingDelay)
	return nil
}

// HandleAction runs the chat side of an action button. It reports false for
// tokens it does not know.
func (s *Session) HandleAction(token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, ErrEmptyMessage
	}

	s.mu.Lock()
	known, err := s.validateActionLocked(token)
	if err != nil || !known {
		s.mu.Unlock()
		return false, err
	}
	t := s.internalTurnLocked()
	s.actionLocked(t, token)
	s.mu.Unlock()
	slog.Debug("Handled action", "session", s.id, "action", token)
	s.schedule(t, s.opts.thinkingDelay)
	return true, nil
}

// validateActionLocked reports whether token is a known action. Rejected
// tokens leave the session untouched.
func (s *Session) validateActionLocked(token string) (bool, error) {
	switch {
	case token == types.ActionUpload, token == types.ActionGeneratePreview,
		token == types.ActionBackgroundYes, token == types.ActionBackgroundNo:
		return true, nil
	case strings.HasPrefix(token, types.ActionChooseMain):
		if _, ok := s.mainPhotoIndexLocked(token); !ok {
			return false, fmt.Errorf("invalid main photo %q", token)
		}
		return true, nil
	default:
		return false, nil
	}
}

func (s *Session) mainPhotoIndexLocked(token string) (int, bool) {
	index, err := strconv.Atoi(strings.TrimPrefix(token, types.ActionChooseMain))
	if err != nil || index < 0 || index >= s.photos {
		return 0, false
	}
	return index, true
}

// actionLocked applies a token accepted by validateActionLocked.
func (s *Session) actionLocked(t *turn, token string) {
	switch {
	case token == types.ActionUpload:
		s.awaitingPicture = false
	case token == types.ActionGeneratePreview:
		s.awaitingPicture = false
		if !t.ctx.Complete() {
			r, _ := dialogue.AffirmativeReply(t.ctx)
			t.say(r)
			return
		}
		s.generateLocked(t, dialogue.Reply{Text: "Got it! Generating your sticker now... 😊"})
	case strings.HasPrefix(token, types.ActionChooseMain):
		index, _ := s.mainPhotoIndexLocked(token)
		s.mainPhoto = index
		s.awaitingMain = false
		s.awaitingBackground = true
		t.say(dialogue.BackgroundPrompt(index))
	case token == types.ActionBackgroundYes:
		s.backgroundDecisionLocked(t, true)
	case token == types.ActionBackgroundNo:
		s.backgroundDecisionLocked(t, false)
	}
}

// internalTurnLocked starts a turn that has no user message, such as a
// button press.
func (s *Session) internalTurnLocked() *turn {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	return &turn{ctx: s.contextLocked(), token: s.generation}
}

func (s *Session) backgroundDecisionLocked(t *turn, remove bool) {
	s.awaitingBackground = false
	s.removeBackground = &remove
	if hook := s.opts.hooks.BackgroundDecision; hook != nil {
		t.effect(func() { hook(remove) })
	}
	t.say(dialogue.BackgroundDecisionReply(remove))

	ctx := s.contextLocked()
	switch {
	case !ctx.Complete():
		t.say(dialogue.Reply{Text: dialogue.NextQuestion(ctx)})
	case s.info.Size == "":
		s.awaitingSize = true
		t.say(dialogue.UploadSizeQuestion())
	default:
		t.say(dialogue.CreatingNowReply())
		t.generateAfter(s.opts.generateDelay)
	}
}

// MainPhoto returns the zero-based main photo index, or -1 when none is
// chosen.
func (s *Session) MainPhoto() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainPhoto
}

// RemoveBackground returns the background decision, nil while undecided.
func (s *Session) RemoveBackground() *bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeBackground == nil {
		return nil
	}
	v := *s.removeBackground
	return &v
}
