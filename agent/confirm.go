package agent

import (
	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/extract"
	"github.com/tbxark/stickeragent/types"
)

// handleConfirmationLocked consumes every message while a title or names
// confirmation is open.
func (s *Session) handleConfirmationLocked(t *turn) {
	switch s.confirmation.Kind {
	case types.ConfirmTitle:
		s.confirmTitleLocked(t)
	case types.ConfirmNames:
		s.confirmNamesLocked(t)
	}
}

func (s *Session) confirmTitleLocked(t *turn) {
	pending := s.confirmation.PendingTitle
	switch {
	case dialogue.IsAffirmative(t.msg):
		s.resolveTitleLocked(t, pending, true)
	case dialogue.IsNegative(t.msg):
		title := s.opts.templateTitle
		if title == "" {
			title = extract.DefaultTemplateTitle
		}
		s.resolveTitleLocked(t, title, false)
	default:
		title := extract.Extract(t.msg, s.hint()).Title
		if title == "" {
			title, _ = extract.FallbackTitle(t.msg)
		}
		if title == "" {
			t.say(dialogue.TitleConfirmPrompt(pending))
			return
		}
		if extract.TitleConflicts(title, s.opts.templateTitle) {
			s.confirmation.PendingTitle = title
			t.say(dialogue.TitleConfirmPrompt(title))
			return
		}
		s.resolveTitleLocked(t, title, true)
	}
}

// resolveTitleLocked closes the title confirmation with title.
func (s *Session) resolveTitleLocked(t *turn, title string, accepted bool) {
	s.confirmation = types.Confirmation{}
	s.info.Title = title
	if hook := s.opts.hooks.TitleConfirmed; hook != nil {
		t.effect(func() { hook(title) })
	}
	shown := title
	if !accepted {
		shown = ""
	}
	t.say(s.readyLocked(dialogue.TitleResolvedPrefix(shown, accepted), "Would you like to add a picture?"))
}

func (s *Session) confirmNamesLocked(t *turn) {
	name1, name2 := s.confirmation.PendingName1, s.confirmation.PendingName2
	switch {
	case dialogue.IsAffirmative(t.msg):
		s.commitNamesLocked(t, name1, name2)
	case dialogue.IsNegative(t.msg):
		s.confirmation = types.Confirmation{}
		t.say(dialogue.NamesRejectedReply())
	default:
		res := extract.Extract(t.msg, s.hint())
		if res.Name1 == "" {
			t.say(dialogue.NameConfirmPrompt(name1, name2))
			return
		}
		s.commitNamesLocked(t, res.Name1, res.Name2)
	}
}

func (s *Session) commitNamesLocked(t *turn, name1, name2 string) {
	s.confirmation = types.Confirmation{}
	s.info.Names = types.Names{Name1: name1, Name2: name2}
	t.say(s.readyLocked(dialogue.NamesConfirmedPrefix(name1, name2), "Would you like to add a picture?"))
}
