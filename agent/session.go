package agent

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbxark/stickeragent/dialogue"
	"github.com/tbxark/stickeragent/extract"
	"github.com/tbxark/stickeragent/types"
)

const (
	DefaultThinkingDelay     = time.Second
	DefaultGenerateDelay     = 500 * time.Millisecond
	DefaultAssistantMessages = 10
)

type sessionOptions struct {
	scheduler         Scheduler
	messages          MessageSink
	generator         GenerationSink
	hooks             Hooks
	thinkingDelay     time.Duration
	generateDelay     time.Duration
	templateTitle     string
	authenticated     bool
	trimmer           Trimmer
	assistantMessages int
	now               func() time.Time
	newID             func() string
	spec              Spec
}

type SessionOption func(*sessionOptions)

func WithScheduler(scheduler Scheduler) SessionOption {
	return func(o *sessionOptions) { o.scheduler = scheduler }
}

func WithMessageSink(sink MessageSink) SessionOption {
	return func(o *sessionOptions) { o.messages = sink }
}

func WithGenerationSink(sink GenerationSink) SessionOption {
	return func(o *sessionOptions) { o.generator = sink }
}

func WithHooks(hooks Hooks) SessionOption {
	return func(o *sessionOptions) { o.hooks = hooks }
}

// WithDelays sets the artificial thinking delay before replies and the
// pause between a size answer and the generation signal.
func WithDelays(thinking, generate time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.thinkingDelay = thinking
		o.generateDelay = generate
	}
}

// WithTemplateTitle sets the template's default heading. An empty title
// turns off title confirmation.
func WithTemplateTitle(title string) SessionOption {
	return func(o *sessionOptions) { o.templateTitle = title }
}

func WithAuthenticated(authenticated bool) SessionOption {
	return func(o *sessionOptions) { o.authenticated = authenticated }
}

// WithTranscriptTrimmer bounds the transcript kept in memory.
func WithTranscriptTrimmer(trimmer Trimmer) SessionOption {
	return func(o *sessionOptions) { o.trimmer = trimmer }
}

// WithAssistantMessages sets how many transcript messages are sent to the
// remote assistant.
func WithAssistantMessages(n int) SessionOption {
	return func(o *sessionOptions) { o.assistantMessages = n }
}

func WithClock(now func() time.Time) SessionOption {
	return func(o *sessionOptions) { o.now = now }
}

func WithIDGenerator(newID func() string) SessionOption {
	return func(o *sessionOptions) { o.newID = newID }
}

func WithSpec(spec Spec) SessionOption {
	return func(o *sessionOptions) { o.spec = spec }
}

// Session is the dialogue orchestrator for one chat. Turn logic runs under
// the session mutex; only reply delivery and generation signals are
// delayed, and they are dropped when a newer turn has started.
type Session struct {
	id   string
	opts sessionOptions

	mu         sync.Mutex
	generation uint64
	pending    Timer
	closed     bool

	info         types.ExtractedInfo
	confirmation types.Confirmation
	transcript   []types.ChatMessage

	awaitingPicture    bool
	awaitingSize       bool
	awaitingBackground bool
	awaitingMain       bool
	hasPreview         bool
	photos             int
	mainPhoto          int
	removeBackground   *bool
}

func NewSession(id string, opts ...SessionOption) *Session {
	options := sessionOptions{
		scheduler:         RealScheduler{},
		messages:          discardSink{},
		generator:         discardSink{},
		thinkingDelay:     DefaultThinkingDelay,
		generateDelay:     DefaultGenerateDelay,
		templateTitle:     extract.DefaultTemplateTitle,
		assistantMessages: DefaultAssistantMessages,
		now:               time.Now,
		newID:             uuid.NewString,
		spec:              types.StickerSpec{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if id == "" {
		id = options.newID()
	}
	return &Session{id: id, opts: options, mainPhoto: -1}
}

func (s *Session) ID() string {
	return s.id
}

// turn collects what one user turn wants delivered.
type turn struct {
	msg   string
	ctx   types.DialogueContext
	token uint64

	replies  []dialogue.Reply
	generate bool
	delay    time.Duration
	effects  []func()
}

func (t *turn) say(replies ...dialogue.Reply) {
	t.replies = append(t.replies, replies...)
}

// generateAfter asks for the generation signal d after the replies are
// delivered.
func (t *turn) generateAfter(d time.Duration) {
	t.generate = true
	t.delay = d
}

func (t *turn) effect(f func()) {
	if f != nil {
		t.effects = append(t.effects, f)
	}
}

// HandleUserMessage runs one turn. It reports false when nothing matched
// and the caller should delegate to the remote assistant, then call
// HandleOfflineFallback if that fails.
func (s *Session) HandleUserMessage(text string) (bool, error) {
	handled, _, err := s.handleMessage(text)
	return handled, err
}

func (s *Session) handleMessage(text string) (bool, uint64, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return false, 0, ErrEmptyMessage
	}

	s.mu.Lock()
	t, echo := s.beginTurnLocked(msg)
	handled := s.dispatchLocked(t)
	s.mu.Unlock()

	s.opts.messages.Deliver(echo)
	if handled {
		s.schedule(t, s.opts.thinkingDelay)
	}
	return handled, t.token, nil
}

// beginTurnLocked bumps the generation, stops the previous pending delivery
// and records the user message.
func (s *Session) beginTurnLocked(msg string) (*turn, types.ChatMessage) {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	echo := s.stampLocked(types.ChatMessage{Text: msg, Sender: types.SenderUser})
	s.appendLocked(echo)
	return &turn{msg: msg, ctx: s.contextLocked(), token: s.generation}, echo
}

func (s *Session) stampLocked(msg types.ChatMessage) types.ChatMessage {
	msg.ID = s.opts.newID()
	msg.Time = s.opts.now()
	return msg
}

func (s *Session) appendLocked(msgs ...types.ChatMessage) {
	s.transcript = appendHistory(s.transcript, msgs...)
	if s.opts.trimmer != nil {
		s.transcript = s.opts.trimmer.Trim(s.transcript)
	}
}

func (s *Session) schedule(t *turn, delay time.Duration) {
	if len(t.replies) == 0 && len(t.effects) == 0 && !t.generate {
		return
	}
	timer := s.opts.scheduler.AfterFunc(delay, func() { s.deliver(t) })
	s.mu.Lock()
	if s.generation == t.token && !s.closed {
		s.pending = timer
	}
	s.mu.Unlock()
}

// deliver publishes a turn's replies if it is still the latest turn.
func (s *Session) deliver(t *turn) {
	s.mu.Lock()
	if s.closed || s.generation != t.token {
		current := s.generation
		s.mu.Unlock()
		slog.Debug("Dropped stale reply", "session", s.id, "token", t.token, "current", current)
		return
	}
	msgs := make([]types.ChatMessage, 0, len(t.replies))
	for _, r := range t.replies {
		msg := s.stampLocked(r.Message())
		msgs = append(msgs, msg)
	}
	s.appendLocked(msgs...)
	s.mu.Unlock()

	for _, msg := range msgs {
		s.opts.messages.Deliver(msg)
	}
	for _, f := range t.effects {
		f()
	}
	if !t.generate {
		return
	}
	if t.delay <= 0 {
		s.signalGeneration(t.token)
		return
	}
	timer := s.opts.scheduler.AfterFunc(t.delay, func() { s.signalGeneration(t.token) })
	s.mu.Lock()
	if s.generation == t.token && !s.closed {
		s.pending = timer
	}
	s.mu.Unlock()
}

func (s *Session) signalGeneration(token uint64) {
	s.mu.Lock()
	if s.closed || s.generation != token {
		s.mu.Unlock()
		slog.Debug("Dropped stale generation", "session", s.id, "token", token)
		return
	}
	info := s.info
	s.mu.Unlock()

	slog.Debug("Ready to generate", "session", s.id, "summary", s.opts.spec.Summary(info))
	if err := s.opts.generator.ReadyToGenerate(context.Background(), s.id, info); err != nil {
		slog.Warn("Generation signal failed", "session", s.id, "error", err)
	}
}

func (s *Session) contextLocked() types.DialogueContext {
	return types.NewDialogueContext(s.info, s.hasPreview, s.photos > 0)
}

// Context returns a fresh projection of the collected fields.
func (s *Session) Context() types.DialogueContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextLocked()
}

func (s *Session) Info() types.ExtractedInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *Session) Confirmation() types.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Session) Transcript() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Stage is derived from the collected fields and the pending sub-dialogue;
// it is never stored.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stageLocked()
}

func (s *Session) stageLocked() Stage {
	switch s.confirmation.Kind {
	case types.ConfirmTitle:
		return StageConfirmingTitle
	case types.ConfirmNames:
		return StageConfirmingNames
	}
	ctx := s.contextLocked()
	switch {
	case !ctx.HasTitle:
		return StageCollectingTitle
	case !ctx.HasName:
		return StageCollectingNames
	case !ctx.HasDate:
		return StageCollectingDate
	case !ctx.HasCourtesy:
		return StageCollectingCourtesy
	case s.awaitingMain:
		return StageChoosingMainPhoto
	case s.awaitingBackground:
		return StageBackgroundDecision
	case s.awaitingPicture:
		return StagePictureDecision
	case s.awaitingSize, ctx.HasPhoto && s.info.Size == "":
		return StageCollectingSize
	default:
		return StageReady
	}
}

// SetPreview records whether a rendered preview is showing.
func (s *Session) SetPreview(hasPreview bool) {
	s.mu.Lock()
	s.hasPreview = hasPreview
	s.mu.Unlock()
}

// Reset clears every collected field and sub-dialogue and drops pending
// replies.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.info = types.ExtractedInfo{}
	s.confirmation = types.Confirmation{}
	s.transcript = nil
	s.awaitingPicture = false
	s.awaitingSize = false
	s.awaitingBackground = false
	s.awaitingMain = false
	s.hasPreview = false
	s.photos = 0
	s.mainPhoto = -1
	s.removeBackground = nil
	slog.Info("Session reset", "session", s.id)
}

// Close stops pending deliveries. Later deliveries are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// applyLocked commits extracted values. Month-and-year dates are not
// stored.
func (s *Session) applyLocked(res types.FieldExtractionResult, withTitle, withNames bool) {
	if withTitle && res.Title != "" {
		s.info.Title = res.Title
	}
	if withNames {
		if res.Name1 != "" {
			s.info.Names.Name1 = res.Name1
		}
		if res.Name2 != "" {
			s.info.Names.Name2 = res.Name2
		}
	}
	if res.Date != "" && !res.DateIsPartial {
		s.info.Date = res.Date
	}
	if res.Courtesy != "" {
		s.info.Courtesy = res.Courtesy
	}
}

func (s *Session) hint() extract.Hint {
	return extract.Hint{HasName: s.info.Names.Name1 != "", HasDate: s.info.Date != ""}
}

// readyLocked finishes a turn that may have completed the text fields:
// the next question while fields are missing, then the picture question,
// then size, then a generate button.
func (s *Session) readyLocked(prefix, pictureText string) dialogue.Reply {
	ctx := s.contextLocked()
	join := func(text string) string {
		if prefix == "" {
			return text
		}
		return prefix + " " + text
	}
	switch {
	case !ctx.Complete():
		return dialogue.Reply{Text: join(dialogue.NextQuestion(ctx))}
	case !ctx.HasPhoto:
		s.awaitingPicture = true
		return dialogue.PicturePrompt(join(pictureText))
	case s.info.Size == "":
		s.awaitingSize = true
		return dialogue.Reply{Text: join(dialogue.SizePrompt().Text)}
	default:
		return dialogue.Reply{
			Text:    join("All details are ready!"),
			Actions: []types.Action{{Type: types.ActionGeneratePreview, Label: "Generate", Variant: types.VariantPrimary}},
		}
	}
}

// generateLocked answers a request to generate. With a photo and no size
// yet, it asks for the size first.
func (s *Session) generateLocked(t *turn, reply dialogue.Reply) {
	if s.photos > 0 && s.info.Size == "" {
		s.awaitingSize = true
		t.say(dialogue.SizePrompt())
		return
	}
	t.say(reply)
	t.generateAfter(0)
}

func (s *Session) setSizeLocked(t *turn, size string) {
	s.info.Size = size
	s.awaitingSize = false
	t.say(dialogue.SizeSetReply(size))
	if hook := s.opts.hooks.SizeSet; hook != nil {
		t.effect(func() { hook(size) })
	}
	t.generateAfter(s.opts.generateDelay)
}
