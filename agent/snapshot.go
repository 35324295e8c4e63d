package agent

import (
	"fmt"
	"log/slog"

	"github.com/tbxark/stickeragent/patch"
	"github.com/tbxark/stickeragent/types"
)

// Snapshot is a copy of everything a session has collected. It is used by
// the HTTP API and to move a conversation between sessions in process.
type Snapshot struct {
	ID               string                `json:"id"`
	Generation       uint64                `json:"generation"`
	Stage            Stage                 `json:"stage"`
	Info             types.ExtractedInfo   `json:"info"`
	Context          types.DialogueContext `json:"context"`
	Confirmation     types.Confirmation    `json:"confirmation"`
	Transcript       []types.ChatMessage   `json:"transcript"`
	HasPreview       bool                  `json:"has_preview"`
	Photos           int                   `json:"photos"`
	MainPhoto        int                   `json:"main_photo"`
	RemoveBackground *bool                 `json:"remove_background,omitempty"`
	AwaitingPicture  bool                  `json:"awaiting_picture"`
	AwaitingSize     bool                  `json:"awaiting_size"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]types.ChatMessage, len(s.transcript))
	copy(transcript, s.transcript)
	snap := Snapshot{
		ID:              s.id,
		Generation:      s.generation,
		Stage:           s.stageLocked(),
		Info:            s.info,
		Context:         s.contextLocked(),
		Confirmation:    s.confirmation,
		Transcript:      transcript,
		HasPreview:      s.hasPreview,
		Photos:          s.photos,
		MainPhoto:       s.mainPhoto,
		AwaitingPicture: s.awaitingPicture,
		AwaitingSize:    s.awaitingSize,
	}
	if s.removeBackground != nil {
		v := *s.removeBackground
		snap.RemoveBackground = &v
	}
	return snap
}

// Restore replaces the session state with snap. Pending deliveries are
// dropped and the generation moves past both counters.
func (s *Session) Restore(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops, err := patch.Diff(s.info, snap.Info)
	if err != nil {
		return fmt.Errorf("diff session info: %w", err)
	}
	changed := make([]string, 0, len(ops))
	for _, op := range ops {
		changed = append(changed, op.Path)
	}

	s.generation = max(s.generation, snap.Generation) + 1
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.info = snap.Info
	s.confirmation = snap.Confirmation
	s.transcript = append([]types.ChatMessage(nil), snap.Transcript...)
	s.hasPreview = snap.HasPreview
	s.photos = snap.Photos
	s.mainPhoto = snap.MainPhoto
	s.removeBackground = nil
	if snap.RemoveBackground != nil {
		v := *snap.RemoveBackground
		s.removeBackground = &v
	}
	s.awaitingPicture = snap.AwaitingPicture
	s.awaitingSize = snap.AwaitingSize
	s.awaitingMain = snap.Photos > 1 && snap.MainPhoto < 0
	s.awaitingBackground = snap.Photos > 0 && snap.MainPhoto >= 0 && snap.RemoveBackground == nil
	slog.Info("Session restored", "session", s.id, "from", snap.ID, "changed", changed)
	return nil
}
