package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const sessionNamespace = "session"

// Manager owns the live chats of a server process. Calls are routed by the
// session id carried in the context, see WithSessionID.
type Manager struct {
	store   Store[*Flow]
	newFlow func(id string) (*Flow, error)
}

func NewManager(cache Cache[*Flow], newFlow func(id string) (*Flow, error)) *Manager {
	return &Manager{
		store:   NewStore(cache, sessionNamespace, SessionIDFromContext),
		newFlow: newFlow,
	}
}

// Create starts a new chat and returns a context routed to it.
func (m *Manager) Create(ctx context.Context) (context.Context, *Flow, error) {
	id := uuid.NewString()
	flow, err := m.newFlow(id)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create session: %w", err)
	}
	ctx = WithSessionID(ctx, id)
	if err := m.store.Set(ctx, flow); err != nil {
		return ctx, nil, fmt.Errorf("failed to store session: %w", err)
	}
	slog.Info("Session created", "session", id)
	return ctx, flow, nil
}

func (m *Manager) Get(ctx context.Context) (*Flow, error) {
	flow, ok, err := m.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	return flow, nil
}

// Delete closes the chat and forgets it.
func (m *Manager) Delete(ctx context.Context) error {
	flow, err := m.Get(ctx)
	if err != nil {
		return err
	}
	flow.Session().Close()
	if err := m.store.Del(ctx); err != nil {
		return err
	}
	slog.Info("Session deleted", "session", flow.Session().ID())
	return nil
}
