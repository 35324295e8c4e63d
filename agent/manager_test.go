package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(cache Cache[*Flow]) *Manager {
	return NewManager(cache, func(id string) (*Flow, error) {
		return NewFlow(NewSession(id, WithScheduler(InlineScheduler{})), nil), nil
	})
}

func TestManager(t *testing.T) {
	m := newTestManager(NewMemoryCache[*Flow]())

	ctx, flow, err := m.Create(context.Background())
	require.NoError(t, err)
	id, ok := SessionIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, flow.Session().ID())

	got, err := m.Get(WithSessionID(context.Background(), id))
	require.NoError(t, err)
	assert.Same(t, flow, got)

	_, err = m.Get(WithSessionID(context.Background(), "missing"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(context.Background())
	assert.Error(t, err)

	require.NoError(t, m.Delete(ctx))
	_, err = m.Get(ctx)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(ctx), ErrSessionNotFound)
}

func TestGoCache(t *testing.T) {
	var evicted []string
	c := NewGoCache[int](time.Minute, 0, func(key string, _ int) { evicted = append(evicted, key) })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1))
	v, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	exists, err := c.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Del(ctx, "a"))
	assert.Equal(t, []string{"a"}, evicted)
	assert.Zero(t, c.Len())
}

func TestGoCacheExpires(t *testing.T) {
	c := NewGoCache[string](time.Millisecond, 0, nil)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", "x"))
	time.Sleep(5 * time.Millisecond)
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerWithGoCacheClosesEvicted(t *testing.T) {
	cache := NewGoCache[*Flow](time.Minute, 0, func(_ string, f *Flow) { f.Session().Close() })
	m := newTestManager(cache)
	ctx, flow, err := m.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx))

	handled, err := flow.Session().HandleUserMessage("wedding ceremony")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, flow.Session().Transcript(), 1)
}

func TestSnapshotRestore(t *testing.T) {
	src, _ := newTestSession(t, InlineScheduler{})
	collectAll(t, src)
	require.NoError(t, src.PhotosCropped(2))
	snap := src.Snapshot()

	dst, log := newTestSession(t, InlineScheduler{})
	require.NoError(t, dst.Restore(snap))
	assert.Equal(t, src.Info(), dst.Info())
	assert.Equal(t, StageChoosingMainPhoto, dst.Stage())
	assert.Equal(t, src.Transcript(), dst.Transcript())
	assert.Greater(t, dst.Generation(), snap.Generation)

	handled, err := dst.HandleAction("choose_main_0")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, log.lastAI(t).Text, "Photo 1")
}
