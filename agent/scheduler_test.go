package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	m := NewManualScheduler()
	var order []string
	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	m.AfterFunc(time.Second, func() {
		order = append(order, "a")
		m.AfterFunc(500*time.Millisecond, func() { order = append(order, "a2") })
	})
	stopped := m.AfterFunc(time.Second, func() { order = append(order, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 2, m.Pending())

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a", "a2"}, order)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Zero(t, m.Pending())
}

func TestInlineScheduler(t *testing.T) {
	ran := false
	timer := InlineScheduler{}.AfterFunc(time.Hour, func() { ran = true })
	assert.True(t, ran)
	assert.False(t, timer.Stop())
}
