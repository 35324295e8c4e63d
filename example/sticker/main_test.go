package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/stickeragent/events"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: gpt-4.1-mini
chat:
  thinking_delay: 250ms
  template_default_title: Nikkah Ceremony
  session_ttl: 1h
server:
  addr: ":9000"
`), 0o644))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	conf, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", conf.LLM.Model)
	assert.Equal(t, "sk-test", conf.LLM.APIKey)
	assert.Equal(t, 250*time.Millisecond, conf.Chat.ThinkingDelay)
	assert.Equal(t, "Nikkah Ceremony", conf.Chat.TemplateDefaultTitle)
	assert.Equal(t, time.Hour, conf.Chat.SessionTTL)
	assert.Equal(t, ":9000", conf.Server.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, events.DefaultTopic, conf.Events.GenerateTopic)
	assert.Equal(t, 10, conf.Log.MaxSizeMB)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  enabled: true\n"), 0o644))
	t.Setenv("OPENAI_API_KEY", "")
	_, err = loadConfig(path)
	assert.ErrorContains(t, err, "api_key")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestRunChat(t *testing.T) {
	conf := defaultConfig()
	input := strings.Join([]string{
		"wedding ceremony",
		"/photo 2",
		"/action choose_main_0",
		"/photo nope",
		"/state",
		"/quit",
		"never read",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), &conf, strings.NewReader(input), &out))
	got := out.String()
	assert.Contains(t, got, `Great! Using "Wedding Ceremony" as your title.`)
	assert.Contains(t, got, "Which one should be the MAIN big picture?")
	assert.Contains(t, got, "/action choose_main_1")
	assert.Contains(t, got, "I'll use Photo 1 as the MAIN picture.")
	assert.Contains(t, got, "positive count")
	assert.Contains(t, got, "title: Wedding Ceremony")
	assert.Contains(t, got, "Bye!")
}
