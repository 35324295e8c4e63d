package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/events"
	"github.com/tbxark/stickeragent/extract"
	"github.com/tbxark/stickeragent/intent"
)

type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Chat   ChatConfig   `yaml:"chat"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Events EventsConfig `yaml:"events"`
}

type LLMConfig struct {
	Enabled         bool    `yaml:"enabled"`
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	IntentThreshold float64 `yaml:"intent_threshold"`
}

type ChatConfig struct {
	ThinkingDelay        time.Duration `yaml:"thinking_delay"`
	GenerateDelay        time.Duration `yaml:"generate_delay"`
	TemplateDefaultTitle string        `yaml:"template_default_title"`
	TranscriptLimit      int           `yaml:"transcript_limit"`
	AITranscriptMessages int           `yaml:"ai_transcript_messages"`
	SessionTTL           time.Duration `yaml:"session_ttl"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type EventsConfig struct {
	GenerateTopic string `yaml:"generate_topic"`
}

func defaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:           "gpt-4o-mini",
			IntentThreshold: intent.DefaultThreshold,
		},
		Chat: ChatConfig{
			ThinkingDelay:        agent.DefaultThinkingDelay,
			GenerateDelay:        agent.DefaultGenerateDelay,
			TemplateDefaultTitle: extract.DefaultTemplateTitle,
			TranscriptLimit:      200,
			AITranscriptMessages: agent.DefaultAssistantMessages,
			SessionTTL:           30 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		Server: ServerConfig{Addr: ":8080"},
		Events: EventsConfig{GenerateTopic: events.DefaultTopic},
	}
}

// loadConfig reads a YAML config over the defaults. A missing file is not
// an error when path is empty.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, &conf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if conf.LLM.APIKey == "" {
		conf.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if conf.LLM.Enabled && conf.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm enabled but no api_key or OPENAI_API_KEY set")
	}
	return &conf, nil
}
