package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SlashParser parses "/name arg" input.
type SlashParser struct {
	Aliases map[string]Name
}

func NewSlashParser() *SlashParser {
	return &SlashParser{
		Aliases: map[string]Name{
			"reset":   Reset,
			"restart": Reset,
			"photo":   Photo,
			"photos":  Photo,
			"preview": Preview,
			"action":  Action,
			"state":   State,
			"help":    Help,
			"quit":    Quit,
			"exit":    Quit,
		},
	}
}

func (p *SlashParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Name: None}, ErrNotCommand
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, "/"))
	if len(fields) == 0 {
		return Command{Name: None}, ErrNotCommand
	}
	name, ok := p.Aliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{Name: None}, fmt.Errorf("unknown command %q", fields[0])
	}
	cmd := Command{Name: name, Arg: strings.Join(fields[1:], " ")}
	if err := validate(cmd); err != nil {
		return Command{Name: None}, err
	}
	return cmd, nil
}

func validate(cmd Command) error {
	switch cmd.Name {
	case Photo:
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("/photo needs a positive count, got %q", cmd.Arg)
		}
	case Action:
		if cmd.Arg == "" {
			return fmt.Errorf("/action needs a token")
		}
	}
	return nil
}

// PhotoCount returns the argument of a photo command.
func (c Command) PhotoCount() int {
	n, _ := strconv.Atoi(c.Arg)
	return n
}

// KeywordParser matches whole-message keywords such as "quit".
type KeywordParser struct {
	QuitKeywords []string
}

func NewKeywordParser() *KeywordParser {
	return &KeywordParser{
		QuitKeywords: []string{"quit", "exit", "bye", "goodbye"},
	}
}

func (p *KeywordParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, keyword := range p.QuitKeywords {
		if normalized == keyword {
			return Command{Name: Quit}, nil
		}
	}
	return Command{Name: None}, ErrNotCommand
}

// FailbackParser tries each parser in order and returns the first command
// found.
type FailbackParser struct {
	parsers []Parser
}

func NewFailbackParser(parsers ...Parser) *FailbackParser {
	return &FailbackParser{parsers: parsers}
}

// NewDefaultParser accepts slash commands and quit keywords.
func NewDefaultParser() *FailbackParser {
	return NewFailbackParser(NewSlashParser(), NewKeywordParser())
}

func (p *FailbackParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	lastErr := ErrNotCommand
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, input)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	return Command{Name: None}, lastErr
}
