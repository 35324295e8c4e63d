package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tbxark/stickeragent/agent"
	"github.com/tbxark/stickeragent/command"
	"github.com/tbxark/stickeragent/types"
)

const helpText = `Commands:
  /photo N         pretend N photos were uploaded and cropped
  /action TOKEN    press a button, e.g. /action bg_all_yes
  /preview         mark a preview as showing
  /state           show collected details
  /reset           start over
  /quit            leave`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the sticker assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runChat(cmd.Context(), config, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type repl struct {
	agent  *agent.Agent
	runner *adk.Runner
	parser command.Parser
	out    io.Writer

	ai   *color.Color
	hint *color.Color
	err  *color.Color
}

func runChat(ctx context.Context, config *Config, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.Close()
	go func() {
		if err := a.consumer().Run(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	assistant, flowOpts, err := a.assistant()
	if err != nil {
		return err
	}
	stickerAgent := agent.NewAgent(
		"StickerDesigner",
		"An agent that collects wedding sticker details through conversation",
		assistant,
		flowOpts,
		a.sessionOptions()...,
	)
	r := &repl{
		agent:  stickerAgent,
		runner: adk.NewRunner(ctx, adk.RunnerConfig{Agent: stickerAgent}),
		parser: command.NewDefaultParser(),
		out:    out,
		ai:     color.New(color.FgCyan),
		hint:   color.New(color.FgHiBlack),
		err:    color.New(color.FgRed),
	}
	return r.loop(ctx, bufio.NewReader(in))
}

func (r *repl) loop(ctx context.Context, reader *bufio.Reader) error {
	r.ai.Fprintln(r.out, "Hi! Let's design your wedding sticker. Type /help for commands.")
	for {
		fmt.Fprint(r.out, "> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		cmd, err := r.parser.ParseCommand(ctx, input)
		switch {
		case err == nil:
			if quit := r.run(cmd); quit {
				return nil
			}
		case errors.Is(err, command.ErrNotCommand):
			if err := r.send(ctx, input); err != nil {
				return err
			}
		default:
			r.err.Fprintln(r.out, err)
		}
	}
}

func (r *repl) send(ctx context.Context, input string) error {
	iter := r.runner.Run(ctx, []adk.Message{schema.UserMessage(input)})
	for {
		event, ok := iter.Next()
		if !ok {
			return nil
		}
		if event.Err != nil {
			r.err.Fprintln(r.out, event.Err)
			continue
		}
		msg, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			return err
		}
		r.ai.Fprintln(r.out, msg.Content)
	}
}

// run executes a slash command and reports whether the REPL should exit.
func (r *repl) run(cmd command.Command) bool {
	session := r.agent.Session()
	switch cmd.Name {
	case command.Quit:
		r.hint.Fprintln(r.out, "Bye!")
		return true
	case command.Help:
		r.hint.Fprintln(r.out, helpText)
	case command.Reset:
		session.Reset()
		r.agent.Replies()
		r.hint.Fprintln(r.out, "Started over.")
	case command.Photo:
		if err := session.PhotosCropped(cmd.PhotoCount()); err != nil {
			r.err.Fprintln(r.out, err)
		}
	case command.Preview:
		session.SetPreview(true)
		r.hint.Fprintln(r.out, "Preview is showing.")
	case command.Action:
		handled, err := session.HandleAction(cmd.Arg)
		if err != nil {
			r.err.Fprintln(r.out, err)
		} else if !handled {
			r.hint.Fprintf(r.out, "Nothing to do for %q.\n", cmd.Arg)
		}
	case command.State:
		r.printState(session)
	}
	r.printReplies(r.agent.Replies())
	return false
}

func (r *repl) printReplies(replies []types.ChatMessage) {
	for _, reply := range replies {
		r.ai.Fprintln(r.out, reply.Text)
		for _, action := range reply.Actions {
			r.hint.Fprintf(r.out, "  [%s] /action %s\n", action.Label, action.Type)
		}
	}
}

func (r *repl) printState(session *agent.Session) {
	snap := session.Snapshot()
	r.hint.Fprintf(r.out, "stage: %s\n", snap.Stage)
	r.hint.Fprintf(r.out, "title: %s\nnames: %s & %s\ndate: %s\ncourtesy: %s\nsize: %s\n",
		snap.Info.Title, snap.Info.Names.Name1, snap.Info.Names.Name2,
		snap.Info.Date, snap.Info.Courtesy, snap.Info.Size)
	if snap.Photos > 0 {
		r.hint.Fprintf(r.out, "photos: %d (main %d)\n", snap.Photos, snap.MainPhoto+1)
	}
}
