package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tbxark/stickeragent/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, config)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides server.addr")
	return cmd
}

func runServe(ctx context.Context, config *Config) error {
	a, err := newApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.Close()
	srv := server.New(config.Chat.SessionTTL, a.newFlow)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.consumer().Run(ctx)
	})
	g.Go(func() error {
		return srv.Listen(config.Server.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
