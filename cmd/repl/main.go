// Command repl talks to the résumé assistant from a terminal.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-chat/internal/bootstrap"
	"resume-chat/internal/repl"
	"resume-chat/internal/shared/config"
	"resume-chat/internal/shared/telemetry"
)

type options struct {
	images   bool
	imageDir string
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "repl",
		Short:        "Chat with the résumé assistant in the terminal",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.images, "images", false, "generate a background image for each answer")
	rootCmd.PersistentFlags().StringVar(&opts.imageDir, "image-dir", "", "directory where generated images are written")

	rootCmd.AddCommand(chatCommand(opts), askCommand(opts))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	telemetry.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func chatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cleanup, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()
			return session.Run(cmd.Context())
		},
	}
}

func askCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cleanup, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()
			session.Ask(cmd.Context(), strings.Join(args, " "))
			return nil
		},
	}
}

func newSession(cmd *cobra.Command, opts *options) (*repl.Session, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		return nil, nil, err
	}
	if !opts.images {
		cfg.ImageMode = config.ImageModeOff
	} else if cfg.ImageMode == config.ImageModeOff {
		cfg.ImageMode = config.ImageModeAlways
	}
	telemetry.Setup(cfg.Env, cfg.Debug)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error(cmd.Context(), "bootstrap failed", zap.Error(err))
		return nil, nil, fmt.Errorf("bootstrap: %w", err)
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			telemetry.Warn(cmd.Context(), "could not close database", zap.Error(err))
		}
	}
	return &repl.Session{
		Chat:     app.ChatService,
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		ImageDir: opts.imageDir,
	}, cleanup, nil
}
