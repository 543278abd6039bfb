package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/internal/platform"
	lifecycleadapter "github.com/aretw0/deckforge/pkg/adapters/lifecycle"
	"github.com/aretw0/deckforge/pkg/core"
)

var (
	watchFlags  projectFlags
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build once, then rebuild whenever a lesson file changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		s, err := watchFlags.resolve(cmd)
		if err != nil {
			return err
		}

		svc, err := platform.New(s.Root, append(s.Options(),
			platform.WithLogger(slog.Default()),
			platform.WithWatcherErrorHandler(func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
			}),
		)...)
		if err != nil {
			return fmt.Errorf("initializing deckforge: %w", err)
		}

		return watchLoop(ctx, cmd, svc, s)
	},
}

// watchLoop rebuilds after every settled batch of changes until ctx is done.
// Failed builds are reported and the loop keeps going.
func watchLoop(ctx context.Context, cmd *cobra.Command, svc *core.Service, s platform.Settings) error {
	out := cmd.OutOrStdout()
	rebuild := func() {
		res, err := buildOnce(ctx, svc, s, time.Now())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Written %s (%s)\n", res.Output, res.Summary)
	}

	events, err := svc.Watch(ctx)
	if err != nil {
		return err
	}
	src := lifecycleadapter.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return err
	}

	rebuild()
	fmt.Fprintf(out, "Watching %s (%s)\n", s.Root, s.Pattern)

	for first := range src.Events() {
		batch, ok := lifecycleadapter.Batch(ctx, src.Events(), first, watchSettle)
		for _, e := range batch {
			slog.Info("lesson changed", "event", e.String())
		}
		if !ok {
			break
		}
		rebuild()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.register(watchCmd, true)
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 200*time.Millisecond, "Quiet period before rebuilding after a change")
}
