package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/deckforge/internal/platform"
	"github.com/aretw0/deckforge/pkg/core"
)

var buildFlags projectFlags

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an Anki package from a lesson directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildFlags.resolve(cmd)
		if err != nil {
			return err
		}

		svc, err := newService(s)
		if err != nil {
			return err
		}

		res, err := buildOnce(cmd.Context(), svc, s, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Written %s (%s)\n", res.Output, res.Summary)
		return nil
	},
}

func newService(s platform.Settings) (*core.Service, error) {
	opts := append(s.Options(), platform.WithLogger(slog.Default()))
	svc, err := platform.New(s.Root, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing deckforge: %w", err)
	}
	return svc, nil
}

// buildOnce writes one package into a fresh run directory, logging into its log.txt.
func buildOnce(ctx context.Context, svc *core.Service, s platform.Settings, started time.Time) (core.BuildResult, error) {
	runDir := platform.RunDir(s.OutputDir, started)
	rl, err := platform.OpenRunLog(slog.Default(), runDir, s.LogFile)
	if err != nil {
		return core.BuildResult{}, err
	}
	defer rl.Close()

	rl.Logger.Info("building", "path", s.Root, "header", s.Header, "way", s.Way)
	res, err := svc.Build(ctx, core.BuildRequest{
		Header:  s.Header,
		Variant: s.Variant,
		Output:  platform.PackagePath(s.OutputDir, s.Header, started),
		Logger:  rl.Logger,
	})
	if err != nil {
		rl.Logger.Error("build failed", "error", err)
		return core.BuildResult{}, err
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildFlags.register(buildCmd, true)
}
