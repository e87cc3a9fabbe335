package main

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/loader"
	"github.com/spf13/cobra"
)

// planOptions holds the flags of the plan command.
type planOptions struct {
	clustered bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "oxy-plan",
		Short:        "Inspect render compositions described in scene files",
		SilenceUsage: true,
	}
	root.AddCommand(newPlanCmd())
	return root
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan <scene.yaml>",
		Short: "Print the render actions of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.clustered, "clustered", false, "assign and bin light clusters")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log composition rebuilds to stderr")
	return cmd
}

func runPlan(cmd *cobra.Command, path string, opts *planOptions) error {
	if opts.verbose {
		common.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer common.SetLogger(nil)
	}

	s, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	defer s.Composition.DestroyComposition()

	flags, err := s.Composition.UpdateComposition(nil, opts.clustered)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	if opts.clustered {
		if err := s.Composition.PrepareClusters(); err != nil {
			return fmt.Errorf("prepare clusters: %w", err)
		}
	}

	return writePlan(cmd.OutOrStdout(), s.Composition, flags)
}
