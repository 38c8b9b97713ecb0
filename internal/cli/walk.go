package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/Workspace/backend/internal/providers/filesystem"
)

func newWalkCmd(a *app) *cobra.Command {
	var (
		maxDepth       int
		followSymlinks bool
		breadthFirst   bool
		ignore         []string
	)

	cmd := &cobra.Command{
		Use:   "walk [ROOT]",
		Short: "Stream every entry below a directory as JSON lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			abs, err := absArg(raw)
			if err != nil {
				return err
			}

			backend, err := a.backend()
			if err != nil {
				return err
			}
			defer backend.Close()

			root, err := backend.Resolver.Normalize(abs)
			if err != nil {
				return err
			}

			opts := filesystem.WalkOptions{
				FollowSymlinks: followSymlinks,
				Ignore:         backend.Engine.Defaults().Ignore,
			}
			if cmd.Flags().Changed("ignore") {
				opts.Ignore = ignore
			}
			if maxDepth >= 0 {
				d := uint32(maxDepth)
				opts.MaxDepth = &d
			}
			if breadthFirst {
				opts.Order = filesystem.BreadthFirst
			}

			walker, err := backend.Engine.Walk(cmd.Context(), root, opts)
			if err != nil {
				return err
			}

			for entry, err := range walker.All() {
				if err != nil {
					return err
				}
				line, err := sonic.Marshal(entry)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(a.out, string(line)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "depth", -1, "maximum depth below the root (-1 for unlimited)")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&breadthFirst, "breadth-first", false, "visit shallower entries first")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "ignore patterns (replaces SEARCH_IGNORE)")
	return cmd
}
