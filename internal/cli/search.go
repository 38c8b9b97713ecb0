package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/types"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		name, content  string
		caseSensitive  bool
		followSymlinks bool
		maxResults     uint32
		maxDepth       int
		ignore         []string
	)

	cmd := &cobra.Command{
		Use:   "search [ROOT]",
		Short: "Search a tree by file name and content",
		Long: `Search ROOT (default: the working directory) for entries whose name
matches --name and files whose text contains --content.

--content is literal text, not a regular expression. --name matches an
exact name first, then any name containing it. A --name with glob
metacharacters (* ? [ {) is a doublestar glob matched against the entry
name, or against the path relative to ROOT when the glob contains "/".
Matching ignores case unless --case-sensitive is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			root, err := absArg(raw)
			if err != nil {
				return err
			}

			params := map[string]interface{}{
				"root":            root,
				"case_sensitive":  caseSensitive,
				"follow_symlinks": followSymlinks,
			}
			if name != "" {
				params["name_pattern"] = name
			}
			if content != "" {
				params["content_pattern"] = content
			}
			if maxResults > 0 {
				params["max_results"] = float64(maxResults)
			}
			if maxDepth >= 0 {
				params["max_depth"] = float64(maxDepth)
			}
			if cmd.Flags().Changed("ignore") {
				params["ignore"] = toInterfaces(ignore)
			}

			return a.run(cmd, "filesystem.search_files", params)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "name substring or glob")
	cmd.Flags().StringVarP(&content, "content", "c", "", "literal text to find in files")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().Uint32Var(&maxResults, "max-results", 0, "result cap (0 uses SEARCH_MAX_RESULTS)")
	cmd.Flags().IntVar(&maxDepth, "depth", -1, "maximum depth below the root (-1 for unlimited)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "ignore patterns (replaces SEARCH_IGNORE)")
	return cmd
}

// run executes one tool through the registry and prints the result
func (a *app) run(cmd *cobra.Command, toolID string, params map[string]interface{}) error {
	backend, err := a.backend()
	if err != nil {
		return err
	}
	defer backend.Close()

	result, err := backend.Registry.Execute(cmd.Context(), toolID, params, &types.Context{})
	if err != nil {
		return err
	}
	if err := a.printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s failed: %s", toolID, result.ErrorKind)
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
