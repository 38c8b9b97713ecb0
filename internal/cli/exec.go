package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/Workspace/backend/internal/shared/utils"
)

func newExecCmd(a *app) *cobra.Command {
	var rawParams string

	cmd := &cobra.Command{
		Use:   "exec TOOL_ID",
		Short: "Run one command-surface tool",
		Long: `Run a registered tool, such as filesystem.stat or workspace.get_bookmarks,
with JSON parameters and print its result.`,
		Example: `  workspaced exec filesystem.stat --params '{"path":"~/notes"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolID := args[0]
			if err := utils.ValidateToolID(toolID); err != nil {
				return err
			}

			params := map[string]interface{}{}
			if rawParams != "" {
				if err := sonic.UnmarshalString(rawParams, &params); err != nil {
					return fmt.Errorf("invalid --params: %w", err)
				}
			}
			if err := utils.ValidateParamDepth(params, utils.MaxParamDepth); err != nil {
				return err
			}

			return a.run(cmd, toolID, params)
		},
	}

	cmd.Flags().StringVarP(&rawParams, "params", "p", "", "tool parameters as a JSON object")
	return cmd
}
