package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of workspaced",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, a.version)
		},
	}
}
