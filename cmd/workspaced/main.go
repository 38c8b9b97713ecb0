package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GriffinCanCode/Workspace/backend/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version); err != nil {
		fmt.Fprintln(os.Stderr, "workspaced:", err)
		os.Exit(1)
	}
}
