package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitIOError     = 2
	exitRenderError = 3
)

func main() {
	root := &cobra.Command{
		Use:           "brace",
		Short:         "Render brace templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
	os.Exit(exitOK)
}
