package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; the default marks local builds.
var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the rote version",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rote %s\n", version)
		},
	}
}
