package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rote/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools, fonts, and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := preflight.RunAll(cmd.Context(), ctx.configValue())

			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				status := "OK"
				if !result.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			if failed > 0 {
				fmt.Fprintf(out, "%d of %d checks failed\n", failed, len(results))
			} else {
				fmt.Fprintln(out, "All checks passed")
			}
			return nil
		},
	}
}
