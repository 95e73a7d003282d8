package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rote/internal/manifest"
)

const statusTimeLayout = "2006-01-02 15:04:05"

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent runs and decks from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := manifest.Open(ctx.configValue())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			items, err := store.RecentItems(cmd.Context(), limit*2)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			fmt.Fprintln(out, "Recent runs:")
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Kind", "Status", "Started", "Finished", "Error"},
				runRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))

			if len(items) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Recent decks:")
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "#", "Title", "Status", "Phrases", "Failed", "Duration"},
				itemRows(items),
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return cmd
}

func runRows(runs []*manifest.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Local().Format(statusTimeLayout)
		}
		rows = append(rows, []string{
			shortID(run.ID),
			string(run.Kind),
			string(run.Status),
			run.StartedAt.Local().Format(statusTimeLayout),
			finished,
			run.ErrorMsg,
		})
	}
	return rows
}

func itemRows(items []*manifest.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		duration := "-"
		if item.DurationMS > 0 {
			duration = formatMillis(item.DurationMS)
		}
		rows = append(rows, []string{
			shortID(item.RunID),
			strconv.Itoa(item.DeckIndex),
			item.Title,
			string(item.Status),
			strconv.Itoa(item.PhraseCount),
			strconv.Itoa(item.FailedPhrases),
			duration,
		})
	}
	return rows
}
