package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rote/internal/batch"
)

func newChunksCommand(ctx *commandContext) *cobra.Command {
	chunksCmd := &cobra.Command{
		Use:   "chunks",
		Short: "Inspect the chunk library",
	}

	chunksCmd.AddCommand(newChunksListCommand(ctx))
	chunksCmd.AddCommand(newChunksShowCommand(ctx))

	return chunksCmd
}

func newChunksListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [chunks-file]",
		Short: "List every chunk with its index and phrase count",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunks, err := loadChunks(ctx, args, 0)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(chunks) == 0 {
				fmt.Fprintln(out, "No chunks found")
				return nil
			}
			rows := make([][]string, 0, len(chunks))
			for _, chunk := range chunks {
				rows = append(rows, []string{
					strconv.Itoa(chunk.Index),
					chunk.Title,
					strconv.Itoa(len(chunk.Phrases)),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Title", "Phrases"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}
}

func newChunksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index|title> [chunks-file]",
		Short: "Print the phrases of one chunk",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunks, err := loadChunks(ctx, args, 1)
			if err != nil {
				return err
			}
			chunk, err := findChunk(chunks, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chunk %d: %s (%d phrases)\n", chunk.Index, chunk.Title, len(chunk.Phrases))
			for i, phrase := range chunk.Phrases {
				fmt.Fprintf(out, "%4d  %s\n", i+1, phrase)
			}
			return nil
		},
	}
}

// loadChunks parses the chunk library named by the argument at fileArg, or by
// the configured chunks file when absent.
func loadChunks(ctx *commandContext, args []string, fileArg int) ([]batch.Chunk, error) {
	path := ctx.configValue().Paths.ChunksFile
	if len(args) > fileArg {
		path = args[fileArg]
	}
	return batch.ParseChunksFile(path)
}

func findChunk(chunks []batch.Chunk, key string) (batch.Chunk, error) {
	if index, err := strconv.Atoi(key); err == nil {
		for _, chunk := range chunks {
			if chunk.Index == index {
				return chunk, nil
			}
		}
		return batch.Chunk{}, fmt.Errorf("no chunk with index %d (library has %d)", index, len(chunks))
	}
	for _, chunk := range chunks {
		if strings.EqualFold(chunk.Title, key) {
			return chunk, nil
		}
	}
	return batch.Chunk{}, fmt.Errorf("no chunk titled %q", key)
}
