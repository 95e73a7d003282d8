package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rote/internal/config"
	"rote/internal/render"
)

func newJoinCommand(ctx *commandContext) *cobra.Command {
	var output string
	var copyStreams bool

	cmd := &cobra.Command{
		Use:   "join [dir]",
		Short: "Concatenate the numbered deck videos into one file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			dir := cfg.Paths.OutputDir
			if len(args) == 1 {
				expanded, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				dir = expanded
			}

			return withOutputLock(dir, func() error {
				inputs, err := render.Join(cmd.Context(), cfg.FFmpegBinary(), render.JoinOptions{
					Dir:        dir,
					OutputPath: output,
					Copy:       copyStreams,
				})
				if err != nil {
					return err
				}
				target := output
				if target == "" {
					target = "joined.mp4"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Joined %d files into %s\n", len(inputs), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default joined.mp4 inside the directory)")
	cmd.Flags().BoolVar(&copyStreams, "copy", false, "Stream copy instead of re-encoding")
	return cmd
}
