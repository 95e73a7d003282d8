package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rote/internal/batch"
	"rote/internal/config"
	"rote/internal/generator"
	"rote/internal/logging"
	"rote/internal/manifest"
	"rote/internal/notifications"
	"rote/internal/preflight"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var start, end int
	var titles []string
	var contains string
	var resume, noResume bool
	var listOnly, dryRun bool
	var outputDir string
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "batch [chunks-file]",
		Short: "Generate a deck for every selected chunk of a library",
		Long: `Batch parses the chunk library and runs the generator once per selected
chunk, in file order. By default the run resumes after the highest numbered
MP4 already present in the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := overrideOutputDir(ctx.configValue(), outputDir)
			if err != nil {
				return err
			}

			chunksFile := cfg.Paths.ChunksFile
			if len(args) == 1 {
				chunksFile = args[0]
			}
			resumeOn := resume && !noResume
			if !cmd.Flags().Changed("continue-on-error") {
				continueOnError = cfg.Batch.ContinueOnError
			}
			selection := batch.Selection{Start: start, End: end, Titles: titles, Contains: contains}

			if listOnly {
				return listSelection(cmd, cfg, chunksFile, selection, resumeOn)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			opts := batch.RunOptions{
				ChunksFile:      chunksFile,
				Selection:       selection,
				Resume:          resumeOn,
				ContinueOnError: continueOnError,
				DryRun:          dryRun,
			}

			if dryRun {
				gen, err := generator.New(cfg, nil, logger)
				if err != nil {
					return err
				}
				runner := batch.NewRunner(cfg, gen, nil, nil, logger)
				summary, err := runner.Run(cmd.Context(), opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d decks selected\n", summary.Selected)
				return nil
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckFileReadable("Chunks file", chunksFile))
			if err := preflight.Gate(results); err != nil {
				return err
			}

			return withOutputLock(cfg.Paths.OutputDir, func() error {
				store, err := manifest.Open(cfg)
				if err != nil {
					logger.Warn("manifest store unavailable, history disabled", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
				}

				gen, err := generator.New(cfg, store, logger)
				if err != nil {
					return err
				}
				runner := batch.NewRunner(cfg, gen, store, notifications.NewService(cfg), logger)
				summary, runErr := runner.Run(cmd.Context(), opts)
				if summary == nil {
					return runErr
				}

				out := cmd.OutOrStdout()
				if summary.Selected == 0 {
					fmt.Fprintln(out, "Nothing to run")
					return nil
				}
				fmt.Fprintf(out, "Processed %d of %d decks in %s\n",
					summary.Completed, summary.Selected, notifications.FormatDuration(summary.Elapsed))
				if len(summary.Failed) > 0 {
					fmt.Fprintf(out, "Failed deck indexes: %v\n", summary.Failed)
				}
				return runErr
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "First chunk index to run (1-based)")
	cmd.Flags().IntVar(&end, "end", 0, "Last chunk index to run (1-based)")
	cmd.Flags().StringArrayVar(&titles, "title", nil, "Run only chunks with this exact title (repeatable, case-insensitive)")
	cmd.Flags().StringVar(&contains, "contains", "", "Run only chunks whose title contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&resume, "resume", true, "Resume after the highest numbered output already present")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Start from the first selected chunk")
	cmd.Flags().BoolVar(&listOnly, "list", false, "Print the selection and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve the selection without synthesizing or writing")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory override")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep running the remaining decks when one fails")
	return cmd
}

func listSelection(cmd *cobra.Command, cfg *config.Config, chunksFile string, selection batch.Selection, resume bool) error {
	chunks, err := batch.ParseChunksFile(chunksFile)
	if err != nil {
		return err
	}
	if selection.Start == 0 && resume {
		inferred, err := batch.InferResumeStart(cfg.Paths.OutputDir)
		if err != nil {
			return err
		}
		selection.Start = inferred
	}
	selected, err := selection.Apply(chunks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(selected) == 0 {
		fmt.Fprintf(out, "No chunks selected (%d in library)\n", len(chunks))
		return nil
	}
	rows := make([][]string, 0, len(selected))
	for _, chunk := range selected {
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
	fmt.Fprintf(out, "%d of %d chunks selected\n", len(selected), len(chunks))
	return nil
}
