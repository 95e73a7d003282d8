package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rote/internal/deck"
	"rote/internal/generator"
	"rote/internal/logging"
	"rote/internal/manifest"
	"rote/internal/preflight"
	"rote/internal/services"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var title string
	var index int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate [phrase-file]",
		Short: "Generate one deck from a phrase list",
		Long: `Generate synthesizes every phrase of a deck, assembles the timed narration
MP3, and renders the subtitled MP4. Phrases come from the given file (one per
line, # comments and blank lines skipped) or from stdin when the file is "-"
or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := overrideOutputDir(ctx.configValue(), outputDir)
			if err != nil {
				return err
			}

			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			var phrases []string
			if source == "-" {
				phrases, err = deck.ReadPhrases(cmd.InOrStdin())
			} else {
				phrases, err = deck.LoadPhraseFile(source)
			}
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			if err := preflight.Gate(preflight.RunAll(cmd.Context(), cfg)); err != nil {
				return err
			}

			return withOutputLock(cfg.Paths.OutputDir, func() error {
				deckIndex := index
				if deckIndex == 0 {
					deckIndex, err = deck.NextIndex(cfg.Paths.OutputDir)
					if err != nil {
						return err
					}
				}
				d := deck.Deck{Title: title, Index: deckIndex, Phrases: phrases}

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

				runCtx := cmd.Context()
				var run *manifest.Run
				if store != nil {
					run, err = store.StartRun(runCtx, manifest.RunKindGenerate, "")
					if err != nil {
						logger.Warn("failed to record run", logging.Error(err))
					} else {
						runCtx = services.WithRunID(runCtx, run.ID)
					}
				}

				result, genErr := gen.Generate(runCtx, d)
				if store != nil && run != nil {
					if err := store.FinishRun(cmd.Context(), run.ID, genErr); err != nil {
						logger.Warn("failed to finish run record", logging.Error(err))
					}
				}
				if genErr != nil {
					return genErr
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Deck %d complete: %s\n", result.Deck.Index, result.Deck.DisplayTitle())
				fmt.Fprintf(out, "  audio: %s\n", result.AudioPath)
				fmt.Fprintf(out, "  video: %s\n", result.VideoPath)
				fmt.Fprintf(out, "  duration %s, %d phrases", formatMillis(result.DurationMS), result.PhraseCount)
				if len(result.FailedPhrases) > 0 {
					fmt.Fprintf(out, ", %d failed", len(result.FailedPhrases))
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Deck title (required)")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().IntVar(&index, "index", 0, "Output index override (default: next free index in the output directory)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory override")
	return cmd
}
