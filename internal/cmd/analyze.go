package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shroud-io/shroud/internal/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Detect sensitive entities in text without redacting",
	Long:  "Reads text from a file (or stdin) and prints the reconciled match set and summary as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ctx, span := tracer.Start(ctx, "analyze")
		defer span.End()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(path)
		if err != nil {
			return err
		}

		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		matches, err := engine.Analyze(ctx, text)
		if err != nil {
			return fmt.Errorf("analyzing text: %w", err)
		}
		summary := engine.Summarize(matches)

		log.Info().
			Int("matches", summary.Total).
			Int("text_length", utf8.RuneCountInString(text)).
			Msg("analyze_complete")

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"matches": matches,
			"summary": summary,
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
