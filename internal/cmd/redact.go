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

var (
	redactFill   string
	redactOutput string
	redactReport string
)

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact sensitive entities in text",
	Long: `Reads text from a file (or stdin), replaces every detected span with the
fill character, and writes the redacted copy to stdout or --output.
Length and unmatched characters are preserved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ctx, span := tracer.Start(ctx, "redact")
		defer span.End()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fill := cfg.FillRune()
		if redactFill != "" {
			if utf8.RuneCountInString(redactFill) != 1 {
				return fmt.Errorf("--fill must be exactly one character (got %q)", redactFill)
			}
			fill, _ = utf8.DecodeRuneInString(redactFill)
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

		redacted, matches, err := engine.Redact(ctx, text, fill)
		if err != nil {
			return fmt.Errorf("redacting text: %w", err)
		}
		summary := engine.Summarize(matches)

		if redactOutput != "" {
			if err := os.WriteFile(redactOutput, []byte(redacted), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", redactOutput, err)
			}
		} else {
			fmt.Print(redacted)
		}

		if redactReport != "" {
			report, err := json.MarshalIndent(map[string]interface{}{
				"matches": matches,
				"summary": summary,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling report: %w", err)
			}
			if err := os.WriteFile(redactReport, append(report, '\n'), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", redactReport, err)
			}
		}

		log.Info().
			Int("matches", summary.Total).
			Int("text_length", utf8.RuneCountInString(text)).
			Msg("redact_complete")
		return nil
	},
}

func init() {
	redactCmd.Flags().StringVar(&redactFill, "fill", "", "fill character (default from config, usually █)")
	redactCmd.Flags().StringVarP(&redactOutput, "output", "o", "", "write redacted text to file instead of stdout")
	redactCmd.Flags().StringVar(&redactReport, "report", "", "write JSON match report to file")
	rootCmd.AddCommand(redactCmd)
}
