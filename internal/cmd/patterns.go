package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shroud-io/shroud/internal/config"
	"github.com/shroud-io/shroud/internal/detector"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the compiled recognizer rules",
	Long:  "Shows the active rule set after layering the operator pattern file (if any) over the embedded defaults.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var opts []detector.PatternOption
		if cfg.PatternFile != "" {
			opts = append(opts, detector.WithPatternFile(cfg.PatternFile))
		}
		pd, err := detector.NewPatternDetector(opts...)
		if err != nil {
			return fmt.Errorf("building pattern detector: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tCATEGORY\tSCORE\tREGEX")
		for _, rule := range pd.Rules() {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", rule.Name, rule.Category, rule.Score, rule.Pattern.String())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
