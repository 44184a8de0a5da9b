package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/shroud-io/shroud/internal/config"
	"github.com/shroud-io/shroud/internal/detector"
	"github.com/shroud-io/shroud/internal/pipeline"
)

// buildEngine assembles the detection pipeline from operator config:
// the pattern detector plus whichever NER backends are configured.
// Unconfigured backends become disabled detectors rather than being
// omitted, so detector order stays stable.
func buildEngine(cfg *config.Config) (*pipeline.Engine, error) {
	var opts []detector.PatternOption
	if cfg.PatternFile != "" {
		opts = append(opts, detector.WithPatternFile(cfg.PatternFile))
	}
	pattern, err := detector.NewPatternDetector(opts...)
	if err != nil {
		return nil, fmt.Errorf("building pattern detector: %w", err)
	}

	if cfg.StatisticalURL == "" {
		log.Debug().Msg("statistical NER backend not configured; detector disabled")
	}
	if cfg.TransformerURL == "" {
		log.Debug().Msg("transformer NER backend not configured; detector disabled")
	}

	return pipeline.NewEngine(
		pattern,
		detector.NewStatisticalDetector(cfg.StatisticalURL),
		detector.NewTransformerDetector(cfg.TransformerURL),
	), nil
}

// readInput returns the contents of path, or stdin when path is "-" or empty.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
