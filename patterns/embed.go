// Package patterns provides embedded default recognizer definitions.
// The YAML files in this directory use the recognizer registry format
// consumed by internal/detector (see detector.RecognizerFile).
package patterns

import _ "embed"

//go:embed pii_default.yaml
var piiDefaultYAML []byte

// DefaultYAML returns the embedded default PII recognizer definitions.
func DefaultYAML() []byte { return piiDefaultYAML }
