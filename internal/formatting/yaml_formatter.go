package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"standardsync/internal/reconciler"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// FormatRun writes the full summary, skipped documents included.
func (f *YAMLFormatter) FormatRun(result *reconciler.RunResult) error {
	data, err := yaml.Marshal(Summarize(result, true))
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	_, err = f.options.writer().Write(data)
	return err
}
