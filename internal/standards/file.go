package standards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"standardsync/internal/reconciler"
	"standardsync/pkg/logging"
)

// FileSource reads the standards array from a YAML or JSON file.
//
// Keys of each standard come out sorted, and versions must be quoted in YAML
// so "1.0" is not read as a number.
type FileSource struct {
	path string
}

var _ reconciler.StandardsSource = (*FileSource)(nil)

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchAll reads and parses the file. It is re-read on every call.
func (s *FileSource) FetchAll(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read standards file %s: %w", s.path, err)
	}

	// JSON is valid YAML, so both formats go through the same decoder.
	var elements []interface{}
	if err := yaml.Unmarshal(data, &elements); err != nil {
		return nil, &FeedError{Source: s.path, Reason: fmt.Sprintf("expected a list of standards: %v", err)}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(elements); err != nil {
		return nil, fmt.Errorf("failed to re-encode standards file %s: %w", s.path, err)
	}
	jsonData := buf.Bytes()

	documents, err := ParseFeed(s.path, jsonData)
	if err != nil {
		return nil, err
	}

	logging.Info(subsystem, "Loaded %d standards from %s", len(documents), s.path)
	return documents, nil
}
