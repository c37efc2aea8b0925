package standards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultVersion is used when a standard has no version.
const DefaultVersion = "1.0"

type standardKey struct {
	ReferenceNumber string  `json:"referenceNumber"`
	Version         *string `json:"version"`
}

// DocumentID builds the document id for a standard.
func DocumentID(referenceNumber, version string) string {
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	return referenceNumber + "_" + version
}

// ParseFeed turns a JSON array of standards into the desired-state map.
func ParseFeed(source string, data []byte) (map[string]string, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &FeedError{Source: source, Reason: fmt.Sprintf("expected a JSON array of standards: %v", err)}
	}

	documents := make(map[string]string, len(elements))
	for i, raw := range elements {
		var key standardKey
		if err := json.Unmarshal(raw, &key); err != nil {
			return nil, &FeedError{Source: source, Reason: fmt.Sprintf("element %d is not a standard: %v", i, err)}
		}
		if strings.TrimSpace(key.ReferenceNumber) == "" {
			return nil, &FeedError{Source: source, Reason: fmt.Sprintf("element %d has no referenceNumber", i)}
		}

		version := ""
		if key.Version != nil {
			version = *key.Version
		}
		id := DocumentID(key.ReferenceNumber, version)
		if _, dup := documents[id]; dup {
			return nil, &FeedError{Source: source, Reason: fmt.Sprintf("duplicate standard %s", id)}
		}

		content, err := formatDocument(raw)
		if err != nil {
			return nil, &FeedError{Source: source, Reason: fmt.Sprintf("element %d: %v", i, err)}
		}
		documents[id] = content
	}

	return documents, nil
}

// formatDocument indents a standard without reordering keys or escaping HTML.
func formatDocument(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
