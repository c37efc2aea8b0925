package standards

import "fmt"

// FeedError is returned when the feed cannot be fetched or does not have
// the expected shape.
type FeedError struct {
	// Source is the feed URL or file path.
	Source string

	// StatusCode is set for HTTP failures.
	StatusCode int

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface
func (e *FeedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("standards feed %s: %s (status %d)", e.Source, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("standards feed %s: %s", e.Source, e.Reason)
}
