package standards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"standardsync/internal/reconciler"
	"standardsync/pkg/logging"
)

const (
	// ImportURLPath is the courses API operation returning the feed URL.
	ImportURLPath = "/ops/dataload/StandardsImportUrl"

	// VersionHeader carries the courses API version.
	VersionHeader = "X-Version"

	// DefaultTimeout bounds each feed request.
	DefaultTimeout = 2 * time.Minute

	subsystem = "Standards"
)

// FeedOptions configures a FeedSource.
type FeedOptions struct {
	// FeedURL is used directly when ImportURLEndpoint is empty.
	FeedURL string

	// ImportURLEndpoint is the courses API base URL. When set, the feed URL
	// is looked up from it on every fetch.
	ImportURLEndpoint string

	// Version is sent as X-Version to the courses API.
	Version string

	HTTPClient *http.Client
}

// FeedSource fetches the standards feed over HTTP.
type FeedSource struct {
	options FeedOptions
	client  *http.Client
}

var _ reconciler.StandardsSource = (*FeedSource)(nil)

// NewFeedSource validates the options and creates a FeedSource.
func NewFeedSource(options FeedOptions) (*FeedSource, error) {
	if options.FeedURL == "" && options.ImportURLEndpoint == "" {
		return nil, fmt.Errorf("either a feed URL or an import URL endpoint is required")
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &FeedSource{options: options, client: client}, nil
}

// FetchAll downloads and parses the whole feed.
func (s *FeedSource) FetchAll(ctx context.Context) (map[string]string, error) {
	feedURL, err := s.resolveFeedURL(ctx)
	if err != nil {
		return nil, err
	}

	logging.Debug(subsystem, "Fetching standards from %s", feedURL)

	data, err := s.get(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}

	documents, err := ParseFeed(feedURL, data)
	if err != nil {
		return nil, err
	}

	logging.Info(subsystem, "Fetched %d standards", len(documents))
	return documents, nil
}

func (s *FeedSource) resolveFeedURL(ctx context.Context) (string, error) {
	if s.options.ImportURLEndpoint == "" {
		return s.options.FeedURL, nil
	}

	endpoint := strings.TrimRight(s.options.ImportURLEndpoint, "/") + ImportURLPath
	headers := map[string]string{}
	if s.options.Version != "" {
		headers[VersionHeader] = s.options.Version
	}

	data, err := s.get(ctx, endpoint, headers)
	if err != nil {
		return "", err
	}

	// The endpoint answers with a JSON string; accept plain text too.
	body := strings.TrimSpace(string(data))
	var feedURL string
	if err := json.Unmarshal([]byte(body), &feedURL); err != nil {
		feedURL = body
	}
	if feedURL == "" {
		return "", &FeedError{Source: endpoint, Reason: "import URL endpoint returned an empty URL"}
	}

	logging.Debug(subsystem, "Resolved standards import URL %s", feedURL)
	return feedURL, nil
}

func (s *FeedSource) get(ctx context.Context, target string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FeedError{Source: target, StatusCode: resp.StatusCode, Reason: "unexpected response"}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return data, nil
}
