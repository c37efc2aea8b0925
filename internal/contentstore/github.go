package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"standardsync/internal/reconciler"
	"standardsync/pkg/logging"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// UserAgent is sent with every contents request.
	UserAgent = "StandardsVersioning"

	// DefaultTimeout bounds a single contents request.
	DefaultTimeout = 30 * time.Second

	subsystem = "ContentStore"
)

// Options configures a GitHubStore.
type Options struct {
	// BaseURL overrides DefaultBaseURL (GitHub Enterprise, tests).
	BaseURL string

	// Repository is "owner/name".
	Repository string

	// TokenSource supplies the bearer credential. When nil requests are
	// sent unauthenticated.
	TokenSource oauth2.TokenSource

	// HTTPClient is the base transport. The token source wraps it.
	HTTPClient *http.Client
}

// GitHubStore reads and writes documents through the GitHub contents API.
type GitHubStore struct {
	client      *http.Client
	contentsURL string
}

var _ reconciler.RemoteStore = (*GitHubStore)(nil)

// NewGitHubStore creates a store for the configured repository.
func NewGitHubStore(opts Options) (*GitHubStore, error) {
	repository := strings.Trim(strings.TrimSpace(opts.Repository), "/")
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("repository must be in owner/name form, got %q", opts.Repository)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: DefaultTimeout}
	}

	client := base
	if opts.TokenSource != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = oauth2.NewClient(ctx, opts.TokenSource)
		client.Timeout = base.Timeout
	} else {
		logging.Warn(subsystem, "No access token configured for %s, contents requests will be unauthenticated", repository)
	}

	return &GitHubStore{
		client: client,
		contentsURL: fmt.Sprintf("%s/repos/%s/%s/contents/",
			strings.TrimRight(baseURL, "/"), url.PathEscape(owner), url.PathEscape(name)),
	}, nil
}

// FileName maps a document id to its path in the repository.
func FileName(id string) string {
	return id + ".json"
}

type contentResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type committerBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type putRequest struct {
	Content   string         `json:"content"`
	Message   string         `json:"message"`
	SHA       string         `json:"sha,omitempty"`
	Committer *committerBody `json:"committer,omitempty"`
}

// GetInfo returns the current revision and encoded content of a document.
// A document that does not exist yields a zero RemoteFileInfo and no error.
func (s *GitHubStore) GetInfo(ctx context.Context, id string) (reconciler.RemoteFileInfo, error) {
	req, err := s.newRequest(ctx, http.MethodGet, id, nil)
	if err != nil {
		return reconciler.RemoteFileInfo{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return reconciler.RemoteFileInfo{}, fmt.Errorf("failed to get %s: %w", FileName(id), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return reconciler.RemoteFileInfo{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reconciler.RemoteFileInfo{}, newStoreError("get", id, resp)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return reconciler.RemoteFileInfo{}, fmt.Errorf("failed to decode contents response for %s: %w", FileName(id), err)
	}
	if body.SHA == "" {
		return reconciler.RemoteFileInfo{}, fmt.Errorf("contents response for %s has no sha", FileName(id))
	}

	return reconciler.NewRemoteFileInfo(body.SHA, body.Content), nil
}

// Put creates the document, or updates it when payload carries a revision token.
func (s *GitHubStore) Put(ctx context.Context, id string, payload reconciler.WritePayload) error {
	body := putRequest{
		Content: payload.Content,
		Message: payload.Message,
		SHA:     payload.RevisionToken,
	}
	if payload.Committer.Name != "" || payload.Committer.Email != "" {
		body.Committer = &committerBody{
			Name:  payload.Committer.Name,
			Email: payload.Committer.Email,
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode contents request for %s: %w", FileName(id), err)
	}

	req, err := s.newRequest(ctx, http.MethodPut, id, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", FileName(id), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStoreError("put", id, resp)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *GitHubStore) newRequest(ctx context.Context, method, id string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.contentsURL+url.PathEscape(FileName(id)), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request for %s: %w", method, FileName(id), err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	return req, nil
}

func newStoreError(op, id string, resp *http.Response) *StoreError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StoreError{
		Op:         op,
		ID:         id,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
}
