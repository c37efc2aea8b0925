package standards

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standardsync/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

const sampleFeed = `[
  {"referenceNumber": "ST0001", "version": "1.0", "title": "Baker & Confectioner"},
  {"referenceNumber": "ST0002", "version": "", "title": "Butcher"},
  {"referenceNumber": "ST0003", "version": null, "title": "Carpenter <Level 2>"},
  {"referenceNumber": "ST0001", "version": "1.1", "title": "Baker"}
]`

func TestDocumentID(t *testing.T) {
	tests := []struct {
		reference string
		version   string
		expected  string
	}{
		{"ST0001", "1.0", "ST0001_1.0"},
		{"ST0001", "1.1", "ST0001_1.1"},
		{"ST0002", "", "ST0002_1.0"},
		{"ST0002", "   ", "ST0002_1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentID(tt.reference, tt.version))
		})
	}
}

func TestParseFeed(t *testing.T) {
	docs, err := ParseFeed("test", []byte(sampleFeed))
	require.NoError(t, err)

	assert.Len(t, docs, 4)
	assert.Contains(t, docs, "ST0001_1.0")
	assert.Contains(t, docs, "ST0001_1.1")
	assert.Contains(t, docs, "ST0002_1.0")
	assert.Contains(t, docs, "ST0003_1.0")
}

func TestParseFeed_ContentFormatting(t *testing.T) {
	docs, err := ParseFeed("test", []byte(`[{"title":"Baker & Confectioner","referenceNumber":"ST0001","version":"1.0"}]`))
	require.NoError(t, err)

	expected := "{\n  \"title\": \"Baker & Confectioner\",\n  \"referenceNumber\": \"ST0001\",\n  \"version\": \"1.0\"\n}"
	assert.Equal(t, expected, docs["ST0001_1.0"])
}

func TestParseFeed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		feed    string
		wantMsg string
	}{
		{name: "not an array", feed: `{"referenceNumber":"ST0001"}`, wantMsg: "expected a JSON array"},
		{name: "element not an object", feed: `["ST0001"]`, wantMsg: "element 0 is not a standard"},
		{name: "missing reference", feed: `[{"version":"1.0"}]`, wantMsg: "element 0 has no referenceNumber"},
		{name: "duplicate id", feed: `[{"referenceNumber":"ST0001"},{"referenceNumber":"ST0001","version":"1.0"}]`, wantMsg: "duplicate standard ST0001_1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFeed("feed.json", []byte(tt.feed))
			require.Error(t, err)

			var feedErr *FeedError
			require.ErrorAs(t, err, &feedErr)
			assert.Equal(t, "feed.json", feedErr.Source)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseFeed_Empty(t *testing.T) {
	docs, err := ParseFeed("test", []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFeedError(t *testing.T) {
	err := &FeedError{Source: "https://example.com/feed", StatusCode: 503, Reason: "unexpected response"}
	assert.Equal(t, "standards feed https://example.com/feed: unexpected response (status 503)", err.Error())

	err = &FeedError{Source: "feed.json", Reason: "duplicate standard ST0001_1.0"}
	assert.Equal(t, "standards feed feed.json: duplicate standard ST0001_1.0", err.Error())
}
