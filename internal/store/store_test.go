package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, "video_index"), mr
}

func TestAddDocument_StringifiesFields(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	err := s.AddDocument(ctx, "vid1_0", Document{
		Text:             "hello world",
		VideoID:          "vid1",
		VideoTitle:       "Greetings",
		VideoPublishDate: "2024-05-01T00:00:00Z",
		StartTime:        12.5,
		Timecode:         "00:00:12",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello world", mr.HGet("doc:vid1_0", "text"))
	assert.Equal(t, "vid1", mr.HGet("doc:vid1_0", "video_id"))
	assert.Equal(t, "12.5", mr.HGet("doc:vid1_0", "start_time"))
	assert.Equal(t, "00:00:12", mr.HGet("doc:vid1_0", "timecode"))
}

func TestDocumentExists(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	exists, err := s.DocumentExists(ctx, "vid1_0")
	require.NoError(t, err)
	assert.False(t, exists)

	mr.HSet("doc:vid1_0", "text", "x")

	exists, err = s.DocumentExists(ctx, "vid1_0")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentExists_ConnectionErrorSurfaces(t *testing.T) {
	s, mr := setupStore(t)
	mr.Close()

	_, err := s.DocumentExists(context.Background(), "vid1_0")
	assert.Error(t, err)
}

func TestVideoIDs_DerivedFromKeys(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	mr.HSet("doc:vid1_0", "text", "a")
	mr.HSet("doc:vid1_1", "text", "b")
	mr.HSet("doc:vid_2abc_0", "text", "c") // video ID containing underscores
	mr.HSet("unrelated", "text", "d")      // outside the doc: prefix

	ids, err := s.VideoIDs(ctx)
	require.NoError(t, err)

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "vid1")
	assert.Contains(t, ids, "vid_2abc")
}

func TestPartiallyIndexed_ReportsGaps(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	// Ordinal 2 is missing: the gap must be visible, not repaired.
	mr.HSet("doc:vid1_0", "text", "a")
	mr.HSet("doc:vid1_1", "text", "b")
	mr.HSet("doc:vid1_3", "text", "d")

	videos, err := s.PartiallyIndexed(ctx)
	require.NoError(t, err)

	require.Contains(t, videos, "vid1")
	assert.Equal(t, 3, videos["vid1"].ChunkCount)
	assert.Equal(t, []string{"0", "1", "3"}, videos["vid1"].Chunks)
}

func TestAllDocuments_ReturnsKeysAndFields(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	mr.HSet("doc:vid1_0", "text", "a", "video_id", "vid1")
	mr.HSet("doc:vid1_1", "text", "b", "video_id", "vid1")

	summary, err := s.AllDocuments(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalKeys)
	require.Len(t, summary.Sample, 2)
	assert.Equal(t, "doc:vid1_0", summary.Sample[0].Key)
	assert.Equal(t, "a", summary.Sample[0].Fields["text"])
}

func TestDocumentCount(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	mr.HSet("doc:vid1_0", "text", "a")
	mr.HSet("doc:vid1_1", "text", "b")

	n, err := s.DocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSearch_DegradesToEmptyOnBackendError(t *testing.T) {
	// miniredis has no FT.SEARCH; the adapter must swallow the error.
	s, _ := setupStore(t)

	result := s.Search(context.Background(), "hello")

	assert.Zero(t, result.Total)
	assert.Empty(t, result.Docs)
}

func TestEnsureIndex_SurfacesUnknownErrors(t *testing.T) {
	// miniredis rejects FT.CREATE, which is not a schema-exists reply.
	s, _ := setupStore(t)

	err := s.EnsureIndex(context.Background())
	assert.Error(t, err)
}

func TestEnsureIndex_OnlyTalksToBackendOnce(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	first := s.EnsureIndex(ctx)
	mr.Close()
	second := s.EnsureIndex(ctx)

	// Second call must return the memoized outcome, not re-dial.
	assert.Equal(t, first, second)
}

func TestIsIndexExistsErr(t *testing.T) {
	assert.False(t, isIndexExistsErr(nil))
	assert.False(t, isIndexExistsErr(assert.AnError))
	assert.True(t, isIndexExistsErr(errIndexExists{}))
}

type errIndexExists struct{}

func (errIndexExists) Error() string { return "Index already exists" }

func TestSplitDocKey(t *testing.T) {
	tests := []struct {
		key     string
		videoID string
		ordinal string
		ok      bool
	}{
		{"doc:vid1_0", "vid1", "0", true},
		{"doc:vid_2abc_12", "vid_2abc", "12", true},
		{"doc:nounderscore", "", "", false},
		{"doc:_0", "", "", false},
		{"doc:vid1_", "", "", false},
		{"other:vid1_0", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			videoID, ordinal, ok := SplitDocKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.videoID, videoID)
			assert.Equal(t, tt.ordinal, ordinal)
		})
	}
}

func TestDocID(t *testing.T) {
	assert.Equal(t, "vid1_0", DocID("vid1", 0))
	assert.Equal(t, "vid_2abc_17", DocID("vid_2abc", 17))
}

func TestClientOptions_SpeaksRESP2(t *testing.T) {
	opts := clientOptions(Config{Host: "redis.example", Port: 6380, Password: "s3cret", DB: 2})

	assert.Equal(t, "redis.example:6380", opts.Addr)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	// The reply parsers expect flat array replies; RESP3 would reshape
	// FT.SEARCH and MODULE LIST into maps.
	assert.Equal(t, 2, opts.Protocol)
}
