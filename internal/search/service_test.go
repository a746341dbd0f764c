package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcripter/transcripter/internal/store"
)

type fakeSearcher struct {
	reply   store.SearchResult
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) store.SearchResult {
	f.queries = append(f.queries, query)
	return f.reply
}

func TestSearch_MapsStoreFields(t *testing.T) {
	st := &fakeSearcher{reply: store.SearchResult{
		Total: 2,
		Docs: []map[string]string{
			{
				"text":        "welcome to the show",
				"video_id":    "abc123",
				"video_title": "Episode 1",
				"start_time":  "42.5",
				"timecode":    "00:00:42",
			},
			{
				"text":        "thanks for watching",
				"video_id":    "abc123",
				"video_title": "Episode 1",
				"start_time":  "3661",
				"timecode":    "01:01:01",
			},
		},
	}}
	svc := New(st)

	results := svc.Search(context.Background(), "welcome")

	require.Len(t, results, 2)
	assert.Equal(t, Result{
		VideoID:    "abc123",
		VideoTitle: "Episode 1",
		Snippet:    "welcome to the show",
		StartTime:  42.5,
		Timecode:   "00:00:42",
	}, results[0])
	assert.Equal(t, 3661.0, results[1].StartTime)
	assert.Equal(t, []string{"welcome"}, st.queries)
}

func TestSearch_BlankQuerySkipsStore(t *testing.T) {
	st := &fakeSearcher{}
	svc := New(st)

	for _, query := range []string{"", "   ", "\t\n"} {
		assert.Nil(t, svc.Search(context.Background(), query))
	}
	assert.Empty(t, st.queries)
}

func TestSearch_MalformedRowsGetDefaults(t *testing.T) {
	st := &fakeSearcher{reply: store.SearchResult{
		Total: 2,
		Docs: []map[string]string{
			{"text": "no times here", "video_id": "v1"},
			{"text": "bad start", "video_id": "v2", "start_time": "not-a-number"},
		},
	}}
	svc := New(st)

	results := svc.Search(context.Background(), "anything")

	require.Len(t, results, 2)
	assert.Equal(t, 0.0, results[0].StartTime)
	assert.Equal(t, "00:00:00", results[0].Timecode)
	assert.Equal(t, 0.0, results[1].StartTime)
	assert.Equal(t, "00:00:00", results[1].Timecode)
}

func TestSearch_NoMatchesYieldsEmptySlice(t *testing.T) {
	svc := New(&fakeSearcher{})

	results := svc.Search(context.Background(), "nothing")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
