// Package search maps raw store replies to transcript search results.
package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/transcripter/transcripter/internal/store"
)

// Searcher is the store-side query surface the service consumes. Backend
// failures surface as an empty SearchResult, not an error.
type Searcher interface {
	Search(ctx context.Context, query string) store.SearchResult
}

// Result is one transcript chunk matching a query.
type Result struct {
	VideoID    string  `json:"video_id"`
	VideoTitle string  `json:"video_title"`
	Snippet    string  `json:"snippet"`
	StartTime  float64 `json:"start_time"`
	Timecode   string  `json:"timecode"`
}

// Service runs free-text queries against the document store.
type Service struct {
	store Searcher
}

// New creates a Service backed by the given store.
func New(st Searcher) *Service {
	return &Service{store: st}
}

// Search returns the matching chunks for a free-text query. A blank query
// returns nil without touching the store. Rows with missing or malformed
// fields fall back to zero values rather than dropping out of the result.
func (s *Service) Search(ctx context.Context, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	reply := s.store.Search(ctx, query)

	results := make([]Result, 0, len(reply.Docs))
	for _, fields := range reply.Docs {
		results = append(results, fromFields(fields))
	}
	return results
}

func fromFields(fields map[string]string) Result {
	result := Result{
		VideoID:    fields["video_id"],
		VideoTitle: fields["video_title"],
		Snippet:    fields["text"],
		Timecode:   fields["timecode"],
	}
	if start, err := strconv.ParseFloat(fields["start_time"], 64); err == nil {
		result.StartTime = start
	}
	if result.Timecode == "" {
		result.Timecode = "00:00:00"
	}
	return result
}
