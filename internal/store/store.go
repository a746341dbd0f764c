package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/transcripter/transcripter/internal/errors"
)

// searchLimit caps the number of documents one query may return.
const searchLimit = 1000

// Config holds the connection settings for the search backend.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	// Index is the name of the full-text index (default: video_index).
	Index string
}

// DefaultConfig returns settings for a local unauthenticated backend.
func DefaultConfig() Config {
	return Config{
		Host:  "localhost",
		Port:  6379,
		Index: "video_index",
	}
}

// Store owns the connection to the search backend. Construct one per process
// and inject it into the indexer and search service; the underlying client
// dials lazily, so connection failures surface at first use.
type Store struct {
	client redis.UniversalClient
	closer func() error
	index  string

	ensureOnce sync.Once
	ensureErr  error
}

// New creates a Store from connection settings.
func New(cfg Config) *Store {
	client := redis.NewClient(clientOptions(cfg))
	s := NewWithClient(client, cfg.Index)
	s.closer = client.Close
	return s
}

// clientOptions maps connection settings to client options. Protocol is
// pinned to RESP2: the raw FT.SEARCH, FT.INFO, and MODULE LIST replies are
// parsed as flat arrays, and RESP3 reshapes them into maps.
func clientOptions(cfg Config) *redis.Options {
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		Protocol: 2,
	}
}

// NewWithClient creates a Store over an existing client. Used by tests and
// callers that manage the connection themselves. The client must speak
// RESP2; see clientOptions.
func NewWithClient(client redis.UniversalClient, index string) *Store {
	if index == "" {
		index = "video_index"
	}
	return &Store{client: client, index: index}
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// EnsureIndex creates the full-text index schema if absent. Safe to call from
// multiple goroutines; only the first call talks to the backend. An already
// existing index is success, any other backend error is fatal and surfaced.
func (s *Store) EnsureIndex(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		s.ensureErr = s.createIndex(ctx)
	})
	return s.ensureErr
}

func (s *Store) createIndex(ctx context.Context) error {
	err := s.client.Do(ctx,
		"FT.CREATE", s.index,
		"ON", "HASH",
		"PREFIX", "1", KeyPrefix,
		"SCHEMA",
		"text", "TEXT", "WEIGHT", "5.0",
		"video_id", "TAG",
		"video_title", "TEXT", "WEIGHT", "2.0",
		"video_publish_date", "TEXT",
		"start_time", "NUMERIC", "SORTABLE",
		"timecode", "TEXT",
	).Err()
	if err == nil {
		slog.Info("search index created", slog.String("index", s.index))
		return nil
	}
	if isIndexExistsErr(err) {
		slog.Debug("search index already exists", slog.String("index", s.index))
		return nil
	}
	return errors.New(errors.ErrCodeSchemaCreate, "creating search index", err).
		WithDetail("index", s.index)
}

// isIndexExistsErr matches the backend's schema-already-exists reply.
func isIndexExistsErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Index already exists")
}

// DocumentExists reports whether a document with the given ID is stored.
func (s *Store) DocumentExists(ctx context.Context, docID string) (bool, error) {
	n, err := s.client.Exists(ctx, KeyPrefix+docID).Result()
	if err != nil {
		return false, errors.StoreError("checking document existence", err).
			WithDetail("doc_id", docID)
	}
	return n > 0, nil
}

// AddDocument writes (or overwrites) one document. All field values are
// stored in string form; start_time stays numeric in the schema for sorting.
func (s *Store) AddDocument(ctx context.Context, docID string, doc Document) error {
	fields := map[string]string{
		"text":               doc.Text,
		"video_id":           doc.VideoID,
		"video_title":        doc.VideoTitle,
		"video_publish_date": doc.VideoPublishDate,
		"start_time":         strconv.FormatFloat(doc.StartTime, 'f', -1, 64),
		"timecode":           doc.Timecode,
	}
	if err := s.client.HSet(ctx, KeyPrefix+docID, fields).Err(); err != nil {
		return errors.StoreError("adding document", err).WithDetail("doc_id", docID)
	}
	slog.Debug("document added", slog.String("doc_id", docID))
	return nil
}

// Search runs a full-text query across the text and video_title fields.
// Backend failures degrade to an empty result instead of propagating.
func (s *Store) Search(ctx context.Context, query string) SearchResult {
	q := fmt.Sprintf("(@text:%s) | (@video_title:%s)", query, query)

	reply, err := s.client.Do(ctx, "FT.SEARCH", s.index, q, "LIMIT", 0, searchLimit).Result()
	if err != nil {
		slog.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		return SearchResult{}
	}

	result, err := parseSearchReply(reply)
	if err != nil {
		slog.Warn("malformed search reply", slog.String("query", query), slog.String("error", err.Error()))
		return SearchResult{}
	}
	return result
}

// VideoIDs returns the distinct set of indexed video IDs, derived from the
// stored document keys.
func (s *Store) VideoIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	err := s.walkKeys(ctx, func(key string) {
		if videoID, _, ok := SplitDocKey(key); ok {
			ids[videoID] = struct{}{}
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PartiallyIndexed groups stored keys by video and reports the ordinals
// present for each. Gaps are reported, never repaired here.
func (s *Store) PartiallyIndexed(ctx context.Context) (map[string]PartialVideo, error) {
	chunks := make(map[string][]string)
	err := s.walkKeys(ctx, func(key string) {
		if videoID, ordinal, ok := SplitDocKey(key); ok {
			chunks[videoID] = append(chunks[videoID], ordinal)
		}
	})
	if err != nil {
		return nil, err
	}

	videos := make(map[string]PartialVideo, len(chunks))
	for videoID, ordinals := range chunks {
		sort.Strings(ordinals)
		videos[videoID] = PartialVideo{ChunkCount: len(ordinals), Chunks: ordinals}
	}
	return videos, nil
}

// AllDocuments retrieves every stored document with its key.
func (s *Store) AllDocuments(ctx context.Context) (Summary, error) {
	var keys []string
	if err := s.walkKeys(ctx, func(key string) { keys = append(keys, key) }); err != nil {
		return Summary{}, err
	}
	sort.Strings(keys)

	summary := Summary{TotalKeys: len(keys), Sample: make([]KeyedDocument, 0, len(keys))}
	for _, key := range keys {
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return Summary{}, errors.StoreError("reading document", err).WithDetail("key", key)
		}
		summary.Sample = append(summary.Sample, KeyedDocument{Key: key, Fields: fields})
	}
	return summary, nil
}

// DocumentCount returns the total number of keys in the backend database.
func (s *Store) DocumentCount(ctx context.Context) (int64, error) {
	n, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return 0, errors.StoreError("counting documents", err)
	}
	return n, nil
}

// IndexInfo returns the backend's index statistics as a flat map.
func (s *Store) IndexInfo(ctx context.Context) (map[string]string, error) {
	reply, err := s.client.Do(ctx, "FT.INFO", s.index).Result()
	if err != nil {
		return nil, errors.StoreError("fetching index info", err).WithDetail("index", s.index)
	}
	return parsePairs(reply)
}

// CheckSearchModule reports whether the backend has the full-text search
// module loaded. Used by preflight checks before serving.
func (s *Store) CheckSearchModule(ctx context.Context) bool {
	reply, err := s.client.Do(ctx, "MODULE", "LIST").Result()
	if err != nil {
		slog.Error("module list failed", slog.String("error", err.Error()))
		return false
	}
	return hasSearchModule(reply)
}

// walkKeys scans the document key space and calls fn for every key.
func (s *Store) walkKeys(ctx context.Context, fn func(key string)) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
		if err != nil {
			return errors.StoreError("scanning document keys", err)
		}
		for _, key := range keys {
			fn(key)
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// SplitDocKey breaks a stored key into video ID and chunk ordinal.
// The ordinal is everything after the last underscore, so video IDs that
// themselves contain underscores stay intact.
func SplitDocKey(key string) (videoID, ordinal string, ok bool) {
	body, found := strings.CutPrefix(key, KeyPrefix)
	if !found {
		return "", "", false
	}
	idx := strings.LastIndex(body, "_")
	if idx <= 0 || idx == len(body)-1 {
		return "", "", false
	}
	return body[:idx], body[idx+1:], true
}

// DocID builds the canonical document identity for a chunk of a video.
func DocID(videoID string, ordinal int) string {
	return fmt.Sprintf("%s_%d", videoID, ordinal)
}
