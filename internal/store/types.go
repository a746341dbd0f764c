// Package store is the persistence layer for indexed transcript chunks.
// It is the sole reader/writer of the RediSearch backend and owns the index
// schema, the doc:{video_id}_{ordinal} key convention, and query syntax.
package store

// KeyPrefix is the Redis key prefix shared by all indexed documents.
// The full-text index is declared over this prefix.
const KeyPrefix = "doc:"

// Document is the persisted unit: one merged transcript chunk together with
// the metadata of its source video.
type Document struct {
	// Text is the merged chunk text, the primary search field.
	Text string
	// VideoID identifies the source video.
	VideoID string
	// VideoTitle is the title at indexing time.
	VideoTitle string
	// VideoPublishDate is the ISO-8601 publish date at indexing time.
	VideoPublishDate string
	// StartTime is the chunk offset in seconds, numeric and sortable.
	StartTime float64
	// Timecode is the human-readable HH:MM:SS form of StartTime.
	Timecode string
}

// SearchResult is the raw outcome of a full-text query.
type SearchResult struct {
	// Total is the backend's total hit count, which may exceed len(Docs).
	Total int64
	// Docs holds the matched documents as flat field maps, in backend order.
	Docs []map[string]string
}

// KeyedDocument pairs a raw document key with its stored fields.
type KeyedDocument struct {
	Key    string            `json:"key"`
	Fields map[string]string `json:"fields"`
}

// Summary describes the whole key space, backing the /indexed_documents
// endpoint.
type Summary struct {
	TotalKeys int             `json:"total_keys"`
	Sample    []KeyedDocument `json:"sample"`
}

// PartialVideo reports which chunk ordinals are actually present for one
// video. A gap or short sequence means indexing was interrupted.
type PartialVideo struct {
	ChunkCount int      `json:"chunk_count"`
	Chunks     []string `json:"chunks"`
}
