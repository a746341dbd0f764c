// Package index orchestrates indexing runs: it resolves configured entries
// to videos, skips videos already present in the store, chunks transcripts,
// and writes one document per chunk.
package index

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/transcripter/transcripter/internal/config"
	"github.com/transcripter/transcripter/internal/source"
	"github.com/transcripter/transcripter/internal/store"
	"github.com/transcripter/transcripter/internal/transcript"
)

// DocumentStore is the slice of the store the indexer needs.
type DocumentStore interface {
	EnsureIndex(ctx context.Context) error
	DocumentExists(ctx context.Context, docID string) (bool, error)
	AddDocument(ctx context.Context, docID string, doc store.Document) error
	PartiallyIndexed(ctx context.Context) (map[string]store.PartialVideo, error)
}

// EntryKind classifies a configured entry.
type EntryKind string

const (
	EntryPlaylist EntryKind = "playlist"
	EntryChannel  EntryKind = "channel"
	EntryVideo    EntryKind = "video"
)

// Result is the outcome for one configured entry. NewlyIndexed is always a
// subset of Indexed.
type Result struct {
	Entry string    `json:"entry"`
	Kind  EntryKind `json:"kind"`
	// Indexed lists every video the entry resolved to and processed,
	// including videos skipped as already stored and videos whose
	// transcript fetch failed.
	Indexed []string `json:"indexed"`
	// NewlyIndexed lists the videos written during this run.
	NewlyIndexed []string `json:"newly_indexed"`
}

// Config assembles an Indexer. Source and Store are injected; the indexer
// owns neither lifecycle.
type Config struct {
	Source source.Source
	Store  DocumentStore

	// ChunkSize is the number of raw segments merged per document.
	// Defaults to transcript.DefaultChunkSize.
	ChunkSize int

	// LockPath guards against concurrent indexing processes racing the
	// exists-then-write sequence. Empty disables locking (tests).
	LockPath string
}

// Indexer runs indexing passes. Videos are processed sequentially: the
// exists check and the chunk writes for one video must not interleave with
// another pass over the same video.
type Indexer struct {
	source    source.Source
	store     DocumentStore
	chunkSize int
	lockPath  string
}

// New creates an Indexer.
func New(cfg Config) *Indexer {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = transcript.DefaultChunkSize
	}
	return &Indexer{
		source:    cfg.Source,
		store:     cfg.Store,
		chunkSize: chunkSize,
		lockPath:  cfg.LockPath,
	}
}

// Run indexes every configured entry and returns one Result per entry, in
// configuration order. Individual video failures never abort the batch; a
// store that cannot be reached or schema'd does.
func (ix *Indexer) Run(ctx context.Context, sources config.Sources) ([]Result, error) {
	if err := ix.store.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	release, err := acquireLock(ix.lockPath)
	if err != nil {
		return nil, err
	}
	defer release()

	if sources.Empty() {
		slog.Info("no sources configured for indexing")
		return nil, nil
	}

	results := make([]Result, 0, len(sources.Playlists)+len(sources.Channels)+len(sources.Videos))
	for _, id := range sources.Playlists {
		results = append(results, ix.indexEntry(ctx, EntryPlaylist, id))
	}
	for _, id := range sources.Channels {
		results = append(results, ix.indexEntry(ctx, EntryChannel, id))
	}
	for _, id := range sources.Videos {
		results = append(results, ix.indexEntry(ctx, EntryVideo, id))
	}
	return results, nil
}

// Repair re-indexes videos whose stored ordinal sequence has gaps. The
// whole-video gate is bypassed; per-chunk dedup keeps existing documents
// untouched and only the missing ordinals are written.
func (ix *Indexer) Repair(ctx context.Context) ([]string, error) {
	if err := ix.store.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	release, err := acquireLock(ix.lockPath)
	if err != nil {
		return nil, err
	}
	defer release()

	videos, err := ix.store.PartiallyIndexed(ctx)
	if err != nil {
		return nil, err
	}

	var repaired []string
	for videoID, partial := range videos {
		if !HasOrdinalGap(partial.Chunks) {
			continue
		}
		slog.Warn("repairing partially indexed video",
			slog.String("video_id", videoID),
			slog.Int("chunks_present", partial.ChunkCount))

		video, err := ix.source.Video(ctx, videoID)
		if err != nil {
			slog.Error("repair: fetching video metadata failed",
				slog.String("video_id", videoID), slog.String("error", err.Error()))
			continue
		}
		if ix.writeVideo(ctx, video) {
			repaired = append(repaired, videoID)
		}
	}
	return repaired, nil
}

// indexEntry resolves one entry to its videos and indexes them. Resolution
// failures yield an empty Result so sibling entries still run.
func (ix *Indexer) indexEntry(ctx context.Context, kind EntryKind, id string) Result {
	result := Result{Entry: id, Kind: kind, Indexed: []string{}, NewlyIndexed: []string{}}

	videos, err := ix.resolve(ctx, kind, id)
	if err != nil {
		slog.Error("resolving entry failed",
			slog.String("kind", string(kind)),
			slog.String("entry", id),
			slog.String("error", err.Error()))
		return result
	}
	slog.Info("entry resolved",
		slog.String("kind", string(kind)),
		slog.String("entry", id),
		slog.Int("videos", len(videos)))

	for _, video := range videos {
		indexed, newly := ix.indexVideo(ctx, video)
		if indexed {
			result.Indexed = append(result.Indexed, video.ID)
		}
		if newly {
			result.NewlyIndexed = append(result.NewlyIndexed, video.ID)
		}
	}

	slog.Info("entry indexed",
		slog.String("entry", id),
		slog.Int("indexed", len(result.Indexed)),
		slog.Int("newly_indexed", len(result.NewlyIndexed)))
	return result
}

func (ix *Indexer) resolve(ctx context.Context, kind EntryKind, id string) ([]source.Video, error) {
	switch kind {
	case EntryPlaylist:
		return ix.source.PlaylistVideos(ctx, id)
	case EntryChannel:
		return ix.source.ChannelVideos(ctx, id)
	default:
		video, err := ix.source.Video(ctx, id)
		if err != nil {
			return nil, err
		}
		return []source.Video{video}, nil
	}
}

// indexVideo processes one video through its state machine:
// unseen -> skipped (already stored) | failed (fetch error) | written.
// Returns whether the video counts as indexed and as newly indexed.
func (ix *Indexer) indexVideo(ctx context.Context, video source.Video) (indexed, newly bool) {
	// Whole-video gate: the first chunk standing in for the video. A hit
	// skips the transcript fetch entirely; gapped videos are handled by
	// Repair, not here.
	exists, err := ix.store.DocumentExists(ctx, store.DocID(video.ID, 0))
	if err != nil {
		slog.Error("existence check failed",
			slog.String("video_id", video.ID), slog.String("error", err.Error()))
		return false, false
	}
	if exists {
		slog.Info("video already indexed", slog.String("video_id", video.ID))
		return true, false
	}

	if !ix.writeVideo(ctx, video) {
		return true, false
	}
	slog.Info("video indexed",
		slog.String("video_id", video.ID), slog.String("title", video.Title))
	return true, true
}

// writeVideo fetches, chunks, and stores one video's transcript. Documents
// that already exist are skipped, making the write path idempotent.
func (ix *Indexer) writeVideo(ctx context.Context, video source.Video) bool {
	segments, err := ix.source.Transcript(ctx, video.ID)
	if err != nil {
		if errors.Is(err, source.ErrTranscriptUnavailable) {
			slog.Warn("no transcript available", slog.String("video_id", video.ID))
		} else {
			slog.Error("transcript fetch failed",
				slog.String("video_id", video.ID), slog.String("error", err.Error()))
		}
		return false
	}

	chunks := transcript.Merge(segments, ix.chunkSize)
	for ordinal, chunk := range chunks {
		docID := store.DocID(video.ID, ordinal)

		exists, err := ix.store.DocumentExists(ctx, docID)
		if err != nil {
			slog.Error("existence check failed",
				slog.String("doc_id", docID), slog.String("error", err.Error()))
			return false
		}
		if exists {
			continue
		}

		doc := store.Document{
			Text:             chunk.Text,
			VideoID:          video.ID,
			VideoTitle:       video.Title,
			VideoPublishDate: video.PublishDate,
			StartTime:        chunk.Start,
			Timecode:         transcript.Timecode(chunk.Start),
		}
		if err := ix.store.AddDocument(ctx, docID, doc); err != nil {
			slog.Error("writing document failed",
				slog.String("doc_id", docID), slog.String("error", err.Error()))
			return false
		}
	}
	return true
}

// HasOrdinalGap reports whether the sorted ordinal strings skip a number.
// Ordinals are zero-based, so a complete prefix covers 0..n-1.
func HasOrdinalGap(ordinals []string) bool {
	present := make(map[string]struct{}, len(ordinals))
	for _, o := range ordinals {
		present[o] = struct{}{}
	}
	for i := range len(ordinals) {
		if _, ok := present[strconv.Itoa(i)]; !ok {
			return true
		}
	}
	return false
}
