// Package source fetches video metadata and raw transcripts from the video
// platform. It is the external collaborator boundary: everything downstream
// consumes the Source interface, never the platform clients directly.
package source

import (
	"context"

	"github.com/transcripter/transcripter/internal/errors"
	"github.com/transcripter/transcripter/internal/transcript"
)

// ErrTranscriptUnavailable is returned when the platform has no transcript
// for a video. Callers treat it as a per-video condition, not a batch failure.
var ErrTranscriptUnavailable = errors.New(
	errors.ErrCodeTranscriptUnavailable, "no transcript available", nil)

// Video is the metadata of a single video, immutable once fetched for an
// indexing pass.
type Video struct {
	// ID is the platform's unique video identifier.
	ID string
	// Title is the video title at fetch time.
	Title string
	// PublishDate is the ISO-8601 publish timestamp.
	PublishDate string
}

// Source supplies video metadata and transcripts.
type Source interface {
	// Video fetches metadata for a single video.
	Video(ctx context.Context, videoID string) (Video, error)

	// PlaylistVideos fetches metadata for all videos in a playlist, in
	// playlist order.
	PlaylistVideos(ctx context.Context, playlistID string) ([]Video, error)

	// ChannelVideos fetches metadata for all uploads of a channel.
	ChannelVideos(ctx context.Context, channelID string) ([]Video, error)

	// Transcript fetches the ordered raw transcript segments of a video.
	// Returns ErrTranscriptUnavailable when the platform has none.
	Transcript(ctx context.Context, videoID string) ([]transcript.Segment, error)
}
