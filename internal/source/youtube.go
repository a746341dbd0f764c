package source

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/transcripter/transcripter/internal/errors"
	"github.com/transcripter/transcripter/internal/transcript"
)

// playlistPageSize is the maximum page size the playlistItems API allows.
const playlistPageSize = 50

// YouTube implements Source against the YouTube Data API v3 for metadata and
// the timedtext caption endpoint for transcripts.
type YouTube struct {
	svc      *youtube.Service
	captions *CaptionClient
}

// NewYouTube creates a YouTube source authenticated with an API key.
func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.SourceError("creating youtube client", err)
	}
	return &YouTube{svc: svc, captions: NewCaptionClient()}, nil
}

// NewYouTubeWithCaptions creates a YouTube source with a custom caption
// client. Used by tests and callers that need a non-default caption endpoint.
func NewYouTubeWithCaptions(svc *youtube.Service, captions *CaptionClient) *YouTube {
	return &YouTube{svc: svc, captions: captions}
}

// Video fetches metadata for a single video.
func (y *YouTube) Video(ctx context.Context, videoID string) (Video, error) {
	resp, err := y.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return Video{}, errors.SourceError("fetching video metadata", err).
			WithDetail("video_id", videoID)
	}
	if len(resp.Items) == 0 {
		return Video{}, errors.New(errors.ErrCodeVideoNotFound,
			fmt.Sprintf("video %s not found", videoID), nil)
	}

	item := resp.Items[0]
	return Video{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		PublishDate: item.Snippet.PublishedAt,
	}, nil
}

// PlaylistVideos fetches all videos of a playlist in playlist order,
// following pagination.
func (y *YouTube) PlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	var videos []Video
	pageToken := ""
	for {
		call := y.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(playlistPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, errors.SourceError("fetching playlist items", err).
				WithDetail("playlist_id", playlistID)
		}

		for _, item := range resp.Items {
			videos = append(videos, Video{
				ID:          item.ContentDetails.VideoId,
				Title:       item.Snippet.Title,
				PublishDate: item.Snippet.PublishedAt,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	slog.Debug("playlist resolved",
		slog.String("playlist_id", playlistID), slog.Int("videos", len(videos)))
	return videos, nil
}

// ChannelVideos fetches all uploads of a channel by resolving the channel's
// uploads playlist.
func (y *YouTube) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	resp, err := y.svc.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, errors.SourceError("fetching channel info", err).
			WithDetail("channel_id", channelID)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return nil, errors.New(errors.ErrCodeVideoNotFound,
			fmt.Sprintf("channel %s not found", channelID), nil)
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return nil, errors.New(errors.ErrCodeVideoNotFound,
			fmt.Sprintf("channel %s has no uploads playlist", channelID), nil)
	}
	return y.PlaylistVideos(ctx, uploads)
}

// Transcript fetches the raw transcript segments of a video.
func (y *YouTube) Transcript(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	return y.captions.Fetch(ctx, videoID)
}
