package source

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/transcripter/transcripter/internal/errors"
	"github.com/transcripter/transcripter/internal/transcript"
)

const (
	defaultCaptionBaseURL = "https://video.google.com/timedtext"
	defaultCaptionLang    = "en"
	captionFetchTimeout   = 30 * time.Second
)

// CaptionClient fetches transcripts from the timedtext caption endpoint.
type CaptionClient struct {
	http    *resty.Client
	baseURL string
	lang    string
}

// CaptionOption configures a CaptionClient.
type CaptionOption func(*CaptionClient)

// WithCaptionBaseURL overrides the caption endpoint. Used by tests.
func WithCaptionBaseURL(url string) CaptionOption {
	return func(c *CaptionClient) { c.baseURL = url }
}

// WithCaptionLanguage sets the transcript language (default: en).
func WithCaptionLanguage(lang string) CaptionOption {
	return func(c *CaptionClient) { c.lang = lang }
}

// NewCaptionClient creates a caption client with the given options.
func NewCaptionClient(opts ...CaptionOption) *CaptionClient {
	c := &CaptionClient{
		http:    resty.New().SetTimeout(captionFetchTimeout),
		baseURL: defaultCaptionBaseURL,
		lang:    defaultCaptionLang,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// timedText mirrors the caption endpoint's XML payload.
type timedText struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// Fetch retrieves and decodes the transcript of a video. An empty caption
// document means the video has no transcript in the requested language and
// yields ErrTranscriptUnavailable.
func (c *CaptionClient) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lang": c.lang,
			"v":    videoID,
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, errors.SourceError("fetching captions", err).
			WithDetail("video_id", videoID)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrTranscriptUnavailable
	}
	if resp.IsError() {
		return nil, errors.SourceError("caption endpoint error", nil).
			WithDetail("video_id", videoID).
			WithDetail("status", resp.Status())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, ErrTranscriptUnavailable
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, errors.SourceError("decoding captions", err).
			WithDetail("video_id", videoID)
	}
	if len(doc.Texts) == 0 {
		return nil, ErrTranscriptUnavailable
	}

	segments := make([]transcript.Segment, 0, len(doc.Texts))
	for _, line := range doc.Texts {
		segments = append(segments, transcript.Segment{
			Start: line.Start,
			Text:  line.Text,
		})
	}
	return segments, nil
}
