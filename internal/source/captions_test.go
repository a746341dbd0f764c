package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captionServer(t *testing.T, handler http.HandlerFunc) *CaptionClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCaptionClient(WithCaptionBaseURL(srv.URL))
}

func TestCaptionClient_Fetch_DecodesSegments(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("v"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">welcome to the show</text>
  <text start="2.5" dur="3.1">today we talk about &amp;search</text>
</transcript>`))
	})

	segments, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Equal(t, 0.0, segments[0].Start)
	assert.Equal(t, "welcome to the show", segments[0].Text)
	assert.Equal(t, 2.5, segments[1].Start)
	assert.Equal(t, "today we talk about &search", segments[1].Text)
}

func TestCaptionClient_Fetch_EmptyBodyMeansUnavailable(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Fetch(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
}

func TestCaptionClient_Fetch_EmptyTranscriptMeansUnavailable(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<transcript></transcript>`))
	})

	_, err := client.Fetch(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
}

func TestCaptionClient_Fetch_NotFoundMeansUnavailable(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Fetch(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
}

func TestCaptionClient_Fetch_ServerErrorSurfaces(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Fetch(context.Background(), "abc123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTranscriptUnavailable)
}

func TestCaptionClient_Fetch_MalformedXMLSurfaces(t *testing.T) {
	client := captionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<transcript><text start="0"`))
	})

	_, err := client.Fetch(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestCaptionClient_LanguageOption(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("lang")
		_, _ = w.Write([]byte(`<transcript><text start="0" dur="1">hei</text></transcript>`))
	}))
	t.Cleanup(srv.Close)

	client := NewCaptionClient(WithCaptionBaseURL(srv.URL), WithCaptionLanguage("no"))
	_, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "no", gotLang)
}
