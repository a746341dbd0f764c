package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeStoreUnreachable, CategoryStore},
		{ErrCodeTranscriptUnavailable, CategorySource},
		{ErrCodeQueryEmpty, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.want, err.Category)
		})
	}
}

func TestNew_DerivesSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, New(ErrCodeStoreUnreachable, "down", nil).Severity)
	assert.Equal(t, SeverityWarning, New(ErrCodeTranscriptUnavailable, "none", nil).Severity)
	assert.Equal(t, SeverityError, New(ErrCodeIndexFailed, "failed", nil).Severity)
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeStoreUnreachable, "redis is down", nil)
	assert.Equal(t, "[ERR_201_STORE_UNREACHABLE] redis is down", err.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStoreUnreachable, cause)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Message)
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeTranscriptUnavailable, "video one", nil)
	b := New(ErrCodeTranscriptUnavailable, "video two", nil)
	c := New(ErrCodeVideoNotFound, "gone", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	inner := New(ErrCodeTranscriptUnavailable, "no captions", nil)
	wrapped := fmt.Errorf("indexing video abc: %w", inner)

	assert.ErrorIs(t, wrapped, New(ErrCodeTranscriptUnavailable, "", nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrCodeStoreUnreachable, "down", nil)))
	assert.False(t, IsRetryable(New(ErrCodeQueryEmpty, "empty", nil)))
	assert.False(t, IsRetryable(stderrors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(StoreError("down", nil)))
	assert.False(t, IsFatal(New(ErrCodeTranscriptUnavailable, "none", nil)))
	assert.False(t, IsFatal(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeConfigInvalid, GetCode(ConfigError("bad yaml", nil)))
	assert.Empty(t, GetCode(stderrors.New("plain")))
}

func TestWithDetail_Chains(t *testing.T) {
	err := SourceError("fetch failed", nil).
		WithDetail("video_id", "abc123").
		WithDetail("playlist_id", "PL1")

	assert.Equal(t, "abc123", err.Details["video_id"])
	assert.Equal(t, "PL1", err.Details["playlist_id"])
}
