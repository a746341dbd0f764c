// Package errors provides structured error handling for transcripter.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Document store errors
//   - 3XX: Video source errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStore indicates document store (search backend) errors.
	CategoryStore Category = "STORE"
	// CategorySource indicates video source (metadata/transcript) errors.
	CategorySource Category = "SOURCE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Store errors (200-299)
	ErrCodeStoreUnreachable = "ERR_201_STORE_UNREACHABLE"
	ErrCodeSchemaCreate     = "ERR_202_SCHEMA_CREATE_FAILED"
	ErrCodeMalformedReply   = "ERR_203_MALFORMED_REPLY"

	// Source errors (300-399)
	ErrCodeSourceUnreachable     = "ERR_301_SOURCE_UNREACHABLE"
	ErrCodeTranscriptUnavailable = "ERR_302_TRANSCRIPT_UNAVAILABLE"
	ErrCodeVideoNotFound         = "ERR_303_VIDEO_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty   = "ERR_402_QUERY_EMPTY"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeIndexFailed = "ERR_502_INDEX_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStore
	case '3':
		return CategorySource
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Store and config failures abort the operation; a missing transcript only
// degrades the current video.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeStoreUnreachable, ErrCodeConfigInvalid, ErrCodeConfigNotFound:
		return SeverityFatal
	case ErrCodeTranscriptUnavailable, ErrCodeMalformedReply:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// isRetryableCode reports whether operations failing with this code may
// succeed on a later run.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeStoreUnreachable, ErrCodeSourceUnreachable, ErrCodeIndexFailed:
		return true
	default:
		return false
	}
}
