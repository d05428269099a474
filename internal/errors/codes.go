// Package errors provides structured error handling for amanlog.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (log file, archives, locks)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates the logging backend cannot be used at all.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeAlreadyInitialized    = "ERR_101_ALREADY_INITIALIZED"
	ErrCodeInvalidArchivePattern = "ERR_102_INVALID_ARCHIVE_PATTERN"
	ErrCodeInvalidPolicy         = "ERR_103_INVALID_ROTATION_POLICY"
	ErrCodeInvalidLogPath        = "ERR_104_INVALID_LOG_PATH"
	ErrCodeConfigInvalid         = "ERR_105_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeLogFileOpen    = "ERR_201_LOG_FILE_OPEN"
	ErrCodeRotationFailed = "ERR_202_ROTATION_FAILED"
	ErrCodeLockFailed     = "ERR_203_LOCK_FAILED"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_ALREADY_INITIALIZED")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeLogFileOpen:
		return SeverityFatal
	case ErrCodeRotationFailed, ErrCodeLockFailed:
		// Writes continue on the active file.
		return SeverityWarning
	default:
		return SeverityError
	}
}
