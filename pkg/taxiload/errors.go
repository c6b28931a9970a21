package taxiload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure kinds of an ingestion run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	_, err := loader.Run(ctx, job)
//	if errors.Is(err, taxiload.ErrNameFormat) {
//	    // nothing was downloaded or written
//	}
var (
	// ErrNameFormat indicates the destination table name lacks two trailing numeric segments.
	ErrNameFormat = errors.New("invalid table name")

	// ErrSourceRead indicates a network failure, a malformed remote file,
	// or a coercion failure while decoding a batch.
	ErrSourceRead = errors.New("source read failed")

	// ErrDestinationWrite indicates creating/replacing the table or appending a batch failed.
	ErrDestinationWrite = errors.New("destination write failed")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrNameFormat):
		return ExitNameFormatError
	case errors.Is(err, ErrSourceRead):
		return ExitSourceReadError
	case errors.Is(err, ErrDestinationWrite):
		return ExitDestinationError
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "accepts") {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
