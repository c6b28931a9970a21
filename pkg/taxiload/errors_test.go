package taxiload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, taxiload.ExitSuccess},
		{"name format", fmt.Errorf("table %q: %w", "trips", taxiload.ErrNameFormat), taxiload.ExitNameFormatError},
		{"source read", fmt.Errorf("GET: %w", taxiload.ErrSourceRead), taxiload.ExitSourceReadError},
		{"destination write", fmt.Errorf("append: %w", taxiload.ErrDestinationWrite), taxiload.ExitDestinationError},
		{"invalid config", taxiload.ErrInvalidConfig, taxiload.ExitConfigError},
		{"unsupported auth", taxiload.ErrUnsupportedAuthMethod, taxiload.ExitConfigError},
		{"connection failed", taxiload.ErrConnectionFailed, taxiload.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), taxiload.ExitConnectionError},
		{"unknown flag", errors.New("unknown flag: --foo"), taxiload.ExitUsageError},
		{"invalid argument", errors.New(`invalid argument "abc" for "--port"`), taxiload.ExitUsageError},
		{"general error", errors.New("something went wrong"), taxiload.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taxiload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_JoinedErrorsUseFirstKnownKind(t *testing.T) {
	err := errors.Join(fmt.Errorf("x: %w", taxiload.ErrInvalidConfig), errors.New("other"))
	if got := taxiload.ExitCodeForError(err); got != taxiload.ExitConfigError {
		t.Errorf("ExitCodeForError() = %d, want %d", got, taxiload.ExitConfigError)
	}
}
