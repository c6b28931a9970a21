package taxiload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func TestIngestConfig_Validate(t *testing.T) {
	conn := &taxiload.ConnectionConfig{Host: "localhost", Port: 5432, Database: "ny_taxi"}

	tests := []struct {
		name      string
		config    taxiload.IngestConfig
		wantError bool
	}{
		{
			name: "valid postgres config",
			config: taxiload.IngestConfig{
				Table:      "yellow_taxi_trips_2021_1",
				BatchSize:  100,
				URLPrefix:  taxiload.DefaultURLPrefix,
				Connection: conn,
			},
		},
		{
			name: "valid sqlite config with source override",
			config: taxiload.IngestConfig{
				Table:      "trips_2021_1",
				BatchSize:  10,
				Source:     "./data.csv.gz",
				SQLitePath: "taxi.db",
			},
		},
		{
			name:      "missing table",
			config:    taxiload.IngestConfig{BatchSize: 1, URLPrefix: "x", Connection: conn},
			wantError: true,
		},
		{
			name:      "zero batch size",
			config:    taxiload.IngestConfig{Table: "t_2021_1", URLPrefix: "x", Connection: conn},
			wantError: true,
		},
		{
			name:      "no source and no prefix",
			config:    taxiload.IngestConfig{Table: "t_2021_1", BatchSize: 1, Connection: conn},
			wantError: true,
		},
		{
			name:      "no destination",
			config:    taxiload.IngestConfig{Table: "t_2021_1", BatchSize: 1, URLPrefix: "x"},
			wantError: true,
		},
		{
			name: "negative timeout",
			config: taxiload.IngestConfig{
				Table: "t_2021_1", BatchSize: 1, URLPrefix: "x", Connection: conn,
				Timeout: -time.Second,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !errors.Is(err, taxiload.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestIngestConfig_Validate_UnknownAuthMethod(t *testing.T) {
	cfg := taxiload.IngestConfig{
		Table:      "t_2021_1",
		BatchSize:  1,
		URLPrefix:  "x",
		Connection: &taxiload.ConnectionConfig{AuthMethod: taxiload.AuthMethod(42)},
	}
	err := cfg.Validate()
	if !errors.Is(err, taxiload.ErrUnsupportedAuthMethod) {
		t.Fatalf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
	if code := taxiload.ExitCodeForError(err); code != taxiload.ExitConfigError {
		t.Errorf("expected exit code %d, got %d", taxiload.ExitConfigError, code)
	}
}

func TestIngestConfig_Validate_ReportsEveryFailure(t *testing.T) {
	cfg := taxiload.IngestConfig{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 4 {
		t.Errorf("expected 4 failures, got %d: %v", n, err)
	}
}

func TestAuthMethod_String(t *testing.T) {
	cases := map[taxiload.AuthMethod]string{
		taxiload.AuthMethodStandard:     "Standard",
		taxiload.AuthMethodAWSIAM:       "AWS IAM",
		taxiload.AuthMethodGoogleIAM:    "Google IAM",
		taxiload.AuthMethodAzureEntraID: "Azure Entra ID",
		taxiload.AuthMethod(42):         "Unknown(42)",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", int(m), got, want)
		}
	}
	if taxiload.AuthMethod(42).IsValid() {
		t.Error("AuthMethod(42) should not be valid")
	}
}
