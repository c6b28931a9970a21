package taxiload

import (
	"errors"
	"fmt"
	"time"
)

// IngestConfig contains all parameters needed for one ingestion run.
type IngestConfig struct {
	// Table is the destination table; its last two underscore-separated
	// segments select the year and month to download.
	Table string

	// BatchSize is the number of rows read and appended per batch.
	BatchSize int

	// URLPrefix is the location the monthly extract file name is appended to.
	URLPrefix string

	// Source overrides the derived URL (http(s) URL, file:// URL or local path).
	Source string

	// SQLitePath selects a SQLite database file as the destination instead of PostgreSQL.
	SQLitePath string

	// Connection holds the resolved PostgreSQL connection parameters.
	// Ignored when SQLitePath is set.
	Connection *ConnectionConfig

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the IngestConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *IngestConfig) Validate() error {
	var errs []error

	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d: %w", c.BatchSize, ErrInvalidConfig))
	}

	if c.Source == "" && c.URLPrefix == "" {
		errs = append(errs, fmt.Errorf("URLPrefix is required when no source override is given: %w", ErrInvalidConfig))
	}

	if c.SQLitePath == "" && c.Connection == nil {
		errs = append(errs, fmt.Errorf("Connection is required for a PostgreSQL destination: %w", ErrInvalidConfig))
	}

	if c.SQLitePath == "" && c.Connection != nil && !c.Connection.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("%v: %w", c.Connection.AuthMethod, ErrUnsupportedAuthMethod))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	// used with AuthMethodGoogleIAM.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
