package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/taxiload/internal/retry"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

const (
	// DefaultMaxConns is one: the load reads and writes on a single path.
	DefaultMaxConns = 1

	// DefaultMaxConnIdleTime keeps the connection open between slow batches.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger taxiload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("NOTICE: %s", notice.Message)
	}
}

// openPool parses connStr, opens a pool and pings it.
func openPool(ctx context.Context, connStr string, cfg *taxiload.ConnectionConfig, logger taxiload.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", err, taxiload.ErrInvalidConfig)
	}
	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
	}
	return pool, nil
}

// StandardConnector connects with username and password, retrying transient failures.
type StandardConnector struct {
	config        *taxiload.ConnectionConfig
	logger        taxiload.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector returns a StandardConnector for config.
func NewStandardConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: retry.NewConnectionExecutor(logger),
	}
}

// Connect opens a pool and verifies it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := BuildConnectionString(c.config)

	var pool *pgxpool.Pool
	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, connStr, c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, asConnectionError(err)
	}
	return pool, nil
}

// asConnectionError makes sure a failed Connect maps to ErrConnectionFailed,
// including when the context ends between retries.
func asConnectionError(err error) error {
	if errors.Is(err, taxiload.ErrConnectionFailed) || errors.Is(err, taxiload.ErrInvalidConfig) {
		return err
	}
	return fmt.Errorf("%w: %w", taxiload.ErrConnectionFailed, err)
}

// NewConnector returns the Connector for config.AuthMethod.
func NewConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	switch config.AuthMethod {
	case taxiload.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case taxiload.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case taxiload.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case taxiload.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, taxiload.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError rewrites common pgx connection failures with hints.
// The result always wraps ErrConnectionFailed and the original error.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port (the default host "pgdatabase" only resolves inside docker-compose)

%w: %w`, addr, host, port, taxiload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - Running outside docker-compose with the default host (use --host localhost)

%w: %w`, host, taxiload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check --password or $PGPASSWORD)
  - Wrong username

%w: %w`, database, taxiload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

%w: %w`, database, database, taxiload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

%w: %w`, addr, taxiload.ErrConnectionFailed, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`SSL/TLS connection error (check --sslmode)

%w: %w`, taxiload.ErrConnectionFailed, err)

	default:
		return fmt.Errorf("failed to connect to database: %w: %w", taxiload.ErrConnectionFailed, err)
	}
}

func newAWSConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w: %w", err, taxiload.ErrInvalidConfig)
	}
	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

func newGoogleConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", taxiload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --user: %w", taxiload.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, logger), nil
}

// newAzureConnector uses Service Principal credentials when tenant, client
// and secret are all known, and the DefaultAzureCredential chain otherwise.
func newAzureConnector(config *taxiload.ConnectionConfig, logger taxiload.Logger) (taxiload.Connector, error) {
	var (
		tokenProvider TokenProvider
		err           error
	)
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}
	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
