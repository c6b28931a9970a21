package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/taxiload/internal/retry"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// tokenExpiryWarning is how close to expiry a fresh token must be before a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector authenticates with a token from a TokenProvider (AWS IAM, Azure Entra ID).
// A fresh token is requested for every connection attempt.
type TokenBasedConnector struct {
	config        *taxiload.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        taxiload.Logger
	retryExecutor *retry.Executor
}

// NewTokenBasedConnector returns a connector using tokenProvider.
// providerName appears in log and error messages.
func NewTokenBasedConnector(config *taxiload.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger taxiload.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		retryExecutor: retry.NewConnectionExecutor(logger),
	}
}

// Connect fetches a fresh token and opens a pool that uses it as the password.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	c.logger.Verbose("Using %s", c.tokenProvider)

	var pool *pgxpool.Pool
	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w: %w", c.providerName, taxiload.ErrConnectionFailed, err)
		}
		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		withToken := *c.config
		withToken.Password = token

		pool, err = openPool(ctx, BuildConnectionString(&withToken), c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, asConnectionError(err)
	}
	return pool, nil
}
