package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/taxiload/internal/logging"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

type fakeTokenProvider struct {
	calls int
	err   error
}

func (f *fakeTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	f.calls++
	return "token", time.Now().Add(time.Hour), f.err
}

func (f *fakeTokenProvider) String() string { return "fake" }

func testConfig() *taxiload.ConnectionConfig {
	return &taxiload.ConnectionConfig{
		Host: "db.example.com", Port: 5432, Database: "ny_taxi", Username: "root", SSLMode: "require",
	}
}

func TestNewConnector(t *testing.T) {
	logger := logging.NewNullLogger()

	t.Run("standard", func(t *testing.T) {
		c, err := NewConnector(testConfig(), logger)
		require.NoError(t, err)
		assert.IsType(t, &StandardConnector{}, c)
	})

	t.Run("aws", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethodAWSIAM
		cfg.AWSRegion = "us-east-1"
		c, err := NewConnector(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &TokenBasedConnector{}, c)
	})

	t.Run("aws without region", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethodAWSIAM
		_, err := NewConnector(cfg, logger)
		assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
	})

	t.Run("azure service principal", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethodAzureEntraID
		cfg.AzureTenantID = "00000000-0000-0000-0000-000000000001"
		cfg.AzureClientID = "00000000-0000-0000-0000-000000000002"
		cfg.AzureClientSecret = "secret"
		c, err := NewConnector(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &TokenBasedConnector{}, c)
	})

	t.Run("google", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethodGoogleIAM
		cfg.GoogleInstance = "project:region:instance"
		c, err := NewConnector(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &GoogleCloudSQLConnector{}, c)
	})

	t.Run("google without instance", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethodGoogleIAM
		_, err := NewConnector(cfg, logger)
		assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthMethod = taxiload.AuthMethod(42)
		_, err := NewConnector(cfg, logger)
		assert.ErrorIs(t, err, taxiload.ErrUnsupportedAuthMethod)
		assert.Equal(t, taxiload.ExitConfigError, taxiload.ExitCodeForError(err))
	})
}

func TestTokenBasedConnector_TokenFailureIsNotRetried(t *testing.T) {
	provider := &fakeTokenProvider{err: errors.New("credentials expired")}
	c := NewTokenBasedConnector(testConfig(), provider, "Fake", logging.NewNullLogger())

	_, err := c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, taxiload.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "failed to acquire Fake token")
	assert.Equal(t, 1, provider.calls)
}

func TestStandardConnector_RespectsContextTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Host = "nonexistent.invalid"
	c := NewStandardConnector(cfg, logging.NewNullLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Connect(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, taxiload.ErrConnectionFailed)
	assert.Less(t, time.Since(start), 5*time.Second)
}
