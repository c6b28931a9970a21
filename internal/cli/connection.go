package cli

import (
	"github.com/vvka-141/taxiload/internal/config"
	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// resolveConnection turns the connection and cloud flags into a ConnectionConfig,
// falling back to env and then to the config file's connection section.
func resolveConnection(o *ingestOptions, env *db.EnvVars, file *config.ConnectionConfig) (*taxiload.ConnectionConfig, error) {
	granular := &db.GranularConnFlags{
		Host:     o.host,
		Port:     o.port,
		Username: o.username,
		Password: o.password,
		Database: o.database,
		SSLMode:  o.sslMode,
	}
	cloud := &db.CloudFlags{
		Azure:          o.azure,
		AzureTenantID:  o.azureTenantID,
		AzureClientID:  o.azureClientID,
		AWSRegion:      o.awsRegion,
		GoogleInstance: o.googleInstance,
	}
	return db.ResolveConnectionParams(o.connection, granular, cloud, env, file)
}

// logConnectionVerbose logs connection details with the password masked.
func logConnectionVerbose(logger taxiload.Logger, cfg *taxiload.ConnectionConfig) {
	logger.Verbose("Connection resolved: %s", db.Redact(cfg))
	logger.Verbose("  Auth Method: %s", cfg.AuthMethod)
}
