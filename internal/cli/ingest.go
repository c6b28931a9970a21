package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/taxiload/internal/config"
	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/internal/loader"
	"github.com/vvka-141/taxiload/internal/logging"
	"github.com/vvka-141/taxiload/internal/source"
	"github.com/vvka-141/taxiload/internal/tui"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

type ingestOptions struct {
	// Connection
	connection string
	host       string
	port       int
	username   string
	password   string
	database   string
	sslMode    string

	// Cloud authentication
	azure          bool
	azureTenantID  string
	azureClientID  string
	awsRegion      string
	googleInstance string

	// Load
	table      string
	batchSize  int
	urlPrefix  string
	source     string
	sqlitePath string
	configPath string
	timeout    time.Duration
}

func (o *ingestOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()

	f.StringVar(&o.connection, "connection", "",
		"PostgreSQL connection string (URI or ADO.NET format)\n"+
			"Cannot be combined with --host, --port, --user, --password or --sslmode")
	f.StringVar(&o.host, "host", "", "PostgreSQL host (default \"pgdatabase\", env PGHOST)")
	f.IntVar(&o.port, "port", 0, "PostgreSQL port (default 5432, env PGPORT)")
	f.StringVar(&o.username, "user", "", "PostgreSQL user (default \"root\", env PGUSER)")
	f.StringVar(&o.password, "password", "", "PostgreSQL password (default \"root\", env PGPASSWORD)")
	f.StringVar(&o.database, "db", "", "Database name (default \"ny_taxi\", env PGDATABASE)\n"+
		"Overrides the database of --connection")
	f.StringVar(&o.sslMode, "sslmode", "", "SSL mode: disable, allow, prefer, require, verify-ca, verify-full")

	f.BoolVar(&o.azure, "azure", false, "Authenticate with Azure Entra ID")
	f.StringVar(&o.azureTenantID, "azure-tenant-id", "", "Azure tenant ID (env AZURE_TENANT_ID)")
	f.StringVar(&o.azureClientID, "azure-client-id", "", "Azure client ID (env AZURE_CLIENT_ID)")
	f.StringVar(&o.awsRegion, "aws-region", "", "Authenticate with AWS RDS IAM in this region")
	f.StringVar(&o.googleInstance, "google-instance", "",
		"Authenticate with Google Cloud SQL IAM (project:region:instance)")

	f.StringVar(&o.table, "table", taxiload.DefaultTable,
		"Destination table; must end in <year>_<month>")
	f.IntVar(&o.batchSize, "batch-size", taxiload.DefaultBatchSize, "Rows per batch")
	f.StringVar(&o.urlPrefix, "url-prefix", taxiload.DefaultURLPrefix,
		"Location the monthly file name is appended to")
	f.StringVar(&o.source, "source", "",
		"Read from this URL, file:// URL or local path instead of the derived URL")
	f.StringVar(&o.sqlitePath, "sqlite", "", "Load into this SQLite database file instead of PostgreSQL")
	f.StringVar(&o.configPath, "config", config.ConfigFileName, "Config file (optional)")
	f.DurationVar(&o.timeout, "timeout", 0,
		"Abort the run after this long (0 means no limit)\nExamples: 30s, 5m, 1h30m")
}

func (o *ingestOptions) run(cmd *cobra.Command) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	_ = godotenv.Load()

	cfg, err := o.buildIngestConfig(cmd, db.LoadFromEnvironment(), verbose)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.New()
	logger.Verbose("Run %s", runID)
	if cfg.Connection != nil {
		cfg.Connection.AppName = fmt.Sprintf("%s-%s", taxiload.AppName, runID)
		logConnectionVerbose(logger, cfg.Connection)
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	ctx, stop := withInterrupt(ctx)
	defer stop()

	l := loader.New(
		source.NewOpener(nil),
		destinationFunc(cfg, logger),
		tui.NewProgress(tui.DetectMode(), os.Stdout, logger),
		logger,
	)

	_, err = l.Run(ctx, loader.Job{
		Table:     cfg.Table,
		BatchSize: cfg.BatchSize,
		URLPrefix: cfg.URLPrefix,
		Source:    cfg.Source,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// buildIngestConfig applies flag > config file > default precedence to the load
// settings and resolves the PostgreSQL connection unless --sqlite is set.
func (o *ingestOptions) buildIngestConfig(cmd *cobra.Command, env *db.EnvVars, verbose bool) (taxiload.IngestConfig, error) {
	fileCfg, err := o.loadFileConfig(cmd)
	if err != nil {
		return taxiload.IngestConfig{}, err
	}
	if fileCfg == nil {
		fileCfg = &config.FileConfig{}
	}

	changed := cmd.Flags().Changed
	cfg := taxiload.IngestConfig{
		Table:      o.table,
		BatchSize:  o.batchSize,
		URLPrefix:  o.urlPrefix,
		Source:     o.source,
		SQLitePath: o.sqlitePath,
		Timeout:    o.timeout,
		Verbose:    verbose,
	}
	if !changed("table") && fileCfg.Table != "" {
		cfg.Table = fileCfg.Table
	}
	if !changed("batch-size") && fileCfg.BatchSize > 0 {
		cfg.BatchSize = fileCfg.BatchSize
	}
	if !changed("url-prefix") && fileCfg.URLPrefix != "" {
		cfg.URLPrefix = fileCfg.URLPrefix
	}
	if !changed("sqlite") && fileCfg.SQLite != "" {
		cfg.SQLitePath = fileCfg.SQLite
	}
	if !changed("timeout") && fileCfg.Timeout != "" {
		// Load already rejected malformed durations.
		cfg.Timeout, _ = fileCfg.TimeoutDuration()
	}

	if cfg.SQLitePath != "" {
		return cfg, nil
	}

	conn, err := resolveConnection(o, env, &fileCfg.Connection)
	if err != nil {
		return taxiload.IngestConfig{}, err
	}
	cfg.Connection = conn
	return cfg, nil
}

// loadFileConfig returns nil when the default config file does not exist.
// A missing file named explicitly with --config is an error.
func (o *ingestOptions) loadFileConfig(cmd *cobra.Command) (*config.FileConfig, error) {
	fileCfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !cmd.Flags().Changed("config") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", o.configPath, err, taxiload.ErrInvalidConfig)
	}
	return fileCfg, nil
}

func destinationFunc(cfg taxiload.IngestConfig, logger taxiload.Logger) loader.DestinationFunc {
	if cfg.SQLitePath != "" {
		return func(ctx context.Context) (loader.Destination, error) {
			d, err := db.OpenSQLite(ctx, cfg.SQLitePath)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	}
	return func(ctx context.Context) (loader.Destination, error) {
		connector, err := db.NewConnector(cfg.Connection, logger)
		if err != nil {
			return nil, err
		}
		d, err := db.OpenPostgres(ctx, connector)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// withInterrupt cancels ctx on Ctrl+C or SIGTERM.
func withInterrupt(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling ingestion...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
