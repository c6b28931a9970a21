package taxiload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Ingestion completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration
	ExitConnectionError  = 11 // Failed to connect to database
	ExitNameFormatError  = 20 // Table name lacks <year>_<month> suffix
	ExitSourceReadError  = 21 // Download or decoding failed
	ExitDestinationError = 22 // Creating the table or appending a batch failed
)

const (
	// DefaultBatchSize is the number of rows pulled from the source per batch.
	DefaultBatchSize = 100_000

	// DefaultTable is the destination table used when --table is not given.
	DefaultTable = "yellow_taxi_trips_2021_1"

	// DefaultURLPrefix is the release location of the monthly yellow taxi extracts.
	DefaultURLPrefix = "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/yellow"

	// Connection defaults for the docker-compose setup the loader ships with.
	DefaultUser     = "root"
	DefaultPassword = "root"
	DefaultHost     = "pgdatabase"
	DefaultPort     = 5432
	DefaultDatabase = "ny_taxi"

	// DefaultRetryInitialDelay is the default initial delay before the first connection retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connection retries.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection retries.
	DefaultRetryMaxAttempts = 3

	// AppName is reported to PostgreSQL as application_name.
	AppName = "taxiload"
)
