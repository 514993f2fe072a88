// Package constants is responsible for defining the constants used in the application.
package constants

import "log/slog"

const (
	// CmdName is the name of the command line tool.
	CmdName = "graph-dataloader"

	// Version is the version of the application.
	Version = "Dev"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultPropFileName is the default name of the derived property file.
	DefaultPropFileName = "props_file.yaml"

	// DefaultDomain is the domain value used when the caller does not supply one.
	DefaultDomain = "Unknown.domain.nci.nih.gov"

	// RelPropDelimiter separates composite relationship properties in the target database.
	RelPropDelimiter = "$"

	// LogFolderPrefix is the fixed prefix of the per-run log folder under the runner path.
	LogFolderPrefix = "prefect_c3dc_dataloader"

	// DefaultMaxViolations is the validation violation threshold handed to the loader.
	DefaultMaxViolations = 1000000

	// DefaultDataset is the dataset name used when the caller does not supply one.
	DefaultDataset = "data"

	// DefaultTempFolder is the loader scratch space.
	DefaultTempFolder = "tmp"

	// DefaultBackupFolder is where the loader stores database backups.
	DefaultBackupFolder = "tmp/data-loader-backups"
)

// Keys expected in the secrets manager payload.
const (
	SecretKeyURI    = "neo4j_uri"
	SecretKeyPass   = "neo4j_password"
	SecretKeyBucket = "submission_bucket"
)

// Modes accepted by the external loader.
const (
	ModeUpsert = "upsert"
	ModeNew    = "new"
	ModeDelete = "delete"
)
