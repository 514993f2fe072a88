// Package runconfig assembles the complete, immutable parameter set
// governing one load attempt.
//
// One RunConfiguration corresponds to exactly one loader invocation; it is
// built from the secret material, storage locations, timestamps and
// operator flags, and never mutated afterwards.
package runconfig

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datacommons/graph-dataloader/internal/constants"
	"github.com/datacommons/graph-dataloader/internal/plugins"
)

// est matches the fixed-offset EST zone the log folder convention was
// defined with. Deliberately not DST-aware.
var est = time.FixedZone("EST", -5*60*60)

const timestampLayout = "20060102_T150405"

// Params are the caller-supplied inputs of one load attempt. Flag values
// are passed through verbatim; range and enumeration checks are the
// external loader's responsibility.
type Params struct {
	Dataset        string
	URI            string
	User           string
	Password       string
	Schemas        []string
	PropFile       string
	Bucket         string
	MetadataFolder string
	Runner         string
	BackupFolder   string
	TempFolder     string

	CheatMode         bool
	DryRun            bool
	WipeDB            bool
	NoBackup          bool
	NoParents         bool
	Verbose           bool
	AutoConfirm       bool
	SplitTransactions bool

	MaxViolations int
	Mode          string

	Plugins        []string
	PluginRegistry plugins.Registry
}

// RunConfiguration is the immutable configuration of one load attempt.
// Field order and names match the configuration document consumed by the
// external loader.
type RunConfiguration struct {
	RunID             string           `yaml:"run_id"`
	Dataset           string           `yaml:"dataset"`
	URI               string           `yaml:"uri"`
	User              string           `yaml:"user"`
	Password          string           `yaml:"password"`
	Schemas           []string         `yaml:"schema"`
	PropFile          string           `yaml:"prop_file"`
	Bucket            string           `yaml:"bucket"`
	S3Folder          string           `yaml:"s3_folder"`
	BackupFolder      string           `yaml:"backup_folder"`
	CheatMode         bool             `yaml:"cheat_mode"`
	DryRun            bool             `yaml:"dry_run"`
	WipeDB            bool             `yaml:"wipe_db"`
	NoBackup          bool             `yaml:"no_backup"`
	NoParents         bool             `yaml:"no_parents"`
	Verbose           bool             `yaml:"verbose"`
	Yes               bool             `yaml:"yes"`
	MaxViolations     int              `yaml:"max_violations"`
	Mode              string           `yaml:"mode"`
	SplitTransactions bool             `yaml:"split_transactions"`
	UploadLogDir      string           `yaml:"upload_log_dir"`
	Plugins           []plugins.Config `yaml:"plugins"`
	TempFolder        string           `yaml:"temp_folder"`
}

// Assembler builds run configurations. The clock is injectable so derived
// log folder names are deterministic under test.
type Assembler struct {
	now func() time.Time
	log *slog.Logger
}

// Option overrides Assembler defaults.
type Option func(*Assembler)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// New returns an Assembler using the wall clock.
func New(l *slog.Logger, opts ...Option) *Assembler {
	a := &Assembler{now: time.Now, log: l}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble derives the storage and log destinations from p and returns the
// run configuration. Each call mints a fresh run ID.
func (a *Assembler) Assemble(p Params) RunConfiguration {
	runID := uuid.NewString()
	logFolder := fmt.Sprintf("%s_%s", constants.LogFolderPrefix, a.Timestamp())

	cfg := RunConfiguration{
		RunID:             runID,
		Dataset:           p.Dataset,
		URI:               p.URI,
		User:              p.User,
		Password:          p.Password,
		Schemas:           p.Schemas,
		PropFile:          p.PropFile,
		Bucket:            p.Bucket,
		S3Folder:          normalizeFolder(p.MetadataFolder),
		BackupFolder:      p.BackupFolder,
		CheatMode:         p.CheatMode,
		DryRun:            p.DryRun,
		WipeDB:            p.WipeDB,
		NoBackup:          p.NoBackup,
		NoParents:         p.NoParents,
		Verbose:           p.Verbose,
		Yes:               p.AutoConfirm,
		MaxViolations:     p.MaxViolations,
		Mode:              p.Mode,
		SplitTransactions: p.SplitTransactions,
		UploadLogDir:      UploadLogDir(p.Bucket, p.Runner, logFolder),
		Plugins:           plugins.Wrap(p.Plugins, p.PluginRegistry),
		TempFolder:        p.TempFolder,
	}

	a.log.Info("Assembled run configuration", "run_id", runID, "dataset", cfg.Dataset, "mode", cfg.Mode, "upload_log_dir", cfg.UploadLogDir)
	return cfg
}

// Timestamp returns the current time in the fixed EST zone at whole-second
// precision, formatted for log folder names.
func (a *Assembler) Timestamp() string {
	return a.now().In(est).Format(timestampLayout)
}

// UploadLogDir builds the s3://{bucket}/{runner}/{logFolder}/logs
// destination. Trailing separators on runner are normalized away, so
// "batch1/" and "batch1" yield identical destinations.
func UploadLogDir(bucket, runner, logFolder string) string {
	return fmt.Sprintf("s3://%s/%s/%s/logs", bucket, strings.TrimRight(runner, "/"), logFolder)
}

// normalizeFolder ensures a folder-like input carries exactly one trailing
// separator.
func normalizeFolder(folder string) string {
	if folder == "" {
		return folder
	}
	return strings.TrimRight(folder, "/") + "/"
}
