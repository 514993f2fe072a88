package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datacommons/graph-dataloader/internal/constants"
	"github.com/datacommons/graph-dataloader/internal/gitrepo"
	"github.com/datacommons/graph-dataloader/internal/loader"
	"github.com/datacommons/graph-dataloader/internal/plugins"
	"github.com/datacommons/graph-dataloader/internal/props"
	"github.com/datacommons/graph-dataloader/internal/runconfig"
	"github.com/datacommons/graph-dataloader/internal/secrets"
)

// loadConfig holds the configuration of one gated load run.
type loadConfig struct {
	SecretName     string
	MetadataFolder string
	Runner         string
	ModelTag       string

	ModelRepo      string
	Schemas        []string
	PropFile       string
	Delimiter      string
	Domain         string
	Dataset        string
	User           string
	TempFolder     string
	BackupFolder   string
	LoaderCommand  string
	PluginRegistry string
	Plugins        []string

	CheatMode        bool
	DryRun           bool
	WipeDB           bool
	Mode             string
	SplitTransaction bool

	// Documented run policy defaults; see the flag help text.
	NoBackup      bool
	NoParents     bool
	AutoConfirm   bool
	MaxViolations int
}

func installLoadCmd(app *App) {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Run one gated bulk data load",
		Long: `Run one bulk data load against the graph database.

The run is aborted unless the model checkout tag matches the declared
model tag. The property file is fully regenerated from the model before
every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running load command")
			return app.loadRun(cmd.Context(), app.config.Load)
		},
	}

	addLoadFlags(loadCmd, &app.config.Load)

	if err := loadCmd.MarkFlagRequired("secret-name"); err != nil {
		panic(fmt.Sprintf("failed to mark secret-name flag as required: %v", err))
	}
	if err := loadCmd.MarkFlagRequired("model-tag"); err != nil {
		panic(fmt.Sprintf("failed to mark model-tag flag as required: %v", err))
	}

	app.cmd.AddCommand(loadCmd)
}

func addLoadFlags(cmd *cobra.Command, config *loadConfig) {
	cmd.Flags().StringVar(&config.SecretName, "secret-name", "", "name of the secret holding the database URI, password and submission bucket")
	cmd.Flags().StringVar(&config.MetadataFolder, "metadata-folder", "", "metadata folder under the submission bucket")
	cmd.Flags().StringVar(&config.Runner, "runner", "", "unique runner name used for the log folder")
	cmd.Flags().StringVar(&config.ModelTag, "model-tag", "", "declared tag of the model to load against")

	cmd.Flags().StringVar(&config.ModelRepo, "model-repo", "../c3dc-model", "path of the model repository checkout")
	cmd.Flags().StringSliceVar(&config.Schemas, "schema", nil, "model schema files (defaults to the model-desc files of the model repository)")
	cmd.Flags().StringVar(&config.PropFile, "prop-file", constants.DefaultPropFileName, "path the derived property file is written to")
	cmd.Flags().StringVar(&config.Delimiter, "delimiter", ";", "delimiter used for composite values in the metadata")
	cmd.Flags().StringVar(&config.Domain, "domain", constants.DefaultDomain, "domain value recorded in the property file")
	cmd.Flags().StringVar(&config.Dataset, "dataset", constants.DefaultDataset, "dataset name")
	cmd.Flags().StringVar(&config.User, "db-user", "neo4j", "database user")
	cmd.Flags().StringVar(&config.TempFolder, "temp-folder", constants.DefaultTempFolder, "loader scratch folder")
	cmd.Flags().StringVar(&config.BackupFolder, "backup-folder", constants.DefaultBackupFolder, "loader backup folder")
	cmd.Flags().StringVar(&config.LoaderCommand, "loader-command", "dataloader", "external loader executable")
	cmd.Flags().StringVar(&config.PluginRegistry, "plugin-registry", "plugins.toml", "plugin registry file")
	cmd.Flags().StringSliceVar(&config.Plugins, "plugin", nil, "loader plugins to enable")

	cmd.Flags().BoolVar(&config.CheatMode, "cheat-mode", false, "skip data validation during loading")
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "validate only, do not write to the database")
	cmd.Flags().BoolVar(&config.WipeDB, "wipe-db", false, "wipe the entire database before loading")
	cmd.Flags().StringVar(&config.Mode, "mode", constants.ModeUpsert, "data loading mode (upsert, new or delete)")
	cmd.Flags().BoolVar(&config.SplitTransaction, "split-transaction", false, "split the load into multiple transactions")

	// These defaults reproduce the established run policy of the hosted
	// deployment; they are deliberately explicit flags rather than hidden
	// overrides.
	cmd.Flags().BoolVar(&config.NoBackup, "no-backup", true, "skip the database backup before loading")
	cmd.Flags().BoolVar(&config.NoParents, "no-parents", true, "skip parent node resolution")
	cmd.Flags().BoolVar(&config.AutoConfirm, "yes", true, "automatically confirm destructive operations")
	cmd.Flags().IntVar(&config.MaxViolations, "max-violations", constants.DefaultMaxViolations, "maximum number of validation violations to report")
}

// loadRun executes one gated load run: secret lookup, version guard,
// property derivation, configuration assembly and the loader invocation.
// Everything runs strictly sequentially; nothing is retried at this layer.
func (a *App) loadRun(ctx context.Context, cfg loadConfig) error {
	l := slog.Default()

	store := a.secretsStore
	if store == nil {
		var err error
		store, err = secrets.NewAWSStore(ctx)
		if err != nil {
			return err
		}
	}

	l.Info("Getting load credentials", "secret", cfg.SecretName)
	creds, err := store.Get(ctx, cfg.SecretName)
	if err != nil {
		return err
	}

	// Hard gate: a model checkout that does not match the declared tag
	// must never be loaded against.
	guard := gitrepo.NewGuard(l, a.tagResolver)
	if err := guard.Check(ctx, cfg.ModelTag, cfg.ModelRepo); err != nil {
		return err
	}

	schemas := cfg.Schemas
	if len(schemas) == 0 {
		schemas = []string{
			filepath.Join(cfg.ModelRepo, "model-desc", "c3dc-model.yml"),
			filepath.Join(cfg.ModelRepo, "model-desc", "c3dc-model-props.yml"),
		}
	}

	propFile, err := props.New(l).Generate(schemas[0], cfg.Delimiter, cfg.Domain, cfg.PropFile)
	if err != nil {
		return err
	}

	registry, err := plugins.LoadRegistry(cfg.PluginRegistry)
	if err != nil {
		return err
	}

	runCfg := runconfig.New(l).Assemble(runconfig.Params{
		Dataset:        cfg.Dataset,
		URI:            creds.URI,
		User:           cfg.User,
		Password:       creds.Password,
		Schemas:        schemas,
		PropFile:       propFile,
		Bucket:         creds.SubmissionBucket,
		MetadataFolder: cfg.MetadataFolder,
		Runner:         cfg.Runner,
		BackupFolder:   cfg.BackupFolder,
		TempFolder:     cfg.TempFolder,

		CheatMode:         cfg.CheatMode,
		DryRun:            cfg.DryRun,
		WipeDB:            cfg.WipeDB,
		NoBackup:          cfg.NoBackup,
		NoParents:         cfg.NoParents,
		Verbose:           a.config.Verbosity > 0,
		AutoConfirm:       cfg.AutoConfirm,
		SplitTransactions: cfg.SplitTransaction,

		MaxViolations: cfg.MaxViolations,
		Mode:          cfg.Mode,

		Plugins:        cfg.Plugins,
		PluginRegistry: registry,
	})

	orch := loader.NewOrchestrator(l, a.newLoader(l, cfg.LoaderCommand))
	logDir, err := orch.Run(ctx, runCfg)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Printf("log files can be found in the s3 location %s\n", logDir)
	return nil
}
