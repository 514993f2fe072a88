// Package commands provides the graph-dataloader command line tool.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datacommons/graph-dataloader/internal/cli"
	"github.com/datacommons/graph-dataloader/internal/constants"
	"github.com/datacommons/graph-dataloader/internal/gitrepo"
	"github.com/datacommons/graph-dataloader/internal/loader"
	"github.com/datacommons/graph-dataloader/internal/secrets"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig

	secretsStore secrets.Store
	tagResolver  gitrepo.TagResolver
	newLoader    func(l *slog.Logger, command string) loader.Loader
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	JSONLogs  bool

	Load  loadConfig
	Serve serveConfig
	Props propsConfig
}

type options struct {
	secretsStore secrets.Store
	tagResolver  gitrepo.TagResolver
	newLoader    func(l *slog.Logger, command string) loader.Loader
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New creates a new App instance with default values.
func New(args ...Options) (*App, error) {
	opts := options{
		tagResolver: gitrepo.GitResolver{},
		newLoader: func(l *slog.Logger, command string) loader.Loader {
			return loader.NewExecLoader(l, command)
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		secretsStore: opts.secretsStore,
		tagResolver:  opts.tagResolver,
		newLoader:    opts.newLoader,
	}

	a.cmd = &cobra.Command{
		Use:           constants.CmdName,
		Short:         "Bulk data loading orchestrator for graph model datasets",
		Long: "Graph dataloader derives the loader property file from a declarative graph model, " +
			"checks that the model checkout matches the declared model tag, assembles the run " +
			"configuration and drives the external bulk loader.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			))); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Update logging after loading config if necessary
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	installLoadCmd(&a)
	installPropsCmd(&a)
	installServeCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	a.installVersion()

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "enable JSON formatted logs")
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

func (a *App) installVersion() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns the version of " + constants.CmdName + " and exits",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return getVersion() },
	}
	a.cmd.AddCommand(cmd)
}

// getVersion returns the current program version.
func getVersion() (err error) {
	fmt.Printf("%s\t%s\n", constants.CmdName, constants.Version)
	return nil
}
