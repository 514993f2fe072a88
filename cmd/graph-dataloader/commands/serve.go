package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/datacommons/graph-dataloader/internal/trigger"
)

// serveConfig holds the configuration of the serve command.
type serveConfig struct {
	TriggerDir string
}

func installServeCmd(app *App) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch a trigger directory and run requested loads",
		Long: `Watch a trigger directory for load request files and run each
requested load sequentially.

A request file is a YAML document carrying the secret name, metadata
folder, runner, declared model tag and mode flags of one load run. Load
settings not present in the request (model repository, loader command,
run policy) come from the load flags and configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running serve command", "trigger_dir", app.config.Serve.TriggerDir)
			return app.serveRun(cmd.Context())
		},
	}

	serveCmd.Flags().StringVar(&app.config.Serve.TriggerDir, "trigger-dir", "triggers", "directory watched for load request files")
	addLoadFlags(serveCmd, &app.config.Load)

	if err := serveCmd.MarkFlagDirname("trigger-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark trigger-dir flag as directory: %v", err))
	}

	app.cmd.AddCommand(serveCmd)
}

// serveRun watches the trigger directory and executes requested loads one
// at a time. A failed run is logged and does not stop the watcher.
func (a *App) serveRun(ctx context.Context) error {
	w := trigger.New(slog.Default(), a.config.Serve.TriggerDir)
	requests, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return err
		case req, ok := <-requests:
			if !ok {
				return nil
			}

			cfg := a.config.Load
			cfg.SecretName = req.SecretName
			cfg.MetadataFolder = req.MetadataFolder
			cfg.Runner = req.Runner
			cfg.ModelTag = req.ModelTag
			cfg.CheatMode = req.CheatMode
			cfg.DryRun = req.DryRun
			cfg.WipeDB = req.WipeDB
			if req.Mode != "" {
				cfg.Mode = req.Mode
			}
			cfg.SplitTransaction = req.SplitTransaction

			if err := a.loadRun(ctx, cfg); err != nil {
				slog.Error("Load run failed", "runner", cfg.Runner, "error", err)
			}
		}
	}
}
