// Package loader invokes the external bulk loader for one assembled run
// configuration.
//
// The loader itself is an opaque collaborator: it is called exactly once,
// synchronously, with no retry and no timeout at this layer, and its
// failures are surfaced to the caller unmodified.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/datacommons/graph-dataloader/internal/fileutils"
	"github.com/datacommons/graph-dataloader/internal/runconfig"
)

// Loader performs the actual data ingestion for one run configuration.
type Loader interface {
	Load(ctx context.Context, cfg runconfig.RunConfiguration) error
}

// Orchestrator drives a single load attempt.
type Orchestrator struct {
	loader Loader
	log    *slog.Logger
}

// NewOrchestrator returns an Orchestrator invoking the given loader.
func NewOrchestrator(l *slog.Logger, ldr Loader) *Orchestrator {
	return &Orchestrator{loader: ldr, log: l}
}

// Run invokes the loader exactly once with cfg and returns the configured
// upload log location on success. Loader failures are propagated as is.
func (o *Orchestrator) Run(ctx context.Context, cfg runconfig.RunConfiguration) (string, error) {
	o.log.Info("Starting data load", "run_id", cfg.RunID, "dataset", cfg.Dataset, "mode", cfg.Mode)

	if err := o.loader.Load(ctx, cfg); err != nil {
		return "", err
	}

	o.log.Info("Data load finished", "run_id", cfg.RunID, "upload_log_dir", cfg.UploadLogDir)
	return cfg.UploadLogDir, nil
}

// ExecLoader runs an external loader program, handing it the run
// configuration as a YAML file.
type ExecLoader struct {
	// Command is the path of the loader executable.
	Command string

	log *slog.Logger
}

// NewExecLoader returns an ExecLoader invoking command.
func NewExecLoader(l *slog.Logger, command string) *ExecLoader {
	return &ExecLoader{Command: command, log: l}
}

// Load writes cfg to a configuration file in the run's temp folder and
// execs the loader with it, streaming its output. A non-zero exit is
// returned unmodified.
func (e *ExecLoader) Load(ctx context.Context, cfg runconfig.RunConfiguration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not encode loader configuration: %v", err)
	}

	if cfg.TempFolder != "" {
		if err := os.MkdirAll(cfg.TempFolder, 0750); err != nil {
			return fmt.Errorf("could not create temp folder: %w", err)
		}
	}

	cfgPath := filepath.Join(cfg.TempFolder, fmt.Sprintf("loader_config_%s.yaml", cfg.RunID))
	if err := fileutils.AtomicWrite(cfgPath, data); err != nil {
		return fmt.Errorf("could not write loader configuration: %w", err)
	}

	e.log.Info("Invoking external loader", "command", e.Command, "config", cfgPath)

	c := exec.CommandContext(ctx, e.Command, "--config", cfgPath)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
